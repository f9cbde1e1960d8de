package postgres

import (
	"context"
	"fmt"

	"github.com/Leopold1975/recipes_control/internal/pkg/pgtools"
	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	"github.com/Leopold1975/recipes_control/internal/recipes/repository/attrrepo"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AttrsPostgresRepo stores one attribute kind: tags or ingredients.
type AttrsPostgresRepo struct {
	db    *pgxpool.Pool
	table attrrepo.Table
}

func New(db *pgxpool.Pool, kind models.AttrKind) AttrsPostgresRepo {
	return AttrsPostgresRepo{
		db:    db,
		table: attrrepo.TableFor(kind),
	}
}

func (ar AttrsPostgresRepo) CreateAttr(ctx context.Context, a models.Attr) (id int, err error) { //nolint:nonamedreturns
	tx, err := ar.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create")
	}()

	query, args, err := pgtools.Builder.Insert(ar.table.Name).
		Columns("name", "user_id").
		Values(a.Name, a.UserID).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

// ListAttrs returns the user's rows ordered by name descending. With
// AssignedOnly only rows linked to at least one of the user's recipes are
// returned, each once.
func (ar AttrsPostgresRepo) ListAttrs(ctx context.Context, req attrrepo.ListRequest) ([]models.Attr, error) {
	query, args, err := ar.listQuery(req)
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	return ar.query(ctx, query, args)
}

func (ar AttrsPostgresRepo) listQuery(req attrrepo.ListRequest) (string, []interface{}, error) {
	sb := pgtools.Builder.Select("a.id", "a.name", "a.user_id").
		From(ar.table.Name + " a").
		Where(squirrel.Eq{"a.user_id": req.UserID})

	if req.AssignedOnly {
		sb = sb.Distinct().
			Join(fmt.Sprintf("%s l ON l.%s = a.id", ar.table.Link, ar.table.LinkColumn)).
			Join("recipes r ON r.id = l.recipe_id").
			Where(squirrel.Eq{"r.user_id": req.UserID})
	}

	return sb.OrderBy("a.name DESC", "a.id DESC").ToSql() //nolint:wrapcheck
}

// GetAttrsByIDs returns those of ids that exist and belong to the user.
func (ar AttrsPostgresRepo) GetAttrsByIDs(ctx context.Context, userID int, ids []int) ([]models.Attr, error) {
	if len(ids) == 0 {
		return []models.Attr{}, nil
	}

	query, args, err := pgtools.Builder.Select("a.id", "a.name", "a.user_id").
		From(ar.table.Name+" a").
		Where(squirrel.Eq{"a.user_id": userID}).
		Where("a.id = ANY(?)", ids).
		OrderBy("a.id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	return ar.query(ctx, query, args)
}

func (ar AttrsPostgresRepo) query(ctx context.Context, query string, args []interface{}) ([]models.Attr, error) {
	rows, err := ar.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	attrs := make([]models.Attr, 0, 10) //nolint:gomnd

	for rows.Next() {
		var a models.Attr

		if err := rows.Scan(&a.ID, &a.Name, &a.UserID); err != nil {
			return nil, fmt.Errorf("scan error %w", err)
		}

		attrs = append(attrs, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return attrs, nil
}
