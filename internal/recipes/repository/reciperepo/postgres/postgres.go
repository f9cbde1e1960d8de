package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/recipes_control/internal/pkg/pgtools"
	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	"github.com/Leopold1975/recipes_control/internal/recipes/repository/attrrepo"
	repo "github.com/Leopold1975/recipes_control/internal/recipes/repository/reciperepo"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type RecipesPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) RecipesPostgresRepo {
	return RecipesPostgresRepo{
		db: db,
	}
}

// CreateRecipe inserts the recipe and its tag and ingredient links in one
// transaction. Only the IDs of r.Tags and r.Ingredients are used.
func (rr RecipesPostgresRepo) CreateRecipe(ctx context.Context, //nolint:nonamedreturns
	r models.Recipe,
) (id int, err error) {
	tx, err := rr.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create")
	}()

	query, args, err := pgtools.Builder.Insert("recipes").
		Columns("title", "time_minutes", "price", "link", "user_id").
		Values(r.Title, r.TimeMinutes, r.Price.StringFixed(2), r.Link, r.UserID). //nolint:gomnd
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	if err = insertLinks(ctx, tx, attrrepo.TableFor(models.KindTag), id, r.Tags); err != nil {
		return 0, err
	}

	if err = insertLinks(ctx, tx, attrrepo.TableFor(models.KindIngredient), id, r.Ingredients); err != nil {
		return 0, err
	}

	return id, nil
}

func (rr RecipesPostgresRepo) ListRecipes(ctx context.Context, //nolint:nonamedreturns
	req repo.ListRequest,
) (recipes []models.Recipe, err error) {
	tx, err := rr.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list")
	}()

	sb := pgtools.Builder.Select("r.id", "r.title", "r.time_minutes", "r.price::text", "r.link", "r.user_id").
		From("recipes r").
		Where(squirrel.Eq{"r.user_id": req.UserID})

	if len(req.TagIDs) != 0 {
		sb = sb.Where(linkedTo(attrrepo.TableFor(models.KindTag)), req.TagIDs)
	}

	if len(req.IngredientIDs) != 0 {
		sb = sb.Where(linkedTo(attrrepo.TableFor(models.KindIngredient)), req.IngredientIDs)
	}

	query, args, err := sb.OrderBy("r.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	recipes = make([]models.Recipe, 0, 10) //nolint:gomnd

	for rows.Next() {
		r, errS := scanRecipe(rows)
		if errS != nil {
			rows.Close()

			return nil, errS
		}

		recipes = append(recipes, r)
	}

	rows.Close()

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if err = loadLinks(ctx, tx, recipes); err != nil {
		return nil, err
	}

	return recipes, nil
}

func (rr RecipesPostgresRepo) GetRecipe(ctx context.Context, //nolint:nonamedreturns
	userID, id int,
) (r models.Recipe, err error) {
	tx, err := rr.db.Begin(ctx)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get")
	}()

	query, args, err := pgtools.Builder.
		Select("r.id", "r.title", "r.time_minutes", "r.price::text", "r.link", "r.user_id").
		From("recipes r").
		Where(squirrel.Eq{"r.id": id, "r.user_id": userID}).ToSql()
	if err != nil {
		return models.Recipe{}, fmt.Errorf("to sql error: %w", err)
	}

	r, err = scanRecipe(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Recipe{}, repo.ErrNotFound
		}

		return models.Recipe{}, err
	}

	recipes := []models.Recipe{r}

	if err = loadLinks(ctx, tx, recipes); err != nil {
		return models.Recipe{}, err
	}

	return recipes[0], nil
}

func linkedTo(t attrrepo.Table) string {
	return fmt.Sprintf("EXISTS (SELECT 1 FROM %s l WHERE l.recipe_id = r.id AND l.%s = ANY(?))", t.Link, t.LinkColumn)
}

func scanRecipe(row pgx.Row) (models.Recipe, error) {
	var (
		r     models.Recipe
		price string
	)

	if err := row.Scan(&r.ID, &r.Title, &r.TimeMinutes, &price, &r.Link, &r.UserID); err != nil {
		return models.Recipe{}, fmt.Errorf("scan error: %w", err)
	}

	p, err := decimal.NewFromString(price)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("parse price error: %w", err)
	}

	r.Price = p

	return r, nil
}

func insertLinks(ctx context.Context, tx pgx.Tx, t attrrepo.Table, recipeID int, attrs []models.Attr) error {
	if len(attrs) == 0 {
		return nil
	}

	ib := pgtools.Builder.Insert(t.Link).
		Columns("recipe_id", t.LinkColumn).
		Suffix("ON CONFLICT DO NOTHING")

	for _, a := range attrs {
		ib = ib.Values(recipeID, a.ID)
	}

	query, args, err := ib.ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s error: %w", t.Link, err)
	}

	return nil
}

// loadLinks fills Tags and Ingredients of recipes in place.
func loadLinks(ctx context.Context, tx pgx.Tx, recipes []models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]int, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}

	tags, err := queryLinks(ctx, tx, attrrepo.TableFor(models.KindTag), ids)
	if err != nil {
		return err
	}

	ingredients, err := queryLinks(ctx, tx, attrrepo.TableFor(models.KindIngredient), ids)
	if err != nil {
		return err
	}

	for i := range recipes {
		recipes[i].Tags = tags[recipes[i].ID]
		recipes[i].Ingredients = ingredients[recipes[i].ID]
	}

	return nil
}

func queryLinks(ctx context.Context, tx pgx.Tx, t attrrepo.Table, recipeIDs []int) (map[int][]models.Attr, error) {
	query, args, err := pgtools.Builder.Select("l.recipe_id", "a.id", "a.name", "a.user_id").
		From(t.Link+" l").
		Join(fmt.Sprintf("%s a ON a.id = l.%s", t.Name, t.LinkColumn)).
		Where("l.recipe_id = ANY(?)", recipeIDs).
		OrderBy("a.id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s error: %w", t.Link, err)
	}
	defer rows.Close()

	links := make(map[int][]models.Attr, len(recipeIDs))

	for rows.Next() {
		var (
			recipeID int
			a        models.Attr
		)

		if err := rows.Scan(&recipeID, &a.ID, &a.Name, &a.UserID); err != nil {
			return nil, fmt.Errorf("scan error %w", err)
		}

		links[recipeID] = append(links[recipeID], a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return links, nil
}
