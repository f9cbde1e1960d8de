package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/recipes_control/internal/pkg/pgtools"
	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	"github.com/Leopold1975/recipes_control/internal/recipes/repository/tokenrepo"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TokensPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) TokensPostgresRepo {
	return TokensPostgresRepo{
		db: db,
	}
}

// GetOrCreateToken stores key for the user unless the user already has a
// token, and returns the token the user ends up with.
func (tr TokensPostgresRepo) GetOrCreateToken(ctx context.Context, //nolint:nonamedreturns
	userID int, key string,
) (token string, err error) {
	tx, err := tr.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "get or create")
	}()

	query, args, err := pgtools.Builder.Insert("tokens").
		Columns("key", "user_id").
		Values(key, userID).
		Suffix("ON CONFLICT (user_id) DO NOTHING").ToSql()
	if err != nil {
		return "", fmt.Errorf("to sql error: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return "", fmt.Errorf("exec error: %w", err)
	}

	query, args, err = pgtools.Builder.Select("key").
		From("tokens").
		Where(squirrel.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return "", fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&token); err != nil {
		return "", fmt.Errorf("scan error: %w", err)
	}

	return token, nil
}

func (tr TokensPostgresRepo) GetTokenByUser(ctx context.Context, userID int) (string, error) {
	query, args, err := pgtools.Builder.Select("key").
		From("tokens").
		Where(squirrel.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return "", fmt.Errorf("to sql error: %w", err)
	}

	var key string

	if err := tr.db.QueryRow(ctx, query, args...).Scan(&key); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", tokenrepo.ErrNotFound
		}

		return "", fmt.Errorf("scan error: %w", err)
	}

	return key, nil
}

func (tr TokensPostgresRepo) GetUserByToken(ctx context.Context, key string) (models.User, error) {
	query, args, err := pgtools.Builder.
		Select("u.id", "u.email", "u.name", "u.password_hash", "u.is_active", "u.is_staff").
		From("tokens t").
		Join("users u ON u.id = t.user_id").
		Where(squirrel.Eq{"t.key": key}).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("to sql error: %w", err)
	}

	var u models.User

	if err := tr.db.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.IsActive, &u.IsStaff); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, tokenrepo.ErrNotFound
		}

		return models.User{}, fmt.Errorf("scan error: %w", err)
	}

	return u, nil
}
