package pgtools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/recipes_control/internal/pkg/config"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const (
	uniqueViolation = "23505"
	maxPingDelay    = 10 * time.Second
)

// Builder is the squirrel statement builder with postgres placeholders.
var Builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar) //nolint:gochecknoglobals

// Connect opens the pool and waits for the database to answer. Pings are
// retried with a delay growing by a second per attempt, up to ten seconds.
func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	type result struct {
		db  *pgxpool.Pool
		err error
	}

	resCh := make(chan result, 1)

	go func() {
		dbc, err := pgxpool.New(ctx, connString)
		if err != nil {
			resCh <- result{err: fmt.Errorf("cannot create db pool error: %w", err)}

			return
		}

		defaultDelay := time.Second

		for {
			err := dbc.Ping(ctx)
			if err == nil {
				break
			}

			if defaultDelay > maxPingDelay {
				dbc.Close()
				resCh <- result{err: fmt.Errorf("cannot ping db error: %w", err)}

				return
			}

			select {
			case <-ctx.Done():
				dbc.Close()
				resCh <- result{err: fmt.Errorf("context error: %w", ctx.Err())}

				return
			case <-time.After(defaultDelay):
			}

			defaultDelay += time.Second
		}

		resCh <- result{db: dbc}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context error: %w", ctx.Err())
	case res := <-resCh:
		return res.db, res.err
	}
}

// ApplyMigration runs goose over db. It takes the pool returned by Connect so
// migrations never start before postgres answers.
func ApplyMigration(db *pgxpool.Pool, cfg config.PostgresDB) error {
	defaultVersion := 0

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect error: %w", err)
	}

	// connections stay owned by the pool, the *sql.DB is not closed
	dbM := stdlib.OpenDBFromPool(db)

	if cfg.Reload {
		if err := goose.DownTo(dbM, cfg.Migrations, int64(defaultVersion)); err != nil {
			return fmt.Errorf("goose down error: %w", err)
		}
	}

	if cfg.Version == 0 {
		if err := goose.Up(dbM, cfg.Migrations); err != nil {
			return fmt.Errorf("goose up error: %w", err)
		}

		return nil
	}

	if err := goose.UpTo(dbM, cfg.Migrations, int64(cfg.Version)); err != nil {
		return fmt.Errorf("goose up error: %w", err)
	}

	return nil
}

func CommitOrRollback(ctx context.Context, tx pgx.Tx, err error, where string) error {
	if err == nil {
		if errT := tx.Commit(ctx); errT != nil {
			err = fmt.Errorf("commit error: %w", errT)
		}
	} else {
		if errT := tx.Rollback(ctx); errT != nil {
			err = fmt.Errorf("%s error: %w rollback error: %w", where, err, errT)
		} else {
			err = fmt.Errorf("%s error: %w", where, err)
		}
	}

	return err
}

func IsUniqueViolation(err error) bool {
	target := new(pgconn.PgError)

	return errors.As(err, &target) && target.Code == uniqueViolation
}
