package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Leopold1975/recipes_control/internal/pkg/config"
	"github.com/Leopold1975/recipes_control/internal/pkg/pgtools"
	"github.com/Leopold1975/recipes_control/internal/recipes/api/server"
	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	ar "github.com/Leopold1975/recipes_control/internal/recipes/repository/attrrepo/postgres"
	rr "github.com/Leopold1975/recipes_control/internal/recipes/repository/reciperepo/postgres"
	"github.com/Leopold1975/recipes_control/internal/recipes/repository/tokencache/redis"
	tr "github.com/Leopold1975/recipes_control/internal/recipes/repository/tokenrepo/postgres"
	ur "github.com/Leopold1975/recipes_control/internal/recipes/repository/userrepo/postgres"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/authservice"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/recipeservice"
	"github.com/Leopold1975/recipes_control/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Server interface {
	Start(context.Context) error
	Shutdown(context.Context) error
}

type RecipesApp struct {
	s     Server
	db    *pgxpool.Pool
	cache redis.TokenCache
	lg    logger.Logger
	cfg   config.Config
}

func New(ctx context.Context, cfg config.Config) (RecipesApp, error) {
	lg, err := logger.New(cfg.Logger)
	if err != nil {
		return RecipesApp{}, fmt.Errorf("can't get logger error: %w", err)
	}

	db, err := pgtools.Connect(ctx, cfg.PostgresDB.ConnString())
	if err != nil {
		return RecipesApp{}, fmt.Errorf("postgres initializing error: %w", err)
	}

	if err := pgtools.ApplyMigration(db, cfg.PostgresDB); err != nil {
		db.Close()

		return RecipesApp{}, fmt.Errorf("apply migration error: %w", err)
	}

	tc, err := redis.New(ctx, cfg.TokenCache)
	if err != nil {
		db.Close()

		return RecipesApp{}, fmt.Errorf("redis token cache initializing error: %w", err)
	}

	authService := authservice.New(ur.New(db), tr.New(db), tc, cfg.Auth, lg)
	recipeService := recipeservice.New(
		ar.New(db, models.KindTag),
		ar.New(db, models.KindIngredient),
		rr.New(db),
		lg,
	)

	s := server.New(cfg, authService, recipeService, lg)

	return RecipesApp{
		s:     s,
		db:    db,
		cache: tc,
		lg:    lg,
		cfg:   cfg,
	}, nil
}

func (ra *RecipesApp) Run(ctx context.Context) {
	ra.lg.Infof("STARTED SERVER ON %s", ra.cfg.Server.Addr)

	go func() {
		if err := ra.s.Start(ctx); err != nil {
			ra.lg.Errorf("server start error: %s", err.Error())

			return
		}
	}()

	<-ctx.Done()

	ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	if err := ra.Stop(ctxS); err != nil { //nolint:contextcheck
		ra.lg.Errorf("app shutdown error: %s", err.Error())
	}
}

func (ra *RecipesApp) Stop(ctx context.Context) error {
	defer ra.db.Close()

	if err := ra.s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := ra.cache.Shutdown(ctx); err != nil {
		return fmt.Errorf("token cache shutdown error: %w", err)
	}

	ra.lg.Info("Shutdowned successfully")

	return nil
}
