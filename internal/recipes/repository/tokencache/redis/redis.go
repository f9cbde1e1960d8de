package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/recipes_control/internal/pkg/config"
	"github.com/Leopold1975/recipes_control/internal/pkg/redistools"
	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	"github.com/Leopold1975/recipes_control/internal/recipes/repository/tokenrepo"
	"github.com/redis/go-redis/v9"
)

// TokenCache keeps token -> user lookups so that authenticated requests do
// not hit postgres every time.
type TokenCache struct {
	rdb     *redis.Client
	expTime time.Duration
}

// cachedUser mirrors models.User, whose password hash is hidden from JSON.
type cachedUser struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"` //nolint:tagliatelle
	IsStaff  bool   `json:"is_staff"`  //nolint:tagliatelle
}

func New(ctx context.Context, cfg config.TokenCache) (TokenCache, error) {
	rdb, err := redistools.NewClient(ctx, cfg)
	if err != nil {
		return TokenCache{}, fmt.Errorf("connect error: %w", err)
	}

	return TokenCache{
		rdb:     rdb,
		expTime: cfg.ExpTime,
	}, nil
}

func tokenKey(key string) string {
	return "token:" + key
}

func (tc TokenCache) SetToken(ctx context.Context, key string, u models.User) error {
	userJSON, err := json.Marshal(cachedUser{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		IsActive: u.IsActive,
		IsStaff:  u.IsStaff,
	})
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	if err := tc.rdb.Set(ctx, tokenKey(key), userJSON, tc.expTime).Err(); err != nil {
		return fmt.Errorf("set error: %w", err)
	}

	return nil
}

func (tc TokenCache) GetUserByToken(ctx context.Context, key string) (models.User, error) {
	userJSON, err := tc.rdb.Get(ctx, tokenKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.User{}, tokenrepo.ErrNotFound
	} else if err != nil {
		return models.User{}, fmt.Errorf("get error: %w", err)
	}

	var cu cachedUser

	if err := json.Unmarshal(userJSON, &cu); err != nil {
		return models.User{}, fmt.Errorf("unmarshal error: %w", err)
	}

	return models.User{
		ID:       cu.ID,
		Email:    cu.Email,
		Name:     cu.Name,
		IsActive: cu.IsActive,
		IsStaff:  cu.IsStaff,
	}, nil
}

func (tc TokenCache) DeleteToken(ctx context.Context, key string) error {
	if err := tc.rdb.Del(ctx, tokenKey(key)).Err(); err != nil {
		return fmt.Errorf("del error: %w", err)
	}

	return nil
}

func (tc TokenCache) Shutdown(_ context.Context) error {
	if err := tc.rdb.Close(); err != nil {
		return fmt.Errorf("close error: %w", err)
	}

	return nil
}
