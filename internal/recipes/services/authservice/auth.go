package authservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Leopold1975/recipes_control/internal/pkg/config"
	"github.com/Leopold1975/recipes_control/internal/pkg/validation"
	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	"github.com/Leopold1975/recipes_control/internal/recipes/repository/tokenrepo"
	"github.com/Leopold1975/recipes_control/internal/recipes/repository/userrepo"
	"github.com/Leopold1975/recipes_control/pkg/logger"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenAlphabet = "0123456789abcdef"
	tokenLength   = 40
)

var (
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	ErrUnauthorized       = errors.New("invalid token")
)

type UserRepository interface {
	CreateUser(context.Context, models.User) (int, error)
	GetUserByEmail(context.Context, string) (models.User, error)
	GetUserByID(context.Context, int) (models.User, error)
	UpdateUser(context.Context, models.User) error
}

type TokenRepository interface {
	GetOrCreateToken(ctx context.Context, userID int, key string) (string, error)
	GetTokenByUser(ctx context.Context, userID int) (string, error)
	GetUserByToken(ctx context.Context, key string) (models.User, error)
}

type TokenCache interface {
	SetToken(ctx context.Context, key string, u models.User) error
	GetUserByToken(ctx context.Context, key string) (models.User, error)
	DeleteToken(ctx context.Context, key string) error
}

type AuthService struct {
	userRepo  UserRepository
	tokenRepo TokenRepository
	cache     TokenCache
	validator *validation.Validator
	cfg       config.Auth
	lg        logger.Logger
}

func New(userRepo UserRepository, tokenRepo TokenRepository, cache TokenCache,
	cfg config.Auth, lg logger.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		cache:     cache,
		validator: validation.New(),
		cfg:       cfg,
		lg:        lg,
	}
}

func (as *AuthService) CreateUser(ctx context.Context, req CreateUserRequest) (models.User, error) {
	if err := as.validate(req, &req.Password); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("generate from password error: %w", err)
	}

	u := models.User{
		Email:        normalizeEmail(req.Email),
		Name:         req.Name,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	id, err := as.userRepo.CreateUser(ctx, u)
	if err != nil {
		if errors.Is(err, userrepo.ErrAlreadyExists) {
			return models.User{}, validation.FieldError("email", "user with this email already exists")
		}

		return models.User{}, fmt.Errorf("create user error: %w", err)
	}

	u.ID = id

	return u, nil
}

// Login checks the credentials and returns the user's token, issuing one on
// first login. The token never changes afterwards.
func (as *AuthService) Login(ctx context.Context, req TokenRequest) (string, error) {
	if err := as.validator.Struct(req); err != nil {
		return "", err //nolint:wrapcheck
	}

	u, err := as.userRepo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", fmt.Errorf("get user error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	if !u.IsActive {
		return "", ErrInvalidCredentials
	}

	key, err := gonanoid.Generate(tokenAlphabet, tokenLength)
	if err != nil {
		return "", fmt.Errorf("generate token error: %w", err)
	}

	token, err := as.tokenRepo.GetOrCreateToken(ctx, u.ID, key)
	if err != nil {
		return "", fmt.Errorf("get or create token error: %w", err)
	}

	return token, nil
}

// Authenticate resolves a bearer token to an active user.
func (as *AuthService) Authenticate(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, ErrUnauthorized
	}

	u, err := as.cache.GetUserByToken(ctx, token)
	if err == nil {
		if !u.IsActive {
			return models.User{}, ErrUnauthorized
		}

		return u, nil
	}

	if !errors.Is(err, tokenrepo.ErrNotFound) {
		as.lg.Errorf("token cache get error: %s", err.Error())
	}

	u, err = as.tokenRepo.GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, tokenrepo.ErrNotFound) {
			return models.User{}, ErrUnauthorized
		}

		return models.User{}, fmt.Errorf("get user by token error: %w", err)
	}

	if !u.IsActive {
		return models.User{}, ErrUnauthorized
	}

	if err := as.cache.SetToken(ctx, token, u); err != nil {
		as.lg.Errorf("token cache set error: %s", err.Error())
	}

	return u, nil
}

func (as *AuthService) GetUser(ctx context.Context, id int) (models.User, error) {
	u, err := as.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("get user error: %w", err)
	}

	return u, nil
}

func (as *AuthService) UpdateUser(ctx context.Context, id int, req UpdateUserRequest) (models.User, error) {
	if err := as.validate(req, req.Password); err != nil {
		return models.User{}, err
	}

	u, err := as.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("get user error: %w", err)
	}

	if req.Email != nil {
		u.Email = normalizeEmail(*req.Email)
	}

	if req.Name != nil {
		u.Name = *req.Name
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("generate from password error: %w", err)
		}

		u.PasswordHash = string(hash)
	}

	if err := as.userRepo.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrAlreadyExists) {
			return models.User{}, validation.FieldError("email", "user with this email already exists")
		}

		return models.User{}, fmt.Errorf("update user error: %w", err)
	}

	as.dropCachedToken(ctx, u.ID)

	return u, nil
}

// validate runs struct validation and adds the password length rule, which
// depends on configuration. A nil password is not checked.
func (as *AuthService) validate(req any, password *string) error {
	var vErr *validation.Error

	if err := as.validator.Struct(req); err != nil {
		if !errors.As(err, &vErr) {
			return err //nolint:wrapcheck
		}
	}

	if password != nil && len([]rune(*password)) < as.cfg.MinPasswordLen {
		if vErr == nil {
			vErr = &validation.Error{Fields: map[string]string{}}
		}

		if _, ok := vErr.Fields["password"]; !ok {
			vErr.Fields["password"] = fmt.Sprintf("ensure this field has at least %d characters", as.cfg.MinPasswordLen)
		}
	}

	if vErr != nil {
		return vErr
	}

	return nil
}

func (as *AuthService) dropCachedToken(ctx context.Context, userID int) {
	key, err := as.tokenRepo.GetTokenByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, tokenrepo.ErrNotFound) {
			as.lg.Errorf("get token by user error: %s", err.Error())
		}

		return
	}

	if err := as.cache.DeleteToken(ctx, key); err != nil {
		as.lg.Errorf("token cache delete error: %s", err.Error())
	}
}

// normalizeEmail lowercases the domain part; the local part is case sensitive.
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)

	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}

	return local + "@" + strings.ToLower(domain)
}
