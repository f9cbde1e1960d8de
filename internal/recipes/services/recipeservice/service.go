package recipeservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Leopold1975/recipes_control/internal/pkg/validation"
	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	"github.com/Leopold1975/recipes_control/internal/recipes/repository/attrrepo"
	repo "github.com/Leopold1975/recipes_control/internal/recipes/repository/reciperepo"
	"github.com/Leopold1975/recipes_control/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrUnknownKind = errors.New("unknown attribute kind")

	maxPrice = decimal.RequireFromString("999.99") //nolint:gochecknoglobals
)

type AttrRepository interface {
	CreateAttr(context.Context, models.Attr) (int, error)
	ListAttrs(context.Context, attrrepo.ListRequest) ([]models.Attr, error)
	GetAttrsByIDs(ctx context.Context, userID int, ids []int) ([]models.Attr, error)
}

type RecipeRepository interface {
	CreateRecipe(context.Context, models.Recipe) (int, error)
	ListRecipes(context.Context, repo.ListRequest) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, userID, id int) (models.Recipe, error)
}

type RecipeService struct {
	attrRepos  map[models.AttrKind]AttrRepository
	recipeRepo RecipeRepository
	validator  *validation.Validator
	lg         logger.Logger
}

func New(tagRepo, ingredientRepo AttrRepository, recipeRepo RecipeRepository, lg logger.Logger) *RecipeService {
	return &RecipeService{
		attrRepos: map[models.AttrKind]AttrRepository{
			models.KindTag:        tagRepo,
			models.KindIngredient: ingredientRepo,
		},
		recipeRepo: recipeRepo,
		validator:  validation.New(),
		lg:         lg,
	}
}

func (rs *RecipeService) CreateAttr(ctx context.Context, kind models.AttrKind, userID int,
	req CreateAttrRequest,
) (models.Attr, error) {
	ar, err := rs.attrRepo(kind)
	if err != nil {
		return models.Attr{}, err
	}

	req.Name = strings.TrimSpace(req.Name)

	if err := rs.validator.Struct(req); err != nil {
		return models.Attr{}, err //nolint:wrapcheck
	}

	a := models.Attr{Name: req.Name, UserID: userID}

	id, err := ar.CreateAttr(ctx, a)
	if err != nil {
		return models.Attr{}, fmt.Errorf("create %s error: %w", kind, err)
	}

	a.ID = id

	return a, nil
}

func (rs *RecipeService) ListAttrs(ctx context.Context, kind models.AttrKind,
	req ListAttrsRequest,
) ([]models.Attr, error) {
	ar, err := rs.attrRepo(kind)
	if err != nil {
		return nil, err
	}

	attrs, err := ar.ListAttrs(ctx, attrrepo.ListRequest{
		UserID:       req.UserID,
		AssignedOnly: req.AssignedOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("list %s error: %w", kind, err)
	}

	return attrs, nil
}

func (rs *RecipeService) CreateRecipe(ctx context.Context, userID int, req CreateRecipeRequest) (models.Recipe, error) {
	req.Title = strings.TrimSpace(req.Title)

	if err := rs.validateRecipe(req); err != nil {
		return models.Recipe{}, err
	}

	tags, err := rs.ownedAttrs(ctx, models.KindTag, userID, req.Tags)
	if err != nil {
		return models.Recipe{}, err
	}

	ingredients, err := rs.ownedAttrs(ctx, models.KindIngredient, userID, req.Ingredients)
	if err != nil {
		return models.Recipe{}, err
	}

	r := models.Recipe{
		UserID:      userID,
		Title:       req.Title,
		TimeMinutes: *req.TimeMinutes,
		Price:       req.Price.Round(2), //nolint:gomnd
		Link:        req.Link,
		Tags:        tags,
		Ingredients: ingredients,
	}

	id, err := rs.recipeRepo.CreateRecipe(ctx, r)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("create recipe error: %w", err)
	}

	r.ID = id

	return r, nil
}

func (rs *RecipeService) ListRecipes(ctx context.Context, req ListRecipesRequest) ([]models.Recipe, error) {
	recipes, err := rs.recipeRepo.ListRecipes(ctx, repo.ListRequest{
		UserID:        req.UserID,
		TagIDs:        req.TagIDs,
		IngredientIDs: req.IngredientIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("list recipes error: %w", err)
	}

	return recipes, nil
}

func (rs *RecipeService) GetRecipe(ctx context.Context, userID, id int) (models.Recipe, error) {
	r, err := rs.recipeRepo.GetRecipe(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Recipe{}, ErrNotFound
		}

		return models.Recipe{}, fmt.Errorf("get recipe error: %w", err)
	}

	return r, nil
}

func (rs *RecipeService) attrRepo(kind models.AttrKind) (AttrRepository, error) {
	ar, ok := rs.attrRepos[kind]
	if !ok || ar == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	return ar, nil
}

func (rs *RecipeService) validateRecipe(req CreateRecipeRequest) error {
	var vErr *validation.Error

	if err := rs.validator.Struct(req); err != nil {
		if !errors.As(err, &vErr) {
			return err //nolint:wrapcheck
		}
	}

	priceMsg := ""

	switch {
	case req.Price == nil:
		priceMsg = "this field is required"
	case req.Price.IsNegative():
		priceMsg = "ensure this value is greater than or equal to 0"
	case req.Price.GreaterThan(maxPrice):
		priceMsg = "ensure that there are no more than 5 digits in total"
	}

	if priceMsg != "" {
		if vErr == nil {
			vErr = &validation.Error{Fields: map[string]string{}}
		}

		vErr.Fields["price"] = priceMsg
	}

	if vErr != nil {
		return vErr
	}

	return nil
}

// ownedAttrs loads the attributes behind ids and fails when any of them does
// not exist or belongs to another user.
func (rs *RecipeService) ownedAttrs(ctx context.Context, kind models.AttrKind, userID int,
	ids []int,
) ([]models.Attr, error) {
	ids = unique(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	ar, err := rs.attrRepo(kind)
	if err != nil {
		return nil, err
	}

	attrs, err := ar.GetAttrsByIDs(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("get %s error: %w", kind, err)
	}

	if len(attrs) == len(ids) {
		return attrs, nil
	}

	found := make(map[int]struct{}, len(attrs))
	for _, a := range attrs {
		found[a.ID] = struct{}{}
	}

	for _, id := range ids {
		if _, ok := found[id]; !ok {
			rs.lg.Debugf("user %d referenced foreign or missing %s %d", userID, kind, id)

			return nil, validation.FieldError(kind.String()+"s", fmt.Sprintf(`invalid pk "%d" - object does not exist`, id))
		}
	}

	return attrs, nil
}

func unique(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
