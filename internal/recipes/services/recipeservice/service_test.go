package recipeservice_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/Leopold1975/recipes_control/internal/pkg/validation"
	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	"github.com/Leopold1975/recipes_control/internal/recipes/repository/attrrepo"
	repo "github.com/Leopold1975/recipes_control/internal/recipes/repository/reciperepo"
	"github.com/Leopold1975/recipes_control/internal/recipes/services/recipeservice"
	"github.com/Leopold1975/recipes_control/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type memAttrs struct {
	kind    models.AttrKind
	attrs   []models.Attr
	recipes *memRecipes
}

func (m *memAttrs) CreateAttr(_ context.Context, a models.Attr) (int, error) {
	a.ID = len(m.attrs) + 1
	m.attrs = append(m.attrs, a)

	return a.ID, nil
}

func (m *memAttrs) ListAttrs(_ context.Context, req attrrepo.ListRequest) ([]models.Attr, error) {
	res := make([]models.Attr, 0)

	for _, a := range m.attrs {
		if a.UserID != req.UserID {
			continue
		}

		if req.AssignedOnly && !m.recipes.uses(m.kind, a.ID) {
			continue
		}

		res = append(res, a)
	}

	sort.Slice(res, func(i, j int) bool { return res[i].Name > res[j].Name })

	return res, nil
}

func (m *memAttrs) GetAttrsByIDs(_ context.Context, userID int, ids []int) ([]models.Attr, error) {
	res := make([]models.Attr, 0, len(ids))

	for _, a := range m.attrs {
		for _, id := range ids {
			if a.ID == id && a.UserID == userID {
				res = append(res, a)
			}
		}
	}

	return res, nil
}

type memRecipes struct {
	recipes []models.Recipe
}

func (m *memRecipes) uses(kind models.AttrKind, id int) bool {
	for _, r := range m.recipes {
		attrs := r.Tags
		if kind == models.KindIngredient {
			attrs = r.Ingredients
		}

		for _, a := range attrs {
			if a.ID == id {
				return true
			}
		}
	}

	return false
}

func (m *memRecipes) CreateRecipe(_ context.Context, r models.Recipe) (int, error) {
	r.ID = len(m.recipes) + 1
	m.recipes = append(m.recipes, r)

	return r.ID, nil
}

func (m *memRecipes) ListRecipes(_ context.Context, req repo.ListRequest) ([]models.Recipe, error) {
	res := make([]models.Recipe, 0)

	for _, r := range m.recipes {
		if r.UserID == req.UserID {
			res = append(res, r)
		}
	}

	return res, nil
}

func (m *memRecipes) GetRecipe(_ context.Context, userID, id int) (models.Recipe, error) {
	for _, r := range m.recipes {
		if r.ID == id && r.UserID == userID {
			return r, nil
		}
	}

	return models.Recipe{}, repo.ErrNotFound
}

type RecipeServiceSuite struct {
	suite.Suite
	tags        *memAttrs
	ingredients *memAttrs
	recipes     *memRecipes
	rs          *recipeservice.RecipeService
}

func (s *RecipeServiceSuite) SetupTest() {
	s.recipes = &memRecipes{}
	s.tags = &memAttrs{kind: models.KindTag, recipes: s.recipes}
	s.ingredients = &memAttrs{kind: models.KindIngredient, recipes: s.recipes}
	s.rs = recipeservice.New(s.tags, s.ingredients, s.recipes, logger.Nop())
}

func (s *RecipeServiceSuite) create(kind models.AttrKind, userID int, name string) models.Attr {
	a, err := s.rs.CreateAttr(context.Background(), kind, userID, recipeservice.CreateAttrRequest{Name: name})
	s.Require().NoError(err)

	return a
}

func (s *RecipeServiceSuite) fieldErrors(err error) map[string]string {
	var vErr *validation.Error
	s.Require().True(errors.As(err, &vErr), "expected validation error, got %v", err)

	return vErr.Fields
}

func ptr[T any](v T) *T {
	return &v
}

func (s *RecipeServiceSuite) TestCreateAttr() {
	a := s.create(models.KindTag, 1, "  Vegan ")
	s.Require().Equal("Vegan", a.Name)
	s.Require().Equal(1, a.UserID)
	s.Require().NotZero(a.ID)

	_, err := s.rs.CreateAttr(context.Background(), models.KindIngredient, 1, recipeservice.CreateAttrRequest{Name: " "})
	s.Require().Equal(map[string]string{"name": "this field is required"}, s.fieldErrors(err))
	s.Require().Empty(s.ingredients.attrs)

	_, err = s.rs.CreateAttr(context.Background(), models.AttrKind(42), 1, recipeservice.CreateAttrRequest{Name: "x"})
	s.Require().ErrorIs(err, recipeservice.ErrUnknownKind)
}

func (s *RecipeServiceSuite) TestListAttrsScopedToUser() {
	s.create(models.KindIngredient, 1, "Kale")
	s.create(models.KindIngredient, 1, "Salt")
	s.create(models.KindIngredient, 2, "Vinegar")

	attrs, err := s.rs.ListAttrs(context.Background(), models.KindIngredient, recipeservice.ListAttrsRequest{UserID: 1})
	s.Require().NoError(err)
	s.Require().Len(attrs, 2)
	s.Require().Equal("Salt", attrs[0].Name)
	s.Require().Equal("Kale", attrs[1].Name)
}

func (s *RecipeServiceSuite) TestListAssignedOnly() {
	ctx := context.Background()
	breakfast := s.create(models.KindTag, 1, "Breakfast")
	s.create(models.KindTag, 1, "Lunch")

	for _, title := range []string{"Pancakes", "Porridge"} {
		_, err := s.rs.CreateRecipe(ctx, 1, recipeservice.CreateRecipeRequest{
			Title:       title,
			TimeMinutes: ptr(5),
			Price:       ptr(decimal.RequireFromString("5.00")),
			Tags:        []int{breakfast.ID},
		})
		s.Require().NoError(err)
	}

	tags, err := s.rs.ListAttrs(ctx, models.KindTag, recipeservice.ListAttrsRequest{UserID: 1, AssignedOnly: true})
	s.Require().NoError(err)
	s.Require().Equal([]models.Attr{breakfast}, tags)
}

func (s *RecipeServiceSuite) TestCreateRecipe() {
	ctx := context.Background()
	tag := s.create(models.KindTag, 1, "Dinner")
	ing := s.create(models.KindIngredient, 1, "Prawns")

	r, err := s.rs.CreateRecipe(ctx, 1, recipeservice.CreateRecipeRequest{
		Title:       " Prawn curry ",
		TimeMinutes: ptr(20),
		Price:       ptr(decimal.RequireFromString("7.499")),
		Link:        "https://example.com/curry",
		Tags:        []int{tag.ID, tag.ID},
		Ingredients: []int{ing.ID},
	})
	s.Require().NoError(err)
	s.Require().Equal("Prawn curry", r.Title)
	s.Require().Equal("7.5", r.Price.String())
	s.Require().Equal([]models.Attr{tag}, r.Tags)
	s.Require().Equal([]models.Attr{ing}, r.Ingredients)

	got, err := s.rs.GetRecipe(ctx, 1, r.ID)
	s.Require().NoError(err)
	s.Require().Equal(r, got)

	_, err = s.rs.GetRecipe(ctx, 2, r.ID)
	s.Require().ErrorIs(err, recipeservice.ErrNotFound)
}

func (s *RecipeServiceSuite) TestCreateRecipeValidation() {
	ctx := context.Background()

	_, err := s.rs.CreateRecipe(ctx, 1, recipeservice.CreateRecipeRequest{})
	s.Require().Equal(map[string]string{
		"title":        "this field is required",
		"time_minutes": "this field is required",
		"price":        "this field is required",
	}, s.fieldErrors(err))

	_, err = s.rs.CreateRecipe(ctx, 1, recipeservice.CreateRecipeRequest{
		Title:       "Expensive",
		TimeMinutes: ptr(1),
		Price:       ptr(decimal.RequireFromString("1000")),
	})
	s.Require().Contains(s.fieldErrors(err), "price")
	s.Require().Empty(s.recipes.recipes)
}

func (s *RecipeServiceSuite) TestCreateRecipeForeignTag() {
	foreign := s.create(models.KindTag, 2, "Secret")

	_, err := s.rs.CreateRecipe(context.Background(), 1, recipeservice.CreateRecipeRequest{
		Title:       "Stolen",
		TimeMinutes: ptr(1),
		Price:       ptr(decimal.NewFromInt(1)),
		Tags:        []int{foreign.ID},
	})
	s.Require().Contains(s.fieldErrors(err), "tags")
	s.Require().Empty(s.recipes.recipes)
}

func (s *RecipeServiceSuite) TestListRecipes() {
	ctx := context.Background()

	for _, userID := range []int{1, 1, 2} {
		_, err := s.rs.CreateRecipe(ctx, userID, recipeservice.CreateRecipeRequest{
			Title:       "Soup",
			TimeMinutes: ptr(30),
			Price:       ptr(decimal.NewFromInt(3)),
		})
		s.Require().NoError(err)
	}

	recipes, err := s.rs.ListRecipes(ctx, recipeservice.ListRecipesRequest{UserID: 1})
	s.Require().NoError(err)
	s.Require().Len(recipes, 2)
}

func TestRecipeService(t *testing.T) {
	suite.Run(t, new(RecipeServiceSuite))
}
