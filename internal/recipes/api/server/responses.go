package server

import (
	"github.com/Leopold1975/recipes_control/internal/recipes/api/oapi"
	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
)

func toUser(u models.User) oapi.User {
	return oapi.User{
		Email: u.Email,
		Name:  u.Name,
	}
}

func toAttr(a models.Attr) oapi.Attr {
	return oapi.Attr{
		Id:   a.ID,
		Name: a.Name,
	}
}

func toAttrs(attrs []models.Attr) []oapi.Attr {
	res := make([]oapi.Attr, 0, len(attrs))
	for _, a := range attrs {
		res = append(res, toAttr(a))
	}

	return res
}

func attrIDs(attrs []models.Attr) []int {
	res := make([]int, 0, len(attrs))
	for _, a := range attrs {
		res = append(res, a.ID)
	}

	return res
}

func toRecipe(r models.Recipe) oapi.Recipe {
	return oapi.Recipe{
		Id:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
		Tags:        attrIDs(r.Tags),
		Ingredients: attrIDs(r.Ingredients),
	}
}

func toRecipeDetail(r models.Recipe) oapi.RecipeDetail {
	return oapi.RecipeDetail{
		Id:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
		Tags:        toAttrs(r.Tags),
		Ingredients: toAttrs(r.Ingredients),
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}

	return *p
}
