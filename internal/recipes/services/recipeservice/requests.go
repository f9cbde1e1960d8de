package recipeservice

import "github.com/shopspring/decimal"

type CreateAttrRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type ListAttrsRequest struct {
	UserID       int
	AssignedOnly bool
}

type CreateRecipeRequest struct {
	Title       string           `json:"title"        validate:"required,max=255"`
	TimeMinutes *int             `json:"time_minutes" validate:"required,gte=0"` //nolint:tagliatelle
	Price       *decimal.Decimal `json:"price"`
	Link        string           `json:"link"         validate:"max=255"`
	Tags        []int            `json:"tags"`
	Ingredients []int            `json:"ingredients"`
}

type ListRecipesRequest struct {
	UserID        int
	TagIDs        []int
	IngredientIDs []int
}
