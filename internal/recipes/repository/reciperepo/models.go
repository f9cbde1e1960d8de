package reciperepo

import "errors"

var ErrNotFound = errors.New("recipe not found")

type ListRequest struct {
	UserID        int
	TagIDs        []int
	IngredientIDs []int
}
