package attrrepo

import (
	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
)

type ListRequest struct {
	UserID       int
	AssignedOnly bool
}

// Table describes where rows of one attribute kind live and how recipes link
// to them.
type Table struct {
	Name       string
	Link       string
	LinkColumn string
}

func TableFor(kind models.AttrKind) Table {
	if kind == models.KindIngredient {
		return Table{Name: "ingredients", Link: "recipe_ingredients", LinkColumn: "ingredient_id"}
	}

	return Table{Name: "tags", Link: "recipe_tags", LinkColumn: "tag_id"}
}
