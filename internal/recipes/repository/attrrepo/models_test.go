package attrrepo_test

import (
	"testing"

	"github.com/Leopold1975/recipes_control/internal/recipes/domain/models"
	"github.com/Leopold1975/recipes_control/internal/recipes/repository/attrrepo"
	"github.com/stretchr/testify/require"
)

func TestTableFor(t *testing.T) {
	require.Equal(t, attrrepo.Table{Name: "tags", Link: "recipe_tags", LinkColumn: "tag_id"},
		attrrepo.TableFor(models.KindTag))
	require.Equal(t, attrrepo.Table{Name: "ingredients", Link: "recipe_ingredients", LinkColumn: "ingredient_id"},
		attrrepo.TableFor(models.KindIngredient))
	require.Equal(t, "ingredient", models.KindIngredient.String())
}
