package models

// AttrKind tells tags and ingredients apart. Both are plain named rows owned
// by a user and attachable to recipes.
type AttrKind int

const (
	KindTag AttrKind = iota
	KindIngredient
)

func (k AttrKind) String() string {
	switch k {
	case KindTag:
		return "tag"
	case KindIngredient:
		return "ingredient"
	default:
		return "unknown"
	}
}

type Attr struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	UserID int    `json:"-"`
}
