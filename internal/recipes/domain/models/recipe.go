package models

import (
	"github.com/shopspring/decimal"
)

type Recipe struct {
	ID          int
	UserID      int
	Title       string
	TimeMinutes int
	Price       decimal.Decimal
	Link        string
	Tags        []Attr
	Ingredients []Attr
}
