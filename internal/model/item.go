package model

import "github.com/shopspring/decimal"

// Item is a purchasable catalog entry.
type Item struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Desc  string          `json:"desc"`
	Stock int             `json:"stock"`
	Price decimal.Decimal `json:"price"`
}

// InStock reports whether at least one unit is available.
func (i *Item) InStock() bool {
	return i.Stock > 0
}
