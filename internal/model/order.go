package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order records one checkout. Each unit of each line has its own Chat.
type Order struct {
	ID            string          `json:"id"`
	BuyerUsername string          `json:"buyerUsername"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Lines         []OrderLine     `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	ChatIDs       []string        `json:"chatIds"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// OrderLine is a single basket entry captured at checkout.
type OrderLine struct {
	ItemID    string          `json:"itemId"`
	ItemName  string          `json:"itemName"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Subtotal returns Quantity * UnitPrice.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
