package model

import "time"

// Session is the identity of the local client, copied from an Account at
// authentication time. Later changes to the Account are not reflected.
type Session struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	IsAdmin     bool      `json:"isAdmin"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Basket maps item id to requested quantity. Entries always hold qty > 0.
type Basket map[string]int

// Clone returns an independent copy of the basket.
func (b Basket) Clone() Basket {
	out := make(Basket, len(b))
	for id, qty := range b {
		out[id] = qty
	}
	return out
}

// Units returns the total number of units in the basket.
func (b Basket) Units() int {
	n := 0
	for _, qty := range b {
		n += qty
	}
	return n
}
