package service

import (
	"context"
	"math"
	"sort"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"
	"github.com/Scriprto/steal-brainrot-shop/pkg/apierror"

	"github.com/shopspring/decimal"
)

// BasketLine is a basket entry joined with its catalog item.
type BasketLine struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// BasketView is the basket with prices resolved.
type BasketView struct {
	Lines []BasketLine    `json:"lines"`
	Total decimal.Decimal `json:"total"`
	Units int             `json:"units"`
}

func (s *Shop) loadBasket(ctx context.Context) (model.Basket, error) {
	b, err := s.sessions.Basket(ctx)
	if err != nil {
		return nil, apierror.ServiceUnavailable(err.Error())
	}
	return b, nil
}

func (s *Shop) saveBasket(ctx context.Context, b model.Basket) error {
	if err := s.sessions.SaveBasket(ctx, b); err != nil {
		return apierror.ServiceUnavailable(err.Error())
	}
	return nil
}

// stockOf returns the stock of itemID and whether it exists.
func (s *Shop) stockOf(itemID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.FindItem(itemID)
	if idx < 0 {
		return 0, false
	}
	return s.state.Items[idx].Stock, true
}

// AddToBasket adds one unit. Unknown items and items out of stock are left
// unchanged; a line at or above the stock limit is pulled back to it.
func (s *Shop) AddToBasket(ctx context.Context, itemID string) error {
	stock, ok := s.stockOf(itemID)
	if !ok {
		return nil
	}
	b, err := s.loadBasket(ctx)
	if err != nil {
		return err
	}
	qty, held := b[itemID]
	if qty+1 > stock {
		if !held || qty == stock {
			return nil
		}
		b[itemID] = stock
		return s.saveBasket(ctx, b)
	}
	b[itemID]++
	return s.saveBasket(ctx, b)
}

// SetBasketQuantity sets a line to floor(qty) clamped to [0, stock].
// Non-finite quantities count as 0, and 0 removes the line.
func (s *Shop) SetBasketQuantity(ctx context.Context, itemID string, qty float64) error {
	stock, ok := s.stockOf(itemID)
	if !ok {
		return nil
	}
	b, err := s.loadBasket(ctx)
	if err != nil {
		return err
	}
	b[itemID] = clampQuantity(qty, stock)
	return s.saveBasket(ctx, b)
}

func clampQuantity(qty float64, stock int) int {
	if math.IsNaN(qty) || math.IsInf(qty, 0) {
		return 0
	}
	q := math.Floor(qty)
	if q < 0 {
		return 0
	}
	if q > float64(stock) {
		return stock
	}
	return int(q)
}

// RemoveFromBasket drops the line for itemID.
func (s *Shop) RemoveFromBasket(ctx context.Context, itemID string) error {
	b, err := s.loadBasket(ctx)
	if err != nil {
		return err
	}
	if _, ok := b[itemID]; !ok {
		return nil
	}
	delete(b, itemID)
	return s.saveBasket(ctx, b)
}

// BasketTotal sums quantity * price over lines whose item still exists.
func (s *Shop) BasketTotal(ctx context.Context) (decimal.Decimal, error) {
	view, err := s.Basket(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return view.Total, nil
}

// Basket returns the basket lines sorted by item id. Quantities are reported
// clamped to current stock, matching what Checkout would create.
func (s *Shop) Basket(ctx context.Context) (BasketView, error) {
	b, err := s.loadBasket(ctx)
	if err != nil {
		return BasketView{}, err
	}

	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	view := BasketView{Lines: []BasketLine{}, Total: decimal.Zero}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		idx := s.state.FindItem(id)
		if idx < 0 {
			continue
		}
		it := s.state.Items[idx]
		qty := min(b[id], it.Stock)
		if qty <= 0 {
			continue
		}
		line := BasketLine{
			ItemID:    id,
			Name:      it.Name,
			Quantity:  qty,
			UnitPrice: it.Price,
			LineTotal: it.Price.Mul(decimal.NewFromInt(int64(qty))),
		}
		view.Lines = append(view.Lines, line)
		view.Total = view.Total.Add(line.LineTotal)
		view.Units += line.Quantity
	}
	return view, nil
}
