package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"
	"github.com/Scriprto/steal-brainrot-shop/pkg/apierror"
	"github.com/Scriprto/steal-brainrot-shop/pkg/uid"

	"github.com/shopspring/decimal"
)

// Items returns the catalog in display order.
func (s *Shop) Items() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Item(nil), s.state.Items...)
}

// Item returns the item with id.
func (s *Shop) Item(id string) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.FindItem(id)
	if idx < 0 {
		return model.Item{}, apierror.ItemNotFound(id)
	}
	return s.state.Items[idx], nil
}

// Restock adds delta units to an item's stock.
func (s *Shop) Restock(ctx context.Context, itemID string, delta int) (model.Item, error) {
	admin, err := s.requireAdmin(ctx)
	if err != nil {
		return model.Item{}, err
	}
	if delta <= 0 {
		return model.Item{}, apierror.ValidationError("restock quantity must be positive",
			apierror.FieldError{Field: "delta", Message: "must be greater than 0"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.FindItem(itemID)
	if idx < 0 {
		return model.Item{}, apierror.ItemNotFound(itemID)
	}
	item := &s.state.Items[idx]
	item.Stock += delta
	out := *item
	if err := s.persist(ctx); err != nil {
		return out, err
	}
	s.record(ctx, model.ActivityItemRestocked, admin.Username, itemID, fmt.Sprintf("+%d", delta))
	return out, nil
}

// SetPrice replaces an item's unit price.
func (s *Shop) SetPrice(ctx context.Context, itemID string, price decimal.Decimal) (model.Item, error) {
	admin, err := s.requireAdmin(ctx)
	if err != nil {
		return model.Item{}, err
	}
	if price.IsNegative() {
		return model.Item{}, apierror.ValidationError("price must not be negative",
			apierror.FieldError{Field: "price", Message: "must be >= 0"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.FindItem(itemID)
	if idx < 0 {
		return model.Item{}, apierror.ItemNotFound(itemID)
	}
	item := &s.state.Items[idx]
	old := item.Price
	item.Price = price
	out := *item
	if err := s.persist(ctx); err != nil {
		return out, err
	}
	s.record(ctx, model.ActivityPriceSet, admin.Username, itemID, old.String()+" -> "+price.String())
	return out, nil
}

// CreateItem appends a new item to the catalog.
func (s *Shop) CreateItem(ctx context.Context, name, desc string, stock int, price decimal.Decimal) (model.Item, error) {
	admin, err := s.requireAdmin(ctx)
	if err != nil {
		return model.Item{}, err
	}

	var details []apierror.FieldError
	if strings.TrimSpace(name) == "" {
		details = append(details, apierror.FieldError{Field: "name", Message: "is required"})
	}
	if stock < 0 {
		details = append(details, apierror.FieldError{Field: "stock", Message: "must be >= 0"})
	}
	if price.IsNegative() {
		details = append(details, apierror.FieldError{Field: "price", Message: "must be >= 0"})
	}
	if len(details) > 0 {
		return model.Item{}, apierror.ValidationError("invalid item", details...)
	}

	item := model.Item{
		ID:    uid.NewPrefixed("i"),
		Name:  strings.TrimSpace(name),
		Desc:  desc,
		Stock: stock,
		Price: price,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Items = append(s.state.Items, item)
	if err := s.persist(ctx); err != nil {
		return item, err
	}
	s.record(ctx, model.ActivityItemCreated, admin.Username, item.ID, item.Name)
	return item, nil
}

// decrementStock removes one unit, never going below zero. The caller holds s.mu.
func (s *Shop) decrementStock(itemID string) {
	idx := s.state.FindItem(itemID)
	if idx < 0 {
		return
	}
	if s.state.Items[idx].Stock > 0 {
		s.state.Items[idx].Stock--
	}
}
