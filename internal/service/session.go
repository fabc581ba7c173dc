package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Scriprto/steal-brainrot-shop/internal/cache"
	"github.com/Scriprto/steal-brainrot-shop/internal/model"
)

// DefaultSessionTTL is the lifetime of the session and basket records.
const DefaultSessionTTL = 12 * time.Hour

// SessionStore keeps the client's session and basket in a cache, apart from
// the durable record. Both entries are refreshed on every write.
type SessionStore struct {
	cache     cache.Cache
	namespace string
	ttl       time.Duration
}

// NewSessionStore creates a session store. ttl <= 0 uses DefaultSessionTTL.
func NewSessionStore(c cache.Cache, namespace string, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		cache:     c,
		namespace: namespace,
		ttl:       ttl,
	}
}

func (s *SessionStore) sessionKey() string { return s.namespace + ":session" }
func (s *SessionStore) basketKey() string  { return s.namespace + ":basket" }

// Current returns the active session, or nil when signed out or expired.
func (s *SessionStore) Current(ctx context.Context) (*model.Session, error) {
	data, err := s.cache.Get(ctx, s.sessionKey())
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// A corrupt record is treated as signed out.
		log.Printf("[SessionStore] Discarding unreadable session: %v", err)
		_ = s.cache.Delete(ctx, s.sessionKey())
		return nil, nil
	}
	return &sess, nil
}

// Begin replaces the active session.
func (s *SessionStore) Begin(ctx context.Context, sess model.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}
	if err := s.cache.Set(ctx, s.sessionKey(), data, s.ttl); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	log.Printf("[SessionStore] Session started for %s (admin=%v), expires in %v", sess.Username, sess.IsAdmin, s.ttl)
	return nil
}

// End removes the session and the basket.
func (s *SessionStore) End(ctx context.Context) error {
	if err := s.cache.Delete(ctx, s.sessionKey()); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return s.ClearBasket(ctx)
}

// Basket returns the stored basket. A missing record is an empty basket.
func (s *SessionStore) Basket(ctx context.Context) (model.Basket, error) {
	data, err := s.cache.Get(ctx, s.basketKey())
	if errors.Is(err, cache.ErrCacheMiss) {
		return model.Basket{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get basket: %w", err)
	}

	var b model.Basket
	if err := json.Unmarshal(data, &b); err != nil {
		log.Printf("[SessionStore] Discarding unreadable basket: %v", err)
		return model.Basket{}, nil
	}
	if b == nil {
		b = model.Basket{}
	}
	return b, nil
}

// SaveBasket stores b, dropping entries with a non-positive quantity.
func (s *SessionStore) SaveBasket(ctx context.Context, b model.Basket) error {
	clean := make(model.Basket, len(b))
	for id, qty := range b {
		if qty > 0 {
			clean[id] = qty
		}
	}
	if len(clean) == 0 {
		return s.ClearBasket(ctx)
	}

	data, err := json.Marshal(clean)
	if err != nil {
		return fmt.Errorf("failed to serialize basket: %w", err)
	}
	if err := s.cache.Set(ctx, s.basketKey(), data, s.ttl); err != nil {
		return fmt.Errorf("failed to store basket: %w", err)
	}
	return nil
}

// ClearBasket empties the basket.
func (s *SessionStore) ClearBasket(ctx context.Context) error {
	if err := s.cache.Delete(ctx, s.basketKey()); err != nil {
		return fmt.Errorf("failed to delete basket: %w", err)
	}
	return nil
}
