package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"
	"github.com/Scriprto/steal-brainrot-shop/internal/repository"
	"github.com/Scriprto/steal-brainrot-shop/internal/seed"
	"github.com/Scriprto/steal-brainrot-shop/pkg/apierror"
)

// Options configures a Shop.
type Options struct {
	Namespace string
	// Seed is the record used when the repository holds none. Nil uses the built-in catalog.
	Seed *model.State
	// Activity receives admin and sale events. Optional.
	Activity repository.ActivityRepository
	// Identity backs FederatedSignIn. Nil uses GuestIdentityProvider.
	Identity IdentityProvider
	Now      func() time.Time
}

// Shop is the storefront aggregate. It owns the durable record, mirrors it to
// the repository after every mutation and reads the client session from the
// SessionStore.
type Shop struct {
	mu        sync.Mutex
	state     *model.State
	repo      repository.StateRepository
	activity  repository.ActivityRepository
	sessions  *SessionStore
	identity  IdentityProvider
	namespace string
	now       func() time.Time
}

// NewShop loads the durable record from repo, seeding and saving it when absent.
func NewShop(ctx context.Context, repo repository.StateRepository, sessions *SessionStore, opts Options) (*Shop, error) {
	if repo == nil || sessions == nil {
		return nil, fmt.Errorf("shop requires a state repository and a session store")
	}
	if opts.Namespace == "" {
		opts.Namespace = sessions.namespace
	}
	if opts.Identity == nil {
		opts.Identity = GuestIdentityProvider{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Shop{
		repo:      repo,
		activity:  opts.Activity,
		sessions:  sessions,
		identity:  opts.Identity,
		namespace: opts.Namespace,
		now:       opts.Now,
	}

	state, err := repo.Load(ctx, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	if state != nil {
		state.Normalize()
		s.state = state
		log.Printf("[Shop] Loaded %s: %d items, %d users, %d chats", s.namespace, len(state.Items), len(state.Users), len(state.Chats))
		return s, nil
	}

	if opts.Seed != nil {
		state = opts.Seed.Clone()
	} else if state, err = seed.Default(); err != nil {
		return nil, err
	}
	state.Normalize()
	s.state = state
	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	log.Printf("[Shop] Seeded %s with %d items", s.namespace, len(state.Items))
	return s, nil
}

// Namespace returns the key of the durable record.
func (s *Shop) Namespace() string { return s.namespace }

// Snapshot returns a deep copy of the durable record.
func (s *Shop) Snapshot() *model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Export returns a copy of the durable record for an admin.
func (s *Shop) Export(ctx context.Context) (*model.State, error) {
	if _, err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.Snapshot(), nil
}

// Replace swaps the durable record for state and persists it.
func (s *Shop) Replace(ctx context.Context, state *model.State) error {
	if _, err := s.requireAdmin(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := state.Clone()
	next.Normalize()
	s.state = next
	return s.persist(ctx)
}

// persist writes the whole record. The caller holds s.mu.
// On failure the in-memory state is kept; the next mutation writes it again.
func (s *Shop) persist(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.namespace, s.state); err != nil {
		log.Printf("[Shop] Failed to persist %s: %v", s.namespace, err)
		return fmt.Errorf("failed to persist state: %w", err)
	}
	return nil
}

// record appends to the activity log. Failures are logged and ignored.
func (s *Shop) record(ctx context.Context, kind, actor, subject, detail string) {
	if s.activity == nil {
		return
	}
	entry := &model.Activity{
		Kind:      kind,
		Actor:     actor,
		Subject:   subject,
		Detail:    detail,
		CreatedAt: s.now().UTC(),
	}
	if err := s.activity.Append(ctx, entry); err != nil {
		log.Printf("[Shop] Failed to record %s activity: %v", kind, err)
	}
}

func (s *Shop) requireSession(ctx context.Context) (*model.Session, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, apierror.ServiceUnavailable(err.Error())
	}
	if sess == nil {
		return nil, apierror.Unauthenticated("sign in first")
	}
	return sess, nil
}

func (s *Shop) requireAdmin(ctx context.Context) (*model.Session, error) {
	sess, err := s.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if !sess.IsAdmin {
		return nil, apierror.Forbidden("admin only")
	}
	return sess, nil
}
