package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Scriprto/steal-brainrot-shop/internal/model"
	"github.com/Scriprto/steal-brainrot-shop/pkg/apierror"
)

// maxIdentityDraws bounds retries when a provider returns a taken username.
const maxIdentityDraws = 5

// Signup registers a non-admin account and signs it in.
// Usernames are trimmed and case-sensitive; displayName defaults to the username.
func (s *Shop) Signup(ctx context.Context, username, credential, displayName string) (*model.Session, error) {
	username = strings.TrimSpace(username)
	var details []apierror.FieldError
	if username == "" {
		details = append(details, apierror.FieldError{Field: "username", Message: "is required"})
	}
	if credential == "" {
		details = append(details, apierror.FieldError{Field: "credential", Message: "is required"})
	}
	if len(details) > 0 {
		return nil, apierror.ValidationError("username and password required", details...)
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = username
	}

	s.mu.Lock()
	if s.state.FindUser(username) >= 0 {
		s.mu.Unlock()
		return nil, apierror.DuplicateUsername(username)
	}
	cred := credential
	account := model.Account{
		Username:    username,
		Credential:  &cred,
		DisplayName: displayName,
	}
	s.state.Users = append(s.state.Users, account)
	err := s.persist(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return s.begin(ctx, account)
}

// Login signs in when the trimmed username and the credential both match
// exactly. Accounts without a credential never match.
func (s *Shop) Login(ctx context.Context, username, credential string) (*model.Session, error) {
	username = strings.TrimSpace(username)
	s.mu.Lock()
	idx := s.state.FindUser(username)
	var account model.Account
	ok := idx >= 0 && s.state.Users[idx].Matches(credential)
	if ok {
		account = s.state.Users[idx]
	}
	s.mu.Unlock()

	if !ok {
		log.Printf("[Shop] Failed login for %q", username)
		return nil, apierror.InvalidCredentials()
	}
	return s.begin(ctx, account)
}

// FederatedSignIn signs in through the configured IdentityProvider, creating
// a credential-less account on first use.
func (s *Shop) FederatedSignIn(ctx context.Context) (*model.Session, error) {
	for attempt := 0; attempt < maxIdentityDraws; attempt++ {
		id, err := s.identity.Identify(ctx)
		if err != nil {
			return nil, apierror.ServiceUnavailable(fmt.Sprintf("%s sign-in failed: %v", s.identity.Name(), err))
		}
		if strings.TrimSpace(id.Username) == "" {
			return nil, apierror.ServiceUnavailable(s.identity.Name() + " returned an empty username")
		}
		if id.DisplayName == "" {
			id.DisplayName = id.Username
		}

		s.mu.Lock()
		idx := s.state.FindUser(id.Username)
		if idx >= 0 {
			existing := s.state.Users[idx]
			s.mu.Unlock()
			if id.Verified && existing.Credential == nil {
				return s.begin(ctx, existing)
			}
			continue
		}
		account := model.Account{Username: id.Username, DisplayName: id.DisplayName}
		s.state.Users = append(s.state.Users, account)
		err = s.persist(ctx)
		s.mu.Unlock()
		if err != nil {
			return nil, err
		}
		log.Printf("[Shop] Created %s account %s", s.identity.Name(), account.Username)
		return s.begin(ctx, account)
	}
	return nil, apierror.ServiceUnavailable(s.identity.Name() + " kept returning taken usernames")
}

// SignOut ends the session and empties the basket.
func (s *Shop) SignOut(ctx context.Context) error {
	if err := s.sessions.End(ctx); err != nil {
		return apierror.ServiceUnavailable(err.Error())
	}
	return nil
}

// CurrentSession returns the active session or nil.
func (s *Shop) CurrentSession(ctx context.Context) (*model.Session, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, apierror.ServiceUnavailable(err.Error())
	}
	return sess, nil
}

// begin replaces the active session with one for account. A basket built
// while signed out carries over; a basket owned by a different user is
// cleared.
func (s *Shop) begin(ctx context.Context, account model.Account) (*model.Session, error) {
	prev, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, apierror.ServiceUnavailable(err.Error())
	}
	if prev != nil && prev.Username != account.Username {
		if err := s.clearBasket(ctx); err != nil {
			return nil, err
		}
	}

	sess := account.Snapshot()
	sess.CreatedAt = s.now().UTC()
	if err := s.sessions.Begin(ctx, sess); err != nil {
		return nil, apierror.ServiceUnavailable(err.Error())
	}
	return &sess, nil
}
