package service

import (
	"context"

	"github.com/Scriprto/steal-brainrot-shop/pkg/uid"
)

// Identity is what an external identity provider asserts about the user.
type Identity struct {
	Username    string
	DisplayName string
	// Verified is true when the provider actually authenticated the user.
	// Only verified identities may sign back into an existing account.
	Verified bool
}

// IdentityProvider performs federated sign-in.
type IdentityProvider interface {
	Name() string
	Identify(ctx context.Context) (Identity, error)
}

// GuestIdentityProvider is a placeholder for a real OAuth provider. It makes
// up a random guest_ username and verifies nothing, so every call yields a
// new throwaway account.
type GuestIdentityProvider struct{}

// Name returns the provider name.
func (GuestIdentityProvider) Name() string { return "guest" }

// Identify returns a fresh unverified identity.
func (GuestIdentityProvider) Identify(ctx context.Context) (Identity, error) {
	username := "guest_" + uid.Short(7)
	return Identity{Username: username, DisplayName: username}, nil
}
