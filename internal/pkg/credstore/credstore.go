// Package credstore persists the single bearer token the client holds
// between runs. The token is stored encrypted at rest; at most one session
// exists at a time and the last write wins.
package credstore

import "context"

// TokenKey is the fixed name the token is stored under.
const TokenKey = "authToken"

// Store defines the credential storage operations the client depends on.
type Store interface {
	// Get returns the stored token, or "" when no session exists.
	Get(ctx context.Context) (string, error)

	// Set replaces the stored token.
	Set(ctx context.Context, token string) error

	// Delete removes the stored token. Deleting an absent token is not an
	// error.
	Delete(ctx context.Context) error
}
