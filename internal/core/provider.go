package core

import "context"

// Provider fetches current quota state for one configured account.
// Implementations must not return a bare error: failures are encoded as a
// KindError AdapterResult so the caller can render them as rows.
type Provider interface {
	// ID is the stable provider key used in the credential store.
	ID() string

	// Fetch queries the provider's quota surface. It must honor ctx
	// cancellation on network calls.
	Fetch(ctx context.Context, cred Credential) AdapterResult
}
