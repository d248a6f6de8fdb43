package port

import (
	"context"
	"net/url"

	"expense-tracker/app/domain"
)

// SessionStore is the request-scoped accessor for opaque session state.
// It is an explicit capability object handed to the identity gateway by
// whoever owns the current request, never a global or a thread-local.
type SessionStore interface {
	Get(key string) string
	Set(key, value string)
	Remove(key string)

	// Destroy removes every session key as one unit.
	Destroy()
}

// IdentityGateway wraps the three-legged authorization-code flow against
// the hosted identity provider.
type IdentityGateway interface {
	// Login writes transient PKCE/state into the session and returns the
	// provider's hosted authorization URL to redirect the browser to.
	Login(ctx context.Context, sess SessionStore) (string, error)

	// Callback completes the code exchange from the full inbound URL,
	// validates state and nonce against the session, and persists the
	// resulting tokens. Failures are *domain.AuthExchangeError.
	Callback(ctx context.Context, sess SessionStore, requestURL *url.URL) error

	// Logout destroys the local session and returns the redirect target
	// (the provider's end-session endpoint when it advertises one,
	// otherwise the application's public landing page).
	Logout(ctx context.Context, sess SessionStore) (string, error)

	// CurrentIdentity resolves the profile for the session's access token,
	// refreshing it implicitly when expired. A nil identity with a nil
	// error means unauthenticated; it is never reported as a failure.
	CurrentIdentity(ctx context.Context, sess SessionStore) (*domain.Identity, error)
}

// ProviderClient is the low-level OIDC relying-party client the identity
// gateway drives. Implemented against the real provider by driver/oidc and
// by fakes in tests.
type ProviderClient interface {
	AuthCodeURL(state, nonce, verifier string) string
	Exchange(ctx context.Context, code, verifier, nonce string) (*domain.TokenSet, error)
	UserInfo(ctx context.Context, accessToken string) (*domain.Identity, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenSet, error)
	EndSessionURL(returnTo string) string
}
