// Package gateway implements the identity gateway: the session-level
// orchestration of the three-legged authorization-code flow on top of the
// low-level provider client.
package gateway

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"expense-tracker/app/domain"
	"expense-tracker/app/port"
)

// expirySkew refreshes tokens slightly before their recorded expiry so a
// token does not die between our check and the provider call.
const expirySkew = 30 * time.Second

// AuthGateway implements port.IdentityGateway. It owns every read and
// write of the session store's auth keys; nothing else touches them.
type AuthGateway struct {
	provider    port.ProviderClient
	frontendURL string
	logger      *slog.Logger

	// seams for tests
	newState    func() string
	newVerifier func() string
}

// NewAuthGateway creates the identity gateway. The frontend URL is the
// post-logout landing page when the provider has no end-session endpoint.
func NewAuthGateway(provider port.ProviderClient, frontendURL string, logger *slog.Logger) *AuthGateway {
	return &AuthGateway{
		provider:    provider,
		frontendURL: frontendURL,
		logger:      logger.With("component", "auth_gateway"),
		newState:    uuid.NewString,
		newVerifier: oauth2.GenerateVerifier,
	}
}

// Login writes fresh state, nonce and PKCE verifier into the session and
// returns the provider's hosted authorization URL.
func (g *AuthGateway) Login(ctx context.Context, sess port.SessionStore) (string, error) {
	state := g.newState()
	nonce := g.newState()
	verifier := g.newVerifier()

	sess.Set(domain.SessionKeyState, state)
	sess.Set(domain.SessionKeyNonce, nonce)
	sess.Set(domain.SessionKeyCodeVerifier, verifier)

	return g.provider.AuthCodeURL(state, nonce, verifier), nil
}

// Callback completes the code exchange. The state parameter must match
// the state stored before the redirect; a callback without a matching
// pending state is an AuthExchangeError. On success the tokens are
// persisted and the transient flow state is cleared.
func (g *AuthGateway) Callback(ctx context.Context, sess port.SessionStore, requestURL *url.URL) error {
	query := requestURL.Query()

	if errParam := query.Get("error"); errParam != "" {
		return domain.NewAuthExchangeError("provider returned "+errParam+": "+query.Get("error_description"), nil)
	}

	code := query.Get("code")
	state := query.Get("state")
	if code == "" || state == "" {
		return domain.NewAuthExchangeError("missing code or state parameter", nil)
	}

	storedState := sess.Get(domain.SessionKeyState)
	if storedState == "" || storedState != state {
		return domain.NewAuthExchangeError("state mismatch", nil)
	}

	verifier := sess.Get(domain.SessionKeyCodeVerifier)
	nonce := sess.Get(domain.SessionKeyNonce)

	tokens, err := g.provider.Exchange(ctx, code, verifier, nonce)
	// The flow state is single-use either way: a consumed state must not
	// be replayable against a later callback.
	g.clearFlowState(sess)
	if err != nil {
		return domain.NewAuthExchangeError("code exchange rejected", err)
	}

	g.persistTokens(sess, tokens)

	g.logger.Info("session established")
	return nil
}

func (g *AuthGateway) clearFlowState(sess port.SessionStore) {
	sess.Remove(domain.SessionKeyState)
	sess.Remove(domain.SessionKeyNonce)
	sess.Remove(domain.SessionKeyCodeVerifier)
}

// Logout destroys the local session atomically and returns the redirect
// target: the provider's end-session endpoint when advertised, otherwise
// the application's public landing page.
func (g *AuthGateway) Logout(ctx context.Context, sess port.SessionStore) (string, error) {
	sess.Destroy()

	if target := g.provider.EndSessionURL(g.frontendURL); target != "" {
		return target, nil
	}
	return g.frontendURL, nil
}

// CurrentIdentity resolves the session to a profile. An absent or
// unusable session yields (nil, nil): unauthenticated is an expected
// state, never an error. The access token is refreshed implicitly when
// its recorded expiry has passed and a refresh token is available.
func (g *AuthGateway) CurrentIdentity(ctx context.Context, sess port.SessionStore) (*domain.Identity, error) {
	accessToken := sess.Get(domain.SessionKeyAccessToken)
	if accessToken == "" {
		return nil, nil
	}

	if tokenExpired(accessToken) {
		refreshToken := sess.Get(domain.SessionKeyRefreshToken)
		if refreshToken == "" {
			return nil, nil
		}

		tokens, err := g.provider.Refresh(ctx, refreshToken)
		if err != nil {
			g.logger.Debug("token refresh rejected", "error", err)
			return nil, nil
		}
		g.persistTokens(sess, tokens)
		accessToken = tokens.AccessToken
	}

	identity, err := g.provider.UserInfo(ctx, accessToken)
	if err != nil {
		g.logger.Debug("userinfo rejected token", "error", err)
		return nil, nil
	}

	return identity, nil
}

func (g *AuthGateway) persistTokens(sess port.SessionStore, tokens *domain.TokenSet) {
	sess.Set(domain.SessionKeyAccessToken, tokens.AccessToken)
	if tokens.IDToken != "" {
		sess.Set(domain.SessionKeyIDToken, tokens.IDToken)
	}
	if tokens.RefreshToken != "" {
		sess.Set(domain.SessionKeyRefreshToken, tokens.RefreshToken)
	}
}

// tokenExpired inspects the access token's exp claim without verifying
// the signature; verification is the provider's job on every use. Opaque
// tokens (not JWTs, or without exp) are treated as live and left for the
// provider to reject.
func tokenExpired(accessToken string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Now().Add(expirySkew).After(exp.Time)
}
