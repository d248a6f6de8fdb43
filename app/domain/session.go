package domain

// Session key names for the cookie-backed session store. Tokens and the
// transient authorization-flow state share the same store so that Destroy
// removes them as one unit.
const (
	SessionKeyAccessToken  = "access_token"
	SessionKeyIDToken      = "id_token"
	SessionKeyRefreshToken = "refresh_token"

	// Transient state held only across the login redirect round-trip
	SessionKeyState        = "auth_state"
	SessionKeyNonce        = "auth_nonce"
	SessionKeyCodeVerifier = "auth_verifier"
)

// SessionKeys lists every key the session store may hold. Logout removes
// all of them together.
var SessionKeys = []string{
	SessionKeyAccessToken,
	SessionKeyIDToken,
	SessionKeyRefreshToken,
	SessionKeyState,
	SessionKeyNonce,
	SessionKeyCodeVerifier,
}

// TokenSet holds the tokens returned by a successful code exchange or
// refresh. The access and ID tokens are opaque to everything except the
// identity gateway.
type TokenSet struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
}
