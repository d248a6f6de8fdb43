package domain

// Identity is the read-only projection of an authenticated session: the
// user profile fetched from the identity provider with the current access
// token. It is never persisted locally and is recomputed on every request
// that needs it. A nil Identity means "unauthenticated", which is a normal
// state rather than an error.
type Identity struct {
	Subject    string `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	Picture    string `json:"picture,omitempty"`
}
