// Package oidc is the relying-party client for the hosted identity
// provider: endpoint discovery, the authorization-code exchange with PKCE,
// ID-token verification, profile fetches and token refresh.
package oidc

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"expense-tracker/app/config"
	"expense-tracker/app/domain"
)

// Client implements port.ProviderClient against a discovered OIDC issuer.
type Client struct {
	provider   *gooidc.Provider
	verifier   *gooidc.IDTokenVerifier
	oauth      oauth2.Config
	endSession string
	clientID   string
	logger     *slog.Logger
}

// providerClaims carries the non-standard discovery fields we care about.
type providerClaims struct {
	EndSessionEndpoint string `json:"end_session_endpoint"`
}

// NewClient discovers the issuer's endpoints and builds the OAuth2
// configuration. Misconfiguration (bad issuer, unreachable discovery
// document) is fatal here, at startup, never per-request.
func NewClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	provider, err := gooidc.NewProvider(ctx, cfg.AuthIssuerURL)
	if err != nil {
		return nil, fmt.Errorf("provider discovery failed for %s: %w", cfg.AuthIssuerURL, err)
	}

	var claims providerClaims
	if err := provider.Claims(&claims); err != nil {
		logger.Warn("could not read provider discovery claims", "error", err)
	}

	oauth := oauth2.Config{
		ClientID:     cfg.AuthClientID,
		ClientSecret: cfg.AuthClientSecret,
		RedirectURL:  cfg.AuthRedirectURI,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{gooidc.ScopeOpenID, "profile", "email", "offline_access"},
	}

	logger.Info("identity provider configured",
		"issuer", cfg.AuthIssuerURL,
		"end_session_endpoint", claims.EndSessionEndpoint)

	return &Client{
		provider:   provider,
		verifier:   provider.Verifier(&gooidc.Config{ClientID: cfg.AuthClientID}),
		oauth:      oauth,
		endSession: claims.EndSessionEndpoint,
		clientID:   cfg.AuthClientID,
		logger:     logger.With("component", "oidc_client"),
	}, nil
}

// AuthCodeURL builds the hosted authorization URL carrying the client id,
// requested scopes, callback address, state, nonce and PKCE challenge.
func (c *Client) AuthCodeURL(state, nonce, verifier string) string {
	return c.oauth.AuthCodeURL(state,
		gooidc.Nonce(nonce),
		oauth2.S256ChallengeOption(verifier),
	)
}

// Exchange trades the authorization code for tokens, verifies the ID
// token's signature and audience, and checks its nonce against the one
// stored before the redirect.
func (c *Client) Exchange(ctx context.Context, code, verifier, nonce string) (*domain.TokenSet, error) {
	token, err := c.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("no id_token in token response")
	}

	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("id_token verification: %w", err)
	}

	var claims struct {
		Nonce string `json:"nonce"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("id_token claims: %w", err)
	}
	if claims.Nonce != nonce {
		return nil, fmt.Errorf("id_token nonce mismatch")
	}

	return &domain.TokenSet{
		AccessToken:  token.AccessToken,
		IDToken:      rawIDToken,
		RefreshToken: token.RefreshToken,
	}, nil
}

// UserInfo fetches the profile for the given access token from the
// provider's userinfo endpoint.
func (c *Client) UserInfo(ctx context.Context, accessToken string) (*domain.Identity, error) {
	info, err := c.provider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	if err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}

	var claims struct {
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Picture    string `json:"picture"`
	}
	if err := info.Claims(&claims); err != nil {
		return nil, fmt.Errorf("userinfo claims: %w", err)
	}

	return &domain.Identity{
		Subject:    info.Subject,
		Email:      info.Email,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
		Picture:    claims.Picture,
	}, nil
}

// Refresh trades a refresh token for a fresh token set.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*domain.TokenSet, error) {
	source := c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("token refresh: %w", err)
	}

	set := &domain.TokenSet{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if raw, ok := token.Extra("id_token").(string); ok {
		set.IDToken = raw
	}
	return set, nil
}

// EndSessionURL returns the provider's RP-initiated-logout URL, or "" when
// the provider does not advertise one.
func (c *Client) EndSessionURL(returnTo string) string {
	if c.endSession == "" {
		return ""
	}
	u, err := url.Parse(c.endSession)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("client_id", c.clientID)
	q.Set("post_logout_redirect_uri", returnTo)
	u.RawQuery = q.Encode()
	return u.String()
}
