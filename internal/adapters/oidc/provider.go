package oidc

// Package oidc provides the campus SSO adapter: a standard OIDC/OAuth2
// code flow whose exchanged identity carries the raw claim document so
// role mapping can be driven by configuration.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/neduet/campus-api/internal/domain/auth"
	"github.com/neduet/campus-api/internal/ports"
)

// Provider implements ports.SSOProvider using OIDC/OAuth2.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	HTTPClient   *http.Client // Optional, defaults to a 30s-timeout client
}

// NewProvider creates a new OIDC provider. Discovery happens once, here.
func NewProvider(config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	scope := config.Scope
	if scope == "" {
		scope = "openid profile email"
	}

	p := &Provider{
		httpClient:   httpClient,
		oidcProvider: op,
		verifier:     op.Verifier(&gooidc.Config{ClientID: config.ClientID}),
		config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       strings.Fields(scope),
			Endpoint:     op.Endpoint(),
		},
	}
	return p, nil
}

// Begin starts the login flow with fresh state and nonce.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := generateRandomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
	)
	return authURL, state, nonce, nil
}

// Exchange completes the code flow. The returned identity carries the full
// verified claim document in RawClaims; role resolution is the mapper's job.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}
	if in.State == "" {
		return domainauth.Identity{}, errors.New("state is required")
	}
	if in.Nonce == "" {
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	rawID, err := idTokenFromToken(token)
	if err != nil {
		return domainauth.Identity{}, err
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("verify id_token: %w", err)
	}

	var claims map[string]any
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return domainauth.Identity{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	if nonce, _ := claims["nonce"].(string); nonce != in.Nonce {
		return domainauth.Identity{}, errors.New("invalid nonce")
	}

	identity := identityFromClaims(claims)
	if identity.Email == "" || identity.UserID == "" {
		if fillErr := p.fillFromUserInfo(ctx, token.AccessToken, &identity); fillErr != nil {
			return domainauth.Identity{}, fmt.Errorf("get user info: %w", fillErr)
		}
	}

	identity.ExpiresAt = time.Now().Add(time.Hour)
	if !token.Expiry.IsZero() {
		identity.ExpiresAt = token.Expiry
	}
	return identity, nil
}

// identityFromClaims maps a verified claim document into an Identity,
// keeping the full document for configured claim expressions.
func identityFromClaims(claims map[string]any) domainauth.Identity {
	var id domainauth.Identity
	id.RawClaims = claims
	id.UserID = firstNonEmpty(
		stringClaim(claims, "preferred_username"),
		stringClaim(claims, "sub"),
	)
	id.Email = stringClaim(claims, "email")
	id.Name = firstNonEmpty(
		stringClaim(claims, "name"),
		strings.TrimSpace(stringClaim(claims, "given_name")+" "+stringClaim(claims, "family_name")),
	)
	id.Groups = stringSliceClaim(claims, "groups")
	return id
}

func (p *Provider) fillFromUserInfo(ctx context.Context, accessToken string, id *domainauth.Identity) error {
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	if err != nil {
		return fmt.Errorf("fetch user info: %w", err)
	}
	var claims map[string]any
	if claimsErr := ui.Claims(&claims); claimsErr != nil {
		return fmt.Errorf("decode user info: %w", claimsErr)
	}

	if id.UserID == "" {
		id.UserID = firstNonEmpty(stringClaim(claims, "preferred_username"), stringClaim(claims, "sub"))
	}
	if id.Email == "" {
		id.Email = stringClaim(claims, "email")
	}
	if id.Name == "" {
		id.Name = stringClaim(claims, "name")
	}
	if len(id.Groups) == 0 {
		id.Groups = stringSliceClaim(claims, "groups")
	}
	// Merge userinfo claims under the id_token claims so configured
	// expressions can reach either document.
	if id.RawClaims == nil {
		id.RawClaims = map[string]any{}
	}
	for k, v := range claims {
		if _, present := id.RawClaims[k]; !present {
			id.RawClaims[k] = v
		}
	}
	return nil
}

func stringClaim(claims map[string]any, key string) string {
	s, _ := claims[key].(string)
	return s
}

func stringSliceClaim(claims map[string]any, key string) []string {
	raw, ok := claims[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// firstNonEmpty returns the first non-empty string from vals, or empty string if none.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// generateRandomString generates a cryptographically secure URL-safe random string of exact length.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	nBytes := (length*3 + 3) / 4
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < length {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:length], nil
}

// idTokenFromToken extracts the id_token from an oauth2 token response.
func idTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	raw := tok.Extra("id_token")
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}
