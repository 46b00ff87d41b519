// Package oauth implements the Google OpenID Connect sign-in flow.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"accessibilityhire/internal/config"

	oidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleIssuer = "https://accounts.google.com"

var ErrMissingIDToken = errors.New("token response has no id_token")

// Identity is the verified profile returned by a provider
type Identity struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Provider is an OAuth2 identity provider
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// GoogleProvider discovers Google's OIDC configuration on first use
type GoogleProvider struct {
	oauth2Config *oauth2.Config

	mu       sync.Mutex
	verifier *oidc.IDTokenVerifier
}

func NewGoogleProvider(cfg config.GoogleConfig) *GoogleProvider {
	return &GoogleProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (g *GoogleProvider) AuthCodeURL(state string) string {
	return g.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for a verified identity
func (g *GoogleProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	verifier, err := g.idTokenVerifier(ctx)
	if err != nil {
		return nil, err
	}

	token, err := g.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, ErrMissingIDToken
	}
	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("verify id_token: %w", err)
	}

	var id Identity
	if err := idToken.Claims(&id); err != nil {
		return nil, fmt.Errorf("decode id_token claims: %w", err)
	}
	return &id, nil
}

func (g *GoogleProvider) idTokenVerifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.verifier != nil {
		return g.verifier, nil
	}
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", googleIssuer, err)
	}
	g.verifier = provider.Verifier(&oidc.Config{ClientID: g.oauth2Config.ClientID})
	return g.verifier, nil
}
