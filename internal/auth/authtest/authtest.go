// Package authtest contains fakes for code that depends on an authenticated session
package authtest

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"playlistporter/internal/auth"

	"golang.org/x/oauth2"
)

// StaticAuthorizer is an [auth.Authorizer] returning canned results
type StaticAuthorizer struct {
	BaseURL string
	Token   *oauth2.Token
	Err     error
	// HTTP is returned by Client; nil means http.DefaultClient
	HTTP *http.Client

	mu    sync.Mutex
	codes []string
}

func (a *StaticAuthorizer) AuthURL(state string) string {
	base := a.BaseURL
	if base == "" {
		base = "https://auth.example.com/authorize"
	}
	return base + "?state=" + url.QueryEscape(state)
}

func (a *StaticAuthorizer) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	a.mu.Lock()
	a.codes = append(a.codes, code)
	a.mu.Unlock()

	if a.Err != nil {
		return nil, a.Err
	}
	if a.Token != nil {
		return a.Token, nil
	}
	return &oauth2.Token{AccessToken: "token-" + code, TokenType: "Bearer"}, nil
}

func (a *StaticAuthorizer) Client(ctx context.Context, token *oauth2.Token) *http.Client {
	if a.HTTP != nil {
		return a.HTTP
	}
	return http.DefaultClient
}

// Exchanges returns every code passed to Exchange
func (a *StaticAuthorizer) Exchanges() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.codes...)
}

// Authenticated returns a session that already completed the handshake
func Authenticated(t testing.TB, provider string, client *http.Client) *auth.Session {
	t.Helper()

	s := auth.NewSession(provider, &StaticAuthorizer{HTTP: client})
	if _, err := s.BeginAuthorization(); err != nil {
		t.Fatalf("begin authorization: %v", err)
	}
	if err := s.CompleteAuthorization(context.Background(), "test-code"); err != nil {
		t.Fatalf("complete authorization: %v", err)
	}
	return s
}
