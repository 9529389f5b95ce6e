// Package auth implements the per-provider OAuth authorization-code handshake.
//
// A [Session] moves through Unauthenticated -> AwaitingCallback -> Authenticated,
// or ends in Failed when the code exchange errors. Codes are single use, so a
// failed session is never retried; the caller starts a new one instead.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"playlistporter/internal/utils"

	"golang.org/x/oauth2"
)

var (
	ErrInvalidState  = errors.New("invalid session state")
	ErrNotReady      = errors.New("session not authenticated")
	ErrAuthFailed    = errors.New("authorization failed")
	ErrStateMismatch = errors.New("oauth state mismatch")
)

// State is a step of the authorization handshake
type State int

const (
	Unauthenticated State = iota
	AwaitingCallback
	Authenticated
	Failed
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case AwaitingCallback:
		return "awaiting_callback"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Authorizer hides the provider specific parts of the OAuth2 code flow
type Authorizer interface {
	// AuthURL builds the consent screen URL carrying the given state
	AuthURL(state string) string
	// Exchange trades an authorization code for a token
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	// Client returns an HTTP client that authenticates requests with token
	Client(ctx context.Context, token *oauth2.Token) *http.Client
}

// Session holds the credential of one provider for the lifetime of a run.
// It is safe for concurrent use; the callback normally arrives on an HTTP
// handler goroutine while the coordinator waits.
type Session struct {
	provider   string
	authorizer Authorizer
	newState   func() (string, error)

	mu      sync.Mutex
	state   State
	csrf    string
	authURL string
	token   *oauth2.Token
	err     error
}

// NewSession creates an unauthenticated session for the named provider
func NewSession(provider string, authorizer Authorizer) *Session {
	return &Session{
		provider:   provider,
		authorizer: authorizer,
		newState:   utils.GenerateState,
		state:      Unauthenticated,
	}
}

// Provider returns the provider name the session was created for
func (s *Session) Provider() string {
	return s.provider
}

// State reports where the session is in the handshake
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error that moved the session to Failed, if any
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// BeginAuthorization returns the consent URL the user must visit and moves the
// session to AwaitingCallback. Calling it again while awaiting the callback
// returns the same URL.
func (s *Session) BeginAuthorization() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case AwaitingCallback:
		return s.authURL, nil
	case Unauthenticated:
	default:
		return "", fmt.Errorf("%w: %s session is %s", ErrInvalidState, s.provider, s.state)
	}

	csrf, err := s.newState()
	if err != nil {
		return "", err
	}

	s.csrf = csrf
	s.authURL = s.authorizer.AuthURL(csrf)
	s.state = AwaitingCallback
	return s.authURL, nil
}

// VerifyState checks the state echoed back by the provider on the callback
func (s *Session) VerifyState(state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != AwaitingCallback {
		return fmt.Errorf("%w: %s session is %s", ErrInvalidState, s.provider, s.state)
	}
	if state != s.csrf {
		return fmt.Errorf("%w for %s", ErrStateMismatch, s.provider)
	}
	return nil
}

// CompleteAuthorization exchanges the authorization code for a credential.
// On failure the session moves to Failed and is not retried.
func (s *Session) CompleteAuthorization(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != AwaitingCallback {
		return fmt.Errorf("%w: %s session is %s", ErrInvalidState, s.provider, s.state)
	}

	if code == "" {
		return s.fail(errors.New("empty authorization code"))
	}

	token, err := s.authorizer.Exchange(ctx, code)
	if err != nil {
		return s.fail(err)
	}
	if token == nil || token.AccessToken == "" {
		return s.fail(errors.New("token endpoint returned no access token"))
	}

	s.token = token
	s.state = Authenticated
	return nil
}

// Fail moves a session that is awaiting its callback to Failed, for example
// when the provider redirects back with an error instead of a code.
func (s *Session) Fail(reason error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != AwaitingCallback {
		return fmt.Errorf("%w: %s session is %s", ErrInvalidState, s.provider, s.state)
	}
	return s.fail(reason)
}

// fail must be called with s.mu held
func (s *Session) fail(reason error) error {
	s.err = fmt.Errorf("%w: %s: %w", ErrAuthFailed, s.provider, reason)
	s.state = Failed
	return s.err
}

// Credential returns a copy of the access token. Only valid once Authenticated.
func (s *Session) Credential() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Authenticated {
		return nil, fmt.Errorf("%w: %s session is %s", ErrNotReady, s.provider, s.state)
	}
	tok := *s.token
	return &tok, nil
}

// HTTPClient returns a client that sends the session's bearer token
func (s *Session) HTTPClient(ctx context.Context) (*http.Client, error) {
	tok, err := s.Credential()
	if err != nil {
		return nil, err
	}
	return s.authorizer.Client(ctx, tok), nil
}
