package auth

import (
	"context"
	"net/http"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

const SpotifyProvider = "Spotify"

// SpotifyScopes are read-only catalog scopes; nothing is written on the source
var SpotifyScopes = []string{
	spotifyauth.ScopeUserReadPrivate,
	spotifyauth.ScopeUserReadEmail,
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
}

// SpotifyAuthorizer runs the Spotify authorization-code flow.
// The token request authenticates the client with its id and secret.
type SpotifyAuthorizer struct {
	auth *spotifyauth.Authenticator
}

// NewSpotifyAuthorizer creates an authorizer for the given app credentials
func NewSpotifyAuthorizer(clientID, clientSecret, redirectURI string) *SpotifyAuthorizer {
	return &SpotifyAuthorizer{
		auth: spotifyauth.New(
			spotifyauth.WithRedirectURL(redirectURI),
			spotifyauth.WithScopes(SpotifyScopes...),
			spotifyauth.WithClientID(clientID),
			spotifyauth.WithClientSecret(clientSecret),
		),
	}
}

func (a *SpotifyAuthorizer) AuthURL(state string) string {
	return a.auth.AuthURL(state)
}

func (a *SpotifyAuthorizer) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return a.auth.Exchange(ctx, code)
}

func (a *SpotifyAuthorizer) Client(ctx context.Context, token *oauth2.Token) *http.Client {
	return a.auth.Client(ctx, token)
}

// NewSpotifySession creates the source session
func NewSpotifySession(clientID, clientSecret, redirectURI string) *Session {
	return NewSession(SpotifyProvider, NewSpotifyAuthorizer(clientID, clientSecret, redirectURI))
}
