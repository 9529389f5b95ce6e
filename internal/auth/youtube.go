package auth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"
)

const YouTubeProvider = "YouTube"

// YouTubeAuthorizer runs the Google OAuth2 code flow with full YouTube access,
// which is needed to create playlists and insert items.
type YouTubeAuthorizer struct {
	config *oauth2.Config
}

// NewYouTubeAuthorizer creates an authorizer for the given Google OAuth client
func NewYouTubeAuthorizer(clientID, clientSecret, redirectURI string) *YouTubeAuthorizer {
	return newYouTubeAuthorizer(clientID, clientSecret, redirectURI, google.Endpoint)
}

func newYouTubeAuthorizer(clientID, clientSecret, redirectURI string, endpoint oauth2.Endpoint) *YouTubeAuthorizer {
	return &YouTubeAuthorizer{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{youtube.YoutubeScope},
			Endpoint:     endpoint,
		},
	}
}

func (a *YouTubeAuthorizer) AuthURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (a *YouTubeAuthorizer) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return a.config.Exchange(ctx, code)
}

func (a *YouTubeAuthorizer) Client(ctx context.Context, token *oauth2.Token) *http.Client {
	return a.config.Client(ctx, token)
}

// NewYouTubeSession creates the destination session
func NewYouTubeSession(clientID, clientSecret, redirectURI string) *Session {
	return NewSession(YouTubeProvider, NewYouTubeAuthorizer(clientID, clientSecret, redirectURI))
}
