package actions

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"playlistporter/internal/auth"
	"playlistporter/internal/server"

	"github.com/charmbracelet/log"
)

// callbackPath is the route a provider redirects to, taken from its redirect URI
func callbackPath(redirectURI string) (string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", fmt.Errorf("invalid redirect uri %q: %w", redirectURI, err)
	}
	if u.Path == "" {
		return "/", nil
	}
	return u.Path, nil
}

// login is one provider session and the callback route that completes it
type login struct {
	session *auth.Session
	handler *server.CallbackHandler
}

func newLogin(session *auth.Session, redirectURI string, logger *log.Logger) (login, error) {
	path, err := callbackPath(redirectURI)
	if err != nil {
		return login{}, err
	}
	return login{session: session, handler: server.NewCallbackHandler(path, session, logger)}, nil
}

// startCallbackServer serves every login's callback route on addr
func startCallbackServer(addr string, logger *log.Logger, logins ...login) (*server.Server, error) {
	srv := server.New(addr, logger)
	srv.Use(server.RequestLogger(logger))
	for _, l := range logins {
		srv.Handle(l.handler)
	}
	if err := srv.Start(); err != nil {
		return nil, err
	}
	return srv, nil
}

// authenticate presents the consent URL and blocks until the callback
// settles the session
func authenticate(ctx context.Context, out io.Writer, openBrowser func(string) error, l login) error {
	authURL, err := l.session.BeginAuthorization()
	if err != nil {
		return err
	}

	provider := l.session.Provider()
	fmt.Fprintf(out, "Log in to %s to continue.\n", provider)
	if openBrowser == nil || openBrowser(authURL) != nil {
		fmt.Fprintf(out, "Open this URL in your browser:\n\n  %s\n\n", authURL)
	}

	if err := l.handler.Wait(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Authenticated with %s.", provider)))
	return nil
}
