package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"playlistporter/internal/auth"
	"playlistporter/internal/utils"

	"github.com/charmbracelet/log"
)

const exchangeTimeout = 30 * time.Second

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: {{.Color}}; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Title}}</h1>
        <p>{{.Message}}</p>
    </div>
</body>
</html>
`))

type page struct {
	Title   string
	Message string
	Color   template.CSS
}

// CallbackHandler completes one provider session from its OAuth redirect.
//
// Callbacks with a wrong state are rejected and leave the session waiting.
// The first callback with the right state settles the session either way and
// its result is delivered on Done; later callbacks are refused.
type CallbackHandler struct {
	path    string
	session *auth.Session
	logger  *log.Logger

	mu      sync.Mutex
	settled bool
	once    sync.Once
	done    chan error
}

func NewCallbackHandler(path string, session *auth.Session, logger *log.Logger) *CallbackHandler {
	return &CallbackHandler{
		path:    path,
		session: session,
		logger:  utils.OrDiscard(logger).With("provider", session.Provider()),
		done:    make(chan error, 1),
	}
}

func (h *CallbackHandler) Routes() []string {
	return []string{h.path}
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.settled {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	if err := h.session.VerifyState(q.Get("state")); err != nil {
		h.logger.Warn("rejected OAuth callback", "err", err)
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}
	h.settled = true

	if errParam := q.Get("error"); errParam != "" {
		reason := errParam
		if desc := q.Get("error_description"); desc != "" {
			reason = fmt.Sprintf("%s - %s", errParam, desc)
		}
		err := h.session.Fail(errors.New(reason))
		h.finish(err)
		h.render(w, http.StatusBadRequest, page{
			Title:   "Authorization Failed",
			Message: fmt.Sprintf("%s denied access: %s", h.session.Provider(), reason),
			Color:   "#d9534f",
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), exchangeTimeout)
	defer cancel()

	if err := h.session.CompleteAuthorization(ctx, q.Get("code")); err != nil {
		h.finish(err)
		h.render(w, http.StatusInternalServerError, page{
			Title:   "Authorization Failed",
			Message: "The authorization code could not be exchanged. Check the terminal for details.",
			Color:   "#d9534f",
		})
		return
	}

	h.finish(nil)
	h.render(w, http.StatusOK, page{
		Title:   "Authorization Successful",
		Message: fmt.Sprintf("%s is connected. You can close this window and return to the terminal.", h.session.Provider()),
		Color:   "#1DB954",
	})
}

func (h *CallbackHandler) finish(err error) {
	if err != nil {
		h.logger.Error("authorization failed", "err", err)
	} else {
		h.logger.Info("authorization complete")
	}
	h.once.Do(func() {
		h.done <- err
		close(h.done)
	})
}

func (h *CallbackHandler) render(w http.ResponseWriter, status int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.Execute(w, p); err != nil {
		h.logger.Debug("failed to write callback page", "err", err)
	}
}

// Done receives the session's result exactly once, then is closed
func (h *CallbackHandler) Done() <-chan error {
	return h.done
}

// Wait blocks until the callback settles the session or ctx ends
func (h *CallbackHandler) Wait(ctx context.Context) error {
	select {
	case err := <-h.done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("waiting for %s authorization: %w", h.session.Provider(), ctx.Err())
	}
}
