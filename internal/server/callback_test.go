package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"playlistporter/internal/auth"
	"playlistporter/internal/auth/authtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// awaiting returns a session waiting for its callback and the state it expects
func awaiting(t *testing.T, authorizer *authtest.StaticAuthorizer) (*auth.Session, string) {
	t.Helper()

	s := auth.NewSession(auth.SpotifyProvider, authorizer)
	authURL, err := s.BeginAuthorization()
	require.NoError(t, err)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	return s, u.Query().Get("state")
}

func callback(t *testing.T, h http.Handler, query url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/callback?"+query.Encode(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func result(t *testing.T, h *CallbackHandler) error {
	t.Helper()
	select {
	case err := <-h.Done():
		return err
	case <-time.After(time.Second):
		t.Fatal("no callback result")
		return nil
	}
}

func TestCallbackHandler(t *testing.T) {
	t.Run("successful exchange", func(t *testing.T) {
		authorizer := &authtest.StaticAuthorizer{}
		s, state := awaiting(t, authorizer)
		h := NewCallbackHandler("/callback", s, nil)

		rec := callback(t, h, url.Values{"state": {state}, "code": {"abc"}})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Authorization Successful")
		assert.NoError(t, result(t, h))
		assert.Equal(t, auth.Authenticated, s.State())
		assert.Equal(t, []string{"abc"}, authorizer.Exchanges())
	})

	t.Run("wrong state leaves the session waiting", func(t *testing.T) {
		authorizer := &authtest.StaticAuthorizer{}
		s, state := awaiting(t, authorizer)
		h := NewCallbackHandler("/callback", s, nil)

		rec := callback(t, h, url.Values{"state": {"forged"}, "code": {"abc"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, auth.AwaitingCallback, s.State())
		assert.Empty(t, authorizer.Exchanges())

		select {
		case <-h.Done():
			t.Fatal("forged callback must not settle the session")
		default:
		}

		rec = callback(t, h, url.Values{"state": {state}, "code": {"real"}})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NoError(t, result(t, h))
	})

	t.Run("provider error fails the session", func(t *testing.T) {
		s, state := awaiting(t, &authtest.StaticAuthorizer{})
		h := NewCallbackHandler("/callback", s, nil)

		rec := callback(t, h, url.Values{
			"state":             {state},
			"error":             {"access_denied"},
			"error_description": {"user said no"},
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "access_denied - user said no")
		err := result(t, h)
		assert.ErrorIs(t, err, auth.ErrAuthFailed)
		assert.Equal(t, auth.Failed, s.State())
	})

	t.Run("exchange failure", func(t *testing.T) {
		s, state := awaiting(t, &authtest.StaticAuthorizer{Err: errors.New("invalid_grant")})
		h := NewCallbackHandler("/callback", s, nil)

		rec := callback(t, h, url.Values{"state": {state}, "code": {"abc"}})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.ErrorIs(t, result(t, h), auth.ErrAuthFailed)
		assert.Equal(t, auth.Failed, s.State())
	})

	t.Run("missing code", func(t *testing.T) {
		authorizer := &authtest.StaticAuthorizer{}
		s, state := awaiting(t, authorizer)
		h := NewCallbackHandler("/callback", s, nil)

		rec := callback(t, h, url.Values{"state": {state}})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.ErrorIs(t, result(t, h), auth.ErrAuthFailed)
		assert.Empty(t, authorizer.Exchanges())
	})

	t.Run("only the first callback is processed", func(t *testing.T) {
		authorizer := &authtest.StaticAuthorizer{}
		s, state := awaiting(t, authorizer)
		h := NewCallbackHandler("/callback", s, nil)

		first := callback(t, h, url.Values{"state": {state}, "code": {"one"}})
		second := callback(t, h, url.Values{"state": {state}, "code": {"two"}})

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusBadRequest, second.Code)
		assert.Equal(t, []string{"one"}, authorizer.Exchanges())
	})

	t.Run("post is rejected", func(t *testing.T) {
		s, _ := awaiting(t, &authtest.StaticAuthorizer{})
		h := NewCallbackHandler("/callback", s, nil)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/callback", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestCallbackHandler_Wait(t *testing.T) {
	s, _ := awaiting(t, &authtest.StaticAuthorizer{})
	h := NewCallbackHandler("/callback", s, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := h.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, auth.AwaitingCallback, s.State())
}

func TestServer(t *testing.T) {
	spotify, spotifyState := awaiting(t, &authtest.StaticAuthorizer{})
	youtube, youtubeState := awaiting(t, &authtest.StaticAuthorizer{})

	spotifyHandler := NewCallbackHandler("/callback", spotify, nil)
	youtubeHandler := NewCallbackHandler("/callback-youtube", youtube, nil)

	srv := New("127.0.0.1:0", nil)
	srv.Use(RequestLogger(nil))
	srv.Handle(spotifyHandler)
	srv.Handle(youtubeHandler)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	get := func(path string, q url.Values) int {
		resp, err := http.Get("http://" + srv.Addr() + path + "?" + q.Encode())
		require.NoError(t, err)
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode
	}

	// each route settles only its own session
	assert.Equal(t, http.StatusBadRequest, get("/callback-youtube", url.Values{"state": {spotifyState}, "code": {"x"}}))
	assert.Equal(t, http.StatusOK, get("/callback", url.Values{"state": {spotifyState}, "code": {"x"}}))
	assert.Equal(t, http.StatusOK, get("/callback-youtube", url.Values{"state": {youtubeState}, "code": {"y"}}))
	assert.Equal(t, http.StatusNotFound, get("/elsewhere", nil))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, spotifyHandler.Wait(ctx))
	assert.NoError(t, youtubeHandler.Wait(ctx))
}
