package adapters

import (
	"context"
	"fmt"
	"sync"

	"playlistporter/internal/auth"
	"playlistporter/internal/playlist"

	"github.com/charmbracelet/log"
	"github.com/zmb3/spotify/v2"
)

const spotifyPageSize = 50

// SpotifyAdapter reads the source catalog from the Spotify Web API
type SpotifyAdapter struct {
	BaseAdapter // Embed the BaseAdapter
	opts        []spotify.ClientOption
	pageSize    int

	once   sync.Once
	client *spotify.Client
	err    error
}

// NewSpotifyAdapter creates a new SpotifyAdapter. The client is built from the
// session on first use, so the adapter may be created before authorization.
func NewSpotifyAdapter(session *auth.Session, logger *log.Logger, opts ...spotify.ClientOption) *SpotifyAdapter {
	return &SpotifyAdapter{
		BaseAdapter: NewBaseAdapter(SpotifyPlatform, session, logger),
		opts:        opts,
		pageSize:    spotifyPageSize,
	}
}

func (a *SpotifyAdapter) spotifyClient(ctx context.Context) (*spotify.Client, error) {
	if err := a.CheckAuth(); err != nil {
		return nil, err
	}

	a.once.Do(func() {
		httpClient, err := a.session.HTTPClient(ctx)
		if err != nil {
			a.err = err
			return
		}
		a.client = spotify.New(httpClient, a.opts...)
	})
	return a.client, a.err
}

// ListPlaylists retrieves all playlists for the authenticated user.
// Any failed page fails the whole listing.
func (a *SpotifyAdapter) ListPlaylists(ctx context.Context) ([]playlist.Playlist, error) {
	client, err := a.spotifyClient(ctx)
	if err != nil {
		return nil, err
	}

	var allPlaylists []playlist.Playlist
	offset := 0

	for {
		page, err := client.CurrentUsersPlaylists(ctx, spotify.Limit(a.pageSize), spotify.Offset(offset))
		if err != nil {
			return nil, fmt.Errorf("%w: error getting playlists: %v", ErrUpstream, err)
		}

		for _, p := range page.Playlists {
			allPlaylists = append(allPlaylists, playlist.Playlist{
				ID:          string(p.ID),
				Name:        p.Name,
				Description: p.Description,
				TrackCount:  int(p.Tracks.Total),
			})
		}

		if len(page.Playlists) < a.pageSize {
			break
		}
		offset += a.pageSize
	}

	a.logger.Debug("listed playlists", "count", len(allPlaylists))
	return allPlaylists, nil
}

// ExpandTracks retrieves all tracks in a playlist, in playlist order.
// Entries without an underlying track (removed tracks, podcast episodes) are skipped.
func (a *SpotifyAdapter) ExpandTracks(ctx context.Context, playlistID string) ([]playlist.Track, error) {
	client, err := a.spotifyClient(ctx)
	if err != nil {
		return nil, err
	}

	tracks := []playlist.Track{}
	offset := 0
	skipped := 0

	for {
		page, err := client.GetPlaylistItems(
			ctx,
			spotify.ID(playlistID),
			spotify.Limit(a.pageSize),
			spotify.Offset(offset),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: error getting playlist items: %v", ErrUpstream, err)
		}

		for _, item := range page.Items {
			track := item.Track.Track
			if track == nil || track.Name == "" {
				skipped++
				continue
			}

			artistNames := make([]string, 0, len(track.Artists))
			for _, artist := range track.Artists {
				artistNames = append(artistNames, artist.Name)
			}

			tracks = append(tracks, playlist.Track{
				Name:    track.Name,
				Artists: artistNames,
				Album:   track.Album.Name,
				ID:      string(track.ID),
				URL:     fmt.Sprintf("https://open.spotify.com/track/%s", track.ID),
			})
		}

		if len(page.Items) < a.pageSize {
			break
		}
		offset += a.pageSize
	}

	if skipped > 0 {
		a.logger.Warn("skipped playlist entries without a track", "playlist", playlistID, "skipped", skipped)
	}
	return tracks, nil
}
