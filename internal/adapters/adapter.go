package adapters

import (
	"context"
	"errors"

	"playlistporter/internal/playlist"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUpstream         = errors.New("upstream request failed")
)

// SourceCatalog reads playlists from the platform tracks are migrated from
type SourceCatalog interface {
	// ListPlaylists returns every playlist of the authenticated user, in provider order
	ListPlaylists(ctx context.Context) ([]playlist.Playlist, error)
	// ExpandTracks returns the tracks of a playlist in playlist order
	ExpandTracks(ctx context.Context, playlistID string) ([]playlist.Track, error)
}

// DestinationCatalog writes to the platform tracks are migrated to
type DestinationCatalog interface {
	CreatePlaylist(ctx context.Context, title, description string) (playlist.Playlist, error)
	// SearchVideos returns up to limit item ids matching query, best first
	SearchVideos(ctx context.Context, query string, limit int64) ([]string, error)
	InsertItem(ctx context.Context, playlistID, itemID string) error
}

// PlatformType represents the supported music platforms
type PlatformType string

const (
	SpotifyPlatform PlatformType = "spotify"
	YoutubePlatform PlatformType = "youtube"
)
