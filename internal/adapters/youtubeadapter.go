package adapters

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"playlistporter/internal/auth"
	"playlistporter/internal/playlist"

	"github.com/charmbracelet/log"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// DefaultPrivacy is the visibility given to playlists created on YouTube
const DefaultPrivacy = "private"

// YouTubeAdapter writes the destination playlist through the YouTube Data API
type YouTubeAdapter struct {
	BaseAdapter
	privacy string
	opts    []option.ClientOption

	once    sync.Once
	service *youtube.Service
	err     error
}

// NewYouTubeAdapter creates a new YouTubeAdapter. Playlists it creates get the
// given privacy status (private, public or unlisted); empty means private.
func NewYouTubeAdapter(session *auth.Session, logger *log.Logger, privacy string, opts ...option.ClientOption) *YouTubeAdapter {
	if privacy == "" {
		privacy = DefaultPrivacy
	}
	return &YouTubeAdapter{
		BaseAdapter: NewBaseAdapter(YoutubePlatform, session, logger),
		privacy:     privacy,
		opts:        opts,
	}
}

func (a *YouTubeAdapter) youtubeService(ctx context.Context) (*youtube.Service, error) {
	if err := a.CheckAuth(); err != nil {
		return nil, err
	}

	a.once.Do(func() {
		httpClient, err := a.session.HTTPClient(ctx)
		if err != nil {
			a.err = err
			return
		}
		opts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, a.opts...)
		a.service, a.err = youtube.NewService(ctx, opts...)
		if a.err != nil {
			a.err = fmt.Errorf("error creating YouTube client: %w", a.err)
		}
	})
	return a.service, a.err
}

// CreatePlaylist creates a new YouTube playlist
func (a *YouTubeAdapter) CreatePlaylist(ctx context.Context, title, description string) (playlist.Playlist, error) {
	service, err := a.youtubeService(ctx)
	if err != nil {
		return playlist.Playlist{}, err
	}

	p := &youtube.Playlist{
		Snippet: &youtube.PlaylistSnippet{
			Title:       title,
			Description: description,
		},
		Status: &youtube.PlaylistStatus{
			PrivacyStatus: a.privacy,
		},
	}

	response, err := service.Playlists.Insert([]string{"snippet", "status"}, p).Context(ctx).Do()
	if err != nil {
		return playlist.Playlist{}, fmt.Errorf("%w: error creating playlist: %v", ErrUpstream, err)
	}

	created := playlist.Playlist{ID: response.Id, Name: title, Description: description}
	if response.Snippet != nil {
		created.Name = response.Snippet.Title
		created.Description = response.Snippet.Description
	}
	a.logger.Info("playlist created", "title", created.Name, "id", created.ID, "privacy", a.privacy)
	return created, nil
}

// SearchVideos returns the ids of the top videos for query
func (a *YouTubeAdapter) SearchVideos(ctx context.Context, query string, limit int64) ([]string, error) {
	service, err := a.youtubeService(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 50 {
		limit = 50 // YouTube API maximum is 50 per request
	}

	response, err := service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(limit).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: error searching for videos: %v", ErrUpstream, err)
	}

	ids := make([]string, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		ids = append(ids, item.Id.VideoId)
	}
	return ids, nil
}

// InsertItem appends a video to the end of a playlist
func (a *YouTubeAdapter) InsertItem(ctx context.Context, playlistID, videoID string) error {
	service, err := a.youtubeService(ctx)
	if err != nil {
		return err
	}

	playlistItem := &youtube.PlaylistItem{
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: playlistID,
			ResourceId: &youtube.ResourceId{
				Kind:    "youtube#video",
				VideoId: normalizeVideoID(videoID),
			},
		},
	}

	if _, err := service.PlaylistItems.Insert([]string{"snippet"}, playlistItem).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: error adding video %s to playlist: %v", ErrUpstream, videoID, err)
	}
	return nil
}

// PlaylistURL returns the public URL of a YouTube playlist
func PlaylistURL(playlistID string) string {
	return fmt.Sprintf("https://www.youtube.com/playlist?list=%s", playlistID)
}

// normalizeVideoID extracts the video id from watch and short URLs
func normalizeVideoID(videoID string) string {
	if strings.Contains(videoID, "youtube.com/watch?v=") {
		parts := strings.Split(videoID, "v=")
		if len(parts) > 1 {
			return strings.Split(parts[1], "&")[0]
		}
	} else if strings.Contains(videoID, "youtu.be/") {
		parts := strings.Split(videoID, "youtu.be/")
		if len(parts) > 1 {
			return strings.Split(parts[1], "?")[0]
		}
	}
	return videoID
}
