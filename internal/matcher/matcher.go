// Package matcher finds the destination item that best corresponds to a source track.
//
// Matching is a single search per track: the query is the track name, album and
// artists joined with spaces, and only the top video result is considered.
package matcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"playlistporter/internal/playlist"
	"playlistporter/internal/utils"

	"github.com/charmbracelet/log"
)

// ErrSearch marks a failed search call, as opposed to a search with no results
var ErrSearch = errors.New("search failed")

// Searcher is the destination search endpoint
type Searcher interface {
	SearchVideos(ctx context.Context, query string, limit int64) ([]string, error)
}

// Match is the result of looking up one track
type Match struct {
	Query  string
	ItemID string // empty when nothing matched
}

// Found reports whether the search produced a candidate
func (m Match) Found() bool {
	return m.ItemID != ""
}

// Matcher looks tracks up on the destination
type Matcher struct {
	searcher Searcher
	logger   *log.Logger
}

// New creates a Matcher searching through s
func New(s Searcher, logger *log.Logger) *Matcher {
	return &Matcher{searcher: s, logger: utils.OrDiscard(logger)}
}

// BuildQuery concatenates name, album and artists into one search string
func BuildQuery(t playlist.Track) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{t.Name, t.Album, t.ArtistNames()} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// FindBestMatch searches for the track and returns the top result.
// Zero results is not an error: the returned Match is simply not Found.
func (m *Matcher) FindBestMatch(ctx context.Context, t playlist.Track) (Match, error) {
	match := Match{Query: BuildQuery(t)}

	ids, err := m.searcher.SearchVideos(ctx, match.Query, 1)
	if err != nil {
		return match, fmt.Errorf("%w for %q: %w", ErrSearch, t.Name, err)
	}
	if len(ids) == 0 {
		m.logger.Debug("no results", "query", match.Query)
		return match, nil
	}

	match.ItemID = ids[0]
	m.logger.Debug("matched", "query", match.Query, "item", match.ItemID)
	return match, nil
}
