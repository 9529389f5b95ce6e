package playlist

import (
	"fmt"
	"strings"
)

// Track represents a single source track with the metadata used to find it elsewhere
type Track struct {
	Name    string
	Artists []string
	Album   string
	ID      string
	URL     string
}

// ArtistNames joins the track's artists for display and search
func (t Track) ArtistNames() string {
	return strings.Join(t.Artists, ", ")
}

func (t Track) String() string {
	if len(t.Artists) == 0 {
		return t.Name
	}
	return fmt.Sprintf("%s - %s", t.ArtistNames(), t.Name)
}

// Playlist identifies a playlist on one platform
type Playlist struct {
	ID          string
	Name        string
	Description string
	TrackCount  int
}

// Outcome is the final accounting of a transfer run.
//
// Succeeded + len(Failed) always equals Attempted, and Failed keeps the
// order in which tracks were processed.
type Outcome struct {
	Destination Playlist
	Attempted   int
	Succeeded   int
	Failed      []Track
}

// FailedNames lists the names of every failed track, in order
func (o Outcome) FailedNames() []string {
	names := make([]string, len(o.Failed))
	for i, t := range o.Failed {
		names[i] = t.Name
	}
	return names
}
