package actions

import (
	"fmt"
	"strings"

	"playlistporter/internal/adapters"
	"playlistporter/internal/playlist"
	"playlistporter/internal/porter"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1DB954"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

// RenderPlaylistListing numbers playlists from 1, the way selection expects them
func RenderPlaylistListing(provider string, playlists []playlist.Playlist) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Your %s Playlists:", provider)))
	b.WriteString("\n")
	for i, p := range playlists {
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, p.Name, dimStyle.Render(fmt.Sprintf("(%d tracks)", p.TrackCount)))
	}
	return b.String()
}

// RenderSummary formats the final outcome of a transfer
func RenderSummary(o playlist.Outcome) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Playlist transfer complete. %d tracks added to YouTube playlist.", o.Succeeded)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Attempted: %d  Succeeded: %d  Failed: %d\n", o.Attempted, o.Succeeded, len(o.Failed))

	if len(o.Failed) > 0 {
		b.WriteString(warnStyle.Render("Error adding the following tracks to YouTube playlist:"))
		b.WriteString("\n")
		for _, t := range o.Failed {
			fmt.Fprintf(&b, "  - %s\n", t.Name)
		}
	}

	if o.Destination.ID != "" {
		fmt.Fprintf(&b, "Playlist: %s\n", adapters.PlaylistURL(o.Destination.ID))
	}
	return b.String()
}

func renderProgress(u porter.ProgressUpdate) string {
	if u.Err != nil {
		return errStyle.Render(u.Message)
	}
	return u.Message
}
