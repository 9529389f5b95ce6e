package actions

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"playlistporter/internal/playlist"

	"github.com/charmbracelet/huh"
)

var (
	ErrNoPlaylists     = errors.New("no playlists found")
	ErrUnknownPlaylist = errors.New("no such playlist")
)

// Prompter asks the user to pick one of the listed playlists and returns
// whatever they chose: a 1-based index, an id or a name.
type Prompter interface {
	SelectPlaylist(playlists []playlist.Playlist) (string, error)
}

// HuhPrompter picks a playlist with an interactive select list
type HuhPrompter struct{}

func (HuhPrompter) SelectPlaylist(playlists []playlist.Playlist) (string, error) {
	var choice string
	err := huh.NewSelect[string]().
		Height(10).
		Title("Choose a playlist to transfer").
		Options(getPlaylistOptions(playlists)...).
		Value(&choice).
		Run()
	return choice, err
}

func getPlaylistOptions(p []playlist.Playlist) []huh.Option[string] {
	playlistOptions := make([]huh.Option[string], len(p))
	for i, pl := range p {
		label := fmt.Sprintf("%s (%d tracks)", pl.Name, pl.TrackCount)
		playlistOptions[i] = huh.NewOption(label, pl.ID)
	}
	return playlistOptions
}

// ResolvePlaylist finds the playlist the user meant. Input is tried as a
// 1-based position first, then as an id, then as an exact name.
func ResolvePlaylist(playlists []playlist.Playlist, input string) (playlist.Playlist, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return playlist.Playlist{}, fmt.Errorf("%w: empty selection", ErrUnknownPlaylist)
	}

	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(playlists) {
		return playlists[n-1], nil
	}
	for _, p := range playlists {
		if p.ID == input {
			return p, nil
		}
	}
	for _, p := range playlists {
		if p.Name == input {
			return p, nil
		}
	}
	return playlist.Playlist{}, fmt.Errorf("%w: %q", ErrUnknownPlaylist, input)
}

// selectPlaylist keeps prompting until the answer names a listed playlist.
// A prompter error (for example the user aborting) ends the loop.
func selectPlaylist(out io.Writer, prompter Prompter, playlists []playlist.Playlist) (playlist.Playlist, error) {
	for {
		choice, err := prompter.SelectPlaylist(playlists)
		if err != nil {
			return playlist.Playlist{}, fmt.Errorf("playlist selection: %w", err)
		}

		selected, err := ResolvePlaylist(playlists, choice)
		if err == nil {
			return selected, nil
		}
		fmt.Fprintln(out, warnStyle.Render("Invalid selection. Please try again."))
	}
}
