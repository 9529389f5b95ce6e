package actions

import (
	"bytes"
	"errors"
	"testing"

	"playlistporter/internal/playlist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePlaylists = []playlist.Playlist{
	{ID: "37i9dQZF1DXcBWIGoYBM5M", Name: "Today's Top Hits", TrackCount: 50},
	{ID: "abc123", Name: "Road Trip", TrackCount: 12},
	{ID: "7", Name: "Numbers", TrackCount: 3},
}

type scriptedPrompter struct {
	answers []string
	err     error
	asked   int
}

func (p *scriptedPrompter) SelectPlaylist([]playlist.Playlist) (string, error) {
	p.asked++
	if p.err != nil {
		return "", p.err
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func TestResolvePlaylist(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantID  string
		wantErr bool
	}{
		{name: "index", input: "2", wantID: "abc123"},
		{name: "index with spaces", input: " 1 ", wantID: "37i9dQZF1DXcBWIGoYBM5M"},
		{name: "id", input: "abc123", wantID: "abc123"},
		{name: "name", input: "Road Trip", wantID: "abc123"},
		{name: "index wins over numeric id", input: "3", wantID: "7"},
		{name: "numeric id out of index range", input: "7", wantID: "7"},
		{name: "zero", input: "0", wantErr: true},
		{name: "out of range", input: "4", wantErr: true},
		{name: "unknown name", input: "road trip", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePlaylist(samplePlaylists, tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownPlaylist)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestSelectPlaylist(t *testing.T) {
	t.Run("re-prompts until the answer is valid", func(t *testing.T) {
		var out bytes.Buffer
		prompter := &scriptedPrompter{answers: []string{"9", "", "Road Trip"}}

		got, err := selectPlaylist(&out, prompter, samplePlaylists)
		require.NoError(t, err)
		assert.Equal(t, "abc123", got.ID)
		assert.Equal(t, 3, prompter.asked)
		assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte("Invalid selection")))
	})

	t.Run("prompt error stops the loop", func(t *testing.T) {
		aborted := errors.New("user aborted")
		prompter := &scriptedPrompter{err: aborted}

		_, err := selectPlaylist(&bytes.Buffer{}, prompter, samplePlaylists)
		assert.ErrorIs(t, err, aborted)
		assert.Equal(t, 1, prompter.asked)
	})
}

func TestPlaylistOptions(t *testing.T) {
	opts := getPlaylistOptions(samplePlaylists)
	require.Len(t, opts, 3)
	assert.Equal(t, "Road Trip (12 tracks)", opts[1].Key)
	assert.Equal(t, "abc123", opts[1].Value)
}
