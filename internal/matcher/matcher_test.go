package matcher

import (
	"context"
	"errors"
	"testing"

	"playlistporter/internal/playlist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	results map[string][]string
	err     error
	calls   []string
	limits  []int64
}

func (s *stubSearcher) SearchVideos(ctx context.Context, query string, limit int64) ([]string, error) {
	s.calls = append(s.calls, query)
	s.limits = append(s.limits, limit)
	if s.err != nil {
		return nil, s.err
	}
	return s.results[query], nil
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name  string
		track playlist.Track
		want  string
	}{
		{
			name:  "all fields",
			track: playlist.Track{Name: "Song", Album: "Record", Artists: []string{"A", "B"}},
			want:  "Song Record A, B",
		},
		{
			name:  "no album",
			track: playlist.Track{Name: "Song", Artists: []string{"A"}},
			want:  "Song A",
		},
		{
			name:  "name only",
			track: playlist.Track{Name: " Song "},
			want:  "Song",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuery(tt.track))
		})
	}
}

func TestFindBestMatch(t *testing.T) {
	ctx := context.Background()
	track := playlist.Track{Name: "Song", Album: "Record", Artists: []string{"A"}}

	t.Run("top result", func(t *testing.T) {
		s := &stubSearcher{results: map[string][]string{"Song Record A": {"v1", "v2"}}}
		m := New(s, nil)

		got, err := m.FindBestMatch(ctx, track)
		require.NoError(t, err)
		assert.True(t, got.Found())
		assert.Equal(t, "v1", got.ItemID)
		assert.Equal(t, []int64{1}, s.limits)
	})

	t.Run("no results is not an error", func(t *testing.T) {
		s := &stubSearcher{}
		m := New(s, nil)

		got, err := m.FindBestMatch(ctx, track)
		require.NoError(t, err)
		assert.False(t, got.Found())
		assert.Equal(t, "Song Record A", got.Query)
	})

	t.Run("search error", func(t *testing.T) {
		cause := errors.New("quota exceeded")
		s := &stubSearcher{err: cause}
		m := New(s, nil)

		got, err := m.FindBestMatch(ctx, track)
		assert.ErrorIs(t, err, ErrSearch)
		assert.ErrorIs(t, err, cause)
		assert.False(t, got.Found())
		assert.Len(t, s.calls, 1)
	})
}
