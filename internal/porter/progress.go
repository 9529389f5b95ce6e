package porter

import (
	"fmt"

	"playlistporter/internal/playlist"
)

// Phase is a step of a transfer run
type Phase int

const (
	CreatingPlaylist Phase = iota
	Matching
	Inserting
	Summarizing
	Done
	Aborted
)

func (p Phase) String() string {
	switch p {
	case CreatingPlaylist:
		return "creating_playlist"
	case Matching:
		return "matching"
	case Inserting:
		return "inserting"
	case Summarizing:
		return "summarizing"
	case Done:
		return "done"
	case Aborted:
		return "aborted"
	default:
		return ""
	}
}

// ProgressUpdate is a progress event emitted during a run, for display only
type ProgressUpdate struct {
	Phase   Phase
	Step    int // 1-based track position, 0 outside the track loop
	Total   int
	Track   *playlist.Track
	Message string
	Err     error
}

func createdUpdate(p playlist.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatingPlaylist,
		Message: fmt.Sprintf("Playlist created: %s", p.Name),
	}
}

func matchingUpdate(step, total int, t playlist.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Matching,
		Step:    step,
		Total:   total,
		Track:   &t,
		Message: fmt.Sprintf("[%d/%d] Searching for %s", step, total, t),
	}
}

func addedUpdate(step, total int, t playlist.Track, itemID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Inserting,
		Step:    step,
		Total:   total,
		Track:   &t,
		Message: fmt.Sprintf("[%d/%d] Added %s (%s)", step, total, t, itemID),
	}
}

func failedUpdate(phase Phase, step, total int, t playlist.Track, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Track:   &t,
		Message: fmt.Sprintf("[%d/%d] Could not transfer %s: %v", step, total, t, err),
		Err:     err,
	}
}

func summaryUpdate(o playlist.Outcome) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Summarizing,
		Message: fmt.Sprintf("Playlist transfer complete. %d of %d tracks added.", o.Succeeded, o.Attempted),
	}
}
