// Package porter moves a list of source tracks into a new destination playlist.
//
// A Porter runs once: it creates the destination playlist, then matches and
// inserts each track strictly in input order, one call at a time. A track that
// cannot be matched or inserted is recorded and the loop moves on; only a
// failed playlist creation (or a cancelled context) aborts the run.
package porter

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"playlistporter/internal/matcher"
	"playlistporter/internal/playlist"
	"playlistporter/internal/utils"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

var (
	ErrPlaylistCreate = errors.New("failed to create destination playlist")
	ErrNoMatch        = errors.New("no match found")
	ErrInsert         = errors.New("failed to add track to playlist")
	ErrInvalidPhase   = errors.New("invalid transfer phase")
)

// Stages reported in a StageError
const (
	StageListPlaylists  = "list_playlists"
	StageExpandTracks   = "expand_tracks"
	StageCreatePlaylist = "create_playlist"
	StageTransfer       = "transfer"
)

// StageError is a run-fatal error tagged with the stage that failed
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Destination is the write side of the destination platform
type Destination interface {
	CreatePlaylist(ctx context.Context, title, description string) (playlist.Playlist, error)
	InsertItem(ctx context.Context, playlistID, itemID string) error
}

// TrackMatcher finds the destination item for a source track
type TrackMatcher interface {
	FindBestMatch(ctx context.Context, t playlist.Track) (matcher.Match, error)
}

// Options configures a Porter. The zero value is usable.
type Options struct {
	// Description of the created playlist; a dated default is used when empty
	Description string
	// Limiter paces every destination call; nil disables pacing
	Limiter *rate.Limiter
	Logger  *log.Logger
	// Progress receives updates without blocking; a full channel drops them
	Progress chan<- ProgressUpdate
}

// Porter is the transfer engine for one run
type Porter struct {
	dest    Destination
	matcher TrackMatcher
	opts    Options
	logger  *log.Logger

	phase       Phase
	target      *playlist.Playlist
	transferred bool
	outcome     playlist.Outcome
}

// NewPorter creates a transfer engine writing to dest
func NewPorter(dest Destination, m TrackMatcher, opts Options) *Porter {
	return &Porter{
		dest:    dest,
		matcher: m,
		opts:    opts,
		logger:  utils.OrDiscard(opts.Logger),
		phase:   CreatingPlaylist,
	}
}

// Phase reports where the run is
func (p *Porter) Phase() Phase {
	return p.phase
}

// sendProgress sends a progress update through the channel without blocking.
func (p *Porter) sendProgress(update ProgressUpdate) {
	if p.opts.Progress == nil {
		return
	}
	select {
	case p.opts.Progress <- update:
	default:
	}
}

func (p *Porter) wait(ctx context.Context) error {
	if p.opts.Limiter == nil {
		return ctx.Err()
	}
	return p.opts.Limiter.Wait(ctx)
}

func (p *Porter) abort(stage string, err error) error {
	p.phase = Aborted
	p.logger.Debug("transfer aborted", "stage", stage, "err", err)
	return &StageError{Stage: stage, Err: err}
}

// CreateDestinationPlaylist creates the single playlist every track is added to.
// It can only succeed once per Porter; a failure aborts the run.
func (p *Porter) CreateDestinationPlaylist(ctx context.Context, title string) (playlist.Playlist, error) {
	if p.phase != CreatingPlaylist || p.target != nil {
		return playlist.Playlist{}, fmt.Errorf("%w: cannot create playlist while %s", ErrInvalidPhase, p.phase)
	}

	description := p.opts.Description
	if description == "" {
		description = fmt.Sprintf("Playlist created via playlistporter on %s", time.Now().Format("2006-01-02"))
	}

	p.logger.Info("creating playlist...", "title", title)
	created, err := p.dest.CreatePlaylist(ctx, title, description)
	if err != nil {
		return playlist.Playlist{}, p.abort(StageCreatePlaylist, fmt.Errorf("%w %q: %w", ErrPlaylistCreate, title, err))
	}

	p.target = &created
	p.outcome.Destination = created
	p.phase = Matching
	p.sendProgress(createdUpdate(created))
	return created, nil
}

// Transfer matches and inserts tracks one at a time, in order. Per-track
// failures are recorded in the outcome and never returned.
func (p *Porter) Transfer(ctx context.Context, tracks []playlist.Track) error {
	if p.target == nil || p.transferred || p.phase != Matching {
		return fmt.Errorf("%w: cannot transfer while %s", ErrInvalidPhase, p.phase)
	}
	p.transferred = true

	total := len(tracks)
	for i, track := range tracks {
		step := i + 1

		if err := p.wait(ctx); err != nil {
			return p.abort(StageTransfer, err)
		}

		p.phase = Matching
		p.outcome.Attempted++
		p.sendProgress(matchingUpdate(step, total, track))

		match, err := p.matcher.FindBestMatch(ctx, track)
		if err != nil {
			p.recordFailure(Matching, step, total, track, err)
			continue
		}
		if !match.Found() {
			p.recordFailure(Matching, step, total, track, fmt.Errorf("%w for %q", ErrNoMatch, match.Query))
			continue
		}

		if err := p.wait(ctx); err != nil {
			return p.abort(StageTransfer, err)
		}

		p.phase = Inserting
		if err := p.dest.InsertItem(ctx, p.target.ID, match.ItemID); err != nil {
			p.recordFailure(Inserting, step, total, track, fmt.Errorf("%w: %w", ErrInsert, err))
			continue
		}

		p.outcome.Succeeded++
		p.logger.Info("added track", "step", step, "total", total, "track", track.String(), "item", match.ItemID)
		p.sendProgress(addedUpdate(step, total, track, match.ItemID))
	}

	p.phase = Summarizing
	return nil
}

func (p *Porter) recordFailure(phase Phase, step, total int, track playlist.Track, err error) {
	p.outcome.Failed = append(p.outcome.Failed, track)
	p.logger.Warn("could not transfer track", "step", step, "total", total, "track", track.String(), "err", err)
	p.sendProgress(failedUpdate(phase, step, total, track, err))
}

// Summarize returns the outcome once every track was processed.
func (p *Porter) Summarize() (playlist.Outcome, error) {
	if p.phase != Summarizing && p.phase != Done {
		return playlist.Outcome{}, fmt.Errorf("%w: cannot summarize while %s", ErrInvalidPhase, p.phase)
	}

	if p.phase == Summarizing {
		p.phase = Done
		p.logger.Info("playlist transfer complete",
			"attempted", p.outcome.Attempted,
			"succeeded", p.outcome.Succeeded,
			"failed", len(p.outcome.Failed),
		)
		p.sendProgress(summaryUpdate(p.outcome))
	}

	out := p.outcome
	out.Failed = slices.Clone(p.outcome.Failed)
	return out, nil
}

// Run creates the destination playlist, transfers tracks and summarizes
func (p *Porter) Run(ctx context.Context, title string, tracks []playlist.Track) (playlist.Outcome, error) {
	if _, err := p.CreateDestinationPlaylist(ctx, title); err != nil {
		return playlist.Outcome{}, err
	}
	if err := p.Transfer(ctx, tracks); err != nil {
		return playlist.Outcome{}, err
	}
	return p.Summarize()
}
