// Package actions sequences a migration run for the command line: it
// authenticates both providers, asks which playlist to move and reports the
// outcome.
package actions

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"playlistporter/internal/adapters"
	"playlistporter/internal/auth"
	"playlistporter/internal/config"
	"playlistporter/internal/matcher"
	"playlistporter/internal/playlist"
	"playlistporter/internal/porter"
	"playlistporter/internal/utils"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 5 * time.Second

// Options configures a command run
type Options struct {
	Config *config.Config
	Logger *log.Logger
	Out    io.Writer

	// Playlist preselects the source playlist by index, id or name
	Playlist string
	// Title overrides the destination playlist title
	Title string

	// Interactive enables prompts and spinners
	Interactive bool
	Prompter    Prompter
	OpenBrowser func(string) error
}

func (o *Options) setDefaults() {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	o.Logger = utils.OrDiscard(o.Logger)
	if o.Prompter == nil {
		o.Prompter = HuhPrompter{}
	}
	if o.OpenBrowser == nil {
		o.OpenBrowser = utils.OpenBrowser
	}
}

// NewLimiter paces destination calls at rps; zero disables pacing
func NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// Migration moves one source playlist to the destination. Its catalogs must
// already be authenticated.
type Migration struct {
	Source      adapters.SourceCatalog
	Destination adapters.DestinationCatalog

	TitlePrefix string
	Title       string
	Description string
	Limiter     *rate.Limiter

	Playlist    string
	Interactive bool
	Prompter    Prompter
	Out         io.Writer
	Logger      *log.Logger
}

// Run lists source playlists, resolves the one to move, expands it and
// transfers every track. Listing, expansion and playlist creation failures
// are fatal; per-track failures end up in the outcome.
func (m *Migration) Run(ctx context.Context) (playlist.Outcome, error) {
	logger := utils.OrDiscard(m.Logger)

	var playlists []playlist.Playlist
	err := m.withSpinner(ctx, "Fetching playlists...", func(ctx context.Context) error {
		var err error
		playlists, err = m.Source.ListPlaylists(ctx)
		return err
	})
	if err != nil {
		return playlist.Outcome{}, &porter.StageError{Stage: porter.StageListPlaylists, Err: err}
	}
	if len(playlists) == 0 {
		return playlist.Outcome{}, &porter.StageError{Stage: porter.StageListPlaylists, Err: ErrNoPlaylists}
	}

	source, err := m.choose(playlists)
	if err != nil {
		return playlist.Outcome{}, err
	}
	logger.Info("selected playlist", "id", source.ID, "name", source.Name)

	var tracks []playlist.Track
	err = m.withSpinner(ctx, fmt.Sprintf("Fetching tracks for %s...", source.Name), func(ctx context.Context) error {
		var err error
		tracks, err = m.Source.ExpandTracks(ctx, source.ID)
		return err
	})
	if err != nil {
		return playlist.Outcome{}, &porter.StageError{Stage: porter.StageExpandTracks, Err: err}
	}
	fmt.Fprintf(m.Out, "Fetched %d tracks from %s.\n", len(tracks), source.Name)

	title := m.Title
	if title == "" {
		title = m.TitlePrefix + source.Name
	}

	progress := make(chan porter.ProgressUpdate, 256)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for u := range progress {
			fmt.Fprintln(m.Out, renderProgress(u))
		}
	}()

	p := porter.NewPorter(m.Destination, matcher.New(m.Destination, logger), porter.Options{
		Description: m.Description,
		Limiter:     m.Limiter,
		Logger:      logger,
		Progress:    progress,
	})
	outcome, err := p.Run(ctx, title, tracks)

	close(progress)
	wg.Wait()
	return outcome, err
}

func (m *Migration) choose(playlists []playlist.Playlist) (playlist.Playlist, error) {
	if m.Playlist != "" {
		return ResolvePlaylist(playlists, m.Playlist)
	}
	if !m.Interactive || m.Prompter == nil {
		return playlist.Playlist{}, fmt.Errorf("%w: no playlist given and prompts are disabled", ErrUnknownPlaylist)
	}

	fmt.Fprint(m.Out, RenderPlaylistListing("Spotify", playlists))
	return selectPlaylist(m.Out, m.Prompter, playlists)
}

func (m *Migration) withSpinner(ctx context.Context, title string, action func(context.Context) error) error {
	if !m.Interactive {
		return action(ctx)
	}
	return spinner.New().Title(title).Context(ctx).ActionWithErr(action).Run()
}

// Transfer runs a full migration: Spotify login, YouTube login, then the
// transfer itself. The summary is written to opts.Out.
func Transfer(ctx context.Context, opts Options) (playlist.Outcome, error) {
	opts.setDefaults()
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return playlist.Outcome{}, err
	}

	source, err := newLogin(
		auth.NewSpotifySession(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, cfg.Spotify.RedirectURI),
		cfg.Spotify.RedirectURI, opts.Logger,
	)
	if err != nil {
		return playlist.Outcome{}, err
	}
	destination, err := newLogin(
		auth.NewYouTubeSession(cfg.YouTube.ClientID, cfg.YouTube.ClientSecret, cfg.YouTube.RedirectURI),
		cfg.YouTube.RedirectURI, opts.Logger,
	)
	if err != nil {
		return playlist.Outcome{}, err
	}

	srv, err := startCallbackServer(cfg.Server.Addr(), opts.Logger, source, destination)
	if err != nil {
		return playlist.Outcome{}, err
	}
	defer shutdown(srv.Shutdown, opts.Logger)

	for _, l := range []login{source, destination} {
		if err := authenticate(ctx, opts.Out, opts.OpenBrowser, l); err != nil {
			return playlist.Outcome{}, err
		}
	}

	m := &Migration{
		Source:      adapters.NewSpotifyAdapter(source.session, opts.Logger),
		Destination: adapters.NewYouTubeAdapter(destination.session, opts.Logger, cfg.Transfer.Privacy),
		TitlePrefix: cfg.Transfer.TitlePrefix,
		Title:       opts.Title,
		Description: cfg.Transfer.Description,
		Limiter:     NewLimiter(cfg.Transfer.RequestsPerSecond),
		Playlist:    opts.Playlist,
		Interactive: opts.Interactive,
		Prompter:    opts.Prompter,
		Out:         opts.Out,
		Logger:      opts.Logger,
	}

	outcome, err := m.Run(ctx)
	if err != nil {
		return playlist.Outcome{}, err
	}

	fmt.Fprint(opts.Out, RenderSummary(outcome))
	return outcome, nil
}

func shutdown(stop func(context.Context) error, logger *log.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := stop(ctx); err != nil {
		utils.OrDiscard(logger).Warn("callback server shutdown", "err", err)
	}
}
