package actions

import (
	"context"
	"fmt"

	"playlistporter/internal/adapters"
	"playlistporter/internal/auth"
)

// ListPlaylists logs in to Spotify only and prints the numbered playlist
// listing that --playlist indexes refer to.
func ListPlaylists(ctx context.Context, opts Options) error {
	opts.setDefaults()
	cfg := opts.Config
	if err := cfg.ValidateSource(); err != nil {
		return err
	}

	source, err := newLogin(
		auth.NewSpotifySession(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, cfg.Spotify.RedirectURI),
		cfg.Spotify.RedirectURI, opts.Logger,
	)
	if err != nil {
		return err
	}

	srv, err := startCallbackServer(cfg.Server.Addr(), opts.Logger, source)
	if err != nil {
		return err
	}
	defer shutdown(srv.Shutdown, opts.Logger)

	if err := authenticate(ctx, opts.Out, opts.OpenBrowser, source); err != nil {
		return err
	}

	return printPlaylists(ctx, opts, adapters.NewSpotifyAdapter(source.session, opts.Logger))
}

func printPlaylists(ctx context.Context, opts Options, catalog adapters.SourceCatalog) error {
	playlists, err := catalog.ListPlaylists(ctx)
	if err != nil {
		return err
	}
	if len(playlists) == 0 {
		fmt.Fprintln(opts.Out, "No playlists found.")
		return nil
	}
	fmt.Fprint(opts.Out, RenderPlaylistListing("Spotify", playlists))
	return nil
}
