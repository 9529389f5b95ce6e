package main

import (
	"context"
	"os"
	"os/signal"

	"playlistporter/internal/actions"
	"playlistporter/internal/config"
	"playlistporter/internal/utils"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to a TOML config file",
	},
	&cli.StringFlag{
		Name:  "log-level",
		Usage: "debug, info, warn or error (overrides the config file)",
	},
	&cli.BoolFlag{
		Name:  "no-input",
		Usage: "never prompt; fail instead",
	},
}

func main() {
	app := &cli.App{
		Name:  "playlistporter",
		Usage: "Copy a Spotify playlist to a new YouTube playlist.",
		Flags: globalFlags,
		Commands: []*cli.Command{
			{
				Name:  "transfer",
				Usage: "Transfer one Spotify playlist to YouTube",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "playlist",
						Aliases: []string{"p"},
						Usage:   "playlist to transfer: its number in the listing, its id or its exact name",
					},
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "title of the new YouTube playlist",
					},
					&cli.StringFlag{
						Name:  "privacy",
						Usage: "privacy of the new YouTube playlist: private, public or unlisted",
					},
				},
				Action: func(c *cli.Context) error {
					opts, err := commandOptions(c)
					if err != nil {
						return err
					}
					if p := c.String("privacy"); p != "" {
						opts.Config.Transfer.Privacy = p
					}
					opts.Playlist = c.String("playlist")
					opts.Title = c.String("title")

					_, err = actions.Transfer(c.Context, opts)
					return err
				},
			},
			{
				Name:  "playlists",
				Usage: "List your Spotify playlists",
				Action: func(c *cli.Context) error {
					opts, err := commandOptions(c)
					if err != nil {
						return err
					}
					return actions.ListPlaylists(c.Context, opts)
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Error("playlistporter failed", "err", err)
		stop()
		os.Exit(1)
	}
}

// commandOptions loads configuration and builds the run logger shared by every command
func commandOptions(c *cli.Context) (actions.Options, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return actions.Options{}, err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}

	logger := utils.NewLogger(os.Stderr, utils.LoggerOptions{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	}).With("run", uuid.NewString())
	log.SetDefault(logger)

	interactive := !c.Bool("no-input") && isatty.IsTerminal(os.Stdin.Fd())

	return actions.Options{
		Config:      cfg,
		Logger:      logger,
		Out:         os.Stdout,
		Interactive: interactive,
	}, nil
}
