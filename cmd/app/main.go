package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/moodmusic/internal"
	"github.com/starford/moodmusic/internal/musicservice"
	pkgconfig "github.com/starford/moodmusic/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if p := cmd.String("music"); p != "" {
		cfg.Music.Path = p
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

// query runs fn against a transport-less service and prints its result
// as JSON on stdout. Logs go to stderr.
func query(fn func(context.Context, *musicservice.Service) (any, error)) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return internal.Query(ctx, func(ctx context.Context, svc *musicservice.Service) error {
			out, err := fn(ctx, svc)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
	}
}

func main() {
	var (
		duration float64
		moodName string
	)

	cmd := &cli.Command{
		Name:    "moodmusic",
		Usage:   "Mood-based background music selection for generated videos",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "music",
				Aliases: []string{"m"},
				Usage:   "Music root directory (overrides music.path)",
				Sources: cli.EnvVars("MUSIC_PATH"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API and asset server",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the music tools over MCP stdio",
				Action: serveMCP,
			},
			{
				Name:  "stats",
				Usage: "Print library statistics",
				Action: query(func(ctx context.Context, svc *musicservice.Service) (any, error) {
					return svc.Stats(ctx), nil
				}),
			},
			{
				Name:  "verify",
				Usage: "List built-in tracks missing from the music directory",
				Action: query(func(ctx context.Context, svc *musicservice.Service) (any, error) {
					missing := svc.Verify(ctx)
					if missing == nil {
						missing = []string{}
					}
					return map[string][]string{"missing": missing}, nil
				}),
			},
			{
				Name:  "resolve",
				Usage: "Pick a track for a video",
				Flags: []cli.Flag{
					&cli.FloatFlag{
						Name:        "duration",
						Aliases:     []string{"d"},
						Usage:       "Video duration in seconds",
						Required:    true,
						Destination: &duration,
					},
					&cli.StringFlag{
						Name:        "mood",
						Usage:       "Requested mood (default chill)",
						Destination: &moodName,
					},
				},
				Action: query(func(ctx context.Context, svc *musicservice.Service) (any, error) {
					return svc.Resolve(ctx, duration, moodName)
				}),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
