package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/soulfiremc/docsite"
	"github.com/soulfiremc/docsite/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// CLI definition & global flags.
type CLI struct {
	Mode     string `short:"m" help:"Build mode (production|development). Overrides BUILD_MODE."`
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error)" env:"LOG_LEVEL" default:"info"`
	Console  bool   `help:"Human-readable log output instead of JSON"`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Serve the documentation site"`
	Build   BuildCmd   `cmd:"" help:"Export the site as static files"`
	Meta    MetaCmd    `cmd:"" help:"Print a document after the build-mode transforms ran"`
	Stats   StatsCmd   `cmd:"" help:"Print the most viewed pages recorded by insights"`
	Version VersionCmd `cmd:"" help:"Print the docsite version"`
}

// AfterApply runs after flag parsing; set up logging once.
func (c *CLI) AfterApply() error {
	logging.Configure(logging.Config{
		Level:   c.LogLevel,
		Console: c.Console,
		Service: "docsite",
	})
	return nil
}

// Config reads the site configuration from the environment and applies
// the global flag overrides.
func (c *CLI) Config() (docsite.SiteConfig, error) {
	cfg, err := docsite.ConfigFromEnv()
	if err != nil {
		return cfg, err
	}
	if c.Mode != "" {
		mode, err := docsite.ParseBuildMode(c.Mode)
		if err != nil {
			return cfg, err
		}
		cfg.Mode = mode
	}
	return cfg, nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log := logging.Base()
		log.Warn().Err(err).Msg("failed to load .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("docsite"),
		kong.Description("SoulFire documentation site server and exporter."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err := kctx.Run(&cli); err != nil {
		log := logging.Base()
		log.Error().Err(err).Str("command", kctx.Command()).Msg("command failed")
		os.Exit(1)
	}
}
