package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/soulfiremc/docsite"
	"github.com/soulfiremc/docsite/insights"
	"github.com/soulfiremc/docsite/logging"
	"github.com/soulfiremc/docsite/mdx"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr string `short:"a" help:"Listen address. Overrides ADDR."`
}

func (s *ServeCmd) Run(ctx context.Context, root *CLI) error {
	cfg, err := root.Config()
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Addr = s.Addr
	}

	app := docsite.New(cfg)
	defer app.Close()
	return app.Start(ctx)
}

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory for the exported site" default:"dist"`
}

func (b *BuildCmd) Run(ctx context.Context, root *CLI) error {
	cfg, err := root.Config()
	if err != nil {
		return err
	}
	cfg.InsightsEnabled = false

	log := logging.WithComponent("build")
	start := time.Now()
	n, err := docsite.New(cfg).Export(ctx, b.Output)
	if err != nil {
		return err
	}
	log.Info().
		Int("pages", n).
		Str("output", b.Output).
		Str("mode", string(cfg.Mode)).
		Dur("took", time.Since(start)).
		Msg("site exported")
	return nil
}

// MetaCmd implements the 'meta' command.
type MetaCmd struct {
	File     string `arg:"" type:"existingfile" help:"MDX or Markdown document"`
	Metadata bool   `help:"Print the evaluated metadata as JSON instead of the document"`
}

func (m *MetaCmd) Run(root *CLI) error {
	cfg, err := root.Config()
	if err != nil {
		return err
	}
	src, err := os.ReadFile(m.File)
	if err != nil {
		return err
	}
	doc, err := mdx.Parse(src)
	if err != nil {
		return fmt.Errorf("%s: %w", m.File, err)
	}
	doc = mdx.Apply(doc, docsite.Transforms(cfg.Mode, cfg.URL)...)

	if m.Metadata {
		meta, _ := doc.Metadata()
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}
	_, err = os.Stdout.WriteString(doc.Source())
	return err
}

// StatsCmd implements the 'stats' command.
type StatsCmd struct {
	Days  int  `short:"d" help:"Number of days to report" default:"30"`
	Limit int  `short:"n" help:"Number of paths to list" default:"20"`
	JSON  bool `help:"Print JSON instead of a table"`
}

func (s *StatsCmd) Run(ctx context.Context, root *CLI) error {
	cfg, err := root.Config()
	if err != nil {
		return err
	}
	store, err := insights.NewStore(cfg.InsightsDatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -s.Days)
	stats, err := store.TopPaths(ctx, from, to, s.Limit)
	if err != nil {
		return err
	}

	if s.JSON {
		return json.NewEncoder(os.Stdout).Encode(stats)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tVIEWS\tVISITORS")
	for _, st := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", st.Path, st.Views, st.Visitors)
	}
	return tw.Flush()
}

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (VersionCmd) Run() error {
	fmt.Printf("docsite %s\n", version)
	return nil
}
