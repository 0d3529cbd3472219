// Package docsite serves the SoulFire documentation site: compiled MDX
// pages, Open Graph preview cards, crawler policy, security headers,
// redirects and first-party page-view insights.
//
// Content is compiled at startup with the transform list selected by the
// build mode and cached in memory; in development mode the content
// directory is watched and the cache invalidated on change.
package docsite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/soulfiremc/docsite/content"
	"github.com/soulfiremc/docsite/insights"
	"github.com/soulfiremc/docsite/logging"
)

const (
	shutdownTimeout = 10 * time.Second
	watchDebounce   = 200 * time.Millisecond
)

// App is the central docsite application. It wires together the page
// cache, handlers, middleware and the insights store.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Pages  *PageCache

	insightsStore *insights.Store
	stopCleanup   func() error
	registry      *prometheus.Registry
	metrics       *metrics
	contentFS     fs.FS
	watchContent  bool
	customRoutes  []func(*App)
	log           zerolog.Logger
}

// New creates a docsite App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	registry := prometheus.NewRegistry()
	a := &App{
		Config:   cfg,
		Echo:     echo.New(),
		registry: registry,
		metrics:  newMetrics(registry),
		log:      logging.WithComponent("server"),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Setup compiles the content, opens the insights store and registers
// middleware and routes. Start calls it; tests and the exporter call it
// directly.
func (a *App) Setup(ctx context.Context) error {
	site, err := a.loadContent(ctx)
	if err != nil {
		return fmt.Errorf("docsite: load content: %w", err)
	}
	a.log.Info().
		Int("pages", len(site.Pages)).
		Str("mode", string(a.Config.Mode)).
		Msg("content loaded")

	if a.Config.InsightsEnabled {
		store, err := insights.NewStore(a.Config.InsightsDatabasePath)
		if err != nil {
			return fmt.Errorf("docsite: init insights: %w", err)
		}
		a.insightsStore = store
		stop, err := store.StartCleanupScheduler(a.Config.InsightsRetentionDays, 24*time.Hour)
		if err != nil {
			return fmt.Errorf("docsite: init insights: %w", err)
		}
		a.stopCleanup = stop
	}

	a.setupMiddleware()
	if err := a.setupRoutes(ctx); err != nil {
		return err
	}
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

func (a *App) loadSite(ctx context.Context) (*content.Site, error) {
	start := time.Now()
	site, err := content.Load(ctx, a.contentFS, content.Options{
		Transforms: Transforms(a.Config.Mode, a.Config.URL),
	})
	if err != nil {
		a.metrics.loadErrors.Inc()
		return nil, err
	}
	a.metrics.pagesCompiled.Add(float64(len(site.Pages)))
	a.metrics.pagesLoaded.Set(float64(len(site.Pages)))
	a.metrics.loadDuration.Observe(time.Since(start).Seconds())
	return site, nil
}

// Start sets the app up and serves HTTP until ctx is cancelled, then shuts
// the server down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info().Str("addr", a.Config.Addr).Msg("listening")
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("docsite: serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.log.Info().Msg("shutting down")
		return a.Echo.Shutdown(shutdownCtx)
	})
	if a.Config.Mode == Development && a.watchContent {
		g.Go(func() error {
			a.log.Info().Str("dir", a.Config.ContentDir).Msg("watching content")
			return content.Watch(gctx, a.Config.ContentDir, watchDebounce, func() {
				a.log.Info().Msg("content changed, reloading")
				a.Pages.Invalidate()
			})
		})
	}
	return g.Wait()
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.stopCleanup != nil {
		if err := a.stopCleanup(); err != nil {
			a.log.Warn().Err(err).Msg("stop insights cleanup")
		}
	}
	if a.insightsStore != nil {
		return a.insightsStore.Close()
	}
	return nil
}

func (a *App) siteHost() string {
	u, err := url.Parse(a.Config.URL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
