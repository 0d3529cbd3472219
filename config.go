package docsite

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/soulfiremc/docsite/mdx"
	"github.com/soulfiremc/docsite/ogimage"
)

// BuildMode selects how content is compiled.
type BuildMode string

const (
	// Production builds run every content transform.
	Production BuildMode = "production"
	// Development builds skip transforms that only matter for published
	// pages and watch the content directory for changes.
	Development BuildMode = "development"
)

// ErrUnknownBuildMode is returned by ParseBuildMode for unrecognised values.
var ErrUnknownBuildMode = errors.New("unknown build mode")

// ParseBuildMode parses "production" or "development" (case-insensitive).
// The empty string selects Production.
func ParseBuildMode(s string) (BuildMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "production", "prod":
		return Production, nil
	case "development", "dev":
		return Development, nil
	}
	return "", fmt.Errorf("docsite: %w %q", ErrUnknownBuildMode, s)
}

// Transforms returns the content transform list for a build mode.
func Transforms(mode BuildMode, siteURL string) []mdx.Transform {
	switch mode {
	case Production:
		return []mdx.Transform{mdx.OpenGraphImage(siteURL)}
	default:
		return nil
	}
}

// SiteConfig holds all configuration for a docsite server.
type SiteConfig struct {
	Name        string // Site name (default "SoulFire")
	URL         string // Canonical URL (default "https://soulfiremc.com")
	Description string // Site description for meta tags
	ThemeColor  string // Accent color for OG cards and theme-color (default "#f97316")

	Addr       string    // Listen address (default ":3000")
	ContentDir string    // Content root (default "content")
	StaticDir  string    // Static assets served under /public (default "public")
	Mode       BuildMode // Build mode (default Production)

	DiscordLink string // Destination of the /discord redirect
	GitHubLink  string // Destination of the /github redirect

	InsightsEnabled       bool   // Accept page-view beacons under /_vercel/insights
	InsightsDatabasePath  string // Insights SQLite path (default "data/insights.db")
	InsightsRetentionDays int    // Days of page views to keep (default 365)

	PageCacheTTL time.Duration // Compiled content TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "SoulFire"
	}
	if c.URL == "" {
		c.URL = "https://soulfiremc.com"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.ThemeColor == "" {
		c.ThemeColor = ogimage.DefaultAccent
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.Mode == "" {
		c.Mode = Production
	}
	if c.InsightsDatabasePath == "" {
		c.InsightsDatabasePath = "data/insights.db"
	}
	if c.InsightsRetentionDays == 0 {
		c.InsightsRetentionDays = 365
	}
	if c.PageCacheTTL == 0 {
		c.PageCacheTTL = 5 * time.Minute
	}
}

// ConfigFromEnv reads a SiteConfig from the process environment. Redirect
// destinations are captured here, once, at configuration-load time.
func ConfigFromEnv() (SiteConfig, error) {
	mode, err := ParseBuildMode(os.Getenv("BUILD_MODE"))
	if err != nil {
		return SiteConfig{}, err
	}
	insights, err := strconv.ParseBool(EnvOr("INSIGHTS_ENABLED", "true"))
	if err != nil {
		return SiteConfig{}, fmt.Errorf("docsite: INSIGHTS_ENABLED: %w", err)
	}
	retention, err := strconv.Atoi(EnvOr("INSIGHTS_RETENTION_DAYS", "365"))
	if err != nil {
		return SiteConfig{}, fmt.Errorf("docsite: INSIGHTS_RETENTION_DAYS: %w", err)
	}
	ttl, err := time.ParseDuration(EnvOr("PAGE_CACHE_TTL", "5m"))
	if err != nil {
		return SiteConfig{}, fmt.Errorf("docsite: PAGE_CACHE_TTL: %w", err)
	}

	cfg := SiteConfig{
		Name:                  os.Getenv("SITE_NAME"),
		URL:                   os.Getenv("SITE_URL"),
		Description:           os.Getenv("SITE_DESCRIPTION"),
		ThemeColor:            os.Getenv("THEME_COLOR"),
		Addr:                  os.Getenv("ADDR"),
		ContentDir:            os.Getenv("CONTENT_DIR"),
		StaticDir:             os.Getenv("STATIC_DIR"),
		Mode:                  mode,
		DiscordLink:           os.Getenv("DISCORD_LINK"),
		GitHubLink:            os.Getenv("GITHUB_LINK"),
		InsightsEnabled:       insights,
		InsightsDatabasePath:  os.Getenv("INSIGHTS_DB"),
		InsightsRetentionDays: retention,
		PageCacheTTL:          ttl,
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithContentFS loads content from fsys instead of SiteConfig.ContentDir.
// The development-mode watcher is disabled for such apps.
func WithContentFS(fsys fs.FS) Option {
	return func(a *App) {
		a.contentFS = fsys
	}
}
