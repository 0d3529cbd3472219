package docsite

import (
	"context"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContent() fstest.MapFS {
	return fstest.MapFS{
		"index.mdx":             {Data: []byte("---\ntitle: SoulFire\ndescription: Advanced Minecraft bot tool\n---\n\n# Welcome\n\nHello.\n")},
		"docs/installation.mdx": {Data: []byte("export const metadata = { title: \"Installation\", description: \"Install SoulFire\" }\n\n# Install\n\nRun the jar.\n")},
		"docs/faq.md":           {Data: []byte("# FAQ\n\nNo metadata here.\n")},
	}
}

func newTestApp(t *testing.T, mode BuildMode) *App {
	t.Helper()
	cfg := SiteConfig{
		URL:                  "https://soulfiremc.com",
		Mode:                 mode,
		StaticDir:            t.TempDir(),
		DiscordLink:          "https://discord.gg/soulfire",
		InsightsEnabled:      true,
		InsightsDatabasePath: filepath.Join(t.TempDir(), "insights.db"),
	}
	a := New(cfg, WithContentFS(testContent()))
	require.NoError(t, a.Setup(context.Background()))
	t.Cleanup(func() { a.Close() })
	return a
}

func do(a *App, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func TestSecurityHeadersOnEveryResponse(t *testing.T) {
	a := newTestApp(t, Production)

	for _, target := range []string{"/", "/docs/installation", "/docs/installation/", "/robots.txt", "/missing", "/discord"} {
		rec := do(a, http.MethodGet, target)
		for _, h := range SecurityHeaders() {
			assert.Equal(t, h.Value, rec.Header().Get(h.Key), "%s on %s", h.Key, target)
		}
	}
}

func TestRedirects(t *testing.T) {
	a := newTestApp(t, Production)

	rec := do(a, http.MethodGet, "/discord")
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "https://discord.gg/soulfire", rec.Header().Get(echo.HeaderLocation))

	// No GITHUB_LINK configured, so the rule is not registered.
	rec = do(a, http.MethodGet, "/github")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRewriteServesInsights(t *testing.T) {
	a := newTestApp(t, Production)

	rec := do(a, http.MethodGet, "/va/script.js")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "javascript")
	assert.Contains(t, rec.Body.String(), "/_vercel/insights")
}

func TestRobotsRoute(t *testing.T) {
	a := newTestApp(t, Production)

	rec := do(a, http.MethodGet, "/robots.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User-Agent: *\nDisallow:\n\nSitemap: https://soulfiremc.com/sitemap.xml\n", rec.Body.String())
}

func TestSitemapRoute(t *testing.T) {
	a := newTestApp(t, Production)

	rec := do(a, http.MethodGet, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<loc>https://soulfiremc.com/</loc>")
	assert.Contains(t, body, "<loc>https://soulfiremc.com/docs/installation</loc>")
	assert.Contains(t, body, "<loc>https://soulfiremc.com/docs/faq</loc>")
}

func TestOGImageRoute(t *testing.T) {
	a := newTestApp(t, Production)

	rec := do(a, http.MethodGet, "/og?title=Installation")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "immutable")

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 630, img.Bounds().Dy())

	rec = do(a, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "docsite_og_images_rendered_total 1")
}

func TestProductionPagesCarryOpenGraphImage(t *testing.T) {
	a := newTestApp(t, Production)

	rec := do(a, http.MethodGet, "/docs/installation")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<meta property="og:image" content="https://soulfiremc.com/og?title=Installation">`)
	assert.Contains(t, body, `<meta property="og:title" content="Installation | SoulFire">`)
	assert.Contains(t, body, `<meta name="twitter:card" content="summary_large_image">`)

	// Pages without a metadata title are left alone.
	rec = do(a, http.MethodGet, "/docs/faq")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "og:image")
}

func TestDevelopmentPagesSkipOpenGraphImage(t *testing.T) {
	a := newTestApp(t, Development)

	rec := do(a, http.MethodGet, "/docs/installation")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "og:image")
}

func TestNotFoundPage(t *testing.T) {
	a := newTestApp(t, Production)

	rec := do(a, http.MethodGet, "/does/not/exist")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>404</h1>")
}

func TestTrailingSlashRedirect(t *testing.T) {
	a := newTestApp(t, Production)

	rec := do(a, http.MethodGet, "/docs/installation/")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/docs/installation", rec.Header().Get(echo.HeaderLocation))
	for _, h := range SecurityHeaders() {
		assert.Equal(t, h.Value, rec.Header().Get(h.Key), h.Key)
	}
}

func TestHealthz(t *testing.T) {
	a := newTestApp(t, Production)

	rec := do(a, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","pages":3}`, rec.Body.String())
}

func TestInsightsDisabled(t *testing.T) {
	a := New(SiteConfig{StaticDir: t.TempDir()}, WithContentFS(testContent()))
	require.NoError(t, a.Setup(context.Background()))
	t.Cleanup(func() { a.Close() })

	rec := do(a, http.MethodGet, "/va/script.js")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCustomRoutes(t *testing.T) {
	a := New(SiteConfig{StaticDir: t.TempDir()},
		WithContentFS(testContent()),
		WithCustomRoutes(func(a *App) {
			a.Echo.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
		}))
	require.NoError(t, a.Setup(context.Background()))

	rec := do(a, http.MethodGet, "/ping")
	assert.Equal(t, "pong", rec.Body.String())
}

func TestPageETag(t *testing.T) {
	a := newTestApp(t, Production)

	rec := do(a, http.MethodGet, "/docs/installation")
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/docs/faq", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}
