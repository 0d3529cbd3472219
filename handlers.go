package docsite

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"

	"github.com/soulfiremc/docsite/insights"
	"github.com/soulfiremc/docsite/ogimage"
	"github.com/soulfiremc/docsite/views"
)

func (a *App) setupRoutes(ctx context.Context) error {
	e := a.Echo

	// Framework stylesheet; everything else under /public comes from StaticDir.
	assets, err := fs.Sub(EmbeddedAssets, "embedded")
	if err != nil {
		return err
	}
	e.GET("/public/docsite.css", echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(assets)))))
	e.Static("/public", a.Config.StaticDir)

	e.GET("/healthz", a.handleHealth)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: a.registry,
	}))
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/og", a.handleOG)

	for _, r := range Redirects(a.Config) {
		if r.Destination == "" {
			a.log.Warn().Str("source", r.Source).Msg("redirect has no destination, skipping")
			continue
		}
		e.Any(r.Source, a.redirectHandler(r))
	}

	if a.insightsStore != nil {
		h, err := insights.NewHandler(ctx, a.insightsStore, a.siteHost())
		if err != nil {
			return err
		}
		h.Register(e.Group("/_vercel/insights"))
	}

	e.GET("/", a.handlePage)
	e.GET("/*", a.handlePage)
	return nil
}

func (a *App) redirectHandler(r Redirect) echo.HandlerFunc {
	return func(c echo.Context) error {
		a.metrics.redirects.WithLabelValues(r.Source).Inc()
		return c.Redirect(r.StatusCode(), r.Destination)
	}
}

func (a *App) handleHealth(c echo.Context) error {
	site, err := a.Pages.Site(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "ok", "pages": len(site.Pages)})
}

func (a *App) handlePage(c echo.Context) error {
	ctx := c.Request().Context()
	page, err := a.Pages.Page(ctx, c.Request().URL.Path)
	if errors.Is(err, ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	site, err := a.Pages.Site(ctx)
	if err != nil {
		return err
	}

	// Pages embed the sidebar, so the tag covers the whole snapshot.
	etag := `W/"` + string(a.Config.Mode) + "-" + site.Fingerprint + `"`
	c.Response().Header().Set("ETag", etag)
	if c.Request().Header.Get("If-None-Match") == etag {
		return c.NoContent(http.StatusNotModified)
	}
	return Render(c, a.pageView(site, page))
}

func (a *App) handleSitemap(c echo.Context) error {
	site, err := a.Pages.Site(c.Request().Context())
	if err != nil {
		return err
	}
	body, err := a.sitemap(site)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", body)
}

func (a *App) handleOG(c echo.Context) error {
	var buf bytes.Buffer
	if err := ogimage.Render(&buf, ogimage.Card{
		SiteName: a.Config.Name,
		Title:    c.QueryParam("title"),
		Accent:   a.Config.ThemeColor,
	}); err != nil {
		return err
	}
	a.metrics.ogRendered.Inc()
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.viewConfig()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		c.Response().Header().Set("Cache-Control", "no-store")
		_ = RenderStatus(c, code, views.ServerError(a.viewConfig()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
