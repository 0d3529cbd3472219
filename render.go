package docsite

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/soulfiremc/docsite/content"
	"github.com/soulfiremc/docsite/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

func (a *App) viewConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		ThemeColor:  a.Config.ThemeColor,
	}
}

// pageMeta derives the head metadata of a page. The Open Graph image is
// the first image of the page's openGraph metadata, if any.
func (a *App) pageMeta(page *content.Page) views.PageMeta {
	meta := views.PageMeta{
		Title:       page.Title,
		Description: page.Description,
		URL:         BuildURL(a.Config.URL, page.Route),
		OGType:      "article",
	}
	if page.Route == "/" {
		meta.OGType = "website"
	}
	if len(page.Images) > 0 {
		meta.Image = views.AbsoluteURL(a.Config.URL, page.Images[0])
	}
	return meta
}

// pageView renders page inside the site layout with the sidebar built from site.
func (a *App) pageView(site *content.Site, page *content.Page) templ.Component {
	return views.Page(a.viewConfig(), a.pageMeta(page), navItems(site, page.Route), page.HTML)
}
