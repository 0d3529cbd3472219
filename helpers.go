package docsite

import (
	"net/url"
	"path"

	"github.com/soulfiremc/docsite/content"
	"github.com/soulfiremc/docsite/views"
)

// BuildURL joins a base URL with a route.
func BuildURL(base string, route string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join("/", u.Path, route)
	return u.String()
}

// navItems lists every page for the sidebar, marking the one at active.
func navItems(site *content.Site, active string) []views.NavItem {
	items := make([]views.NavItem, 0, len(site.Pages))
	for _, p := range site.Pages {
		items = append(items, views.NavItem{
			Title:  p.Title,
			Route:  p.Route,
			Active: p.Route == active,
		})
	}
	return items
}
