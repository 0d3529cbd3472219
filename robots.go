package docsite

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RobotsRule is one user-agent group of a robots.txt file.
type RobotsRule struct {
	UserAgent string
	Allow     []string
	Disallow  []string
}

// RobotsPolicy is the crawler-directives document.
type RobotsPolicy struct {
	Rules   []RobotsRule
	Sitemap string
}

// Robots returns the site's crawler policy: every agent may crawl every
// path, and the sitemap is advertised.
func Robots(cfg SiteConfig) RobotsPolicy {
	return RobotsPolicy{
		Rules:   []RobotsRule{{UserAgent: "*", Disallow: []string{}}},
		Sitemap: cfg.URL + "/sitemap.xml",
	}
}

// String renders the policy in robots.txt format. A group without
// directives gets an empty Disallow line, which allows everything.
func (p RobotsPolicy) String() string {
	var b strings.Builder
	for i, r := range p.Rules {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("User-Agent: " + r.UserAgent + "\n")
		for _, a := range r.Allow {
			b.WriteString("Allow: " + a + "\n")
		}
		for _, d := range r.Disallow {
			b.WriteString("Disallow: " + d + "\n")
		}
		if len(r.Allow) == 0 && len(r.Disallow) == 0 {
			b.WriteString("Disallow:\n")
		}
	}
	if p.Sitemap != "" {
		b.WriteString("\nSitemap: " + p.Sitemap + "\n")
	}
	return b.String()
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, Robots(a.Config).String())
}
