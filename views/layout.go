package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(parts ...string) {
	for _, s := range parts {
		if hw.err != nil {
			return
		}
		_, hw.err = io.WriteString(hw.w, s)
	}
}

func esc(s string) string { return templ.EscapeString(s) }

func metaTag(hw *htmlWriter, attr, key, value string) {
	if value == "" {
		return
	}
	hw.raw(`<meta `, attr, `="`, esc(key), `" content="`, esc(value), `">`)
}

// Layout renders the HTML document shell around body.
func Layout(cfg SiteConfig, meta PageMeta, nav []NavItem, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}
		title := PageTitle(cfg, meta.Title)
		description := meta.Description
		if description == "" {
			description = cfg.Description
		}
		card := "summary"
		if meta.Image != "" {
			card = "summary_large_image"
		}

		hw.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`, esc(title), `</title>`)
		metaTag(hw, "name", "description", description)
		metaTag(hw, "name", "theme-color", cfg.ThemeColor)
		if meta.URL != "" {
			hw.raw(`<link rel="canonical" href="`, esc(meta.URL), `">`)
		}
		metaTag(hw, "property", "og:site_name", cfg.Name)
		metaTag(hw, "property", "og:title", title)
		metaTag(hw, "property", "og:description", description)
		metaTag(hw, "property", "og:url", meta.URL)
		metaTag(hw, "property", "og:type", ogType)
		metaTag(hw, "property", "og:image", meta.Image)
		metaTag(hw, "name", "twitter:card", card)
		metaTag(hw, "name", "twitter:image", meta.Image)

		jsonLD := WebsiteJsonLD(cfg)
		if ogType == "article" {
			jsonLD = TechArticleJsonLD(cfg, meta)
		}
		hw.raw(`<script type="application/ld+json">`, strings.ReplaceAll(jsonLD, "</", `<\/`), `</script>`,
			`<link rel="stylesheet" href="/public/docsite.css">`,
			`</head><body><header class="site-header"><a href="/">`, esc(cfg.Name), `</a></header>`,
			`<div class="site-main">`)
		if len(nav) > 0 {
			hw.raw(`<nav class="site-nav"><ul>`)
			for _, item := range nav {
				if item.Active {
					hw.raw(`<li class="active">`)
				} else {
					hw.raw(`<li>`)
				}
				hw.raw(`<a href="`, esc(item.Route), `">`, esc(item.Title), `</a></li>`)
			}
			hw.raw(`</ul></nav>`)
		}
		hw.raw(`<main class="content">`)
		if hw.err != nil {
			return hw.err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		hw.raw(`</main></div></body></html>`)
		return hw.err
	})
}

// Page renders a documentation page whose body is trusted, compiled HTML.
func Page(cfg SiteConfig, meta PageMeta, nav []NavItem, bodyHTML string) templ.Component {
	return Layout(cfg, meta, nav, templ.Raw(bodyHTML))
}

// NotFound renders the 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	return Layout(cfg, PageMeta{Title: "Page not found"}, nil,
		templ.Raw(`<h1>404</h1><p>This page could not be found. <a href="/">Back to the docs</a>.</p>`))
}

// ServerError renders the 500 page.
func ServerError(cfg SiteConfig) templ.Component {
	return Layout(cfg, PageMeta{Title: "Something went wrong"}, nil,
		templ.Raw(`<h1>500</h1><p>Something went wrong while rendering this page.</p>`))
}
