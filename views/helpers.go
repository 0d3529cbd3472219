package views

import (
	"encoding/json"
	"net/url"
	"strings"
)

// AbsoluteURL resolves ref against the site URL. Absolute references are
// returned unchanged.
func AbsoluteURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil || r.IsAbs() {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      AbsoluteURL(cfg.URL, "/"),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// TechArticleJsonLD produces a Schema.org TechArticle JSON-LD block for a
// documentation page.
func TechArticleJsonLD(cfg SiteConfig, meta PageMeta) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "TechArticle",
		"headline": meta.Title,
		"url":      meta.URL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
	}
	if meta.Description != "" {
		data["description"] = meta.Description
	}
	if meta.Image != "" {
		data["image"] = meta.Image
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// PageTitle formats the document title shown in the browser tab.
func PageTitle(cfg SiteConfig, title string) string {
	title = strings.TrimSpace(title)
	if title == "" || title == cfg.Name {
		return cfg.Name
	}
	return title + " | " + cfg.Name
}
