package views

// SiteConfig holds the site-wide settings templates need.
type SiteConfig struct {
	Name        string // SITE_NAME
	URL         string // SITE_URL
	Description string // SITE_DESCRIPTION
	ThemeColor  string // THEME_COLOR
}

// PageMeta carries per-page Open Graph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image, empty when the page has none
}

// NavItem is one entry of the documentation sidebar.
type NavItem struct {
	Title  string
	Route  string
	Active bool
}
