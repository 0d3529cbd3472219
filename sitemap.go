package docsite

import (
	"bytes"
	"encoding/xml"
	"time"

	"github.com/soulfiremc/docsite/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// sitemap renders the sitemap of every page in site, ordered by route.
func (a *App) sitemap(site *content.Site) ([]byte, error) {
	urls := make([]sitemapURL, 0, len(site.Pages))
	for _, p := range site.Pages {
		u := sitemapURL{Loc: BuildURL(a.Config.URL, p.Route)}
		if !p.ModTime.IsZero() {
			u.LastMod = p.ModTime.UTC().Format(time.DateOnly)
		}
		urls = append(urls, u)
	}
	set := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
