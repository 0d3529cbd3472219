// Package insights records privacy-friendly page views sent by the web
// analytics beacon script.
package insights

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"time"
)

// View is a single page view or custom event.
type View struct {
	VisitorID string
	Path      string
	Referrer  string
	Event     string
	Device    string
	Timestamp time.Time
}

// PathStat aggregates views for one path.
type PathStat struct {
	Path     string `json:"path"`
	Views    int    `json:"views"`
	Visitors int    `json:"visitors"`
}

// VisitorID derives an anonymous visitor identifier. The day is mixed in
// so identifiers cannot be linked across days.
func VisitorID(salt, ip, userAgent string, day time.Time) string {
	h := sha256.New()
	h.Write([]byte(salt + "|" + day.UTC().Format(time.DateOnly) + "|" + ip + "|" + userAgent))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// PathOf extracts the path from the page URL reported by the beacon.
func PathOf(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}

// ReferrerHost reduces a referrer URL to its host. Same-site referrers
// and unparsable values are reported as empty.
func ReferrerHost(ref, siteHost string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == strings.TrimPrefix(strings.ToLower(siteHost), "www.") {
		return ""
	}
	return host
}

// DeviceOf classifies a User-Agent string.
func DeviceOf(ua string) string {
	ua = strings.ToLower(ua)
	switch {
	case strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad"):
		return "Tablet"
	case strings.Contains(ua, "mobile"):
		return "Mobile"
	default:
		return "Desktop"
	}
}

// IsBot checks if the User-Agent is likely a bot/crawler.
func IsBot(ua string) bool {
	ua = strings.ToLower(ua)
	bots := []string{
		"bot", "crawler", "spider", "crawl", "slurp", "scrape",
		"facebookexternalhit", "headless", "lighthouse",
	}
	for _, bot := range bots {
		if strings.Contains(ua, bot) {
			return true
		}
	}
	return false
}
