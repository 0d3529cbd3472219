package docsite

import (
	"net/http"
	"strings"
)

// Header is one HTTP response header name/value pair.
type Header struct {
	Key   string
	Value string
}

// ContentSecurityPolicy lists the allowed source origins per directive.
const ContentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' 'unsafe-eval'; " +
	"style-src 'self' 'unsafe-inline'; " +
	"object-src 'none'; " +
	"base-uri 'self'; " +
	"connect-src 'self' https://discord.com; " +
	"font-src 'self'; " +
	"frame-src 'self' https://www.youtube.com; " +
	"img-src 'self' data: https://avatars.githubusercontent.com https://img.shields.io; " +
	"manifest-src 'self'; " +
	"media-src 'self' https://github.com https://github-production-user-asset-6210df.s3.amazonaws.com; " +
	"worker-src 'self';"

var securityHeaders = []Header{
	{Key: "X-DNS-Prefetch-Control", Value: "on"},
	{Key: "X-XSS-Protection", Value: "1; mode=block"},
	{Key: "X-Frame-Options", Value: "SAMEORIGIN"},
	{Key: "X-Content-Type-Options", Value: "nosniff"},
	{Key: "Referrer-Policy", Value: "strict-origin-when-cross-origin"},
	{Key: "Strict-Transport-Security", Value: "max-age=31536000; includeSubDomains"},
	{Key: "Content-Security-Policy", Value: ContentSecurityPolicy},
}

// SecurityHeaders returns the headers applied to every response, in order.
func SecurityHeaders() []Header {
	out := make([]Header, len(securityHeaders))
	copy(out, securityHeaders)
	return out
}

// Redirect sends requests for Source to Destination.
type Redirect struct {
	Source      string
	Destination string
	Permanent   bool
}

// StatusCode is 308 for permanent redirects and 307 otherwise, so the
// request method is preserved either way.
func (r Redirect) StatusCode() int {
	if r.Permanent {
		return http.StatusPermanentRedirect
	}
	return http.StatusTemporaryRedirect
}

// Redirects returns the redirect table for cfg. Destinations come from the
// configuration and may be empty when the environment did not set them.
func Redirects(cfg SiteConfig) []Redirect {
	return []Redirect{
		{Source: "/discord", Destination: cfg.DiscordLink, Permanent: false},
		{Source: "/github", Destination: cfg.GitHubLink, Permanent: false},
	}
}

// Rewrite maps request paths onto another path before routing. A trailing
// ":name*" segment matches the rest of the path and is substituted into
// the destination.
type Rewrite struct {
	Source      string
	Destination string
}

// Rewrites returns the rewrite table.
func Rewrites() []Rewrite {
	return []Rewrite{
		{Source: "/va/:match*", Destination: "/_vercel/insights/:match*"},
	}
}

// echoRule converts the rewrite into echo's rewrite rule syntax, where "*"
// captures and "$1" substitutes.
func (r Rewrite) echoRule() (string, string) {
	src, name := splitWildcard(r.Source)
	if name == "" {
		return r.Source, r.Destination
	}
	dst := strings.Replace(r.Destination, ":"+name+"*", "$1", 1)
	return src + "*", dst
}

// splitWildcard splits "/va/:match*" into ("/va/", "match").
func splitWildcard(pattern string) (string, string) {
	i := strings.LastIndex(pattern, "/:")
	if i < 0 || !strings.HasSuffix(pattern, "*") {
		return pattern, ""
	}
	return pattern[:i+1], pattern[i+2 : len(pattern)-1]
}
