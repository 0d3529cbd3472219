// Package content loads documentation pages from a content directory and
// compiles them to HTML.
package content

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/inful/mdfp"
	"golang.org/x/sync/errgroup"

	"github.com/soulfiremc/docsite/mdx"
)

// Page is one compiled content document.
type Page struct {
	Route       string
	Path        string
	Title       string
	Description string
	Images      []string
	Meta        map[string]any
	Doc         *mdx.Document
	HTML        string
	ModTime     time.Time
	// Fingerprint is a content hash of the source document.
	Fingerprint string
}

// Site is an immutable snapshot of all loaded pages, ordered by route.
type Site struct {
	Pages       []*Page
	// Fingerprint changes whenever any page's route or source changes.
	Fingerprint string
	byRoute     map[string]*Page
}

// Page returns the page served at route.
func (s *Site) Page(route string) (*Page, bool) {
	p, ok := s.byRoute[NormalizeRoute(route)]
	return p, ok
}

// Options controls how documents are compiled.
type Options struct {
	// Transforms run on every parsed document, in order.
	Transforms []mdx.Transform
	// Concurrency bounds parallel compilation (default GOMAXPROCS).
	Concurrency int
}

// Load walks fsys for .md and .mdx files and compiles each into a Page.
// Files and directories whose names start with "_" or "." are skipped.
func Load(ctx context.Context, fsys fs.FS, opts Options) (*Site, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if p != "." && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && isContentFile(name) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("content: walk: %w", err)
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	pages := make([]*Page, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := compileFile(fsys, file, opts.Transforms)
			if err != nil {
				return fmt.Errorf("content: %s: %w", file, err)
			}
			pages[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	site := &Site{byRoute: make(map[string]*Page, len(pages))}
	for _, p := range pages {
		if prev, dup := site.byRoute[p.Route]; dup {
			return nil, fmt.Errorf("content: %s and %s both map to route %s", prev.Path, p.Path, p.Route)
		}
		site.byRoute[p.Route] = p
		site.Pages = append(site.Pages, p)
	}
	sort.Slice(site.Pages, func(i, j int) bool { return site.Pages[i].Route < site.Pages[j].Route })

	var parts strings.Builder
	for _, p := range site.Pages {
		parts.WriteString(p.Route + " " + p.Fingerprint + "\n")
	}
	site.Fingerprint = mdfp.CalculateFingerprintFromParts(parts.String(), "")
	return site, nil
}

func isContentFile(name string) bool {
	ext := path.Ext(name)
	return ext == ".md" || ext == ".mdx"
}

func compileFile(fsys fs.FS, file string, transforms []mdx.Transform) (*Page, error) {
	src, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, err
	}
	var modTime time.Time
	if info, err := fs.Stat(fsys, file); err == nil {
		modTime = info.ModTime()
	}
	p, err := Compile(src, transforms)
	if err != nil {
		return nil, err
	}
	p.Path = file
	p.Route = RouteFor(file)
	p.ModTime = modTime
	if p.Title == "" {
		p.Title = p.Route
	}
	return p, nil
}

// Compile parses one document, runs the transforms and renders it. Route,
// Path and ModTime are left for the caller.
func Compile(src []byte, transforms []mdx.Transform) (*Page, error) {
	doc, err := mdx.Parse(src)
	if err != nil {
		return nil, err
	}
	doc = mdx.Apply(doc, transforms...)

	html, heading, err := renderMarkdown(doc)
	if err != nil {
		return nil, err
	}

	p := &Page{
		Doc:         doc,
		HTML:        html,
		Meta:        map[string]any{},
		Fingerprint: mdfp.CalculateFingerprintFromParts("", string(src)),
	}
	if meta, ok := doc.Metadata(); ok {
		p.Meta = meta
	}
	p.Title = stringField(p.Meta, "title")
	if p.Title == "" {
		p.Title = heading
	}
	p.Description = stringField(p.Meta, "description")
	if og, ok := p.Meta["openGraph"].(map[string]any); ok {
		p.Images = imageURLs(og["images"])
	}
	return p, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// imageURLs accepts the shapes page metadata uses for Open Graph images:
// a URL string, an object with a url field, or a list of either.
func imageURLs(v any) []string {
	switch vv := v.(type) {
	case string:
		if vv != "" {
			return []string{vv}
		}
	case map[string]any:
		if u := stringField(vv, "url"); u != "" {
			return []string{u}
		}
	case []any:
		var out []string
		for _, item := range vv {
			out = append(out, imageURLs(item)...)
		}
		return out
	}
	return nil
}

// RouteFor maps a content file path to the URL path it is served at.
func RouteFor(file string) string {
	p := strings.TrimSuffix(file, path.Ext(file))
	if p == "index" {
		return "/"
	}
	p = strings.TrimSuffix(p, "/index")
	return NormalizeRoute(p)
}

// NormalizeRoute cleans a request path into route form: leading slash, no
// trailing slash except for the root.
func NormalizeRoute(p string) string {
	p = path.Clean("/" + strings.Trim(p, "/"))
	return p
}
