package docsite

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/renameio/v2"
	"golang.org/x/sync/errgroup"

	"github.com/soulfiremc/docsite/content"
	"github.com/soulfiremc/docsite/views"
)

// Export writes the site as static files under outDir: one index.html per
// page plus robots.txt, sitemap.xml and 404.html. Every file is replaced
// atomically.
func (a *App) Export(ctx context.Context, outDir string) (int, error) {
	site, err := a.loadContent(ctx)
	if err != nil {
		return 0, fmt.Errorf("docsite: load content: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, page := range site.Pages {
		g.Go(func() error {
			path := filepath.Join(outDir, filepath.FromSlash(strings.TrimPrefix(page.Route, "/")), "index.html")
			return writeAtomic(path, func(w io.Writer) error {
				return a.pageView(site, page).Render(gctx, w)
			})
		})
	}
	g.Go(func() error {
		return writeAtomic(filepath.Join(outDir, "robots.txt"), func(w io.Writer) error {
			_, err := io.WriteString(w, Robots(a.Config).String())
			return err
		})
	})
	g.Go(func() error {
		body, err := a.sitemap(site)
		if err != nil {
			return err
		}
		return writeAtomic(filepath.Join(outDir, "sitemap.xml"), func(w io.Writer) error {
			_, err := w.Write(body)
			return err
		})
	})
	g.Go(func() error {
		return writeAtomic(filepath.Join(outDir, "404.html"), func(w io.Writer) error {
			return views.NotFound(a.viewConfig()).Render(gctx, w)
		})
	})
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("docsite: export: %w", err)
	}
	return len(site.Pages), nil
}

// loadContent prepares the page cache if needed and returns the current
// snapshot.
func (a *App) loadContent(ctx context.Context) (*content.Site, error) {
	if a.contentFS == nil {
		a.contentFS = os.DirFS(a.Config.ContentDir)
		a.watchContent = true
	}
	if a.Pages == nil {
		a.Pages = NewPageCache(a.loadSite, a.Config.PageCacheTTL)
	}
	return a.Pages.Site(ctx)
}

// writeAtomic renders into a pending file next to path and renames it into
// place once fully written.
func writeAtomic(path string, render func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending %s: %w", path, err)
	}
	defer pf.Cleanup()

	if err := render(pf); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return pf.CloseAtomicallyReplace()
}
