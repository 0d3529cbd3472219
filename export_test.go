package docsite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	out := t.TempDir()
	a := New(SiteConfig{URL: "https://soulfiremc.com"}, WithContentFS(testContent()))

	n, err := a.Export(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, name := range []string{
		"index.html",
		"docs/installation/index.html",
		"docs/faq/index.html",
		"robots.txt",
		"sitemap.xml",
		"404.html",
	} {
		_, err := os.Stat(filepath.Join(out, filepath.FromSlash(name)))
		assert.NoError(t, err, name)
	}

	page, err := os.ReadFile(filepath.Join(out, "docs", "installation", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "https://soulfiremc.com/og?title=Installation")

	robots, err := os.ReadFile(filepath.Join(out, "robots.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(robots), "Sitemap: https://soulfiremc.com/sitemap.xml")
}

func TestExportOverwrites(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "robots.txt"), []byte("stale"), 0o644))

	a := New(SiteConfig{}, WithContentFS(testContent()))
	_, err := a.Export(context.Background(), out)
	require.NoError(t, err)

	robots, err := os.ReadFile(filepath.Join(out, "robots.txt"))
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(robots))
}
