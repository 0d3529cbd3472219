package docsite

import "embed"

// EmbeddedAssets contains the stylesheet shipped with the site layout,
// served at /public/docsite.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
