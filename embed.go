package folio

import "embed"

// EmbeddedAssets contains static assets shipped with folio:
// site.css and analytics.js (the web-vitals beacon).
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
