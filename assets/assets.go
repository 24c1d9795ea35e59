// Package assets embeds the static files the scene can load at runtime.
package assets

import "embed"

// Ornament is the name of the pre-authored floral ornament in FS.
const Ornament = "ornament.svg"

// FS holds the embedded assets.
//
//go:embed ornament.svg
var FS embed.FS
