package theme

import "embed"

// EmbeddedThemes holds the palettes shipped with the binary.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS
