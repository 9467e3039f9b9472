package staticfiles

import (
	"embed"
	"io/fs"
)

//go:embed css/* js/*
var embedded embed.FS

// EmbeddedFS serves the stylesheet and the live-update script.
func EmbeddedFS() fs.FS {
	return embedded
}
