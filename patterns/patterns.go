// Package patterns embeds the built-in pattern library used when no pattern
// directory is configured.
package patterns

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed *.rle
var files embed.FS

// FS returns the built-in RLE files as a flat filesystem.
func FS() fs.FS { return files }

// Open returns the pattern directory dir, or the built-in set when dir is empty.
func Open(dir string) fs.FS {
	if dir == "" {
		return FS()
	}
	return os.DirFS(dir)
}
