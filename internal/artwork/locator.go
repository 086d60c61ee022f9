// Package artwork finds candidate clear-logo files inside an item's local
// directory.
package artwork

import (
	"path/filepath"

	"clearlogo/internal/fileutil"
)

// Candidate base names and extensions, in priority order. All extensions of
// a base name are tried before moving to the next base name.
var (
	baseNames  = []string{"logo", "clearlogo"}
	extensions = []string{".png", ".jpg"}
)

// Locate returns the first existing candidate logo file under dir. The
// directory holds a single item's files, so a handful of stat calls per item
// needs no caching.
func Locate(dir string) (string, bool) {
	for _, base := range baseNames {
		for _, ext := range extensions {
			candidate := filepath.Join(dir, base+ext)
			if fileutil.IsRegularFile(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}
