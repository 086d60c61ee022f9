package locations

import (
	"path"
	"path/filepath"
	"strings"
)

// Outcome classifies the result of resolving a remote path.
type Outcome int

const (
	// Resolved means a local directory was derived.
	Resolved Outcome = iota
	// UnresolvedNoPrefix means no mapped prefix matches the remote path.
	UnresolvedNoPrefix
	// UnresolvedNoRelativePath means a prefix matched but the directory
	// component is not rooted under it.
	UnresolvedNoRelativePath
)

// MatchResult is the outcome of resolving one remote path.
type MatchResult struct {
	Outcome  Outcome
	LocalDir string
	Prefix   string
}

// Resolve maps a remote media path to a local directory. remoteIsDir marks
// paths that already denote a directory (show folders); otherwise the
// trailing filename is stripped first.
//
// Matching scans entries longest-prefix-first so the most specific mapping
// wins when one prefix textually contains another, and requires the match to
// end at a path-segment boundary: /media/tv matches /media/tv/Show but not
// /media/tv2/Show.
func (m *Map) Resolve(remotePath string, remoteIsDir bool) MatchResult {
	remotePath = normalizeRemote(remotePath)
	if remotePath == "" {
		return MatchResult{Outcome: UnresolvedNoPrefix}
	}

	var matched *Entry
	for _, entry := range m.Entries() {
		if segmentPrefixMatch(remotePath, entry.Prefix) {
			e := entry
			matched = &e
			break
		}
	}
	if matched == nil {
		return MatchResult{Outcome: UnresolvedNoPrefix}
	}

	dir := remotePath
	if !remoteIsDir {
		dir = path.Dir(remotePath)
	}

	var relative string
	switch {
	case dir == matched.Prefix:
		// A degenerate single-level item (file directly in the mapped
		// root): fall back to the final path segment so it stays locatable.
		relative = path.Base(remotePath)
	case strings.HasPrefix(dir, matched.Prefix+"/"):
		relative = dir[len(matched.Prefix)+1:]
	default:
		return MatchResult{Outcome: UnresolvedNoRelativePath, Prefix: matched.Prefix}
	}

	return MatchResult{
		Outcome:  Resolved,
		Prefix:   matched.Prefix,
		LocalDir: filepath.Join(matched.Root, filepath.FromSlash(relative)),
	}
}

// segmentPrefixMatch reports whether prefix matches remotePath at a path
// segment boundary.
func segmentPrefixMatch(remotePath, prefix string) bool {
	if remotePath == prefix {
		return true
	}
	if !strings.HasPrefix(remotePath, prefix) {
		return false
	}
	return strings.HasSuffix(prefix, "/") || remotePath[len(prefix)] == '/'
}

// normalizeRemote converts remote paths to forward-slash form and trims
// trailing separators. Plex reports paths in its own host's syntax, which
// may differ from the local OS.
func normalizeRemote(remotePath string) string {
	remotePath = strings.TrimSpace(remotePath)
	remotePath = strings.ReplaceAll(remotePath, "\\", "/")
	for len(remotePath) > 1 && strings.HasSuffix(remotePath, "/") {
		remotePath = remotePath[:len(remotePath)-1]
	}
	return remotePath
}
