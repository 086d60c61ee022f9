package locations

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"clearlogo/internal/fileutil"
	"clearlogo/internal/logging"
)

// Entry is one mapping from a Plex storage location to a local directory.
type Entry struct {
	Prefix string
	Root   string
}

// Map holds the prefix-to-root mapping and its persistence path.
type Map struct {
	path   string
	logger *slog.Logger

	mu    sync.RWMutex
	roots map[string]string
}

// NewMap creates an empty mapping persisted at path.
func NewMap(path string, logger *slog.Logger) *Map {
	return &Map{
		path:   path,
		logger: logging.NewComponentLogger(logger, "locations"),
		roots:  make(map[string]string),
	}
}

// Load reads the persisted mapping. A missing file is not an error and
// returns found=false; a malformed file is a hard error so a corrupted
// mapping never silently degrades a run.
func (m *Map) Load() (bool, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read mapping file: %w", err)
	}

	var roots map[string]string
	if err := json.Unmarshal(data, &roots); err != nil {
		return false, fmt.Errorf("parse mapping file %s: %w", m.path, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.roots = make(map[string]string, len(roots))
	for prefix, root := range roots {
		prefix = normalizePrefix(prefix)
		if prefix == "" {
			continue
		}
		m.roots[prefix] = root
	}

	m.logger.Debug("loaded location mapping",
		logging.Int("entry_count", len(m.roots)),
		logging.String("path", m.path))
	return true, nil
}

// Save persists the mapping as a pretty-printed flat JSON object, written
// atomically so a crash mid-write cannot corrupt a valid file.
func (m *Map) Save() error {
	m.mu.RLock()
	data, err := json.MarshalIndent(m.roots, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}

	if err := fileutil.WriteFileAtomic(m.path, data, 0o644); err != nil {
		return fmt.Errorf("persist mapping: %w", err)
	}
	return nil
}

// Set records a mapping after validating that root exists and is a
// directory. Invalid roots are never stored.
func (m *Map) Set(prefix, root string) error {
	prefix = normalizePrefix(prefix)
	if prefix == "" {
		return errors.New("prefix cannot be empty")
	}
	if !fileutil.IsDir(root) {
		return fmt.Errorf("local path %q does not exist or is not a directory", root)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.roots[prefix] = root
	return nil
}

// Lookup returns the local root mapped to prefix.
func (m *Map) Lookup(prefix string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	root, ok := m.roots[normalizePrefix(prefix)]
	return root, ok
}

// Len returns the number of mapped prefixes.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.roots)
}

// Entries returns the mapping longest-prefix-first. Length ties break
// lexicographically so iteration order never depends on map insertion.
func (m *Map) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]Entry, 0, len(m.roots))
	for prefix, root := range m.roots {
		entries = append(entries, Entry{Prefix: prefix, Root: root})
	}
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].Prefix) != len(entries[j].Prefix) {
			return len(entries[i].Prefix) > len(entries[j].Prefix)
		}
		return entries[i].Prefix < entries[j].Prefix
	})
	return entries
}

// Clear drops all entries and deletes the persisted file.
func (m *Map) Clear() error {
	m.mu.Lock()
	m.roots = make(map[string]string)
	m.mu.Unlock()

	if err := os.Remove(m.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove mapping file: %w", err)
	}
	return nil
}

// normalizePrefix trims whitespace, converts to forward-slash form, and
// strips trailing separators so textual variants of the same location
// collapse to one key and compare cleanly against normalized remote paths.
func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	prefix = strings.ReplaceAll(prefix, "\\", "/")
	for len(prefix) > 1 && strings.HasSuffix(prefix, "/") {
		prefix = prefix[:len(prefix)-1]
	}
	return prefix
}
