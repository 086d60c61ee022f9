package locations

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestMap(t *testing.T) *Map {
	t.Helper()
	return NewMap(filepath.Join(t.TempDir(), "mapping.json"), nil)
}

func TestLoadMissingFile(t *testing.T) {
	m := newTestMap(t)
	found, err := m.Load()
	if err != nil {
		t.Fatalf("Load of missing file should not error: %v", err)
	}
	if found {
		t.Error("Load should report found=false for a missing file")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m := NewMap(path, nil)
	if _, err := m.Load(); err == nil {
		t.Fatal("Load should fail hard on a malformed mapping file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.json")
	localA := t.TempDir()
	localB := t.TempDir()

	m := NewMap(path, nil)
	if err := m.Set("/media/movies", localA); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Set("/media/tv", localB); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := NewMap(path, nil)
	found, err := reloaded.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !found {
		t.Fatal("saved mapping should be found")
	}
	if !reflect.DeepEqual(m.Entries(), reloaded.Entries()) {
		t.Errorf("round trip mismatch: %v vs %v", m.Entries(), reloaded.Entries())
	}
}

func TestSetRejectsInvalidRoot(t *testing.T) {
	m := newTestMap(t)

	if err := m.Set("/media/movies", "/does/not/exist"); err == nil {
		t.Error("Set should reject a missing directory")
	}

	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := m.Set("/media/movies", file); err == nil {
		t.Error("Set should reject a regular file")
	}
	if m.Len() != 0 {
		t.Errorf("invalid entries must never be stored, got %d", m.Len())
	}
}

func TestSetNormalizesPrefix(t *testing.T) {
	m := newTestMap(t)
	root := t.TempDir()

	if err := m.Set("/media/movies/", root); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := m.Lookup("/media/movies"); !ok {
		t.Error("trailing slash should be normalized away")
	}
	// Same location with and without the slash is one key, not two.
	if err := m.Set("/media/movies", root); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", m.Len())
	}
}

func TestEntriesOrderedByPrefixLengthDescending(t *testing.T) {
	m := newTestMap(t)
	root := t.TempDir()

	for _, prefix := range []string{"/media/tv", "/media/tv-anime", "/m"} {
		if err := m.Set(prefix, root); err != nil {
			t.Fatalf("Set %q: %v", prefix, err)
		}
	}

	entries := m.Entries()
	want := []string{"/media/tv-anime", "/media/tv", "/m"}
	for i, entry := range entries {
		if entry.Prefix != want[i] {
			t.Errorf("entry %d: got %q, want %q", i, entry.Prefix, want[i])
		}
	}
}

func TestClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.json")
	m := NewMap(path, nil)
	if err := m.Set("/media/movies", t.TempDir()); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if m.Len() != 0 {
		t.Error("Clear should drop all entries")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Clear should delete the persisted file")
	}

	// Clearing again is a no-op, not an error.
	if err := m.Clear(); err != nil {
		t.Errorf("second Clear should succeed: %v", err)
	}
}

func TestBootstrap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.json")
	m := NewMap(path, nil)
	good := t.TempDir()

	answers := map[string]string{
		"/media/movies": good,
		"/media/tv":     "/nope/never",
	}
	var prompted []string
	prompt := func(prefix string) (string, error) {
		prompted = append(prompted, prefix)
		return answers[prefix], nil
	}

	result, err := m.Bootstrap([]string{"/media/tv", "/media/movies", "/media/movies/"}, prompt)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	// Duplicates collapse; each prefix is prompted exactly once, in order.
	if !reflect.DeepEqual(prompted, []string{"/media/movies", "/media/tv"}) {
		t.Errorf("prompted = %v", prompted)
	}
	if result.Added != 1 {
		t.Errorf("Added = %d, want 1", result.Added)
	}
	if !reflect.DeepEqual(result.Unresolved, []string{"/media/tv"}) {
		t.Errorf("Unresolved = %v", result.Unresolved)
	}

	// The valid entry was persisted.
	reloaded := NewMap(path, nil)
	if found, err := reloaded.Load(); err != nil || !found {
		t.Fatalf("Load after bootstrap: found=%v err=%v", found, err)
	}
	if root, ok := reloaded.Lookup("/media/movies"); !ok || root != good {
		t.Errorf("Lookup = %q, %v", root, ok)
	}
}

func TestBootstrapSkipsMappedPrefixes(t *testing.T) {
	m := newTestMap(t)
	if err := m.Set("/media/movies", t.TempDir()); err != nil {
		t.Fatalf("Set: %v", err)
	}

	prompt := func(prefix string) (string, error) {
		t.Fatalf("prompt should not run for mapped prefix %q", prefix)
		return "", nil
	}
	result, err := m.Bootstrap([]string{"/media/movies"}, prompt)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if result.Added != 0 || len(result.Unresolved) != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestBootstrapPromptError(t *testing.T) {
	m := newTestMap(t)
	wantErr := errors.New("stdin closed")
	_, err := m.Bootstrap([]string{"/media/movies"}, func(string) (string, error) {
		return "", wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Bootstrap should propagate prompt errors, got %v", err)
	}
}
