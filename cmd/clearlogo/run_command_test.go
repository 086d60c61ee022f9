package main

import (
	"bytes"
	"strings"
	"testing"

	"clearlogo/internal/history"
	"clearlogo/internal/locations"
	"clearlogo/internal/plex"
	"clearlogo/internal/uploader"
)

func TestBootstrapMappingPromptsForUnmapped(t *testing.T) {
	localRoot := t.TempDir()
	mappingPath := t.TempDir() + "/mapping.json"
	lmap := locations.NewMap(mappingPath, nil)

	sections := []plex.Section{
		{Key: "1", Title: "Movies", Type: plex.SectionMovie, Locations: []string{"/media/movies"}},
		{Key: "2", Title: "Photos", Type: plex.SectionType("photo"), Locations: []string{"/media/photos"}},
	}

	in := strings.NewReader(localRoot + "\n")
	var out bytes.Buffer
	if err := bootstrapMapping(lmap, sections, in, &out); err != nil {
		t.Fatalf("bootstrapMapping: %v", err)
	}

	if got, ok := lmap.Lookup("/media/movies"); !ok || got != localRoot {
		t.Fatalf("expected /media/movies mapped to %s, got %q (ok=%v)", localRoot, got, ok)
	}
	// Unsupported section types never prompt.
	if _, ok := lmap.Lookup("/media/photos"); ok {
		t.Fatal("photo section location should not be mapped")
	}
	requireContains(t, out.String(), "/media/movies")
	if strings.Contains(out.String(), "/media/photos") {
		t.Fatal("prompt output should not mention photo locations")
	}
}

func TestBootstrapMappingReportsInvalidFolder(t *testing.T) {
	mappingPath := t.TempDir() + "/mapping.json"
	lmap := locations.NewMap(mappingPath, nil)

	sections := []plex.Section{
		{Key: "1", Title: "Movies", Type: plex.SectionMovie, Locations: []string{"/media/movies"}},
	}

	in := strings.NewReader("/definitely/not/a/real/folder\n")
	var out bytes.Buffer
	if err := bootstrapMapping(lmap, sections, in, &out); err != nil {
		t.Fatalf("bootstrapMapping: %v", err)
	}

	if _, ok := lmap.Lookup("/media/movies"); ok {
		t.Fatal("invalid folder should not be stored")
	}
	requireContains(t, out.String(), "Skipping /media/movies")
}

func TestBootstrapMappingSkipsAlreadyMapped(t *testing.T) {
	localRoot := t.TempDir()
	mappingPath := t.TempDir() + "/mapping.json"
	lmap := locations.NewMap(mappingPath, nil)
	if err := lmap.Set("/media/movies", localRoot); err != nil {
		t.Fatalf("set mapping: %v", err)
	}

	sections := []plex.Section{
		{Key: "1", Title: "Movies", Type: plex.SectionMovie, Locations: []string{"/media/movies"}},
	}

	// No input available: a prompt would fail the read.
	in := strings.NewReader("")
	var out bytes.Buffer
	if err := bootstrapMapping(lmap, sections, in, &out); err != nil {
		t.Fatalf("bootstrapMapping: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no prompt output, got %q", out.String())
	}
}

func TestPrintSummary(t *testing.T) {
	stats := uploader.Statistics{Scanned: 20, Matched: 5, Uploaded: 5}

	var out bytes.Buffer
	printSummary(&out, stats, false)
	requireContains(t, out.String(), "Items scanned")
	requireContains(t, out.String(), "20")
	requireContains(t, out.String(), "All applicable logos uploaded")

	out.Reset()
	printSummary(&out, stats, true)
	requireContains(t, out.String(), "No changes made (dry run)")
}

func TestRunModeLabels(t *testing.T) {
	cases := []struct {
		dryRun, all bool
		want        string
	}{
		{false, false, "normal"},
		{true, false, "dry-run"},
		{false, true, "all"},
		{true, true, "dry-run, all"},
	}
	for _, tc := range cases {
		got := runMode(history.RunRecord{DryRun: tc.dryRun, UploadAll: tc.all})
		if got != tc.want {
			t.Errorf("runMode(dry=%v, all=%v) = %q, want %q", tc.dryRun, tc.all, got, tc.want)
		}
	}
}
