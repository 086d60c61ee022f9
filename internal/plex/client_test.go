package plex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sectionsXML = `<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer size="3">
  <Directory key="1" type="movie" title="Movies">
    <Location id="1" path="/media/movies"/>
  </Directory>
  <Directory key="2" type="show" title="TV Shows">
    <Location id="2" path="/media/tv"/>
    <Location id="3" path="/media/tv-anime"/>
  </Directory>
  <Directory key="3" type="artist" title="Music">
    <Location id="4" path="/media/music"/>
  </Directory>
</MediaContainer>`

const movieItemsXML = `<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer size="2">
  <Video ratingKey="101" type="movie" title="Arrival">
    <Media id="1">
      <Part id="1" file="/media/movies/Arrival (2016)/Arrival.mkv"/>
    </Media>
    <Image alt="Arrival" type="clearLogo" url="/library/metadata/101/logo"/>
    <Image alt="Arrival" type="coverPoster" url="/library/metadata/101/thumb"/>
  </Video>
  <Video ratingKey="102" type="movie" title="Heat">
    <Media id="2">
      <Part id="2" file="/media/movies/Heat (1995)/Heat.mkv"/>
    </Media>
    <Image alt="Heat" type="coverPoster" url="/library/metadata/102/thumb"/>
  </Video>
</MediaContainer>`

const showItemsXML = `<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer size="1">
  <Directory ratingKey="201" type="show" title="Severance">
    <Location path="/media/tv/Severance"/>
  </Directory>
</MediaContainer>`

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewHTTPClient(server.URL, "test-token", time.Second, nil)
}

func TestSections(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/library/sections" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("X-Plex-Token") != "test-token" {
			t.Error("missing X-Plex-Token header")
		}
		_, _ = w.Write([]byte(sectionsXML))
	})

	sections, err := client.Sections(context.Background())
	if err != nil {
		t.Fatalf("Sections: %v", err)
	}
	if len(sections) != 3 {
		t.Fatalf("got %d sections, want 3", len(sections))
	}
	if sections[0].Type != SectionMovie || !sections[0].Type.Supported() {
		t.Errorf("section 0 should be a supported movie section, got %q", sections[0].Type)
	}
	if got := sections[1].Locations; len(got) != 2 || got[1] != "/media/tv-anime" {
		t.Errorf("show section locations = %v", got)
	}
	if sections[2].Type.Supported() {
		t.Errorf("music sections must not be supported")
	}
}

func TestSectionItemsMovies(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/library/sections/1/all" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(movieItemsXML))
	})

	items, err := client.SectionItems(context.Background(), Section{Key: "1", Title: "Movies", Type: SectionMovie})
	if err != nil {
		t.Fatalf("SectionItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	arrival := items[0]
	if !arrival.HasClearLogo {
		t.Error("Arrival should report an existing clearLogo image")
	}
	if len(arrival.MediaFiles) != 1 || arrival.MediaFiles[0] != "/media/movies/Arrival (2016)/Arrival.mkv" {
		t.Errorf("Arrival media files = %v", arrival.MediaFiles)
	}

	heat := items[1]
	if heat.HasClearLogo {
		t.Error("Heat has only a poster image; HasClearLogo should be false")
	}
}

func TestSectionItemsShows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(showItemsXML))
	})

	items, err := client.SectionItems(context.Background(), Section{Key: "2", Title: "TV Shows", Type: SectionShow})
	if err != nil {
		t.Fatalf("SectionItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if got := items[0].Locations; len(got) != 1 || got[0] != "/media/tv/Severance" {
		t.Errorf("show locations = %v", got)
	}
}

func TestIdentity(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<MediaContainer friendlyName="Den" version="1.41.0"/>`))
	})

	identity, err := client.Identity(context.Background())
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if identity.FriendlyName != "Den" || identity.Version != "1.41.0" {
		t.Errorf("identity = %+v", identity)
	}
}

func writeLogo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(path, []byte("fake png"), 0o644); err != nil {
		t.Fatalf("write logo: %v", err)
	}
	return path
}

func TestUploadLogoSuccess(t *testing.T) {
	var gotPath, gotContentType string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	})

	if err := client.UploadLogo(context.Background(), "101", writeLogo(t)); err != nil {
		t.Fatalf("UploadLogo: %v", err)
	}
	if gotPath != "/library/metadata/101/logos" {
		t.Errorf("upload path = %q", gotPath)
	}
	if gotContentType != "image/png" {
		t.Errorf("content type = %q", gotContentType)
	}
}

func TestUploadLogoClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   UploadErrorKind
	}{
		{"bad request", http.StatusBadRequest, UploadBadRequest},
		{"unsupported media", http.StatusUnsupportedMediaType, UploadBadRequest},
		{"not found", http.StatusNotFound, UploadUnsupported},
		{"method not allowed", http.StatusMethodNotAllowed, UploadUnsupported},
		{"server error", http.StatusInternalServerError, UploadTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			err := client.UploadLogo(context.Background(), "101", writeLogo(t))
			var uploadErr *UploadError
			if !errors.As(err, &uploadErr) {
				t.Fatalf("expected UploadError, got %v", err)
			}
			if uploadErr.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", uploadErr.Kind, tt.want)
			}
			if uploadErr.RatingKey != "101" {
				t.Errorf("RatingKey = %q", uploadErr.RatingKey)
			}
		})
	}
}

func TestUploadLogoMissingFile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be sent when the file cannot be read")
	})

	err := client.UploadLogo(context.Background(), "101", filepath.Join(t.TempDir(), "missing.png"))
	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("expected UploadError, got %v", err)
	}
	if uploadErr.Kind != UploadBadRequest {
		t.Errorf("Kind = %v, want UploadBadRequest", uploadErr.Kind)
	}
}
