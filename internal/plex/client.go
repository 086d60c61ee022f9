package plex

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	productName    = "clearlogo"
	productVersion = "0.1.0"
	userAgent      = "clearlogo/" + productVersion
)

// Client defines the Plex operations the uploader consumes.
type Client interface {
	Identity(ctx context.Context) (*ServerIdentity, error)
	Sections(ctx context.Context) ([]Section, error)
	SectionItems(ctx context.Context, section Section) ([]Item, error)
	UploadLogo(ctx context.Context, ratingKey, filePath string) error
}

// HTTPDoer abstracts http.Client.Do for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

type httpClient struct {
	baseURL string
	token   string
	client  HTTPDoer
}

// NewHTTPClient constructs a Plex API client against baseURL. When doer is
// nil a default http.Client with the given timeout is used.
func NewHTTPClient(baseURL, token string, timeout time.Duration, doer HTTPDoer) Client {
	if doer == nil {
		doer = &http.Client{Timeout: timeout}
	}
	return &httpClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  doer,
	}
}

func (c *httpClient) Identity(ctx context.Context) (*ServerIdentity, error) {
	var container identityContainer
	if err := c.getXML(ctx, "/", &container); err != nil {
		return nil, fmt.Errorf("fetch server identity: %w", err)
	}
	return &ServerIdentity{
		FriendlyName: container.FriendlyName,
		Version:      container.Version,
	}, nil
}

func (c *httpClient) Sections(ctx context.Context) ([]Section, error) {
	var container sectionsContainer
	if err := c.getXML(ctx, "/library/sections", &container); err != nil {
		return nil, fmt.Errorf("fetch library sections: %w", err)
	}

	sections := make([]Section, 0, len(container.Directories))
	for _, dir := range container.Directories {
		if dir.Key == "" {
			continue
		}
		section := Section{
			Key:   dir.Key,
			Title: dir.Title,
			Type:  SectionType(dir.Type),
		}
		for _, loc := range dir.Locations {
			if loc.Path != "" {
				section.Locations = append(section.Locations, loc.Path)
			}
		}
		sections = append(sections, section)
	}
	return sections, nil
}

func (c *httpClient) SectionItems(ctx context.Context, section Section) ([]Item, error) {
	path := fmt.Sprintf("/library/sections/%s/all", section.Key)
	var container itemsContainer
	if err := c.getXML(ctx, path, &container); err != nil {
		return nil, fmt.Errorf("fetch items for section %q: %w", section.Title, err)
	}

	items := make([]Item, 0, len(container.Videos)+len(container.Directories))
	for _, metadata := range container.Videos {
		items = append(items, metadata.toItem())
	}
	for _, metadata := range container.Directories {
		items = append(items, metadata.toItem())
	}
	return items, nil
}

func (c *httpClient) UploadLogo(ctx context.Context, ratingKey, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return &UploadError{Kind: UploadBadRequest, RatingKey: ratingKey, Err: fmt.Errorf("read logo file: %w", err)}
	}

	url := fmt.Sprintf("%s/library/metadata/%s/logos", c.baseURL, ratingKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return &UploadError{Kind: UploadTransport, RatingKey: ratingKey, Err: fmt.Errorf("build request: %w", err)}
	}
	c.applyHeaders(req)
	req.Header.Set("Content-Type", contentTypeForFile(filePath))

	resp, err := c.client.Do(req)
	if err != nil {
		return &UploadError{Kind: UploadTransport, RatingKey: ratingKey, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &UploadError{
			Kind:      classifyStatus(resp.StatusCode),
			RatingKey: ratingKey,
			Err:       fmt.Errorf("plex returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *httpClient) getXML(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	c.applyHeaders(req)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("plex request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("plex GET %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *httpClient) applyHeaders(req *http.Request) {
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("X-Plex-Client-Identifier", productName)
	req.Header.Set("X-Plex-Product", productName)
	req.Header.Set("X-Plex-Version", productVersion)
	req.Header.Set("X-Plex-Platform", runtime.GOOS)
	req.Header.Set("User-Agent", userAgent)
}

func contentTypeForFile(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "image/png"
	}
}
