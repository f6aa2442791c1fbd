package catalog

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/roshda/galaxy-o-meter/internal/domain"
	"github.com/roshda/galaxy-o-meter/internal/platform/version"
)

// maxArtifactBytes bounds the artifact size accepted from any source.
const maxArtifactBytes = 4 << 20

func checkSize(data []byte) ([]byte, error) {
	if len(data) > maxArtifactBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", domain.ErrArtifactTooLarge, maxArtifactBytes)
	}
	return data, nil
}

// NewSource picks a source for ref: http(s) URLs are fetched over HTTP,
// file:// URLs and plain paths are read from disk, and an empty ref selects fallback.
func NewSource(ref string, client *http.Client, fallback domain.CatalogSource) domain.CatalogSource {
	switch {
	case ref == "":
		return fallback
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return NewHTTPSource(ref, client)
	case strings.HasPrefix(ref, "file://"):
		return FileSource{Path: strings.TrimPrefix(ref, "file://")}
	default:
		return FileSource{Path: ref}
	}
}

// HTTPSource fetches the artifact with a single GET. It sets no client timeout;
// the caller's context is the only bound.
type HTTPSource struct {
	url    string
	client *http.Client
}

func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{url: url, client: client}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP error! status: %d", domain.ErrFetchStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return checkSize(body)
}

func (s *HTTPSource) String() string { return s.url }

// FileSource reads the artifact from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch cancelled: %w", err)
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	return checkSize(data)
}

func (s FileSource) String() string { return "file://" + s.Path }

// FSSource reads the artifact from an fs.FS, typically the embedded web assets.
type FSSource struct {
	FS   fs.FS
	Path string
}

func (s FSSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch cancelled: %w", err)
	}
	data, err := fs.ReadFile(s.FS, s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded %s: %w", s.Path, err)
	}
	return data, nil
}

func (s FSSource) String() string { return "embed://" + s.Path }
