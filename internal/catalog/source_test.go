package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/roshda/galaxy-o-meter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSource_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/galaxy-o-meter/averageSentiment.json", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.UserAgent(), "galaxy-o-meter/"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(validArtifact))
	}))
	t.Cleanup(srv.Close)

	src := NewHTTPSource(srv.URL+"/galaxy-o-meter/averageSentiment.json", srv.Client())
	data, err := src.Fetch(context.Background())

	require.NoError(t, err)
	assert.JSONEq(t, validArtifact, string(data))
}

func TestHTTPSource_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	_, err := NewHTTPSource(srv.URL, srv.Client()).Fetch(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetchStatus)
	assert.Contains(t, err.Error(), "status: 404")
}

func TestHTTPSource_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(validArtifact))
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPSource(srv.URL, srv.Client()).Fetch(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPSource_SizeLimit(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"at limit", maxArtifactBytes, false},
		{"over limit", maxArtifactBytes + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(strings.Repeat(" ", tt.size)))
			}))
			t.Cleanup(srv.Close)

			data, err := NewHTTPSource(srv.URL, srv.Client()).Fetch(context.Background())
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrArtifactTooLarge)
				return
			}
			require.NoError(t, err)
			assert.Len(t, data, tt.size)
		})
	}
}

func TestFileSource_TooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "averageSentiment.json")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat(" ", maxArtifactBytes+1)), 0o600))

	_, err := FileSource{Path: path}.Fetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrArtifactTooLarge)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "averageSentiment.json")
	require.NoError(t, os.WriteFile(path, []byte(validArtifact), 0o600))

	data, err := FileSource{Path: path}.Fetch(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, validArtifact, string(data))

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}.Fetch(context.Background())
	assert.Error(t, err)
}

func TestFSSource(t *testing.T) {
	fsys := fstest.MapFS{
		"static/averageSentiment.json": &fstest.MapFile{Data: []byte(validArtifact)},
	}

	data, err := FSSource{FS: fsys, Path: "static/averageSentiment.json"}.Fetch(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, validArtifact, string(data))
}

func TestNewSource(t *testing.T) {
	fallback := FSSource{Path: "static/averageSentiment.json"}

	assert.Equal(t, fallback, NewSource("", nil, fallback))
	assert.IsType(t, &HTTPSource{}, NewSource("https://example.com/a.json", nil, fallback))
	assert.Equal(t, FileSource{Path: "/srv/a.json"}, NewSource("file:///srv/a.json", nil, fallback))
	assert.Equal(t, FileSource{Path: "data/a.json"}, NewSource("data/a.json", nil, fallback))
}
