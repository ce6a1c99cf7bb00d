package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDownload streams a served body into the destination file.
func TestDownload(t *testing.T) {
	t.Parallel()

	body := []byte("archive-bytes")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "archive.tar.gz")
	require.NoError(t, Download(context.Background(), ts.URL, dest))

	contents, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, body, contents)
}

// TestDownloadBadStatus propagates non-2xx responses as errors.
func TestDownloadBadStatus(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "missing.bin")
	err := Download(context.Background(), ts.URL, dest)
	require.ErrorIs(t, err, errBadHTTPStatus)
}

// TestDownloadFollowsRedirect verifies redirects are followed silently.
func TestDownloadFollowsRedirect(t *testing.T) {
	t.Parallel()

	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("moved-here"))
	}))
	defer target.Close()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "redirected.bin")
	require.NoError(t, Download(context.Background(), ts.URL, dest))

	contents, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "moved-here", string(contents))
}

// TestDownloadCanceledContext aborts the request.
func TestDownloadCanceledContext(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Download(ctx, ts.URL, filepath.Join(t.TempDir(), "never.bin"))
	require.Error(t, err)
}
