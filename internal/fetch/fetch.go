package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
	"github.com/mattn/go-isatty"
)

// errBadHTTPStatus is returned for any non-2xx response.
var errBadHTTPStatus = errors.New("unexpected http status")

// Download fetches url into dest over the default HTTP client: redirects are
// followed silently, any non-2xx status is an error, and the body is
// streamed to the destination file. A progress bar is shown when stdout is
// a terminal and the server announced a content length.
func Download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", url, err)
	}

	response, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s, %s: %w", url, response.Status, errBadHTTPStatus)
	}

	out, err := os.Create(filepath.Clean(dest))
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}

	var body io.Reader = response.Body

	if isatty.IsTerminal(os.Stdout.Fd()) && response.ContentLength > 0 {
		bar := pb.Full.Start64(response.ContentLength)
		body = bar.NewProxyReader(response.Body)

		defer bar.Finish()
	}

	if _, err = io.Copy(out, body); err != nil {
		_ = out.Close()

		return fmt.Errorf("write %s: %w", dest, err)
	}

	if err = out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}

	return nil
}
