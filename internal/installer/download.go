package installer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"installer/pkg/manifest"
)

// maxScriptSize caps how much of a downloaded script is read.
const maxScriptSize = 64 << 20

// download fetches url into dest as an executable script. Line endings are
// normalized once; the bytes are otherwise written as fetched.
func (in *Installer) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := in.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("download of %s failed: HTTP status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScriptSize))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", url, err)
	}

	if err := os.WriteFile(dest, manifest.NormalizeNewlines(body), 0755); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	// WriteFile is subject to the umask
	return makeExecutable(dest)
}
