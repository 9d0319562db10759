// Package providers contains the HTTP-backed data collaborators. Each one
// exposes the single Fetch(ctx, query) shape from contract.Provider; the
// rest of the bot knows nothing about their transports.
package providers

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// A legitimate user agent is necessary for some sites (twitter).
const userAgent = "Mozilla/5.0 bootbot/1.0"

const maxBodyBytes = 64 * 1024

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// readBounded drains at most maxBodyBytes from a response body. Page
// titles live near the top of the document; the rest is not worth pulling.
func readBounded(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, maxBodyBytes))
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}
