package fetch

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// DirFetcher reads files from a local mirror laid out like the remote store.
// It accepts file:// URLs and plain paths; query strings are ignored.
type DirFetcher struct{}

// Fetch reads the file named by rawURL.
func (DirFetcher) Fetch(ctx context.Context, rawURL string, _ Kind, onProgress ProgressFunc) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	path, err := localPath(rawURL)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if onProgress != nil {
		onProgress(100)
	}
	return data, nil
}

func localPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: parsing %q: %v", ErrTransport, rawURL, err)
	}
	if u.Scheme != "" && u.Scheme != "file" {
		return "", fmt.Errorf("%w: unsupported scheme %q for local fetch", ErrTransport, u.Scheme)
	}
	return filepath.FromSlash(u.Path), nil
}
