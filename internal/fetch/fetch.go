// Package fetch retrieves dataset files from a remote store or a local
// mirror directory, reporting download progress as it goes.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrTransport is returned when a fetch does not complete.
var ErrTransport = errors.New("transport failure")

// Kind is the expected response type of a fetch.
type Kind int

const (
	JSON  Kind = iota // a JSON document, returned raw
	Bytes             // an opaque binary file
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case JSON:
		return "json"
	case Bytes:
		return "bytes"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ProgressFunc receives the completed percentage of a fetch in [0, 100].
type ProgressFunc func(percent float64)

// Fetcher retrieves the body at url. onProgress may be nil.
type Fetcher interface {
	Fetch(ctx context.Context, url string, kind Kind, onProgress ProgressFunc) ([]byte, error)
}

// StatusError is returned for a non-2xx HTTP response.
type StatusError struct {
	URL  string
	Code int
}

// Error names the URL and status code.
func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d: %v", e.URL, e.Code, ErrTransport)
}

// Unwrap returns ErrTransport for use with errors.Is.
func (e *StatusError) Unwrap() error {
	return ErrTransport
}

// New returns a DirFetcher for file:// or scheme-less base URLs and an
// HTTPFetcher otherwise.
func New(baseURL string, timeout time.Duration) Fetcher {
	if IsLocal(baseURL) {
		return DirFetcher{}
	}
	return NewHTTPFetcher(timeout)
}

// IsLocal reports whether baseURL names a local mirror directory.
func IsLocal(baseURL string) bool {
	if strings.HasPrefix(baseURL, "file://") {
		return true
	}
	return !strings.Contains(baseURL, "://")
}
