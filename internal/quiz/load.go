package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// maxDocumentSize caps how much of the configuration source is read.
const maxDocumentSize = 1 << 20

// Loader reads the configuration document from a file path or an
// http(s) URL.
type Loader struct {
	source string
	client *http.Client
}

func NewLoader(source string, client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{source: source, client: client}
}

// Source returns the configured location.
func (l *Loader) Source() string { return l.source }

// Load fetches, decodes and validates the document. There is no retry.
func (l *Loader) Load(ctx context.Context) (*Document, error) {
	rc, err := l.open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var doc Document
	if err := json.NewDecoder(io.LimitReader(rc, maxDocumentSize)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrInvalidDocument, l.source, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Check implements health.Checker.
func (l *Loader) Check(ctx context.Context) error {
	_, err := l.Load(ctx)
	return err
}

func (l *Loader) open(ctx context.Context) (io.ReadCloser, error) {
	if !strings.HasPrefix(l.source, "http://") && !strings.HasPrefix(l.source, "https://") {
		f, err := os.Open(l.source)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", l.source, err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", l.source, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", l.source, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: unexpected status %d", l.source, resp.StatusCode)
	}
	return resp.Body, nil
}
