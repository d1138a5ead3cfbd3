package src

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Lister fetches the entries of one remote directory. The tree takes this
// interface so tests can expand nodes without a server.
type Lister interface {
	ListDir(ctx context.Context, path string) ([]FsEntry, error)
}

// HTTPLister resolves directory listings against the backend's
// /api/list_dir endpoint.
type HTTPLister struct {
	base   string
	client *http.Client
}

func NewHTTPLister(base string) *HTTPLister {
	return &HTTPLister{
		base:   strings.TrimSuffix(base, "/"),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (l *HTTPLister) ListDir(ctx context.Context, path string) ([]FsEntry, error) {
	u := l.base + "/api/list_dir?path=" + url.QueryEscape(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build listing request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	defer resp.Body.Close()

	var body ListResult
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode listing for %s: %w", path, err)
	}
	if body.Error != "" {
		return nil, fmt.Errorf("list %s: %s", path, body.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list %s: status %d", path, resp.StatusCode)
	}
	return body.Items, nil
}
