package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/luki/envirosense/internal/reading"
)

const defaultFetchTimeout = 10 * time.Second

// Source fetches the raw record map from the remote data store with a
// single HTTP GET. The store is a Firebase-RTDB-style endpoint returning
// a JSON object keyed by record identifier.
type Source struct {
	url    string
	auth   string // optional auth token, appended as ?auth=
	client *http.Client
}

// NewSource creates a source for the given endpoint URL. auth may be
// empty. A nil client gets a default with a fetch timeout.
func NewSource(endpoint, auth string, client *http.Client) *Source {
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	return &Source{url: endpoint, auth: auth, client: client}
}

// Fetch performs one GET and decodes the record map. Any transport or
// decode failure is returned as-is; the caller logs it and skips the
// cycle.
func (s *Source) Fetch(ctx context.Context) (map[string]reading.Value, error) {
	endpoint := s.url
	if s.auth != "" {
		sep := "?"
		if u, err := url.Parse(endpoint); err == nil && u.RawQuery != "" {
			sep = "&"
		}
		endpoint += sep + "auth=" + url.QueryEscape(s.auth)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed: unexpected status %s", resp.Status)
	}

	var raw map[string]reading.Value
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("feed: decode: %w", err)
	}
	return raw, nil
}

// FetchWindow runs one full ingestion cycle: fetch, normalize, sort,
// truncate.
func (s *Source) FetchWindow(ctx context.Context, n int) (Window, error) {
	raw, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return BuildWindow(raw, n)
}
