package artifactory

import (
	"context"
	"fmt"
	"net/http"

	"github.com/matzehuels/docver/pkg/buildinfo"
	"github.com/matzehuels/docver/pkg/integrations"
)

// searchPath is the artifact quick-search endpoint relative to the base URL.
const searchPath = "/api/search/artifact"

// Client queries an Artifactory instance.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a client for the Artifactory instance at baseURL
// (e.g. "https://maven.example.org/artifactory"). If hc is nil, a client
// without request timeout is used.
func NewClient(baseURL string, hc *http.Client) *Client {
	return &Client{
		Client: integrations.NewClient(hc, map[string]string{
			"Accept":     "application/json",
			"User-Agent": "docver/" + buildinfo.Version,
		}),
		baseURL: integrations.NormalizeBaseURL(baseURL),
	}
}

// BaseURL returns the normalized base URL the client queries.
func (c *Client) BaseURL() string { return c.baseURL }

// SearchURL returns the search endpoint URL for name.
func (c *Client) SearchURL(name string) string {
	return fmt.Sprintf("%s%s?name=%s", c.baseURL, searchPath, integrations.URLEncode(name))
}

// Search returns the storage URI of every artifact file matching name, in
// the order the repository listed them. An empty slice means the query
// succeeded but matched nothing.
//
// Returns:
//   - [integrations.ErrNotFound] if the endpoint answers 404
//   - [integrations.ErrNetwork] for connection failures and other non-2xx responses
//   - [integrations.ErrInvalidResponse] if the body is not valid JSON
func (c *Client) Search(ctx context.Context, name string) ([]string, error) {
	var resp searchResponse
	if err := c.Get(ctx, c.SearchURL(name), &resp); err != nil {
		return nil, fmt.Errorf("artifactory search %s: %w", name, err)
	}

	uris := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		uris = append(uris, r.URI)
	}
	return uris, nil
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	URI string `json:"uri"`
}
