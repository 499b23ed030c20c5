// Package webclient is the frontend's HTTP client for the mirror API.
package webclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/njwon19/velolog/internal/velolog"
)

// Client reads posts from the mirror API.
type Client struct {
	base   string
	client *http.Client
}

func New(base string) *Client {
	return &Client{
		base: base,
		client: &http.Client{
			Timeout: time.Second * 5,
		},
	}
}

// ListPosts fetches every post summary. The frontend filters and
// paginates in memory, so there are no query parameters here.
func (c *Client) ListPosts(ctx context.Context) ([]velolog.PostSummary, error) {
	var summaries []velolog.PostSummary
	if err := c.get(ctx, "/api/posts", &summaries); err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}

	return summaries, nil
}

// GetPost fetches one full post. An unknown slug is velolog.ErrNotFound,
// distinct from a transport failure.
func (c *Client) GetPost(ctx context.Context, slug string) (velolog.Post, error) {
	var post velolog.Post
	err := c.get(ctx, "/api/posts/"+url.PathEscape(slug), &post)
	if err != nil {
		return velolog.Post{}, fmt.Errorf("error getting post %q: %w", slug, err)
	}

	return post, nil
}

// Health checks whether the API is up.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/health", &struct{}{})
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error calling api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return velolog.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}

	return nil
}
