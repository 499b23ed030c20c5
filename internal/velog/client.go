// Package velog is the client for the velog GraphQL API. It only knows
// the two fixed operations the mirror needs: listing a user's posts and
// fetching one post's full detail.
package velog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultEndpoint is the public velog GraphQL endpoint.
const DefaultEndpoint = "https://v2.velog.io/graphql"

const listQuery = `
query Posts($username: String!) {
  posts(username: $username) {
    id
    title
    url_slug
    short_description
    thumbnail
    released_at
    tags
  }
}`

const detailQuery = `
query Post($username: String!, $url_slug: String!) {
  post(username: $username, url_slug: $url_slug) {
    id
    title
    url_slug
    body
    short_description
    thumbnail
    released_at
    tags
    series {
      name
    }
  }
}`

type (
	// PostSummary is one entry of the velog post list.
	PostSummary struct {
		ID               string   `json:"id"`
		Title            string   `json:"title"`
		URLSlug          string   `json:"url_slug"`
		ShortDescription string   `json:"short_description"`
		Thumbnail        string   `json:"thumbnail"`
		ReleasedAt       string   `json:"released_at"`
		Tags             []string `json:"tags"`
	}

	// PostDetail is the full shape of a single velog post.
	PostDetail struct {
		ID               string   `json:"id"`
		Title            string   `json:"title"`
		URLSlug          string   `json:"url_slug"`
		Body             string   `json:"body"`
		ShortDescription string   `json:"short_description"`
		Thumbnail        string   `json:"thumbnail"`
		ReleasedAt       string   `json:"released_at"`
		Tags             []string `json:"tags"`
		Series           *Series  `json:"series"`
	}

	Series struct {
		Name string `json:"name"`
	}
)

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// Client issues the fixed queries against a velog GraphQL endpoint.
type Client struct {
	endpoint string
	client   *http.Client
}

func New(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: time.Second * 3,
		},
	}
}

// ListPosts fetches the summary list for a user in a single round trip.
//
// A transport error or non-2xx status is an error; a response with no
// usable data decodes to an empty list.
func (c *Client) ListPosts(ctx context.Context, username string) ([]PostSummary, error) {
	var resp struct {
		Data struct {
			Posts []PostSummary `json:"posts"`
		} `json:"data"`
	}
	if err := c.do(ctx, listQuery, map[string]any{"username": username}, &resp); err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}

	return resp.Data.Posts, nil
}

// GetPost fetches a single post's full detail. A post the API knows
// nothing about comes back as nil with no error.
func (c *Client) GetPost(ctx context.Context, username, slug string) (*PostDetail, error) {
	var resp struct {
		Data struct {
			Post *PostDetail `json:"post"`
		} `json:"data"`
	}
	vars := map[string]any{"username": username, "url_slug": slug}
	if err := c.do(ctx, detailQuery, vars, &resp); err != nil {
		return nil, fmt.Errorf("error getting post %q: %w", slug, err)
	}

	return resp.Data.Post, nil
}

func (c *Client) do(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error calling velog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// A malformed body is treated as no data, not a failure: the zero
	// value of the response shape decodes to an empty result.
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil
	}

	return nil
}
