// Package client fetches rankings from the ranking API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/actuallystonmai/ranking-service/internal/domain"
	"github.com/go-resty/resty/v2"
)

const maxSnippet = 512

// StatusError reports a non-2xx answer from the ranking API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ranking api returned status %d body: %s", e.Code, e.Body)
}

type Client struct {
	baseURL string
	http    *resty.Client
}

// New returns a Client for the API rooted at baseURL. A zero timeout leaves
// requests unbounded.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    resty.New().SetTimeout(timeout),
	}
}

// RequestURL is the address Fetch requests for tag. The tag is escaped as a
// single path segment.
func (c *Client) RequestURL(tag string) string {
	return c.baseURL + "/" + url.PathEscape(tag)
}

// Fetch requests the ranking for tag. An empty ranking is returned as an empty
// slice, not an error.
func (c *Client) Fetch(ctx context.Context, tag string) ([]domain.Entry, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(c.RequestURL(tag))
	if err != nil {
		return nil, fmt.Errorf("fetch ranking %q: %w", tag, err)
	}

	if !resp.IsSuccess() {
		return nil, &StatusError{Code: resp.StatusCode(), Body: snippet(resp.Body())}
	}

	var entries []domain.Entry
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, fmt.Errorf("decode ranking %q: %w", tag, err)
	}
	if entries == nil {
		entries = []domain.Entry{}
	}
	return entries, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxSnippet {
		return s[:maxSnippet] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
