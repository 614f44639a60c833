// Package qiita is a minimal client for the Qiita v2 items search API.
package qiita

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/actuallystonmai/ranking-service/internal/domain"
	"github.com/actuallystonmai/ranking-service/internal/logger"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type Item struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	LikesCount  int       `json:"likes_count"`
	StocksCount int       `json:"stocks_count"`
	CreatedAt   time.Time `json:"created_at"`
	Tags        []struct {
		Name string `json:"name"`
	} `json:"tags"`
}

// Entry converts the item to an unranked ranking entry for tag.
func (i Item) Entry(tag string) domain.Entry {
	tags := make([]domain.ArticleTag, 0, len(i.Tags))
	for _, t := range i.Tags {
		tags = append(tags, domain.ArticleTag{Name: t.Name})
	}
	return domain.Entry{
		Tag:        tag,
		Title:      i.Title,
		URL:        i.URL,
		LikesCount: i.LikesCount,
		Tags:       tags,
	}
}

type Client struct {
	http *resty.Client
	log  *zap.Logger
}

// New returns a client for the API at baseURL. The Authorization header is
// only sent when token is non-empty.
func New(baseURL, token string, timeout time.Duration, log *zap.Logger) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if token != "" {
		rc.SetAuthToken(token)
	}
	return &Client{http: rc, log: logger.OrNop(log)}
}

// BuildQuery builds the search query for items created on or after since
// with at least stocks stocks. The overall ranking is not filtered by tag.
func BuildQuery(since time.Time, stocks int, tag string) string {
	q := "created:>=" + since.Format(dateLayout) + " stocks:>=" + strconv.Itoa(stocks)
	if !domain.IsOverall(tag) {
		q += " tag:" + tag
	}
	return q
}

// SearchItems fetches one page of search results.
func (c *Client) SearchItems(ctx context.Context, page, perPage int, query string) ([]Item, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"page":     strconv.Itoa(page),
			"per_page": strconv.Itoa(perPage),
			"query":    query,
		}).
		Get("/items")
	if err != nil {
		return nil, fmt.Errorf("fetch qiita items page %d: %w", page, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("qiita items page %d returned status %d body: %s", page, resp.StatusCode(), snippet(resp.Body()))
	}

	var items []Item
	if err := json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("decode qiita items page %d: %w", page, err)
	}
	return items, nil
}

// Collect walks result pages 1..maxPage and stops at the first empty page.
// On error it returns the items gathered so far together with the error.
func (c *Client) Collect(ctx context.Context, maxPage, perPage int, query string) ([]Item, error) {
	var all []Item
	for page := 1; page <= maxPage; page++ {
		items, err := c.SearchItems(ctx, page, perPage, query)
		if err != nil {
			return all, err
		}
		if len(items) == 0 {
			c.log.Debug("qiita search exhausted", zap.String("query", query), zap.Int("page", page))
			break
		}
		all = append(all, items...)
	}
	return all, nil
}

func snippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
