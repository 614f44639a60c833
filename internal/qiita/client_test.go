package qiita

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/actuallystonmai/ranking-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuery(t *testing.T) {
	since := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "created:>=2024-03-05 stocks:>=10", BuildQuery(since, 10, domain.OverallTag))
	assert.Equal(t, "created:>=2024-03-05 stocks:>=0 tag:go", BuildQuery(since, 0, "go"))
}

func TestSearchItemsRequest(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Write([]byte(`[{"title":"T","url":"https://qiita.com/x","likes_count":4,"stocks_count":2,"tags":[{"name":"go"}]}]`))
	}))
	defer srv.Close()

	items, err := New(srv.URL+"/api/v2/", "tok", time.Second, nil).
		SearchItems(context.Background(), 2, 50, "created:>=2024-03-05 stocks:>=0 tag:go")
	require.NoError(t, err)

	assert.Equal(t, "/api/v2/items", got.URL.Path)
	assert.Equal(t, "2", got.URL.Query().Get("page"))
	assert.Equal(t, "50", got.URL.Query().Get("per_page"))
	assert.Equal(t, "created:>=2024-03-05 stocks:>=0 tag:go", got.URL.Query().Get("query"))
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))

	require.Len(t, items, 1)
	assert.Equal(t, domain.Entry{
		Tag:        "go",
		Title:      "T",
		URL:        "https://qiita.com/x",
		LikesCount: 4,
		Tags:       []domain.ArticleTag{{Name: "go"}},
	}, items[0].Entry("go"))
}

func TestSearchItemsWithoutToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "", time.Second, nil).SearchItems(context.Background(), 1, 10, "q")
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestSearchItemsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"Rate limit exceeded","type":"rate_limit_exceeded"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "", time.Second, nil).SearchItems(context.Background(), 1, 10, "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Contains(t, err.Error(), "rate_limit_exceeded")
}

// pagedServer serves total items split into pages, failing on failPage.
func pagedServer(t *testing.T, total, failPage int) (*httptest.Server, func() []int) {
	t.Helper()
	var (
		mu    sync.Mutex
		pages []int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
		mu.Lock()
		pages = append(pages, page)
		mu.Unlock()

		if page == failPage {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		items := []Item{}
		for i := (page - 1) * perPage; i < page*perPage && i < total; i++ {
			items = append(items, Item{Title: fmt.Sprintf("item-%d", i)})
		}
		json.NewEncoder(w).Encode(items)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []int {
		mu.Lock()
		defer mu.Unlock()
		return append([]int(nil), pages...)
	}
}

func TestCollectStopsAtEmptyPage(t *testing.T) {
	srv, pages := pagedServer(t, 5, 0)

	items, err := New(srv.URL, "", time.Second, nil).Collect(context.Background(), 10, 2, "q")
	require.NoError(t, err)
	assert.Len(t, items, 5)
	assert.Equal(t, []int{1, 2, 3, 4}, pages())
}

func TestCollectRespectsMaxPage(t *testing.T) {
	srv, pages := pagedServer(t, 100, 0)

	items, err := New(srv.URL, "", time.Second, nil).Collect(context.Background(), 3, 2, "q")
	require.NoError(t, err)
	assert.Len(t, items, 6)
	assert.Equal(t, []int{1, 2, 3}, pages())
}

func TestCollectKeepsItemsBeforeError(t *testing.T) {
	srv, _ := pagedServer(t, 100, 2)

	items, err := New(srv.URL, "", time.Second, nil).Collect(context.Background(), 5, 3, "q")
	assert.Error(t, err)
	assert.Len(t, items, 3)
}
