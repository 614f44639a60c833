package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/actuallystonmai/ranking-service/internal/domain"
	"github.com/actuallystonmai/ranking-service/internal/qiita"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu       sync.Mutex
	rankings map[string][]domain.Entry
	stored   map[string][]domain.StoredEntry
	gets     int
	failTag  string
}

func newFakeStore() *fakeStore {
	return &fakeStore{rankings: map[string][]domain.Entry{}, stored: map[string][]domain.StoredEntry{}}
}

func (f *fakeStore) GetRanking(_ context.Context, tag string, limit int) ([]domain.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if tag == f.failTag {
		return nil, errors.New("db down")
	}
	entries := f.rankings[tag]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []domain.Entry{}
	}
	return entries, nil
}

func (f *fakeStore) ReplaceRanking(_ context.Context, tag string, entries []domain.StoredEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tag == f.failTag {
		return errors.New("db down")
	}
	f.stored[tag] = entries
	return nil
}

type fakeCache struct {
	mu          sync.Mutex
	data        map[string][]domain.Entry
	invalidated []string
	getErr      error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]domain.Entry{}}
}

func (f *fakeCache) Get(_ context.Context, tag string) ([]domain.Entry, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	entries, ok := f.data[tag]
	return entries, ok, nil
}

func (f *fakeCache) Set(_ context.Context, tag string, entries []domain.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[tag] = entries
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, tag string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, tag)
	f.invalidated = append(f.invalidated, tag)
	return nil
}

// fakeSource answers by the tag embedded in the query; queries without a tag
// qualifier are the overall search.
type fakeSource struct {
	mu      sync.Mutex
	queries []string
	items   map[string][]qiita.Item
	errs    map[string]error
}

func (f *fakeSource) Collect(_ context.Context, _, _ int, query string) ([]qiita.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)

	tag := domain.OverallTag
	if i := strings.Index(query, " tag:"); i >= 0 {
		tag = query[i+len(" tag:"):]
	}
	return f.items[tag], f.errs[tag]
}

func item(title string, likes int) qiita.Item {
	return qiita.Item{Title: title, URL: "https://qiita.com/" + title, LikesCount: likes}
}

func defaultHarvest() HarvestConfig {
	return HarvestConfig{
		Tags:        []string{"go", "rust"},
		MaxPage:     2,
		PerPage:     100,
		Stocks:      10,
		TargetDays:  -7,
		RankTrunc:   2,
		Concurrency: 2,
	}
}

func TestGetRankingCacheAside(t *testing.T) {
	store := newFakeStore()
	store.rankings["go"] = []domain.Entry{{Tag: "go", Title: "a", LikesRank: 1}}
	cache := newFakeCache()
	svc := NewService(store, cache, &fakeSource{}, defaultHarvest(), nil)

	got, hit, err := svc.GetRanking(context.Background(), "go")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, store.rankings["go"], got)

	got, hit, err = svc.GetRanking(context.Background(), "go")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, store.rankings["go"], got)
	assert.Equal(t, 1, store.gets)
}

func TestGetRankingUnknownTagIsEmpty(t *testing.T) {
	svc := NewService(newFakeStore(), newFakeCache(), &fakeSource{}, defaultHarvest(), nil)

	got, _, err := svc.GetRanking(context.Background(), "cobol")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestGetRankingInvalidTag(t *testing.T) {
	svc := NewService(newFakeStore(), newFakeCache(), &fakeSource{}, defaultHarvest(), nil)

	_, _, err := svc.GetRanking(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidTag)
}

func TestGetRankingCacheErrorFallsBackToStore(t *testing.T) {
	store := newFakeStore()
	store.rankings["go"] = []domain.Entry{{Tag: "go", Title: "a"}}
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	svc := NewService(store, cache, &fakeSource{}, defaultHarvest(), nil)

	got, hit, err := svc.GetRanking(context.Background(), "go")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, got, 1)
}

func TestGetRankingStoreError(t *testing.T) {
	store := newFakeStore()
	store.failTag = "go"
	svc := NewService(store, newFakeCache(), &fakeSource{}, defaultHarvest(), nil)

	_, _, err := svc.GetRanking(context.Background(), "go")
	assert.ErrorContains(t, err, "fetch ranking")
}

func TestHarvest(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	cache.data["go"] = []domain.Entry{{Title: "stale"}}
	source := &fakeSource{
		items: map[string][]qiita.Item{
			domain.OverallTag: {item("low", 1), item("high", 9), item("mid", 5)},
			"go":              {item("g1", 3), item("g1", 3), item("g2", 4)},
			"rust":            {},
		},
	}
	svc := NewService(store, cache, source, defaultHarvest(), nil)
	now := time.Date(2024, 3, 10, 4, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	report := svc.Harvest(context.Background())

	assert.Equal(t, "2024-03-03", report.TargetDate)
	assert.Equal(t, 3, report.Summary.SuccessCount)
	assert.Equal(t, 0, report.Summary.FailedCount)
	require.Len(t, report.Results, 3)
	assert.Equal(t, domain.OverallTag, report.Results[0].Tag)

	overall := store.stored[domain.OverallTag]
	require.Len(t, overall, 2)
	assert.Equal(t, "high", overall[0].Title)
	assert.Equal(t, 1, overall[0].LikesRank)
	assert.Equal(t, "mid", overall[1].Title)
	assert.Equal(t, now, overall[0].RegisteredAt)

	goRanking := store.stored["go"]
	require.Len(t, goRanking, 2)
	assert.Equal(t, []string{"g2", "g1"}, []string{goRanking[0].Title, goRanking[1].Title})
	assert.Equal(t, "go", goRanking[0].Tag)

	rust, ok := store.stored["rust"]
	assert.True(t, ok)
	assert.Empty(t, rust)

	assert.ElementsMatch(t, []string{domain.OverallTag, "go", "rust"}, cache.invalidated)
	_, cached := cache.data["go"]
	assert.False(t, cached)

	assert.ElementsMatch(t, []string{
		"created:>=2024-03-03 stocks:>=10",
		"created:>=2024-03-03 stocks:>=0 tag:go",
		"created:>=2024-03-03 stocks:>=0 tag:rust",
	}, source.queries)

	assert.Same(t, report, svc.LastReport())
}

func TestHarvestTagFailureDoesNotStopOthers(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{
		items: map[string][]qiita.Item{
			domain.OverallTag: {item("a", 1)},
			"go":              {item("b", 2)},
		},
		errs: map[string]error{"rust": errors.New("rate limited")},
	}
	svc := NewService(store, newFakeCache(), source, defaultHarvest(), nil)

	report := svc.Harvest(context.Background())

	assert.Equal(t, 2, report.Summary.SuccessCount)
	assert.Equal(t, 1, report.Summary.FailedCount)
	assert.Equal(t, domain.StatusFailed, report.Results[2].Status)
	assert.Equal(t, "rate limited", report.Results[2].Error)
	_, stored := store.stored["rust"]
	assert.False(t, stored)

	assert.ErrorContains(t, svc.Run(context.Background()), "1 of 3 tags failed")
}

func TestHarvestKeepsPartialPages(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{
		items: map[string][]qiita.Item{domain.OverallTag: {item("a", 1)}},
		errs:  map[string]error{domain.OverallTag: errors.New("page 2: status 500")},
	}
	h := defaultHarvest()
	h.Tags = nil
	svc := NewService(store, newFakeCache(), source, h, nil)

	report := svc.Harvest(context.Background())

	require.Len(t, report.Results, 1)
	assert.Equal(t, domain.StatusSuccess, report.Results[0].Status)
	assert.Equal(t, 1, report.Results[0].Stored)
	assert.Contains(t, report.Results[0].Error, "status 500")
}

func TestHarvestStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.failTag = "go"
	source := &fakeSource{items: map[string][]qiita.Item{"go": {item("a", 1)}}}
	h := defaultHarvest()
	h.Tags = []string{"go"}
	svc := NewService(store, newFakeCache(), source, h, nil)

	report := svc.Harvest(context.Background())

	assert.Equal(t, domain.StatusFailed, report.Results[1].Status)
	assert.Equal(t, "db down", report.Results[1].Error)
}

func TestHarvestTagsSkipsDuplicatesAndOverall(t *testing.T) {
	h := defaultHarvest()
	h.Tags = []string{"go", domain.OverallTag, "go", " ", "rust"}
	svc := NewService(newFakeStore(), newFakeCache(), &fakeSource{}, h, nil)

	assert.Equal(t, []string{domain.OverallTag, "go", "rust"}, svc.harvestTags())
}
