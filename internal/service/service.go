package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/actuallystonmai/ranking-service/internal/domain"
	"github.com/actuallystonmai/ranking-service/internal/logger"
	"github.com/actuallystonmai/ranking-service/internal/metrics"
	"github.com/actuallystonmai/ranking-service/internal/model"
	"github.com/actuallystonmai/ranking-service/internal/qiita"
	"go.uber.org/zap"
)

type RankingStore interface {
	GetRanking(ctx context.Context, tag string, limit int) ([]domain.Entry, error)
	ReplaceRanking(ctx context.Context, tag string, entries []domain.StoredEntry) error
}

type RankingCache interface {
	Get(ctx context.Context, tag string) ([]domain.Entry, bool, error)
	Set(ctx context.Context, tag string, entries []domain.Entry) error
	Invalidate(ctx context.Context, tag string) error
}

type ItemSource interface {
	Collect(ctx context.Context, maxPage, perPage int, query string) ([]qiita.Item, error)
}

const defaultRankTrunc = 20

type HarvestConfig struct {
	Tags        []string
	MaxPage     int
	PerPage     int
	Stocks      int // minimum stocks for the overall ranking; tag rankings use 0
	TargetDays  int // offset from today of the oldest creation date considered
	RankTrunc   int
	Concurrency int
}

type Service struct {
	store   RankingStore
	cache   RankingCache
	source  ItemSource
	harvest HarvestConfig
	log     *zap.Logger
	now     func() time.Time

	mu         sync.Mutex
	lastReport *domain.HarvestReport
}

func NewService(store RankingStore, cache RankingCache, source ItemSource, harvest HarvestConfig, log *zap.Logger) *Service {
	if harvest.Concurrency <= 0 {
		harvest.Concurrency = 1
	}
	if harvest.RankTrunc <= 0 {
		harvest.RankTrunc = defaultRankTrunc
	}
	return &Service{
		store:   store,
		cache:   cache,
		source:  source,
		harvest: harvest,
		log:     logger.OrNop(log),
		now:     time.Now,
	}
}

// GetRanking returns the stored ranking for tag, best first. cacheHit reports
// whether it was served from cache.
func (s *Service) GetRanking(ctx context.Context, tag string) (entries []domain.Entry, cacheHit bool, err error) {
	if err := domain.ValidateTag(tag); err != nil {
		return nil, false, err
	}

	cached, found, err := s.cache.Get(ctx, tag)
	if err != nil {
		s.log.Warn("cache get failed", zap.String("tag", tag), zap.Error(err))
	}
	if found {
		metrics.RankingRequests.WithLabelValues("hit").Inc()
		return cached, true, nil
	}
	metrics.RankingRequests.WithLabelValues("miss").Inc()

	entries, err = s.store.GetRanking(ctx, tag, s.harvest.RankTrunc)
	if err != nil {
		return nil, false, fmt.Errorf("fetch ranking: %w", err)
	}

	if cacheErr := s.cache.Set(ctx, tag, entries); cacheErr != nil {
		s.log.Warn("cache set failed", zap.String("tag", tag), zap.Error(cacheErr))
	}
	return entries, false, nil
}

// Harvest rebuilds the overall ranking and every configured tag ranking from
// the item source. Tags are processed concurrently; a failing tag does not
// stop the others.
func (s *Service) Harvest(ctx context.Context) *domain.HarvestReport {
	start := s.now()
	since := start.AddDate(0, 0, s.harvest.TargetDays)
	tags := s.harvestTags()

	s.log.Info("harvest started",
		zap.String("since", since.Format(time.DateOnly)),
		zap.Strings("tags", tags))

	results := make([]domain.TagHarvestResult, len(tags))
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.harvest.Concurrency)

	for i, tag := range tags {
		wg.Add(1)
		go func(idx int, tag string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = s.harvestTag(ctx, tag, since)
		}(i, tag)
	}
	wg.Wait()

	successCount, failedCount := 0, 0
	for _, r := range results {
		if r.Status == domain.StatusSuccess {
			successCount++
		} else {
			failedCount++
		}
	}

	elapsed := s.now().Sub(start)
	report := &domain.HarvestReport{
		TargetDate: since.Format(time.DateOnly),
		Results:    results,
		Summary: domain.HarvestSummary{
			SuccessCount:     successCount,
			FailedCount:      failedCount,
			ProcessingTimeMs: elapsed.Milliseconds(),
		},
		FinishedAt: s.now().UTC().Format(time.RFC3339),
	}

	status := "success"
	switch {
	case successCount == 0:
		status = "failed"
	case failedCount > 0:
		status = "partial"
	}
	metrics.HarvestRuns.WithLabelValues(status).Inc()
	metrics.HarvestDuration.Observe(elapsed.Seconds())

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()

	s.log.Info("harvest finished",
		zap.String("status", status),
		zap.Int("success", successCount),
		zap.Int("failed", failedCount),
		zap.Duration("took", elapsed))
	return report
}

// Run harvests and reports an error when any tag failed.
func (s *Service) Run(ctx context.Context) error {
	report := s.Harvest(ctx)
	if report.Summary.FailedCount > 0 {
		return fmt.Errorf("harvest: %d of %d tags failed", report.Summary.FailedCount, len(report.Results))
	}
	return nil
}

// LastReport returns the report of the most recent harvest, or nil.
func (s *Service) LastReport() *domain.HarvestReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReport
}

func (s *Service) harvestTags() []string {
	tags := []string{domain.OverallTag}
	seen := map[string]bool{domain.OverallTag: true}
	for _, t := range s.harvest.Tags {
		if seen[t] || domain.ValidateTag(t) != nil {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}

// harvestTag collects, ranks and stores a single tag's ranking. Items gathered
// before a paging error are still ranked and stored; the error is kept on the
// result.
func (s *Service) harvestTag(ctx context.Context, tag string, since time.Time) domain.TagHarvestResult {
	result := domain.TagHarvestResult{Tag: tag, Status: domain.StatusSuccess}

	stocks := 0
	if domain.IsOverall(tag) {
		stocks = s.harvest.Stocks
	}
	query := qiita.BuildQuery(since, stocks, tag)

	items, err := s.source.Collect(ctx, s.harvest.MaxPage, s.harvest.PerPage, query)
	result.Fetched = len(items)
	if err != nil {
		s.log.Warn("collect items failed", zap.String("tag", tag), zap.Int("collected", len(items)), zap.Error(err))
		result.Error = err.Error()
		if len(items) == 0 {
			result.Status = domain.StatusFailed
			return result
		}
	}

	candidates := make([]domain.Entry, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, item.Entry(tag))
	}
	ranked := model.Rank(model.RankInput{
		Tag:        tag,
		Candidates: model.Dedupe(candidates),
		Limit:      s.harvest.RankTrunc,
		Now:        s.now(),
	})

	if err := s.store.ReplaceRanking(ctx, tag, ranked); err != nil {
		s.log.Error("store ranking failed", zap.String("tag", tag), zap.Error(err))
		result.Status = domain.StatusFailed
		result.Error = errors.Join(errorOrNil(result.Error), err).Error()
		return result
	}
	result.Stored = len(ranked)
	metrics.HarvestedEntries.WithLabelValues(tag).Set(float64(len(ranked)))

	if err := s.cache.Invalidate(ctx, tag); err != nil {
		s.log.Warn("cache invalidation failed", zap.String("tag", tag), zap.Error(err))
	}

	s.log.Info("ranking stored", zap.String("tag", tag), zap.Int("fetched", result.Fetched), zap.Int("stored", result.Stored))
	return result
}

func errorOrNil(msg string) error {
	if msg == "" {
		return nil
	}
	return errors.New(msg)
}
