package seeds

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/actuallystonmai/ranking-service/internal/domain"
	"github.com/actuallystonmai/ranking-service/internal/logger"
	"github.com/actuallystonmai/ranking-service/internal/model"
	"go.uber.org/zap"
)

type Store interface {
	ReplaceRanking(ctx context.Context, tag string, entries []domain.StoredEntry) error
}

var topics = []string{
	"入門", "設計パターン", "パフォーマンス改善", "テスト戦略", "エラーハンドリング",
	"CI/CD構築", "ベストプラクティス", "トラブルシューティング", "環境構築", "アンチパターン",
}

// Setup replaces the overall ranking and each tag's ranking with sample
// articles. The same tags always produce the same rankings.
func Setup(ctx context.Context, store Store, tags []string, perTag int, log *zap.Logger) error {
	log = logger.OrNop(log)
	rng := rand.New(rand.NewSource(42))
	now := time.Now()

	var overall []domain.Entry
	for _, tag := range tags {
		if domain.IsOverall(tag) {
			continue
		}
		candidates := sampleArticles(rng, tag, perTag)
		overall = append(overall, candidates...)

		log.Info("seeding ranking", zap.String("tag", tag), zap.Int("entries", len(candidates)))
		ranked := model.Rank(model.RankInput{Tag: tag, Candidates: candidates, Limit: perTag, Now: now})
		if err := store.ReplaceRanking(ctx, tag, ranked); err != nil {
			return fmt.Errorf("seed %s: %w", tag, err)
		}
	}

	log.Info("seeding ranking", zap.String("tag", domain.OverallTag), zap.Int("entries", len(overall)))
	ranked := model.Rank(model.RankInput{Tag: domain.OverallTag, Candidates: overall, Limit: perTag, Now: now})
	if err := store.ReplaceRanking(ctx, domain.OverallTag, ranked); err != nil {
		return fmt.Errorf("seed %s: %w", domain.OverallTag, err)
	}

	log.Info("seeding complete")
	return nil
}

func sampleArticles(rng *rand.Rand, tag string, n int) []domain.Entry {
	entries := make([]domain.Entry, 0, n)
	for i := range n {
		topic := topics[i%len(topics)]
		title := fmt.Sprintf("%s %s", tag, topic)
		if i >= len(topics) {
			title = fmt.Sprintf("%s その%d", title, i/len(topics)+1)
		}

		names := []string{tag}
		if extra := extraTag(rng); extra != "" && extra != tag {
			names = append(names, extra)
		}

		entries = append(entries, domain.Entry{
			Title:      title,
			URL:        fmt.Sprintf("https://qiita.com/sample/items/%s-%03d", tag, i+1),
			LikesCount: powerLawLikes(rng),
			Tags:       domain.ArticleTags(names),
		})
	}
	return entries
}

var extraTags = []string{"", "初心者", "設計", "テスト", "Docker", "AWS"}

func extraTag(rng *rand.Rand) string {
	return extraTags[rng.Intn(len(extraTags))]
}

// powerLawLikes skews towards few likes with a long tail of popular articles.
func powerLawLikes(rng *rand.Rand) int {
	u := rng.Float64()
	if u == 0 {
		u = 0.001
	}
	return int(math.Round(math.Pow(u, 3.0) * 1000))
}
