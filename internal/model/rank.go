package model

import (
	"sort"
	"time"

	"github.com/actuallystonmai/ranking-service/internal/domain"
)

type RankInput struct {
	Tag        string
	Candidates []domain.Entry
	Limit      int
	Now        time.Time
}

// Rank orders candidates by likes, most liked first, and keeps the top Limit
// (all of them when Limit is not positive).
// Ties keep their input order. Each kept entry is stamped with its 1-based
// rank, the ranking's tag and the registration time.
func Rank(input RankInput) []domain.StoredEntry {
	sorted := make([]domain.Entry, len(input.Candidates))
	copy(sorted, input.Candidates)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LikesCount > sorted[j].LikesCount
	})

	if input.Limit > 0 && len(sorted) > input.Limit {
		sorted = sorted[:input.Limit]
	}

	ranked := make([]domain.StoredEntry, 0, len(sorted))
	for i, e := range sorted {
		e.Tag = input.Tag
		e.LikesRank = i + 1
		ranked = append(ranked, domain.StoredEntry{Entry: e, RegisteredAt: input.Now})
	}
	return ranked
}

// Dedupe drops repeated URLs, keeping the first occurrence. Paged search
// results can repeat an item when new articles shift page boundaries.
func Dedupe(entries []domain.Entry) []domain.Entry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.URL]; ok {
			continue
		}
		seen[e.URL] = struct{}{}
		out = append(out, e)
	}
	return out
}
