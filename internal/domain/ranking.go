package domain

import (
	"errors"
	"strings"
	"time"
)

// OverallTag names the combined ranking across all tags.
const OverallTag = "overall"

const maxTagLength = 64

var ErrInvalidTag = errors.New("invalid tag")

type ArticleTag struct {
	Name string `json:"Name"`
}

// Entry is one article's row in a ranking response. The JSON field names are
// part of the ranking API contract.
type Entry struct {
	Tag        string       `json:"Tag"`
	Title      string       `json:"Title"`
	URL        string       `json:"URL"`
	LikesCount int          `json:"LikesCount"`
	Tags       []ArticleTag `json:"Tags"`
	LikesRank  int          `json:"LikesRank"`
}

// StoredEntry is an Entry as persisted by the harvester.
type StoredEntry struct {
	Entry
	RegisteredAt time.Time
}

func IsOverall(tag string) bool {
	return tag == OverallTag
}

// ValidateTag rejects tags that cannot name a ranking.
func ValidateTag(tag string) error {
	if strings.TrimSpace(tag) == "" || len(tag) > maxTagLength {
		return ErrInvalidTag
	}
	return nil
}

// TagNames flattens an entry's tags to their names, preserving order.
func TagNames(tags []ArticleTag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

func ArticleTags(names []string) []ArticleTag {
	tags := make([]ArticleTag, 0, len(names))
	for _, n := range names {
		tags = append(tags, ArticleTag{Name: n})
	}
	return tags
}
