package seeds

import (
	"context"
	"errors"
	"testing"

	"github.com/actuallystonmai/ranking-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	rankings map[string][]domain.StoredEntry
	failTag  string
}

func (m *memStore) ReplaceRanking(_ context.Context, tag string, entries []domain.StoredEntry) error {
	if tag == m.failTag {
		return errors.New("insert failed")
	}
	m.rankings[tag] = entries
	return nil
}

func TestSetup(t *testing.T) {
	store := &memStore{rankings: map[string][]domain.StoredEntry{}}
	require.NoError(t, Setup(context.Background(), store, []string{"go", domain.OverallTag, "rust"}, 5, nil))

	assert.Len(t, store.rankings, 3)
	for tag, ranking := range store.rankings {
		require.Len(t, ranking, 5, tag)
		for i, e := range ranking {
			assert.Equal(t, tag, e.Tag)
			assert.Equal(t, i+1, e.LikesRank)
			if i > 0 {
				assert.GreaterOrEqual(t, ranking[i-1].LikesCount, e.LikesCount)
			}
		}
	}
	assert.Equal(t, "go", store.rankings["go"][0].Tags[0].Name)
}

func TestSetupDeterministic(t *testing.T) {
	a := &memStore{rankings: map[string][]domain.StoredEntry{}}
	b := &memStore{rankings: map[string][]domain.StoredEntry{}}
	require.NoError(t, Setup(context.Background(), a, []string{"go"}, 10, nil))
	require.NoError(t, Setup(context.Background(), b, []string{"go"}, 10, nil))

	for tag := range a.rankings {
		for i := range a.rankings[tag] {
			assert.Equal(t, a.rankings[tag][i].Entry, b.rankings[tag][i].Entry)
		}
	}
}

func TestSetupStoreError(t *testing.T) {
	store := &memStore{rankings: map[string][]domain.StoredEntry{}, failTag: "rust"}
	err := Setup(context.Background(), store, []string{"go", "rust"}, 3, nil)
	assert.ErrorContains(t, err, "seed rust")
}
