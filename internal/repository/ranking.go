package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/actuallystonmai/ranking-service/internal/domain"
	"github.com/jackc/pgx/v5"
)

// GetRanking returns up to limit entries of the ranking for tag, best first.
// A tag with no stored ranking yields an empty slice.
func (r *Repository) GetRanking(ctx context.Context, tag string, limit int) ([]domain.Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT tag, likes_rank, title, url, likes_count, tag_names
		FROM rankings
		WHERE tag = $1 AND likes_rank <= $2
		ORDER BY likes_rank`,
		tag, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query ranking for tag %q: %w", tag, err)
	}
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		var (
			e     domain.Entry
			names []string
		)
		if err := rows.Scan(&e.Tag, &e.LikesRank, &e.Title, &e.URL, &e.LikesCount, &names); err != nil {
			return nil, fmt.Errorf("scan ranking entry: %w", err)
		}
		e.Tags = domain.ArticleTags(names)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over ranking entries: %w", err)
	}
	return entries, nil
}

// ReplaceRanking swaps the stored ranking for tag with entries in a single
// transaction. An empty entries slice just clears the ranking.
func (r *Repository) ReplaceRanking(ctx context.Context, tag string, entries []domain.StoredEntry) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace ranking %q: %w", tag, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM rankings WHERE tag = $1`, tag); err != nil {
		return fmt.Errorf("delete ranking %q: %w", tag, err)
	}

	if len(entries) > 0 {
		query, args := buildInsert(tag, entries)
		if _, err = tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert ranking %q: %w", tag, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace ranking %q: %w", tag, err)
	}
	return nil
}

// ListTags returns the tags that currently have a stored ranking.
func (r *Repository) ListTags(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT tag FROM rankings ORDER BY tag`)
	if err != nil {
		return nil, fmt.Errorf("query ranking tags: %w", err)
	}
	tags, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect ranking tags: %w", err)
	}
	return tags, nil
}

func buildInsert(tag string, entries []domain.StoredEntry) (string, []any) {
	const cols = 7
	rows := make([]string, 0, len(entries))
	args := make([]any, 0, len(entries)*cols)

	for _, e := range entries {
		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, tag, e.LikesRank, e.Title, e.URL, e.LikesCount, domain.TagNames(e.Tags), e.RegisteredAt)
	}

	query := "INSERT INTO rankings (tag, likes_rank, title, url, likes_count, tag_names, registered_at) VALUES " +
		strings.Join(rows, ", ")
	return query, args
}
