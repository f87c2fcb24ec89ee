package sqlite

import (
	"context"
	"database/sql"
	"sort"

	"github.com/constellation/core/internal/domain"
)

type searchHistoryRepository struct {
	db *sql.DB
}

// Save records criteria as a search history entry, deduplicating by
// (text_query, mode, sorted tag_ids): a matching existing entry has its
// last_used_at bumped instead of a new row being inserted. Grounded on
// sqlite_search_history_repository.rs::save.
func (r *searchHistoryRepository) Save(ctx context.Context, criteria domain.SearchCriteria) error {
	sortedTagIDs := append([]int64(nil), criteria.TagIDs...)
	sort.Slice(sortedTagIDs, func(i, j int) bool { return sortedTagIDs[i] < sortedTagIDs[j] })

	return withImmediateTx(ctx, r.db, func(conn *sql.Conn) error {
		var candidateQuery string
		var args []any
		if criteria.TextQuery != nil {
			candidateQuery = `SELECT id FROM search_histories WHERE text_query = ? AND search_mode = ?`
			args = []any{*criteria.TextQuery, string(criteria.Mode)}
		} else {
			candidateQuery = `SELECT id FROM search_histories WHERE text_query IS NULL AND search_mode = ?`
			args = []any{string(criteria.Mode)}
		}

		rows, err := conn.QueryContext(ctx, candidateQuery, args...)
		if err != nil {
			return err
		}
		var candidateIDs []int64
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				_ = rows.Close()
				return err
			}
			candidateIDs = append(candidateIDs, id)
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return err
		}
		_ = rows.Close()

		for _, candidateID := range candidateIDs {
			tagIDs, err := r.loadTags(ctx, conn, candidateID)
			if err != nil {
				return err
			}
			if int64SlicesEqual(tagIDs, sortedTagIDs) {
				_, err := conn.ExecContext(ctx,
					`UPDATE search_histories SET last_used_at = unixepoch() WHERE id = ?`, candidateID)
				return err
			}
		}

		res, err := conn.ExecContext(ctx,
			`INSERT INTO search_histories (text_query, search_mode) VALUES (?, ?)`,
			nullableString(criteria.TextQuery), string(criteria.Mode))
		if err != nil {
			return err
		}
		historyID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, tagID := range sortedTagIDs {
			if _, err := conn.ExecContext(ctx,
				`INSERT INTO search_history_tags (search_history_id, tag_id) VALUES (?, ?)`, historyID, tagID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *searchHistoryRepository) loadTags(ctx context.Context, conn *sql.Conn, historyID int64) ([]int64, error) {
	rows, err := conn.QueryContext(ctx,
		`SELECT tag_id FROM search_history_tags WHERE search_history_id = ? ORDER BY tag_id`, historyID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func int64SlicesEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func (r *searchHistoryRepository) GetRecent(ctx context.Context, limit int) ([]*domain.SearchHistory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, text_query, search_mode, last_used_at FROM search_histories ORDER BY last_used_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, wrapDBError("get recent search history", err, domain.ValidationError)
	}
	type row struct {
		id         int64
		textQuery  sql.NullString
		mode       string
		lastUsedAt int64
	}
	var rs []row
	for rows.Next() {
		var rr row
		if err := rows.Scan(&rr.id, &rr.textQuery, &rr.mode, &rr.lastUsedAt); err != nil {
			_ = rows.Close()
			return nil, wrapDBError("scan search history row", err, domain.ValidationError)
		}
		rs = append(rs, rr)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("iterate search history rows", err, domain.ValidationError)
	}

	out := make([]*domain.SearchHistory, 0, len(rs))
	for _, rr := range rs {
		tagIDs, err := r.loadTagsNoTx(ctx, rr.id)
		if err != nil {
			return nil, wrapDBError("load search history tags", err, domain.ValidationError)
		}
		criteria := domain.SearchCriteria{TagIDs: tagIDs, Mode: domain.SearchMode(rr.mode)}
		if rr.textQuery.Valid {
			q := rr.textQuery.String
			criteria.TextQuery = &q
		}
		out = append(out, &domain.SearchHistory{ID: rr.id, Criteria: criteria, LastUsedAt: rr.lastUsedAt})
	}
	return out, nil
}

func (r *searchHistoryRepository) loadTagsNoTx(ctx context.Context, historyID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tag_id FROM search_history_tags WHERE search_history_id = ? ORDER BY tag_id`, historyID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *searchHistoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM search_histories WHERE id = ?`, id)
	if err != nil {
		return wrapDBError("delete search history", err, domain.ValidationError)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDBError("delete search history: rows affected", err, domain.ValidationError)
	}
	if n == 0 {
		return domain.New(domain.ValidationError, "search history %d not found", id)
	}
	return nil
}

func (r *searchHistoryRepository) ClearAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM search_histories`)
	return wrapDBError("clear search history", err, domain.ValidationError)
}
