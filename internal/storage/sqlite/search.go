package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/constellation/core/internal/domain"
	"github.com/constellation/core/internal/query"
)

type searchRepository struct {
	db *sql.DB
}

// itemColumnsQualified is itemColumns with every column qualified by the
// "i" alias, for use in queries that join items against item_tags/tags.
const itemColumnsQualified = `i.id, i.path, i.is_directory, i.size, i.modified_time, i.file_reference_number,
	i.created_at, i.updated_at, i.is_deleted, i.deleted_at`

// ByTagsAnd returns items carrying every tag in tagIDs. Grounded on
// sqlite_search_repository.rs::search_by_tags_and.
func (r *searchRepository) ByTagsAnd(ctx context.Context, tagIDs []int64) ([]*domain.Item, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(tagIDs)
	sqlText := `
		SELECT ` + itemColumnsQualified + `
		FROM items i
		INNER JOIN item_tags it ON i.id = it.item_id
		WHERE it.tag_id IN (` + placeholders + `)
		GROUP BY i.id
		HAVING COUNT(DISTINCT it.tag_id) = ?
		ORDER BY i.path ASC`
	args = append(args, len(tagIDs))
	return r.queryItems(ctx, sqlText, args...)
}

// ByTagsOr returns items carrying any tag in tagIDs.
func (r *searchRepository) ByTagsOr(ctx context.Context, tagIDs []int64) ([]*domain.Item, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(tagIDs)
	sqlText := `
		SELECT DISTINCT ` + itemColumnsQualified + `
		FROM items i
		INNER JOIN item_tags it ON i.id = it.item_id
		WHERE it.tag_id IN (` + placeholders + `)
		ORDER BY i.path ASC`
	return r.queryItems(ctx, sqlText, args...)
}

// ByFilename returns items whose path contains substr.
func (r *searchRepository) ByFilename(ctx context.Context, substr string) ([]*domain.Item, error) {
	if substr == "" {
		return nil, nil
	}
	sqlText := `SELECT ` + itemColumns + ` FROM items WHERE path LIKE ? ORDER BY path ASC`
	return r.queryItems(ctx, sqlText, "%"+substr+"%")
}

// Combined branches on which of tagIDs/filenameSubstr are present, mirroring
// sqlite_search_repository.rs::search_combined's four-way SQL dispatch.
func (r *searchRepository) Combined(ctx context.Context, tagIDs []int64, mode domain.SearchMode, filenameSubstr *string) ([]*domain.Item, error) {
	pattern := ""
	hasFilename := false
	if filenameSubstr != nil {
		trimmed := strings.TrimSpace(*filenameSubstr)
		if trimmed != "" {
			pattern = "%" + trimmed + "%"
			hasFilename = true
		}
	}
	hasTags := len(tagIDs) > 0

	var sqlText string
	var args []any

	switch {
	case hasTags && hasFilename:
		placeholders, tagArgs := inClause(tagIDs)
		args = append(args, tagArgs...)
		args = append(args, pattern)
		if mode == domain.SearchModeAnd {
			sqlText = `
				SELECT ` + itemColumnsQualified + `
				FROM items i
				INNER JOIN item_tags it ON i.id = it.item_id
				WHERE it.tag_id IN (` + placeholders + `) AND i.path LIKE ?
				GROUP BY i.id
				HAVING COUNT(DISTINCT it.tag_id) = ?
				ORDER BY i.path ASC`
			args = append(args, len(tagIDs))
		} else {
			sqlText = `
				SELECT DISTINCT ` + itemColumnsQualified + `
				FROM items i
				INNER JOIN item_tags it ON i.id = it.item_id
				WHERE it.tag_id IN (` + placeholders + `) AND i.path LIKE ?
				ORDER BY i.path ASC`
		}
	case hasTags:
		placeholders, tagArgs := inClause(tagIDs)
		args = append(args, tagArgs...)
		if mode == domain.SearchModeAnd {
			sqlText = `
				SELECT ` + itemColumnsQualified + `
				FROM items i
				INNER JOIN item_tags it ON i.id = it.item_id
				WHERE it.tag_id IN (` + placeholders + `)
				GROUP BY i.id
				HAVING COUNT(DISTINCT it.tag_id) = ?
				ORDER BY i.path ASC`
			args = append(args, len(tagIDs))
		} else {
			sqlText = `
				SELECT DISTINCT ` + itemColumnsQualified + `
				FROM items i
				INNER JOIN item_tags it ON i.id = it.item_id
				WHERE it.tag_id IN (` + placeholders + `)
				ORDER BY i.path ASC`
		}
	default:
		sqlText = `SELECT ` + itemColumns + ` FROM items WHERE path LIKE ? ORDER BY path ASC`
		args = append(args, pattern)
	}

	return r.queryItems(ctx, sqlText, args...)
}

// CQL parses and compiles expr, then runs the resulting fragment against
// the items table.
func (r *searchRepository) CQL(ctx context.Context, expr string) ([]*domain.Item, error) {
	node, err := query.Parse(expr)
	if err != nil {
		return nil, query.WrapError(err)
	}
	sqlText, params, err := query.BuildQuery(node)
	if err != nil {
		return nil, query.WrapError(err)
	}
	return r.queryItems(ctx, sqlText, params...)
}

func (r *searchRepository) queryItems(ctx context.Context, sqlText string, args ...any) ([]*domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, wrapDBError("search items", err, domain.ItemNotFound)
	}
	return collectItems(rows)
}
