package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/constellation/core/internal/domain"
)

type itemRepository struct {
	db *sql.DB
}

const itemColumns = `id, path, is_directory, size, modified_time, file_reference_number,
	created_at, updated_at, is_deleted, deleted_at`

func scanItem(scan func(dest ...any) error) (*domain.Item, error) {
	var (
		id           int64
		path         string
		isDirectory  bool
		size         sql.NullInt64
		modified     sql.NullInt64
		frn          int64
		createdAt    int64
		updatedAt    int64
		isDeleted    bool
		deletedAt    sql.NullInt64
	)
	if err := scan(&id, &path, &isDirectory, &size, &modified, &frn, &createdAt, &updatedAt, &isDeleted, &deletedAt); err != nil {
		return nil, err
	}

	// Corruption recovery: a persisted path that fails validation falls
	// back to the invalid sentinel rather than aborting the read. This
	// path is only reachable here, never from an input boundary.
	fp, err := domain.NewFilePath(path)
	if err != nil {
		fp = domain.InvalidFilePathValue()
	}

	item := &domain.Item{
		ID:                  id,
		Path:                fp,
		IsDirectory:         isDirectory,
		FileReferenceNumber: uint64(frn),
		CreatedAt:           createdAt,
		UpdatedAt:           updatedAt,
		IsDeleted:           isDeleted,
	}
	if size.Valid {
		v := size.Int64
		item.Size = &v
	}
	if modified.Valid {
		v := modified.Int64
		item.ModifiedTime = &v
	}
	if deletedAt.Valid {
		v := deletedAt.Int64
		item.DeletedAt = &v
	}
	return item, nil
}

func (r *itemRepository) Save(ctx context.Context, item *domain.Item) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO items (path, is_directory, size, modified_time, file_reference_number)
		 VALUES (?, ?, ?, ?, ?)`,
		item.Path.String(), item.IsDirectory, nullableInt64(item.Size), nullableInt64(item.ModifiedTime), int64(item.FileReferenceNumber),
	)
	if err != nil {
		return 0, wrapDBError("save item", err, domain.ItemNotFound)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapDBError("save item: last insert id", err, domain.ItemNotFound)
	}
	item.ID = id
	return id, nil
}

func (r *itemRepository) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ? AND is_deleted = 0`, id)
	item, err := scanItem(row.Scan)
	if err != nil {
		return nil, wrapDBError("find item by id", err, domain.ItemNotFound)
	}
	return item, nil
}

func (r *itemRepository) FindByPath(ctx context.Context, path string) (*domain.Item, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE path = ? AND is_deleted = 0`, path)
	item, err := scanItem(row.Scan)
	if err != nil {
		return nil, wrapDBError("find item by path", err, domain.ItemNotFound)
	}
	return item, nil
}

// chunkSize bounds every IN (...) parameter list at 500, safely under
// SQLite's ~999 bound-parameter limit, per spec.md §4.1.
const chunkSize = 500

func (r *itemRepository) FindByIDs(ctx context.Context, ids []int64) ([]*domain.Item, error) {
	var out []*domain.Item
	for _, chunk := range chunkInt64s(ids, chunkSize) {
		placeholders, args := inClause(chunk)
		rows, err := r.db.QueryContext(ctx,
			`SELECT `+itemColumns+` FROM items WHERE id IN (`+placeholders+`) AND is_deleted = 0`, args...)
		if err != nil {
			return nil, wrapDBError("find items by ids", err, domain.ItemNotFound)
		}
		items, err := collectItems(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

func (r *itemRepository) FindByPaths(ctx context.Context, paths []string) ([]*domain.Item, error) {
	var out []*domain.Item
	for _, chunk := range chunkStrings(paths, chunkSize) {
		placeholders, args := inClauseStrings(chunk)
		rows, err := r.db.QueryContext(ctx,
			`SELECT `+itemColumns+` FROM items WHERE path IN (`+placeholders+`) AND is_deleted = 0`, args...)
		if err != nil {
			return nil, wrapDBError("find items by paths", err, domain.ItemNotFound)
		}
		items, err := collectItems(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

func (r *itemRepository) FindByPathPrefix(ctx context.Context, prefix string) ([]*domain.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE path LIKE ? ESCAPE '\' AND is_deleted = 0`,
		escapeLikePrefix(prefix)+"%")
	if err != nil {
		return nil, wrapDBError("find items by path prefix", err, domain.ItemNotFound)
	}
	return collectItems(rows)
}

func escapeLikePrefix(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func collectItems(rows *sql.Rows) ([]*domain.Item, error) {
	defer func() { _ = rows.Close() }()
	var out []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, wrapDBError("scan item row", err, domain.ItemNotFound)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("iterate item rows", err, domain.ItemNotFound)
	}
	return out, nil
}

func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	return withImmediateTx(ctx, r.db, func(conn *sql.Conn) error {
		var exists bool
		if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) > 0 FROM items WHERE id = ?`, item.ID).Scan(&exists); err != nil {
			return wrapDBError("check item exists", err, domain.ItemNotFound)
		}
		if !exists {
			return domain.New(domain.ItemNotFound, "item %d not found", item.ID)
		}
		_, err := conn.ExecContext(ctx,
			`UPDATE items SET path = ?, size = ?, modified_time = ?, file_reference_number = ?, updated_at = unixepoch() WHERE id = ?`,
			item.Path.String(), nullableInt64(item.Size), nullableInt64(item.ModifiedTime), int64(item.FileReferenceNumber), item.ID)
		if err != nil {
			return wrapDBError("update item", err, domain.ItemNotFound)
		}
		return nil
	})
}

func (r *itemRepository) SoftDelete(ctx context.Context, id int64) error {
	return withImmediateTx(ctx, r.db, func(conn *sql.Conn) error {
		var isDeleted sql.NullBool
		err := conn.QueryRowContext(ctx, `SELECT is_deleted FROM items WHERE id = ?`, id).Scan(&isDeleted)
		if err == sql.ErrNoRows {
			return domain.New(domain.ItemNotFound, "item %d not found", id)
		}
		if err != nil {
			return wrapDBError("check item deleted", err, domain.ItemNotFound)
		}
		if isDeleted.Valid && isDeleted.Bool {
			return domain.New(domain.ValidationError, "item %d is already deleted", id)
		}
		_, err = conn.ExecContext(ctx,
			`UPDATE items SET is_deleted = 1, deleted_at = unixepoch(), updated_at = unixepoch() WHERE id = ?`, id)
		if err != nil {
			return wrapDBError("soft delete item", err, domain.ItemNotFound)
		}
		return nil
	})
}

func (r *itemRepository) Restore(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE items SET is_deleted = 0, deleted_at = NULL, updated_at = unixepoch() WHERE id = ? AND is_deleted = 1`, id)
	if err != nil {
		return wrapDBError("restore item", err, domain.ItemNotFound)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDBError("restore item: rows affected", err, domain.ItemNotFound)
	}
	if n == 0 {
		return domain.New(domain.ItemNotFound, "item %d not found", id)
	}
	return nil
}

func (r *itemRepository) FindDeleted(ctx context.Context) ([]*domain.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE is_deleted = 1 ORDER BY deleted_at DESC`)
	if err != nil {
		return nil, wrapDBError("find deleted items", err, domain.ItemNotFound)
	}
	return collectItems(rows)
}

func (r *itemRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return wrapDBError("delete item", err, domain.ItemNotFound)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDBError("delete item: rows affected", err, domain.ItemNotFound)
	}
	if n == 0 {
		return domain.New(domain.ItemNotFound, "item %d not found", id)
	}
	return nil
}

func (r *itemRepository) AddTag(ctx context.Context, itemID, tagID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO item_tags (item_id, tag_id) VALUES (?, ?)`, itemID, tagID)
	return wrapDBError("add tag to item", err, domain.ItemNotFound)
}

func (r *itemRepository) RemoveTag(ctx context.Context, itemID, tagID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM item_tags WHERE item_id = ? AND tag_id = ?`, itemID, tagID)
	return wrapDBError("remove tag from item", err, domain.ItemNotFound)
}

func (r *itemRepository) ReplaceTags(ctx context.Context, itemID int64, tagIDs []int64) error {
	return withImmediateTx(ctx, r.db, func(conn *sql.Conn) error {
		var exists bool
		err := conn.QueryRowContext(ctx,
			`SELECT COUNT(*) > 0 FROM items WHERE id = ? AND is_deleted = 0`, itemID).Scan(&exists)
		if err != nil {
			return wrapDBError("check item exists", err, domain.ItemNotFound)
		}
		if !exists {
			return domain.New(domain.ItemNotFound, "item %d not found", itemID)
		}
		if _, err := conn.ExecContext(ctx, `DELETE FROM item_tags WHERE item_id = ?`, itemID); err != nil {
			return wrapDBError("replace tags: clear", err, domain.ItemNotFound)
		}
		for _, tagID := range tagIDs {
			if _, err := conn.ExecContext(ctx,
				`INSERT INTO item_tags (item_id, tag_id) VALUES (?, ?)`, itemID, tagID); err != nil {
				return wrapDBError("replace tags: insert", err, domain.ItemNotFound)
			}
		}
		return nil
	})
}

func (r *itemRepository) GetTagIDs(ctx context.Context, itemID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT tag_id FROM item_tags WHERE item_id = ?`, itemID)
	if err != nil {
		return nil, wrapDBError("get item tag ids", err, domain.ItemNotFound)
	}
	defer func() { _ = rows.Close() }()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, wrapDBError("scan tag id", err, domain.ItemNotFound)
		}
		ids = append(ids, id)
	}
	return ids, wrapDBError("iterate tag ids", rows.Err(), domain.ItemNotFound)
}

func (r *itemRepository) FindByItems(ctx context.Context, itemIDs []int64) (map[int64][]int64, error) {
	result := make(map[int64][]int64, len(itemIDs))
	for _, chunk := range chunkInt64s(itemIDs, chunkSize) {
		placeholders, args := inClause(chunk)
		rows, err := r.db.QueryContext(ctx,
			`SELECT item_id, tag_id FROM item_tags WHERE item_id IN (`+placeholders+`) ORDER BY item_id`, args...)
		if err != nil {
			return nil, wrapDBError("find tags by items", err, domain.ItemNotFound)
		}
		err = func() error {
			defer func() { _ = rows.Close() }()
			for rows.Next() {
				var itemID, tagID int64
				if err := rows.Scan(&itemID, &tagID); err != nil {
					return err
				}
				result[itemID] = append(result[itemID], tagID)
			}
			return rows.Err()
		}()
		if err != nil {
			return nil, wrapDBError("scan item tags", err, domain.ItemNotFound)
		}
	}
	return result, nil
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
