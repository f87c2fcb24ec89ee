package sqlite

import (
	"context"
	"database/sql"

	"github.com/constellation/core/internal/domain"
)

type tagRepository struct {
	db *sql.DB
}

const tagColumns = `id, group_id, value, created_at, updated_at`

func scanTag(scan func(dest ...any) error) (*domain.Tag, error) {
	var (
		id        int64
		groupID   int64
		value     string
		createdAt int64
		updatedAt int64
	)
	if err := scan(&id, &groupID, &value, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	tv, err := domain.NewTagValue(value)
	if err != nil {
		tv = domain.InvalidTagValueValue()
	}
	return &domain.Tag{ID: id, GroupID: groupID, Value: tv, CreatedAt: createdAt, UpdatedAt: updatedAt}, nil
}

func collectTags(rows *sql.Rows) ([]*domain.Tag, error) {
	defer func() { _ = rows.Close() }()
	var out []*domain.Tag
	for rows.Next() {
		tag, err := scanTag(rows.Scan)
		if err != nil {
			return nil, wrapDBError("scan tag row", err, domain.TagNotFound)
		}
		out = append(out, tag)
	}
	return out, wrapDBError("iterate tag rows", rows.Err(), domain.TagNotFound)
}

func (r *tagRepository) Save(ctx context.Context, tag *domain.Tag) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tags (group_id, value) VALUES (?, ?)`, tag.GroupID, tag.Value.String())
	if err != nil {
		return 0, wrapDBError("save tag", err, domain.TagNotFound)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapDBError("save tag: last insert id", err, domain.TagNotFound)
	}
	tag.ID = id
	return id, nil
}

func (r *tagRepository) FindByID(ctx context.Context, id int64) (*domain.Tag, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = ?`, id)
	tag, err := scanTag(row.Scan)
	if err != nil {
		return nil, wrapDBError("find tag by id", err, domain.TagNotFound)
	}
	return tag, nil
}

func (r *tagRepository) FindByIDs(ctx context.Context, ids []int64) ([]*domain.Tag, error) {
	var out []*domain.Tag
	for _, chunk := range chunkInt64s(ids, chunkSize) {
		placeholders, args := inClause(chunk)
		rows, err := r.db.QueryContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE id IN (`+placeholders+`)`, args...)
		if err != nil {
			return nil, wrapDBError("find tags by ids", err, domain.TagNotFound)
		}
		tags, err := collectTags(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tags...)
	}
	return out, nil
}

func (r *tagRepository) FindByGroup(ctx context.Context, groupID int64) ([]*domain.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE group_id = ? ORDER BY value`, groupID)
	if err != nil {
		return nil, wrapDBError("find tags by group", err, domain.TagNotFound)
	}
	return collectTags(rows)
}

func (r *tagRepository) FindAll(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY group_id, value`)
	if err != nil {
		return nil, wrapDBError("find all tags", err, domain.TagNotFound)
	}
	return collectTags(rows)
}

func (r *tagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	return withImmediateTx(ctx, r.db, func(conn *sql.Conn) error {
		var exists bool
		if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) > 0 FROM tags WHERE id = ?`, tag.ID).Scan(&exists); err != nil {
			return wrapDBError("check tag exists", err, domain.TagNotFound)
		}
		if !exists {
			return domain.New(domain.TagNotFound, "tag %d not found", tag.ID)
		}
		_, err := conn.ExecContext(ctx,
			`UPDATE tags SET group_id = ?, value = ?, updated_at = unixepoch() WHERE id = ?`,
			tag.GroupID, tag.Value.String(), tag.ID)
		return wrapDBError("update tag", err, domain.TagNotFound)
	})
}

func (r *tagRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return wrapDBError("delete tag", err, domain.TagNotFound)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDBError("delete tag: rows affected", err, domain.TagNotFound)
	}
	if n == 0 {
		return domain.New(domain.TagNotFound, "tag %d not found", id)
	}
	return nil
}

func (r *tagRepository) Search(ctx context.Context, query string, groupID *int64) ([]*domain.Tag, error) {
	pattern := "%" + escapeLikePrefix(query) + "%"
	var (
		rows *sql.Rows
		err  error
	)
	if groupID != nil {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+tagColumns+` FROM tags WHERE value LIKE ? ESCAPE '\' AND group_id = ? ORDER BY value`,
			pattern, *groupID)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+tagColumns+` FROM tags WHERE value LIKE ? ESCAPE '\' ORDER BY value`, pattern)
	}
	if err != nil {
		return nil, wrapDBError("search tags", err, domain.TagNotFound)
	}
	return collectTags(rows)
}

func (r *tagRepository) GetUsageCounts(ctx context.Context) (map[int64]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tag_id, COUNT(*) FROM item_tags GROUP BY tag_id`)
	if err != nil {
		return nil, wrapDBError("get tag usage counts", err, domain.TagNotFound)
	}
	defer func() { _ = rows.Close() }()
	counts := make(map[int64]int64)
	for rows.Next() {
		var tagID, count int64
		if err := rows.Scan(&tagID, &count); err != nil {
			return nil, wrapDBError("scan tag usage count", err, domain.TagNotFound)
		}
		counts[tagID] = count
	}
	return counts, wrapDBError("iterate tag usage counts", rows.Err(), domain.TagNotFound)
}

func (r *tagRepository) FindByItem(ctx context.Context, itemID int64) ([]*domain.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.group_id, t.value, t.created_at, t.updated_at
		FROM tags t
		JOIN item_tags it ON it.tag_id = t.id
		WHERE it.item_id = ?
		ORDER BY t.value`, itemID)
	if err != nil {
		return nil, wrapDBError("find tags by item", err, domain.TagNotFound)
	}
	return collectTags(rows)
}

// ReassignItems merges sourceTagID into targetTagID: every item tagged with
// source that isn't already tagged with target is repointed to target, any
// that would collide is left alone (the collision is pre-deleted from
// source first), and source is then removed entirely. Grounded on
// sqlite_tag_repository.rs::reassign_items.
func (r *tagRepository) ReassignItems(ctx context.Context, sourceTagID, targetTagID int64) error {
	return withImmediateTx(ctx, r.db, func(conn *sql.Conn) error {
		// Drop source associations that would collide with an existing
		// target association before repointing the rest.
		if _, err := conn.ExecContext(ctx, `
			DELETE FROM item_tags
			WHERE tag_id = ? AND item_id IN (
				SELECT item_id FROM item_tags WHERE tag_id = ?
			)`, sourceTagID, targetTagID); err != nil {
			return wrapDBError("reassign tags: clear collisions", err, domain.TagNotFound)
		}

		if _, err := conn.ExecContext(ctx,
			`UPDATE item_tags SET tag_id = ? WHERE tag_id = ?`, targetTagID, sourceTagID); err != nil {
			return wrapDBError("reassign tags: repoint", err, domain.TagNotFound)
		}

		if _, err := conn.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, sourceTagID); err != nil {
			return wrapDBError("reassign tags: delete source", err, domain.TagNotFound)
		}
		return nil
	})
}
