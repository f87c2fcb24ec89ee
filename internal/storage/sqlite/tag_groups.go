package sqlite

import (
	"context"
	"database/sql"

	"github.com/constellation/core/internal/domain"
)

type tagGroupRepository struct {
	db *sql.DB
}

const tagGroupColumns = `id, name, color, display_order, created_at, updated_at`

func scanTagGroup(scan func(dest ...any) error) (*domain.TagGroup, error) {
	var (
		id           int64
		name         string
		color        sql.NullString
		displayOrder int32
		createdAt    int64
		updatedAt    int64
	)
	if err := scan(&id, &name, &color, &displayOrder, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	group := &domain.TagGroup{
		ID:           id,
		Name:         name,
		DisplayOrder: displayOrder,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
	if color.Valid {
		c, err := domain.NewColor(color.String)
		if err == nil {
			group.Color = &c
		}
	}
	return group, nil
}

func nullableColor(c *domain.Color) any {
	if c == nil {
		return nil
	}
	return c.String()
}

func (r *tagGroupRepository) Save(ctx context.Context, group *domain.TagGroup) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tag_groups (name, color, display_order) VALUES (?, ?, ?)`,
		group.Name, nullableColor(group.Color), group.DisplayOrder)
	if err != nil {
		return 0, wrapDBError("save tag group", err, domain.TagGroupNotFound)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapDBError("save tag group: last insert id", err, domain.TagGroupNotFound)
	}
	group.ID = id
	return id, nil
}

func (r *tagGroupRepository) FindByID(ctx context.Context, id int64) (*domain.TagGroup, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tagGroupColumns+` FROM tag_groups WHERE id = ?`, id)
	group, err := scanTagGroup(row.Scan)
	if err != nil {
		return nil, wrapDBError("find tag group by id", err, domain.TagGroupNotFound)
	}
	return group, nil
}

func (r *tagGroupRepository) FindAll(ctx context.Context) ([]*domain.TagGroup, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+tagGroupColumns+` FROM tag_groups ORDER BY display_order, id`)
	if err != nil {
		return nil, wrapDBError("find all tag groups", err, domain.TagGroupNotFound)
	}
	defer func() { _ = rows.Close() }()
	var out []*domain.TagGroup
	for rows.Next() {
		group, err := scanTagGroup(rows.Scan)
		if err != nil {
			return nil, wrapDBError("scan tag group row", err, domain.TagGroupNotFound)
		}
		out = append(out, group)
	}
	return out, wrapDBError("iterate tag group rows", rows.Err(), domain.TagGroupNotFound)
}

func (r *tagGroupRepository) Update(ctx context.Context, group *domain.TagGroup) error {
	return withImmediateTx(ctx, r.db, func(conn *sql.Conn) error {
		var exists bool
		if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) > 0 FROM tag_groups WHERE id = ?`, group.ID).Scan(&exists); err != nil {
			return wrapDBError("check tag group exists", err, domain.TagGroupNotFound)
		}
		if !exists {
			return domain.New(domain.TagGroupNotFound, "tag group %d not found", group.ID)
		}
		_, err := conn.ExecContext(ctx,
			`UPDATE tag_groups SET name = ?, color = ?, display_order = ?, updated_at = unixepoch() WHERE id = ?`,
			group.Name, nullableColor(group.Color), group.DisplayOrder, group.ID)
		return wrapDBError("update tag group", err, domain.TagGroupNotFound)
	})
}

func (r *tagGroupRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tag_groups WHERE id = ?`, id)
	if err != nil {
		return wrapDBError("delete tag group", err, domain.TagGroupNotFound)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDBError("delete tag group: rows affected", err, domain.TagGroupNotFound)
	}
	if n == 0 {
		return domain.New(domain.TagGroupNotFound, "tag group %d not found", id)
	}
	return nil
}

// Reorder assigns display_order sequentially by orderedIDs' position, all
// within one transaction so a crash never leaves groups partially
// reordered.
func (r *tagGroupRepository) Reorder(ctx context.Context, orderedIDs []int64) error {
	return withImmediateTx(ctx, r.db, func(conn *sql.Conn) error {
		for i, id := range orderedIDs {
			res, err := conn.ExecContext(ctx,
				`UPDATE tag_groups SET display_order = ?, updated_at = unixepoch() WHERE id = ?`, int32(i), id)
			if err != nil {
				return wrapDBError("reorder tag groups", err, domain.TagGroupNotFound)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return wrapDBError("reorder tag groups: rows affected", err, domain.TagGroupNotFound)
			}
			if n == 0 {
				return domain.New(domain.TagGroupNotFound, "tag group %d not found", id)
			}
		}
		return nil
	})
}
