package sqlite

import (
	"context"
	"database/sql"

	"github.com/constellation/core/internal/domain"
)

type tagTemplateRepository struct {
	db *sql.DB
}

func (r *tagTemplateRepository) loadTagIDs(ctx context.Context, conn dbQuerier, templateID int64) ([]int64, error) {
	rows, err := conn.QueryContext(ctx,
		`SELECT tag_id FROM template_tags WHERE template_id = ? ORDER BY tag_id`, templateID)
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

// dbQuerier abstracts over *sql.DB and *sql.Conn so loadTagIDs can run
// either standalone or inside a transaction.
type dbQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *tagTemplateRepository) Save(ctx context.Context, tmpl *domain.TagTemplate) (int64, error) {
	var id int64
	err := withImmediateTx(ctx, r.db, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, `INSERT INTO tag_templates (name) VALUES (?)`, tmpl.Name)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			return err
		}
		for _, tagID := range tmpl.TagIDs {
			if _, err := conn.ExecContext(ctx,
				`INSERT INTO template_tags (template_id, tag_id) VALUES (?, ?)`, id, tagID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, wrapDBError("save tag template", err, domain.TagTemplateNotFound)
	}
	tmpl.ID = id
	return id, nil
}

func (r *tagTemplateRepository) FindByID(ctx context.Context, id int64) (*domain.TagTemplate, error) {
	var (
		name      string
		createdAt int64
		updatedAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT name, created_at, updated_at FROM tag_templates WHERE id = ?`, id,
	).Scan(&name, &createdAt, &updatedAt)
	if err != nil {
		return nil, wrapDBError("find tag template by id", err, domain.TagTemplateNotFound)
	}
	tagIDs, err := r.loadTagIDs(ctx, r.db, id)
	if err != nil {
		return nil, wrapDBError("load tag template tags", err, domain.TagTemplateNotFound)
	}
	return &domain.TagTemplate{ID: id, Name: name, TagIDs: tagIDs, CreatedAt: createdAt, UpdatedAt: updatedAt}, nil
}

func (r *tagTemplateRepository) FindAll(ctx context.Context) ([]*domain.TagTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at, updated_at FROM tag_templates ORDER BY name`)
	if err != nil {
		return nil, wrapDBError("find all tag templates", err, domain.TagTemplateNotFound)
	}
	type row struct {
		id                   int64
		name                 string
		createdAt, updatedAt int64
	}
	var rs []row
	for rows.Next() {
		var rr row
		if err := rows.Scan(&rr.id, &rr.name, &rr.createdAt, &rr.updatedAt); err != nil {
			_ = rows.Close()
			return nil, wrapDBError("scan tag template row", err, domain.TagTemplateNotFound)
		}
		rs = append(rs, rr)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("iterate tag template rows", err, domain.TagTemplateNotFound)
	}

	out := make([]*domain.TagTemplate, 0, len(rs))
	for _, rr := range rs {
		tagIDs, err := r.loadTagIDs(ctx, r.db, rr.id)
		if err != nil {
			return nil, wrapDBError("load tag template tags", err, domain.TagTemplateNotFound)
		}
		out = append(out, &domain.TagTemplate{ID: rr.id, Name: rr.name, TagIDs: tagIDs, CreatedAt: rr.createdAt, UpdatedAt: rr.updatedAt})
	}
	return out, nil
}

func (r *tagTemplateRepository) Update(ctx context.Context, tmpl *domain.TagTemplate) error {
	return withImmediateTx(ctx, r.db, func(conn *sql.Conn) error {
		var exists bool
		if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) > 0 FROM tag_templates WHERE id = ?`, tmpl.ID).Scan(&exists); err != nil {
			return wrapDBError("check tag template exists", err, domain.TagTemplateNotFound)
		}
		if !exists {
			return domain.New(domain.TagTemplateNotFound, "tag template %d not found", tmpl.ID)
		}
		if _, err := conn.ExecContext(ctx,
			`UPDATE tag_templates SET name = ?, updated_at = unixepoch() WHERE id = ?`, tmpl.Name, tmpl.ID); err != nil {
			return wrapDBError("update tag template", err, domain.TagTemplateNotFound)
		}
		if _, err := conn.ExecContext(ctx, `DELETE FROM template_tags WHERE template_id = ?`, tmpl.ID); err != nil {
			return wrapDBError("update tag template: clear tags", err, domain.TagTemplateNotFound)
		}
		for _, tagID := range tmpl.TagIDs {
			if _, err := conn.ExecContext(ctx,
				`INSERT INTO template_tags (template_id, tag_id) VALUES (?, ?)`, tmpl.ID, tagID); err != nil {
				return wrapDBError("update tag template: insert tags", err, domain.TagTemplateNotFound)
			}
		}
		return nil
	})
}

func (r *tagTemplateRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tag_templates WHERE id = ?`, id)
	if err != nil {
		return wrapDBError("delete tag template", err, domain.TagTemplateNotFound)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDBError("delete tag template: rows affected", err, domain.TagTemplateNotFound)
	}
	if n == 0 {
		return domain.New(domain.TagTemplateNotFound, "tag template %d not found", id)
	}
	return nil
}
