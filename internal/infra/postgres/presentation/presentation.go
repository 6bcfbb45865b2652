package infra_postgres_presentation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const pqUniqueViolation = "23505"

// Driver stores presentations with their slides and options. Queries use
// "?" placeholders rebound for the connected driver, so both Postgres and
// SQLite work.
type Driver struct {
	db *sqlx.DB
}

func New(
	db *sqlx.DB,
) *Driver {
	return &Driver{db: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE")
	}
	return false
}

func (d *Driver) Create(ctx context.Context, p model.Presentation) error {
	query := `
		INSERT INTO presentations (id, title, description, is_active, access_code, created_by, created_at, updated_at, ended_at)
		VALUES (:id, :title, :description, :is_active, :access_code, :created_by, :created_at, :updated_at, :ended_at)
	`

	_, err := d.db.NamedExecContext(ctx, query, fromPresentation(p))
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrConflict
		}
		return fmt.Errorf("failed to insert presentation: %w", err)
	}
	return nil
}

func (d *Driver) List(ctx context.Context) ([]model.Presentation, error) {
	return d.list(ctx, "")
}

// ListActive returns presentations currently open to the audience.
func (d *Driver) ListActive(ctx context.Context) ([]model.Presentation, error) {
	return d.list(ctx, "WHERE is_active = ?", true)
}

func (d *Driver) ListByPresenter(ctx context.Context, createdBy string) ([]model.Presentation, error) {
	return d.list(ctx, "WHERE created_by = ?", createdBy)
}

// list returns presentations without slides, newest first.
func (d *Driver) list(ctx context.Context, where string, args ...any) ([]model.Presentation, error) {
	var rows []presentationDTO

	query := d.db.Rebind(`
		SELECT id, title, description, is_active, access_code, created_by, created_at, updated_at, ended_at
		FROM presentations
		` + where + `
		ORDER BY created_at DESC
	`)

	if err := d.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list presentations: %w", err)
	}

	ps := make([]model.Presentation, 0, len(rows))
	for _, row := range rows {
		ps = append(ps, row.toDomain())
	}
	return ps, nil
}

func (d *Driver) LoadPresentation(ctx context.Context, id uuid.UUID) (model.Presentation, error) {
	var row presentationDTO

	query := d.db.Rebind(`
		SELECT id, title, description, is_active, access_code, created_by, created_at, updated_at, ended_at
		FROM presentations
		WHERE id = ?
	`)

	if err := d.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Presentation{}, model.ErrNotFound
		}
		return model.Presentation{}, fmt.Errorf("failed to get presentation: %w", err)
	}

	p := row.toDomain()
	slides, err := d.slides(ctx, id)
	if err != nil {
		return model.Presentation{}, err
	}
	p.Slides = slides
	return p, nil
}

func (d *Driver) ByAccessCode(ctx context.Context, code string) (model.Presentation, error) {
	var row presentationDTO

	query := d.db.Rebind(`
		SELECT id, title, description, is_active, access_code, created_by, created_at, updated_at, ended_at
		FROM presentations
		WHERE access_code = ? AND is_active = ?
	`)

	if err := d.db.GetContext(ctx, &row, query, code, true); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Presentation{}, model.ErrNotFound
		}
		return model.Presentation{}, fmt.Errorf("failed to get presentation by code: %w", err)
	}
	return row.toDomain(), nil
}

func (d *Driver) Update(ctx context.Context, p model.Presentation) error {
	query := `
		UPDATE presentations
		SET title = :title, description = :description, is_active = :is_active,
			access_code = :access_code, updated_at = :updated_at, ended_at = :ended_at
		WHERE id = :id
	`

	res, err := d.db.NamedExecContext(ctx, query, fromPresentation(p))
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrConflict
		}
		return fmt.Errorf("failed to update presentation: %w", err)
	}
	return expectAffected(res)
}

func (d *Driver) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := d.db.ExecContext(ctx, d.db.Rebind(`DELETE FROM presentations WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete presentation: %w", err)
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}
