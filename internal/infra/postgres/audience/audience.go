package infra_postgres_audience

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
	"github.com/jmoiron/sqlx"
)

type Driver struct {
	db *sqlx.DB
}

func New(
	db *sqlx.DB,
) *Driver {
	return &Driver{db: db}
}

type memberDTO struct {
	ID             uuid.UUID `db:"id"`
	PresentationID uuid.UUID `db:"presentation_id"`
	Name           string    `db:"name"`
	JoinedAt       time.Time `db:"joined_at"`
}

func (d *Driver) Join(ctx context.Context, member model.AudienceMember) error {
	query := `
		INSERT INTO audience_members (id, presentation_id, name, joined_at)
		VALUES (:id, :presentation_id, :name, :joined_at)
	`

	_, err := d.db.NamedExecContext(ctx, query, memberDTO{
		ID:             member.ID,
		PresentationID: member.PresentationID,
		Name:           member.Name,
		JoinedAt:       member.JoinedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert audience member: %w", err)
	}
	return nil
}

func (d *Driver) Leave(ctx context.Context, presentationID, memberID uuid.UUID) error {
	query := d.db.Rebind(`DELETE FROM audience_members WHERE id = ? AND presentation_id = ?`)

	res, err := d.db.ExecContext(ctx, query, memberID, presentationID)
	if err != nil {
		return fmt.Errorf("failed to delete audience member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (d *Driver) List(ctx context.Context, presentationID uuid.UUID) ([]model.AudienceMember, error) {
	var rows []memberDTO

	query := d.db.Rebind(`
		SELECT id, presentation_id, name, joined_at
		FROM audience_members
		WHERE presentation_id = ?
		ORDER BY joined_at
	`)

	if err := d.db.SelectContext(ctx, &rows, query, presentationID); err != nil {
		return nil, fmt.Errorf("failed to list audience: %w", err)
	}

	members := make([]model.AudienceMember, 0, len(rows))
	for _, row := range rows {
		members = append(members, model.AudienceMember{
			ID:             row.ID,
			Name:           row.Name,
			JoinedAt:       row.JoinedAt,
			PresentationID: row.PresentationID,
		})
	}
	return members, nil
}

func (d *Driver) Count(ctx context.Context, presentationID uuid.UUID) (int, error) {
	var n int
	query := d.db.Rebind(`SELECT COUNT(*) FROM audience_members WHERE presentation_id = ?`)
	if err := d.db.GetContext(ctx, &n, query, presentationID); err != nil {
		return 0, fmt.Errorf("failed to count audience: %w", err)
	}
	return n, nil
}

// Clear removes everyone; the presentation ended.
func (d *Driver) Clear(ctx context.Context, presentationID uuid.UUID) error {
	query := d.db.Rebind(`DELETE FROM audience_members WHERE presentation_id = ?`)
	if _, err := d.db.ExecContext(ctx, query, presentationID); err != nil {
		return fmt.Errorf("failed to clear audience: %w", err)
	}
	return nil
}
