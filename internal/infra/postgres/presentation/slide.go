package infra_postgres_presentation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
	"github.com/jmoiron/sqlx"
)

func (d *Driver) slides(ctx context.Context, presentationID uuid.UUID) ([]model.Slide, error) {
	var slideRows []slideDTO
	err := d.db.SelectContext(ctx, &slideRows, d.db.Rebind(`
		SELECT id, presentation_id, type, title, prompt, position, allow_multiple
		FROM slides
		WHERE presentation_id = ?
		ORDER BY position
	`), presentationID)
	if err != nil {
		return nil, fmt.Errorf("failed to select slides: %w", err)
	}

	var optionRows []optionDTO
	err = d.db.SelectContext(ctx, &optionRows, d.db.Rebind(`
		SELECT o.id, o.slide_id, o.text, o.is_correct, o.position
		FROM options o
		JOIN slides s ON s.id = o.slide_id
		WHERE s.presentation_id = ?
		ORDER BY o.slide_id, o.position
	`), presentationID)
	if err != nil {
		return nil, fmt.Errorf("failed to select options: %w", err)
	}

	options := make(map[uuid.UUID][]model.Option)
	for _, o := range optionRows {
		options[o.SlideID] = append(options[o.SlideID], model.Option{
			ID:        o.ID,
			Text:      o.Text,
			IsCorrect: o.IsCorrect,
		})
	}

	slides := make([]model.Slide, 0, len(slideRows))
	for _, row := range slideRows {
		slide := row.toDomain()
		slide.Options = options[slide.ID]
		slides = append(slides, slide)
	}
	return slides, nil
}

func (d *Driver) AddSlide(ctx context.Context, slide model.Slide) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.GetContext(ctx, &exists, tx.Rebind(`SELECT COUNT(*) FROM presentations WHERE id = ?`), slide.PresentationID)
	if err != nil {
		return fmt.Errorf("failed to check presentation: %w", err)
	}
	if exists == 0 {
		return model.ErrNotFound
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		UPDATE slides
		SET position = position + 1
		WHERE presentation_id = ? AND position >= ?
	`), slide.PresentationID, slide.Order)
	if err != nil {
		return fmt.Errorf("failed to shift slides: %w", err)
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO slides (id, presentation_id, type, title, prompt, position, allow_multiple)
		VALUES (:id, :presentation_id, :type, :title, :prompt, :position, :allow_multiple)
	`, fromSlide(slide))
	if err != nil {
		return fmt.Errorf("failed to insert slide: %w", err)
	}

	if err := upsertOptions(ctx, tx, slide); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *Driver) UpdateSlide(ctx context.Context, slide model.Slide) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.NamedExecContext(ctx, `
		UPDATE slides
		SET title = :title, prompt = :prompt, allow_multiple = :allow_multiple
		WHERE id = :id AND presentation_id = :presentation_id
	`, fromSlide(slide))
	if err != nil {
		return fmt.Errorf("failed to update slide: %w", err)
	}
	if err := expectAffected(res); err != nil {
		return err
	}

	if len(slide.Options) == 0 {
		_, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM options WHERE slide_id = ?`), slide.ID)
	} else {
		ids := make([]uuid.UUID, 0, len(slide.Options))
		for _, o := range slide.Options {
			ids = append(ids, o.ID)
		}
		var query string
		var args []interface{}
		query, args, err = sqlx.In(`DELETE FROM options WHERE slide_id = ? AND id NOT IN (?)`, slide.ID, ids)
		if err != nil {
			return fmt.Errorf("failed to build query: %w", err)
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(query), args...)
	}
	if err != nil {
		return fmt.Errorf("failed to drop options: %w", err)
	}

	if err := upsertOptions(ctx, tx, slide); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertOptions(ctx context.Context, tx *sqlx.Tx, slide model.Slide) error {
	query := `
		INSERT INTO options (id, slide_id, text, is_correct, position)
		VALUES (:id, :slide_id, :text, :is_correct, :position)
		ON CONFLICT (id) DO UPDATE
		SET text = excluded.text, is_correct = excluded.is_correct, position = excluded.position
	`

	for i, o := range slide.Options {
		_, err := tx.NamedExecContext(ctx, query, optionDTO{
			ID:        o.ID,
			SlideID:   slide.ID,
			Text:      o.Text,
			IsCorrect: o.IsCorrect,
			Position:  i,
		})
		if err != nil {
			return fmt.Errorf("failed to store option: %w", err)
		}
	}
	return nil
}

func (d *Driver) DeleteSlide(ctx context.Context, presentationID, slideID uuid.UUID) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var position int
	err = tx.GetContext(ctx, &position, tx.Rebind(`
		SELECT position FROM slides WHERE id = ? AND presentation_id = ?
	`), slideID, presentationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to get slide: %w", err)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM slides WHERE id = ?`), slideID); err != nil {
		return fmt.Errorf("failed to delete slide: %w", err)
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		UPDATE slides
		SET position = position - 1
		WHERE presentation_id = ? AND position > ?
	`), presentationID, position)
	if err != nil {
		return fmt.Errorf("failed to compact slides: %w", err)
	}
	return tx.Commit()
}

func (d *Driver) ReorderSlides(ctx context.Context, presentationID uuid.UUID, order []uuid.UUID) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := tx.Rebind(`UPDATE slides SET position = ? WHERE id = ? AND presentation_id = ?`)
	for position, id := range order {
		res, err := tx.ExecContext(ctx, query, position, id, presentationID)
		if err != nil {
			return fmt.Errorf("failed to move slide: %w", err)
		}
		if err := expectAffected(res); err != nil {
			return err
		}
	}
	return tx.Commit()
}
