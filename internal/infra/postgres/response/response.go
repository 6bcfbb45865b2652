package infra_postgres_response

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/pollcast/core/internal/model"
	"github.com/jmoiron/sqlx"
)

const (
	kindVote = "vote"
	kindWord = "word"
	kindText = "text"
)

// Driver keeps an append-only log of accepted responses. Aggregates are
// rebuilt from it when a presentation is loaded into memory.
type Driver struct {
	db *sqlx.DB
}

func New(
	db *sqlx.DB,
) *Driver {
	return &Driver{db: db}
}

type responseDTO struct {
	ID             uuid.UUID     `db:"id"`
	PresentationID uuid.UUID     `db:"presentation_id"`
	SlideID        uuid.UUID     `db:"slide_id"`
	MemberID       uuid.NullUUID `db:"member_id"`
	Kind           string        `db:"kind"`
	Body           string        `db:"body"`
	CreatedAt      time.Time     `db:"created_at"`
}

type voteBody struct {
	OptionIDs []uuid.UUID `json:"optionIds"`
}

type wordBody struct {
	Text string `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

func encode(p model.Payload) (string, string, error) {
	var (
		kind string
		body any
	)
	switch p := p.(type) {
	case model.Vote:
		kind, body = kindVote, voteBody{OptionIDs: p.OptionIDs}
	case model.Word:
		kind, body = kindWord, wordBody{Text: p.Text}
	case model.Text:
		kind, body = kindText, textBody{Body: p.Body}
	default:
		return "", "", fmt.Errorf("unsupported payload %T", p)
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", "", err
	}
	return kind, string(raw), nil
}

func decode(kind, raw string) (model.Payload, error) {
	switch kind {
	case kindVote:
		var b voteBody
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			return nil, err
		}
		return model.Vote{OptionIDs: b.OptionIDs}, nil
	case kindWord:
		var b wordBody
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			return nil, err
		}
		return model.Word{Text: b.Text}, nil
	case kindText:
		var b textBody
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			return nil, err
		}
		return model.Text{Body: b.Body}, nil
	}
	return nil, fmt.Errorf("unknown response kind %q", kind)
}

func (d *Driver) Append(ctx context.Context, r model.Response) error {
	kind, body, err := encode(r.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode response %s: %w", r.ID, err)
	}

	query := `
		INSERT INTO responses (id, presentation_id, slide_id, member_id, kind, body, created_at)
		VALUES (:id, :presentation_id, :slide_id, :member_id, :kind, :body, :created_at)
	`

	_, err = d.db.NamedExecContext(ctx, query, responseDTO{
		ID:             r.ID,
		PresentationID: r.PresentationID,
		SlideID:        r.SlideID,
		MemberID:       uuid.NullUUID{UUID: r.MemberID, Valid: r.MemberID != uuid.Nil},
		Kind:           kind,
		Body:           body,
		CreatedAt:      r.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert response: %w", err)
	}
	return nil
}

func (d *Driver) LoadResponses(ctx context.Context, presentationID uuid.UUID) ([]model.Response, error) {
	var rows []responseDTO

	query := d.db.Rebind(`
		SELECT id, presentation_id, slide_id, member_id, kind, body, created_at
		FROM responses
		WHERE presentation_id = ?
		ORDER BY created_at, id
	`)

	if err := d.db.SelectContext(ctx, &rows, query, presentationID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to select responses: %w", err)
	}

	responses := make([]model.Response, 0, len(rows))
	for _, row := range rows {
		payload, err := decode(row.Kind, row.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode response %s: %w", row.ID, err)
		}
		responses = append(responses, model.Response{
			ID:             row.ID,
			PresentationID: row.PresentationID,
			SlideID:        row.SlideID,
			MemberID:       row.MemberID.UUID,
			Payload:        payload,
			CreatedAt:      row.CreatedAt,
		})
	}
	return responses, nil
}
