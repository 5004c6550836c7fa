package persistence

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/statushistory"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/infrastructure/persistence/models"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/composables"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/repo"
)

type StatusHistoryRepository struct{}

func NewStatusHistoryRepository() statushistory.Repository {
	return &StatusHistoryRepository{}
}

func (r *StatusHistoryRepository) ListByCase(ctx context.Context, params *statushistory.FindParams) ([]*statushistory.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, case_id::text, status, actor_id::text, actor_name, actor_role,
			details, attachments, created_at
		FROM case_status_history
		WHERE case_id = $1
		ORDER BY created_at ASC, id ASC
	`
	if params.Limit > 0 {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, params.CaseID.String())
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to list status history")
	}
	defer rows.Close()

	var entries []*statushistory.Entry
	for rows.Next() {
		var row models.StatusHistory
		if err := rows.Scan(
			&row.ID,
			&row.CaseID,
			&row.Status,
			&row.ActorID,
			&row.ActorName,
			&row.ActorRole,
			&row.Details,
			&row.Attachments,
			&row.CreatedAt,
		); err != nil {
			return nil, err
		}
		entry, err := toDomainStatusHistory(&row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *StatusHistoryRepository) Create(ctx context.Context, entry *statushistory.Entry) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	row, err := toDBStatusHistory(entry)
	if err != nil {
		return err
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO case_status_history (
			case_id, status, actor_id, actor_name, actor_role,
			details, attachments, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		row.CaseID,
		row.Status,
		row.ActorID,
		row.ActorName,
		row.ActorRole,
		row.Details,
		row.Attachments,
		row.CreatedAt,
	).Scan(&entry.ID); err != nil {
		return gerrors.Wrap(err, "failed to insert status history entry")
	}
	return nil
}
