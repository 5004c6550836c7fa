package persistence

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/amendment"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/infrastructure/persistence/models"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/composables"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/repo"
)

type AmendmentRepository struct{}

func NewAmendmentRepository() amendment.Repository {
	return &AmendmentRepository{}
}

func (r *AmendmentRepository) ListByCase(ctx context.Context, params *amendment.FindParams) ([]*amendment.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, case_id::text, actor_id::text, actor_name, actor_role,
			reason, changes, patch, created_at
		FROM case_amendments
		WHERE case_id = $1
		ORDER BY created_at ASC, id ASC
	`
	if params.Limit > 0 {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, params.CaseID.String())
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to list amendments")
	}
	defer rows.Close()

	var entries []*amendment.Entry
	for rows.Next() {
		var row models.Amendment
		if err := rows.Scan(
			&row.ID,
			&row.CaseID,
			&row.ActorID,
			&row.ActorName,
			&row.ActorRole,
			&row.Reason,
			&row.Changes,
			&row.Patch,
			&row.CreatedAt,
		); err != nil {
			return nil, err
		}
		entry, err := toDomainAmendment(&row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *AmendmentRepository) Create(ctx context.Context, entry *amendment.Entry) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	row, err := toDBAmendment(entry)
	if err != nil {
		return err
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO case_amendments (
			case_id, actor_id, actor_name, actor_role,
			reason, changes, patch, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		row.CaseID,
		row.ActorID,
		row.ActorName,
		row.ActorRole,
		row.Reason,
		row.Changes,
		row.Patch,
		row.CreatedAt,
	).Scan(&entry.ID); err != nil {
		return gerrors.Wrap(err, "failed to insert amendment entry")
	}
	return nil
}
