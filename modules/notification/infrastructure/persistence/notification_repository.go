package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/workflow"
	"github.com/transmedic-it-sg/tm-case-booking/modules/notification/domain/entities/notification"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/composables"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/repo"
)

type NotificationRepository struct{}

func NewNotificationRepository() notification.Repository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) List(ctx context.Context, params *notification.FindParams) ([]*notification.Notification, error) {
	if params == nil {
		params = &notification.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	country, err := composables.UseCountry(ctx)
	if err != nil {
		return nil, err
	}

	where := []string{"country = $1"}
	args := []interface{}{country}
	if params.Role != "" {
		where = append(where, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, string(params.Role))
	}
	if params.UnreadOnly {
		where = append(where, "read_at IS NULL")
	}

	query := `
		SELECT id, country, role, title, body, case_ref, read_at, created_at
		FROM notifications
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
	`
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " " + repo.FormatLimitOffset(limit, params.Offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to list notifications")
	}
	defer rows.Close()

	var results []*notification.Notification
	for rows.Next() {
		var n notification.Notification
		var role string
		if err := rows.Scan(&n.ID, &n.Country, &role, &n.Title, &n.Body, &n.CaseRef, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Role = workflow.Role(role)
		results = append(results, &n)
	}
	return results, rows.Err()
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO notifications (country, role, title, body, case_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		n.Country,
		string(n.Role),
		n.Title,
		n.Body,
		n.CaseRef,
		n.CreatedAt,
	).Scan(&n.ID); err != nil {
		return gerrors.Wrap(err, "failed to insert notification")
	}
	return nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	country, err := composables.UseCountry(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE notifications SET read_at = now()
		WHERE id = $1 AND country = $2 AND read_at IS NULL`,
		id, country,
	); err != nil {
		return gerrors.Wrap(err, "failed to mark notification read")
	}
	return nil
}
