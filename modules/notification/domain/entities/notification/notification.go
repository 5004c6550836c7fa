package notification

import (
	"context"
	"time"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/workflow"
)

// Notification is one in-app message addressed to every user holding Role in
// the case's country.
type Notification struct {
	ID        uint
	Country   string
	Role      workflow.Role
	Title     string
	Body      string
	CaseRef   string
	ReadAt    *time.Time
	CreatedAt time.Time
}

func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

type FindParams struct {
	Role       workflow.Role
	UnreadOnly bool
	Limit      int
	Offset     int
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]*Notification, error)
	Create(ctx context.Context, n *Notification) error
	MarkRead(ctx context.Context, id uint) error
}
