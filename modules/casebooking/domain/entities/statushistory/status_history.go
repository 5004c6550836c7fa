package statushistory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/attachment"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/workflow"
)

// Entry is one immutable record of a status transition. Created once per
// transition, never mutated or deleted.
type Entry struct {
	ID          uint
	CaseID      uuid.UUID
	Status      workflow.Status
	ActorID     uuid.UUID
	ActorName   string
	ActorRole   workflow.Role
	Details     json.RawMessage
	Attachments []attachment.Descriptor
	CreatedAt   time.Time
}

type FindParams struct {
	CaseID uuid.UUID
	Limit  int
	Offset int
}

type Repository interface {
	ListByCase(ctx context.Context, params *FindParams) ([]*Entry, error)
	Create(ctx context.Context, entry *Entry) error
}
