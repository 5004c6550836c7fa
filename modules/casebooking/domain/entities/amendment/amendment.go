package amendment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/workflow"
)

// Entry is one immutable record of an amendment: who changed what, and why.
// Patch holds a JSON Patch of the case snapshot before and after, for audit
// tooling; Changes is the authoritative field-level diff.
type Entry struct {
	ID        uint
	CaseID    uuid.UUID
	ActorID   uuid.UUID
	ActorName string
	ActorRole workflow.Role
	Reason    string
	Changes   []workflow.FieldChange
	Patch     json.RawMessage
	CreatedAt time.Time
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
