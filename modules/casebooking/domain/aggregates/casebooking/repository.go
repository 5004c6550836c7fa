package casebooking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/workflow"
)

var (
	ErrNotFound = errors.New("case booking not found")
	// ErrVersionConflict signals a concurrent update: the case changed since
	// it was read. Callers should re-read and retry.
	ErrVersionConflict = errors.New("case booking was modified concurrently")
)

type FindParams struct {
	Q          string
	Status     *workflow.Status
	Hospital   string
	Department string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]CaseBooking, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (CaseBooking, error)
	GetByRefNumber(ctx context.Context, refNumber string) (CaseBooking, error)
	// Create assigns the id and the country-sequenced reference number.
	Create(ctx context.Context, c CaseBooking) (CaseBooking, error)
	// Update compares-and-swaps on the version column and returns
	// ErrVersionConflict on a stale write.
	Update(ctx context.Context, c CaseBooking) (CaseBooking, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
