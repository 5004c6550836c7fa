package workflow

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/attachment"
)

// Case is the minimal view of a case booking the engine needs. The aggregate
// satisfies it; tests can use any stub.
type Case interface {
	Status() Status
	IsAmended() bool
}

// Transition describes the side effects of one approved status change: the
// history entry to append and the status to apply. Nothing is mutated until
// the caller persists it.
type Transition struct {
	To          Status
	Actor       Actor
	At          time.Time
	Details     json.RawMessage
	Attachments []attachment.Descriptor
}

// FieldChange is one amended field with its previous and new value.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old_value"`
	New   string `json:"new_value"`
}

// AmendmentRecord describes the side effects of one approved amendment.
type AmendmentRecord struct {
	Actor   Actor
	At      time.Time
	Reason  string
	Changes []FieldChange
}

// Engine decides whether a requested status transition or amendment is legal
// for a given actor and case. It holds no mutable state and performs no I/O.
type Engine struct {
	oracle PermissionOracle
	now    func() time.Time
}

type Option func(*Engine)

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(oracle PermissionOracle, opts ...Option) *Engine {
	e := &Engine{
		oracle: oracle,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CanTransition is the pure predicate behind action-button rendering: true
// iff current→target exists in the transition table and the role is in the
// edge's allow-list. No side effects.
func (e *Engine) CanTransition(current, target Status, role Role) bool {
	return IsLegalTransition(current, target) && e.oracle.Allows(role, target)
}

// ChangeStatus validates the requested transition and, if legal, returns the
// Transition describing the history entry to append. All checks run before
// anything is produced, so a rejection leaves no partial state.
func (e *Engine) ChangeStatus(c Case, target Status, actor Actor, payload Payload, attachments []attachment.Descriptor) (Transition, error) {
	if !IsLegalTransition(c.Status(), target) {
		return Transition{}, ErrInvalidTransition.WithDetails(
			string(c.Status()) + " -> " + string(target))
	}
	if !e.oracle.Allows(actor.Role, target) {
		return Transition{}, ErrUnauthorized.WithDetails(
			"role " + string(actor.Role) + " may not move a case to " + string(target))
	}
	if err := validatePayloadFor(target, payload); err != nil {
		return Transition{}, err
	}

	details, err := EncodeDetails(payload)
	if err != nil {
		return Transition{}, err
	}
	return Transition{
		To:          target,
		Actor:       actor,
		At:          e.now(),
		Details:     details,
		Attachments: attachments,
	}, nil
}

// Amend validates a set of candidate field changes against the once-only
// rule and returns the AmendmentRecord holding only the fields that actually
// changed. Administrators bypass the once-only rule.
func (e *Engine) Amend(c Case, actor Actor, candidates []FieldChange, reason string) (AmendmentRecord, error) {
	if strings.TrimSpace(reason) == "" {
		return AmendmentRecord{}, ErrAmendmentReasonRequired
	}
	if c.IsAmended() && !actor.Role.IsAdmin() {
		return AmendmentRecord{}, ErrAlreadyAmended
	}

	changes := make([]FieldChange, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Old != candidate.New {
			changes = append(changes, candidate)
		}
	}
	if len(changes) == 0 {
		return AmendmentRecord{}, ErrNoChanges
	}

	return AmendmentRecord{
		Actor:   actor,
		At:      e.now(),
		Reason:  strings.TrimSpace(reason),
		Changes: changes,
	}, nil
}
