package services

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/wI2L/jsondiff"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/aggregates/casebooking"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/amendment"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/attachment"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/statushistory"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/workflow"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/composables"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/eventbus"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/serrors"
)

var ErrValidation = serrors.NewError("VALIDATION_FAILED", "validation failed", "")

type CaseService struct {
	repo               casebooking.Repository
	historyRepo        statushistory.Repository
	amendmentRepo      amendment.Repository
	engine             *workflow.Engine
	publisher          eventbus.EventBus
	maxAttachmentBytes int64
}

func NewCaseService(
	repo casebooking.Repository,
	historyRepo statushistory.Repository,
	amendmentRepo amendment.Repository,
	engine *workflow.Engine,
	publisher eventbus.EventBus,
	maxAttachmentBytes int64,
) *CaseService {
	return &CaseService{
		repo:               repo,
		historyRepo:        historyRepo,
		amendmentRepo:      amendmentRepo,
		engine:             engine,
		publisher:          publisher,
		maxAttachmentBytes: maxAttachmentBytes,
	}
}

// Create books a new case. The booking starts in Case Booked and its history
// opens with one entry recording the submission.
func (s *CaseService) Create(ctx context.Context, dto *casebooking.CreateDTO) (casebooking.CaseBooking, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return casebooking.CaseBooking{}, err
	}
	country, err := composables.UseCountry(ctx)
	if err != nil {
		return casebooking.CaseBooking{}, err
	}
	if fieldErrors, ok := dto.Ok(); !ok {
		return casebooking.CaseBooking{}, validationError(fieldErrors)
	}

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (casebooking.CaseBooking, error) {
		entity, err := s.repo.Create(txCtx, dto.ToEntity(country, actor.Name))
		if err != nil {
			return casebooking.CaseBooking{}, err
		}
		entry := &statushistory.Entry{
			CaseID:    entity.ID(),
			Status:    entity.Status(),
			ActorID:   actor.ID,
			ActorName: actor.Name,
			ActorRole: actor.Role,
			CreatedAt: entity.CreatedAt(),
		}
		if err := s.historyRepo.Create(txCtx, entry); err != nil {
			return casebooking.CaseBooking{}, err
		}
		return entity, nil
	})
	if err != nil {
		return casebooking.CaseBooking{}, err
	}

	s.publisher.Publish(casebooking.NewCreatedEvent(actor, created))
	return created, nil
}

// ChangeStatus runs the requested transition through the workflow engine
// and, when approved, applies the new status and appends the history entry
// in one transaction.
func (s *CaseService) ChangeStatus(
	ctx context.Context,
	id uuid.UUID,
	target workflow.Status,
	payload workflow.Payload,
	attachments []attachment.Descriptor,
) (casebooking.CaseBooking, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return casebooking.CaseBooking{}, err
	}
	if err := attachment.ValidateAll(attachments, s.maxAttachmentBytes); err != nil {
		return casebooking.CaseBooking{}, err
	}

	var from workflow.Status
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (casebooking.CaseBooking, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return casebooking.CaseBooking{}, err
		}
		from = entity.Status()

		transition, err := s.engine.ChangeStatus(entity, target, actor, payload, attachments)
		if err != nil {
			return casebooking.CaseBooking{}, err
		}

		entity, err = s.repo.Update(txCtx, entity.WithStatus(transition.To))
		if err != nil {
			return casebooking.CaseBooking{}, err
		}
		entry := &statushistory.Entry{
			CaseID:      entity.ID(),
			Status:      transition.To,
			ActorID:     transition.Actor.ID,
			ActorName:   transition.Actor.Name,
			ActorRole:   transition.Actor.Role,
			Details:     transition.Details,
			Attachments: transition.Attachments,
			CreatedAt:   transition.At,
		}
		if err := s.historyRepo.Create(txCtx, entry); err != nil {
			return casebooking.CaseBooking{}, err
		}
		return entity, nil
	})
	if err != nil {
		return casebooking.CaseBooking{}, err
	}

	s.publisher.Publish(casebooking.NewStatusChangedEvent(actor, from, updated.Status(), updated))
	return updated, nil
}

// Amend applies field corrections to a booked case. The amendment entry keeps
// the field-level diff plus a JSON Patch of the whole snapshot for audit
// tooling.
func (s *CaseService) Amend(
	ctx context.Context,
	id uuid.UUID,
	updates map[string]string,
	reason string,
) (casebooking.CaseBooking, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return casebooking.CaseBooking{}, err
	}

	var record workflow.AmendmentRecord
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (casebooking.CaseBooking, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return casebooking.CaseBooking{}, err
		}

		candidates := make([]workflow.FieldChange, 0, len(updates))
		for field, newValue := range updates {
			oldValue, ok := entity.CurrentValue(field)
			if !ok {
				return casebooking.CaseBooking{}, serrors.NewError(
					"FIELD_NOT_AMENDABLE", "field cannot be amended", field)
			}
			candidates = append(candidates, workflow.FieldChange{
				Field: field,
				Old:   oldValue,
				New:   newValue,
			})
		}
		// Map iteration is unordered; sort so the recorded change list is stable.
		slices.SortFunc(candidates, func(a, b workflow.FieldChange) int {
			return strings.Compare(a.Field, b.Field)
		})

		record, err = s.engine.Amend(entity, actor, candidates, reason)
		if err != nil {
			return casebooking.CaseBooking{}, err
		}

		before := snapshot(entity)
		amended := entity.WithAmendment(record.Changes)
		patch, err := snapshotPatch(before, snapshot(amended))
		if err != nil {
			return casebooking.CaseBooking{}, err
		}

		amended, err = s.repo.Update(txCtx, amended)
		if err != nil {
			return casebooking.CaseBooking{}, err
		}
		entry := &amendment.Entry{
			CaseID:    amended.ID(),
			ActorID:   record.Actor.ID,
			ActorName: record.Actor.Name,
			ActorRole: record.Actor.Role,
			Reason:    record.Reason,
			Changes:   record.Changes,
			Patch:     patch,
			CreatedAt: record.At,
		}
		if err := s.amendmentRepo.Create(txCtx, entry); err != nil {
			return casebooking.CaseBooking{}, err
		}
		return amended, nil
	})
	if err != nil {
		return casebooking.CaseBooking{}, err
	}

	s.publisher.Publish(casebooking.NewAmendedEvent(actor, record.Reason, record.Changes, updated))
	return updated, nil
}

func (s *CaseService) GetByID(ctx context.Context, id uuid.UUID) (casebooking.CaseBooking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CaseService) GetByRefNumber(ctx context.Context, refNumber string) (casebooking.CaseBooking, error) {
	return s.repo.GetByRefNumber(ctx, refNumber)
}

func (s *CaseService) GetPaginated(ctx context.Context, params *casebooking.FindParams) ([]casebooking.CaseBooking, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

// Delete removes a booking outright. Administrators only; everyone else
// cancels through the workflow instead.
func (s *CaseService) Delete(ctx context.Context, id uuid.UUID) error {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return err
	}
	if !actor.Role.IsAdmin() {
		return workflow.ErrUnauthorized.WithDetails("only administrators may delete cases")
	}
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}

func (s *CaseService) History(ctx context.Context, caseID uuid.UUID) ([]*statushistory.Entry, error) {
	return s.historyRepo.ListByCase(ctx, &statushistory.FindParams{CaseID: caseID})
}

func (s *CaseService) Amendments(ctx context.Context, caseID uuid.UUID) ([]*amendment.Entry, error) {
	return s.amendmentRepo.ListByCase(ctx, &amendment.FindParams{CaseID: caseID})
}

// AvailableActions lists the statuses the acting user may move the case to
// right now. This is what drives action-button rendering.
func (s *CaseService) AvailableActions(ctx context.Context, id uuid.UUID) ([]workflow.Status, error) {
	actor, err := composables.UseActor(ctx)
	if err != nil {
		return nil, err
	}
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	targets := make([]workflow.Status, 0)
	for _, target := range workflow.AllStatuses {
		if s.engine.CanTransition(entity.Status(), target, actor.Role) {
			targets = append(targets, target)
		}
	}
	return targets, nil
}

// caseSnapshot is the amendable view of a booking used for the audit patch.
type caseSnapshot struct {
	Hospital           string `json:"hospital"`
	Department         string `json:"department"`
	DateOfSurgery      string `json:"date_of_surgery"`
	ProcedureType      string `json:"procedure_type"`
	ProcedureName      string `json:"procedure_name"`
	DoctorName         string `json:"doctor_name"`
	TimeOfProcedure    string `json:"time_of_procedure"`
	SpecialInstruction string `json:"special_instruction"`
}

func snapshot(c casebooking.CaseBooking) caseSnapshot {
	return caseSnapshot{
		Hospital:           c.Hospital(),
		Department:         c.Department(),
		DateOfSurgery:      c.DateOfSurgery().Format("2006-01-02"),
		ProcedureType:      c.ProcedureType(),
		ProcedureName:      c.ProcedureName(),
		DoctorName:         c.DoctorName(),
		TimeOfProcedure:    c.TimeOfProcedure(),
		SpecialInstruction: c.SpecialInstruction(),
	}
}

func snapshotPatch(before, after caseSnapshot) (json.RawMessage, error) {
	patch, err := jsondiff.Compare(before, after)
	if err != nil {
		return nil, err
	}
	if patch == nil {
		return nil, nil
	}
	return json.Marshal(patch)
}

func validationError(fieldErrors map[string]string) error {
	details := ""
	for _, message := range fieldErrors {
		if details != "" {
			details += "; "
		}
		details += message
	}
	return ErrValidation.WithDetails(details)
}
