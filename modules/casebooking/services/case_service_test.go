package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/aggregates/casebooking"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/amendment"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/attachment"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/statushistory"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/workflow"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/composables"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/constants"
)

const maxAttachmentBytes = 5 * 1024 * 1024

func opsActor() workflow.Actor {
	return workflow.Actor{ID: uuid.New(), Name: "ops.user", Role: workflow.RoleOperations}
}

func salesActor() workflow.Actor {
	return workflow.Actor{ID: uuid.New(), Name: "sales.user", Role: workflow.RoleSales}
}

// serviceCtx wires a fake ambient transaction so InTx joins it instead of
// reaching for a pool.
func serviceCtx(actor workflow.Actor) context.Context {
	ctx := composables.WithCountry(context.Background(), "SG")
	ctx = composables.WithActor(ctx, actor)
	return context.WithValue(ctx, constants.TxKey, struct{ fake string }{"tx"})
}

func bookedCase(id uuid.UUID, status workflow.Status) casebooking.CaseBooking {
	now := time.Now()
	return casebooking.Hydrate(
		id, "TM-SG-000001", "SG", "General Hospital", "Orthopedics",
		now.AddDate(0, 0, 7), "Knee Replacement", "Total Knee Arthroplasty",
		"Dr. Tan", "09:00", []string{"Set A"}, nil, "", status, false,
		"sales.user", 1, now, now,
	)
}

func newService(
	repo *mockCaseRepo,
	historyRepo *mockHistoryRepo,
	amendmentRepo *mockAmendmentRepo,
	publisher *mockPublisher,
) *CaseService {
	engine := workflow.NewEngine(workflow.NewTableOracle())
	return NewCaseService(repo, historyRepo, amendmentRepo, engine, publisher, maxAttachmentBytes)
}

func TestCaseService_Create_PersistsCaseAndOpeningHistoryEntry(t *testing.T) {
	actor := salesActor()
	repo := &mockCaseRepo{}
	historyRepo := &mockHistoryRepo{}
	publisher := &mockPublisher{}
	svc := newService(repo, historyRepo, &mockAmendmentRepo{}, publisher)

	dto := &casebooking.CreateDTO{
		Hospital:      "General Hospital",
		Department:    "Orthopedics",
		DateOfSurgery: "2026-09-15",
		ProcedureType: "Knee Replacement",
		ProcedureName: "Total Knee Arthroplasty",
	}
	created, err := svc.Create(serviceCtx(actor), dto)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusCaseBooked, created.Status())
	require.Equal(t, "SG", created.Country())

	require.Len(t, historyRepo.created, 1)
	require.Equal(t, workflow.StatusCaseBooked, historyRepo.created[0].Status)
	require.Equal(t, actor.Name, historyRepo.created[0].ActorName)

	require.Len(t, publisher.published, 1)
	event, ok := publisher.published[0].(*casebooking.CreatedEvent)
	require.True(t, ok)
	require.Equal(t, actor, event.Actor)
}

func TestCaseService_Create_RejectsInvalidDTO(t *testing.T) {
	svc := newService(&mockCaseRepo{}, &mockHistoryRepo{}, &mockAmendmentRepo{}, &mockPublisher{})

	_, err := svc.Create(serviceCtx(salesActor()), &casebooking.CreateDTO{Hospital: "General Hospital"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCaseService_ChangeStatus_AppliesTransitionAndAppendsHistory(t *testing.T) {
	id := uuid.New()
	actor := opsActor()
	repo := &mockCaseRepo{entity: bookedCase(id, workflow.StatusCaseBooked)}
	historyRepo := &mockHistoryRepo{}
	publisher := &mockPublisher{}
	svc := newService(repo, historyRepo, &mockAmendmentRepo{}, publisher)

	updated, err := svc.ChangeStatus(
		serviceCtx(actor), id, workflow.StatusOrderPreparation,
		workflow.CommentPayload{Comments: "picking sets"}, nil,
	)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusOrderPreparation, updated.Status())
	require.NotNil(t, repo.updated)

	require.Len(t, historyRepo.created, 1)
	entry := historyRepo.created[0]
	require.Equal(t, workflow.StatusOrderPreparation, entry.Status)
	require.NotEmpty(t, entry.Details)

	require.Len(t, publisher.published, 1)
	event, ok := publisher.published[0].(*casebooking.StatusChangedEvent)
	require.True(t, ok)
	require.Equal(t, workflow.StatusCaseBooked, event.From)
	require.Equal(t, workflow.StatusOrderPreparation, event.To)
}

func TestCaseService_ChangeStatus_RejectedTransitionLeavesNothingBehind(t *testing.T) {
	id := uuid.New()
	repo := &mockCaseRepo{entity: bookedCase(id, workflow.StatusCaseBooked)}
	historyRepo := &mockHistoryRepo{}
	publisher := &mockPublisher{}
	svc := newService(repo, historyRepo, &mockAmendmentRepo{}, publisher)

	// Drivers may not start order preparation.
	driver := workflow.Actor{ID: uuid.New(), Name: "driver.user", Role: workflow.RoleDriver}
	_, err := svc.ChangeStatus(serviceCtx(driver), id, workflow.StatusOrderPreparation, nil, nil)
	require.ErrorIs(t, err, workflow.ErrUnauthorized)
	require.Nil(t, repo.updated)
	require.Empty(t, historyRepo.created)
	require.Empty(t, publisher.published)
}

func TestCaseService_ChangeStatus_RejectsOversizedAttachment(t *testing.T) {
	id := uuid.New()
	repo := &mockCaseRepo{entity: bookedCase(id, workflow.StatusCaseBooked)}
	svc := newService(repo, &mockHistoryRepo{}, &mockAmendmentRepo{}, &mockPublisher{})

	big := attachment.New("dump.bin", make([]byte, maxAttachmentBytes+1))
	_, err := svc.ChangeStatus(
		serviceCtx(opsActor()), id, workflow.StatusOrderPreparation,
		nil, []attachment.Descriptor{big},
	)
	require.Error(t, err)
	require.Nil(t, repo.updated)
}

func TestCaseService_Amend_RecordsDiffAndPatch(t *testing.T) {
	id := uuid.New()
	actor := salesActor()
	repo := &mockCaseRepo{entity: bookedCase(id, workflow.StatusCaseBooked)}
	amendmentRepo := &mockAmendmentRepo{}
	publisher := &mockPublisher{}
	svc := newService(repo, &mockHistoryRepo{}, amendmentRepo, publisher)

	amended, err := svc.Amend(serviceCtx(actor), id,
		map[string]string{casebooking.FieldHospital: "Mount Hope"},
		"hospital changed venue",
	)
	require.NoError(t, err)
	require.True(t, amended.IsAmended())
	require.Equal(t, "Mount Hope", amended.Hospital())

	require.Len(t, amendmentRepo.created, 1)
	entry := amendmentRepo.created[0]
	require.Equal(t, "hospital changed venue", entry.Reason)
	require.Equal(t, []workflow.FieldChange{
		{Field: casebooking.FieldHospital, Old: "General Hospital", New: "Mount Hope"},
	}, entry.Changes)
	require.NotEmpty(t, entry.Patch)

	require.Len(t, publisher.published, 1)
	_, ok := publisher.published[0].(*casebooking.AmendedEvent)
	require.True(t, ok)
}

func TestCaseService_Amend_ChangesOrderedByFieldName(t *testing.T) {
	id := uuid.New()
	repo := &mockCaseRepo{entity: bookedCase(id, workflow.StatusCaseBooked)}
	amendmentRepo := &mockAmendmentRepo{}
	svc := newService(repo, &mockHistoryRepo{}, amendmentRepo, &mockPublisher{})

	_, err := svc.Amend(serviceCtx(salesActor()), id,
		map[string]string{
			casebooking.FieldHospital:   "Mount Hope",
			casebooking.FieldDoctorName: "Dr. Lee",
			casebooking.FieldDepartment: "Cardiology",
		},
		"surgeon and venue changed",
	)
	require.NoError(t, err)

	require.Len(t, amendmentRepo.created, 1)
	require.Equal(t, []workflow.FieldChange{
		{Field: casebooking.FieldDepartment, Old: "Orthopedics", New: "Cardiology"},
		{Field: casebooking.FieldDoctorName, Old: "Dr. Tan", New: "Dr. Lee"},
		{Field: casebooking.FieldHospital, Old: "General Hospital", New: "Mount Hope"},
	}, amendmentRepo.created[0].Changes)
}

func TestCaseService_Amend_FailedTransactionPublishesNothing(t *testing.T) {
	id := uuid.New()
	repo := &mockCaseRepo{entity: bookedCase(id, workflow.StatusCaseBooked)}
	amendmentRepo := &mockAmendmentRepo{createErr: errors.New("insert failed")}
	publisher := &mockPublisher{}
	svc := newService(repo, &mockHistoryRepo{}, amendmentRepo, publisher)

	_, err := svc.Amend(serviceCtx(salesActor()), id,
		map[string]string{casebooking.FieldHospital: "Mount Hope"}, "venue change")
	require.Error(t, err)
	require.Empty(t, publisher.published)
}

func TestCaseService_Amend_SecondAmendmentRejectedForNonAdmins(t *testing.T) {
	id := uuid.New()
	entity := bookedCase(id, workflow.StatusCaseBooked).
		WithAmendment([]workflow.FieldChange{{Field: casebooking.FieldDoctorName, Old: "Dr. Tan", New: "Dr. Lee"}})
	repo := &mockCaseRepo{entity: entity}
	svc := newService(repo, &mockHistoryRepo{}, &mockAmendmentRepo{}, &mockPublisher{})

	_, err := svc.Amend(serviceCtx(salesActor()), id,
		map[string]string{casebooking.FieldHospital: "Mount Hope"}, "venue change")
	require.ErrorIs(t, err, workflow.ErrAlreadyAmended)
}

func TestCaseService_Amend_UnknownFieldRejected(t *testing.T) {
	id := uuid.New()
	repo := &mockCaseRepo{entity: bookedCase(id, workflow.StatusCaseBooked)}
	svc := newService(repo, &mockHistoryRepo{}, &mockAmendmentRepo{}, &mockPublisher{})

	_, err := svc.Amend(serviceCtx(salesActor()), id,
		map[string]string{"ref_number": "TM-SG-999999"}, "renumber")
	require.Error(t, err)
	require.Nil(t, repo.updated)
}

func TestCaseService_Delete_AdminOnly(t *testing.T) {
	id := uuid.New()
	repo := &mockCaseRepo{entity: bookedCase(id, workflow.StatusCaseBooked)}
	svc := newService(repo, &mockHistoryRepo{}, &mockAmendmentRepo{}, &mockPublisher{})

	err := svc.Delete(serviceCtx(salesActor()), id)
	require.ErrorIs(t, err, workflow.ErrUnauthorized)

	admin := workflow.Actor{ID: uuid.New(), Name: "admin.user", Role: workflow.RoleAdmin}
	require.NoError(t, svc.Delete(serviceCtx(admin), id))
	require.True(t, repo.deleted)
}

func TestCaseService_AvailableActions_ReflectsRoleAndStatus(t *testing.T) {
	id := uuid.New()
	repo := &mockCaseRepo{entity: bookedCase(id, workflow.StatusCaseBooked)}
	svc := newService(repo, &mockHistoryRepo{}, &mockAmendmentRepo{}, &mockPublisher{})

	actions, err := svc.AvailableActions(serviceCtx(opsActor()), id)
	require.NoError(t, err)
	require.ElementsMatch(t, []workflow.Status{
		workflow.StatusOrderPreparation,
		workflow.StatusCaseCancelled,
	}, actions)

	actions, err = svc.AvailableActions(serviceCtx(salesActor()), id)
	require.NoError(t, err)
	require.Empty(t, actions)
}

type mockCaseRepo struct {
	entity  casebooking.CaseBooking
	updated *casebooking.CaseBooking
	deleted bool
}

func (m *mockCaseRepo) GetPaginated(ctx context.Context, params *casebooking.FindParams) ([]casebooking.CaseBooking, int64, error) {
	return []casebooking.CaseBooking{m.entity}, 1, nil
}

func (m *mockCaseRepo) GetByID(ctx context.Context, id uuid.UUID) (casebooking.CaseBooking, error) {
	if m.entity.IsZero() {
		return casebooking.CaseBooking{}, casebooking.ErrNotFound
	}
	return m.entity, nil
}

func (m *mockCaseRepo) GetByRefNumber(ctx context.Context, refNumber string) (casebooking.CaseBooking, error) {
	return m.entity, nil
}

func (m *mockCaseRepo) Create(ctx context.Context, c casebooking.CaseBooking) (casebooking.CaseBooking, error) {
	now := time.Now()
	created := casebooking.Hydrate(
		uuid.New(), "TM-SG-000001", c.Country(), c.Hospital(), c.Department(),
		c.DateOfSurgery(), c.ProcedureType(), c.ProcedureName(), c.DoctorName(),
		c.TimeOfProcedure(), c.SurgerySets(), c.ImplantBoxes(), c.SpecialInstruction(),
		c.Status(), c.IsAmended(), c.SubmittedBy(), 1, now, now,
	)
	m.entity = created
	return created, nil
}

func (m *mockCaseRepo) Update(ctx context.Context, c casebooking.CaseBooking) (casebooking.CaseBooking, error) {
	m.updated = &c
	m.entity = c
	return c, nil
}

func (m *mockCaseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.deleted = true
	return nil
}

type mockHistoryRepo struct {
	created []*statushistory.Entry
}

func (m *mockHistoryRepo) ListByCase(ctx context.Context, params *statushistory.FindParams) ([]*statushistory.Entry, error) {
	return m.created, nil
}

func (m *mockHistoryRepo) Create(ctx context.Context, entry *statushistory.Entry) error {
	m.created = append(m.created, entry)
	return nil
}

type mockAmendmentRepo struct {
	created   []*amendment.Entry
	createErr error
}

func (m *mockAmendmentRepo) ListByCase(ctx context.Context, params *amendment.FindParams) ([]*amendment.Entry, error) {
	return m.created, nil
}

func (m *mockAmendmentRepo) Create(ctx context.Context, entry *amendment.Entry) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, entry)
	return nil
}

type mockPublisher struct {
	published []interface{}
}

func (m *mockPublisher) Publish(args ...interface{}) {
	m.published = append(m.published, args...)
}

func (m *mockPublisher) Subscribe(handler interface{})   {}
func (m *mockPublisher) Unsubscribe(handler interface{}) {}
func (m *mockPublisher) Clear()                          {}
func (m *mockPublisher) SubscribersCount() int           { return 0 }
