package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/attachment"
)

type stubCase struct {
	status  Status
	amended bool
}

func (c stubCase) Status() Status  { return c.status }
func (c stubCase) IsAmended() bool { return c.amended }

func fixedClock() func() time.Time {
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func newTestEngine() *Engine {
	return NewEngine(NewTableOracle(), WithClock(fixedClock()))
}

func TestCanTransition_TableAndAllowListAgree(t *testing.T) {
	engine := newTestEngine()

	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			for _, role := range AllRoles {
				expected := IsLegalTransition(from, to) && NewTableOracle().Allows(role, to)
				got := engine.CanTransition(from, to, role)
				require.Equalf(t, expected, got, "from=%s to=%s role=%s", from, to, role)
			}
		}
	}
}

func TestChangeStatus_OperationsMayStartPreparation(t *testing.T) {
	engine := newTestEngine()
	actor := Actor{Name: "Alice", Role: RoleOperations}

	tr, err := engine.ChangeStatus(stubCase{status: StatusCaseBooked}, StatusOrderPreparation, actor, nil, nil)
	require.NoError(t, err)
	require.Equal(t, StatusOrderPreparation, tr.To)
	require.Equal(t, actor, tr.Actor)
	require.False(t, tr.At.IsZero())
	require.Nil(t, tr.Details)
}

func TestChangeStatus_DriverMayNotStartPreparation(t *testing.T) {
	engine := newTestEngine()
	actor := Actor{Name: "Dave", Role: RoleDriver}

	_, err := engine.ChangeStatus(stubCase{status: StatusCaseBooked}, StatusOrderPreparation, actor, nil, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestChangeStatus_OnlyDeclaredSuccessorsSucceed(t *testing.T) {
	engine := newTestEngine()
	admin := Actor{Name: "root", Role: RoleAdmin}

	for _, from := range AllStatuses {
		legal := map[Status]bool{}
		for _, next := range Successors(from) {
			legal[next] = true
		}
		if !from.IsTerminal() {
			legal[StatusCaseCancelled] = true
		}
		for _, to := range AllStatuses {
			payload := payloadFor(to)
			_, err := engine.ChangeStatus(stubCase{status: from}, to, admin, payload, nil)
			if legal[to] {
				require.NoErrorf(t, err, "from=%s to=%s", from, to)
			} else {
				require.ErrorIsf(t, err, ErrInvalidTransition, "from=%s to=%s", from, to)
			}
		}
	}
}

// payloadFor supplies the mandatory payload for statuses that demand one.
func payloadFor(target Status) Payload {
	switch target {
	case StatusCaseCompleted:
		return CompletionPayload{OrderSummary: "2 sets used", DONumber: "DO-1001"}
	case StatusCaseCancelled:
		return CancellationPayload{Reason: "surgery postponed"}
	default:
		return nil
	}
}

func TestChangeStatus_TerminalStatesHaveNoSuccessors(t *testing.T) {
	engine := newTestEngine()
	admin := Actor{Name: "root", Role: RoleAdmin}

	for _, terminal := range []Status{StatusCaseClosed, StatusCaseCancelled} {
		for _, to := range AllStatuses {
			_, err := engine.ChangeStatus(stubCase{status: terminal}, to, admin, payloadFor(to), nil)
			require.ErrorIsf(t, err, ErrInvalidTransition, "from=%s to=%s", terminal, to)
		}
	}
}

func TestChangeStatus_CompletionRequiresSummaryAndDONumber(t *testing.T) {
	engine := newTestEngine()
	actor := Actor{Name: "Sam", Role: RoleSales}
	current := stubCase{status: StatusDeliveredHospital}

	_, err := engine.ChangeStatus(current, StatusCaseCompleted, actor, nil, nil)
	require.ErrorIs(t, err, ErrMissingRequiredField)

	_, err = engine.ChangeStatus(current, StatusCaseCompleted, actor,
		CompletionPayload{OrderSummary: "", DONumber: ""}, nil)
	require.ErrorIs(t, err, ErrMissingRequiredField)

	_, err = engine.ChangeStatus(current, StatusCaseCompleted, actor,
		CompletionPayload{OrderSummary: "all sets returned", DONumber: ""}, nil)
	require.ErrorIs(t, err, ErrMissingRequiredField)

	tr, err := engine.ChangeStatus(current, StatusCaseCompleted, actor,
		CompletionPayload{OrderSummary: "all sets returned", DONumber: "DO-2044"}, nil)
	require.NoError(t, err)
	require.Equal(t, StatusCaseCompleted, tr.To)
	require.NotEmpty(t, tr.Details)
}

func TestChangeStatus_CancellationRequiresReason(t *testing.T) {
	engine := newTestEngine()
	actor := Actor{Name: "Olga", Role: RoleOperationsManager}

	_, err := engine.ChangeStatus(stubCase{status: StatusOrderPrepared}, StatusCaseCancelled, actor,
		CancellationPayload{Reason: "  "}, nil)
	require.ErrorIs(t, err, ErrMissingRequiredField)

	tr, err := engine.ChangeStatus(stubCase{status: StatusOrderPrepared}, StatusCaseCancelled, actor,
		CancellationPayload{Reason: "hospital cancelled the procedure"}, nil)
	require.NoError(t, err)
	require.Equal(t, StatusCaseCancelled, tr.To)
}

func TestChangeStatus_SalesApprovalBranchIsOptional(t *testing.T) {
	engine := newTestEngine()

	require.True(t, engine.CanTransition(StatusOrderPrepared, StatusSalesApproval, RoleSalesManager))
	require.True(t, engine.CanTransition(StatusOrderPrepared, StatusPendingDeliveryHospital, RoleDriver))
	require.True(t, engine.CanTransition(StatusSalesApproval, StatusPendingDeliveryHospital, RoleDriver))
}

func TestChangeStatus_CarriesAttachments(t *testing.T) {
	engine := newTestEngine()
	actor := Actor{Name: "Alice", Role: RoleOperations}
	doc := attachment.New("packing-list.txt", []byte("2x basic set\n1x implant box"))

	tr, err := engine.ChangeStatus(stubCase{status: StatusOrderPreparation}, StatusOrderPrepared, actor,
		OrderPreparedPayload{ProcessDetails: "packed and sterilized"}, []attachment.Descriptor{doc})
	require.NoError(t, err)
	require.Len(t, tr.Attachments, 1)
	require.Equal(t, "packing-list.txt", tr.Attachments[0].Name)

	payload, err := DecodeDetails(tr.Details)
	require.NoError(t, err)
	prepared, ok := payload.(*OrderPreparedPayload)
	require.True(t, ok)
	require.Equal(t, "packed and sterilized", prepared.ProcessDetails)
}

func TestAmend_ReasonRequired(t *testing.T) {
	engine := newTestEngine()
	admin := Actor{Name: "root", Role: RoleAdmin}

	_, err := engine.Amend(stubCase{status: StatusCaseBooked}, admin,
		[]FieldChange{{Field: "hospital", Old: "General", New: "New Hospital"}}, "")
	require.ErrorIs(t, err, ErrAmendmentReasonRequired)

	_, err = engine.Amend(stubCase{status: StatusCaseBooked}, admin,
		[]FieldChange{{Field: "hospital", Old: "General", New: "New Hospital"}}, "   ")
	require.ErrorIs(t, err, ErrAmendmentReasonRequired)
}

func TestAmend_OnceOnlyRuleWithAdminBypass(t *testing.T) {
	engine := newTestEngine()
	changes := []FieldChange{{Field: "hospital", Old: "General", New: "Mount Hope"}}

	_, err := engine.Amend(stubCase{amended: true}, Actor{Name: "Sam", Role: RoleSales}, changes, "typo in hospital")
	require.ErrorIs(t, err, ErrAlreadyAmended)

	record, err := engine.Amend(stubCase{amended: true}, Actor{Name: "root", Role: RoleAdmin}, changes, "typo in hospital")
	require.NoError(t, err)
	require.Len(t, record.Changes, 1)
}

func TestAmend_FiltersUnchangedFields(t *testing.T) {
	engine := newTestEngine()
	actor := Actor{Name: "Olga", Role: RoleOperationsManager}

	record, err := engine.Amend(stubCase{}, actor, []FieldChange{
		{Field: "hospital", Old: "General", New: "General"},
		{Field: "doctor_name", Old: "Dr. Ng", New: "Dr. Tan"},
	}, "doctor reassigned")
	require.NoError(t, err)
	require.Len(t, record.Changes, 1)
	require.Equal(t, "doctor_name", record.Changes[0].Field)

	_, err = engine.Amend(stubCase{}, actor, []FieldChange{
		{Field: "hospital", Old: "General", New: "General"},
	}, "nothing really changed")
	require.ErrorIs(t, err, ErrNoChanges)
}
