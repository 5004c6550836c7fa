package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, status := range AllStatuses {
		parsed, err := ParseStatus(string(status))
		require.NoError(t, err)
		require.Equal(t, status, parsed)
	}

	_, err := ParseStatus("Shipped")
	require.Error(t, err)
}

func TestParseStatus_LegacyAlias(t *testing.T) {
	parsed, err := ParseStatus("Preparing Order")
	require.NoError(t, err)
	require.Equal(t, StatusOrderPreparation, parsed)
}

func TestIsLegalTransition_CancellationFromAnyNonTerminal(t *testing.T) {
	for _, from := range AllStatuses {
		got := IsLegalTransition(from, StatusCaseCancelled)
		require.Equal(t, !from.IsTerminal(), got, "from=%s", from)
	}
}

func TestIsLegalTransition_TerminalStatesHaveNoEdges(t *testing.T) {
	for _, to := range AllStatuses {
		require.False(t, IsLegalTransition(StatusCaseClosed, to))
		require.False(t, IsLegalTransition(StatusCaseCancelled, to))
	}
}

func TestIsLegalTransition_LinearChain(t *testing.T) {
	chain := []Status{
		StatusCaseBooked,
		StatusOrderPreparation,
		StatusOrderPrepared,
		StatusPendingDeliveryHospital,
		StatusDeliveredHospital,
		StatusCaseCompleted,
		StatusPendingDeliveryOffice,
		StatusDeliveredOffice,
		StatusToBeBilled,
		StatusCaseClosed,
	}
	for i := 0; i < len(chain)-1; i++ {
		require.Truef(t, IsLegalTransition(chain[i], chain[i+1]), "%s -> %s", chain[i], chain[i+1])
	}
	// no skipping ahead
	require.False(t, IsLegalTransition(StatusCaseBooked, StatusOrderPrepared))
	require.False(t, IsLegalTransition(StatusDeliveredHospital, StatusPendingDeliveryOffice))
	// no going back
	require.False(t, IsLegalTransition(StatusOrderPrepared, StatusOrderPreparation))
}

func TestParseRole(t *testing.T) {
	for _, role := range AllRoles {
		parsed, err := ParseRole(string(role))
		require.NoError(t, err)
		require.Equal(t, role, parsed)
	}

	_, err := ParseRole("superuser")
	require.Error(t, err)
}
