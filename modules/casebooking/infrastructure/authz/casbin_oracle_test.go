package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/workflow"
)

func TestCasbinOracle_MatchesTableOracle(t *testing.T) {
	casbinOracle, err := NewCasbinOracle()
	require.NoError(t, err)
	tableOracle := workflow.NewTableOracle()

	for _, status := range workflow.AllStatuses {
		for _, role := range workflow.AllRoles {
			require.Equalf(t,
				tableOracle.Allows(role, status),
				casbinOracle.Allows(role, status),
				"role=%s status=%s", role, status,
			)
		}
	}
}

func TestCasbinOracle_DeniesUnknownRole(t *testing.T) {
	oracle, err := NewCasbinOracle()
	require.NoError(t, err)
	require.False(t, oracle.Allows(workflow.Role("intruder"), workflow.StatusCaseClosed))
}
