package persistence

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/amendment"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/statushistory"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/workflow"
)

func TestStatusHistoryRepository_ListByCase_MapsRows(t *testing.T) {
	caseID := uuid.New()
	actorID := uuid.New()
	now := time.Now()

	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			require.Contains(t, sql, "FROM case_status_history")
			require.Contains(t, sql, "ORDER BY created_at ASC")
			require.Equal(t, caseID.String(), args[0])
			return &stubRows{data: [][]any{
				{
					uint(1), caseID.String(), string(workflow.StatusOrderPreparation),
					actorID.String(), "ops.user", string(workflow.RoleOperations),
					[]byte(`{"kind":"comment","payload":{"comments":"picking sets"}}`),
					[]byte(`[]`), now,
				},
			}}, nil
		},
	}

	repo := NewStatusHistoryRepository()
	entries, err := repo.ListByCase(testCtx(tx), &statushistory.FindParams{CaseID: caseID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, caseID, entries[0].CaseID)
	require.Equal(t, workflow.StatusOrderPreparation, entries[0].Status)
	require.Equal(t, workflow.RoleOperations, entries[0].ActorRole)

	payload, err := workflow.DecodeDetails(entries[0].Details)
	require.NoError(t, err)
	require.Equal(t, &workflow.CommentPayload{Comments: "picking sets"}, payload)
}

func TestStatusHistoryRepository_Create_AssignsIDAndTimestamp(t *testing.T) {
	caseID := uuid.New()
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "INSERT INTO case_status_history")
			require.Equal(t, caseID.String(), args[0])
			require.Equal(t, string(workflow.StatusDeliveredHospital), args[1])
			require.IsType(t, time.Time{}, args[7])
			return stubRow{scan: func(dest ...any) error {
				*dest[0].(*uint) = 7
				return nil
			}}
		},
	}

	entry := &statushistory.Entry{
		CaseID:    caseID,
		Status:    workflow.StatusDeliveredHospital,
		ActorID:   uuid.New(),
		ActorName: "driver.user",
		ActorRole: workflow.RoleDriver,
	}
	repo := NewStatusHistoryRepository()
	require.NoError(t, repo.Create(testCtx(tx), entry))
	require.Equal(t, uint(7), entry.ID)
	require.False(t, entry.CreatedAt.IsZero())
}

func TestAmendmentRepository_ListByCase_MapsRows(t *testing.T) {
	caseID := uuid.New()
	actorID := uuid.New()
	now := time.Now()
	changes, err := json.Marshal([]workflow.FieldChange{
		{Field: "hospital", Old: "A", New: "B"},
	})
	require.NoError(t, err)

	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			require.Contains(t, sql, "FROM case_amendments")
			require.Equal(t, caseID.String(), args[0])
			return &stubRows{data: [][]any{
				{
					uint(3), caseID.String(), actorID.String(), "sales.user",
					string(workflow.RoleSales), "hospital changed venue",
					changes, []byte(`[{"op":"replace","path":"/hospital","value":"B"}]`), now,
				},
			}}, nil
		},
	}

	repo := NewAmendmentRepository()
	entries, err := repo.ListByCase(testCtx(tx), &amendment.FindParams{CaseID: caseID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "hospital changed venue", entries[0].Reason)
	require.Equal(t, []workflow.FieldChange{{Field: "hospital", Old: "A", New: "B"}}, entries[0].Changes)
	require.NotEmpty(t, entries[0].Patch)
}

func TestAmendmentRepository_Create_AssignsID(t *testing.T) {
	caseID := uuid.New()
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "INSERT INTO case_amendments")
			require.Equal(t, caseID.String(), args[0])
			require.Equal(t, "wrong date keyed in", args[4])
			return stubRow{scan: func(dest ...any) error {
				*dest[0].(*uint) = 12
				return nil
			}}
		},
	}

	entry := &amendment.Entry{
		CaseID:    caseID,
		ActorID:   uuid.New(),
		ActorName: "sales.user",
		ActorRole: workflow.RoleSales,
		Reason:    "wrong date keyed in",
		Changes:   []workflow.FieldChange{{Field: "date_of_surgery", Old: "2026-09-10", New: "2026-09-12"}},
	}
	repo := NewAmendmentRepository()
	require.NoError(t, repo.Create(testCtx(tx), entry))
	require.Equal(t, uint(12), entry.ID)
	require.False(t, entry.CreatedAt.IsZero())
}
