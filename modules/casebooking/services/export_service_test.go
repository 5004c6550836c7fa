package services

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/workflow"
)

func TestExportService_ExportCases_WritesWorkbook(t *testing.T) {
	repo := &mockCaseRepo{entity: bookedCase(uuid.New(), workflow.StatusOrderPrepared)}
	svc := NewExportService(repo)

	data, err := svc.ExportCases(serviceCtx(opsActor()), nil)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, exportHeader[0], rows[0][0])
	require.Equal(t, "TM-SG-000001", rows[1][0])
	require.Equal(t, string(workflow.StatusOrderPrepared), rows[1][11])
}
