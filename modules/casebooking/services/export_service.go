package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/aggregates/casebooking"
)

const exportSheet = "Cases"

var exportHeader = []string{
	"Ref Number", "Country", "Hospital", "Department", "Date of Surgery",
	"Procedure Type", "Procedure Name", "Doctor", "Time", "Surgery Sets",
	"Implant Boxes", "Status", "Amended", "Submitted By", "Created At",
}

// ExportService renders case listings as an Excel workbook for the weekly
// operations report.
type ExportService struct {
	repo casebooking.Repository
}

func NewExportService(repo casebooking.Repository) *ExportService {
	return &ExportService{repo: repo}
}

// ExportCases writes every case matching params into a single-sheet workbook
// and returns the serialized file.
func (s *ExportService) ExportCases(ctx context.Context, params *casebooking.FindParams) ([]byte, error) {
	if params == nil {
		params = &casebooking.FindParams{}
	}
	if params.Limit <= 0 {
		params.Limit = 10000
	}
	cases, _, err := s.repo.GetPaginated(ctx, params)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	for i, c := range cases {
		row := []interface{}{
			c.RefNumber(),
			c.Country(),
			c.Hospital(),
			c.Department(),
			c.DateOfSurgery().Format("2006-01-02"),
			c.ProcedureType(),
			c.ProcedureName(),
			c.DoctorName(),
			c.TimeOfProcedure(),
			strings.Join(c.SurgerySets(), ", "),
			formatImplantBoxes(c.ImplantBoxes()),
			string(c.Status()),
			c.IsAmended(),
			c.SubmittedBy(),
			c.CreatedAt().Format("2006-01-02 15:04"),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatImplantBoxes(boxes []casebooking.ImplantBox) string {
	parts := make([]string, 0, len(boxes))
	for _, box := range boxes {
		parts = append(parts, fmt.Sprintf("%s x%d", box.Name, box.Quantity))
	}
	return strings.Join(parts, ", ")
}
