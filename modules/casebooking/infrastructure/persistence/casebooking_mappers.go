package persistence

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/aggregates/casebooking"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/amendment"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/attachment"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/statushistory"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/workflow"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/infrastructure/persistence/models"
)

func toDBCaseBooking(c casebooking.CaseBooking) (*models.CaseBooking, error) {
	surgerySets, err := json.Marshal(c.SurgerySets())
	if err != nil {
		return nil, err
	}
	implantBoxes, err := json.Marshal(c.ImplantBoxes())
	if err != nil {
		return nil, err
	}
	return &models.CaseBooking{
		ID:                 c.ID().String(),
		RefNumber:          c.RefNumber(),
		Country:            c.Country(),
		Hospital:           c.Hospital(),
		Department:         c.Department(),
		DateOfSurgery:      c.DateOfSurgery(),
		ProcedureType:      c.ProcedureType(),
		ProcedureName:      c.ProcedureName(),
		DoctorName:         c.DoctorName(),
		TimeOfProcedure:    c.TimeOfProcedure(),
		SurgerySets:        surgerySets,
		ImplantBoxes:       implantBoxes,
		SpecialInstruction: c.SpecialInstruction(),
		Status:             string(c.Status()),
		IsAmended:          c.IsAmended(),
		SubmittedBy:        c.SubmittedBy(),
		Version:            c.Version(),
		CreatedAt:          c.CreatedAt(),
		UpdatedAt:          c.UpdatedAt(),
	}, nil
}

func toDomainCaseBooking(row *models.CaseBooking) (casebooking.CaseBooking, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return casebooking.CaseBooking{}, err
	}
	status, err := workflow.ParseStatus(row.Status)
	if err != nil {
		return casebooking.CaseBooking{}, err
	}
	var surgerySets []string
	if len(row.SurgerySets) > 0 {
		if err := json.Unmarshal(row.SurgerySets, &surgerySets); err != nil {
			return casebooking.CaseBooking{}, err
		}
	}
	var implantBoxes []casebooking.ImplantBox
	if len(row.ImplantBoxes) > 0 {
		if err := json.Unmarshal(row.ImplantBoxes, &implantBoxes); err != nil {
			return casebooking.CaseBooking{}, err
		}
	}
	return casebooking.Hydrate(
		id,
		row.RefNumber,
		row.Country,
		row.Hospital,
		row.Department,
		row.DateOfSurgery,
		row.ProcedureType,
		row.ProcedureName,
		row.DoctorName,
		row.TimeOfProcedure,
		surgerySets,
		implantBoxes,
		row.SpecialInstruction,
		status,
		row.IsAmended,
		row.SubmittedBy,
		row.Version,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}

func toDBStatusHistory(entry *statushistory.Entry) (*models.StatusHistory, error) {
	attachments, err := json.Marshal(entry.Attachments)
	if err != nil {
		return nil, err
	}
	return &models.StatusHistory{
		ID:          entry.ID,
		CaseID:      entry.CaseID.String(),
		Status:      string(entry.Status),
		ActorID:     entry.ActorID.String(),
		ActorName:   entry.ActorName,
		ActorRole:   string(entry.ActorRole),
		Details:     entry.Details,
		Attachments: attachments,
		CreatedAt:   entry.CreatedAt,
	}, nil
}

func toDomainStatusHistory(row *models.StatusHistory) (*statushistory.Entry, error) {
	caseID, err := uuid.Parse(row.CaseID)
	if err != nil {
		return nil, err
	}
	actorID := uuid.Nil
	if row.ActorID != "" {
		actorID, err = uuid.Parse(row.ActorID)
		if err != nil {
			return nil, err
		}
	}
	var attachments []attachment.Descriptor
	if len(row.Attachments) > 0 {
		if err := json.Unmarshal(row.Attachments, &attachments); err != nil {
			return nil, err
		}
	}
	return &statushistory.Entry{
		ID:          row.ID,
		CaseID:      caseID,
		Status:      workflow.Status(row.Status),
		ActorID:     actorID,
		ActorName:   row.ActorName,
		ActorRole:   workflow.Role(row.ActorRole),
		Details:     row.Details,
		Attachments: attachments,
		CreatedAt:   row.CreatedAt,
	}, nil
}

func toDBAmendment(entry *amendment.Entry) (*models.Amendment, error) {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return nil, err
	}
	return &models.Amendment{
		ID:        entry.ID,
		CaseID:    entry.CaseID.String(),
		ActorID:   entry.ActorID.String(),
		ActorName: entry.ActorName,
		ActorRole: string(entry.ActorRole),
		Reason:    entry.Reason,
		Changes:   changes,
		Patch:     entry.Patch,
		CreatedAt: entry.CreatedAt,
	}, nil
}

func toDomainAmendment(row *models.Amendment) (*amendment.Entry, error) {
	caseID, err := uuid.Parse(row.CaseID)
	if err != nil {
		return nil, err
	}
	actorID := uuid.Nil
	if row.ActorID != "" {
		actorID, err = uuid.Parse(row.ActorID)
		if err != nil {
			return nil, err
		}
	}
	var changes []workflow.FieldChange
	if len(row.Changes) > 0 {
		if err := json.Unmarshal(row.Changes, &changes); err != nil {
			return nil, err
		}
	}
	return &amendment.Entry{
		ID:        row.ID,
		CaseID:    caseID,
		ActorID:   actorID,
		ActorName: row.ActorName,
		ActorRole: workflow.Role(row.ActorRole),
		Reason:    row.Reason,
		Changes:   changes,
		Patch:     row.Patch,
		CreatedAt: row.CreatedAt,
	}, nil
}
