package mappers

import (
	"time"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/aggregates/casebooking"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/amendment"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/attachment"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/statushistory"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/presentation/viewmodels"
)

func CaseToViewModel(c casebooking.CaseBooking) *viewmodels.Case {
	boxes := make([]viewmodels.ImplantBox, 0, len(c.ImplantBoxes()))
	for _, box := range c.ImplantBoxes() {
		boxes = append(boxes, viewmodels.ImplantBox{Name: box.Name, Quantity: box.Quantity})
	}
	sets := c.SurgerySets()
	if sets == nil {
		sets = []string{}
	}
	return &viewmodels.Case{
		ID:                 c.ID().String(),
		RefNumber:          c.RefNumber(),
		Country:            c.Country(),
		Hospital:           c.Hospital(),
		Department:         c.Department(),
		DateOfSurgery:      c.DateOfSurgery().Format("2006-01-02"),
		ProcedureType:      c.ProcedureType(),
		ProcedureName:      c.ProcedureName(),
		DoctorName:         c.DoctorName(),
		TimeOfProcedure:    c.TimeOfProcedure(),
		SurgerySets:        sets,
		ImplantBoxes:       boxes,
		SpecialInstruction: c.SpecialInstruction(),
		Status:             string(c.Status()),
		IsAmended:          c.IsAmended(),
		SubmittedBy:        c.SubmittedBy(),
		Version:            c.Version(),
		CreatedAt:          c.CreatedAt().Format(time.RFC3339),
		UpdatedAt:          c.UpdatedAt().Format(time.RFC3339),
	}
}

func CasesToViewModels(cases []casebooking.CaseBooking, total int64) *viewmodels.CaseList {
	items := make([]*viewmodels.Case, 0, len(cases))
	for _, c := range cases {
		items = append(items, CaseToViewModel(c))
	}
	return &viewmodels.CaseList{Items: items, Total: total}
}

func AttachmentToViewModel(d attachment.Descriptor) viewmodels.Attachment {
	return viewmodels.Attachment{
		Name:     d.Name,
		MimeType: d.MimeType,
		Size:     d.Size,
		Payload:  d.Payload,
	}
}

func HistoryEntryToViewModel(entry *statushistory.Entry) *viewmodels.HistoryEntry {
	attachments := make([]viewmodels.Attachment, 0, len(entry.Attachments))
	for _, d := range entry.Attachments {
		attachments = append(attachments, AttachmentToViewModel(d))
	}
	return &viewmodels.HistoryEntry{
		ID:          entry.ID,
		Status:      string(entry.Status),
		ActorID:     entry.ActorID.String(),
		ActorName:   entry.ActorName,
		ActorRole:   string(entry.ActorRole),
		Details:     entry.Details,
		Attachments: attachments,
		CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
	}
}

func AmendmentToViewModel(entry *amendment.Entry) *viewmodels.Amendment {
	changes := make([]viewmodels.FieldChange, 0, len(entry.Changes))
	for _, change := range entry.Changes {
		changes = append(changes, viewmodels.FieldChange{
			Field: change.Field,
			Old:   change.Old,
			New:   change.New,
		})
	}
	return &viewmodels.Amendment{
		ID:        entry.ID,
		ActorID:   entry.ActorID.String(),
		ActorName: entry.ActorName,
		ActorRole: string(entry.ActorRole),
		Reason:    entry.Reason,
		Changes:   changes,
		Patch:     entry.Patch,
		CreatedAt: entry.CreatedAt.Format(time.RFC3339),
	}
}
