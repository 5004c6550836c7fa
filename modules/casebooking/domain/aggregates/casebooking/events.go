package casebooking

import (
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/workflow"
)

type CreatedEvent struct {
	Actor  workflow.Actor
	Result CaseBooking
}

func NewCreatedEvent(actor workflow.Actor, result CaseBooking) *CreatedEvent {
	return &CreatedEvent{Actor: actor, Result: result}
}

type StatusChangedEvent struct {
	Actor  workflow.Actor
	From   workflow.Status
	To     workflow.Status
	Result CaseBooking
}

func NewStatusChangedEvent(actor workflow.Actor, from, to workflow.Status, result CaseBooking) *StatusChangedEvent {
	return &StatusChangedEvent{Actor: actor, From: from, To: to, Result: result}
}

type AmendedEvent struct {
	Actor   workflow.Actor
	Reason  string
	Changes []workflow.FieldChange
	Result  CaseBooking
}

func NewAmendedEvent(actor workflow.Actor, reason string, changes []workflow.FieldChange, result CaseBooking) *AmendedEvent {
	return &AmendedEvent{Actor: actor, Reason: reason, Changes: changes, Result: result}
}
