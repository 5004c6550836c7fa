package models

import "time"

type CaseBooking struct {
	ID                 string
	RefNumber          string
	Country            string
	Hospital           string
	Department         string
	DateOfSurgery      time.Time
	ProcedureType      string
	ProcedureName      string
	DoctorName         string
	TimeOfProcedure    string
	SurgerySets        []byte
	ImplantBoxes       []byte
	SpecialInstruction string
	Status             string
	IsAmended          bool
	SubmittedBy        string
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type StatusHistory struct {
	ID          uint
	CaseID      string
	Status      string
	ActorID     string
	ActorName   string
	ActorRole   string
	Details     []byte
	Attachments []byte
	CreatedAt   time.Time
}

type Amendment struct {
	ID        uint
	CaseID    string
	ActorID   string
	ActorName string
	ActorRole string
	Reason    string
	Changes   []byte
	Patch     []byte
	CreatedAt time.Time
}
