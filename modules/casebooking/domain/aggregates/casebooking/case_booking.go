package casebooking

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/workflow"
)

// ImplantBox is one requested implant box with its quantity.
type ImplantBox struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// CaseBooking is one surgical-equipment request tracked through the
// workflow. The status field is mutated exclusively through the workflow
// engine; descriptive fields only through amendments.
type CaseBooking struct {
	id                 uuid.UUID
	refNumber          string
	country            string
	hospital           string
	department         string
	dateOfSurgery      time.Time
	procedureType      string
	procedureName      string
	doctorName         string
	timeOfProcedure    string
	surgerySets        []string
	implantBoxes       []ImplantBox
	specialInstruction string
	status             workflow.Status
	isAmended          bool
	submittedBy        string
	version            int64
	createdAt          time.Time
	updatedAt          time.Time
}

// New creates a fresh booking in Case Booked. The reference number is
// assigned by the repository at insert.
func New(
	country string,
	hospital string,
	department string,
	dateOfSurgery time.Time,
	procedureType string,
	procedureName string,
	doctorName string,
	timeOfProcedure string,
	surgerySets []string,
	implantBoxes []ImplantBox,
	specialInstruction string,
	submittedBy string,
) CaseBooking {
	return CaseBooking{
		country:            strings.ToUpper(strings.TrimSpace(country)),
		hospital:           strings.TrimSpace(hospital),
		department:         strings.TrimSpace(department),
		dateOfSurgery:      dateOfSurgery,
		procedureType:      strings.TrimSpace(procedureType),
		procedureName:      strings.TrimSpace(procedureName),
		doctorName:         strings.TrimSpace(doctorName),
		timeOfProcedure:    strings.TrimSpace(timeOfProcedure),
		surgerySets:        surgerySets,
		implantBoxes:       implantBoxes,
		specialInstruction: strings.TrimSpace(specialInstruction),
		status:             workflow.StatusCaseBooked,
		submittedBy:        strings.TrimSpace(submittedBy),
	}
}

func Hydrate(
	id uuid.UUID,
	refNumber string,
	country string,
	hospital string,
	department string,
	dateOfSurgery time.Time,
	procedureType string,
	procedureName string,
	doctorName string,
	timeOfProcedure string,
	surgerySets []string,
	implantBoxes []ImplantBox,
	specialInstruction string,
	status workflow.Status,
	isAmended bool,
	submittedBy string,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) CaseBooking {
	return CaseBooking{
		id:                 id,
		refNumber:          refNumber,
		country:            country,
		hospital:           hospital,
		department:         department,
		dateOfSurgery:      dateOfSurgery,
		procedureType:      procedureType,
		procedureName:      procedureName,
		doctorName:         doctorName,
		timeOfProcedure:    timeOfProcedure,
		surgerySets:        surgerySets,
		implantBoxes:       implantBoxes,
		specialInstruction: specialInstruction,
		status:             status,
		isAmended:          isAmended,
		submittedBy:        submittedBy,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

func (c CaseBooking) ID() uuid.UUID              { return c.id }
func (c CaseBooking) RefNumber() string          { return c.refNumber }
func (c CaseBooking) Country() string            { return c.country }
func (c CaseBooking) Hospital() string           { return c.hospital }
func (c CaseBooking) Department() string         { return c.department }
func (c CaseBooking) DateOfSurgery() time.Time   { return c.dateOfSurgery }
func (c CaseBooking) ProcedureType() string      { return c.procedureType }
func (c CaseBooking) ProcedureName() string      { return c.procedureName }
func (c CaseBooking) DoctorName() string         { return c.doctorName }
func (c CaseBooking) TimeOfProcedure() string    { return c.timeOfProcedure }
func (c CaseBooking) SurgerySets() []string      { return c.surgerySets }
func (c CaseBooking) ImplantBoxes() []ImplantBox { return c.implantBoxes }
func (c CaseBooking) SpecialInstruction() string { return c.specialInstruction }
func (c CaseBooking) Status() workflow.Status    { return c.status }
func (c CaseBooking) IsAmended() bool            { return c.isAmended }
func (c CaseBooking) SubmittedBy() string        { return c.submittedBy }
func (c CaseBooking) Version() int64             { return c.version }
func (c CaseBooking) CreatedAt() time.Time       { return c.createdAt }
func (c CaseBooking) UpdatedAt() time.Time       { return c.updatedAt }

func (c CaseBooking) IsZero() bool {
	return c.id == uuid.Nil && c.refNumber == ""
}

// WithStatus returns a copy of the booking in the given status.
func (c CaseBooking) WithStatus(status workflow.Status) CaseBooking {
	c.status = status
	return c
}

// Amendable field names, matching the FieldChange.Field values the
// amendment flow accepts.
const (
	FieldHospital           = "hospital"
	FieldDepartment         = "department"
	FieldDateOfSurgery      = "date_of_surgery"
	FieldProcedureType      = "procedure_type"
	FieldProcedureName      = "procedure_name"
	FieldDoctorName         = "doctor_name"
	FieldTimeOfProcedure    = "time_of_procedure"
	FieldSpecialInstruction = "special_instruction"
)

// CurrentValue returns the current value of an amendable field, or false
// when the field is unknown or not amendable.
func (c CaseBooking) CurrentValue(field string) (string, bool) {
	switch field {
	case FieldHospital:
		return c.hospital, true
	case FieldDepartment:
		return c.department, true
	case FieldDateOfSurgery:
		return c.dateOfSurgery.Format("2006-01-02"), true
	case FieldProcedureType:
		return c.procedureType, true
	case FieldProcedureName:
		return c.procedureName, true
	case FieldDoctorName:
		return c.doctorName, true
	case FieldTimeOfProcedure:
		return c.timeOfProcedure, true
	case FieldSpecialInstruction:
		return c.specialInstruction, true
	default:
		return "", false
	}
}

// WithAmendment returns a copy with the field changes applied and the
// amended flag set. Unknown fields are ignored; callers validate them first.
func (c CaseBooking) WithAmendment(changes []workflow.FieldChange) CaseBooking {
	for _, change := range changes {
		switch change.Field {
		case FieldHospital:
			c.hospital = change.New
		case FieldDepartment:
			c.department = change.New
		case FieldDateOfSurgery:
			if parsed, err := time.Parse("2006-01-02", change.New); err == nil {
				c.dateOfSurgery = parsed
			}
		case FieldProcedureType:
			c.procedureType = change.New
		case FieldProcedureName:
			c.procedureName = change.New
		case FieldDoctorName:
			c.doctorName = change.New
		case FieldTimeOfProcedure:
			c.timeOfProcedure = change.New
		case FieldSpecialInstruction:
			c.specialInstruction = change.New
		}
	}
	c.isAmended = true
	return c
}
