package casebooking

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/transmedic-it-sg/tm-case-booking/pkg/constants"
)

type CreateDTO struct {
	Hospital           string       `json:"hospital" validate:"required"`
	Department         string       `json:"department" validate:"required"`
	DateOfSurgery      string       `json:"date_of_surgery" validate:"required,datetime=2006-01-02"`
	ProcedureType      string       `json:"procedure_type" validate:"required"`
	ProcedureName      string       `json:"procedure_name" validate:"required"`
	DoctorName         string       `json:"doctor_name"`
	TimeOfProcedure    string       `json:"time_of_procedure"`
	SurgerySets        []string     `json:"surgery_sets" validate:"omitempty,dive,required"`
	ImplantBoxes       []ImplantBox `json:"implant_boxes" validate:"omitempty,dive"`
	SpecialInstruction string       `json:"special_instruction"`
}

func (d *CreateDTO) Normalize() {
	d.Hospital = strings.TrimSpace(d.Hospital)
	d.Department = strings.TrimSpace(d.Department)
	d.DateOfSurgery = strings.TrimSpace(d.DateOfSurgery)
	d.ProcedureType = strings.TrimSpace(d.ProcedureType)
	d.ProcedureName = strings.TrimSpace(d.ProcedureName)
	d.DoctorName = strings.TrimSpace(d.DoctorName)
	d.TimeOfProcedure = strings.TrimSpace(d.TimeOfProcedure)
	d.SpecialInstruction = strings.TrimSpace(d.SpecialInstruction)
}

// Ok validates the DTO and returns per-field messages keyed by field name.
func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()

	errorMessages := map[string]string{}
	errs := constants.Validate.Struct(d)
	if errs == nil {
		return errorMessages, true
	}
	for _, err := range errs.(validator.ValidationErrors) {
		switch err.Tag() {
		case "required":
			errorMessages[err.Field()] = err.Field() + " is required"
		case "datetime":
			errorMessages[err.Field()] = err.Field() + " must be a date in YYYY-MM-DD format"
		default:
			errorMessages[err.Field()] = err.Field() + " is invalid"
		}
	}
	return errorMessages, len(errorMessages) == 0
}

// ToEntity converts the validated DTO into a new aggregate.
func (d *CreateDTO) ToEntity(country, submittedBy string) CaseBooking {
	date, _ := time.Parse("2006-01-02", d.DateOfSurgery)
	return New(
		country,
		d.Hospital,
		d.Department,
		date,
		d.ProcedureType,
		d.ProcedureName,
		d.DoctorName,
		d.TimeOfProcedure,
		d.SurgerySets,
		d.ImplantBoxes,
		d.SpecialInstruction,
		submittedBy,
	)
}
