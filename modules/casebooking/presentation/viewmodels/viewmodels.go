package viewmodels

import "encoding/json"

type ImplantBox struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type Case struct {
	ID                 string       `json:"id"`
	RefNumber          string       `json:"ref_number"`
	Country            string       `json:"country"`
	Hospital           string       `json:"hospital"`
	Department         string       `json:"department"`
	DateOfSurgery      string       `json:"date_of_surgery"`
	ProcedureType      string       `json:"procedure_type"`
	ProcedureName      string       `json:"procedure_name"`
	DoctorName         string       `json:"doctor_name,omitempty"`
	TimeOfProcedure    string       `json:"time_of_procedure,omitempty"`
	SurgerySets        []string     `json:"surgery_sets"`
	ImplantBoxes       []ImplantBox `json:"implant_boxes"`
	SpecialInstruction string       `json:"special_instruction,omitempty"`
	Status             string       `json:"status"`
	IsAmended          bool         `json:"is_amended"`
	SubmittedBy        string       `json:"submitted_by"`
	Version            int64        `json:"version"`
	CreatedAt          string       `json:"created_at"`
	UpdatedAt          string       `json:"updated_at"`
}

type Attachment struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Payload  string `json:"payload"`
}

type HistoryEntry struct {
	ID          uint            `json:"id"`
	Status      string          `json:"status"`
	ActorID     string          `json:"actor_id"`
	ActorName   string          `json:"actor_name"`
	ActorRole   string          `json:"actor_role"`
	Details     json.RawMessage `json:"details,omitempty"`
	Attachments []Attachment    `json:"attachments,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old_value"`
	New   string `json:"new_value"`
}

type Amendment struct {
	ID        uint            `json:"id"`
	ActorID   string          `json:"actor_id"`
	ActorName string          `json:"actor_name"`
	ActorRole string          `json:"actor_role"`
	Reason    string          `json:"reason"`
	Changes   []FieldChange   `json:"changes"`
	Patch     json.RawMessage `json:"patch,omitempty"`
	CreatedAt string          `json:"created_at"`
}

type CaseList struct {
	Items []*Case `json:"items"`
	Total int64   `json:"total"`
}

type Actions struct {
	Statuses []string `json:"statuses"`
}
