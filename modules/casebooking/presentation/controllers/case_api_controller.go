package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/aggregates/casebooking"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/entities/attachment"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/workflow"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/presentation/mappers"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/presentation/viewmodels"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/services"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/application"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/httpapi"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/middleware"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/serrors"
)

type CaseAPIController struct {
	app           application.Application
	caseService   *services.CaseService
	exportService *services.ExportService
	basePath      string
}

func NewCaseAPIController(app application.Application) application.Controller {
	return &CaseAPIController{
		app:           app,
		caseService:   app.Service(services.CaseService{}).(*services.CaseService),
		exportService: app.Service(services.ExportService{}).(*services.ExportService),
		basePath:      "/api/cases",
	}
}

func (c *CaseAPIController) Key() string {
	return c.basePath
}

func (c *CaseAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.Identity())

	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/export", c.Export).Methods(http.MethodGet)
	router.HandleFunc("/ref/{refNumber}", c.GetByRefNumber).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id}/status", c.ChangeStatus).Methods(http.MethodPost)
	router.HandleFunc("/{id}/actions", c.AvailableActions).Methods(http.MethodGet)
	router.HandleFunc("/{id}/history", c.History).Methods(http.MethodGet)
	router.HandleFunc("/{id}/amendments", c.ListAmendments).Methods(http.MethodGet)
	router.HandleFunc("/{id}/amendments", c.Amend).Methods(http.MethodPost)
}

func (c *CaseAPIController) List(w http.ResponseWriter, r *http.Request) {
	params, err := findParamsFromQuery(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error(), nil)
		return
	}
	cases, total, err := c.caseService.GetPaginated(r.Context(), params)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.CasesToViewModels(cases, total))
}

func (c *CaseAPIController) Create(w http.ResponseWriter, r *http.Request) {
	var dto casebooking.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	created, err := c.caseService.Create(r.Context(), &dto)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, mappers.CaseToViewModel(created))
}

func (c *CaseAPIController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	entity, err := c.caseService.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.CaseToViewModel(entity))
}

func (c *CaseAPIController) GetByRefNumber(w http.ResponseWriter, r *http.Request) {
	refNumber := mux.Vars(r)["refNumber"]
	entity, err := c.caseService.GetByRefNumber(r.Context(), refNumber)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.CaseToViewModel(entity))
}

func (c *CaseAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.caseService.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changeStatusRequest struct {
	Status      string                  `json:"status"`
	Details     json.RawMessage         `json:"details,omitempty"`
	Attachments []attachment.Descriptor `json:"attachments,omitempty"`
}

func (c *CaseAPIController) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	target, err := workflow.ParseStatus(req.Status)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_STATUS", err.Error(), nil)
		return
	}
	payload, err := workflow.DecodeDetails(req.Details)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_DETAILS", err.Error(), nil)
		return
	}

	updated, err := c.caseService.ChangeStatus(r.Context(), id, target, payload, req.Attachments)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.CaseToViewModel(updated))
}

func (c *CaseAPIController) AvailableActions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	statuses, err := c.caseService.AvailableActions(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		names = append(names, string(status))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &viewmodels.Actions{Statuses: names})
}

func (c *CaseAPIController) History(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	entries, err := c.caseService.History(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	result := make([]*viewmodels.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, mappers.HistoryEntryToViewModel(entry))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, result)
}

type amendRequest struct {
	Reason  string            `json:"reason"`
	Updates map[string]string `json:"updates"`
}

func (c *CaseAPIController) Amend(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req amendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	amended, err := c.caseService.Amend(r.Context(), id, req.Updates, req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, mappers.CaseToViewModel(amended))
}

func (c *CaseAPIController) ListAmendments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	entries, err := c.caseService.Amendments(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	result := make([]*viewmodels.Amendment, 0, len(entries))
	for _, entry := range entries {
		result = append(result, mappers.AmendmentToViewModel(entry))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, result)
}

func (c *CaseAPIController) Export(w http.ResponseWriter, r *http.Request) {
	params, err := findParamsFromQuery(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error(), nil)
		return
	}
	data, err := c.exportService.ExportCases(r.Context(), params)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="cases.xlsx"`)
	_, _ = w.Write(data)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "case id must be a UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func findParamsFromQuery(r *http.Request) (*casebooking.FindParams, error) {
	q := r.URL.Query()
	params := &casebooking.FindParams{
		Q:          q.Get("q"),
		Hospital:   q.Get("hospital"),
		Department: q.Get("department"),
	}
	if raw := q.Get("status"); raw != "" {
		status, err := workflow.ParseStatus(raw)
		if err != nil {
			return nil, err
		}
		params.Status = &status
	}
	if raw := q.Get("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, err
		}
		params.From = &from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, err
		}
		params.To = &to
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		params.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		params.Offset = offset
	}
	return params, nil
}

// writeDomainError maps domain failures onto HTTP statuses. Coded errors keep
// their code in the envelope so clients can match without parsing messages.
func writeDomainError(w http.ResponseWriter, err error) {
	if errors.Is(err, casebooking.ErrNotFound) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "case not found", nil)
		return
	}
	if errors.Is(err, casebooking.ErrVersionConflict) {
		_ = httpapi.WriteError(w, http.StatusConflict, "VERSION_CONFLICT", "case was modified concurrently, retry with fresh state", nil)
		return
	}

	var coded *serrors.BaseError
	if errors.As(err, &coded) {
		status := http.StatusUnprocessableEntity
		switch coded.Code {
		case "UNAUTHORIZED":
			status = http.StatusForbidden
		case "INVALID_TRANSITION", "ALREADY_AMENDED":
			status = http.StatusConflict
		}
		meta := map[string]string(nil)
		if coded.Details != "" {
			meta = map[string]string{"details": coded.Details}
		}
		_ = httpapi.WriteError(w, status, coded.Code, coded.Message, meta)
		return
	}
	_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
}
