package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/transmedic-it-sg/tm-case-booking/modules/notification/domain/entities/notification"
	"github.com/transmedic-it-sg/tm-case-booking/modules/notification/services"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/application"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/composables"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/httpapi"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/middleware"
)

type notificationViewModel struct {
	ID        uint   `json:"id"`
	Role      string `json:"role"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CaseRef   string `json:"case_ref,omitempty"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

type NotificationAPIController struct {
	app      application.Application
	service  *services.NotificationService
	basePath string
}

func NewNotificationAPIController(app application.Application) application.Controller {
	return &NotificationAPIController{
		app:      app,
		service:  app.Service(services.NotificationService{}).(*services.NotificationService),
		basePath: "/api/notifications",
	}
}

func (c *NotificationAPIController) Key() string {
	return c.basePath
}

func (c *NotificationAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.Identity())

	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id}/read", c.MarkRead).Methods(http.MethodPost)
}

// List returns the acting user's role-scoped inbox, newest first.
func (c *NotificationAPIController) List(w http.ResponseWriter, r *http.Request) {
	actor, err := composables.UseActor(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "MISSING_ACTOR", err.Error(), nil)
		return
	}

	params := &notification.FindParams{
		Role:       actor.Role,
		UnreadOnly: r.URL.Query().Get("unread") == "true",
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			params.Limit = limit
		}
	}

	notifications, err := c.service.List(r.Context(), params)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}

	result := make([]*notificationViewModel, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, &notificationViewModel{
			ID:        n.ID,
			Role:      string(n.Role),
			Title:     n.Title,
			Body:      n.Body,
			CaseRef:   n.CaseRef,
			Read:      n.IsRead(),
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, result)
}

func (c *NotificationAPIController) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_ID", "notification id must be numeric", nil)
		return
	}
	if err := c.service.MarkRead(r.Context(), uint(id)); err != nil {
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
