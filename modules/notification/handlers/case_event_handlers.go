package handlers

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/aggregates/casebooking"
	"github.com/transmedic-it-sg/tm-case-booking/modules/casebooking/domain/workflow"
	"github.com/transmedic-it-sg/tm-case-booking/modules/notification/domain/entities/notification"
	"github.com/transmedic-it-sg/tm-case-booking/modules/notification/services"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/application"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/composables"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/configuration"
)

// CaseEventsHandler fans case lifecycle events out as in-app notifications to
// the roles that can act on the case next. Delivery is best-effort; a failed
// notification never fails the originating request.
type CaseEventsHandler struct {
	app     application.Application
	service *services.NotificationService
	logger  *logrus.Logger
}

func RegisterCaseEventHandlers(app application.Application) {
	handler := &CaseEventsHandler{
		app:     app,
		service: app.Service(services.NotificationService{}).(*services.NotificationService),
		logger:  configuration.Use().Logger(),
	}
	app.EventPublisher().Subscribe(handler.onCaseCreated)
	app.EventPublisher().Subscribe(handler.onStatusChanged)
	app.EventPublisher().Subscribe(handler.onCaseAmended)
}

func (h *CaseEventsHandler) onCaseCreated(event *casebooking.CreatedEvent) {
	c := event.Result
	h.deliver(c, rolesToNotify(workflow.StatusOrderPreparation), &notification.Notification{
		Title:   "New case booked",
		Body:    fmt.Sprintf("%s booked %s at %s on %s", event.Actor.Name, c.ProcedureName(), c.Hospital(), c.DateOfSurgery().Format("2006-01-02")),
		CaseRef: c.RefNumber(),
	})
}

func (h *CaseEventsHandler) onStatusChanged(event *casebooking.StatusChangedEvent) {
	c := event.Result
	roles := make(map[workflow.Role]struct{})
	for _, successor := range workflow.Successors(c.Status()) {
		for _, role := range workflow.TransitionRoles(successor) {
			roles[role] = struct{}{}
		}
	}
	h.deliver(c, roles, &notification.Notification{
		Title:   fmt.Sprintf("Case moved to %s", c.Status()),
		Body:    fmt.Sprintf("%s moved %s from %s to %s", event.Actor.Name, c.RefNumber(), event.From, event.To),
		CaseRef: c.RefNumber(),
	})
}

func (h *CaseEventsHandler) onCaseAmended(event *casebooking.AmendedEvent) {
	c := event.Result
	roles := rolesToNotify(workflow.StatusOrderPreparation)
	h.deliver(c, roles, &notification.Notification{
		Title:   "Case amended",
		Body:    fmt.Sprintf("%s amended %s: %s", event.Actor.Name, c.RefNumber(), event.Reason),
		CaseRef: c.RefNumber(),
	})
}

func (h *CaseEventsHandler) deliver(c casebooking.CaseBooking, roles map[workflow.Role]struct{}, template *notification.Notification) {
	if h.service == nil || h.app == nil || len(roles) == 0 {
		return
	}

	ctx := composables.WithPool(context.Background(), h.app.Pool())
	ctx = composables.WithCountry(ctx, c.Country())

	notifications := make([]*notification.Notification, 0, len(roles))
	for role := range roles {
		notifications = append(notifications, &notification.Notification{
			Country: c.Country(),
			Role:    role,
			Title:   template.Title,
			Body:    template.Body,
			CaseRef: template.CaseRef,
		})
	}
	if err := h.service.Notify(ctx, notifications...); err != nil {
		h.logger.WithError(err).
			WithField("case_ref", c.RefNumber()).
			Warn("failed to deliver case notifications")
	}
}

func rolesToNotify(target workflow.Status) map[workflow.Role]struct{} {
	roles := make(map[workflow.Role]struct{})
	for _, role := range workflow.TransitionRoles(target) {
		roles[role] = struct{}{}
	}
	return roles
}
