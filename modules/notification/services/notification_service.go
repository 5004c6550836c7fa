package services

import (
	"context"

	"github.com/transmedic-it-sg/tm-case-booking/modules/notification/domain/entities/notification"
	"github.com/transmedic-it-sg/tm-case-booking/pkg/composables"
)

type NotificationService struct {
	repo notification.Repository
}

func NewNotificationService(repo notification.Repository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) List(ctx context.Context, params *notification.FindParams) ([]*notification.Notification, error) {
	return s.repo.List(ctx, params)
}

func (s *NotificationService) Notify(ctx context.Context, notifications ...*notification.Notification) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		for _, n := range notifications {
			if err := s.repo.Create(txCtx, n); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *NotificationService) MarkRead(ctx context.Context, id uint) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.MarkRead(txCtx, id)
	})
}
