package catalog

import (
	"context"
	"fmt"

	"github.com/MrEthical07/learnhub"
)

// ListNotifications returns every notification, newest first.
func (s *Service) ListNotifications(ctx context.Context) ([]Notification, error) {
	return s.notifications.ListNotifications(ctx)
}

// MarkNotificationRead flags id as read and returns the refreshed list.
func (s *Service) MarkNotificationRead(ctx context.Context, id string) ([]Notification, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: notification id is required", learnhub.ErrInvalidInput)
	}
	if err := s.notifications.MarkNotificationRead(ctx, id); err != nil {
		return nil, err
	}
	return s.notifications.ListNotifications(ctx)
}
