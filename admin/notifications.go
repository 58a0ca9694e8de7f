package admin

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const (
	notificationsPath = "/admin/notifications"
	notificationLimit = 20
)

// ListNotifications returns one page of twenty notifications, only unread ones when
// unreadOnly is set.
func (s *Service) ListNotifications(ctx context.Context, page int, unreadOnly bool) (*NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(notificationLimit)},
	}
	if unreadOnly {
		q.Set("unread", "true")
	}
	var out NotificationPage
	if err := s.get(ctx, notificationsPath, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) MarkNotificationRead(ctx context.Context, id string) error {
	if id == "" {
		return errMissingID
	}
	return s.send(ctx, http.MethodPatch, itemPath(notificationsPath, id)+"/read", nil, nil)
}

func (s *Service) MarkNotificationUnread(ctx context.Context, id string) error {
	if id == "" {
		return errMissingID
	}
	return s.send(ctx, http.MethodPatch, itemPath(notificationsPath, id)+"/unread", nil, nil)
}

func (s *Service) MarkAllNotificationsRead(ctx context.Context) error {
	return s.send(ctx, http.MethodPatch, notificationsPath+"/read-all", nil, nil)
}

func (s *Service) ClearReadNotifications(ctx context.Context) error {
	return s.send(ctx, http.MethodDelete, notificationsPath+"/clear-read", nil, nil)
}
