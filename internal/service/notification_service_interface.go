package service

import (
	"context"

	"github.com/prismaasset360/web/internal/models/common"
)

// NotificationServiceInterface defines the operations on the logged-in user's notifications.
type NotificationServiceInterface interface {
	// List lists the notifications, latest first as the backend orders them.
	List(ctx context.Context) ([]common.Notificacion, error)

	// MarkRead marks one notification as read.
	MarkRead(ctx context.Context, id common.ID) error

	// MarkAllRead marks every notification as read.
	MarkAllRead(ctx context.Context) error

	// UnreadCount counts the unread notifications.
	UnreadCount(ctx context.Context) (int, error)
}
