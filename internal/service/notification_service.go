package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/apiclient"
	"github.com/prismaasset360/web/internal/models/common"
)

const (
	notificationsPath       = "/notificaciones"
	notificationsReadAll    = "/notificaciones/leer-todas"
	notificationsUnreadPath = "/notificaciones/no-leidas/count"
)

// NotificationService manages the logged-in user's notifications.
type NotificationService struct {
	ServiceInfo *Info
}

// List implements NotificationServiceInterface.
func (s *NotificationService) List(ctx context.Context) ([]common.Notificacion, error) {
	list := []common.Notificacion{}
	if err := getList(ctx, s.ServiceInfo.Client, notificationsPath, nil, &list); err != nil {
		return nil, errors.Wrap(err, "no se pudieron obtener las notificaciones")
	}

	return list, nil
}

// MarkRead implements NotificationServiceInterface.
func (s *NotificationService) MarkRead(ctx context.Context, id common.ID) error {
	if id == "" {
		return errors.New("ID vacío")
	}

	err := s.ServiceInfo.Client.Do(ctx, &apiclient.Request{Method: http.MethodPatch, Path: idPath(notificationsPath, id, "leida")}, nil)
	return errors.Wrap(err, "no se pudo marcar la notificación como leída")
}

// MarkAllRead implements NotificationServiceInterface.
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	err := s.ServiceInfo.Client.Do(ctx, &apiclient.Request{Method: http.MethodPatch, Path: notificationsReadAll}, nil)
	return errors.Wrap(err, "no se pudieron marcar las notificaciones como leídas")
}

// UnreadCount implements NotificationServiceInterface. The backend answers with a bare number or with
// {"count": n}.
func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	var raw json.RawMessage
	if err := s.ServiceInfo.Client.Do(ctx, &apiclient.Request{Method: http.MethodGet, Path: notificationsUnreadPath}, &raw); err != nil {
		return 0, errors.Wrap(err, "no se pudo contar las notificaciones")
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, nil
	}

	var decoded interface{}
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return 0, &ErrorCorruptedBackendResult{errMsg: "conteo de notificaciones no válido"}
	}

	if m, ok := decoded.(map[string]interface{}); ok {
		for _, key := range []string{"count", "total", "noLeidas"} {
			if v, ok := m[key]; ok {
				decoded = v
				break
			}
		}
	}

	var count int
	if err := weakDecode(decoded, &count); err != nil {
		return 0, err
	}

	return count, nil
}
