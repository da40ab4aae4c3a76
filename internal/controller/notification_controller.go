package controller

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/filter"
	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/internal/service"
	"github.com/prismaasset360/web/pkg/errorcode"
	log "github.com/sirupsen/logrus"
)

// NotificationsView is the content of the notification page.
type NotificationsView struct {
	Notifications []common.Notificacion
	Unread        int
	Query         string
}

// A NotificationController serves the notification page and the unread counter. It also implements the interface
// `Controller`.
type NotificationController struct {
	*BaseController
	GroupName       string
	NotificationSvc service.NotificationServiceInterface
}

// GetGroupName returns the group name.
func (nc *NotificationController) GetGroupName() string {
	return nc.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the endpoints and handlers which are defined and managed by NotificationController.
func (nc *NotificationController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{"", "GET"}:             []gin.HandlerFunc{nc.handleList},
		urlMethodPair{"/:id/leida", "POST"}:  []gin.HandlerFunc{nc.handleMarkRead},
		urlMethodPair{"/leer-todas", "POST"}: []gin.HandlerFunc{nc.handleMarkAllRead},
		urlMethodPair{"/no-leidas", "GET"}:   []gin.HandlerFunc{nc.handleUnreadCount},
	}
}

func (nc *NotificationController) handleList(c *gin.Context) {
	notifications, err := nc.NotificationSvc.List(c.Request.Context())
	if err != nil {
		nc.renderError(c, err)
		return
	}

	unread := 0
	for _, n := range notifications {
		if !n.Leida {
			unread++
		}
	}

	query := c.Query("q")
	nc.render(c, http.StatusOK, "notifications", "Notificaciones", &NotificationsView{
		Notifications: filter.Notifications(notifications, query),
		Unread:        unread,
		Query:         query,
	})
}

// handleMarkRead marks a notification as read and follows its link if the form asks for it.
func (nc *NotificationController) handleMarkRead(c *gin.Context) {
	pel := &ParameterErrorList{}
	id := pel.AppendIfEmptyOrBlankSpaces(c.Param("id"), "El ID de la notificación no puede estar vacío.")
	if len(*pel) > 0 {
		nc.fail(c, errorcode.ErrorBadRequest, nc.GroupName)
		return
	}

	if err := nc.NotificationSvc.MarkRead(c.Request.Context(), common.ID(id)); err != nil {
		nc.fail(c, err, nc.GroupName)
		return
	}

	redirectTo := nc.GroupName
	if next := safeRedirect(c.PostForm("next")); next != "" {
		redirectTo = next
	}
	c.Redirect(http.StatusSeeOther, redirectTo)
}

func (nc *NotificationController) handleMarkAllRead(c *gin.Context) {
	if err := nc.NotificationSvc.MarkAllRead(c.Request.Context()); err != nil {
		nc.fail(c, err, nc.GroupName)
		return
	}

	nc.succeed(c, "Todas las notificaciones se marcaron como leídas", nc.GroupName)
}

// handleUnreadCount serves the badge counter for pages that poll instead of holding a websocket.
func (nc *NotificationController) handleUnreadCount(c *gin.Context) {
	count, err := nc.NotificationSvc.UnreadCount(c.Request.Context())
	if err != nil {
		status := statusFromError(err)
		if errors.Cause(err) == errorcode.ErrorSessionExpired {
			status = http.StatusUnauthorized
		}

		c.JSON(status, NewGeneralResponseFromError(err, messageFromStatus(status)))
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// WSMessage is a message pushed to the browser over the notification socket.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Types of WSMessage.
const (
	WSMessageUnread         = "unread"
	WSMessageSessionExpired = "session_expired"
)

const wsWriteWait = 10 * time.Second

// A NotificationSocketController pushes the unread notification count to the browser. It also implements the
// interface `Controller`.
type NotificationSocketController struct {
	GroupName       string
	NotificationSvc service.NotificationServiceInterface
	PollInterval    time.Duration
	Upgrader        websocket.Upgrader
}

// NewNotificationSocketController creates the controller. Origins other than the page's own host must be listed in
// `allowedOrigins`.
func NewNotificationSocketController(groupName string, svc service.NotificationServiceInterface, pollInterval time.Duration, allowedOrigins []string) *NotificationSocketController {
	return &NotificationSocketController{
		GroupName:       groupName,
		NotificationSvc: svc,
		PollInterval:    pollInterval,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
	}
}

// GetGroupName returns the group name.
func (sc *NotificationSocketController) GetGroupName() string {
	return sc.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the endpoints and handlers which are defined and managed by NotificationSocketController.
func (sc *NotificationSocketController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{"/notificaciones", "GET"}: []gin.HandlerFunc{sc.handleSocket},
	}
}

func (sc *NotificationSocketController) handleSocket(c *gin.Context) {
	conn, err := sc.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// The upgrader has already replied with an error status.
		log.Debugf("No se pudo abrir el websocket de notificaciones: %v", err)
		return
	}
	defer conn.Close()

	// The request context carries the session tokens, so polls refresh them like any page request.
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Browsers send nothing, but reading is what notices the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(sc.PollInterval)
	defer ticker.Stop()

	last := -1
	for {
		count, err := sc.NotificationSvc.UnreadCount(ctx)
		switch {
		case errors.Cause(err) == errorcode.ErrorSessionExpired:
			_ = sc.write(conn, &WSMessage{Type: WSMessageSessionExpired})
			return
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			log.Debugf("No se pudo consultar el contador de notificaciones: %v", err)
		case count != last:
			if err := sc.write(conn, &WSMessage{Type: WSMessageUnread, Data: gin.H{"count": count}}); err != nil {
				return
			}
			last = count
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (sc *NotificationSocketController) write(conn *websocket.Conn, msg *WSMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}

	return conn.WriteJSON(msg)
}

// checkOrigin accepts requests without an Origin header, from the request's own host, or from a listed origin.
func checkOrigin(allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if strings.EqualFold(u.Host, r.Host) {
			return true
		}

		return originAllowed(origin, allowedOrigins)
	}
}
