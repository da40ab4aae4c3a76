package session

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/apiclient"
	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/pkg/errorcode"
	log "github.com/sirupsen/logrus"
)

const (
	ginContextKey     = "pa360.session"
	managerContextKey = "pa360.sessionManager"
)

// Manager ties sessions to browser cookies.
type Manager struct {
	Store        Store
	CookieName   string
	TTL          time.Duration
	SecureCookie bool
}

// NewManager creates a Manager.
func NewManager(store Store, cookieName string, ttl time.Duration, secureCookie bool) *Manager {
	return &Manager{
		Store:        store,
		CookieName:   cookieName,
		TTL:          ttl,
		SecureCookie: secureCookie,
	}
}

// Middleware loads the session named by the cookie, if any, and attaches it to the gin context and to the request
// context (as the token store of the API client). Requests without a valid session pass through untouched; the
// route guards decide what to do with them.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(managerContextKey, m)

		id, err := c.Cookie(m.CookieName)
		if err == nil && id != "" {
			data, err := m.Store.Get(id)
			switch {
			case err == nil && time.Now().Before(data.ExpiresAt):
				attach(c, newSession(*data, m.Store, m.TTL))
			case err == nil:
				log.Debugf("Sesión %v expirada.", id)
				if err := m.Store.Delete(id); err != nil {
					log.Warnln(errors.Wrap(err, "no se pudo eliminar la sesión expirada"))
				}
				m.clearCookie(c)
			case errors.Cause(err) == errorcode.ErrorNotFound:
				m.clearCookie(c)
			default:
				log.Errorln(errors.Wrap(err, "no se pudo cargar la sesión"))
			}
		}

		c.Next()
	}
}

// Create starts a session for a freshly logged-in user and sets its cookie.
func (m *Manager) Create(c *gin.Context, pair common.TokenPair, user *common.Usuario) (*Session, error) {
	now := time.Now()
	data := Data{
		ID:           uuid.New().String(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
		CreatedAt:    now,
		ExpiresAt:    now.Add(m.TTL),
	}

	if err := m.Store.Save(&data); err != nil {
		return nil, errors.Wrap(err, "no se pudo crear la sesión")
	}

	c.SetCookie(m.CookieName, data.ID, int(m.TTL.Seconds()), "/", "", m.SecureCookie, true)

	sess := newSession(data, m.Store, m.TTL)
	attach(c, sess)
	return sess, nil
}

// Destroy clears the current session, if any, and its cookie.
func (m *Manager) Destroy(c *gin.Context) {
	if sess := FromContext(c); sess != nil && !sess.IsCleared() {
		if err := sess.Clear(); err != nil {
			log.Warnln(err)
		}
	}

	m.clearCookie(c)
}

// ClearCookie removes the session cookie. Used once the API client has already cleared an expired session.
func (m *Manager) ClearCookie(c *gin.Context) {
	m.clearCookie(c)
}

func (m *Manager) clearCookie(c *gin.Context) {
	c.SetCookie(m.CookieName, "", -1, "/", "", m.SecureCookie, true)
}

// FromContext returns the session attached to the request, or nil.
func FromContext(c *gin.Context) *Session {
	v, ok := c.Get(ginContextKey)
	if !ok {
		return nil
	}

	sess, _ := v.(*Session)
	return sess
}

// UserFromContext returns the cached user of the request's session, or nil if there is no live session.
func UserFromContext(c *gin.Context) *common.Usuario {
	sess := FromContext(c)
	if sess == nil || sess.IsCleared() {
		return nil
	}

	return sess.User()
}

func attach(c *gin.Context, sess *Session) {
	c.Set(ginContextKey, sess)
	c.Request = c.Request.WithContext(apiclient.WithTokens(c.Request.Context(), sess))
}

const (
	flashCookieName = "pa360_flash"
	flashContextKey = "pa360.flash"
	flashSeparator  = "|"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a toast message shown once on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// SetFlash queues a toast for the next page. The toast is visible to a page rendered in the same request as well.
func SetFlash(c *gin.Context, kind, message string) {
	c.Set(flashContextKey, &Flash{Kind: kind, Message: message})
	c.SetCookie(flashCookieName, kind+flashSeparator+message, 60, "/", "", secureCookie(c), true)
}

// PopFlash returns the pending toast, if any, and discards it.
func PopFlash(c *gin.Context) *Flash {
	if v, ok := c.Get(flashContextKey); ok {
		c.Set(flashContextKey, nil)
		c.SetCookie(flashCookieName, "", -1, "/", "", secureCookie(c), true)
		flash, _ := v.(*Flash)
		return flash
	}

	value, err := c.Cookie(flashCookieName)
	if err != nil || value == "" {
		return nil
	}

	c.SetCookie(flashCookieName, "", -1, "/", "", secureCookie(c), true)

	kind, message, found := strings.Cut(value, flashSeparator)
	if !found {
		kind, message = FlashError, value
	}

	if message == "" {
		return nil
	}

	return &Flash{Kind: kind, Message: message}
}

// secureCookie tells whether cookies of the request are HTTPS-only, as configured on the Manager whose middleware
// served it.
func secureCookie(c *gin.Context) bool {
	if v, ok := c.Get(managerContextKey); ok {
		if m, ok := v.(*Manager); ok {
			return m.SecureCookie
		}
	}

	return false
}
