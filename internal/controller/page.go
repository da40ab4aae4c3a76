package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/apiclient"
	"github.com/prismaasset360/web/internal/auth"
	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/internal/session"
	"github.com/prismaasset360/web/pkg/errorcode"
	log "github.com/sirupsen/logrus"
)

// FallbackErrorMessage is shown when the backend gives no message for a failure.
const FallbackErrorMessage = "Ocurrió un error al procesar la solicitud"

// NavSection is a titled group of navigation items.
type NavSection struct {
	Title string
	Items []auth.NavItem
}

// Page is the data every template is rendered with. Content is the page-specific part.
type Page struct {
	Title   string
	User    *common.Usuario
	Nav     []NavSection
	Active  string
	Flash   *session.Flash
	Errors  ParameterErrorList
	Content interface{}
}

// ErrorView is the content of the error page.
type ErrorView struct {
	Status  int
	Message string
}

// BaseController holds what every page controller needs: the session manager to force logouts.
type BaseController struct {
	Sessions *session.Manager
}

// newPage builds the page frame of the request: user, navigation and pending toast.
func newPage(c *gin.Context, title string, content interface{}) *Page {
	page := &Page{
		Title:   title,
		Active:  c.Request.URL.Path,
		Flash:   session.PopFlash(c),
		Content: content,
	}

	if user := session.UserFromContext(c); user != nil {
		page.User = user
		page.Nav = groupNavItems(auth.VisibleNavItems(user.Rol))
	}

	return page
}

func groupNavItems(items []auth.NavItem) []NavSection {
	var sections []NavSection
	for _, item := range items {
		if len(sections) == 0 || sections[len(sections)-1].Title != item.Section {
			sections = append(sections, NavSection{Title: item.Section})
		}
		last := &sections[len(sections)-1]
		last.Items = append(last.Items, item)
	}

	return sections
}

// render renders the page template `name`.
func (b *BaseController) render(c *gin.Context, status int, name string, title string, content interface{}) {
	c.HTML(status, name, newPage(c, title, content))
}

// renderWithErrors renders a page (usually a form) along with validation errors.
func (b *BaseController) renderWithErrors(c *gin.Context, name string, title string, content interface{}, pel ParameterErrorList) {
	page := newPage(c, title, content)
	page.Errors = pel
	c.HTML(http.StatusUnprocessableEntity, name, page)
}

// renderError renders the error page with the status matching the error.
func (b *BaseController) renderError(c *gin.Context, err error) {
	if b.forceLogin(c, err) {
		return
	}

	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("%v %v: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	b.render(c, status, "error", "Error", &ErrorView{
		Status:  status,
		Message: apiclient.UserMessage(err, messageFromStatus(status)),
	})
}

// fail reports a failed mutation as an error toast and sends the user back to `redirectTo`.
func (b *BaseController) fail(c *gin.Context, err error, redirectTo string) {
	if b.forceLogin(c, err) {
		return
	}

	if statusFromError(err) >= http.StatusInternalServerError {
		log.Errorf("%v %v: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		log.Debugf("%v %v: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	session.SetFlash(c, session.FlashError, apiclient.UserMessage(err, FallbackErrorMessage))
	c.Redirect(http.StatusSeeOther, redirectTo)
}

// succeed reports a successful mutation as a toast and sends the user on to `redirectTo`.
func (b *BaseController) succeed(c *gin.Context, message string, redirectTo string) {
	session.SetFlash(c, session.FlashSuccess, message)
	c.Redirect(http.StatusSeeOther, redirectTo)
}

// forceLogin handles an expired session: the session is gone, so the cookie goes too and the user logs in again.
func (b *BaseController) forceLogin(c *gin.Context, err error) bool {
	if errors.Cause(err) != errorcode.ErrorSessionExpired {
		return false
	}

	if b.Sessions != nil {
		b.Sessions.Destroy(c)
	}
	session.SetFlash(c, session.FlashError, "Tu sesión ha expirado. Inicia sesión nuevamente.")
	c.Redirect(http.StatusSeeOther, auth.LoginPath)
	c.Abort()
	return true
}

func statusFromError(err error) int {
	switch errors.Cause(err) {
	case errorcode.ErrorBadRequest:
		return http.StatusBadRequest
	case errorcode.ErrorUnauthorized, errorcode.ErrorForbidden:
		return http.StatusForbidden
	case errorcode.ErrorNotFound:
		return http.StatusNotFound
	case errorcode.ErrorConflict:
		return http.StatusConflict
	case errorcode.ErrorNotImplemented:
		return http.StatusNotImplemented
	case errorcode.ErrorBackendUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func messageFromStatus(status int) string {
	switch status {
	case http.StatusForbidden:
		return "No tienes permiso para ver esta página."
	case http.StatusNotFound:
		return "El recurso solicitado no existe."
	case http.StatusBadGateway:
		return "El servidor no está disponible. Inténtalo más tarde."
	default:
		return FallbackErrorMessage
	}
}

// currentUser returns the logged-in user. Guards make sure there is one.
func currentUser(c *gin.Context) *common.Usuario {
	if user := session.UserFromContext(c); user != nil {
		return user
	}

	return &common.Usuario{}
}
