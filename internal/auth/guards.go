package auth

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/internal/session"
	log "github.com/sirupsen/logrus"
)

// LoginPath is where requests without a session are sent.
const LoginPath = "/login"

// Layout guards the company area: it requires a logged-in user and sends system administrators to their own area.
func Layout() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := requireUser(c)
		if !ok {
			return
		}

		if user.Rol.Is(common.RoleSuperAdmin) {
			redirect(c, HomePath(user.Rol))
			return
		}

		c.Next()
	}
}

// AdminLayout guards the system administration area.
func AdminLayout() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := requireUser(c)
		if !ok {
			return
		}

		if !user.Rol.Is(common.RoleSuperAdmin) {
			log.Debugf("Usuario %v (%v) sin acceso a %v", user.Email, user.Rol, c.Request.URL.Path)
			redirect(c, HomePath(user.Rol))
			return
		}

		c.Next()
	}
}

// ProtectedRoute lets through only users whose role is one of `roles`. Others are sent to their home page.
func ProtectedRoute(roles ...common.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := requireUser(c)
		if !ok {
			return
		}

		if !HasRole(user.Rol, roles) {
			log.Debugf("Usuario %v (%v) sin acceso a %v", user.Email, user.Rol, c.Request.URL.Path)
			redirect(c, HomePath(user.Rol))
			return
		}

		c.Next()
	}
}

// Authenticated lets through any logged-in user.
func Authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireUser(c); ok {
			c.Next()
		}
	}
}

// NavGuard is ProtectedRoute with the roles of the navigation item owning the request path.
func NavGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, ok := RolesFor(c.Request.URL.Path)
		if !ok {
			c.Next()
			return
		}

		ProtectedRoute(roles...)(c)
	}
}

func requireUser(c *gin.Context) (*common.Usuario, bool) {
	user := session.UserFromContext(c)
	if user == nil {
		target := LoginPath
		if c.Request.Method == http.MethodGet {
			target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		}
		redirect(c, target)
		return nil, false
	}

	return user, true
}

func redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusFound, path)
	c.Abort()
}
