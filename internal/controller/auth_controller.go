package controller

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/apiclient"
	"github.com/prismaasset360/web/internal/auth"
	"github.com/prismaasset360/web/internal/service"
	"github.com/prismaasset360/web/internal/session"
	"github.com/prismaasset360/web/pkg/errorcode"
	log "github.com/sirupsen/logrus"
)

type loginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

type passwordForm struct {
	CurrentPassword string `form:"currentPassword" binding:"required"`
	NewPassword     string `form:"newPassword" binding:"required,min=8"`
	Confirmation    string `form:"confirmation" binding:"required,eqfield=NewPassword"`
}

// Human-readable names of the bound form fields.
var formFieldLabels = map[string]string{
	"Email":           "Correo electrónico",
	"Password":        "Contraseña",
	"CurrentPassword": "Contraseña actual",
	"NewPassword":     "Nueva contraseña",
	"Confirmation":    "Confirmación",
}

// LoginView is the content of the login page.
type LoginView struct {
	Email string
	Next  string
}

// An AuthController serves the login, logout and password pages. It also implements the interface `Controller`.
type AuthController struct {
	*BaseController
	GroupName string
	AuthSvc   service.AuthServiceInterface
}

// GetGroupName returns the group name.
func (ac *AuthController) GetGroupName() string {
	return ac.GroupName
}

// GetEndpointMap implements part of the interface `Controller`. It returns the endpoints and handlers which are defined and managed by AuthController.
func (ac *AuthController) GetEndpointMap() EndpointMap {
	return EndpointMap{
		urlMethodPair{"/", "GET"}:                 []gin.HandlerFunc{ac.handleHome},
		urlMethodPair{"/login", "GET"}:            []gin.HandlerFunc{ac.handleLoginPage},
		urlMethodPair{"/login", "POST"}:           []gin.HandlerFunc{ac.handleLogin},
		urlMethodPair{"/logout", "POST"}:          []gin.HandlerFunc{ac.handleLogout},
		urlMethodPair{"/perfil/password", "GET"}:  []gin.HandlerFunc{auth.Authenticated(), ac.handlePasswordPage},
		urlMethodPair{"/perfil/password", "POST"}: []gin.HandlerFunc{auth.Authenticated(), ac.handleChangePassword},
	}
}

func (ac *AuthController) handleHome(c *gin.Context) {
	if user := session.UserFromContext(c); user != nil {
		c.Redirect(http.StatusFound, auth.HomePath(user.Rol))
		return
	}

	c.Redirect(http.StatusFound, auth.LoginPath)
}

func (ac *AuthController) handleLoginPage(c *gin.Context) {
	if user := session.UserFromContext(c); user != nil {
		c.Redirect(http.StatusFound, auth.HomePath(user.Rol))
		return
	}

	ac.render(c, http.StatusOK, "login", "Iniciar sesión", &LoginView{Next: c.Query("next")})
}

func (ac *AuthController) handleLogin(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		ac.renderWithErrors(c, "login", "Iniciar sesión", &LoginView{Email: form.Email, Next: form.Next}, bindingErrors(err))
		return
	}

	result, err := ac.AuthSvc.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		cause := errors.Cause(err)
		if cause == errorcode.ErrorUnauthorized || cause == errorcode.ErrorBadRequest || cause == errorcode.ErrorForbidden {
			msg := apiclient.UserMessage(err, "Correo electrónico o contraseña incorrectos.")
			ac.renderWithErrors(c, "login", "Iniciar sesión", &LoginView{Email: form.Email, Next: form.Next}, ParameterErrorList{msg})
			return
		}

		ac.fail(c, err, auth.LoginPath)
		return
	}

	user := result.User
	if _, err := ac.Sessions.Create(c, result.TokenPair, &user); err != nil {
		ac.fail(c, err, auth.LoginPath)
		return
	}

	log.Infof("Inicio de sesión de %v (%v).", user.Email, user.Rol)
	redirectTo := auth.HomePath(user.Rol)
	if next := safeRedirect(form.Next); next != "" {
		redirectTo = next
	}
	c.Redirect(http.StatusSeeOther, redirectTo)
}

func (ac *AuthController) handleLogout(c *gin.Context) {
	if err := ac.AuthSvc.Logout(c.Request.Context()); err != nil {
		log.Warnln(err)
	}

	ac.Sessions.Destroy(c)
	ac.succeed(c, "Sesión cerrada", auth.LoginPath)
}

func (ac *AuthController) handlePasswordPage(c *gin.Context) {
	ac.render(c, http.StatusOK, "password", "Cambiar contraseña", nil)
}

func (ac *AuthController) handleChangePassword(c *gin.Context) {
	var form passwordForm
	if err := c.ShouldBind(&form); err != nil {
		ac.renderWithErrors(c, "password", "Cambiar contraseña", nil, bindingErrors(err))
		return
	}

	err := ac.AuthSvc.ChangePassword(c.Request.Context(), form.CurrentPassword, form.NewPassword)
	if cause := errors.Cause(err); cause == errorcode.ErrorBadRequest || cause == errorcode.ErrorUnauthorized {
		msg := apiclient.UserMessage(err, "La contraseña actual no es correcta.")
		ac.renderWithErrors(c, "password", "Cambiar contraseña", nil, ParameterErrorList{msg})
		return
	} else if err != nil {
		ac.fail(c, err, "/perfil/password")
		return
	}

	ac.succeed(c, "Contraseña actualizada", auth.HomePath(currentUser(c).Rol))
}

// bindingErrors turns the validation errors of a bound form into messages.
func bindingErrors(err error) ParameterErrorList {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return ParameterErrorList{"El formulario no es válido."}
	}

	pel := ParameterErrorList{}
	for _, fe := range validationErrors {
		label, ok := formFieldLabels[fe.Field()]
		if !ok {
			label = fe.Field()
		}

		switch fe.Tag() {
		case "required":
			pel = append(pel, fmt.Sprintf("El campo «%v» es obligatorio.", label))
		case "email":
			pel = append(pel, fmt.Sprintf("El campo «%v» debe ser un correo electrónico.", label))
		case "min":
			pel = append(pel, fmt.Sprintf("El campo «%v» debe tener al menos %v caracteres.", label, fe.Param()))
		case "eqfield":
			pel = append(pel, "Las contraseñas no coinciden.")
		default:
			pel = append(pel, fmt.Sprintf("El campo «%v» no es válido.", label))
		}
	}

	return pel
}

// safeRedirect accepts only local paths as post-login destinations.
func safeRedirect(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}

	if next == auth.LoginPath || strings.HasPrefix(next, auth.LoginPath+"?") {
		return ""
	}

	return next
}
