package service

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/apiclient"
	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/pkg/errorcode"
)

// Backend endpoints of the auth resource.
const (
	loginPath          = "/auth/login"
	logoutPath         = "/auth/logout"
	mePath             = "/auth/me"
	changePasswordPath = "/auth/change-password"
)

// AuthService manages logins and the current user's account.
type AuthService struct {
	ServiceInfo *Info
}

// Login implements AuthServiceInterface. Backends that answer the login with the tokens only are asked for the
// profile right away.
func (s *AuthService) Login(ctx context.Context, email string, password string) (*common.LoginResult, error) {
	body := map[string]string{
		"email":    strings.TrimSpace(email),
		"password": password,
	}

	var result common.LoginResult
	err := s.ServiceInfo.Client.Do(ctx, &apiclient.Request{
		Method:   http.MethodPost,
		Path:     loginPath,
		Body:     body,
		SkipAuth: true,
	}, &result)
	if err != nil {
		return nil, errors.Wrap(err, "no se pudo iniciar sesión")
	}

	if result.AccessToken == "" {
		return nil, &ErrorCorruptedBackendResult{errMsg: "la respuesta de inicio de sesión no contiene un token de acceso"}
	}

	if result.User.ID == "" && result.User.Email == "" {
		tokens := &StaticTokens{Pair: result.TokenPair}
		user, err := s.Me(apiclient.WithTokens(ctx, tokens))
		if err != nil {
			return nil, err
		}
		result.TokenPair = tokens.Tokens()
		result.User = *user
	}

	return &result, nil
}

// Logout implements AuthServiceInterface.
func (s *AuthService) Logout(ctx context.Context) error {
	tokens := apiclient.TokensFromContext(ctx)
	if tokens == nil || tokens.Tokens().IsEmpty() {
		return nil
	}

	err := s.ServiceInfo.Client.Do(ctx, &apiclient.Request{
		Method: http.MethodPost,
		Path:   logoutPath,
		Body:   map[string]string{"refreshToken": tokens.Tokens().RefreshToken},
	}, nil)
	// Backends without a logout endpoint simply let the tokens expire.
	if errors.Cause(err) == errorcode.ErrorNotFound || errors.Cause(err) == errorcode.ErrorNotImplemented {
		return nil
	}

	return errors.Wrap(err, "no se pudo cerrar la sesión en el servidor")
}

// Me implements AuthServiceInterface.
func (s *AuthService) Me(ctx context.Context) (*common.Usuario, error) {
	var user common.Usuario
	if err := s.ServiceInfo.Client.Do(ctx, &apiclient.Request{Method: http.MethodGet, Path: mePath}, &user); err != nil {
		return nil, errors.Wrap(err, "no se pudo obtener el perfil")
	}

	return &user, nil
}

// ChangePassword implements AuthServiceInterface.
func (s *AuthService) ChangePassword(ctx context.Context, currentPassword string, newPassword string) error {
	err := s.ServiceInfo.Client.Do(ctx, &apiclient.Request{
		Method: http.MethodPost,
		Path:   changePasswordPath,
		Body: map[string]string{
			"currentPassword": currentPassword,
			"newPassword":     newPassword,
		},
	}, nil)

	return errors.Wrap(err, "no se pudo cambiar la contraseña")
}

// StaticTokens is a token store that lives only in memory, for calls made outside of a session.
type StaticTokens struct {
	mu   sync.RWMutex
	Pair common.TokenPair
}

// Tokens implements apiclient.TokenStore.
func (t *StaticTokens) Tokens() common.TokenPair {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.Pair
}

// SetTokens implements apiclient.TokenStore.
func (t *StaticTokens) SetTokens(pair common.TokenPair) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Pair = pair
	return nil
}

// Clear implements apiclient.TokenStore.
func (t *StaticTokens) Clear() error {
	return t.SetTokens(common.TokenPair{})
}
