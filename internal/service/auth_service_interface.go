package service

import (
	"context"

	"github.com/prismaasset360/web/internal/models/common"
)

// AuthServiceInterface defines the account operations of the logged-in user.
type AuthServiceInterface interface {
	// Login exchanges the credentials for a token pair and the user profile.
	Login(ctx context.Context, email string, password string) (*common.LoginResult, error)

	// Logout revokes the refresh token of the session carried by the context.
	Logout(ctx context.Context) error

	// Me gets the profile of the user the context authenticates as.
	Me(ctx context.Context) (*common.Usuario, error)

	// ChangePassword changes the password of the logged-in user.
	ChangePassword(ctx context.Context, currentPassword string, newPassword string) error
}
