package common

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Role is the name of a user role as the backend defines it.
type Role string

const (
	// RoleSuperAdmin administers the whole system. It belongs to no company.
	RoleSuperAdmin Role = "SUPER_ADMIN"
	// RoleCompanyAdmin administers one company (tenant).
	RoleCompanyAdmin Role = "ADMIN_EMPRESA"
	// RoleAssetManager manages the assets, assignments and reports of a company.
	RoleAssetManager Role = "GESTOR_ACTIVOS"
	// RoleTechnician records maintenance.
	RoleTechnician Role = "TECNICO"
	// RoleEmployee holds assigned assets and issues requests.
	RoleEmployee Role = "EMPLEADO"
)

// NewRoleFromString normalizes a role name: surrounding spaces are dropped and the name is upper-cased.
func NewRoleFromString(s string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(s)))
}

// Is reports whether two role names are the same, ignoring case.
func (r Role) Is(other Role) bool {
	return NewRoleFromString(string(r)) == NewRoleFromString(string(other))
}

// UnmarshalJSON accepts the role as a plain string or as an object with a "nombre" (or "name") field.
func (r *Role) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}

	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Nombre string `json:"nombre"`
			Name   string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if obj.Nombre != "" {
			*r = NewRoleFromString(obj.Nombre)
		} else {
			*r = NewRoleFromString(obj.Name)
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = NewRoleFromString(s)
	return nil
}

// Usuario is the logged-in user as returned by the backend at login or by /auth/me. It's cached in the session.
type Usuario struct {
	ID            ID     `json:"id"`                      // User ID
	Nombre        string `json:"nombre"`                  // First name
	Apellido      string `json:"apellido,omitempty"`      // Last name
	Email         string `json:"email"`                   // Login email
	Rol           Role   `json:"rol"`                     // Role name
	EmpresaID     ID     `json:"empresaId,omitempty"`     // Company (tenant) the user belongs to. Empty for super admins.
	EmpresaNombre string `json:"empresaNombre,omitempty"` // Company name for display
	EmpleadoID    ID     `json:"empleadoId,omitempty"`    // Employee record linked to the user, if any
}

// DisplayName returns the full name, or the email if no name is known.
func (u *Usuario) DisplayName() string {
	name := strings.TrimSpace(u.Nombre + " " + u.Apellido)
	if name == "" {
		return u.Email
	}

	return name
}

// TokenPair holds the bearer tokens issued by the backend.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// IsEmpty reports whether there is no access token.
func (t TokenPair) IsEmpty() bool {
	return t.AccessToken == ""
}

// LoginResult is the backend response to POST /auth/login.
type LoginResult struct {
	TokenPair
	User Usuario `json:"user"`
}
