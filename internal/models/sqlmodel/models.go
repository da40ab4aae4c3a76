package sqlmodel

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/internal/session"
)

// Session defines the table sessions, which holds the bearer tokens and the cached user of each browser session.
type Session struct {
	ID           string    `gorm:"type:VARCHAR(64);primaryKey"`
	AccessToken  string    `gorm:"type:TEXT"`
	RefreshToken string    `gorm:"type:TEXT"`
	UserJSON     string    `gorm:"type:TEXT"` // The cached user object as JSON
	CreatedAt    time.Time `gorm:"not null"`
	ExpiresAt    time.Time `gorm:"index;not null"`
}

// TableName customizes the table name of Session.
func (Session) TableName() string {
	return "sessions"
}

// ToModel converts a `sqlmodel.Session` object to a `session.Data` object.
func (s *Session) ToModel() (*session.Data, error) {
	ret := &session.Data{
		ID:           s.ID,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		CreatedAt:    s.CreatedAt,
		ExpiresAt:    s.ExpiresAt,
	}

	if s.UserJSON != "" {
		var user common.Usuario
		if err := json.Unmarshal([]byte(s.UserJSON), &user); err != nil {
			return nil, errors.Wrapf(err, "usuario en caché no válido en la sesión %v", s.ID)
		}
		ret.User = &user
	}

	return ret, nil
}

// NewSessionFromModel creates a `sqlmodel.Session` object from a `session.Data` object. Times are stored in UTC.
func NewSessionFromModel(model *session.Data) (*Session, error) {
	ret := &Session{
		ID:           model.ID,
		AccessToken:  model.AccessToken,
		RefreshToken: model.RefreshToken,
		CreatedAt:    model.CreatedAt.UTC(),
		ExpiresAt:    model.ExpiresAt.UTC(),
	}

	if model.User != nil {
		userBytes, err := json.Marshal(model.User)
		if err != nil {
			return nil, errors.Wrap(err, "no se pudo serializar el usuario de la sesión")
		}
		ret.UserJSON = string(userBytes)
	}

	return ret, nil
}
