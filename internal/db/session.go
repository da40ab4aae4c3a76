package db

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/models/sqlmodel"
	"github.com/prismaasset360/web/internal/session"
	"github.com/prismaasset360/web/pkg/errorcode"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionStore implements `session.Store` on a relational database through gorm.
type SessionStore struct {
	DB *gorm.DB
}

// NewSessionStore creates a SessionStore on the database.
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{DB: db}
}

// Migrate creates or updates the sessions table.
func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(&sqlmodel.Session{}), "no se pudo migrar la tabla de sesiones")
}

// Get reads the session with the ID from the database.
func (s *SessionStore) Get(id string) (*session.Data, error) {
	var sessionDB sqlmodel.Session
	dbResult := s.DB.Where("id = ?", id).Take(&sessionDB)
	if dbResult.Error != nil {
		if errors.Cause(dbResult.Error) == gorm.ErrRecordNotFound {
			return nil, errorcode.ErrorNotFound
		} else {
			return nil, errors.Wrap(dbResult.Error, "no se pudo leer la sesión de la base de datos")
		}
	}

	return sessionDB.ToModel()
}

// Save writes or overwrites the session in the database.
func (s *SessionStore) Save(data *session.Data) error {
	sessionDB, err := sqlmodel.NewSessionFromModel(data)
	if err != nil {
		return err
	}

	dbResult := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(sessionDB)
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "no se pudo guardar la sesión en la base de datos")
	}

	return nil
}

// Delete removes the session from the database.
func (s *SessionStore) Delete(id string) error {
	dbResult := s.DB.Where("id = ?", id).Delete(&sqlmodel.Session{})
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "no se pudo eliminar la sesión de la base de datos")
	}

	return nil
}

// DeleteExpired removes the sessions that expired before `now`.
func (s *SessionStore) DeleteExpired(now time.Time) (int64, error) {
	dbResult := s.DB.Where("expires_at < ?", now.UTC()).Delete(&sqlmodel.Session{})
	if dbResult.Error != nil {
		return 0, errors.Wrap(dbResult.Error, "no se pudieron eliminar las sesiones expiradas")
	}

	return dbResult.RowsAffected, nil
}
