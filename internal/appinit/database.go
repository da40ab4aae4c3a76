package appinit

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/db"
	"github.com/prismaasset360/web/internal/session"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDatabase connects to the configured SQL database. It returns an error for the memory driver, which has no
// database behind it.
func OpenDatabase(info *DatabaseInfo) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch info.Driver {
	case DatabaseDriverMySQL:
		dialector = mysql.Open(info.DSN)
	case DatabaseDriverSQLite:
		dialector = sqlite.Open(info.DSN)
	default:
		return nil, fmt.Errorf("el controlador '%v' no usa una base de datos", info.Driver)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "no se pudo conectar a la base de datos (%v)", info.Driver)
	}

	if info.Driver == DatabaseDriverSQLite {
		// SQLite allows one writer at a time.
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, errors.Wrap(err, "no se pudo obtener la conexión a la base de datos")
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return gormDB, nil
}

// OpenSessionStore creates the session store for the configured driver. Database-backed stores get their table
// migrated. The returned closer releases the database connection.
func OpenSessionStore(info *DatabaseInfo) (session.Store, func() error, error) {
	if info.Driver == DatabaseDriverMemory {
		log.Warnln("Las sesiones se guardan en memoria y se perderán al reiniciar el servidor.")
		return session.NewMemoryStore(), func() error { return nil }, nil
	}

	gormDB, err := OpenDatabase(info)
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, errors.Wrap(err, "no se pudo obtener la conexión a la base de datos")
	}

	if err := db.Migrate(gormDB); err != nil {
		sqlDB.Close()
		return nil, nil, err
	}

	log.Infof("Sesiones guardadas en la base de datos (%v).", info.Driver)
	return db.NewSessionStore(gormDB), sqlDB.Close, nil
}

// MigrateDatabase creates or updates the tables of the configured database.
func MigrateDatabase(info *DatabaseInfo) error {
	if info.Driver == DatabaseDriverMemory {
		return fmt.Errorf("el controlador 'memory' no tiene tablas que migrar")
	}

	gormDB, err := OpenDatabase(info)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return errors.Wrap(err, "no se pudo obtener la conexión a la base de datos")
	}
	defer sqlDB.Close()

	return db.Migrate(gormDB)
}
