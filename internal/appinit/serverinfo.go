package appinit

import (
	"fmt"
	"os"
	"strings"
	"time"

	errors "github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Database drivers the session store can run on.
const (
	DatabaseDriverMySQL  = "mysql"
	DatabaseDriverSQLite = "sqlite"
	DatabaseDriverMemory = "memory"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// ServerInfo is the Go struct for contents in server.yaml.
type ServerInfo struct {
	Port           int                `yaml:"port"`
	NodeID         int64              `yaml:"nodeId"`         // Snowflake node number for request IDs
	AllowedOrigins []string           `yaml:"allowedOrigins"` // Origins accepted by CORS and the websocket
	Backend        *BackendInfo       `yaml:"backend"`
	Session        *SessionInfo       `yaml:"session"`
	Database       *DatabaseInfo      `yaml:"database"`
	Log            *LogInfo           `yaml:"log"`
	Notifications  *NotificationsInfo `yaml:"notifications"`
}

// BackendInfo locates the REST backend.
type BackendInfo struct {
	APIPrefix      string `yaml:"apiPrefix"` // e.g. "http://localhost:8080/api"
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// Timeout returns the per-request timeout of backend calls.
func (b *BackendInfo) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// SessionInfo configures the session cookie and its lifetime.
type SessionInfo struct {
	CookieName           string `yaml:"cookieName"`
	TTLHours             int    `yaml:"ttlHours"`
	SecureCookie         bool   `yaml:"secureCookie"`
	SweepIntervalMinutes int    `yaml:"sweepIntervalMinutes"`
}

// TTL returns how long an idle session lives.
func (s *SessionInfo) TTL() time.Duration {
	return time.Duration(s.TTLHours) * time.Hour
}

// SweepInterval returns how often expired sessions are deleted.
func (s *SessionInfo) SweepInterval() time.Duration {
	return time.Duration(s.SweepIntervalMinutes) * time.Minute
}

// DatabaseInfo selects where sessions are kept.
type DatabaseInfo struct {
	Driver string `yaml:"driver"` // mysql, sqlite or memory
	DSN    string `yaml:"dsn"`
}

// LogInfo configures logrus.
type LogInfo struct {
	Level          string `yaml:"level"`
	Format         string `yaml:"format"`
	File           string `yaml:"file"` // Log to the file as well as stderr if set
	ShowTimingLogs bool   `yaml:"showTimingLogs"`
}

// NotificationsInfo configures the unread-count push.
type NotificationsInfo struct {
	PollIntervalSeconds int `yaml:"pollIntervalSeconds"`
}

// PollInterval returns how often each websocket connection asks the backend for the unread count.
func (n *NotificationsInfo) PollInterval() time.Duration {
	return time.Duration(n.PollIntervalSeconds) * time.Second
}

// LoadServerInfo loads the server config file (in YAML) which contains info needed to start a server.
//
// Parameters:
//   the path to the config file
//
// Returns:
//   the `ServerInfo` struct with defaults applied for the missing values
func LoadServerInfo(configFilePath string) (ret ServerInfo, err error) {
	yamlStr, err := os.ReadFile(configFilePath)
	if err != nil {
		err = errors.Wrap(err, "no se pudo leer el archivo de configuración del servidor")
		return
	}

	return ParseServerInfo(yamlStr)
}

// ParseServerInfo parses the YAML config, applies the defaults and validates the result.
func ParseServerInfo(yamlStr []byte) (ret ServerInfo, err error) {
	err = yaml.Unmarshal(yamlStr, &ret)
	if err != nil {
		err = errors.Wrap(err, "error al analizar el archivo YAML")
		return
	}

	ret.applyDefaults()
	err = ret.validate()
	return
}

func (s *ServerInfo) applyDefaults() {
	if s.Port == 0 {
		s.Port = 3000
	}
	if s.NodeID == 0 {
		s.NodeID = 1
	}

	if s.Backend == nil {
		s.Backend = &BackendInfo{}
	}
	if s.Backend.APIPrefix == "" {
		s.Backend.APIPrefix = "http://localhost:8080/api"
	}
	if s.Backend.TimeoutSeconds == 0 {
		s.Backend.TimeoutSeconds = 15
	}

	if s.Session == nil {
		s.Session = &SessionInfo{}
	}
	if s.Session.CookieName == "" {
		s.Session.CookieName = "pa360_sid"
	}
	if s.Session.TTLHours == 0 {
		s.Session.TTLHours = 12
	}
	if s.Session.SweepIntervalMinutes == 0 {
		s.Session.SweepIntervalMinutes = 10
	}

	if s.Database == nil {
		s.Database = &DatabaseInfo{}
	}
	if s.Database.Driver == "" {
		s.Database.Driver = DatabaseDriverMemory
	}
	s.Database.Driver = strings.ToLower(s.Database.Driver)

	if s.Log == nil {
		s.Log = &LogInfo{}
	}
	if s.Log.Level == "" {
		s.Log.Level = "info"
	}
	if s.Log.Format == "" {
		s.Log.Format = LogFormatText
	}
	s.Log.Format = strings.ToLower(s.Log.Format)

	if s.Notifications == nil {
		s.Notifications = &NotificationsInfo{}
	}
	if s.Notifications.PollIntervalSeconds == 0 {
		s.Notifications.PollIntervalSeconds = 30
	}
}

func (s *ServerInfo) validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("puerto no válido: %v", s.Port)
	}

	if !strings.HasPrefix(s.Backend.APIPrefix, "http://") && !strings.HasPrefix(s.Backend.APIPrefix, "https://") {
		return fmt.Errorf("backend.apiPrefix debe ser una URL http(s): '%v'", s.Backend.APIPrefix)
	}
	if s.Backend.TimeoutSeconds < 0 {
		return fmt.Errorf("backend.timeoutSeconds no puede ser negativo")
	}

	if s.Session.TTLHours < 0 || s.Session.SweepIntervalMinutes < 0 {
		return fmt.Errorf("session.ttlHours y session.sweepIntervalMinutes no pueden ser negativos")
	}

	switch s.Database.Driver {
	case DatabaseDriverMemory:
	case DatabaseDriverMySQL, DatabaseDriverSQLite:
		if s.Database.DSN == "" {
			return fmt.Errorf("database.dsn es obligatorio para el controlador '%v'", s.Database.Driver)
		}
	default:
		return fmt.Errorf("controlador de base de datos no soportado: '%v'", s.Database.Driver)
	}

	if s.Log.Format != LogFormatText && s.Log.Format != LogFormatJSON {
		return fmt.Errorf("formato de log no soportado: '%v'", s.Log.Format)
	}

	if s.Notifications.PollIntervalSeconds < 0 {
		return fmt.Errorf("notifications.pollIntervalSeconds no puede ser negativo")
	}

	return nil
}
