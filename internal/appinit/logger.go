package appinit

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/global"
	log "github.com/sirupsen/logrus"
)

// SetupLogger configures the standard logrus logger. If a log file is configured, entries go to stderr and the
// file; the returned closer closes the file and is a no-op otherwise.
func SetupLogger(info *LogInfo) (io.Closer, error) {
	level, err := log.ParseLevel(info.Level)
	if err != nil {
		return nil, errors.Wrapf(err, "nivel de log no válido '%v'", info.Level)
	}
	log.SetLevel(level)

	switch info.Format {
	case LogFormatJSON:
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	global.ShowTimingLogs = info.ShowTimingLogs

	if info.File == "" {
		log.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	file, err := os.OpenFile(info.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "no se pudo abrir el archivo de log '%v'", info.File)
	}
	log.SetOutput(io.MultiWriter(os.Stderr, file))

	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
