package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	logFile  *os.File
	initOnce sync.Once
)

// Init configures the global zerolog logger with the specified level and
// optional log file. Output goes to stderr and, when logFilePath is set, to
// the file as well. Stdout is never written: on the server side it carries
// the JSON-RPC stream, on the client side it belongs to the user.
func Init(level string, logFilePath string) error {
	var err error
	initOnce.Do(func() {
		logLevel := zerolog.InfoLevel
		if level != "" {
			logLevel, err = zerolog.ParseLevel(level)
			if err != nil {
				err = fmt.Errorf("invalid log level %q: %w", level, err)
				return
			}
		}

		writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}}
		if logFilePath != "" {
			// Create directory if it doesn't exist
			if err = os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
				err = fmt.Errorf("failed to create log directory: %w", err)
				return
			}

			logFile, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				err = fmt.Errorf("failed to open log file: %w", err)
				return
			}
			writers = append(writers, logFile)
		}

		log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
			Level(logLevel).
			With().Timestamp().Logger()

		log.Debug().Str("level", logLevel.String()).Str("file", logFilePath).Msg("logger initialized")
	})
	return err
}

// Close closes the log file if one is open
func Close() {
	if logFile != nil {
		logFile.Close()
	}
}
