// Package logging wires bot_log / bot_loglevel into a leveled, rotating
// logger. zerolog is used instead of the standard library's log/slog
// because it has native Trace and Fatal levels matching the configuration
// surface's six-level enum without a translation shim.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// maxLogSizeMB is the log file's rotation threshold.
const maxLogSizeMB = 10

// New builds a zerolog.Logger writing to both stderr (human-readable) and a
// rotating file at path, at the level named by levelName.
func New(path, levelName string) (zerolog.Logger, error) {
	level, err := ParseLevel(levelName)
	if err != nil {
		return zerolog.Logger{}, err
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}

	var fileWriter io.Writer
	if path != "" {
		fileWriter = &lumberjack.Logger{
			Filename: path,
			MaxSize:  maxLogSizeMB,
		}
	}

	var writer io.Writer
	if fileWriter != nil {
		writer = zerolog.MultiLevelWriter(console, fileWriter)
	} else {
		writer = console
	}

	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return logger, nil
}

// ParseLevel maps the configuration surface's TRACE..FATAL enum onto
// zerolog levels.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToUpper(name) {
	case "TRACE":
		return zerolog.TraceLevel, nil
	case "DEBUG":
		return zerolog.DebugLevel, nil
	case "INFO":
		return zerolog.InfoLevel, nil
	case "WARNING":
		return zerolog.WarnLevel, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	case "FATAL":
		return zerolog.FatalLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
}
