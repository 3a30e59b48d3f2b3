// Package log provides structured logging infrastructure with filesystem-based persistence.
package log

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cinelane/cinelane/filesystem"
	"github.com/cinelane/cinelane/key"
	"github.com/cinelane/cinelane/where"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// enabled reports whether log writing was requested for this process.
var enabled bool

// Fields is an alias so call sites do not import logrus directly.
type Fields = logrus.Fields

// Setup opens the daily log file and configures format and level from the global configuration.
// If logging is disabled, every emission below is silently discarded.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	path := filepath.Join(dir, time.Now().Format("2006-01-02")+".log")

	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	return nil
}

// Entry is a field-scoped logger that respects the enabled switch.
type Entry struct {
	fields Fields
}

// With returns an Entry carrying the given fields.
func With(fields Fields) Entry {
	return Entry{fields: fields}
}

func (e Entry) Debugf(format string, args ...any) {
	if enabled {
		logrus.WithFields(e.fields).Debugf(format, args...)
	}
}

func (e Entry) Infof(format string, args ...any) {
	if enabled {
		logrus.WithFields(e.fields).Infof(format, args...)
	}
}

func (e Entry) Warnf(format string, args ...any) {
	if enabled {
		logrus.WithFields(e.fields).Warnf(format, args...)
	}
}

func (e Entry) Errorf(format string, args ...any) {
	if enabled {
		logrus.WithFields(e.fields).Errorf(format, args...)
	}
}

// Severity-specific emissions, forwarded only when logging is enabled.

func Error(args ...any) {
	if enabled {
		logrus.Error(args...)
	}
}
func Errorf(format string, args ...any) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}
func Warn(args ...any) {
	if enabled {
		logrus.Warn(args...)
	}
}
func Warnf(format string, args ...any) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}
func Info(args ...any) {
	if enabled {
		logrus.Info(args...)
	}
}
func Infof(format string, args ...any) {
	if enabled {
		logrus.Infof(format, args...)
	}
}
func Debugf(format string, args ...any) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}
func Tracef(format string, args ...any) {
	if enabled {
		logrus.Tracef(format, args...)
	}
}
