// Package logging wraps logrus with a rotating file writer, the same
// ambient logging shape the teacher uses package-wide (pkg/logger),
// narrowed to a plain size/age-based rotation since this library has no
// notion of trading cycles to name log files after.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the package-level instance every helper below writes through.
var Logger *logrus.Logger

var initMu sync.Mutex

// Config controls log level and optional file rotation.
type Config struct {
	Level      string // debug, info, warn, error
	OutputFile string // optional; console-only when empty
	MaxSize    int    // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// DefaultConfig is a reasonable starting point for a CLI or long-running
// process embedding this module.
func DefaultConfig() Config {
	return Config{Level: "info", MaxSize: 50, MaxBackups: 3, MaxAge: 7, Compress: true}
}

// Init configures the package logger. Safe to call more than once; the
// latest configuration wins.
func Init(cfg Config) error {
	initMu.Lock()
	defer initMu.Unlock()

	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})

	writers := []io.Writer{os.Stdout}
	if cfg.OutputFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.OutputFile), 0o755); err != nil {
			return err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.OutputFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}
	logger.SetOutput(io.MultiWriter(writers...))

	Logger = logger
	return nil
}

func entry() *logrus.Entry {
	if Logger == nil {
		Logger = logrus.New()
	}
	return logrus.NewEntry(Logger)
}

// WithField starts a structured log entry, e.g. WithField("tx_id", id).Info("submitted").
func WithField(key string, value interface{}) *logrus.Entry {
	return entry().WithField(key, value)
}

// WithFields starts a structured log entry with multiple fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return entry().WithFields(fields)
}

func Debugf(format string, args ...interface{}) { entry().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { entry().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { entry().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { entry().Errorf(format, args...) }
