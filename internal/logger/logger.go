// ABOUTME: Structured levelled logging backed by a rotating log file.
// ABOUTME: All helpers are no-ops until Init is called.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the log file created under <dir>/logs.
const FileName = "daybook.log"

// Logger is the process-wide logger. Nil means logging is off.
var Logger *log.Logger

var rotator *lumberjack.Logger

// Config controls where and how verbosely Init logs.
type Config struct {
	Debug bool
	// Dir receives a logs/ subdirectory holding the rotating file.
	Dir string
	// Stderr mirrors output to this writer in debug mode. Defaults to os.Stderr.
	Stderr io.Writer
}

// Init installs the global logger.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.Dir, "logs")
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return err
	}

	Close()
	rotator = &lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}

	level := log.InfoLevel
	var out io.Writer = rotator
	if cfg.Debug {
		level = log.DebugLevel
		stderr := cfg.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		out = io.MultiWriter(stderr, rotator)
	}

	Logger = log.NewWithOptions(out, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "daybook",
	})
	return nil
}

// Close flushes and detaches the log file.
func Close() {
	if rotator != nil {
		_ = rotator.Close()
		rotator = nil
	}
	Logger = nil
}

// Debug logs at debug level.
func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs at info level.
func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs at warn level.
func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs at error level.
func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
