// Package logging provides structured, colorful logging for the withdrawal
// daemon, the CLI and every internal component that reports on batch progress.
//
// Output follows Unix conventions: INFO and SUCCESS lines go to stdout while
// WARN, ERROR and DEBUG lines go to stderr. A single log file can replace both
// streams for daemon deployments.
//
// LOGGING FEATURES:
//   - Color-coded levels: DEBUG (purple), INFO (blue), WARN (yellow), ERROR (red), SUCCESS (green)
//   - Level filtering shared by both streams
//   - LevelWriter for libraries that expect an io.Writer (gin, resty, stdlib log)
//   - Output suppression for CLI tools that render their own tables
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	stdlog "log"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	// mu guards logger replacement; the loggers themselves are goroutine safe.
	mu sync.RWMutex

	// Logger for INFO/SUCCESS messages (stdout by default)
	stdoutLogger = newLogger(os.Stdout)

	// Logger for WARN/ERROR/DEBUG messages (stderr by default)
	stderrLogger = newLogger(os.Stderr)

	// Track if logging has been explicitly configured by CLI tools
	cliConfigured = false

	// Destination used by Success, which builds its own styled logger
	successOutput io.Writer = os.Stdout
)

// newLogger creates a timestamped logger with the house color scheme.
func newLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	l.SetStyles(setupCustomStyles())
	return l
}

// setupCustomStyles creates custom color styling for log levels. Colors are
// chosen to stay readable on both light and dark terminals.
func setupCustomStyles() *log.Styles {
	styles := log.DefaultStyles()

	// DEBUG: light purple
	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG").
		Foreground(lipgloss.Color("#7F6DFF"))

	// INFO: light blue
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Foreground(lipgloss.Color("#42E7FF"))

	// WARN: light yellow
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Foreground(lipgloss.Color("#FFE763"))

	// ERROR: light red/pink
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Foreground(lipgloss.Color("#FF4473"))

	return styles
}

func stdout() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return stdoutLogger
}

func stderr() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return stderrLogger
}

// Info logs informational messages such as batch start and completion.
// Uses stdout following Unix conventions (or log file when specified).
func Info(format string, v ...any) {
	stdout().Info(fmt.Sprintf(format, v...))
}

// Warn logs warning messages for non-critical issues requiring attention,
// for example a rejected submission while another batch is in flight.
func Warn(format string, v ...any) {
	stderr().Warn(fmt.Sprintf(format, v...))
}

// Error logs failures such as a withdrawal request the school server refused.
func Error(format string, v ...any) {
	stderr().Error(fmt.Sprintf(format, v...))
}

// Debug logs detailed debugging information such as every dispatched unit.
func Debug(format string, v ...any) {
	stderr().Debug(fmt.Sprintf(format, v...))
}

// Success logs successful operations in green using INFO level with custom
// styling. It respects INFO level filtering.
func Success(format string, v ...any) {
	base := stdout()
	if base.GetLevel() > log.InfoLevel {
		return
	}

	mu.RLock()
	out := successOutput
	mu.RUnlock()

	styles := setupCustomStyles()
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("SUCCESS").
		Foreground(lipgloss.Color("#60F281")) // Light green

	tempLogger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	tempLogger.SetStyles(styles)
	tempLogger.Info(fmt.Sprintf(format, v...))
}

// parseLevel maps DEBUG/INFO/WARN/ERROR to charmbracelet levels. Unknown
// values fall back to INFO.
func parseLevel(level string) log.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return log.DebugLevel
	case "INFO":
		return log.InfoLevel
	case "WARN":
		return log.WarnLevel
	case "ERROR":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// SetLevel configures the minimum logging level for both streams.
// Accepts DEBUG, INFO, WARN or ERROR; anything else selects INFO.
func SetLevel(level string) {
	logLevel := parseLevel(level)
	stdout().SetLevel(logLevel)
	stderr().SetLevel(logLevel)
}

// SetOutput configures log output destination. When w is non-nil every level
// goes to w (overriding the stdout/stderr split). When nil, all output is
// suppressed. The current level is preserved.
func SetOutput(w io.Writer) {
	if w == nil {
		stdout().SetLevel(log.FatalLevel + 1)
		stderr().SetLevel(log.FatalLevel + 1)
		return
	}

	level := stdout().GetLevel()

	mu.Lock()
	stdoutLogger = newLogger(w)
	stderrLogger = newLogger(w)
	successOutput = w
	mu.Unlock()

	stdout().SetLevel(level)
	stderr().SetLevel(level)
}

// SuppressOutput disables INFO/WARN/DEBUG logs while keeping ERROR logs visible.
// Used by the CLI so per-unit output is not drowned in engine logs.
func SuppressOutput() {
	stdout().SetLevel(log.ErrorLevel)
	stderr().SetLevel(log.ErrorLevel)

	mu.Lock()
	cliConfigured = true
	mu.Unlock()
}

// RestoreOutput restores Unix conventions at INFO level and above.
func RestoreOutput() {
	mu.Lock()
	stdoutLogger = newLogger(os.Stdout)
	stderrLogger = newLogger(os.Stderr)
	successOutput = os.Stdout
	cliConfigured = true
	mu.Unlock()

	stdout().SetLevel(log.InfoLevel)
	stderr().SetLevel(log.InfoLevel)
}

// IsConfiguredByCLI returns true if logging has been explicitly configured by CLI tools.
func IsConfiguredByCLI() bool {
	mu.RLock()
	defer mu.RUnlock()
	return cliConfigured
}

// ============================================================================
// GENERIC LOG INTEGRATION - General purpose writers for third-party libraries
// ============================================================================

// LevelWriter forwards log lines to a specific log level with optional prefix.
// Useful for integrating third-party libraries that expect io.Writer interfaces.
type LevelWriter struct {
	level  string
	prefix string
}

// NewLevelWriter creates a writer that logs each line at the specified level with prefix.
// Valid levels: DEBUG, INFO, WARN, ERROR
func NewLevelWriter(level, prefix string) io.Writer {
	return &LevelWriter{level: strings.ToUpper(level), prefix: prefix}
}

// Write splits input into lines and logs each one at the configured level.
func (w *LevelWriter) Write(p []byte) (int, error) {
	lines := strings.Split(string(p), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		msg := line
		if w.prefix != "" {
			msg = w.prefix + ": " + line
		}
		switch w.level {
		case "DEBUG":
			Debug("%s", msg)
		case "WARN":
			Warn("%s", msg)
		case "ERROR":
			Error("%s", msg)
		default:
			Info("%s", msg)
		}
	}
	return len(p), nil
}

// RedirectStandardLog redirects Go's standard library logger output to the provided writer.
// Passing nil discards standard log output.
func RedirectStandardLog(w io.Writer) {
	if w == nil {
		stdlog.SetOutput(io.Discard)
		return
	}
	stdlog.SetOutput(w)
}
