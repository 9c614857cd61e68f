package logger

import (
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const appName = "scout"

var current atomic.Pointer[log.Logger]

func init() {
	current.Store(newLogger(os.Stdout, log.InfoLevel))
}

// Init 初始化全局日志，w 为 nil 时输出到标准输出
func Init(level string, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	current.Store(newLogger(w, ParseLevel(level)))
}

// ParseLevel 解析日志级别，无法识别时使用 info
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		Prefix:          appName,
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		ReportCaller:    true,
		CallerOffset:    1,
	})
	l.SetStyles(levelStyles())
	return l
}

// levelStyles 日志级别配色
func levelStyles() *log.Styles {
	styles := log.DefaultStyles()
	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().SetString("DEBUG").Bold(true).Foreground(lipgloss.Color("63"))
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().SetString("INFO").Bold(true).Foreground(lipgloss.Color("86"))
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().SetString("WARN").Bold(true).Foreground(lipgloss.Color("192"))
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().SetString("ERROR").Bold(true).Foreground(lipgloss.Color("204"))
	styles.Levels[log.FatalLevel] = lipgloss.NewStyle().SetString("FATAL").Bold(true).Foreground(lipgloss.Color("134"))
	return styles
}

// L 返回当前日志实例
func L() *log.Logger {
	return current.Load()
}

// With 返回携带固定字段的子日志
func With(keyvals ...any) *log.Logger {
	return L().With(keyvals...)
}

func Debug(format string, args ...any) {
	L().Debugf(format, args...)
}

func Info(format string, args ...any) {
	L().Infof(format, args...)
}

func Warn(format string, args ...any) {
	L().Warnf(format, args...)
}

func Error(format string, args ...any) {
	L().Errorf(format, args...)
}

func Fatal(format string, args ...any) {
	L().Fatalf(format, args...)
}

// LogPanic 记录 panic 及堆栈
func LogPanic(r any) {
	L().Errorf("💥 panic: %v\n%s", r, debug.Stack())
}
