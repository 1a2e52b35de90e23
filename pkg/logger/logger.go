package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Level уровень логирования
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel преобразует строковый уровень из конфигурации.
// Неизвестные значения трактуются как info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger пишет логи одновременно в файл и stdout
type Logger struct {
	std   *log.Logger
	level Level
	file  *os.File
}

// New создает логгер, пишущий в указанный файл и stdout.
// Если path пустой, пишет только в stdout.
func New(path string, level string) (*Logger, error) {
	var writers []io.Writer
	writers = append(writers, os.Stdout)

	var file *os.File
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("logger: failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logger: failed to open log file: %w", err)
		}
		file = f
		writers = append(writers, f)
	}

	return &Logger{
		std:   log.New(io.MultiWriter(writers...), "", log.LstdFlags),
		level: ParseLevel(level),
		file:  file,
	}, nil
}

// Close закрывает файл логов
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Debug пишет сообщение уровня DEBUG
func (l *Logger) Debug(format string, v ...interface{}) {
	l.write(LevelDebug, "DEBUG", format, v...)
}

// Info пишет сообщение уровня INFO
func (l *Logger) Info(format string, v ...interface{}) {
	l.write(LevelInfo, "INFO", format, v...)
}

// Warn пишет сообщение уровня WARN
func (l *Logger) Warn(format string, v ...interface{}) {
	l.write(LevelWarn, "WARN", format, v...)
}

// Error пишет сообщение уровня ERROR
func (l *Logger) Error(format string, v ...interface{}) {
	l.write(LevelError, "ERROR", format, v...)
}

// Fatal пишет сообщение уровня ERROR и завершает процесс
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.write(LevelError, "FATAL", format, v...)
	if l.file != nil {
		l.file.Close()
	}
	os.Exit(1)
}

func (l *Logger) write(level Level, tag string, format string, v ...interface{}) {
	if level < l.level {
		return
	}
	l.std.Printf("[%s] %s", tag, fmt.Sprintf(format, v...))
}
