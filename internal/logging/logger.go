package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"itemstore/internal/config"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New constructs the process-wide zerolog logger. Messages go to stdout
// and, when a file path is configured, to a size-rotated log file as well.
// Rotation keeps a bounded number of backups; the file is written as-is in
// UTF-8, so non-ASCII message content survives intact.
func New(cfg config.LoggingConfig, app config.AppConfig) (*zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil {
		level = parsed
	}

	writers := []io.Writer{pipeWriter(os.Stdout)}

	var closer io.Closer
	if cfg.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		writers = append(writers, pipeWriter(rotator))
		closer = rotator
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	base := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("logger", app.Name).
		Logger()

	return &base, closer, nil
}

// pipeWriter renders events as `timestamp | LEVEL | logger | message`.
func pipeWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		PartsOrder: []string{zerolog.TimestampFieldName, zerolog.LevelFieldName, "logger", zerolog.MessageFieldName},
		FieldsExclude: []string{
			"logger",
		},
		FormatTimestamp: func(i any) string {
			raw := fmt.Sprintf("%v", i)
			if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
				raw = t.Format("2006-01-02 15:04:05")
			}
			return raw + " |"
		},
		FormatLevel: func(i any) string {
			return strings.ToUpper(fmt.Sprintf("%v", i)) + " |"
		},
		FormatPartValueByName: func(i any, name string) string {
			if name == "logger" {
				return fmt.Sprintf("%v |", i)
			}
			return fmt.Sprintf("%v", i)
		},
	}
}
