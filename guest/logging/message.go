// Package logging forwards guest log records to the host logger.
package logging

import (
	"fmt"
	"log/slog"

	"go.uber.org/zap/zapcore"
)

// Extended log levels beyond slog to support Zap's additional levels
const (
	LevelDPanic slog.Level = slog.LevelError + 1 // 9
	LevelPanic  slog.Level = slog.LevelError + 2 // 10
	LevelFatal  slog.Level = slog.LevelError + 3 // 11
)

// LogMessage is the JSON record sent to the host through uwb_log_message.
type LogMessage struct {
	Level   int32             `json:"level"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

func slogLevel(level zapcore.Level) slog.Level {
	switch level {
	case zapcore.DebugLevel:
		return slog.LevelDebug
	case zapcore.InfoLevel:
		return slog.LevelInfo
	case zapcore.WarnLevel:
		return slog.LevelWarn
	case zapcore.ErrorLevel:
		return slog.LevelError
	case zapcore.DPanicLevel:
		return LevelDPanic
	case zapcore.PanicLevel:
		return LevelPanic
	case zapcore.FatalLevel:
		return LevelFatal
	default:
		return slog.LevelInfo
	}
}

// newLogMessage flattens a zap entry and its fields into a LogMessage.
// Field values are rendered with fmt so that errors, integers and strings all
// survive the trip to the host.
func newLogMessage(entry zapcore.Entry, fields []zapcore.Field) LogMessage {
	enc := zapcore.NewMapObjectEncoder()
	for _, field := range fields {
		field.AddTo(enc)
	}

	fieldMap := make(map[string]string, len(enc.Fields)+2)
	for k, v := range enc.Fields {
		fieldMap[k] = fmt.Sprint(v)
	}
	if entry.LoggerName != "" {
		fieldMap["logger"] = entry.LoggerName
	}
	if entry.Caller.Defined {
		fieldMap["caller"] = entry.Caller.String()
	}

	return LogMessage{
		Level:   int32(slogLevel(entry.Level)),
		Message: entry.Message,
		Fields:  fieldMap,
	}
}
