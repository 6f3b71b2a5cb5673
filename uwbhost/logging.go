package uwbhost

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogMessage is the JSON record a guest writes through uwb_log_message.
type LogMessage struct {
	Level   int32             `json:"level"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

func logMessageFn(ctx context.Context, mod api.Module, stack []uint64) {
	buf := uint32(stack[0])
	size := uint32(stack[1])

	logger := stackFromContext(ctx).Logger
	if logger == nil {
		return
	}

	raw, ok := mod.Memory().Read(buf, size)
	if !ok {
		logger.Error("log message out of guest memory range", zap.Uint32("ptr", buf), zap.Uint32("size", size))
		return
	}

	var msg LogMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		logger.Error("failed to unmarshal log message from guest", zap.Error(err))
		return
	}

	fields := make([]zap.Field, 0, len(msg.Fields))
	for k, v := range msg.Fields {
		fields = append(fields, zap.String(k, v))
	}

	if ce := logger.Check(zapLevelFromSlogLevel(slog.Level(msg.Level)), msg.Message); ce != nil {
		ce.Write(fields...)
	}
}

// zapLevelFromSlogLevel maps slog levels, plus the three levels the guest adds
// above error, onto zap levels. Guest panic and fatal records are logged at
// error so a guest cannot stop the host process.
func zapLevelFromSlogLevel(level slog.Level) zapcore.Level {
	switch {
	case level < slog.LevelInfo:
		return zapcore.DebugLevel
	case level < slog.LevelWarn:
		return zapcore.InfoLevel
	case level < slog.LevelError:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
