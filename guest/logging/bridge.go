package logging

import "go.uber.org/zap/zapcore"

// hostBridgeCore implements zapcore.Core and hands every entry to send.
// Level filtering is left to the host.
type hostBridgeCore struct {
	fields []zapcore.Field
	send   func(LogMessage)
}

func newHostBridgeCore(send func(LogMessage)) *hostBridgeCore {
	return &hostBridgeCore{send: send}
}

func (c *hostBridgeCore) Enabled(zapcore.Level) bool {
	return true
}

func (c *hostBridgeCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &hostBridgeCore{fields: merged, send: c.send}
}

func (c *hostBridgeCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, c)
	}
	return checkedEntry
}

func (c *hostBridgeCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := fields
	if len(c.fields) > 0 {
		all = append(append([]zapcore.Field{}, c.fields...), fields...)
	}
	c.send(newLogMessage(entry, all))
	return nil
}

// Sync is a no-op; every entry is delivered synchronously.
func (c *hostBridgeCore) Sync() error {
	return nil
}
