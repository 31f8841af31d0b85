package log

import "go.uber.org/zap"

// --- ZapLogger: keeps events in memory and mirrors them to zap ---

type ZapLogger struct {
	MemoryLogger
	z *zap.Logger
}

// NewZapLogger mirrors every event to z at debug level, and wins, draws and
// knockouts at info level.
func NewZapLogger(z *zap.Logger) *ZapLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return &ZapLogger{z: z}
}

func (l *ZapLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	e := l.LastEvent()

	fields := []zap.Field{
		zap.Int("seq", e.Seq),
		zap.Int("turn", e.Turn),
		zap.String("phase", e.Phase),
		zap.Int("player", e.Player),
		zap.String("type", e.Type.String()),
	}
	if e.Card != "" {
		fields = append(fields, zap.String("card", e.Card))
	}

	switch e.Type {
	case EventWin, EventGameDrawn, EventKnockout:
		l.z.Info(e.Details, fields...)
	default:
		l.z.Debug(e.Details, fields...)
	}
}
