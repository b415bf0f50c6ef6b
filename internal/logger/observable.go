package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// ObservableLogger captures log entries for inspection in tests.
type ObservableLogger struct {
	sugar    *zap.SugaredLogger
	core     zapcore.Core
	recorded *observer.ObservedLogs
}

// NewObservable creates a logger whose output can be inspected via the
// returned ObservedLogs.
func NewObservable(level zapcore.Level) (*ObservableLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(level)
	sugar := zap.New(core).Sugar()
	return &ObservableLogger{
		sugar:    sugar,
		core:     core,
		recorded: recorded,
	}, recorded
}

func (l *ObservableLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *ObservableLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *ObservableLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *ObservableLogger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

func (l *ObservableLogger) WithFields(keysAndValues ...interface{}) Logger {
	return &ObservableLogger{
		sugar:    l.sugar.With(keysAndValues...),
		core:     l.core,
		recorded: l.recorded,
	}
}

var _ Logger = (*ObservableLogger)(nil)
