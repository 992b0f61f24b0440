// Package ziplog adapts a zap logger to the narrow engine.Logger
// interface the policy core depends on.
package ziplog

import "go.uber.org/zap"

// Adapter wraps a *zap.SugaredLogger so it satisfies engine.Logger
// without the core package importing zap directly.
type Adapter struct {
	log *zap.SugaredLogger
}

// New wraps logger.
func New(logger *zap.Logger) *Adapter {
	return &Adapter{log: logger.Sugar()}
}

func (a *Adapter) Info(msg string, fields ...interface{}) {
	a.log.Infow(msg, fields...)
}

func (a *Adapter) Warn(msg string, fields ...interface{}) {
	a.log.Warnw(msg, fields...)
}

func (a *Adapter) Error(msg string, fields ...interface{}) {
	a.log.Errorw(msg, fields...)
}
