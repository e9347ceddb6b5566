package logger

import (
	"go.uber.org/zap"
)

// NewLogger builds the process-wide production logger. Components receive it
// by injection; nothing reads a package-level global.
func NewLogger() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return l
}
