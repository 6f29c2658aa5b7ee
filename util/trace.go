package util

import (
	"time"

	"go.uber.org/zap"
)

// Trace 记录一段代码的耗时，用法：defer util.Trace(logger, "decode")()
func Trace(logger *zap.Logger, msg string) func() {
	start := time.Now()
	return func() {
		logger.Debug(msg, zap.Duration("elapsed", time.Since(start)))
	}
}
