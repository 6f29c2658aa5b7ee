package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// Pinger 后端健康检查，例如 rembg.Remote
type Pinger interface {
	Ping(ctx context.Context) error
}

// Reporter 按 cron 表达式定时输出计数，并检查后端可达性
type Reporter struct {
	cron     *cron.Cron
	counters *Counters
	pinger   Pinger
	logger   *zap.Logger
}

// NewReporter pinger 可以为 nil
func NewReporter(counters *Counters, pinger Pinger, logger *zap.Logger) *Reporter {
	return &Reporter{
		cron:     cron.New(),
		counters: counters,
		pinger:   pinger,
		logger:   logger.With(zap.String("component", "stats")),
	}
}

func (r *Reporter) Start(schedule string) error {
	if _, err := r.cron.AddFunc(schedule, r.report); err != nil {
		return fmt.Errorf("schedule stats report %q: %w", schedule, err)
	}
	r.cron.Start()
	r.logger.Info("stats reporter started", zap.String("schedule", schedule))
	return nil
}

// Stop 停止调度，返回的 ctx 在正在执行的任务结束后关闭
func (r *Reporter) Stop() context.Context {
	return r.cron.Stop()
}

func (r *Reporter) report() {
	s := r.counters.Snapshot()
	r.logger.Info("request stats",
		zap.Int64("crop_ok", s.CropOK),
		zap.Int64("crop_failed", s.CropFailed),
		zap.Int64("crop_rejected", s.CropRejected),
		zap.Int64("proxied", s.Proxied),
		zap.Int64("proxy_failed", s.ProxyFailed),
	)

	if r.pinger == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := r.pinger.Ping(ctx); err != nil {
		r.logger.Warn("rembg backend ping failed", zap.Error(err))
	}
}
