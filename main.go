package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/chaos-io/cropserver/config"
	"github.com/chaos-io/cropserver/crop"
	"github.com/chaos-io/cropserver/logging"
	"github.com/chaos-io/cropserver/rembg"
	"github.com/chaos-io/cropserver/server"
	"github.com/chaos-io/cropserver/stats"
	nhttp "github.com/chaos-io/cropserver/util/http"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "config file (default ./config.toml if present)")
	pflag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run 返回后所有 defer 均已执行，main 再决定退出码
func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	gin.SetMode(gin.ReleaseMode)

	cli := nhttp.NewHTTPClient()
	remover, err := rembg.New(cfg.RemBG, cli)
	if err != nil {
		logger.Error("init background remover", zap.Error(err))
		return fmt.Errorf("init background remover: %w", err)
	}
	processor := crop.NewProcessor(remover, cfg.Image.MaxSide, cfg.Image.AlphaThreshold)

	counters := &stats.Counters{}
	if cfg.Stats.Enabled {
		var pinger stats.Pinger
		if p, ok := remover.(stats.Pinger); ok {
			pinger = p
		}
		reporter := stats.NewReporter(counters, pinger, logger)
		if err := reporter.Start(cfg.Stats.Schedule); err != nil {
			logger.Error("start stats reporter", zap.Error(err))
			return err
		}
		defer reporter.Stop()
	}

	router := server.NewRouter(server.Deps{
		Config:    cfg,
		Processor: processor,
		Client:    cli,
		Counters:  counters,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("crop server listening",
		zap.String("addr", srv.Addr),
		zap.String("rembg_backend", cfg.RemBG.Backend),
		zap.Strings("allowed_origins", cfg.Server.AllowedOrigins),
	)
	if err := server.Serve(srv, cfg.Server.ShutdownTimeout, logger, nil, nil); err != nil {
		logger.Error("server failed", zap.Error(err))
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("crop server stopped")
	return nil
}
