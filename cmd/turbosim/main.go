package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dbehnke/turbosim/pkg/dashboard"
	"github.com/dbehnke/turbosim/pkg/harness"
	"github.com/dbehnke/turbosim/pkg/interleave"
	"github.com/dbehnke/turbosim/pkg/logger"
	"github.com/dbehnke/turbosim/pkg/metrics"
	"github.com/dbehnke/turbosim/pkg/notify"
	"github.com/dbehnke/turbosim/pkg/results"
	"github.com/dbehnke/turbosim/pkg/simconfig"
	"github.com/dbehnke/turbosim/pkg/trellis/presets"
)

var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	validate := flag.Bool("validate", false, "Validate configuration and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("turbosim %s\n", version)
		fmt.Printf("Git Commit: %s\n", gitCommit)
		fmt.Printf("Built: %s\n", buildTime)
		os.Exit(0)
	}

	log := logger.New(logger.Config{Level: "info", Format: "text"})

	log.Info("starting turbosim",
		logger.String("version", version),
		logger.String("commit", gitCommit),
		logger.String("build_time", buildTime))

	cfg, err := simconfig.Load(*configFile)
	if err != nil {
		log.Error("failed to load configuration", logger.Error(err))
		os.Exit(1)
	}

	if *validate {
		log.Info("configuration is valid")
		os.Exit(0)
	}

	log.Info("configuration loaded successfully", logger.String("config_file", *configFile))

	log = logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	log.Debug("debug logging enabled")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	tr, err := presets.Build(cfg.Trellis)
	if err != nil {
		log.Error("failed to build trellis", logger.Error(err))
		os.Exit(1)
	}

	il, err := buildInterleaver(cfg)
	if err != nil {
		log.Error("failed to build interleaver", logger.Error(err))
		os.Exit(1)
	}

	collector := metrics.NewCollector()

	if cfg.Metrics.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			srv := metrics.NewPrometheusServer(
				metrics.PrometheusConfig{Enabled: cfg.Metrics.Enabled, Port: cfg.Metrics.Port, Path: cfg.Metrics.Path},
				collector,
				log.WithComponent("metrics"),
			)
			if err := srv.Start(ctx); err != nil && err != context.Canceled {
				log.Error("prometheus metrics server error", logger.Error(err))
			}
		}()
		log.Info("prometheus metrics server started",
			logger.Int("port", cfg.Metrics.Port), logger.String("path", cfg.Metrics.Path))
	}

	var dashboardHub *dashboard.Hub
	if cfg.Dashboard.Enabled {
		dashSrv := dashboard.NewServer(dashboard.Config{
			Enabled: cfg.Dashboard.Enabled, Host: cfg.Dashboard.Host, Port: cfg.Dashboard.Port,
		}, log.WithComponent("dashboard"))
		dashboardHub = dashSrv.Hub()

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := dashSrv.Start(ctx); err != nil && err != context.Canceled {
				log.Error("dashboard server error", logger.Error(err))
			}
		}()
		log.Info("dashboard server started",
			logger.String("host", cfg.Dashboard.Host), logger.Int("port", cfg.Dashboard.Port))
	}

	var notifier *notify.Publisher
	if cfg.Notify.Enabled {
		notifier = notify.New(notify.Config{
			Enabled: cfg.Notify.Enabled, Broker: cfg.Notify.Broker,
			TopicPrefix: cfg.Notify.TopicPrefix, ClientID: cfg.Notify.ClientID,
		}, log.WithComponent("notify"))

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := notifier.Start(ctx); err != nil && err != context.Canceled {
				log.Error("notify publisher error", logger.Error(err))
			}
		}()
	}

	var store *results.Store
	if cfg.Output.Database.Enabled {
		store, err = results.NewStore(results.Config{Path: cfg.Output.Database.Path}, log.WithComponent("results"))
		if err != nil {
			log.Error("failed to initialize result store", logger.Error(err))
			os.Exit(1)
		}
		defer func() { _ = store.Close() }()
	}

	log.Info("turbosim initialized",
		logger.String("trellis", cfg.Trellis),
		logger.Int("frame_length", cfg.FrameLength),
		logger.Int("workers", cfg.Workers))

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		run, err := harness.Run(ctx, cfg, tr, il, harness.DefaultEncoderFactory, harness.DefaultDecoderFactory, log, harness.Deps{
			Collector: collector,
			Dashboard: dashboardHub,
			Notifier:  notifier,
			Store:     store,
			JSONPath:  cfg.Output.JSONPath,
			LogFile:   cfg.Output.LogFile,
		})
		if err != nil && err != context.Canceled {
			log.Error("sweep failed", logger.Error(err))
			return
		}

		for _, ebN0dB := range collector.EbN0s() {
			stat := collector.Get(ebN0dB)
			log.Info("sweep result",
				logger.Float64("ebn0_db", ebN0dB),
				logger.String("frames", humanize.Comma(int64(stat.Frames))),
				logger.String("bit_errors", humanize.Comma(int64(stat.BitErrors))),
				logger.Float64("ber", stat.BER()))
		}
		log.Info("sweep complete", logger.String("run_id", run.ID))
	}()

	select {
	case sig := <-sigChan:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
		cancel()
	case <-runDone:
		cancel()
	}

	if notifier != nil {
		notifier.Stop()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("clean shutdown completed")
	case <-time.After(5 * time.Second):
		log.Warn("shutdown timeout, forcing exit")
	}

	log.Info("turbosim stopped")
}

func buildInterleaver(cfg *simconfig.Config) (*interleave.Interleaver, error) {
	switch cfg.Interleaver.Type {
	case "block":
		return interleave.NewBlock(cfg.Interleaver.Width, cfg.Interleaver.Height)
	default:
		perm := make([]int, cfg.FrameLength)
		for i := range perm {
			perm[i] = i
		}
		return interleave.New(perm)
	}
}
