// Package main is the entry point for the CheckLogs metrics agent.
// It loads configuration, registers collectors and runs the scheduler loop
// until interrupted, either in the foreground or as a Windows service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/checklogs/agent/internal/collector"
	"github.com/checklogs/agent/internal/config"
	"github.com/checklogs/agent/internal/platform"
	"github.com/checklogs/agent/internal/scheduler"
	"github.com/checklogs/agent/internal/sender"
	"github.com/checklogs/agent/internal/service"
)

var (
	// version is set at build time via -ldflags.
	version = "dev"

	configPath  = flag.String("config", "", "Path to YAML configuration file (default: search standard locations)")
	envFile     = flag.String("env-file", "", "Path to a .env file (default: ./.env if present)")
	showVersion = flag.Bool("version", false, "Show version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("checklogs-agent %s\n", version)
		os.Exit(0)
	}

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}

	cfg, err := config.Load(*configPath, envFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	defer logger.Sync()

	logger.Info("CheckLogs Agent starting", zap.String("version", version))

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	logger.Info("Configuration valid",
		zap.String("api_key", maskSecret(cfg.Server.APIKey)),
		zap.String("api_addr", cfg.Addr()),
		zap.String("server_name", cfg.Identity.ServerName),
		zap.Duration("interval", cfg.Collection.Interval.Duration))

	svc := service.New(logger, func(ctx context.Context) {
		runAgent(ctx, cfg, logger)
	})
	if err := svc.Run(); err != nil {
		logger.Fatal("Service failed", zap.Error(err))
	}
	logger.Info("Agent stopped")
}

// runAgent wires collectors, assembler and sender into the scheduler and
// blocks until the context is cancelled.
func runAgent(ctx context.Context, cfg *config.Config, logger *zap.Logger) {
	registry := collector.NewRegistry(logger.Named("collector"))
	registerCollectors(registry, cfg, logger)

	assembler := scheduler.NewAssembler(cfg.AgentIdentity(), registry, logger.Named("assembler"))
	snd := sender.New(cfg.Addr(), logger.Named("sender"))
	sched := scheduler.New(assembler, snd, cfg, logger.Named("scheduler"))

	logger.Info("Agent running",
		zap.Duration("collect_interval", cfg.Collection.Interval.Duration),
		zap.Int("top_processes", cfg.Collection.TopProcesses))
	sched.Start(ctx)
}

// registerCollectors registers every metric family in reporting order.
// Uptime has no flag and is always enabled.
func registerCollectors(registry *collector.Registry, cfg *config.Config, logger *zap.Logger) {
	c := cfg.Collection
	registry.Register(collector.NewCPUCollector(), c.CPU)
	registry.Register(collector.NewRAMCollector(), c.RAM)
	registry.Register(collector.NewDiskCollector(logger.Named("disk")), c.Disk)
	registry.Register(collector.NewLoadCollector(platform.New()), c.Load)
	registry.Register(collector.NewUptimeCollector(), true)
	registry.Register(collector.NewProcessCollector(c.TopProcesses, logger.Named("processes")), c.Processes)
}

// maskSecret keeps the first eight characters of a secret for log output.
func maskSecret(s string) string {
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:8] + "..."
}

// initLogger creates a zap logger based on the configuration.
// It outputs to the console (human-readable) and optionally a JSON log file.
func initLogger(cfg *config.Config) *zap.Logger {
	var level zapcore.Level
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = zapcore.DebugLevel
	case "warn", "warning":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	case "critical":
		level = zapcore.DPanicLevel
	default:
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	cores := []zapcore.Core{consoleCore}

	if cfg.Logging.File != "" {
		file, err := os.OpenFile(cfg.Logging.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		if err == nil {
			fileCore := zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderConfig),
				zapcore.AddSync(file),
				level,
			)
			cores = append(cores, fileCore)
		}
	}

	return zap.New(zapcore.NewTee(cores...))
}
