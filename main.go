package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"interview-runtime/internal/api"
	"interview-runtime/internal/config"
	"interview-runtime/internal/console"
	"interview-runtime/internal/interviewer"
	"interview-runtime/internal/logging"
	"interview-runtime/internal/metrics"
	"interview-runtime/internal/runtime"
	"interview-runtime/internal/storage"
	"interview-runtime/internal/telegram"
)

func main() {
	root := flag.String("root", ".", "project root containing config/config.yaml")
	sessionID := flag.String("session", "", "session id to open in console mode")
	flag.Parse()

	// A missing .env is fine, the environment may already be set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	loader, err := config.Load(*root)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	cfg := loader.Config()

	var consoleOut = os.Stdout
	if cfg.Mode == config.ModeConsole {
		consoleOut = os.Stderr
	}
	logger, err := logging.Init(cfg.Logging, consoleOut)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	loader.Watch(logger, func(c *config.Config) {
		logger.Info("Runtime settings reloaded",
			zap.Duration("auto_save_delay", c.Runtime.AutoSaveDelay),
			zap.Float64("score_multiplier", c.Runtime.ScoreMultiplier),
		)
	})

	m := metrics.NewMetrics()

	var fetcher runtime.Fetcher
	if cfg.UsesAPI() {
		fetcher = api.NewSessionClient(cfg.Sessions.APIBaseURL, cfg.Sessions.Timeout,
			api.WithToken(cfg.Sessions.APIToken),
			api.WithLogger(logger),
			api.WithMetrics(m),
		)
	} else {
		fetcher = storage.NewDirFetcher(cfg.Sessions.Dir)
	}
	results := storage.NewResultStore(cfg.Results.Dir)

	service := interviewer.New(fetcher, results,
		interviewer.WithLogger(logger),
		interviewer.WithMetrics(m),
		interviewer.WithSettings(func() runtime.Settings {
			return loader.Config().RuntimeSettings()
		}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting interview runtime",
		zap.String("mode", cfg.Mode),
		zap.String("config_file", loader.File()),
		zap.Bool("sessions_api", cfg.UsesAPI()),
		zap.String("results_dir", results.Dir()),
	)

	switch cfg.Mode {
	case config.ModeTelegram:
		err = runTelegram(ctx, cfg, service, logger)
	default:
		id := *sessionID
		if id == "" {
			id = cfg.Sessions.DefaultID
		}
		err = console.New(service, os.Stdin, os.Stdout, logger).Run(ctx, id)
	}

	snapshot := m.GetSnapshot()
	logger.Info("Stopped",
		zap.Int64("sessions_loaded", snapshot.SessionsLoaded),
		zap.Int64("interviews_completed", snapshot.InterviewsCompleted),
		zap.Int64("answers_written", snapshot.AnswersWritten),
	)
	if err != nil && ctx.Err() == nil {
		logger.Fatal("Interview runtime failed", zap.Error(err))
	}
}

func runTelegram(ctx context.Context, cfg *config.Config, service *interviewer.Service, logger *zap.Logger) error {
	bot := telegram.New(cfg.Telegram.Token, logger)
	handler := telegram.NewHandler(bot, service, telegram.HandlerConfig{
		DefaultSessionID: cfg.Sessions.DefaultID,
		RateLimit:        cfg.Telegram.RateLimit,
		RateWindow:       cfg.Telegram.RateWindow,
		SessionTTL:       cfg.Telegram.SessionTTL,
		CleanupInterval:  cfg.Telegram.CleanupInterval,
		RequestTimeout:   cfg.Sessions.Timeout,
	}, clock.RealClock{}, logger)
	defer handler.Close()
	handler.StartSessionCleanup(ctx)

	fmt.Println("🤖 Telegram bot started")
	fmt.Println("📱 Send /start <session id> to the bot")

	return bot.StartPolling(ctx, handler.HandleUpdate)
}
