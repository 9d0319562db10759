package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"bootbot/handlers"
	"bootbot/internal"
	"bootbot/observability"
	"bootbot/providers"
	"bootbot/repositories"
	"bootbot/runtime"
	"bootbot/runtime/workers"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the bot lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the connection and background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	channels, err := ChannelList(config.Channels)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB) — the only durable state: seen records and
	// queued memos. Failing to open it is the one unrecoverable startup error.
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	//  Defer will be executed before run() returned anything to main()
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Repositories, stats, outbound throttle
	seenRepository := repositories.NewSeenRepository(db, log)
	notificationRepository := repositories.NewNotificationRepository(db, log)
	stats := observability.NewStatsManager(log)
	throttle := runtime.NewThrottle(config.ThrottleRefill, config.ThrottleBurst, log)

	links, err := runtime.NewLinkFinder()
	if err != nil {
		return fmt.Errorf("link finder build failed: %w", err)
	}

	if config.DebugPort > 0 {
		internal.StartDebugServer(db, config.DebugPort, nil, stats.Snapshot)
		log.Info("Store inspector listening", "port", config.DebugPort)
	}

	// 4. Router & feature handlers (registration order is the tie-break)
	router := runtime.NewRouter(
		log, config.Nick,
		seenRepository, notificationRepository,
		throttle, links,
		providers.NewTitleProvider(config.HandlerTimeout),
		stats,
		config.DeliveryCap, config.HandlerTimeout,
	)
	router.Register(
		handlers.NewStaticHandler("help", handlers.HelpText),
		handlers.NewStaticHandler("repo", config.RepoURL),
		handlers.NewSeenHandler(seenRepository),
		handlers.NewTellHandler(notificationRepository),
		handlers.NewUptimeHandler(stats),
		handlers.NewProviderHandler("weather", "Hint: weather <location>",
			providers.NewWeatherProvider(config.WeatherBaseURL, config.HandlerTimeout)),
		handlers.NewProviderHandler("price", "Hint: price <coin>",
			providers.NewPriceProvider(config.PriceBaseURL, config.HandlerTimeout)),
	)

	// 5. Supervision
	connWorker := workers.NewConnWorker(log, workers.ConnConfig{
		Addr:        config.ServerAddr,
		UseTLS:      config.UseTLS,
		Nick:        config.Nick,
		Realname:    config.Realname,
		Channels:    channels,
		DialTimeout: config.DialTimeout,
		BackoffBase: config.BackoffBase,
		BackoffCap:  config.BackoffCap,
		JoinTimeout: config.JoinTimeout,
	}, router, throttle, stats)

	supervisor := workers.NewSupervisor(log, config.RestartInterval)
	supervisor.Add(connWorker)
	supervisor.Add(workers.NewStatsWorker(log, stats, config.StatsInterval))

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting bot", "server", config.ServerAddr, "nick", config.Nick, "channels", channels)
	supervisor.Run(ctx)

	// 7. Final Cleanup: let in-flight handlers finish, then abandon them.
	router.Shutdown(config.ShutdownGrace)
	log.Info("Program stopped cleanly")

	return nil
}
