package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"synaptik/auth"
	"synaptik/contract"
	"synaptik/domain"
	"synaptik/domain/event"
	"synaptik/errors"
	"synaptik/infrastructure/grpc/server"
	api "synaptik/infrastructure/http"
	"synaptik/infrastructure/redis"
	"synaptik/infrastructure/websocket"
	"synaptik/moderation"
	"synaptik/notify"
	"synaptik/observability"
	"synaptik/repositories"
	"synaptik/runtime"
	"synaptik/runtime/workers"
	"synaptik/services"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component, serves until a signal or a listener failure, then shuts down
// in reverse order. Deferred closes run before main exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}
	charReplacement, err := CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Stores (Badger documents, Bluge full-text index)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
		database.StartDebugServer(db, config.DebugPort, endpoint, inspectMapper)
	}

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	users := repositories.NewUserRepository(db, logger)
	rooms := repositories.NewRoomRepository(db, logger)
	dms := repositories.NewDMRepository(db, logger)
	messages := repositories.NewMessageRepository(db, logger)
	otps := repositories.NewOTPRepository(db, logger)
	index := repositories.NewMessageIndex(blugeWriter, logger)

	// Nobody is connected yet, whatever the store remembers from the last run.
	reset, err := users.ResetPresence(ctx)
	if err != nil {
		return exitRuntime, fmt.Errorf("presence reset failed: %w", err)
	}
	logger.Info("Presence reset", "users", reset)

	// 4. Optional collaborators
	moderator, err := buildModerator(config, charReplacement, logger)
	if err != nil {
		return exitConfig, err
	}
	limiter, closeLimiter, err := buildLimiter(ctx, config, logger)
	if err != nil {
		return exitRuntime, err
	}
	defer closeLimiter()

	// 5. Realtime core
	telemetryChan := make(chan event.Event, config.IndexBufferSize)
	indexJobs := make(chan domain.IndexJob, config.IndexBufferSize)
	stores := runtime.Stores{Users: users, Rooms: rooms, DMs: dms, Messages: messages}
	registry := runtime.NewRegistry()
	fanout := runtime.NewEventFanout(logger)
	gates := runtime.NewKeyedLocker[domain.ChannelKey]()
	channels := runtime.NewChannelManager(logger, registry, rooms, dms, fanout)
	ingest := runtime.NewIngestPipeline(logger, stores, channels, gates, limiter, moderator, indexJobs, config.MaxContentLength)
	signals := runtime.NewSignalBroadcaster(logger, stores, channels, gates, indexJobs)
	dispatcher := runtime.NewDispatcher(logger, channels, ingest, signals)
	lifecycle := runtime.NewConnectionLifecycle(logger, registry, users, fanout)

	// 6. Supervision & Telemetry
	monitoring := observability.NewMonitoringManager(logger, config.MetricInterval)
	processStats := event.NewProcessStatsHandler(logger)
	ops := server.NewOpsServer(logger, repositories.Ping(db), config.MetricInterval)

	supervisor := workers.NewSupervisor(logger, telemetryChan, config.RestartInterval)
	supervisor.Add(
		workers.NewIndexerWorker(logger, index, indexJobs),
		workers.NewChannelCapacityWorker(logger, []workers.NamedChannel{
			{Name: "index_jobs", Channel: indexJobs},
			{Name: "telemetry", Channel: telemetryChan},
		}, telemetryChan, config.MetricInterval),
		workers.NewHealthMonitoringWorker(logger, telemetryChan, config.MetricInterval),
		workers.NewTelemetryWorker(logger, telemetryChan, []event.Handler{
			event.NewWorkerRestartedAfterPanicHandler(logger, event.NewCounter()),
			event.NewChannelCapacityHandler(logger, config.LowCapacityThreshold),
			processStats,
		}),
		monitoring,
		ops,
	)
	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		supervisor.Run(ctx)
	}()

	// 7. Services & Transports
	tokens := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration)
	uploads, err := services.NewUploadService(logger, config.UploadDir, config.MaxUploadSize)
	if err != nil {
		return exitRuntime, err
	}
	wsServer := websocket.NewServer(logger, tokens, lifecycle, dispatcher, monitoring, websocket.Config{
		SendBufferSize: config.ConnectionBufferSize,
		MaxFrameSize:   config.MaxFrameSize,
		AllowedOrigins: config.Origins(),
		Timeouts:       websocket.DefaultTimeouts(),
	})
	router := api.NewRouter(logger, api.Dependencies{
		Auth: services.NewAuthService(logger, users, otps, buildMailer(config, logger), tokens, services.AuthOptions{
			RequireVerification: config.RequireEmailVerification,
			OTPTTL:              config.OTPTTL,
		}),
		Users:         services.NewUserService(users),
		Rooms:         services.NewRoomService(logger, rooms),
		DMs:           services.NewDMService(logger, dms, users),
		Conversations: services.NewConversationService(logger, rooms, dms, users, messages, index, signals),
		Uploads:       uploads,
		Tokens:        tokens,
		WebSocket:     wsServer,
		Health: api.HealthSources{
			Ping:        repositories.Ping(db),
			Connections: registry.Stats,
			Process:     processStats.Latest,
			Traffic:     monitoring.GetLatest,
		},
		UploadDir:      config.UploadDir,
		MaxUploadSize:  config.MaxUploadSize,
		AllowedOrigins: config.Origins(),
	})

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{Addr: address, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	opsAddress := fmt.Sprintf("%s:%d", config.Host, config.OpsPort)
	opsListener, err := net.Listen("tcp", opsAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", opsAddress, err)
	}

	// Use an error channel to capture Serve() issues asynchronously.
	errChan := make(chan error, 2)
	go func() {
		logger.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()
	go func() {
		logger.Info("Starting gRPC ops server", "address", opsAddress)
		if err := ops.Serve(opsListener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	code, runErr := exitOK, error(nil)
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errChan:
		code = exitRuntime
	}

	// 9. Final Cleanup (Graceful Shutdown)
	// Probes see NOT_SERVING first, then sockets close, then workers drain.
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	ops.GracefulStop()
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("WebSocket shutdown incomplete", "error", err)
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	stop()
	<-supervisorDone
	logger.Info("Program stopped cleanly")

	return code, runErr
}

func buildBadgerOpts(config Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}

// buildModerator returns a nil interface when moderation is off, never a typed nil.
func buildModerator(config Config, replacement rune, logger *slog.Logger) (contract.ITextModerator, error) {
	if !config.EnableModeration {
		return nil, nil
	}
	data, err := moderation.NewCensoredLoader(nil).LoadAll(moderation.DefaultDictionaryPath)
	if err != nil {
		return nil, fmt.Errorf("censor dictionary: %w", err)
	}
	moderator, err := moderation.NewModerator(data.Words, replacement, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Moderation enabled", "words", len(data.Words), "languages", data.Languages)
	return moderator, nil
}

// buildLimiter returns no limiter without Redis: a per-process window would not hold across instances.
func buildLimiter(ctx context.Context, config Config, logger *slog.Logger) (contract.IRateLimiter, func(), error) {
	if config.RedisAddr == "" {
		logger.Info("Rate limiting disabled, REDIS_ADDR is not set")
		return nil, func() {}, nil
	}
	client, err := redis.Connect(ctx, config.RedisAddr, config.RedisPassword)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Rate limiting enabled", "messages", config.RateLimitMessages, "window", config.RateLimitWindow)
	limiter := redis.NewSlidingWindowLimiter(client, config.RateLimitMessages, config.RateLimitWindow, "synaptik:ratelimit:")
	return limiter, func() { _ = client.Close() }, nil
}

func buildMailer(config Config, logger *slog.Logger) contract.IMailer {
	if config.SMTPHost == "" {
		return notify.NewLogMailer(logger)
	}
	return notify.NewSMTPMailer(logger, notify.SMTPConfig{
		Host:     config.SMTPHost,
		Port:     config.SMTPPort,
		Username: config.SMTPUsername,
		Password: config.SMTPPassword,
		From:     config.SMTPFrom,
	})
}

func inspectMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	record := repositories.Describe(key, val)
	row.Type = record.Kind
	row.Detail = record.Detail
	return row
}
