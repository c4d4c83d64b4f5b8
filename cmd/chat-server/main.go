package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"multiroom-chat/internal/api"
	"multiroom-chat/internal/api/router"
	"multiroom-chat/internal/audit"
	"multiroom-chat/internal/chat"
	"multiroom-chat/internal/database"
	"multiroom-chat/internal/env"
	"multiroom-chat/internal/queue"
	"multiroom-chat/internal/websocket"
)

func main() {
	cfg, err := env.Load()
	if err != nil {
		env.NewLogger("").Error("config", "err", err)
		os.Exit(1)
	}
	logger := env.NewLogger(cfg.Env)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	auditQueue := queue.NewRequestQueueManager(cfg.AuditQueueSize, cfg.AuditWorkers, logger.With("queue", "audit"))

	var repo audit.Repository
	if cfg.DynamoEnabled() {
		db, err := database.NewDatabase(ctx, cfg)
		if err != nil {
			logger.Error("db init failed", "err", err)
			os.Exit(1)
		}
		repo = audit.NewDynamoRepository(db, cfg.AuditTable)
		logger.Info("audit store enabled", "table", cfg.AuditTable)
	}

	var publisher audit.Publisher
	if cfg.RedisEnabled() {
		redisPublisher := audit.NewRedisPublisher(cfg.RedisURL, cfg.RedisPass, cfg.RedisChannel)
		if err := redisPublisher.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, events will be retried per publish", "err", err)
		}
		defer redisPublisher.Close()
		publisher = redisPublisher
		logger.Info("audit publishing enabled", "channel", cfg.RedisChannel)
	}

	var recorder chat.Recorder
	if repo != nil || publisher != nil {
		recorder = audit.NewRecorder(auditQueue, repo, publisher, logger.With("component", "audit"))
	}

	registry := chat.NewRegistry(logger.With("component", "chat"), recorder)
	chatServer := chat.NewServer(registry, logger.With("component", "chat"))
	handler := websocket.NewHandler(chatServer, logger.With("component", "websocket"), cfg.SendQueueSize)

	httpQueue := queue.NewRequestQueueManager(cfg.HTTPQueueSize, cfg.HTTPWorkers, logger.With("queue", "http"))

	server := api.NewAPIServer(
		api.Options{
			ListenAddr: cfg.HTTPAddr,
			Queue:      httpQueue,
			Chat:       chatServer,
			Websocket:  handler,
			Audit:      audit.New(repo),
			Logger:     logger,
			CORSAllow:  cfg.CorsAllow,
		},
		router.UtilsRoutes(""),
		router.RoomRoutes("/api/v1"),
		router.WebsocketRoutes("/ws"),
	)

	errc := make(chan error, 1)
	go func() {
		errc <- server.Run(ctx)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		chatServer.Shutdown()
		if err := <-errc; err != nil {
			logger.Error("http shutdown", "err", err)
			exitCode = 1
		}
	case err := <-errc:
		if err != nil {
			logger.Error("server crashed", "err", err)
			exitCode = 1
		}
		chatServer.Shutdown()
	}

	httpQueue.Shutdown()
	auditQueue.Shutdown()
	logger.Info("server stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
