package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appconfig "github.com/27100340/chat-app-backend-v1/config"
	"github.com/27100340/chat-app-backend-v1/internal/handlers"
	"github.com/27100340/chat-app-backend-v1/internal/presence"
	"github.com/27100340/chat-app-backend-v1/internal/routers"
	"github.com/27100340/chat-app-backend-v1/internal/services"
	"github.com/27100340/chat-app-backend-v1/internal/storage"
	"github.com/27100340/chat-app-backend-v1/internal/uow"
	"github.com/27100340/chat-app-backend-v1/internal/ws"
	"github.com/27100340/chat-app-backend-v1/middleware/jwt"
	logger "github.com/27100340/chat-app-backend-v1/middleware/log"
	"github.com/27100340/chat-app-backend-v1/pkg/mq"
)

func main() {
	cfg, err := appconfig.LoadConfig("./config.toml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zlog.Close()

	dsn := storage.BuildDSN(cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.DBName)
	db, err := storage.InitPostgres(dsn, cfg.Postgres.MaxIdleConns, cfg.Postgres.MaxOpenConns)
	if err != nil {
		zlog.Fatal("failed to init postgres", zap.Error(err))
	}

	// Redis backs presence and rate limiting. Both degrade cleanly, so
	// an unreachable redis downgrades the node instead of killing it.
	redisClient, err := storage.InitRedis(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize, cfg.Redis.MinIdleConns)
	if err != nil {
		zlog.Warn("failed to init redis, presence and rate limiting disabled", zap.Error(err))
		redisClient = nil
	}

	var tracker *presence.Tracker
	if redisClient != nil {
		tracker = presence.NewTracker(redisClient)
	}

	// Kafka archival is optional as well: without brokers, messages are
	// simply not archived.
	var archiver services.Archiver
	kafkaArchiver, err := mq.NewKafkaArchiver(cfg.Kafka.Brokers, cfg.Kafka.Topic, zlog)
	if err != nil {
		zlog.Warn("failed to init kafka producer, running without archival", zap.Error(err))
	} else {
		archiver = kafkaArchiver
		defer kafkaArchiver.Close()
	}

	tokens := jwt.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	runner := uow.NewFactory(db)

	var presenceReader services.PresenceReader
	var wsPresence ws.Presence
	if tracker != nil {
		presenceReader = tracker
		wsPresence = tracker
	}

	userService := services.NewUserService(runner, tokens, presenceReader)
	messageService := services.NewMessageService(runner, archiver)
	groupService := services.NewGroupService(runner)
	chatService := services.NewDirectMessageService(runner)

	registry := ws.NewRegistry()
	dispatcher := ws.NewDispatcher(registry, userService, messageService, groupService, chatService, wsPresence, zlog)

	userHandler := handlers.NewUserHandler(userService)
	messageHandler := handlers.NewMessageHandler(messageService)
	groupHandler := handlers.NewGroupHandler(groupService)
	chatHandler := handlers.NewDirectMessageHandler(chatService, groupService)
	healthHandler := handlers.NewHealthHandler(runner)

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()

	routers.SetupRoutes(r, cfg,
		tokens,
		redisClient,
		zlog,
		userHandler,
		messageHandler,
		groupHandler,
		chatHandler,
		healthHandler,
		dispatcher,
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zlog.Info("server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}
