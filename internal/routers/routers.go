package routers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"

	appconfig "github.com/27100340/chat-app-backend-v1/config"
	"github.com/27100340/chat-app-backend-v1/internal/handlers"
	"github.com/27100340/chat-app-backend-v1/internal/middlewares"
	"github.com/27100340/chat-app-backend-v1/internal/ws"
	"github.com/27100340/chat-app-backend-v1/middleware/jwt"
	logger "github.com/27100340/chat-app-backend-v1/middleware/log"
)

// SetupRoutes wires every HTTP surface: the websocket endpoint, the
// health check and the REST API. Account creation and login stay
// outside the auth middleware; everything else requires a token.
func SetupRoutes(r *gin.Engine, cfg *appconfig.Config,
	tokens *jwt.TokenManager,
	redisClient *redis.Client,
	log *logger.Logger,
	userHandler *handlers.UserHandler,
	messageHandler *handlers.MessageHandler,
	groupHandler *handlers.GroupHandler,
	chatHandler *handlers.DirectMessageHandler,
	healthHandler *handlers.HealthHandler,
	dispatcher *ws.Dispatcher,
) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	if redisClient != nil {
		r.Use(middlewares.RateLimitMiddleware(redisClient, cfg.RateLimit.RequestsPerMinute, log))
	}

	// The websocket endpoint authenticates in-band with an authenticate
	// frame, so it is registered without the token middleware.
	r.GET("/ws", ws.ServeWS(dispatcher, log))

	r.GET("/health", healthHandler.Check)

	registerUserRoutes(r, tokens, userHandler)
	registerMessageRoutes(r, tokens, messageHandler)
	registerGroupRoutes(r, tokens, groupHandler)
	registerChatRoutes(r, tokens, chatHandler)
}

func registerUserRoutes(r *gin.Engine, tokens *jwt.TokenManager, h *handlers.UserHandler) {
	users := r.Group("/api/v1/users")
	{
		users.POST("", h.Create)
		users.POST("/login", h.Login)
	}
	users.Use(middlewares.AuthMiddleware(tokens))
	{
		users.POST("/logout", h.Logout)
		users.GET("", h.GetAll)
		users.GET("/statuses", h.GetAllStatuses)
		users.GET("/:id", h.GetByID)
		users.PATCH("/:id", h.Update)
		users.PUT("/:id/status", h.UpdateStatus)
		users.PATCH("/:id/password", h.ChangePassword)
		users.DELETE("/:id", h.Delete)
	}
}

func registerMessageRoutes(r *gin.Engine, tokens *jwt.TokenManager, h *handlers.MessageHandler) {
	messages := r.Group("/api/v1/messages")
	messages.Use(middlewares.AuthMiddleware(tokens))
	{
		messages.POST("", h.Create)
		messages.GET("/conversation", h.GetConversation)
		messages.GET("/sender/:id", h.GetBySender)
		messages.GET("/feed/:id", h.GetFeed)
		messages.GET("/group/:id", h.GetForGroup)
		messages.GET("/:id", h.GetByID)
		messages.PATCH("/:id", h.Update)
		messages.DELETE("/:id", h.Delete)
	}
}

func registerGroupRoutes(r *gin.Engine, tokens *jwt.TokenManager, h *handlers.GroupHandler) {
	groups := r.Group("/api/v1/groups")
	groups.Use(middlewares.AuthMiddleware(tokens))
	{
		groups.POST("", h.Create)
		groups.GET("/member/:id", h.GetByMember)
		groups.GET("/:id", h.GetByID)
		groups.PATCH("/:id", h.Update)
		groups.DELETE("/:id", h.Delete)
		groups.POST("/:id/members", h.AddMember)
		groups.DELETE("/:id/members/:memberID", h.RemoveMember)
		groups.PUT("/:id/admin", h.ChangeAdmin)
	}
}

func registerChatRoutes(r *gin.Engine, tokens *jwt.TokenManager, h *handlers.DirectMessageHandler) {
	chats := r.Group("/api/v1/chats")
	chats.Use(middlewares.AuthMiddleware(tokens))
	{
		chats.POST("", h.Create)
		chats.GET("/user/:id", h.GetForUser)
		chats.GET("/:id", h.GetByID)
		chats.DELETE("/:id", h.Delete)
	}
}
