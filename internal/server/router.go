package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "github.com/yungbote/saathi-backend/internal/handlers"
)

type RouterConfig struct {
  ChatHandler        *handlers.ChatHandler
  ScreeningHandler   *handlers.ScreeningHandler
  UserHandler        *handlers.UserHandler
  HealthCheckHandler *handlers.HealthCheckHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  router.GET("/healthcheck", cfg.HealthCheckHandler.HealthCheck)

  api := router.Group("/api")
  {
    api.POST("/chat", cfg.ChatHandler.Chat)
    api.GET("/conversations", cfg.ChatHandler.ConversationHistory)
    api.POST("/screening", cfg.ScreeningHandler.Submit)
    api.GET("/screening/history", cfg.ScreeningHandler.History)
    api.GET("/profile", cfg.UserHandler.GetProfile)
    api.POST("/profile", cfg.UserHandler.UpsertProfile)
    api.GET("/memory", cfg.UserHandler.GetMemories)
  }

  return router
}
