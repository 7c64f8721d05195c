package main

import (
  "fmt"
  "os"
  "github.com/yungbote/saathi-backend/internal/logger"
  "github.com/yungbote/saathi-backend/internal/utils"
  "github.com/yungbote/saathi-backend/internal/db"
  "github.com/yungbote/saathi-backend/internal/clients/redis"
  "github.com/yungbote/saathi-backend/internal/repos"
  "github.com/yungbote/saathi-backend/internal/services"
  "github.com/yungbote/saathi-backend/internal/handlers"
  "github.com/yungbote/saathi-backend/internal/server"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userProfileRepo := repos.NewUserProfileRepo(thePG, log)
  conversationRepo := repos.NewConversationRepo(thePG, log)
  userMemoryRepo := repos.NewUserMemoryRepo(thePG, log)
  screeningResultRepo := repos.NewScreeningResultRepo(thePG, log)
  crisisEventRepo := repos.NewCrisisEventRepo(thePG, log)

  // Redis cache (optional)
  var convCache redis.Cache
  if os.Getenv("REDIS_ADDR") != "" {
    convCache, err = redis.NewCache(log)
    if err != nil {
      log.Warn("Could not init redis cache, continuing without it", "error", err)
      convCache = nil
    }
  }

  // Services
  log.Info("Setting up Services from main...")
  generator, generatorMode := services.NewResponseGenerator(log)
  classifier := services.NewCrisisClassifier()
  memoryStore := services.NewMemoryStore(thePG, log, userProfileRepo, userMemoryRepo, conversationRepo, convCache)
  retriever := services.NewNoopRetriever()
  pipeline := services.NewConversationPipeline(log, classifier, generator, memoryStore, retriever)
  chatService := services.NewChatService(thePG, log, pipeline, memoryStore, userProfileRepo, conversationRepo, userMemoryRepo, crisisEventRepo)
  screeningService := services.NewScreeningService(thePG, log, userProfileRepo, screeningResultRepo)
  userService := services.NewUserService(thePG, log, userProfileRepo, userMemoryRepo)

  // Handlers
  log.Info("Setting up handlers from main...")
  chatHandler := handlers.NewChatHandler(log, chatService)
  screeningHandler := handlers.NewScreeningHandler(log, screeningService)
  userHandler := handlers.NewUserHandler(log, userService)
  healthCheckHandler := handlers.NewHealthCheckHandler(postgresService, generatorMode)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    ChatHandler:        chatHandler,
    ScreeningHandler:   screeningHandler,
    UserHandler:        userHandler,
    HealthCheckHandler: healthCheckHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}
