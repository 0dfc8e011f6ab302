package main

import (
  "fmt"
  "os"
  "github.com/hyodolabs/story-recall-backend/internal/clients/openaiseg"
  "github.com/hyodolabs/story-recall-backend/internal/clients/redisconn"
  "github.com/hyodolabs/story-recall-backend/internal/clients/userservice"
  "github.com/hyodolabs/story-recall-backend/internal/config"
  "github.com/hyodolabs/story-recall-backend/internal/db"
  "github.com/hyodolabs/story-recall-backend/internal/handlers"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/middleware"
  "github.com/hyodolabs/story-recall-backend/internal/repos"
  "github.com/hyodolabs/story-recall-backend/internal/server"
  "github.com/hyodolabs/story-recall-backend/internal/services"
  "github.com/hyodolabs/story-recall-backend/internal/utils"
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

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)

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

  // Redis: optional. Without it threshold overrides are disabled and the
  // engine runs on env defaults.
  redisClient, err := redisconn.New(log)
  if err != nil {
    log.Warn("Redis unavailable, difficulty settings are read-only", "error", err)
    redisClient = nil
  }

  // Repos
  log.Info("Setting up Repos from main...")
  attemptRepo := repos.NewAttemptRepo(thePG, log)
  difficultyRepo := repos.NewDifficultyRepo(thePG, log)
  storyRepo := repos.NewStoryRepo(thePG, log)

  // Clients
  log.Info("Setting up clients from main...")
  verifier := userservice.NewClient(log)
  segmenter := openaiseg.New(log)
  thresholdSource := config.NewThresholdSource(log, redisClient)

  // Services
  log.Info("Setting up Services from main...")
  scoreCalculator := services.NewScoreCalculator(log, attemptRepo)
  streakAnalyzer := services.NewStreakAnalyzer(log, attemptRepo)
  difficultyService := services.NewDifficultyService(
    thePG,
    log,
    attemptRepo,
    difficultyRepo,
    storyRepo,
    scoreCalculator,
    streakAnalyzer,
    thresholdSource,
    verifier,
  )
  patternAnalyzer := services.NewPatternAnalyzer(log, attemptRepo)
  personalizationService := services.NewPersonalizationService(log, difficultyRepo, attemptRepo, difficultyService, patternAnalyzer)
  gameResultService := services.NewGameResultService(thePG, log, attemptRepo, storyRepo, verifier)
  storyService := services.NewStoryService(thePG, log, storyRepo, segmenter)
  activityService := services.NewActivityService(log, storyRepo)

  // Handlers
  log.Info("Setting up handlers from main...")
  storyHandler := handlers.NewStoryHandler(log, storyService)
  activityHandler := handlers.NewActivityHandler(log, activityService)
  gameResultHandler := handlers.NewGameResultHandler(log, gameResultService)
  difficultyHandler := handlers.NewDifficultyHandler(log, difficultyService, personalizationService, thresholdSource)
  personalizationHandler := handlers.NewPersonalizationHandler(log, personalizationService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey, verifier)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthMiddleware:         authMiddleware,
    StoryHandler:           storyHandler,
    ActivityHandler:        activityHandler,
    GameResultHandler:      gameResultHandler,
    DifficultyHandler:      difficultyHandler,
    PersonalizationHandler: personalizationHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}
