package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "github.com/hyodolabs/story-recall-backend/internal/handlers"
  "github.com/hyodolabs/story-recall-backend/internal/middleware"
)

type RouterConfig struct {
  AuthMiddleware          *middleware.AuthMiddleware
  StoryHandler            *handlers.StoryHandler
  ActivityHandler         *handlers.ActivityHandler
  GameResultHandler       *handlers.GameResultHandler
  DifficultyHandler       *handlers.DifficultyHandler
  PersonalizationHandler  *handlers.PersonalizationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5173",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)

// ===============
// || Protected ||
// ===============
  api := router.Group("/api/v0")
  api.Use(cfg.AuthMiddleware.RequireAuth())

  // Stories
  api.POST("/stories", cfg.StoryHandler.Create)
  api.GET("/stories", cfg.StoryHandler.List)
  api.GET("/stories/segments/random", cfg.StoryHandler.RandomSegment)
  api.GET("/stories/:id", cfg.StoryHandler.Get)
  api.PUT("/stories/:id", cfg.StoryHandler.Update)
  api.DELETE("/stories/:id", cfg.StoryHandler.Delete)
  api.GET("/stories/:id/segments", cfg.StoryHandler.Segments)

  // Activities
  api.GET("/activity/story-sequence/:storyId", cfg.ActivityHandler.StorySequence)
  api.GET("/activity/word-sequence/:storyId", cfg.ActivityHandler.WordSequence)

  // Game results
  api.POST("/games/results", cfg.GameResultHandler.SubmitResult)
  api.GET("/games/results/:gameType", cfg.GameResultHandler.GetResults)

  // Difficulty engine
  api.POST("/difficulty/results", cfg.DifficultyHandler.SubmitResultWithDifficulty)
  api.GET("/difficulty/recommendation", cfg.DifficultyHandler.GetRecommendation)
  api.GET("/difficulty/stats", cfg.DifficultyHandler.GetStats)
  api.GET("/difficulty/settings", cfg.DifficultyHandler.GetSettings)
  api.PUT("/difficulty/settings", cfg.DifficultyHandler.UpdateSettings)

  // Personalization
  api.GET("/personalization/recommendation", cfg.PersonalizationHandler.GetRecommendation)
  api.GET("/personalization/learning-progress", cfg.PersonalizationHandler.GetLearningProgress)
  api.GET("/personalization/performance-insights", cfg.PersonalizationHandler.GetPerformanceInsights)

  return router
}
