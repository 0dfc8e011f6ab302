package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/requestdata"
  "github.com/hyodolabs/story-recall-backend/internal/services"
)

type PersonalizationHandler struct {
  log          *logger.Logger
  personalSvc  services.PersonalizationService
}

func NewPersonalizationHandler(log *logger.Logger, personalSvc services.PersonalizationService) *PersonalizationHandler {
  return &PersonalizationHandler{
    log:         log.With("handler", "PersonalizationHandler"),
    personalSvc: personalSvc,
  }
}

// GET /api/v0/personalization/recommendation
func (ph *PersonalizationHandler) GetRecommendation(c *gin.Context) {
  recommendation, err := ph.personalSvc.Recommend(c.Request.Context(), requestdata.UserID(c.Request.Context()))
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, recommendation)
}

// GET /api/v0/personalization/learning-progress
func (ph *PersonalizationHandler) GetLearningProgress(c *gin.Context) {
  progress, err := ph.personalSvc.Progress(c.Request.Context(), requestdata.UserID(c.Request.Context()))
  if err != nil {
    RespondError(c, err)
    return
  }
  if progress.NewUser {
    RespondOK(c, gin.H{
      "message":  "아직 학습 기록이 없습니다.",
      "progress": progress,
    })
    return
  }
  RespondOK(c, progress)
}

// GET /api/v0/personalization/performance-insights
func (ph *PersonalizationHandler) GetPerformanceInsights(c *gin.Context) {
  report, err := ph.personalSvc.Insights(c.Request.Context(), requestdata.UserID(c.Request.Context()))
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, report)
}
