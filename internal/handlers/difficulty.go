package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/hyodolabs/story-recall-backend/internal/config"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/requestdata"
  "github.com/hyodolabs/story-recall-backend/internal/services"
)

type DifficultyHandler struct {
  log             *logger.Logger
  difficultySvc   services.DifficultyService
  personalSvc     services.PersonalizationService
  thresholds      config.ThresholdSource
}

func NewDifficultyHandler(log *logger.Logger, difficultySvc services.DifficultyService, personalSvc services.PersonalizationService, thresholds config.ThresholdSource) *DifficultyHandler {
  return &DifficultyHandler{
    log:           log.With("handler", "DifficultyHandler"),
    difficultySvc: difficultySvc,
    personalSvc:   personalSvc,
    thresholds:    thresholds,
  }
}

// POST /api/v0/difficulty/results
// Submit an attempt and run the difficulty adjustment in one shot.
func (dh *DifficultyHandler) SubmitResultWithDifficulty(c *gin.Context) {
  var req gameResultRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if req.IsCorrect == nil || req.ResponseTime == nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "is_correct and response_time are required"})
    return
  }

  result, err := dh.difficultySvc.SubmitAttempt(c.Request.Context(), services.SubmitAttemptInput{
    UserID:       requestdata.UserID(c.Request.Context()),
    GameType:     req.GameType,
    StoryID:      req.StoryID,
    IsCorrect:    *req.IsCorrect,
    ResponseTime: *req.ResponseTime,
    Score:        req.Score,
  })
  if err != nil {
    RespondError(c, err)
    return
  }

  userMessage := dh.personalSvc.DifficultyMessage(result.CurrentGameType, result.RecommendedGameType)
  RespondOK(c, gin.H{
    "message":         "게임 결과가 성공적으로 저장되었습니다.",
    "result_id":       result.ResultID,
    "difficulty_info": result,
    "user_message":    userMessage,
  })
}

// GET /api/v0/difficulty/recommendation
func (dh *DifficultyHandler) GetRecommendation(c *gin.Context) {
  recommendation, err := dh.difficultySvc.RecommendNext(c.Request.Context(), requestdata.UserID(c.Request.Context()))
  if err != nil {
    RespondError(c, err)
    return
  }

  message := dh.personalSvc.DifficultyMessage(recommendation.CurrentGameType, recommendation.RecommendedGameType)
  if recommendation.NewUser {
    message = "문장 순서 맞추기부터 시작해보세요!"
  }
  RespondOK(c, gin.H{
    "recommended_game_type": recommendation.RecommendedGameType,
    "current_difficulty":    recommendation.CurrentGameType,
    "success_rate":          recommendation.SuccessRate,
    "reason":                recommendation.Reason,
    "reason_code":           recommendation.ReasonCode,
    "message":               message,
  })
}

// GET /api/v0/difficulty/stats
func (dh *DifficultyHandler) GetStats(c *gin.Context) {
  stats, err := dh.difficultySvc.Stats(c.Request.Context(), requestdata.UserID(c.Request.Context()))
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"stats": stats})
}

// GET /api/v0/difficulty/settings
func (dh *DifficultyHandler) GetSettings(c *gin.Context) {
  RespondOK(c, gin.H{"settings": dh.thresholds.Snapshot(c.Request.Context())})
}

// PUT /api/v0/difficulty/settings
func (dh *DifficultyHandler) UpdateSettings(c *gin.Context) {
  var settings map[string]string
  if err := c.ShouldBindJSON(&settings); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }

  updated, err := dh.thresholds.Override(c.Request.Context(), settings)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{
    "message":  "난이도 조절 설정이 업데이트되었습니다.",
    "settings": updated,
  })
}
