package handlers

import (
  "net/http"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/requestdata"
  "github.com/hyodolabs/story-recall-backend/internal/services"
)

type GameResultHandler struct {
  log      *logger.Logger
  gameSvc  services.GameResultService
}

func NewGameResultHandler(log *logger.Logger, gameSvc services.GameResultService) *GameResultHandler {
  return &GameResultHandler{
    log:     log.With("handler", "GameResultHandler"),
    gameSvc: gameSvc,
  }
}

type gameResultRequest struct {
  GameType      string   `json:"game_type"`
  StoryID       uint     `json:"story_id"`
  IsCorrect     *bool    `json:"is_correct"`
  ResponseTime  *float64 `json:"response_time"`
  Score         *int     `json:"score"`
}

// POST /api/v0/games/results
// Store a raw attempt without difficulty adjustment.
func (gh *GameResultHandler) SubmitResult(c *gin.Context) {
  var req gameResultRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if req.IsCorrect == nil || req.ResponseTime == nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "is_correct and response_time are required"})
    return
  }

  saved, err := gh.gameSvc.SaveResult(c.Request.Context(), services.SubmitAttemptInput{
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
  RespondOK(c, gin.H{
    "message":   "게임 결과가 성공적으로 저장되었습니다.",
    "result_id": saved.ID,
  })
}

// GET /api/v0/games/results/:gameType?limit=10
func (gh *GameResultHandler) GetResults(c *gin.Context) {
  limit := 10
  if raw := c.Query("limit"); raw != "" {
    if parsed, err := strconv.Atoi(raw); err == nil {
      limit = parsed
    }
  }

  gameType := c.Param("gameType")
  results, err := gh.gameSvc.RecentResults(c.Request.Context(), requestdata.UserID(c.Request.Context()), gameType, limit)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{
    "game_type":     gameType,
    "total_results": len(results),
    "results":       results,
  })
}
