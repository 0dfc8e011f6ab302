package handlers

import (
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/hyodolabs/story-recall-backend/internal/apperr"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/services"
)

type ActivityHandler struct {
  log          *logger.Logger
  activitySvc  services.ActivityService
}

func NewActivityHandler(log *logger.Logger, activitySvc services.ActivityService) *ActivityHandler {
  return &ActivityHandler{
    log:         log.With("handler", "ActivityHandler"),
    activitySvc: activitySvc,
  }
}

func activityStoryID(c *gin.Context) (uint, error) {
  raw := c.Param("storyId")
  parsed, err := strconv.ParseUint(raw, 10, 32)
  if err != nil {
    return 0, apperr.Validation("invalid story id: %q", raw)
  }
  return uint(parsed), nil
}

// GET /api/v0/activity/story-sequence/:storyId
func (ah *ActivityHandler) StorySequence(c *gin.Context) {
  storyID, err := activityStoryID(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  activity, err := ah.activitySvc.StorySequence(c.Request.Context(), storyID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, activity)
}

// GET /api/v0/activity/word-sequence/:storyId
func (ah *ActivityHandler) WordSequence(c *gin.Context) {
  storyID, err := activityStoryID(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  activity, err := ah.activitySvc.WordSequence(c.Request.Context(), storyID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, activity)
}
