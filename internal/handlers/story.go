package handlers

import (
  "net/http"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/hyodolabs/story-recall-backend/internal/apperr"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/requestdata"
  "github.com/hyodolabs/story-recall-backend/internal/services"
)

type StoryHandler struct {
  log       *logger.Logger
  storySvc  services.StoryService
}

func NewStoryHandler(log *logger.Logger, storySvc services.StoryService) *StoryHandler {
  return &StoryHandler{
    log:      log.With("handler", "StoryHandler"),
    storySvc: storySvc,
  }
}

func storyIDParam(c *gin.Context) (uint, error) {
  raw := c.Param("id")
  parsed, err := strconv.ParseUint(raw, 10, 32)
  if err != nil {
    return 0, apperr.Validation("invalid story id: %q", raw)
  }
  return uint(parsed), nil
}

// POST /api/v0/stories
func (sh *StoryHandler) Create(c *gin.Context) {
  var req services.StoryCreateInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }

  story, err := sh.storySvc.Create(c.Request.Context(), requestdata.UserID(c.Request.Context()), req)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, story)
}

// GET /api/v0/stories?skip=0&limit=100
func (sh *StoryHandler) List(c *gin.Context) {
  skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

  stories, err := sh.storySvc.List(c.Request.Context(), requestdata.UserID(c.Request.Context()), skip, limit)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, stories)
}

// GET /api/v0/stories/:id
func (sh *StoryHandler) Get(c *gin.Context) {
  storyID, err := storyIDParam(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  story, err := sh.storySvc.Get(c.Request.Context(), requestdata.UserID(c.Request.Context()), storyID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, story)
}

// PUT /api/v0/stories/:id
func (sh *StoryHandler) Update(c *gin.Context) {
  storyID, err := storyIDParam(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  var req services.StoryUpdateInput
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }

  story, err := sh.storySvc.Update(c.Request.Context(), requestdata.UserID(c.Request.Context()), storyID, req)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, story)
}

// DELETE /api/v0/stories/:id
func (sh *StoryHandler) Delete(c *gin.Context) {
  storyID, err := storyIDParam(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  if err := sh.storySvc.Delete(c.Request.Context(), requestdata.UserID(c.Request.Context()), storyID); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "이야기가 삭제되었습니다."})
}

// GET /api/v0/stories/:id/segments
func (sh *StoryHandler) Segments(c *gin.Context) {
  storyID, err := storyIDParam(c)
  if err != nil {
    RespondError(c, err)
    return
  }
  segments, err := sh.storySvc.Segments(c.Request.Context(), requestdata.UserID(c.Request.Context()), storyID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, segments)
}

// GET /api/v0/stories/segments/random
func (sh *StoryHandler) RandomSegment(c *gin.Context) {
  segment, err := sh.storySvc.RandomSegment(c.Request.Context(), requestdata.UserID(c.Request.Context()))
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, segment)
}
