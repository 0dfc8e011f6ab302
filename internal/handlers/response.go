package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/hyodolabs/story-recall-backend/internal/apperr"
)

// Envelope is the standard response shape: results on success, error text and
// a stable code on failure.
type Envelope struct {
  Results  interface{} `json:"results"`
  Error    *string     `json:"error"`
  Code     string      `json:"code,omitempty"`
}

func RespondOK(c *gin.Context, payload interface{}) {
  c.JSON(http.StatusOK, Envelope{Results: payload})
}

func RespondCreated(c *gin.Context, payload interface{}) {
  c.JSON(http.StatusCreated, Envelope{Results: payload})
}

func RespondError(c *gin.Context, err error) {
  ae := apperr.From(err)
  msg := ae.Error()
  c.JSON(ae.Status, Envelope{Error: &msg, Code: ae.Code})
}

func HealthCheck(c *gin.Context) {
  c.String(http.StatusOK, "ok")
}
