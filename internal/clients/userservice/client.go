package userservice

import (
  "context"
  "fmt"
  "net/http"
  "time"
  "github.com/google/uuid"
  "github.com/hyodolabs/story-recall-backend/internal/apperr"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/utils"
)

// Verifier confirms a user id against the external user service. An
// unverifiable id is a hard failure for the caller, never "new user".
type Verifier interface {
  Verify(ctx context.Context, userID uuid.UUID) error
}

type client struct {
  log     *logger.Logger
  baseURL string
  http    *http.Client
}

func NewClient(log *logger.Logger) Verifier {
  clientLog := log.With("client", "UserServiceClient")
  baseURL := utils.GetEnv("USER_SERVICE_URL", "http://localhost:8000", log)
  return &client{
    log:     clientLog,
    baseURL: baseURL,
    http:    &http.Client{Timeout: 5 * time.Second},
  }
}

func (c *client) Verify(ctx context.Context, userID uuid.UUID) error {
  url := fmt.Sprintf("%s/users/%s", c.baseURL, userID)
  req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
  if err != nil {
    return apperr.Upstream(err)
  }

  resp, err := c.http.Do(req)
  if err != nil {
    c.log.Warn("User service call failed", "user_id", userID, "error", err)
    return apperr.Upstream(err)
  }
  defer resp.Body.Close()

  switch {
  case resp.StatusCode == http.StatusOK:
    return nil
  case resp.StatusCode == http.StatusNotFound:
    return apperr.NotFound("사용자를 찾을 수 없습니다.")
  default:
    c.log.Warn("User service returned unexpected status", "user_id", userID, "status", resp.StatusCode)
    return apperr.Upstream(fmt.Errorf("user service status %d", resp.StatusCode))
  }
}
