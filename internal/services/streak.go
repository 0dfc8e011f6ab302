package services

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/hyodolabs/story-recall-backend/internal/apperr"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/repos"
  "github.com/hyodolabs/story-recall-backend/internal/types"
)

// streakWindow bounds how far back streak counting looks.
const streakWindow = 10

// failureScanCutoff stops the scan once this many consecutive failures have
// accumulated: demotion is already certain under policy, further history
// cannot change the decision.
const failureScanCutoff = 3

// StreakAnalyzer scans the bounded recent window newest-first: a success
// increments the success counter and clears the failure counter, a failure
// does the opposite. At most one of the two counters is ever non-zero.
type StreakAnalyzer interface {
  ConsecutiveRuns(ctx context.Context, tx *gorm.DB, userID uuid.UUID, gameType types.GameType) (consecutiveSuccess, consecutiveFailure int, err error)
}

type streakAnalyzer struct {
  log      *logger.Logger
  attempts repos.AttemptRepo
}

func NewStreakAnalyzer(log *logger.Logger, attempts repos.AttemptRepo) StreakAnalyzer {
  return &streakAnalyzer{
    log:      log.With("service", "StreakAnalyzer"),
    attempts: attempts,
  }
}

func (sa *streakAnalyzer) ConsecutiveRuns(ctx context.Context, tx *gorm.DB, userID uuid.UUID, gameType types.GameType) (int, int, error) {
  recent, err := sa.attempts.Recent(ctx, tx, userID, gameType, streakWindow)
  if err != nil {
    return 0, 0, apperr.Storage(err)
  }
  if len(recent) == 0 {
    return 0, 0, nil
  }

  consecutiveSuccess := 0
  consecutiveFailure := 0
  for _, attempt := range recent {
    if attempt.IsCorrect {
      consecutiveSuccess++
      consecutiveFailure = 0
    } else {
      consecutiveFailure++
      consecutiveSuccess = 0
      if consecutiveFailure >= failureScanCutoff {
        break
      }
    }
  }
  return consecutiveSuccess, consecutiveFailure, nil
}
