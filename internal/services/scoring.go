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

// scoreWindow is the fixed window for the composite difficulty score.
const scoreWindow = 10

// responseTimeCeiling normalizes response times; anything slower clamps the
// time score to 0.
const responseTimeCeiling = 60.0

// ScoreCalculator derives success rate and the composite difficulty score
// from a bounded recent window of attempts. Both are pure functions of the
// attempt log: same history, same result. A storage failure is returned as an
// error, never coerced to 0.0 — policy thresholds treat 0.0 as meaningful
// empty-state input.
type ScoreCalculator interface {
  SuccessRate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, gameType types.GameType, window int) (float64, error)
  DifficultyScore(ctx context.Context, tx *gorm.DB, userID uuid.UUID, gameType types.GameType) (float64, error)
}

type scoreCalculator struct {
  log      *logger.Logger
  attempts repos.AttemptRepo
}

func NewScoreCalculator(log *logger.Logger, attempts repos.AttemptRepo) ScoreCalculator {
  return &scoreCalculator{
    log:      log.With("service", "ScoreCalculator"),
    attempts: attempts,
  }
}

func (sc *scoreCalculator) SuccessRate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, gameType types.GameType, window int) (float64, error) {
  recent, err := sc.attempts.Recent(ctx, tx, userID, gameType, window)
  if err != nil {
    return 0, apperr.Storage(err)
  }
  if len(recent) == 0 {
    return 0.0, nil
  }

  successCount := 0
  for _, attempt := range recent {
    if attempt.IsCorrect {
      successCount++
    }
  }
  rate := float64(successCount) / float64(len(recent))
  sc.log.Debug("Success rate computed", "user_id", userID, "game_type", gameType, "rate", rate)
  return rate, nil
}

func (sc *scoreCalculator) DifficultyScore(ctx context.Context, tx *gorm.DB, userID uuid.UUID, gameType types.GameType) (float64, error) {
  recent, err := sc.attempts.Recent(ctx, tx, userID, gameType, scoreWindow)
  if err != nil {
    return 0, apperr.Storage(err)
  }
  if len(recent) == 0 {
    return 0.0, nil
  }

  var totalTime float64
  successCount := 0
  for _, attempt := range recent {
    totalTime += attempt.ResponseTime
    if attempt.IsCorrect {
      successCount++
    }
  }
  avgResponseTime := totalTime / float64(len(recent))
  successRate := float64(successCount) / float64(len(recent))

  // Accuracy dominates; speed is the secondary tiebreaker.
  timeScore := 1 - avgResponseTime/responseTimeCeiling
  if timeScore < 0 {
    timeScore = 0
  }
  score := successRate*0.7 + timeScore*0.3

  sc.log.Debug("Difficulty score computed",
    "user_id", userID,
    "game_type", gameType,
    "success_rate", successRate,
    "avg_response_time", avgResponseTime,
    "score", score,
  )
  return score, nil
}
