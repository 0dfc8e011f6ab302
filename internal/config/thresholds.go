package config

import (
  "context"
  "fmt"
  "strconv"
  "time"
  goredis "github.com/redis/go-redis/v9"
  "github.com/hyodolabs/story-recall-backend/internal/apperr"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/utils"
)

// Thresholds is a read-only snapshot of the difficulty tuning knobs. One
// configuration applies uniformly to all users.
type Thresholds struct {
  EasyToHard                    float64 `json:"easy_to_medium_threshold"`
  HardToEasy                    float64 `json:"hard_to_easy_threshold"`
  MinGamesForAnalysis           int     `json:"min_games_for_analysis"`
  ConsecutiveSuccessForIncrease int     `json:"consecutive_success_for_increase"`
  ConsecutiveFailureForDecrease int     `json:"consecutive_failure_for_decrease"`
}

const thresholdsKey = "difficulty:thresholds"

const (
  fieldEasyToHard          = "easy_to_medium_threshold"
  fieldHardToEasy          = "hard_to_easy_threshold"
  fieldMinGames            = "min_games_for_analysis"
  fieldConsecutiveSuccess  = "consecutive_success_for_increase"
  fieldConsecutiveFailure  = "consecutive_failure_for_decrease"
)

// ThresholdSource yields threshold snapshots. Overrides written through it
// take effect on the next Snapshot call, without a restart.
type ThresholdSource interface {
  Snapshot(ctx context.Context) Thresholds
  Override(ctx context.Context, settings map[string]string) (Thresholds, error)
}

type thresholdSource struct {
  log       *logger.Logger
  rdb       *goredis.Client
  defaults  Thresholds
}

// NewThresholdSource reads env defaults once at construction. rdb may be nil,
// in which case the source is static and Override is rejected.
func NewThresholdSource(log *logger.Logger, rdb *goredis.Client) ThresholdSource {
  sourceLog := log.With("service", "ThresholdSource")
  defaults := Thresholds{
    EasyToHard:                    utils.GetEnvAsFloat("EASY_TO_MEDIUM_THRESHOLD", 0.7, log),
    HardToEasy:                    utils.GetEnvAsFloat("HARD_TO_EASY_THRESHOLD", 0.3, log),
    MinGamesForAnalysis:           utils.GetEnvAsInt("MIN_GAMES_FOR_ANALYSIS", 5, log),
    ConsecutiveSuccessForIncrease: utils.GetEnvAsInt("CONSECUTIVE_SUCCESS_FOR_INCREASE", 5, log),
    ConsecutiveFailureForDecrease: utils.GetEnvAsInt("CONSECUTIVE_FAILURE_FOR_DECREASE", 3, log),
  }
  return &thresholdSource{log: sourceLog, rdb: rdb, defaults: defaults}
}

func (ts *thresholdSource) Snapshot(ctx context.Context) Thresholds {
  snapshot := ts.defaults
  if ts.rdb == nil {
    return snapshot
  }

  readCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
  defer cancel()
  overrides, err := ts.rdb.HGetAll(readCtx, thresholdsKey).Result()
  if err != nil {
    // Config is advisory relative to the durable stores: fall back to env
    // defaults instead of failing the decision.
    ts.log.Warn("Could not read threshold overrides, using defaults", "error", err)
    return snapshot
  }

  for field, raw := range overrides {
    switch field {
    case fieldEasyToHard:
      if v, err := strconv.ParseFloat(raw, 64); err == nil {
        snapshot.EasyToHard = v
      }
    case fieldHardToEasy:
      if v, err := strconv.ParseFloat(raw, 64); err == nil {
        snapshot.HardToEasy = v
      }
    case fieldMinGames:
      if v, err := strconv.Atoi(raw); err == nil {
        snapshot.MinGamesForAnalysis = v
      }
    case fieldConsecutiveSuccess:
      if v, err := strconv.Atoi(raw); err == nil {
        snapshot.ConsecutiveSuccessForIncrease = v
      }
    case fieldConsecutiveFailure:
      if v, err := strconv.Atoi(raw); err == nil {
        snapshot.ConsecutiveFailureForDecrease = v
      }
    }
  }
  return snapshot
}

func (ts *thresholdSource) Override(ctx context.Context, settings map[string]string) (Thresholds, error) {
  if ts.rdb == nil {
    return Thresholds{}, apperr.Validation("threshold overrides require redis to be configured")
  }
  if len(settings) == 0 {
    return Thresholds{}, apperr.Validation("no settings provided")
  }

  validated := make(map[string]interface{}, len(settings))
  for field, raw := range settings {
    switch field {
    case fieldEasyToHard, fieldHardToEasy:
      v, err := strconv.ParseFloat(raw, 64)
      if err != nil || v < 0 || v > 1 {
        return Thresholds{}, apperr.Validation("잘못된 설정값: %s", field)
      }
      validated[field] = raw
    case fieldMinGames, fieldConsecutiveSuccess, fieldConsecutiveFailure:
      v, err := strconv.Atoi(raw)
      if err != nil || v < 1 {
        return Thresholds{}, apperr.Validation("잘못된 설정값: %s", field)
      }
      validated[field] = raw
    default:
      return Thresholds{}, apperr.Validation("알 수 없는 설정: %s", field)
    }
  }

  writeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
  defer cancel()
  if err := ts.rdb.HSet(writeCtx, thresholdsKey, validated).Err(); err != nil {
    return Thresholds{}, apperr.Storage(fmt.Errorf("write threshold overrides: %w", err))
  }
  ts.log.Info("Difficulty thresholds updated", "settings", settings)
  return ts.Snapshot(ctx), nil
}
