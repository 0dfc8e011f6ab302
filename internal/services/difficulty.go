package services

import (
  "context"
  "fmt"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/hyodolabs/story-recall-backend/internal/apperr"
  "github.com/hyodolabs/story-recall-backend/internal/clients/userservice"
  "github.com/hyodolabs/story-recall-backend/internal/config"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/repos"
  "github.com/hyodolabs/story-recall-backend/internal/types"
)

// recentWindow is the slice of newest attempts used by the "recent strength"
// rules. It is intentionally smaller than the streak/score window of 10; both
// sizes are load-bearing policy inputs.
const recentWindow = 5

// promotionScoreFloor / demotionScoreCeiling gate transitions on the
// composite difficulty score.
const (
  promotionScoreFloor   = 0.6
  demotionScoreCeiling  = 0.3
)

// Recent-window strength cutoffs: promotion needs at least
// promotionRecentFloor successes in the recent window, demotion fires at
// demotionRecentCeiling or fewer.
const (
  promotionRecentFloor   = 3
  demotionRecentCeiling  = 1
)

// Reason codes, stable across releases. Rule order below decides which code a
// decision reports.
const (
  ReasonInsufficientData  = "INSUFFICIENT_DATA"
  ReasonMaintain          = "MAINTAIN"
  ReasonRecentPerformance = "RECENT_PERFORMANCE"
  ReasonSuccessStreak     = "SUCCESS_STREAK"
  ReasonSuccessRate       = "SUCCESS_RATE"
  ReasonDifficultyScore   = "DIFFICULTY_SCORE"
  ReasonFailureStreak     = "FAILURE_STREAK"
)

type SubmitAttemptInput struct {
  UserID        uuid.UUID
  GameType      string
  StoryID       uint
  IsCorrect     bool
  ResponseTime  float64
  Score         *int
}

type RecentPerformance struct {
  Games         int     `json:"recent_5_games"`
  SuccessCount  int     `json:"recent_success_count"`
  SuccessRate   float64 `json:"recent_success_rate"`
}

type SubmitAttemptResult struct {
  ResultID             uint              `json:"result_id"`
  CurrentGameType      types.GameType    `json:"current_game_type"`
  RecommendedGameType  types.GameType    `json:"recommended_game_type"`
  SuccessRate          float64           `json:"success_rate"`
  DifficultyScore      float64           `json:"difficulty_score"`
  ConsecutiveSuccess   int               `json:"consecutive_success"`
  ConsecutiveFailure   int               `json:"consecutive_failure"`
  RecentPerformance    RecentPerformance `json:"recent_performance"`
  Changed              bool              `json:"difficulty_changed"`
  Reason               string            `json:"reason"`
  ReasonCode           string            `json:"reason_code"`
}

type Recommendation struct {
  RecommendedGameType  types.GameType  `json:"recommended_game_type"`
  CurrentGameType      types.GameType  `json:"current_game_type"`
  SuccessRate          float64         `json:"success_rate"`
  Reason               string          `json:"reason"`
  ReasonCode           string          `json:"reason_code"`
  NewUser              bool            `json:"new_user"`
}

type GameTypeStats struct {
  TotalGames   int64   `json:"total_games"`
  SuccessRate  float64 `json:"success_rate"`
}

type UserGameStats struct {
  CurrentGameType     types.GameType  `json:"current_game_type"`
  SuccessRate         float64         `json:"success_rate"`
  ConsecutiveSuccess  int             `json:"consecutive_success"`
  ConsecutiveFailure  int             `json:"consecutive_failure"`
  SentenceSequence    GameTypeStats   `json:"sentence_sequence"`
  WordSequence        GameTypeStats   `json:"word_sequence"`
}

// DifficultyService is the adaptive difficulty engine. Transitions are only
// evaluated on submission or on an explicit recommendation request, never
// spontaneously.
type DifficultyService interface {
  SubmitAttempt(ctx context.Context, in SubmitAttemptInput) (*SubmitAttemptResult, error)
  RecommendNext(ctx context.Context, userID uuid.UUID) (*Recommendation, error)
  Stats(ctx context.Context, userID uuid.UUID) (*UserGameStats, error)
}

type difficultyService struct {
  db          *gorm.DB
  log         *logger.Logger
  attempts    repos.AttemptRepo
  difficulty  repos.DifficultyRepo
  stories     repos.StoryRepo
  scores      ScoreCalculator
  streaks     StreakAnalyzer
  thresholds  config.ThresholdSource
  verifier    userservice.Verifier
}

func NewDifficultyService(
  db *gorm.DB,
  log *logger.Logger,
  attempts repos.AttemptRepo,
  difficulty repos.DifficultyRepo,
  stories repos.StoryRepo,
  scores ScoreCalculator,
  streaks StreakAnalyzer,
  thresholds config.ThresholdSource,
  verifier userservice.Verifier,
) DifficultyService {
  serviceLog := log.With("service", "DifficultyService")
  return &difficultyService{
    db:         db,
    log:        serviceLog,
    attempts:   attempts,
    difficulty: difficulty,
    stories:    stories,
    scores:     scores,
    streaks:    streaks,
    thresholds: thresholds,
    verifier:   verifier,
  }
}

// ruleEvidence is everything a transition rule may look at.
type ruleEvidence struct {
  thresholds          config.Thresholds
  successRate         float64
  difficultyScore     float64
  recentGames         int
  recentSuccessCount  int
  consecutiveSuccess  int
  consecutiveFailure  int
}

// Promotion is strict: every gate must hold AND at least one signal must
// fire. Demotion is lenient: the first matching rule (in order) demotes, and
// its code becomes the reported reason. The asymmetry is deliberate — a false
// demotion costs the user little, a false promotion does not.
type promotionGate struct {
  code  string
  holds func(e ruleEvidence) bool
}

type promotionSignal struct {
  code    string
  holds   func(e ruleEvidence) bool
  reason  func(e ruleEvidence) string
}

type demotionRule struct {
  code     string
  matches  func(e ruleEvidence) bool
  reason   func(e ruleEvidence) string
}

var promotionGates = []promotionGate{
  {
    code:  ReasonSuccessRate,
    holds: func(e ruleEvidence) bool { return e.successRate >= e.thresholds.EasyToHard },
  },
  {
    code:  ReasonDifficultyScore,
    holds: func(e ruleEvidence) bool { return e.difficultyScore >= promotionScoreFloor },
  },
}

var promotionSignals = []promotionSignal{
  {
    code:   ReasonRecentPerformance,
    holds:  func(e ruleEvidence) bool { return e.recentSuccessCount >= promotionRecentFloor },
    reason: func(e ruleEvidence) string { return fmt.Sprintf("최근 5게임 중 %d게임 성공", e.recentSuccessCount) },
  },
  {
    code:   ReasonSuccessStreak,
    holds:  func(e ruleEvidence) bool { return e.consecutiveSuccess >= e.thresholds.ConsecutiveSuccessForIncrease },
    reason: func(e ruleEvidence) string { return fmt.Sprintf("연속 %d회 성공", e.consecutiveSuccess) },
  },
}

var demotionRules = []demotionRule{
  {
    code:    ReasonSuccessRate,
    matches: func(e ruleEvidence) bool { return e.successRate <= e.thresholds.HardToEasy },
    reason:  func(e ruleEvidence) string { return fmt.Sprintf("전체 성공률 %.0f%% 미달", e.successRate*100) },
  },
  {
    code:    ReasonDifficultyScore,
    matches: func(e ruleEvidence) bool { return e.difficultyScore <= demotionScoreCeiling },
    reason:  func(e ruleEvidence) string { return fmt.Sprintf("난이도 점수 %.1f 미달", e.difficultyScore) },
  },
  {
    code:    ReasonRecentPerformance,
    matches: func(e ruleEvidence) bool { return e.recentSuccessCount <= demotionRecentCeiling },
    reason:  func(e ruleEvidence) string { return fmt.Sprintf("최근 5게임 중 %d게임만 성공", e.recentSuccessCount) },
  },
  {
    code:    ReasonFailureStreak,
    matches: func(e ruleEvidence) bool { return e.consecutiveFailure >= e.thresholds.ConsecutiveFailureForDecrease },
    reason:  func(e ruleEvidence) string { return fmt.Sprintf("연속 %d회 실패", e.consecutiveFailure) },
  },
}

type decision struct {
  recommended  types.GameType
  changed      bool
  reason       string
  reasonCode   string
}

// evaluate gathers evidence and applies the transition rules for the user's
// current game type. Read-only.
func (ds *difficultyService) evaluate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, current types.GameType, th config.Thresholds) (ruleEvidence, decision, error) {
  evidence := ruleEvidence{thresholds: th}
  maintain := decision{recommended: current, reason: "현재 난이도 유지", reasonCode: ReasonMaintain}

  history, err := ds.attempts.Recent(ctx, tx, userID, current, th.MinGamesForAnalysis)
  if err != nil {
    return evidence, decision{}, apperr.Storage(err)
  }

  recentSlice := history
  if len(recentSlice) > recentWindow {
    recentSlice = recentSlice[:recentWindow]
  }
  evidence.recentGames = len(recentSlice)
  for _, attempt := range recentSlice {
    if attempt.IsCorrect {
      evidence.recentSuccessCount++
    }
  }

  // The summary metrics are computed even below the analysis minimum: the
  // min-games guard suppresses the transition, never the cached summary.
  evidence.successRate, err = ds.scores.SuccessRate(ctx, tx, userID, current, scoreWindow)
  if err != nil {
    return evidence, decision{}, err
  }
  evidence.difficultyScore, err = ds.scores.DifficultyScore(ctx, tx, userID, current)
  if err != nil {
    return evidence, decision{}, err
  }
  evidence.consecutiveSuccess, evidence.consecutiveFailure, err = ds.streaks.ConsecutiveRuns(ctx, tx, userID, current)
  if err != nil {
    return evidence, decision{}, err
  }

  if len(history) < th.MinGamesForAnalysis {
    ds.log.Info("Not enough games for analysis", "user_id", userID, "games", len(history), "required", th.MinGamesForAnalysis)
    insufficient := maintain
    insufficient.reason = "분석을 위한 게임 수가 부족합니다"
    insufficient.reasonCode = ReasonInsufficientData
    return evidence, insufficient, nil
  }

  switch current {
  case types.GameTypeSentenceSequence:
    for _, gate := range promotionGates {
      if !gate.holds(evidence) {
        ds.log.Debug("Promotion gate failed", "user_id", userID, "gate", gate.code)
        return evidence, maintain, nil
      }
    }
    for _, signal := range promotionSignals {
      if signal.holds(evidence) {
        ds.log.Info("Difficulty increase", "user_id", userID, "signal", signal.code)
        return evidence, decision{
          recommended: current.Harder(),
          changed:     true,
          reason:      signal.reason(evidence),
          reasonCode:  signal.code,
        }, nil
      }
    }
    return evidence, maintain, nil

  case types.GameTypeWordSequence:
    for _, rule := range demotionRules {
      if rule.matches(evidence) {
        ds.log.Info("Difficulty decrease", "user_id", userID, "rule", rule.code)
        return evidence, decision{
          recommended: current.Easier(),
          changed:     true,
          reason:      rule.reason(evidence),
          reasonCode:  rule.code,
        }, nil
      }
    }
    return evidence, maintain, nil
  }

  return evidence, maintain, nil
}

func (ds *difficultyService) SubmitAttempt(ctx context.Context, in SubmitAttemptInput) (*SubmitAttemptResult, error) {
  gameType, err := types.ParseGameType(in.GameType)
  if err != nil {
    return nil, apperr.Validation("game_type: %v", err)
  }
  if in.ResponseTime < 0 {
    return nil, apperr.Validation("response_time must be non-negative, got %v", in.ResponseTime)
  }
  if in.UserID == uuid.Nil {
    return nil, apperr.Validation("user_id is required")
  }

  if err := ds.verifier.Verify(ctx, in.UserID); err != nil {
    return nil, err
  }

  story, err := ds.stories.GetByID(ctx, nil, in.StoryID)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  if story == nil {
    return nil, apperr.NotFound("이야기를 찾을 수 없습니다.")
  }

  th := ds.thresholds.Snapshot(ctx)

  var result *SubmitAttemptResult
  txErr := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    attempt := &types.GameAttempt{
      UserID:       in.UserID,
      GameType:     gameType,
      StoryID:      in.StoryID,
      IsCorrect:    in.IsCorrect,
      ResponseTime: in.ResponseTime,
      Score:        in.Score,
    }
    if _, err := ds.attempts.Create(ctx, tx, attempt); err != nil {
      return apperr.Storage(err)
    }

    evidence, dec, err := ds.evaluate(ctx, tx, in.UserID, gameType, th)
    if err != nil {
      return err
    }

    // The cached summary is refreshed on every attempt, even when the
    // recommended type does not change.
    if _, err := ds.difficulty.Upsert(ctx, tx, &types.UserDifficulty{
      UserID:             in.UserID,
      CurrentGameType:    gameType,
      SuccessRate:        evidence.successRate,
      ConsecutiveSuccess: evidence.consecutiveSuccess,
      ConsecutiveFailure: evidence.consecutiveFailure,
    }); err != nil {
      return apperr.Storage(err)
    }

    recentRate := 0.0
    if evidence.recentGames > 0 {
      recentRate = float64(evidence.recentSuccessCount) / float64(evidence.recentGames)
    }
    result = &SubmitAttemptResult{
      ResultID:            attempt.ID,
      CurrentGameType:     gameType,
      RecommendedGameType: dec.recommended,
      SuccessRate:         evidence.successRate,
      DifficultyScore:     evidence.difficultyScore,
      ConsecutiveSuccess:  evidence.consecutiveSuccess,
      ConsecutiveFailure:  evidence.consecutiveFailure,
      RecentPerformance: RecentPerformance{
        Games:        evidence.recentGames,
        SuccessCount: evidence.recentSuccessCount,
        SuccessRate:  recentRate,
      },
      Changed:    dec.changed,
      Reason:     dec.reason,
      ReasonCode: dec.reasonCode,
    }
    return nil
  })
  if txErr != nil {
    ds.log.Warn("SubmitAttempt transaction failed", "user_id", in.UserID, "error", txErr)
    return nil, apperr.From(txErr)
  }

  ds.log.Info("Game attempt recorded",
    "user_id", in.UserID,
    "game_type", gameType,
    "correct", in.IsCorrect,
    "recommended", result.RecommendedGameType,
    "changed", result.Changed,
  )
  return result, nil
}

func (ds *difficultyService) RecommendNext(ctx context.Context, userID uuid.UUID) (*Recommendation, error) {
  if userID == uuid.Nil {
    return nil, apperr.Validation("user_id is required")
  }
  if err := ds.verifier.Verify(ctx, userID); err != nil {
    return nil, err
  }

  state, err := ds.difficulty.GetByUserID(ctx, nil, userID)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  if state == nil {
    // First-time player starts at the easy tier.
    return &Recommendation{
      RecommendedGameType: types.GameTypeSentenceSequence,
      CurrentGameType:     types.GameTypeSentenceSequence,
      SuccessRate:         0.0,
      Reason:              "신규 사용자",
      ReasonCode:          ReasonInsufficientData,
      NewUser:             true,
    }, nil
  }

  th := ds.thresholds.Snapshot(ctx)
  _, dec, err := ds.evaluate(ctx, nil, userID, state.CurrentGameType, th)
  if err != nil {
    return nil, err
  }

  return &Recommendation{
    RecommendedGameType: dec.recommended,
    CurrentGameType:     state.CurrentGameType,
    SuccessRate:         state.SuccessRate,
    Reason:              dec.reason,
    ReasonCode:          dec.reasonCode,
  }, nil
}

func (ds *difficultyService) Stats(ctx context.Context, userID uuid.UUID) (*UserGameStats, error) {
  if userID == uuid.Nil {
    return nil, apperr.Validation("user_id is required")
  }
  if err := ds.verifier.Verify(ctx, userID); err != nil {
    return nil, err
  }

  state, err := ds.difficulty.GetByUserID(ctx, nil, userID)
  if err != nil {
    return nil, apperr.Storage(err)
  }

  stats := &UserGameStats{CurrentGameType: types.GameTypeSentenceSequence}
  if state != nil {
    stats.CurrentGameType = state.CurrentGameType
    stats.SuccessRate = state.SuccessRate
    stats.ConsecutiveSuccess = state.ConsecutiveSuccess
    stats.ConsecutiveFailure = state.ConsecutiveFailure
  }

  for _, entry := range []struct {
    gameType types.GameType
    out      *GameTypeStats
  }{
    {types.GameTypeSentenceSequence, &stats.SentenceSequence},
    {types.GameTypeWordSequence, &stats.WordSequence},
  } {
    total, err := ds.attempts.CountByType(ctx, nil, userID, entry.gameType)
    if err != nil {
      return nil, apperr.Storage(err)
    }
    rate, err := ds.scores.SuccessRate(ctx, nil, userID, entry.gameType, scoreWindow)
    if err != nil {
      return nil, err
    }
    entry.out.TotalGames = total
    entry.out.SuccessRate = rate
  }

  return stats, nil
}
