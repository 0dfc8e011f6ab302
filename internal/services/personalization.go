package services

import (
  "context"
  "fmt"
  "github.com/google/uuid"
  "github.com/hyodolabs/story-recall-backend/internal/apperr"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/repos"
  "github.com/hyodolabs/story-recall-backend/internal/types"
)

// Difficulty level labels derived from success rate, presentation only.
const (
  LevelAdvanced     = "ADVANCED"
  LevelIntermediate = "INTERMEDIATE"
  LevelBeginner     = "BEGINNER"
  LevelNovice       = "NOVICE"
)

type PerformanceInsights struct {
  SuccessRate         float64 `json:"success_rate"`
  ConsecutiveSuccess  int     `json:"consecutive_success"`
  ConsecutiveFailure  int     `json:"consecutive_failure"`
  BestTimeOfDay       string  `json:"best_time_of_day"`
  ImprovementTrend    string  `json:"improvement_trend"`
}

type PersonalizedRecommendation struct {
  RecommendedGameType  types.GameType       `json:"recommended_game_type"`
  DifficultyLevel      string               `json:"difficulty_level"`
  Message              string               `json:"message"`
  Reason               string               `json:"reason"`
  EstimatedDuration    string               `json:"estimated_duration"`
  Tips                 []string             `json:"tips"`
  PerformanceInsights  *PerformanceInsights `json:"performance_insights,omitempty"`
}

// progressWindow bounds the per-game-type history read for learning
// progress; insightsWindow does the same for performance insights.
const (
  progressWindow  = 50
  insightsWindow  = 30
)

// improvementWindow is the slice size for the recent-vs-older improvement
// rate comparison.
const improvementWindow = 10

type LearningProgress struct {
  Level            string          `json:"level"`
  TotalGames       int             `json:"total_games"`
  CurrentStreak    int             `json:"current_streak"`
  BestStreak       int             `json:"best_streak"`
  ImprovementRate  float64         `json:"improvement_rate"`
  SuccessRate      float64         `json:"success_rate"`
  CurrentGameType  types.GameType  `json:"current_game_type"`
  NewUser          bool            `json:"-"`
}

type GameTypeInsights struct {
  TotalGames       int     `json:"total_games"`
  SuccessRate      float64 `json:"success_rate"`
  AvgResponseTime  float64 `json:"avg_response_time"`
  BestTime         string  `json:"best_time"`
}

type PerformanceReport struct {
  SentenceSequence  GameTypeInsights  `json:"sentence_sequence"`
  WordSequence      GameTypeInsights  `json:"word_sequence"`
  TimeAnalysis      *TimePerformance  `json:"time_analysis"`
  PatternAnalysis   *RecentPatterns   `json:"pattern_analysis"`
  Recommendations   []string          `json:"recommendations"`
}

// PersonalizationService composes human-readable recommendations from the
// engine's state and the pattern analyzer's advisory signals. Presentation
// only: nothing here feeds back into the difficulty decision.
type PersonalizationService interface {
  Recommend(ctx context.Context, userID uuid.UUID) (*PersonalizedRecommendation, error)
  Progress(ctx context.Context, userID uuid.UUID) (*LearningProgress, error)
  Insights(ctx context.Context, userID uuid.UUID) (*PerformanceReport, error)
  DifficultyMessage(current, recommended types.GameType) string
}

type personalizationService struct {
  log         *logger.Logger
  difficulty  repos.DifficultyRepo
  attempts    repos.AttemptRepo
  engine      DifficultyService
  patterns    PatternAnalyzer
}

func NewPersonalizationService(log *logger.Logger, difficulty repos.DifficultyRepo, attempts repos.AttemptRepo, engine DifficultyService, patterns PatternAnalyzer) PersonalizationService {
  return &personalizationService{
    log:        log.With("service", "PersonalizationService"),
    difficulty: difficulty,
    attempts:   attempts,
    engine:     engine,
    patterns:   patterns,
  }
}

func (ps *personalizationService) Recommend(ctx context.Context, userID uuid.UUID) (*PersonalizedRecommendation, error) {
  state, err := ps.difficulty.GetByUserID(ctx, nil, userID)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  if state == nil {
    return newUserRecommendation(), nil
  }

  patterns, err := ps.patterns.RecentPatterns(ctx, userID)
  if err != nil {
    return nil, err
  }
  timePerf, err := ps.patterns.TimeOfDayPerformance(ctx, userID)
  if err != nil {
    return nil, err
  }
  recommendation, err := ps.engine.RecommendNext(ctx, userID)
  if err != nil {
    return nil, err
  }

  message, tips := composeMessage(state, patterns, timePerf)
  return &PersonalizedRecommendation{
    RecommendedGameType: recommendation.RecommendedGameType,
    DifficultyLevel:     difficultyLevel(state.SuccessRate),
    Message:             message,
    Reason:              recommendationReason(state, patterns),
    EstimatedDuration:   estimateDuration(patterns.AvgResponseTime),
    Tips:                tips,
    PerformanceInsights: &PerformanceInsights{
      SuccessRate:        state.SuccessRate,
      ConsecutiveSuccess: state.ConsecutiveSuccess,
      ConsecutiveFailure: state.ConsecutiveFailure,
      BestTimeOfDay:      timePerf.BestTime,
      ImprovementTrend:   patterns.Trend,
    },
  }, nil
}

func (ps *personalizationService) Progress(ctx context.Context, userID uuid.UUID) (*LearningProgress, error) {
  state, err := ps.difficulty.GetByUserID(ctx, nil, userID)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  if state == nil {
    return &LearningProgress{
      Level:           LevelBeginner,
      CurrentGameType: types.GameTypeSentenceSequence,
      NewUser:         true,
    }, nil
  }

  sentence, err := ps.attempts.Recent(ctx, nil, userID, types.GameTypeSentenceSequence, progressWindow)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  word, err := ps.attempts.Recent(ctx, nil, userID, types.GameTypeWordSequence, progressWindow)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  history := make([]*types.GameAttempt, 0, len(sentence)+len(word))
  history = append(history, sentence...)
  history = append(history, word...)

  bestStreak := 0
  streak := 0
  for _, attempt := range history {
    if attempt.IsCorrect {
      streak++
      if streak > bestStreak {
        bestStreak = streak
      }
    } else {
      streak = 0
    }
  }

  // Improvement compares the latest window against the one before it; with
  // fewer than two full windows the rate stays at zero.
  improvement := 0.0
  if len(history) >= 2*improvementWindow {
    recent := successFraction(history[:improvementWindow])
    older := successFraction(history[improvementWindow : 2*improvementWindow])
    improvement = recent - older
  }

  return &LearningProgress{
    Level:           difficultyLevel(state.SuccessRate),
    TotalGames:      len(history),
    CurrentStreak:   state.ConsecutiveSuccess,
    BestStreak:      bestStreak,
    ImprovementRate: improvement,
    SuccessRate:     state.SuccessRate,
    CurrentGameType: state.CurrentGameType,
  }, nil
}

func (ps *personalizationService) Insights(ctx context.Context, userID uuid.UUID) (*PerformanceReport, error) {
  sentence, err := ps.attempts.Recent(ctx, nil, userID, types.GameTypeSentenceSequence, insightsWindow)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  word, err := ps.attempts.Recent(ctx, nil, userID, types.GameTypeWordSequence, insightsWindow)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  timePerf, err := ps.patterns.TimeOfDayPerformance(ctx, userID)
  if err != nil {
    return nil, err
  }
  patterns, err := ps.patterns.RecentPatterns(ctx, userID)
  if err != nil {
    return nil, err
  }

  return &PerformanceReport{
    SentenceSequence: gameTypeInsights(sentence),
    WordSequence:     gameTypeInsights(word),
    TimeAnalysis:     timePerf,
    PatternAnalysis:  patterns,
    Recommendations: []string{
      "꾸준한 연습이 중요해요",
      "틀린 부분을 다시 한번 확인해보세요",
      "천천히 꼼꼼히 해보세요",
    },
  }, nil
}

func gameTypeInsights(attempts []*types.GameAttempt) GameTypeInsights {
  insights := GameTypeInsights{BestTime: TimeMorning}
  if len(attempts) == 0 {
    return insights
  }

  var totalTime float64
  for _, attempt := range attempts {
    totalTime += attempt.ResponseTime
  }
  insights.TotalGames = len(attempts)
  insights.SuccessRate = successFraction(attempts)
  insights.AvgResponseTime = totalTime / float64(len(attempts))
  insights.BestTime = timePerformance(attempts).BestTime
  return insights
}

func (ps *personalizationService) DifficultyMessage(current, recommended types.GameType) string {
  if current != recommended {
    switch recommended {
    case types.GameTypeWordSequence:
      return "축하합니다! 단어 순서 맞추기로 도전해보세요."
    case types.GameTypeSentenceSequence:
      return "천천히 다시 문장 순서 맞추기부터 시작해보세요."
    }
  }
  return "현재 난이도에서 계속 연습해보세요."
}

func newUserRecommendation() *PersonalizedRecommendation {
  return &PersonalizedRecommendation{
    RecommendedGameType: types.GameTypeSentenceSequence,
    DifficultyLevel:     LevelBeginner,
    Message:             "문장 순서 맞추기부터 시작해보세요!",
    Reason:              "신규 사용자",
    EstimatedDuration:   "5-10분",
    Tips: []string{
      "천천히 문장을 읽어보세요",
      "순서를 기억해두세요",
      "틀려도 괜찮아요, 연습이 중요해요",
    },
  }
}

func composeMessage(state *types.UserDifficulty, patterns *RecentPatterns, timePerf *TimePerformance) (string, []string) {
  var message string
  var tips []string

  switch {
  case state.SuccessRate >= 0.8:
    message = "훌륭한 성과를 보이고 계세요! 더 어려운 도전을 해보세요."
    tips = append(tips, "이제 단어 순서 맞추기에 도전해보세요")
  case state.SuccessRate >= 0.6:
    message = "잘 하고 계세요! 조금 더 연습하면 더 좋은 결과를 얻을 수 있어요."
    tips = append(tips, "천천히 꼼꼼히 확인해보세요")
  case state.SuccessRate >= 0.4:
    message = "꾸준히 연습하고 계시네요. 조금 더 천천히 해보세요."
    tips = append(tips, "틀린 부분을 다시 한번 확인해보세요")
  default:
    message = "천천히 다시 시작해보세요. 연습이 중요해요."
    tips = append(tips, "문장을 다시 한번 읽어보세요")
  }

  if state.ConsecutiveSuccess >= 3 {
    tips = append(tips, "연속으로 잘하고 계세요! 계속 이어가세요")
  } else if state.ConsecutiveFailure >= 2 {
    tips = append(tips, "잠시 쉬었다가 다시 시도해보세요")
  }

  tips = append(tips, fmt.Sprintf("%s에 게임하시면 더 좋은 결과를 얻을 수 있어요", timePerf.BestTime))

  switch patterns.Trend {
  case TrendImproving:
    tips = append(tips, "점점 더 잘하고 계세요! 계속 이어가세요")
  case TrendDeclining:
    tips = append(tips, "조금 쉬었다가 다시 시작해보세요")
  }

  return message, tips
}

func difficultyLevel(successRate float64) string {
  switch {
  case successRate >= 0.8:
    return LevelAdvanced
  case successRate >= 0.6:
    return LevelIntermediate
  case successRate >= 0.4:
    return LevelBeginner
  default:
    return LevelNovice
  }
}

func recommendationReason(state *types.UserDifficulty, patterns *RecentPatterns) string {
  switch {
  case state.ConsecutiveSuccess >= 5:
    return "연속 성공으로 난이도 상승"
  case state.ConsecutiveFailure >= 3:
    return "연속 실패로 난이도 조정"
  case patterns.Trend == TrendImproving:
    return "성과 향상으로 난이도 상승"
  default:
    return "현재 난이도 유지"
  }
}

func estimateDuration(avgResponseTime float64) string {
  switch {
  case avgResponseTime < 20:
    return "3-5분"
  case avgResponseTime < 40:
    return "5-8분"
  default:
    return "8-12분"
  }
}
