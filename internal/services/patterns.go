package services

import (
  "context"
  "github.com/google/uuid"
  "github.com/hyodolabs/story-recall-backend/internal/apperr"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/repos"
  "github.com/hyodolabs/story-recall-backend/internal/types"
)

// Trend classifications.
const (
  TrendImproving = "improving"
  TrendDeclining = "declining"
  TrendStable    = "stable"
)

// Consistency buckets for response-time variance.
const (
  ConsistencyHigh    = "high"
  ConsistencyMedium  = "medium"
  ConsistencyLow     = "low"
  ConsistencyUnknown = "unknown"
)

// Time-of-day labels, presented to users as-is.
const (
  TimeMorning   = "오전"
  TimeAfternoon = "오후"
  TimeEvening   = "저녁"
)

// trendBand is the success-rate delta beyond which a trend counts as
// improving or declining.
const trendBand = 0.1

type RecentPatterns struct {
  Trend              string  `json:"trend"`
  Consistency        string  `json:"consistency"`
  RecentSuccessRate  float64 `json:"recent_success_rate"`
  AvgResponseTime    float64 `json:"avg_response_time"`
}

type TimePerformance struct {
  BestTime           string             `json:"best_time"`
  PerformanceByTime  map[string]float64 `json:"performance_by_time"`
}

// PatternAnalyzer derives advisory signals for personalization. Its outputs
// feed human-facing messaging only, never the promotion/demotion decision.
type PatternAnalyzer interface {
  RecentPatterns(ctx context.Context, userID uuid.UUID) (*RecentPatterns, error)
  TimeOfDayPerformance(ctx context.Context, userID uuid.UUID) (*TimePerformance, error)
}

type patternAnalyzer struct {
  log      *logger.Logger
  attempts repos.AttemptRepo
}

func NewPatternAnalyzer(log *logger.Logger, attempts repos.AttemptRepo) PatternAnalyzer {
  return &patternAnalyzer{
    log:      log.With("service", "PatternAnalyzer"),
    attempts: attempts,
  }
}

func (pa *patternAnalyzer) RecentPatterns(ctx context.Context, userID uuid.UUID) (*RecentPatterns, error) {
  recent, err := pa.attempts.RecentAllTypes(ctx, nil, userID, 20)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  if len(recent) == 0 {
    return &RecentPatterns{Trend: TrendStable, Consistency: ConsistencyUnknown}, nil
  }

  recentHalf := recent
  var olderHalf []*types.GameAttempt
  if len(recent) > 10 {
    recentHalf = recent[:10]
    olderHalf = recent[10:]
  }

  recentRate := successFraction(recentHalf)
  olderRate := recentRate
  if len(olderHalf) > 0 {
    olderRate = successFraction(olderHalf)
  }

  trend := TrendStable
  switch {
  case recentRate > olderRate+trendBand:
    trend = TrendImproving
  case recentRate < olderRate-trendBand:
    trend = TrendDeclining
  }

  var totalTime float64
  for _, attempt := range recent {
    totalTime += attempt.ResponseTime
  }
  avgTime := totalTime / float64(len(recent))
  var variance float64
  for _, attempt := range recent {
    d := attempt.ResponseTime - avgTime
    variance += d * d
  }
  variance /= float64(len(recent))

  consistency := ConsistencyLow
  switch {
  case variance < 100:
    consistency = ConsistencyHigh
  case variance < 400:
    consistency = ConsistencyMedium
  }

  return &RecentPatterns{
    Trend:             trend,
    Consistency:       consistency,
    RecentSuccessRate: recentRate,
    AvgResponseTime:   avgTime,
  }, nil
}

func (pa *patternAnalyzer) TimeOfDayPerformance(ctx context.Context, userID uuid.UUID) (*TimePerformance, error) {
  recent, err := pa.attempts.RecentAllTypes(ctx, nil, userID, 100)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  return timePerformance(recent), nil
}

// timePerformance buckets attempts by time of day and picks the strongest
// bucket. Empty input yields the morning default.
func timePerformance(attempts []*types.GameAttempt) *TimePerformance {
  if len(attempts) == 0 {
    return &TimePerformance{BestTime: TimeMorning, PerformanceByTime: map[string]float64{}}
  }

  buckets := map[string][]*types.GameAttempt{}
  for _, attempt := range attempts {
    hour := attempt.CreatedAt.Hour()
    var label string
    switch {
    case hour >= 6 && hour < 12:
      label = TimeMorning
    case hour >= 12 && hour < 18:
      label = TimeAfternoon
    default:
      label = TimeEvening
    }
    buckets[label] = append(buckets[label], attempt)
  }

  performance := map[string]float64{}
  bestTime := TimeMorning
  bestRate := -1.0
  // Fixed iteration order so ties resolve the same way every call.
  for _, label := range []string{TimeMorning, TimeAfternoon, TimeEvening} {
    bucket, ok := buckets[label]
    if !ok {
      continue
    }
    rate := successFraction(bucket)
    performance[label] = rate
    if rate > bestRate {
      bestRate = rate
      bestTime = label
    }
  }

  return &TimePerformance{BestTime: bestTime, PerformanceByTime: performance}
}

func successFraction(attempts []*types.GameAttempt) float64 {
  if len(attempts) == 0 {
    return 0.0
  }
  count := 0
  for _, attempt := range attempts {
    if attempt.IsCorrect {
      count++
    }
  }
  return float64(count) / float64(len(attempts))
}
