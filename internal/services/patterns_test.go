package services

import (
  "context"
  "testing"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/repos"
  "github.com/hyodolabs/story-recall-backend/internal/types"
)

func newPatternAnalyzer(db *gorm.DB) PatternAnalyzer {
  log := logger.NewNop()
  return NewPatternAnalyzer(log, repos.NewAttemptRepo(db, log))
}

func seedAttemptAt(t *testing.T, db *gorm.DB, userID uuid.UUID, storyID uint, correct bool, responseTime float64, at time.Time) {
  t.Helper()
  attempt := &types.GameAttempt{
    UserID:       userID,
    GameType:     types.GameTypeSentenceSequence,
    StoryID:      storyID,
    IsCorrect:    correct,
    ResponseTime: responseTime,
    CreatedAt:    at,
  }
  if err := db.Create(attempt).Error; err != nil {
    t.Fatalf("seed attempt: %v", err)
  }
}

func TestRecentPatternsEmptyHistory(t *testing.T) {
  db := newTestDB(t)
  analyzer := newPatternAnalyzer(db)

  patterns, err := analyzer.RecentPatterns(context.Background(), uuid.New())
  if err != nil {
    t.Fatalf("RecentPatterns: %v", err)
  }
  if patterns.Trend != TrendStable {
    t.Fatalf("expected %s, got %s", TrendStable, patterns.Trend)
  }
  if patterns.Consistency != ConsistencyUnknown {
    t.Fatalf("expected %s, got %s", ConsistencyUnknown, patterns.Consistency)
  }
}

func TestRecentPatternsTrend(t *testing.T) {
  cases := []struct {
    name      string
    // oldest first: first ten are the older half, last ten the recent half
    results   []bool
    wantTrend string
  }{
    {
      name: "improving",
      results: []bool{
        false, false, false, false, false, false, false, false, true, true,
        true, true, true, true, true, true, true, true, false, false,
      },
      wantTrend: TrendImproving,
    },
    {
      name: "declining",
      results: []bool{
        true, true, true, true, true, true, true, true, false, false,
        false, false, false, false, false, false, false, false, true, true,
      },
      wantTrend: TrendDeclining,
    },
    {
      name: "stable within the band",
      results: []bool{
        true, false, true, false, true, false, true, false, true, false,
        false, true, false, true, false, true, false, true, false, true,
      },
      wantTrend: TrendStable,
    },
  }

  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      db := newTestDB(t)
      analyzer := newPatternAnalyzer(db)
      userID := uuid.New()
      story := seedStory(t, db, userID)
      seedAttempts(t, db, userID, story.ID, types.GameTypeSentenceSequence, tc.results, 10)

      patterns, err := analyzer.RecentPatterns(context.Background(), userID)
      if err != nil {
        t.Fatalf("RecentPatterns: %v", err)
      }
      if patterns.Trend != tc.wantTrend {
        t.Fatalf("expected %s, got %s", tc.wantTrend, patterns.Trend)
      }
    })
  }
}

func TestRecentPatternsConsistency(t *testing.T) {
  db := newTestDB(t)
  analyzer := newPatternAnalyzer(db)
  userID := uuid.New()
  story := seedStory(t, db, userID)

  // Identical response times: zero variance.
  seedAttempts(t, db, userID, story.ID, types.GameTypeSentenceSequence,
    []bool{true, true, true, true}, 15)

  patterns, err := analyzer.RecentPatterns(context.Background(), userID)
  if err != nil {
    t.Fatalf("RecentPatterns: %v", err)
  }
  if patterns.Consistency != ConsistencyHigh {
    t.Fatalf("expected %s, got %s", ConsistencyHigh, patterns.Consistency)
  }
  if patterns.AvgResponseTime != 15 {
    t.Fatalf("expected avg 15, got %v", patterns.AvgResponseTime)
  }
}

func TestRecentPatternsLowConsistency(t *testing.T) {
  db := newTestDB(t)
  analyzer := newPatternAnalyzer(db)
  userID := uuid.New()
  story := seedStory(t, db, userID)

  // Response times 5 and 55: variance 625, past the medium cutoff of 400.
  base := time.Now().UTC().Add(-time.Hour)
  for i := 0; i < 4; i++ {
    rt := 5.0
    if i%2 == 0 {
      rt = 55.0
    }
    seedAttemptAt(t, db, userID, story.ID, true, rt, base.Add(time.Duration(i)*time.Minute))
  }

  patterns, err := analyzer.RecentPatterns(context.Background(), userID)
  if err != nil {
    t.Fatalf("RecentPatterns: %v", err)
  }
  if patterns.Consistency != ConsistencyLow {
    t.Fatalf("expected %s, got %s", ConsistencyLow, patterns.Consistency)
  }
}

func TestTimeOfDayPerformance(t *testing.T) {
  db := newTestDB(t)
  analyzer := newPatternAnalyzer(db)
  userID := uuid.New()
  story := seedStory(t, db, userID)

  day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
  // Morning games all correct, afternoon games all wrong, one evening win.
  for i := 0; i < 3; i++ {
    seedAttemptAt(t, db, userID, story.ID, true, 10, day.Add(time.Duration(9*60+i)*time.Minute))
  }
  for i := 0; i < 3; i++ {
    seedAttemptAt(t, db, userID, story.ID, false, 10, day.Add(time.Duration(14*60+i)*time.Minute))
  }
  seedAttemptAt(t, db, userID, story.ID, true, 10, day.Add(20*time.Hour))

  perf, err := analyzer.TimeOfDayPerformance(context.Background(), userID)
  if err != nil {
    t.Fatalf("TimeOfDayPerformance: %v", err)
  }
  if perf.BestTime != TimeMorning {
    t.Fatalf("expected best time %s, got %s", TimeMorning, perf.BestTime)
  }
  if rate := perf.PerformanceByTime[TimeAfternoon]; rate != 0.0 {
    t.Fatalf("expected afternoon rate 0.0, got %v", rate)
  }
  if rate := perf.PerformanceByTime[TimeEvening]; rate != 1.0 {
    t.Fatalf("expected evening rate 1.0, got %v", rate)
  }
}

func TestTimeOfDayPerformanceEmptyHistory(t *testing.T) {
  db := newTestDB(t)
  analyzer := newPatternAnalyzer(db)

  perf, err := analyzer.TimeOfDayPerformance(context.Background(), uuid.New())
  if err != nil {
    t.Fatalf("TimeOfDayPerformance: %v", err)
  }
  if perf.BestTime != TimeMorning {
    t.Fatalf("expected default best time %s, got %s", TimeMorning, perf.BestTime)
  }
  if len(perf.PerformanceByTime) != 0 {
    t.Fatalf("expected empty performance map, got %v", perf.PerformanceByTime)
  }
}
