package services

import (
  "context"
  "errors"
  "path/filepath"
  "testing"
  "time"
  "github.com/google/uuid"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"
  "github.com/hyodolabs/story-recall-backend/internal/config"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/repos"
  "github.com/hyodolabs/story-recall-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
  t.Helper()
  path := filepath.Join(t.TempDir(), "test.db")
  db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
    Logger: gormlogger.Default.LogMode(gormlogger.Silent),
  })
  if err != nil {
    t.Fatalf("open sqlite: %v", err)
  }
  if err := db.AutoMigrate(
    &types.Story{},
    &types.StorySegment{},
    &types.GameAttempt{},
    &types.UserDifficulty{},
  ); err != nil {
    t.Fatalf("migrate: %v", err)
  }
  return db
}

func seedStory(t *testing.T, db *gorm.DB, userID uuid.UUID) *types.Story {
  t.Helper()
  story := &types.Story{
    UserID:  userID,
    Title:   "할머니의 정원",
    Content: "봄이 왔습니다. 할머니는 정원에 꽃을 심었습니다. 꽃이 활짝 피었습니다.",
  }
  if err := db.Create(story).Error; err != nil {
    t.Fatalf("seed story: %v", err)
  }
  return story
}

// seedAttempts inserts attempts oldest-first with one-minute spacing so the
// last element of results is the newest row.
func seedAttempts(t *testing.T, db *gorm.DB, userID uuid.UUID, storyID uint, gameType types.GameType, results []bool, responseTime float64) {
  t.Helper()
  base := time.Now().UTC().Add(-time.Duration(len(results)) * time.Minute)
  for i, correct := range results {
    attempt := &types.GameAttempt{
      UserID:       userID,
      GameType:     gameType,
      StoryID:      storyID,
      IsCorrect:    correct,
      ResponseTime: responseTime,
      CreatedAt:    base.Add(time.Duration(i) * time.Minute),
    }
    if err := db.Create(attempt).Error; err != nil {
      t.Fatalf("seed attempt %d: %v", i, err)
    }
  }
}

type stubVerifier struct {
  err error
}

func (v stubVerifier) Verify(ctx context.Context, userID uuid.UUID) error {
  return v.err
}

type staticThresholds struct {
  th config.Thresholds
}

func (s staticThresholds) Snapshot(ctx context.Context) config.Thresholds {
  return s.th
}

func (s staticThresholds) Override(ctx context.Context, settings map[string]string) (config.Thresholds, error) {
  return config.Thresholds{}, errors.New("static source")
}

func defaultTestThresholds() config.Thresholds {
  return config.Thresholds{
    EasyToHard:                    0.7,
    HardToEasy:                    0.3,
    MinGamesForAnalysis:           5,
    ConsecutiveSuccessForIncrease: 5,
    ConsecutiveFailureForDecrease: 3,
  }
}

func newTestEngine(t *testing.T, db *gorm.DB) DifficultyService {
  t.Helper()
  log := logger.NewNop()
  attempts := repos.NewAttemptRepo(db, log)
  difficulty := repos.NewDifficultyRepo(db, log)
  stories := repos.NewStoryRepo(db, log)
  return NewDifficultyService(
    db,
    log,
    attempts,
    difficulty,
    stories,
    NewScoreCalculator(log, attempts),
    NewStreakAnalyzer(log, attempts),
    staticThresholds{th: defaultTestThresholds()},
    stubVerifier{},
  )
}
