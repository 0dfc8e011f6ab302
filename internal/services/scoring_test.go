package services

import (
  "context"
  "math"
  "testing"
  "github.com/google/uuid"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/repos"
  "github.com/hyodolabs/story-recall-backend/internal/types"
)

func almostEqual(a, b float64) bool {
  return math.Abs(a-b) < 1e-9
}

func TestSuccessRateEmptyHistory(t *testing.T) {
  db := newTestDB(t)
  calc := NewScoreCalculator(logger.NewNop(), repos.NewAttemptRepo(db, logger.NewNop()))

  rate, err := calc.SuccessRate(context.Background(), nil, uuid.New(), types.GameTypeSentenceSequence, scoreWindow)
  if err != nil {
    t.Fatalf("SuccessRate: %v", err)
  }
  if rate != 0.0 {
    t.Fatalf("expected 0.0 for empty history, got %v", rate)
  }
}

func TestSuccessRateCountsWindow(t *testing.T) {
  db := newTestDB(t)
  log := logger.NewNop()
  calc := NewScoreCalculator(log, repos.NewAttemptRepo(db, log))
  userID := uuid.New()
  story := seedStory(t, db, userID)

  seedAttempts(t, db, userID, story.ID, types.GameTypeSentenceSequence,
    []bool{true, false, true, false, true}, 10)
  // A different game type must not leak into the window.
  seedAttempts(t, db, userID, story.ID, types.GameTypeWordSequence, []bool{false, false}, 10)

  rate, err := calc.SuccessRate(context.Background(), nil, userID, types.GameTypeSentenceSequence, scoreWindow)
  if err != nil {
    t.Fatalf("SuccessRate: %v", err)
  }
  if !almostEqual(rate, 0.6) {
    t.Fatalf("expected 0.6, got %v", rate)
  }
}

func TestDifficultyScoreFormula(t *testing.T) {
  db := newTestDB(t)
  log := logger.NewNop()
  calc := NewScoreCalculator(log, repos.NewAttemptRepo(db, log))
  userID := uuid.New()
  story := seedStory(t, db, userID)

  // All correct at 30s: 1.0*0.7 + (1 - 30/60)*0.3 = 0.85.
  seedAttempts(t, db, userID, story.ID, types.GameTypeSentenceSequence,
    []bool{true, true, true, true}, 30)

  score, err := calc.DifficultyScore(context.Background(), nil, userID, types.GameTypeSentenceSequence)
  if err != nil {
    t.Fatalf("DifficultyScore: %v", err)
  }
  if !almostEqual(score, 0.85) {
    t.Fatalf("expected 0.85, got %v", score)
  }
}

func TestDifficultyScoreClampsSlowResponses(t *testing.T) {
  db := newTestDB(t)
  log := logger.NewNop()
  calc := NewScoreCalculator(log, repos.NewAttemptRepo(db, log))
  userID := uuid.New()
  story := seedStory(t, db, userID)

  // Past the 60s ceiling the time component is 0, not negative.
  seedAttempts(t, db, userID, story.ID, types.GameTypeSentenceSequence,
    []bool{true, true}, 90)

  score, err := calc.DifficultyScore(context.Background(), nil, userID, types.GameTypeSentenceSequence)
  if err != nil {
    t.Fatalf("DifficultyScore: %v", err)
  }
  if !almostEqual(score, 0.7) {
    t.Fatalf("expected 0.7, got %v", score)
  }
}

func TestDifficultyScoreEmptyHistory(t *testing.T) {
  db := newTestDB(t)
  calc := NewScoreCalculator(logger.NewNop(), repos.NewAttemptRepo(db, logger.NewNop()))

  score, err := calc.DifficultyScore(context.Background(), nil, uuid.New(), types.GameTypeWordSequence)
  if err != nil {
    t.Fatalf("DifficultyScore: %v", err)
  }
  if score != 0.0 {
    t.Fatalf("expected 0.0 for empty history, got %v", score)
  }
}
