package config

import (
  "context"
  "testing"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
)

func TestSnapshotUsesEnvDefaults(t *testing.T) {
  t.Setenv("EASY_TO_MEDIUM_THRESHOLD", "0.8")
  t.Setenv("HARD_TO_EASY_THRESHOLD", "0.2")
  t.Setenv("MIN_GAMES_FOR_ANALYSIS", "7")
  t.Setenv("CONSECUTIVE_SUCCESS_FOR_INCREASE", "6")
  t.Setenv("CONSECUTIVE_FAILURE_FOR_DECREASE", "4")

  source := NewThresholdSource(logger.NewNop(), nil)
  th := source.Snapshot(context.Background())

  if th.EasyToHard != 0.8 {
    t.Fatalf("expected EasyToHard 0.8, got %v", th.EasyToHard)
  }
  if th.HardToEasy != 0.2 {
    t.Fatalf("expected HardToEasy 0.2, got %v", th.HardToEasy)
  }
  if th.MinGamesForAnalysis != 7 {
    t.Fatalf("expected MinGamesForAnalysis 7, got %d", th.MinGamesForAnalysis)
  }
  if th.ConsecutiveSuccessForIncrease != 6 {
    t.Fatalf("expected ConsecutiveSuccessForIncrease 6, got %d", th.ConsecutiveSuccessForIncrease)
  }
  if th.ConsecutiveFailureForDecrease != 4 {
    t.Fatalf("expected ConsecutiveFailureForDecrease 4, got %d", th.ConsecutiveFailureForDecrease)
  }
}

func TestSnapshotFallsBackToBuiltins(t *testing.T) {
  t.Setenv("EASY_TO_MEDIUM_THRESHOLD", "")
  t.Setenv("HARD_TO_EASY_THRESHOLD", "")
  t.Setenv("MIN_GAMES_FOR_ANALYSIS", "")
  t.Setenv("CONSECUTIVE_SUCCESS_FOR_INCREASE", "")
  t.Setenv("CONSECUTIVE_FAILURE_FOR_DECREASE", "")

  source := NewThresholdSource(logger.NewNop(), nil)
  th := source.Snapshot(context.Background())

  if th.EasyToHard != 0.7 || th.HardToEasy != 0.3 {
    t.Fatalf("unexpected rate defaults: %+v", th)
  }
  if th.MinGamesForAnalysis != 5 || th.ConsecutiveSuccessForIncrease != 5 || th.ConsecutiveFailureForDecrease != 3 {
    t.Fatalf("unexpected count defaults: %+v", th)
  }
}

func TestOverrideWithoutRedisIsRejected(t *testing.T) {
  source := NewThresholdSource(logger.NewNop(), nil)

  _, err := source.Override(context.Background(), map[string]string{
    "easy_to_medium_threshold": "0.8",
  })
  if err == nil {
    t.Fatal("expected error when redis is not configured")
  }
}
