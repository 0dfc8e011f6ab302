package services

import (
  "context"
  "testing"
  "github.com/google/uuid"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/repos"
  "github.com/hyodolabs/story-recall-backend/internal/types"
)

func TestConsecutiveRuns(t *testing.T) {
  cases := []struct {
    name        string
    // oldest first, as played
    results     []bool
    wantSuccess int
    wantFailure int
  }{
    {
      name:        "empty history",
      results:     nil,
      wantSuccess: 0,
      wantFailure: 0,
    },
    {
      name:        "all success",
      results:     []bool{true, true, true, true},
      wantSuccess: 4,
      wantFailure: 0,
    },
    {
      // The scan walks newest-first without breaking on short failure runs,
      // so the older success run determines the final counters.
      name:        "short failure run does not break the scan",
      results:     []bool{true, true, false, false},
      wantSuccess: 2,
      wantFailure: 0,
    },
    {
      name:        "failure run at the old edge of the window",
      results:     []bool{false, false, true, true, true},
      wantSuccess: 0,
      wantFailure: 2,
    },
    {
      name:        "scan stops at three failures",
      results:     []bool{true, true, true, false, false, false, true},
      wantSuccess: 0,
      wantFailure: 3,
    },
    {
      name:        "window bounded at ten",
      results:     []bool{false, true, true, true, true, true, true, true, true, true, true},
      wantSuccess: 10,
      wantFailure: 0,
    },
  }

  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      db := newTestDB(t)
      log := logger.NewNop()
      analyzer := NewStreakAnalyzer(log, repos.NewAttemptRepo(db, log))
      userID := uuid.New()
      story := seedStory(t, db, userID)
      seedAttempts(t, db, userID, story.ID, types.GameTypeSentenceSequence, tc.results, 5)

      success, failure, err := analyzer.ConsecutiveRuns(context.Background(), nil, userID, types.GameTypeSentenceSequence)
      if err != nil {
        t.Fatalf("ConsecutiveRuns: %v", err)
      }
      if success != tc.wantSuccess || failure != tc.wantFailure {
        t.Fatalf("expected (%d, %d), got (%d, %d)", tc.wantSuccess, tc.wantFailure, success, failure)
      }
    })
  }
}
