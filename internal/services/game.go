package services

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/hyodolabs/story-recall-backend/internal/apperr"
  "github.com/hyodolabs/story-recall-backend/internal/clients/userservice"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/repos"
  "github.com/hyodolabs/story-recall-backend/internal/types"
)

// GameResultService stores and lists raw attempts without touching the
// difficulty engine. The difficulty-adjusting submission path lives on
// DifficultyService.
type GameResultService interface {
  SaveResult(ctx context.Context, in SubmitAttemptInput) (*types.GameAttempt, error)
  RecentResults(ctx context.Context, userID uuid.UUID, gameType string, limit int) ([]*types.GameAttempt, error)
}

type gameResultService struct {
  db        *gorm.DB
  log       *logger.Logger
  attempts  repos.AttemptRepo
  stories   repos.StoryRepo
  verifier  userservice.Verifier
}

func NewGameResultService(db *gorm.DB, log *logger.Logger, attempts repos.AttemptRepo, stories repos.StoryRepo, verifier userservice.Verifier) GameResultService {
  serviceLog := log.With("service", "GameResultService")
  return &gameResultService{
    db:       db,
    log:      serviceLog,
    attempts: attempts,
    stories:  stories,
    verifier: verifier,
  }
}

func (gs *gameResultService) SaveResult(ctx context.Context, in SubmitAttemptInput) (*types.GameAttempt, error) {
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
  if err := gs.verifier.Verify(ctx, in.UserID); err != nil {
    return nil, err
  }

  story, err := gs.stories.GetByID(ctx, nil, in.StoryID)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  if story == nil {
    return nil, apperr.NotFound("이야기를 찾을 수 없습니다.")
  }

  attempt := &types.GameAttempt{
    UserID:       in.UserID,
    GameType:     gameType,
    StoryID:      in.StoryID,
    IsCorrect:    in.IsCorrect,
    ResponseTime: in.ResponseTime,
    Score:        in.Score,
  }
  if _, err := gs.attempts.Create(ctx, nil, attempt); err != nil {
    return nil, apperr.Storage(err)
  }

  gs.log.Info("Game result saved", "user_id", in.UserID, "game_type", gameType, "correct", in.IsCorrect)
  return attempt, nil
}

func (gs *gameResultService) RecentResults(ctx context.Context, userID uuid.UUID, gameType string, limit int) ([]*types.GameAttempt, error) {
  parsed, err := types.ParseGameType(gameType)
  if err != nil {
    return nil, apperr.Validation("game_type: %v", err)
  }
  if limit <= 0 || limit > 100 {
    limit = 10
  }

  results, err := gs.attempts.Recent(ctx, nil, userID, parsed, limit)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  return results, nil
}
