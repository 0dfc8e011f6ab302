package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/types"
)

// AttemptRepo is the append-only attempt log. Recent queries return rows
// most-recent first; nothing here ever mutates an existing row.
type AttemptRepo interface {
  Create(ctx context.Context, tx *gorm.DB, attempt *types.GameAttempt) (*types.GameAttempt, error)
  Recent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, gameType types.GameType, limit int) ([]*types.GameAttempt, error)
  RecentAllTypes(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.GameAttempt, error)
  CountByType(ctx context.Context, tx *gorm.DB, userID uuid.UUID, gameType types.GameType) (int64, error)
}

type attemptRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAttemptRepo(db *gorm.DB, baseLog *logger.Logger) AttemptRepo {
  repoLog := baseLog.With("repo", "AttemptRepo")
  return &attemptRepo{db: db, log: repoLog}
}

func (ar *attemptRepo) Create(ctx context.Context, tx *gorm.DB, attempt *types.GameAttempt) (*types.GameAttempt, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  if err := transaction.WithContext(ctx).Create(attempt).Error; err != nil {
    return nil, err
  }
  return attempt, nil
}

func (ar *attemptRepo) Recent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, gameType types.GameType, limit int) ([]*types.GameAttempt, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  var results []*types.GameAttempt
  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND game_type = ?", userID, gameType).
    Order("created_at DESC").
    Order("id DESC").
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (ar *attemptRepo) RecentAllTypes(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.GameAttempt, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  var results []*types.GameAttempt
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("created_at DESC").
    Order("id DESC").
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (ar *attemptRepo) CountByType(ctx context.Context, tx *gorm.DB, userID uuid.UUID, gameType types.GameType) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.GameAttempt{}).
    Where("user_id = ? AND game_type = ?", userID, gameType).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
