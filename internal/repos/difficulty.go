package repos

import (
  "context"
  "errors"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/types"
)

// DifficultyRepo owns the single live difficulty row per user.
type DifficultyRepo interface {
  // GetByUserID returns (nil, nil) when the user has no difficulty row yet.
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserDifficulty, error)
  // Upsert creates or replaces the user's row atomically on user_id.
  Upsert(ctx context.Context, tx *gorm.DB, difficulty *types.UserDifficulty) (*types.UserDifficulty, error)
}

type difficultyRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDifficultyRepo(db *gorm.DB, baseLog *logger.Logger) DifficultyRepo {
  repoLog := baseLog.With("repo", "DifficultyRepo")
  return &difficultyRepo{db: db, log: repoLog}
}

func (dr *difficultyRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserDifficulty, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  var result types.UserDifficulty
  err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    First(&result).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (dr *difficultyRepo) Upsert(ctx context.Context, tx *gorm.DB, difficulty *types.UserDifficulty) (*types.UserDifficulty, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  difficulty.LastUpdated = time.Now().UTC()
  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns: []clause.Column{{Name: "user_id"}},
      DoUpdates: clause.AssignmentColumns([]string{
        "current_game_type",
        "success_rate",
        "consecutive_success",
        "consecutive_failure",
        "last_updated",
      }),
    }).
    Create(difficulty).Error; err != nil {
    return nil, err
  }
  return dr.GetByUserID(ctx, transaction, difficulty.UserID)
}
