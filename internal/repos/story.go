package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/types"
)

type StoryRepo interface {
  Create(ctx context.Context, tx *gorm.DB, story *types.Story) (*types.Story, error)
  // GetByID returns (nil, nil) when the story does not exist.
  GetByID(ctx context.Context, tx *gorm.DB, storyID uint) (*types.Story, error)
  GetByIDForUser(ctx context.Context, tx *gorm.DB, storyID uint, userID uuid.UUID) (*types.Story, error)
  ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.Story, error)
  Update(ctx context.Context, tx *gorm.DB, story *types.Story) (*types.Story, error)
  Delete(ctx context.Context, tx *gorm.DB, storyID uint) error
  CreateSegments(ctx context.Context, tx *gorm.DB, segments []*types.StorySegment) error
  SegmentsByStoryID(ctx context.Context, tx *gorm.DB, storyID uint) ([]*types.StorySegment, error)
  SegmentsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StorySegment, error)
}

type storyRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewStoryRepo(db *gorm.DB, baseLog *logger.Logger) StoryRepo {
  repoLog := baseLog.With("repo", "StoryRepo")
  return &storyRepo{db: db, log: repoLog}
}

func (sr *storyRepo) Create(ctx context.Context, tx *gorm.DB, story *types.Story) (*types.Story, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  if err := transaction.WithContext(ctx).Create(story).Error; err != nil {
    return nil, err
  }
  return story, nil
}

func (sr *storyRepo) GetByID(ctx context.Context, tx *gorm.DB, storyID uint) (*types.Story, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  var result types.Story
  err := transaction.WithContext(ctx).First(&result, storyID).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (sr *storyRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, storyID uint, userID uuid.UUID) (*types.Story, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  var result types.Story
  err := transaction.WithContext(ctx).
    Where("id = ? AND user_id = ?", storyID, userID).
    First(&result).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (sr *storyRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.Story, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  var results []*types.Story
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("created_at DESC").
    Offset(offset).
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (sr *storyRepo) Update(ctx context.Context, tx *gorm.DB, story *types.Story) (*types.Story, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  if err := transaction.WithContext(ctx).Save(story).Error; err != nil {
    return nil, err
  }
  return story, nil
}

func (sr *storyRepo) Delete(ctx context.Context, tx *gorm.DB, storyID uint) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  if err := transaction.WithContext(ctx).
    Where("story_id = ?", storyID).
    Delete(&types.StorySegment{}).Error; err != nil {
    return err
  }
  return transaction.WithContext(ctx).Delete(&types.Story{}, storyID).Error
}

func (sr *storyRepo) CreateSegments(ctx context.Context, tx *gorm.DB, segments []*types.StorySegment) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  if len(segments) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).Create(&segments).Error
}

func (sr *storyRepo) SegmentsByStoryID(ctx context.Context, tx *gorm.DB, storyID uint) ([]*types.StorySegment, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  var results []*types.StorySegment
  if err := transaction.WithContext(ctx).
    Where("story_id = ?", storyID).
    Order("position ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (sr *storyRepo) SegmentsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StorySegment, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  var results []*types.StorySegment
  if err := transaction.WithContext(ctx).
    Joins("JOIN story ON story.id = story_segment.story_id").
    Where("story.user_id = ?", userID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
