package services

import (
  "context"
  "strings"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/hyodolabs/story-recall-backend/internal/apperr"
  "github.com/hyodolabs/story-recall-backend/internal/clients/openaiseg"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/repos"
  "github.com/hyodolabs/story-recall-backend/internal/types"
)

type StoryCreateInput struct {
  Title     string `json:"title"`
  Content   string `json:"content"`
  ImageURL  string `json:"image_url"`
}

type StoryUpdateInput struct {
  Title     *string `json:"title"`
  Content   *string `json:"content"`
  ImageURL  *string `json:"image_url"`
}

type StoryService interface {
  Create(ctx context.Context, userID uuid.UUID, in StoryCreateInput) (*types.Story, error)
  Get(ctx context.Context, userID uuid.UUID, storyID uint) (*types.Story, error)
  List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*types.Story, error)
  Update(ctx context.Context, userID uuid.UUID, storyID uint, in StoryUpdateInput) (*types.Story, error)
  Delete(ctx context.Context, userID uuid.UUID, storyID uint) error
  Segments(ctx context.Context, userID uuid.UUID, storyID uint) ([]*types.StorySegment, error)
  RandomSegment(ctx context.Context, userID uuid.UUID) (*types.StorySegment, error)
}

type storyService struct {
  db         *gorm.DB
  log        *logger.Logger
  stories    repos.StoryRepo
  segmenter  openaiseg.Segmenter
  pick       func(n int) int
}

func NewStoryService(db *gorm.DB, log *logger.Logger, stories repos.StoryRepo, segmenter openaiseg.Segmenter) StoryService {
  serviceLog := log.With("service", "StoryService")
  return &storyService{
    db:        db,
    log:       serviceLog,
    stories:   stories,
    segmenter: segmenter,
    pick:      randomIndex,
  }
}

func (ss *storyService) Create(ctx context.Context, userID uuid.UUID, in StoryCreateInput) (*types.Story, error) {
  title := strings.TrimSpace(in.Title)
  content := strings.TrimSpace(in.Content)
  if title == "" || content == "" {
    return nil, apperr.Validation("제목과 내용은 필수입니다.")
  }

  // Segmentation happens before the transaction so an AI call never holds a
  // DB transaction open.
  segmentTexts := ss.segmenter.Split(ctx, content)
  if len(segmentTexts) == 0 {
    segmentTexts = []string{content}
  }
  ss.log.Info("Split story into segments", "count", len(segmentTexts))

  var story *types.Story
  txErr := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    created, err := ss.stories.Create(ctx, tx, &types.Story{
      UserID:   userID,
      Title:    title,
      Content:  content,
      ImageURL: in.ImageURL,
    })
    if err != nil {
      return err
    }

    segments := make([]*types.StorySegment, 0, len(segmentTexts))
    for idx, text := range segmentTexts {
      segments = append(segments, &types.StorySegment{
        StoryID:  created.ID,
        Position: idx + 1,
        Text:     text,
      })
    }
    if err := ss.stories.CreateSegments(ctx, tx, segments); err != nil {
      return err
    }
    created.Segments = make([]types.StorySegment, len(segments))
    for i, seg := range segments {
      created.Segments[i] = *seg
    }
    story = created
    return nil
  })
  if txErr != nil {
    ss.log.Error("Story creation failed", "user_id", userID, "error", txErr)
    return nil, apperr.Storage(txErr)
  }
  return story, nil
}

func (ss *storyService) Get(ctx context.Context, userID uuid.UUID, storyID uint) (*types.Story, error) {
  story, err := ss.stories.GetByIDForUser(ctx, nil, storyID, userID)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  if story == nil {
    return nil, apperr.NotFound("이야기를 찾을 수 없습니다.")
  }
  return story, nil
}

func (ss *storyService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*types.Story, error) {
  if limit <= 0 || limit > 100 {
    limit = 100
  }
  if offset < 0 {
    offset = 0
  }
  stories, err := ss.stories.ListByUser(ctx, nil, userID, offset, limit)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  return stories, nil
}

func (ss *storyService) Update(ctx context.Context, userID uuid.UUID, storyID uint, in StoryUpdateInput) (*types.Story, error) {
  story, err := ss.stories.GetByIDForUser(ctx, nil, storyID, userID)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  if story == nil {
    return nil, apperr.NotFound("이야기를 찾을 수 없습니다.")
  }

  if in.Title != nil {
    if strings.TrimSpace(*in.Title) == "" {
      return nil, apperr.Validation("제목은 비워둘 수 없습니다.")
    }
    story.Title = strings.TrimSpace(*in.Title)
  }
  if in.ImageURL != nil {
    story.ImageURL = *in.ImageURL
  }

  contentChanged := in.Content != nil && strings.TrimSpace(*in.Content) != story.Content
  if contentChanged {
    story.Content = strings.TrimSpace(*in.Content)
    if story.Content == "" {
      return nil, apperr.Validation("내용은 비워둘 수 없습니다.")
    }
  }

  var segmentTexts []string
  if contentChanged {
    // Content changed, so the old segmentation no longer matches.
    segmentTexts = ss.segmenter.Split(ctx, story.Content)
    if len(segmentTexts) == 0 {
      segmentTexts = []string{story.Content}
    }
  }

  txErr := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, err := ss.stories.Update(ctx, tx, story); err != nil {
      return err
    }
    if !contentChanged {
      return nil
    }
    if err := tx.Where("story_id = ?", story.ID).Delete(&types.StorySegment{}).Error; err != nil {
      return err
    }
    segments := make([]*types.StorySegment, 0, len(segmentTexts))
    for idx, text := range segmentTexts {
      segments = append(segments, &types.StorySegment{
        StoryID:  story.ID,
        Position: idx + 1,
        Text:     text,
      })
    }
    return ss.stories.CreateSegments(ctx, tx, segments)
  })
  if txErr != nil {
    return nil, apperr.Storage(txErr)
  }
  return story, nil
}

func (ss *storyService) Delete(ctx context.Context, userID uuid.UUID, storyID uint) error {
  story, err := ss.stories.GetByIDForUser(ctx, nil, storyID, userID)
  if err != nil {
    return apperr.Storage(err)
  }
  if story == nil {
    return apperr.NotFound("이야기를 찾을 수 없습니다.")
  }
  if err := ss.stories.Delete(ctx, nil, storyID); err != nil {
    return apperr.Storage(err)
  }
  return nil
}

func (ss *storyService) Segments(ctx context.Context, userID uuid.UUID, storyID uint) ([]*types.StorySegment, error) {
  story, err := ss.stories.GetByIDForUser(ctx, nil, storyID, userID)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  if story == nil {
    return nil, apperr.NotFound("이야기를 찾을 수 없습니다.")
  }
  segments, err := ss.stories.SegmentsByStoryID(ctx, nil, storyID)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  return segments, nil
}

func (ss *storyService) RandomSegment(ctx context.Context, userID uuid.UUID) (*types.StorySegment, error) {
  segments, err := ss.stories.SegmentsByUser(ctx, nil, userID)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  if len(segments) == 0 {
    return nil, apperr.NotFound("사용할 수 있는 세그먼트가 없습니다.")
  }
  return segments[ss.pick(len(segments))], nil
}
