package services

import (
  "context"
  "math/rand"
  "strings"
  "github.com/hyodolabs/story-recall-backend/internal/apperr"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/repos"
)

type StorySequenceActivity struct {
  StoryID    uint     `json:"id"`
  Title      string   `json:"title"`
  ImageURL   string   `json:"image_url"`
  Segments   []string `json:"segments"`
  Shuffled   []string `json:"shuffled"`
}

type WordSequenceActivity struct {
  StoryID   uint     `json:"story_id"`
  Segment   string   `json:"segment"`
  Words     []string `json:"words"`
  Shuffled  []string `json:"shuffled"`
}

// ActivityService builds playable payloads for the two recall mini-games.
// The ordered lists carry the answer; clients present the shuffled copy.
type ActivityService interface {
  StorySequence(ctx context.Context, storyID uint) (*StorySequenceActivity, error)
  WordSequence(ctx context.Context, storyID uint) (*WordSequenceActivity, error)
}

type activityService struct {
  log      *logger.Logger
  stories  repos.StoryRepo
  pick     func(n int) int
  shuffle  func(n int, swap func(i, j int))
}

func NewActivityService(log *logger.Logger, stories repos.StoryRepo) ActivityService {
  serviceLog := log.With("service", "ActivityService")
  return &activityService{
    log:     serviceLog,
    stories: stories,
    pick:    randomIndex,
    shuffle: rand.Shuffle,
  }
}

func randomIndex(n int) int {
  return rand.Intn(n)
}

func (as *activityService) StorySequence(ctx context.Context, storyID uint) (*StorySequenceActivity, error) {
  story, err := as.stories.GetByID(ctx, nil, storyID)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  if story == nil {
    return nil, apperr.NotFound("이야기를 찾을 수 없습니다.")
  }

  segments, err := as.stories.SegmentsByStoryID(ctx, nil, storyID)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  if len(segments) == 0 {
    return nil, apperr.NotFound("이야기의 세그먼트가 없습니다.")
  }

  ordered := make([]string, len(segments))
  for i, segment := range segments {
    ordered[i] = segment.Text
  }
  shuffled := make([]string, len(ordered))
  copy(shuffled, ordered)
  as.shuffle(len(shuffled), func(i, j int) {
    shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
  })

  return &StorySequenceActivity{
    StoryID:  story.ID,
    Title:    story.Title,
    ImageURL: story.ImageURL,
    Segments: ordered,
    Shuffled: shuffled,
  }, nil
}

func (as *activityService) WordSequence(ctx context.Context, storyID uint) (*WordSequenceActivity, error) {
  story, err := as.stories.GetByID(ctx, nil, storyID)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  if story == nil {
    return nil, apperr.NotFound("이야기를 찾을 수 없습니다.")
  }

  segments, err := as.stories.SegmentsByStoryID(ctx, nil, storyID)
  if err != nil {
    return nil, apperr.Storage(err)
  }
  if len(segments) == 0 {
    return nil, apperr.NotFound("이야기의 세그먼트가 없습니다.")
  }

  segment := segments[as.pick(len(segments))].Text
  // Whitespace split: word-level eojeol handling is good enough here.
  words := strings.Fields(segment)
  shuffled := make([]string, len(words))
  copy(shuffled, words)
  as.shuffle(len(shuffled), func(i, j int) {
    shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
  })

  return &WordSequenceActivity{
    StoryID:  story.ID,
    Segment:  segment,
    Words:    words,
    Shuffled: shuffled,
  }, nil
}
