package types

import (
  "fmt"
  "time"
  "github.com/google/uuid"
)

type GameType string

const (
  GameTypeSentenceSequence GameType = "SENTENCE_SEQUENCE"
  GameTypeWordSequence     GameType = "WORD_SEQUENCE"
)

func ParseGameType(s string) (GameType, error) {
  switch GameType(s) {
  case GameTypeSentenceSequence, GameTypeWordSequence:
    return GameType(s), nil
  }
  return "", fmt.Errorf("unknown game type: %q", s)
}

// Harder returns the next game type up; sentence ordering is the entry tier.
func (g GameType) Harder() GameType {
  if g == GameTypeSentenceSequence {
    return GameTypeWordSequence
  }
  return g
}

func (g GameType) Easier() GameType {
  if g == GameTypeWordSequence {
    return GameTypeSentenceSequence
  }
  return g
}

// GameAttempt is one recorded play of a recall game. Rows are append-only:
// the engine never updates or deletes them.
type GameAttempt struct {
  ID            uint        `gorm:"primaryKey" json:"id"`
  UserID        uuid.UUID   `gorm:"type:uuid;not null;index:idx_attempt_user_type" json:"user_id"`
  GameType      GameType    `gorm:"type:varchar(50);not null;index:idx_attempt_user_type" json:"game_type"`
  StoryID       uint        `gorm:"not null;index" json:"story_id"`
  IsCorrect     bool        `gorm:"not null" json:"is_correct"`
  ResponseTime  float64     `gorm:"not null" json:"response_time"`
  Score         *int        `json:"score,omitempty"`
  CreatedAt     time.Time   `gorm:"not null;index" json:"created_at"`
}

func (GameAttempt) TableName() string { return "game_attempt" }
