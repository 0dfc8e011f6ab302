package types

import (
  "time"
  "github.com/google/uuid"
)

// UserDifficulty is the engine's working memory: one row per user, upserted
// after every attempt. It is a cached summary of game_attempt and can be
// recomputed from it at any time.
//
// Invariant: at most one of ConsecutiveSuccess / ConsecutiveFailure is
// non-zero.
type UserDifficulty struct {
  ID                  uint        `gorm:"primaryKey" json:"id"`
  UserID              uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
  CurrentGameType     GameType    `gorm:"type:varchar(50);not null;default:'SENTENCE_SEQUENCE'" json:"current_game_type"`
  SuccessRate         float64     `gorm:"not null;default:0" json:"success_rate"`
  ConsecutiveSuccess  int         `gorm:"not null;default:0" json:"consecutive_success"`
  ConsecutiveFailure  int         `gorm:"not null;default:0" json:"consecutive_failure"`
  LastUpdated         time.Time   `gorm:"not null" json:"last_updated"`
}

func (UserDifficulty) TableName() string { return "user_difficulty" }
