package types

import (
  "time"
  "github.com/google/uuid"
)

type Story struct {
  ID          uint            `gorm:"primaryKey" json:"id"`
  UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
  Title       string          `gorm:"type:varchar(255);not null" json:"title"`
  Content     string          `gorm:"type:text;not null" json:"content"`
  ImageURL    string          `gorm:"type:varchar(512)" json:"image_url"`
  Segments    []StorySegment  `gorm:"constraint:OnDelete:CASCADE;foreignKey:StoryID;references:ID" json:"segments,omitempty"`
  CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

func (Story) TableName() string { return "story" }

// StorySegment is one ordered sentence of a story; Position is 1-based.
type StorySegment struct {
  ID        uint    `gorm:"primaryKey" json:"id"`
  StoryID   uint    `gorm:"not null;index" json:"story_id"`
  Position  int     `gorm:"not null" json:"position"`
  Text      string  `gorm:"type:text;not null" json:"text"`
}

func (StorySegment) TableName() string { return "story_segment" }
