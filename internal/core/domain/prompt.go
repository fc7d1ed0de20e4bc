package domain

import (
	"time"
)

// Prompt represents a submitted generation prompt. The system keeps at
// most one active prompt: every new submission purges all existing
// prompts and records first.
type Prompt struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Records []Record `gorm:"foreignKey:PromptID;constraint:OnDelete:CASCADE" json:"records,omitempty"`
}

// TableName specifies the table name for GORM
func (Prompt) TableName() string {
	return "prompts"
}
