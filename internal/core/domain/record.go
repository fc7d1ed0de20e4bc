package domain

import (
	"time"
)

// Record is one structured item produced for a prompt. Title is
// nullable; deleting the parent prompt cascades to its records.
type Record struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PromptID    int64     `gorm:"not null;index:idx_records_prompt" json:"prompt_id"`
	Title       *string   `gorm:"type:text" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Record) TableName() string {
	return "records"
}
