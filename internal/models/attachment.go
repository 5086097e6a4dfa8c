package models

import "time"

// Attachment links a stored file to a todo. FileName is the generated storage
// name, never the user-supplied one.
type Attachment struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	TodoID       uint64    `gorm:"not null;index" json:"todo_id"`
	FileName     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"file_name"`
	OriginalName string    `gorm:"type:varchar(255);not null" json:"original_name"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Todo Todo `gorm:"foreignKey:TodoID" json:"-"`
}
