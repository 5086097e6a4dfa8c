package models

import "time"

type Todo struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	AssignedTo  uint64     `gorm:"not null;index" json:"assigned_to"`
	CreatedBy   uint64     `gorm:"not null;index" json:"created_by"`
	DueDate     *time.Time `gorm:"index" json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Assignee    User         `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Creator     User         `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:TodoID" json:"attachments,omitempty"`
}
