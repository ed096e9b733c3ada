package models

import "time"

// Form is the root aggregate. Questions reference it by FormID; it never embeds them.
type Form struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	AuthorID string `json:"author_id" gorm:"not null;size:255;index"`
	Name     string `json:"name" gorm:"not null;size:200"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Form) TableName() string {
	return "forms"
}

// FormSummary is the list representation of a form
type FormSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
