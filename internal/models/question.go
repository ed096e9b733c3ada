package models

import "time"

type AnswerType string

const (
	AnswerTypeRadio    AnswerType = "radio"
	AnswerTypeCheckbox AnswerType = "checkbox"
	AnswerTypeText     AnswerType = "text"
)

// AnswerTypes lists every supported answer type
var AnswerTypes = []AnswerType{AnswerTypeRadio, AnswerTypeCheckbox, AnswerTypeText}

func (t AnswerType) IsValid() bool {
	for _, candidate := range AnswerTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsExclusive reports whether at most one answer of the question may be correct
func (t AnswerType) IsExclusive() bool {
	return t == AnswerTypeRadio
}

// Question belongs to a form. Index is unique among the questions of one form.
// The composite index is intentionally not unique: sibling shifts update many
// rows in one statement and would collide transiently.
type Question struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	FormID     uint       `json:"form_id" gorm:"not null;index:idx_questions_form_sort,priority:1"`
	Index      int        `json:"index" gorm:"column:sort_index;not null;index:idx_questions_form_sort,priority:2"`
	Question   string     `json:"question" gorm:"not null;type:text"`
	AnswerType AnswerType `json:"answer_type" gorm:"not null;size:20"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}
