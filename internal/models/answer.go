package models

import "time"

// Answer belongs to a question. Index is unique among the answers of one question.
type Answer struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index:idx_answers_question_sort,priority:1"`
	Index      int    `json:"index" gorm:"column:sort_index;not null;index:idx_answers_question_sort,priority:2"`
	Answer     string `json:"answer" gorm:"not null;type:text"`
	IsCorrect  bool   `json:"is_correct" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Answer) TableName() string {
	return "answers"
}
