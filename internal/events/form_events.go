package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

// EventType represents the kind of change a form event describes
type EventType string

const (
	EventFormCreated EventType = "form.created"
	EventFormUpdated EventType = "form.updated"
	EventFormDeleted EventType = "form.deleted"

	EventQuestionCreated EventType = "question.created"
	EventQuestionUpdated EventType = "question.updated"
	EventQuestionDeleted EventType = "question.deleted"

	EventAnswerCreated EventType = "answer.created"
	EventAnswerUpdated EventType = "answer.updated"
	EventAnswerDeleted EventType = "answer.deleted"
)

const (
	eventSource  = "form-service"
	eventVersion = "1.0"
)

// FormEvent is the envelope published for every form mutation
type FormEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	FormID    uint                   `json:"form_id"`
	ActorID   string                 `json:"actor_id"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewFormEvent stamps a new event with id, time and source
func NewFormEvent(eventType EventType, formID uint, actorID string, data interface{}) *FormEvent {
	return &FormEvent{
		ID:        watermill.NewUUID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		FormID:    formID,
		ActorID:   actorID,
		Data:      data,
	}
}

// Event payloads

type FormChangedEvent struct {
	FormID uint   `json:"form_id"`
	Name   string `json:"name"`
}

type FormDeletedEvent struct {
	FormID           uint   `json:"form_id"`
	QuestionsDeleted int    `json:"questions_deleted"`
	AnswersDeleted   int64  `json:"answers_deleted"`
	FailedQuestions  []uint `json:"failed_questions,omitempty"`
}

type QuestionChangedEvent struct {
	QuestionID     uint  `json:"question_id"`
	FormID         uint  `json:"form_id"`
	Index          int   `json:"index"`
	ShiftedSibling int64 `json:"shifted_siblings"`
	PreviousFormID *uint `json:"previous_form_id,omitempty"`
}

type QuestionDeletedEvent struct {
	QuestionID     uint  `json:"question_id"`
	FormID         uint  `json:"form_id"`
	AnswersDeleted int64 `json:"answers_deleted"`
}

type AnswerChangedEvent struct {
	AnswerID       uint  `json:"answer_id"`
	QuestionID     uint  `json:"question_id"`
	Index          int   `json:"index"`
	IsCorrect      bool  `json:"is_correct"`
	ShiftedSibling int64 `json:"shifted_siblings"`
	Demoted        int64 `json:"demoted,omitempty"`
}

type AnswerDeletedEvent struct {
	AnswerID   uint `json:"answer_id"`
	QuestionID uint `json:"question_id"`
}
