package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditFormCreated     AuditAction = "form_created"
	AuditFormUpdated     AuditAction = "form_updated"
	AuditFormDeleted     AuditAction = "form_deleted"
	AuditQuestionCreated AuditAction = "question_created"
	AuditQuestionUpdated AuditAction = "question_updated"
	AuditQuestionDeleted AuditAction = "question_deleted"
	AuditAnswerCreated   AuditAction = "answer_created"
	AuditAnswerUpdated   AuditAction = "answer_updated"
	AuditAnswerDeleted   AuditAction = "answer_deleted"
	AuditFormExported    AuditAction = "form_exported"
)

// AuditLog records a mutation of a form or of one of its children.
// Rows outlive the form they describe.
type AuditLog struct {
	ID     uint        `json:"id" gorm:"primaryKey"`
	FormID uint        `json:"form_id" gorm:"not null;index"`
	Action AuditAction `json:"action" gorm:"not null;size:50;index"`

	// Actor and target
	ActorID    string `json:"actor_id" gorm:"not null;size:255"`
	TargetType string `json:"target_type" gorm:"not null;size:20"` // form, question, answer
	TargetID   uint   `json:"target_id"`

	Details   datatypes.JSON `json:"details"`
	RequestID *string        `json:"request_id" gorm:"size:64"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
