package services

import (
	"github.com/SAP-F-2025/form-service/internal/models"
)

// ===== REQUESTS =====

// AnswerInput is an answer submitted together with its question
type AnswerInput struct {
	Answer    string `json:"answer" validate:"required,not_blank,max=1000"`
	IsCorrect *bool  `json:"is_correct" validate:"required"`
	Index     *int   `json:"index" validate:"omitempty,min=0"`
}

// QuestionInput is a question submitted as part of a new form
type QuestionInput struct {
	Question   string            `json:"question" validate:"required,not_blank,max=1000"`
	AnswerType models.AnswerType `json:"answer_type" validate:"required,answer_type"`
	Answers    []AnswerInput     `json:"answers" validate:"omitempty,dive"`
}

type CreateFormRequest struct {
	Name      string          `json:"name" validate:"required,not_blank,max=200"`
	Questions []QuestionInput `json:"questions" validate:"omitempty,dive"`
}

type UpdateFormRequest struct {
	Name string `json:"name" validate:"required,not_blank,max=200"`
}

// CreateQuestionRequest inserts a question; a nil Index appends it
type CreateQuestionRequest struct {
	FormID     uint              `json:"form_id" validate:"required"`
	Question   string            `json:"question" validate:"required,not_blank,max=1000"`
	AnswerType models.AnswerType `json:"answer_type" validate:"required,answer_type"`
	Index      *int              `json:"index" validate:"omitempty,min=0"`
	Answers    []AnswerInput     `json:"answers" validate:"omitempty,dive"`
}

// UpdateQuestionRequest changes only the fields that are set. Answers are appended.
type UpdateQuestionRequest struct {
	FormID     *uint              `json:"form_id" validate:"omitempty,min=1"`
	Question   *string            `json:"question" validate:"omitempty,not_blank,max=1000"`
	AnswerType *models.AnswerType `json:"answer_type" validate:"omitempty,answer_type"`
	Index      *int               `json:"index" validate:"omitempty,min=0"`
	Answers    []AnswerInput      `json:"answers" validate:"omitempty,dive"`
}

type CreateAnswerRequest struct {
	QuestionID uint   `json:"question_id" validate:"required"`
	Answer     string `json:"answer" validate:"required,not_blank,max=1000"`
	IsCorrect  *bool  `json:"is_correct" validate:"required"`
	Index      *int   `json:"index" validate:"omitempty,min=0"`
}

type UpdateAnswerRequest struct {
	QuestionID *uint   `json:"question_id" validate:"omitempty,min=1"`
	Answer     *string `json:"answer" validate:"omitempty,not_blank,max=1000"`
	IsCorrect  *bool   `json:"is_correct"`
	Index      *int    `json:"index" validate:"omitempty,min=0"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ===== RESULTS =====

type CreateFormResult struct {
	FormID      uint   `json:"form_id"`
	QuestionIDs []uint `json:"question_ids"`
}

type CreateQuestionResult struct {
	QuestionID      uint   `json:"question_id"`
	Index           int    `json:"index"`
	ShiftedSiblings int64  `json:"shifted_siblings"`
	AnswerIDs       []uint `json:"answer_ids"`
}

type CreateAnswerResult struct {
	AnswerID        uint  `json:"answer_id"`
	Index           int   `json:"index"`
	ShiftedSiblings int64 `json:"shifted_siblings"`
	Demoted         int64 `json:"demoted"`
}

type UpdateResult struct {
	Updated         bool  `json:"updated"`
	Index           *int  `json:"index,omitempty"`
	ShiftedSiblings int64 `json:"shifted_siblings,omitempty"`
}

type DeleteResult struct {
	Deleted        bool  `json:"deleted"`
	AnswersDeleted int64 `json:"answers_deleted,omitempty"`
}

type AuthResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type AuditTrail struct {
	Entries []models.AuditLog `json:"entries"`
	Total   int64             `json:"total"`
}

// ===== READ MODELS =====

// PublicAnswer has no correctness flag; it is the only answer shape served without auth
type PublicAnswer struct {
	ID         uint   `json:"id"`
	QuestionID uint   `json:"question_id"`
	Index      int    `json:"index"`
	Answer     string `json:"answer"`
}

type PublicQuestion struct {
	ID         uint              `json:"id"`
	FormID     uint              `json:"form_id"`
	Index      int               `json:"index"`
	Question   string            `json:"question"`
	AnswerType models.AnswerType `json:"answer_type"`
	Answers    []PublicAnswer    `json:"answers"`
}

type PublicForm struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	Questions []PublicQuestion `json:"questions"`
}

// QuestionDetail is the owner view of a question, correctness included
type QuestionDetail struct {
	models.Question
	Answers []models.Answer `json:"answers"`
}

type FormDetail struct {
	models.Form
	Questions []QuestionDetail `json:"questions"`
}

type FormList struct {
	Forms []models.FormSummary `json:"forms"`
	Total int64                `json:"total"`
}

func toPublicQuestion(q models.Question, answers []models.Answer) PublicQuestion {
	public := PublicQuestion{
		ID:         q.ID,
		FormID:     q.FormID,
		Index:      q.Index,
		Question:   q.Question,
		AnswerType: q.AnswerType,
		Answers:    make([]PublicAnswer, 0, len(answers)),
	}
	for _, a := range answers {
		public.Answers = append(public.Answers, PublicAnswer{
			ID:         a.ID,
			QuestionID: a.QuestionID,
			Index:      a.Index,
			Answer:     a.Answer,
		})
	}
	return public
}

// Redact converts the owner view to the public view
func (d *FormDetail) Redact() *PublicForm {
	public := &PublicForm{
		ID:        d.ID,
		Name:      d.Name,
		Questions: make([]PublicQuestion, 0, len(d.Questions)),
	}
	for _, q := range d.Questions {
		public.Questions = append(public.Questions, toPublicQuestion(q.Question, q.Answers))
	}
	return public
}
