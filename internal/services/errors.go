package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrTokenIssuing       = errors.New("token issuing is handled by the external identity provider")

	ErrFormNotFound     = errors.New("form not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAnswerNotFound   = errors.New("answer not found")
	ErrUserNotFound     = errors.New("user not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

// PartialFailureError reports a multi-step write that failed after some steps
// were already persisted and could not be rolled back.
type PartialFailureError struct {
	Operation string   `json:"operation"`
	Committed []string `json:"committed"`
	Err       error    `json:"-"`
}

func (pe *PartialFailureError) Error() string {
	return fmt.Sprintf("%s partially applied (committed: %s): %v",
		pe.Operation, strings.Join(pe.Committed, ", "), pe.Err)
}

func (pe *PartialFailureError) Unwrap() error {
	return pe.Err
}

// CascadeError reports child deletions that failed after the form itself was removed
type CascadeError struct {
	FormID uint           `json:"form_id"`
	Failed map[uint]error `json:"-"`
	// Cause is set when the children could not even be listed
	Cause error `json:"-"`
}

func (ce *CascadeError) Error() string {
	if ce.Cause != nil {
		return fmt.Sprintf("form %d deleted but its questions could not be listed: %v", ce.FormID, ce.Cause)
	}
	return fmt.Sprintf("form %d deleted but %d question(s) failed to delete: %v",
		ce.FormID, len(ce.Failed), ce.FailedQuestionIDs())
}

func (ce *CascadeError) Unwrap() []error {
	errs := make([]error, 0, len(ce.Failed)+1)
	if ce.Cause != nil {
		errs = append(errs, ce.Cause)
	}
	for _, err := range ce.Failed {
		errs = append(errs, err)
	}
	return errs
}

// FailedQuestionIDs returns the ids of questions that are left behind, sorted
func (ce *CascadeError) FailedQuestionIDs() []uint {
	ids := make([]uint, 0, len(ce.Failed))
	for id := range ce.Failed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ===== ERROR HELPERS =====

// NewValidationError creates a single-field validation failure
func NewValidationError(field, message string, value interface{}) ValidationErrors {
	return ValidationErrors{*apperrors.NewValidationError(field, message, value)}
}

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFormNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrAnswerNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsForbidden checks if error is an ownership failure
func IsForbidden(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsUnauthorized checks if the caller failed to authenticate
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrInvalidCredentials)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailTaken)
}
