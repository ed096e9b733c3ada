package validator

import (
	"fmt"

	"github.com/SAP-F-2025/form-service/internal/models"
)

// FormValidator checks rules that span several fields of a payload
type FormValidator struct{}

func NewFormValidator() *FormValidator {
	return &FormValidator{}
}

// ValidateAnswerSet checks a batch of answers submitted for one question.
// field is the json path of the answers array, used to build error fields.
func (fv *FormValidator) ValidateAnswerSet(answerType models.AnswerType, correct []bool, field string) ValidationErrors {
	var errs ValidationErrors
	if !answerType.IsExclusive() {
		return errs
	}

	seen := false
	for i, isCorrect := range correct {
		if !isCorrect {
			continue
		}
		if seen {
			errs.Add(fmt.Sprintf("%s[%d].is_correct", field, i),
				"radio question may have at most one correct answer", isCorrect)
			continue
		}
		seen = true
	}
	return errs
}

// ValidateIndex rejects negative explicit indexes; nil means "append"
func (fv *FormValidator) ValidateIndex(index *int, field string) ValidationErrors {
	var errs ValidationErrors
	if index != nil && *index < 0 {
		errs.Add(field, "must be at least 0", *index)
	}
	return errs
}
