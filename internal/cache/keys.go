package cache

import "fmt"

const (
	publicFormPrefix    = "form:public:"
	publicFormGenPrefix = "form:generation:"
)

// PublicFormKey is the key of the redacted form structure served to anonymous
// readers, scoped to the form's cache generation
func PublicFormKey(formID uint, generation int64) string {
	return fmt.Sprintf("%s%d:%d", publicFormPrefix, formID, generation)
}

// PublicFormGenerationKey holds the counter bumped on every change to the form.
// Entries written under an older generation are never read again.
func PublicFormGenerationKey(formID uint) string {
	return fmt.Sprintf("%s%d", publicFormGenPrefix, formID)
}

// PublicFormPattern matches every cached public form
func PublicFormPattern() string {
	return publicFormPrefix + "*"
}
