// Package errors provides severity-aware error types.
package errors

import "fmt"

// Severity indicates error impact level.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// BuildError is a structured error raised at a boundary: rule registration,
// part ingestion, template or policy validation. Per-call evaluation never
// produces one.
type BuildError struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Subject  string   `json:"subject,omitempty"`
}

func (e *BuildError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("[%s] %s: %s (subject: %s)", e.Severity, e.Code, e.Message, e.Subject)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Code, e.Message)
}

// Is matches any *BuildError with the same code, so callers can test with
// errors.Is(err, &BuildError{Code: ErrCodeDuplicateRule}).
func (e *BuildError) Is(target error) bool {
	t, ok := target.(*BuildError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Error codes
const (
	ErrCodeDuplicateRule   = "DUPLICATE_RULE"
	ErrCodeUnknownSpecKey  = "UNKNOWN_SPEC_KEY"
	ErrCodeInvalidPart     = "INVALID_PART"
	ErrCodeInvalidTemplate = "INVALID_TEMPLATE"
	ErrCodeInvalidPolicy   = "INVALID_POLICY"
)

// NewDuplicateRuleError reports a rule id registered twice.
func NewDuplicateRuleError(ruleID string) *BuildError {
	return &BuildError{
		Code:     ErrCodeDuplicateRule,
		Message:  fmt.Sprintf("rule id registered more than once: %s", ruleID),
		Severity: SeverityFatal,
		Subject:  ruleID,
	}
}

// NewUnknownSpecKeyError reports a rule that declares a key missing from the dictionary.
func NewUnknownSpecKeyError(key, ruleID string) *BuildError {
	return &BuildError{
		Code:     ErrCodeUnknownSpecKey,
		Message:  fmt.Sprintf("spec key not in dictionary: %s", key),
		Severity: SeverityFatal,
		Subject:  ruleID,
	}
}

// NewInvalidPartError reports a part record rejected at ingestion.
func NewInvalidPartError(reason, subject string) *BuildError {
	return &BuildError{
		Code:     ErrCodeInvalidPart,
		Message:  reason,
		Severity: SeverityError,
		Subject:  subject,
	}
}

// NewInvalidTemplateError reports a malformed use-case template.
func NewInvalidTemplateError(reason, template string) *BuildError {
	return &BuildError{
		Code:     ErrCodeInvalidTemplate,
		Message:  reason,
		Severity: SeverityError,
		Subject:  template,
	}
}

// NewInvalidPolicyError reports an out-of-range policy constant.
func NewInvalidPolicyError(reason, field string) *BuildError {
	return &BuildError{
		Code:     ErrCodeInvalidPolicy,
		Message:  reason,
		Severity: SeverityError,
		Subject:  field,
	}
}
