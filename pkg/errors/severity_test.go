package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildErrorIsMatchesCode(t *testing.T) {
	err := fmt.Errorf("load rules: %w", NewDuplicateRuleError("cpu-socket"))

	assert.True(t, errors.Is(err, &BuildError{Code: ErrCodeDuplicateRule}))
	assert.False(t, errors.Is(err, &BuildError{Code: ErrCodeUnknownSpecKey}))

	var be *BuildError
	assert.True(t, errors.As(err, &be))
	assert.Equal(t, "cpu-socket", be.Subject)
	assert.Equal(t, SeverityFatal, be.Severity)
}

func TestBuildErrorMessage(t *testing.T) {
	assert.Equal(t, "[error] INVALID_TEMPLATE: template has no entries (subject: gaming)",
		NewInvalidTemplateError("template has no entries", "gaming").Error())
	assert.Equal(t, "[error] INVALID_PART: record is empty",
		NewInvalidPartError("record is empty", "").Error())
}
