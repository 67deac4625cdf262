package errortypes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadCode(t *testing.T) {
	tests := []struct {
		description string
		err         error
		expected    int
	}{
		{
			description: "invalid credentials",
			err:         &InvalidCredentials{Message: "missing app id"},
			expected:    InvalidCredentialsErrorCode,
		},
		{
			description: "no fill",
			err:         &NoFill{Message: "no fill"},
			expected:    NoFillErrorCode,
		},
		{
			description: "ad not found",
			err:         &AdNotFound{Message: "no ad"},
			expected:    AdNotFoundErrorCode,
		},
		{
			description: "warning carries its own code",
			err:         &Warning{Message: "bad consent", WarningCode: InvalidPrivacyConsentWarningCode},
			expected:    InvalidPrivacyConsentWarningCode,
		},
		{
			description: "plain error falls back to unknown",
			err:         errors.New("anything"),
			expected:    UnknownErrorCode,
		},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, ReadCode(test.err), test.description)
	}
}

func TestSeverity(t *testing.T) {
	assert.False(t, IsWarning(&Timeout{Message: "timeout"}))
	assert.True(t, IsWarning(&Warning{Message: "w", WarningCode: UnknownWarningCode}))

	errs := []error{
		&Warning{Message: "w", WarningCode: UnknownWarningCode},
		&ServerError{Message: "500"},
	}
	assert.True(t, ContainsFatalError(errs))
	assert.Len(t, FatalOnly(errs), 1)
}
