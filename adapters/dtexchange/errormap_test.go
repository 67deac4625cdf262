package dtexchange

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chartboost/mediation-dtexchange-go/dtx"
	"github.com/chartboost/mediation-dtexchange-go/errortypes"
)

// Every network code must map to exactly one mediation classification, with
// unknown codes falling through to the generic load failure.
func TestErrorMapIsExhaustive(t *testing.T) {
	tests := []struct {
		code     dtx.ErrorCode
		expected int
	}{
		{dtx.ErrorCodeNoFill, errortypes.NoFillErrorCode},
		{dtx.ErrorCodeConnectionTimeout, errortypes.TimeoutErrorCode},
		{dtx.ErrorCodeLoadTimeout, errortypes.TimeoutErrorCode},
		{dtx.ErrorCodeConnectionError, errortypes.ServerErrorErrorCode},
		{dtx.ErrorCodeServerInternalError, errortypes.ServerErrorErrorCode},
		{dtx.ErrorCodeServerInvalidResponse, errortypes.InvalidBidResponseErrorCode},
		{dtx.ErrorCodeInvalidInput, errortypes.MismatchedAdParamsErrorCode},
		{dtx.ErrorCodeSpotAlreadyRequested, errortypes.MismatchedAdParamsErrorCode},
		{dtx.ErrorCodeUnsupportedSpot, errortypes.MismatchedAdParamsErrorCode},
		{dtx.ErrorCodeInternalError, errortypes.LoadFailureErrorCode},
		{dtx.ErrorCodeUnspecified, errortypes.LoadFailureErrorCode},
		{dtx.ErrorCode(12345), errortypes.LoadFailureErrorCode},
	}

	for _, test := range tests {
		mapped := toMediationError(&dtx.RequestError{Code: test.code, Message: "boom"})
		assert.Equal(t, test.expected, errortypes.ReadCode(mapped), test.code.String())
	}
}

func TestErrorMapIsDeterministic(t *testing.T) {
	err := &dtx.RequestError{Code: dtx.ErrorCodeNoFill}
	first := toMediationError(err)
	second := toMediationError(err)
	assert.IsType(t, first, second)
	assert.Equal(t, errortypes.ReadCode(first), errortypes.ReadCode(second))
}
