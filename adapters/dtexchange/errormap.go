package dtexchange

import (
	"github.com/chartboost/mediation-dtexchange-go/dtx"
	"github.com/chartboost/mediation-dtexchange-go/errortypes"
)

// toMediationError maps a network request error to exactly one mediation error
// classification. The mapping is total: codes this adapter does not recognize
// fall through to the generic load failure.
func toMediationError(err *dtx.RequestError) error {
	switch err.Code {
	case dtx.ErrorCodeNoFill:
		return &errortypes.NoFill{Message: err.Error()}
	case dtx.ErrorCodeConnectionTimeout, dtx.ErrorCodeLoadTimeout:
		return &errortypes.Timeout{Message: err.Error()}
	case dtx.ErrorCodeConnectionError, dtx.ErrorCodeServerInternalError:
		return &errortypes.ServerError{Message: err.Error()}
	case dtx.ErrorCodeServerInvalidResponse:
		return &errortypes.InvalidBidResponse{Message: err.Error()}
	case dtx.ErrorCodeInvalidInput, dtx.ErrorCodeSpotAlreadyRequested, dtx.ErrorCodeUnsupportedSpot:
		return &errortypes.MismatchedAdParams{Message: err.Error()}
	case dtx.ErrorCodeInternalError, dtx.ErrorCodeUnspecified:
		return &errortypes.LoadFailure{Message: err.Error()}
	default:
		return &errortypes.LoadFailure{Message: err.Error()}
	}
}
