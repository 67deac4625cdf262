package dtx

import (
	"errors"
	"fmt"
)

// Presentation failures reported by FullscreenSpot.Show.
var (
	ErrAdNotReady    = errors.New("dtx: spot has no ad ready to show")
	ErrSpotDestroyed = errors.New("dtx: spot is destroyed")
)

// ErrorCode enumerates the request failure codes the DT Exchange client reports.
// The set mirrors the network's own taxonomy; callers should treat codes they do
// not recognize as unspecified rather than failing hard.
type ErrorCode int

const (
	ErrorCodeUnspecified ErrorCode = iota
	ErrorCodeConnectionError
	ErrorCodeConnectionTimeout
	ErrorCodeNoFill
	ErrorCodeServerInvalidResponse
	ErrorCodeServerInternalError
	ErrorCodeInternalError
	ErrorCodeLoadTimeout
	ErrorCodeInvalidInput
	ErrorCodeSpotAlreadyRequested
	ErrorCodeUnsupportedSpot
)

func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeConnectionError:
		return "CONNECTION_ERROR"
	case ErrorCodeConnectionTimeout:
		return "CONNECTION_TIMEOUT"
	case ErrorCodeNoFill:
		return "NO_FILL"
	case ErrorCodeServerInvalidResponse:
		return "SERVER_INVALID_RESPONSE"
	case ErrorCodeServerInternalError:
		return "SERVER_INTERNAL_ERROR"
	case ErrorCodeInternalError:
		return "INTERNAL_ERROR"
	case ErrorCodeLoadTimeout:
		return "LOAD_TIMEOUT"
	case ErrorCodeInvalidInput:
		return "INVALID_INPUT"
	case ErrorCodeSpotAlreadyRequested:
		return "SPOT_ALREADY_REQUESTED"
	case ErrorCodeUnsupportedSpot:
		return "UNSUPPORTED_SPOT"
	default:
		return "UNSPECIFIED"
	}
}

// RequestError is the failure reported through a spot's request listener.
type RequestError struct {
	Code    ErrorCode
	Message string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
