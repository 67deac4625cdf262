package errortypes

// Defines numeric codes for well-known errors.
const (
	UnknownErrorCode            = 999
	InvalidCredentialsErrorCode = iota
	InitializationFailureErrorCode
	NoFillErrorCode
	TimeoutErrorCode
	ServerErrorErrorCode
	InvalidBidResponseErrorCode
	MismatchedAdParamsErrorCode
	LoadFailureErrorCode
	ShowAdNotReadyErrorCode
	WrongResourceTypeErrorCode
	ShowFailureErrorCode
	AdNotFoundErrorCode
)

// Defines numeric codes for well-known warnings.
const (
	UnknownWarningCode               = 10999
	InvalidPrivacyConsentWarningCode = iota + 10000
	ListenerGoneWarningCode
	MediatorVersionWarningCode
)

// Coder provides an error or warning code with severity.
type Coder interface {
	Code() int
	Severity() Severity
}

// ReadCode returns the error or warning code, or UnknownErrorCode if unavailable.
func ReadCode(err error) int {
	if e, ok := err.(Coder); ok {
		return e.Code()
	}
	return UnknownErrorCode
}
