package errortypes

// InvalidCredentials should be used when the mediation layer supplied credentials
// which are missing a required entry or contain a blank value, such as the DT
// Exchange app id. Setup cannot proceed, so these are always fatal.
type InvalidCredentials struct {
	Message string
}

func (err *InvalidCredentials) Error() string {
	return err.Message
}

func (err *InvalidCredentials) Code() int {
	return InvalidCredentialsErrorCode
}

func (err *InvalidCredentials) Severity() Severity {
	return SeverityFatal
}

// InitializationFailure should be used when the network client itself reported a
// setup failure. The credentials were present; the partner simply could not start.
type InitializationFailure struct {
	Message string
}

func (err *InitializationFailure) Error() string {
	return err.Message
}

func (err *InitializationFailure) Code() int {
	return InitializationFailureErrorCode
}

func (err *InitializationFailure) Severity() Severity {
	return SeverityFatal
}

// NoFill should be used when the network had no eligible ad to serve for the
// placement. This is an ordinary outcome, not an operational problem, and will not
// be written to the app log.
type NoFill struct {
	Message string
}

func (err *NoFill) Error() string {
	return err.Message
}

func (err *NoFill) Code() int {
	return NoFillErrorCode
}

func (err *NoFill) Severity() Severity {
	return SeverityFatal
}

// Timeout should be used when a load failed because the network client gave up
// waiting on its server, or the caller's context deadline expired first.
type Timeout struct {
	Message string
}

func (err *Timeout) Error() string {
	return err.Message
}

func (err *Timeout) Code() int {
	return TimeoutErrorCode
}

func (err *Timeout) Severity() Severity {
	return SeverityFatal
}

// ServerError should be used when the ad server answered with an internal failure.
//
// This should not be used for connection errors (e.g. "couldn't find host"),
// which may indicate config issues for the host company.
type ServerError struct {
	Message string
}

func (err *ServerError) Error() string {
	return err.Message
}

func (err *ServerError) Code() int {
	return ServerErrorErrorCode
}

func (err *ServerError) Severity() Severity {
	return SeverityFatal
}

// InvalidBidResponse should be used when the ad server answered 200 but the body
// could not be interpreted as a usable ad.
type InvalidBidResponse struct {
	Message string
}

func (err *InvalidBidResponse) Error() string {
	return err.Message
}

func (err *InvalidBidResponse) Code() int {
	return InvalidBidResponseErrorCode
}

func (err *InvalidBidResponse) Severity() Severity {
	return SeverityFatal
}

// MismatchedAdParams should be used when the load request carried parameters the
// network rejected as invalid for the placement: wrong format, malformed partner
// settings, or a spot that is already in flight.
type MismatchedAdParams struct {
	Message string
}

func (err *MismatchedAdParams) Error() string {
	return err.Message
}

func (err *MismatchedAdParams) Code() int {
	return MismatchedAdParamsErrorCode
}

func (err *MismatchedAdParams) Severity() Severity {
	return SeverityFatal
}

// LoadFailure is the catch-all classification for load errors the network reported
// with a code this adapter does not recognize.
type LoadFailure struct {
	Message string
}

func (err *LoadFailure) Error() string {
	return err.Message
}

func (err *LoadFailure) Code() int {
	return LoadFailureErrorCode
}

func (err *LoadFailure) Severity() Severity {
	return SeverityFatal
}

// ShowAdNotReady should be used when show was requested before the ad finished
// loading, or after the network client already consumed the ad.
type ShowAdNotReady struct {
	Message string
}

func (err *ShowAdNotReady) Error() string {
	return err.Message
}

func (err *ShowAdNotReady) Code() int {
	return ShowAdNotReadyErrorCode
}

func (err *ShowAdNotReady) Severity() Severity {
	return SeverityFatal
}

// WrongResourceType should be used when the stored ad handle does not hold the
// kind of resource the operation needs, e.g. a banner view where a fullscreen
// spot was expected.
type WrongResourceType struct {
	Message string
}

func (err *WrongResourceType) Error() string {
	return err.Message
}

func (err *WrongResourceType) Code() int {
	return WrongResourceTypeErrorCode
}

func (err *WrongResourceType) Severity() Severity {
	return SeverityFatal
}

// ShowFailure is the catch-all classification for presentation errors the network
// reported without a recognizable cause.
type ShowFailure struct {
	Message string
}

func (err *ShowFailure) Error() string {
	return err.Message
}

func (err *ShowFailure) Code() int {
	return ShowFailureErrorCode
}

func (err *ShowFailure) Severity() Severity {
	return SeverityFatal
}

// AdNotFound should be used when invalidate was asked to release an ad that was
// never stored, or whose handle is nil.
type AdNotFound struct {
	Message string
}

func (err *AdNotFound) Error() string {
	return err.Message
}

func (err *AdNotFound) Code() int {
	return AdNotFoundErrorCode
}

func (err *AdNotFound) Severity() Severity {
	return SeverityFatal
}

// Warning is a generic non-fatal error. Callers should carry on; the condition
// was ignored rather than propagated.
type Warning struct {
	Message     string
	WarningCode int
}

func (err *Warning) Error() string {
	return err.Message
}

func (err *Warning) Code() int {
	return err.WarningCode
}

func (err *Warning) Severity() Severity {
	return SeverityWarning
}
