package ccpa

import (
	"errors"

	"github.com/chartboost/mediation-dtexchange-go/errortypes"
)

const (
	ccpaVersion1      = '1'
	ccpaNo            = 'N'
	ccpaYes           = 'Y'
	ccpaNotApplicable = '-'
)

const (
	indexVersion                = 0
	indexExplicitNotice         = 1
	indexOptOutSale             = 2
	indexLSPACoveredTransaction = 3
)

// Writer is the CCPA surface of the network client.
type Writer interface {
	SetUSPrivacyString(usPrivacy string)
}

// Policy represents the CCPA/US privacy signal forwarded by the mediation layer.
type Policy struct {
	Consent string
}

// ValidateConsent returns an error if the CCPA consent string does not adhere to
// the IAB spec.
func ValidateConsent(consent string) error {
	if len(consent) != 4 {
		return errors.New("must contain 4 characters")
	}

	if consent[indexVersion] != ccpaVersion1 {
		return errors.New("must specify version 1")
	}

	var c byte

	c = consent[indexExplicitNotice]
	if c != ccpaNo && c != ccpaYes && c != ccpaNotApplicable {
		return errors.New("must specify 'N', 'Y', or '-' for the explicit notice")
	}

	c = consent[indexOptOutSale]
	if c != ccpaNo && c != ccpaYes && c != ccpaNotApplicable {
		return errors.New("must specify 'N', 'Y', or '-' for the opt-out sale")
	}

	c = consent[indexLSPACoveredTransaction]
	if c != ccpaNo && c != ccpaYes && c != ccpaNotApplicable {
		return errors.New("must specify 'N', 'Y', or '-' for the limited service provider agreement")
	}

	return nil
}

// OptOutSale reports whether the consent string carries an explicit opt-out.
func (p Policy) OptOutSale() bool {
	if ValidateConsent(p.Consent) != nil {
		return false
	}
	return p.Consent[indexOptOutSale] == ccpaYes
}

// Write applies the policy to the network client. An empty string clears the
// signal; a malformed string is reported as a warning and not forwarded.
func (p Policy) Write(w Writer) error {
	if p.Consent == "" {
		w.SetUSPrivacyString("")
		return nil
	}

	if err := ValidateConsent(p.Consent); err != nil {
		return &errortypes.Warning{
			Message:     "us_privacy " + err.Error(),
			WarningCode: errortypes.InvalidPrivacyConsentWarningCode,
		}
	}

	w.SetUSPrivacyString(p.Consent)
	return nil
}
