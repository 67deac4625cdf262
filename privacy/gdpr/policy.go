package gdpr

import (
	"fmt"

	"github.com/prebid/go-gdpr/vendorconsent"

	"github.com/chartboost/mediation-dtexchange-go/errortypes"
)

// Writer is the GDPR surface of the network client.
type Writer interface {
	SetGDPRApplies(applies bool)
	SetGDPRConsentString(consent string)
	ClearGDPRConsentData()
}

// Policy represents the GDPR signals forwarded by the mediation layer.
type Policy struct {
	// Applies is nil when the mediation layer has not determined GDPR scope.
	Applies *bool
	Consent string
}

// ValidateConsent returns an error if the TCF consent string does not parse
// under the IAB spec.
func ValidateConsent(consent string) error {
	if _, err := vendorconsent.ParseString(consent); err != nil {
		return fmt.Errorf("malformed TCF consent string: %v", err)
	}
	return nil
}

// Write applies the policy to the network client. An undetermined policy clears
// any previously forwarded signals. A malformed consent string is not forwarded;
// it is reported as a warning so the load can proceed without it.
func (p Policy) Write(w Writer) error {
	if p.Applies == nil && p.Consent == "" {
		w.ClearGDPRConsentData()
		return nil
	}

	if p.Applies != nil {
		w.SetGDPRApplies(*p.Applies)
	}

	if p.Consent != "" {
		if err := ValidateConsent(p.Consent); err != nil {
			return &errortypes.Warning{
				Message:     err.Error(),
				WarningCode: errortypes.InvalidPrivacyConsentWarningCode,
			}
		}
		w.SetGDPRConsentString(p.Consent)
	}

	return nil
}
