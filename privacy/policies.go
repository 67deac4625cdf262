// Package privacy carries consent signals from the mediation layer to the
// network client using per-regulation policy writers.
package privacy

import (
	"github.com/chartboost/mediation-dtexchange-go/privacy/ccpa"
	"github.com/chartboost/mediation-dtexchange-go/privacy/coppa"
	"github.com/chartboost/mediation-dtexchange-go/privacy/gdpr"
)

// Writer is the full privacy surface of the network client.
type Writer interface {
	gdpr.Writer
	ccpa.Writer
	coppa.Writer
}

// Policies represents the privacy regulations forwarded with ad requests.
type Policies struct {
	GDPR  gdpr.Policy
	CCPA  ccpa.Policy
	COPPA coppa.Policy
}

// Write applies every policy to the network client. Malformed signals are
// skipped and reported as warnings; the remaining policies are still applied.
func (p Policies) Write(w Writer) []error {
	var warnings []error

	if err := p.GDPR.Write(w); err != nil {
		warnings = append(warnings, err)
	}
	if err := p.CCPA.Write(w); err != nil {
		warnings = append(warnings, err)
	}
	if err := p.COPPA.Write(w); err != nil {
		warnings = append(warnings, err)
	}

	return warnings
}
