package adapters

import "encoding/json"

// AdFormat is the mediation-level ad format of a load request.
type AdFormat string

const (
	FormatBanner       AdFormat = "banner"
	FormatInterstitial AdFormat = "interstitial"
	FormatRewarded     AdFormat = "rewarded"
)

// Fullscreen reports whether the format presents over the entire screen.
func (f AdFormat) Fullscreen() bool {
	return f == FormatInterstitial || f == FormatRewarded
}

// Size is a banner size in density-independent pixels.
type Size struct {
	Width  int
	Height int
}

// AdLoadRequest describes one ad the mediation layer wants loaded.
type AdLoadRequest struct {
	// MediationPlacement is the placement name configured in the mediation
	// layer. Lifecycle events are keyed by it.
	MediationPlacement string

	// PartnerPlacement is the partner-side spot id the mediation placement maps
	// to.
	PartnerPlacement string

	Format AdFormat

	// Size applies to banner requests only.
	Size *Size

	// PartnerSettings carries partner-specific placement parameters as
	// configured in the mediation dashboard.
	PartnerSettings json.RawMessage
}

// PartnerAd is the opaque handle for a loaded ad.
type PartnerAd struct {
	// Ad holds the partner's ad resource. Its concrete type depends on the
	// requested format.
	Ad any

	// Request is the load request that produced this ad.
	Request *AdLoadRequest

	// Details carries optional partner metadata about the fill.
	Details map[string]string
}

// Listener receives ad lifecycle events for one mediation placement, decoupled
// from the load and show calls that registered it.
type Listener interface {
	OnImpressionTracked(placement string)
	OnClicked(placement string)
	OnDismissed(placement string)
	OnRewarded(placement string)
}
