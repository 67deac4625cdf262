// Package adapters defines the contract between the mediation layer and a
// partner ad network adapter.
package adapters

import (
	"context"

	"github.com/chartboost/mediation-dtexchange-go/privacy"
)

// Adapters connect the mediation layer to a demand partner. Their primary
// purpose is to produce loaded ads in response to mediation load requests and to
// relay lifecycle events back through the per-placement listener.
type Adapter interface {
	// Info identifies the partner and the versions in play.
	Info() Info

	// SetUp starts the partner network. It must be called once before any load.
	// Missing or blank credentials fail with an invalid-credentials error; a
	// partner-side failure is reported as an initialization error. Neither
	// panics.
	SetUp(ctx context.Context, credentials Credentials) error

	// SetConsents forwards the current privacy signals to the partner. Malformed
	// signals are skipped and returned as warnings; valid signals are always
	// applied.
	SetConsents(policies privacy.Policies) []error

	// Load requests an ad for the placement and blocks until the partner
	// answers or ctx is done. The returned PartnerAd is the handle for the
	// subsequent Show and Invalidate calls. The listener stays registered for
	// the placement until Invalidate.
	Load(ctx context.Context, request *AdLoadRequest, listener Listener) (*PartnerAd, error)

	// Show presents a loaded fullscreen ad. Banner ads render on load and
	// cannot be shown through this call.
	Show(ctx context.Context, ad *PartnerAd) error

	// Invalidate releases the partner resources held by a loaded ad and
	// unregisters the placement's listener.
	Invalidate(ad *PartnerAd) error
}

// Info describes an adapter build.
type Info struct {
	// PartnerID uniquely identifies the partner within the mediation layer.
	PartnerID string
	// DisplayName is the partner's marketing name.
	DisplayName string
	// AdapterVersion is the version of this adapter.
	AdapterVersion string
	// NetworkVersion is the version of the wrapped network client.
	NetworkVersion string
}

// Credentials is the partner configuration handed to SetUp by the mediation
// layer.
type Credentials map[string]string
