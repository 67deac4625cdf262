// Package dtexchange adapts the Digital Turbine Exchange network client to the
// mediation layer's partner adapter contract.
package dtexchange

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	validator "github.com/asaskevich/govalidator"
	"github.com/golang/glog"

	"github.com/chartboost/mediation-dtexchange-go/adapters"
	"github.com/chartboost/mediation-dtexchange-go/completion"
	"github.com/chartboost/mediation-dtexchange-go/config"
	"github.com/chartboost/mediation-dtexchange-go/dtx"
	"github.com/chartboost/mediation-dtexchange-go/errortypes"
	"github.com/chartboost/mediation-dtexchange-go/metrics"
	"github.com/chartboost/mediation-dtexchange-go/privacy"
)

const (
	// PartnerID identifies this network within the mediation layer.
	PartnerID = "fyber"

	// DisplayName is the network's marketing name.
	DisplayName = "DT Exchange"

	// AdapterVersion is this adapter's version: the mediation API generation,
	// the wrapped client version, and the adapter build number.
	AdapterVersion = "5." + dtx.Version + ".0"

	// appIDKey is the credentials entry carrying the DT Exchange app id.
	appIDKey = "fyber_app_id"
)

// defaultBannerSize is used when a banner load request carries no size.
var defaultBannerSize = adapters.Size{Width: 320, Height: 50}

// Adapter implements adapters.Adapter on top of the dtx network client.
type Adapter struct {
	sdk       *dtx.SDK
	params    *paramsValidator
	listeners *listenerRegistry
	engine    metrics.Engine

	mu    sync.Mutex
	ready bool
}

// Builder constructs the adapter from its configuration. A nil engine disables
// instrumentation.
func Builder(cfg config.Adapter, engine metrics.Engine) (adapters.Adapter, error) {
	if !validator.IsURL(cfg.Endpoint) || !validator.IsRequestURL(cfg.Endpoint) {
		return nil, fmt.Errorf("endpoint %q is not a valid URL", cfg.Endpoint)
	}

	params, err := newParamsValidator()
	if err != nil {
		return nil, err
	}

	if engine == nil {
		engine = metrics.NewNilEngine()
	}

	sdk := dtx.NewSDK(cfg.Endpoint, nil)
	sdk.SetMediator(cfg.MediatorName, cfg.MediatorVersion)

	return &Adapter{
		sdk:       sdk,
		params:    params,
		listeners: newListenerRegistry(),
		engine:    engine,
	}, nil
}

func (a *Adapter) Info() adapters.Info {
	return adapters.Info{
		PartnerID:      PartnerID,
		DisplayName:    DisplayName,
		AdapterVersion: AdapterVersion,
		NetworkVersion: dtx.Version,
	}
}

type setupOutcome struct {
	status  dtx.InitStatus
	message string
}

// SetUp starts the network client with the app id from the credentials map. The
// client reports through a callback on its own goroutine; a completion bridge
// turns that into this call's return value and shields the caller from the
// callback firing more than once.
func (a *Adapter) SetUp(ctx context.Context, credentials adapters.Credentials) error {
	err := a.setUp(ctx, credentials)
	a.engine.RecordSetup(err)
	return err
}

func (a *Adapter) setUp(ctx context.Context, credentials adapters.Credentials) error {
	appID := strings.TrimSpace(credentials[appIDKey])
	if appID == "" {
		return &errortypes.InvalidCredentials{
			Message: fmt.Sprintf("credentials entry %q is missing or blank", appIDKey),
		}
	}

	bridge := completion.New[setupOutcome]()
	a.sdk.Initialize(ctx, appID, func(status dtx.InitStatus, message string) {
		bridge.Resolve(setupOutcome{status: status, message: message})
	})

	outcome, err := bridge.Await(ctx)
	if err != nil {
		return &errortypes.InitializationFailure{
			Message: fmt.Sprintf("setup abandoned: %v", err),
		}
	}

	switch outcome.status {
	case dtx.InitStatusSuccess:
		a.mu.Lock()
		a.ready = true
		a.mu.Unlock()
		glog.Infof("%s adapter %s set up for app %s", DisplayName, AdapterVersion, appID)
		return nil
	case dtx.InitStatusInvalidAppID:
		return &errortypes.InvalidCredentials{
			Message: fmt.Sprintf("network rejected app id: %s", outcome.message),
		}
	default:
		return &errortypes.InitializationFailure{
			Message: fmt.Sprintf("network failed to initialize: %s", outcome.message),
		}
	}
}

// SetConsents forwards the privacy signals to the network client. Malformed
// signals come back as warnings; valid ones are applied regardless.
func (a *Adapter) SetConsents(policies privacy.Policies) []error {
	warnings := policies.Write(a.sdk)
	for _, warning := range warnings {
		glog.Warningf("consent signal dropped: %v", warning)
	}
	return warnings
}

type loadOutcome struct {
	err *dtx.RequestError
}

// requestableSpot is the slice of the dtx spot API the adapter drives during a
// load. Both banner and fullscreen spots satisfy it.
type requestableSpot interface {
	dtx.Spot
	SetBidFloor(floor float64)
	SetEventsListener(listener dtx.EventsListener)
	RequestAd(ctx context.Context, listener dtx.RequestListener)
}

// Load requests an ad and blocks until the network answers or ctx is done. The
// network's request listener may fire more than once; the completion bridge
// guarantees only the first outcome reaches this caller, and an ad that arrives
// after cancellation is destroyed rather than leaked.
func (a *Adapter) Load(ctx context.Context, request *adapters.AdLoadRequest, listener adapters.Listener) (*adapters.PartnerAd, error) {
	start := time.Now()
	ad, err := a.load(ctx, request, listener)
	a.engine.RecordLoad(string(request.Format), time.Since(start), err)
	return ad, err
}

func (a *Adapter) load(ctx context.Context, request *adapters.AdLoadRequest, listener adapters.Listener) (*adapters.PartnerAd, error) {
	a.mu.Lock()
	ready := a.ready
	a.mu.Unlock()
	if !ready {
		return nil, &errortypes.InitializationFailure{Message: "adapter has not been set up"}
	}

	if request.PartnerPlacement == "" {
		return nil, &errortypes.MismatchedAdParams{Message: "partner placement is empty"}
	}

	settings, err := a.params.validate(request.PartnerSettings)
	if err != nil {
		return nil, &errortypes.MismatchedAdParams{Message: err.Error()}
	}

	var spot requestableSpot
	relay := &eventRelay{registry: a.listeners, placement: request.MediationPlacement}

	switch request.Format {
	case adapters.FormatBanner:
		size := defaultBannerSize
		if request.Size != nil {
			size = *request.Size
		}
		spot = dtx.NewBannerSpot(a.sdk, request.PartnerPlacement, size.Width, size.Height)
	case adapters.FormatInterstitial, adapters.FormatRewarded:
		fullscreen := dtx.NewFullscreenSpot(a.sdk, request.PartnerPlacement, request.Format == adapters.FormatRewarded)
		fullscreen.SetMuted(settings.Muted)
		fullscreen.SetRewardListener(relay)
		spot = fullscreen
	default:
		return nil, &errortypes.MismatchedAdParams{
			Message: fmt.Sprintf("unsupported ad format %q", request.Format),
		}
	}

	if settings.BidFloor > 0 {
		spot.SetBidFloor(settings.BidFloor)
	}
	// Event listeners attach before any chance of presentation.
	spot.SetEventsListener(relay)

	a.listeners.register(request.MediationPlacement, listener)

	bridge := completion.New[loadOutcome]()
	bridge.OnOrphan(func(outcome loadOutcome) {
		if outcome.err == nil {
			glog.Infof("placement %s filled after the caller left; releasing the ad", request.MediationPlacement)
			spot.Destroy()
		}
	})

	spot.RequestAd(ctx, &bridgeRequestListener{bridge: bridge})

	outcome, err := bridge.Await(ctx)
	if err != nil {
		a.listeners.remove(request.MediationPlacement)
		if err == context.DeadlineExceeded {
			return nil, &errortypes.Timeout{Message: "load abandoned: deadline exceeded"}
		}
		return nil, &errortypes.LoadFailure{Message: fmt.Sprintf("load abandoned: %v", err)}
	}
	if outcome.err != nil {
		a.listeners.remove(request.MediationPlacement)
		return nil, toMediationError(outcome.err)
	}

	return &adapters.PartnerAd{
		Ad:      spot,
		Request: request,
		Details: adDetails(spot),
	}, nil
}

func adDetails(spot dtx.Spot) map[string]string {
	details := map[string]string{
		"placement_id": spot.PlacementID(),
	}
	if banner, ok := spot.(*dtx.BannerSpot); ok {
		w, h := banner.Size()
		details["banner_width"] = strconv.Itoa(w)
		details["banner_height"] = strconv.Itoa(h)
	}
	return details
}

// bridgeRequestListener funnels the network's request callbacks into a
// completion bridge.
type bridgeRequestListener struct {
	bridge *completion.Bridge[loadOutcome]
}

func (l *bridgeRequestListener) OnAdRequestSucceeded(spot dtx.Spot) {
	l.bridge.Resolve(loadOutcome{})
}

func (l *bridgeRequestListener) OnAdRequestFailed(spot dtx.Spot, err *dtx.RequestError) {
	l.bridge.Resolve(loadOutcome{err: err})
}

// Show presents a loaded fullscreen ad.
func (a *Adapter) Show(ctx context.Context, ad *adapters.PartnerAd) error {
	err := a.show(ctx, ad)
	format := ""
	if ad != nil && ad.Request != nil {
		format = string(ad.Request.Format)
	}
	a.engine.RecordShow(format, err)
	return err
}

func (a *Adapter) show(ctx context.Context, ad *adapters.PartnerAd) error {
	if ad == nil || ad.Ad == nil {
		return &errortypes.AdNotFound{Message: "no ad to show"}
	}

	spot, ok := ad.Ad.(*dtx.FullscreenSpot)
	if !ok {
		return &errortypes.WrongResourceType{
			Message: fmt.Sprintf("ad holds %T, which cannot be shown fullscreen", ad.Ad),
		}
	}

	switch err := spot.Show(); err {
	case nil:
		return nil
	case dtx.ErrAdNotReady, dtx.ErrSpotDestroyed:
		return &errortypes.ShowAdNotReady{Message: err.Error()}
	default:
		return &errortypes.ShowFailure{Message: err.Error()}
	}
}

// Invalidate releases the ad's partner resources and removes the placement's
// listener registration.
func (a *Adapter) Invalidate(ad *adapters.PartnerAd) error {
	err := a.invalidate(ad)
	a.engine.RecordInvalidate(err)
	return err
}

func (a *Adapter) invalidate(ad *adapters.PartnerAd) error {
	if ad == nil || ad.Ad == nil {
		return &errortypes.AdNotFound{Message: "no ad to invalidate"}
	}

	spot, ok := ad.Ad.(dtx.Spot)
	if !ok {
		return &errortypes.WrongResourceType{
			Message: fmt.Sprintf("ad holds %T, which is not a partner ad resource", ad.Ad),
		}
	}

	spot.Destroy()
	if ad.Request != nil {
		a.listeners.remove(ad.Request.MediationPlacement)
	}
	return nil
}

// eventRelay forwards network spot events to the listener registered for the
// placement. A missing listener is logged and the event dropped.
type eventRelay struct {
	registry  *listenerRegistry
	placement string
}

func (r *eventRelay) deliver(event string, notify func(listener adapters.Listener)) {
	listener := r.registry.get(r.placement)
	if listener == nil {
		glog.Warningf("no listener registered for placement %s; dropping %s event", r.placement, event)
		return
	}
	notify(listener)
}

func (r *eventRelay) OnShow(spot dtx.Spot) {
	r.deliver("impression", func(listener adapters.Listener) {
		listener.OnImpressionTracked(r.placement)
	})
}

func (r *eventRelay) OnClick(spot dtx.Spot) {
	r.deliver("click", func(listener adapters.Listener) {
		listener.OnClicked(r.placement)
	})
}

func (r *eventRelay) OnHide(spot dtx.Spot) {
	r.deliver("dismiss", func(listener adapters.Listener) {
		listener.OnDismissed(r.placement)
	})
}

func (r *eventRelay) OnReward(spot dtx.Spot) {
	r.deliver("reward", func(listener adapters.Listener) {
		listener.OnRewarded(r.placement)
	})
}
