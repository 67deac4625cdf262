package dtx

import (
	"context"
	"sync"
)

// RequestListener receives the outcome of a spot's ad request. Callbacks arrive
// on an internal goroutine, and the contract tolerates duplicate delivery: a
// listener may be invoked more than once for one request and must cope.
type RequestListener interface {
	OnAdRequestSucceeded(spot Spot)
	OnAdRequestFailed(spot Spot, err *RequestError)
}

// EventsListener receives presentation lifecycle events for a spot.
type EventsListener interface {
	OnShow(spot Spot)
	OnClick(spot Spot)
	OnHide(spot Spot)
}

// RewardListener receives the reward completion event for rewarded spots.
type RewardListener interface {
	OnReward(spot Spot)
}

// Spot is a single ad placement slot. A spot serves one ad at a time; after the
// ad is consumed the spot must be requested again.
type Spot interface {
	PlacementID() string
	IsReady() bool
	Destroy()
}

type spotState int

const (
	spotStateIdle spotState = iota
	spotStateLoading
	spotStateReady
	spotStateShown
	spotStateConsumed
	spotStateDestroyed
)

type spotCore struct {
	sdk         *SDK
	placementID string

	mu       sync.Mutex
	state    spotState
	bidFloor float64
	ad       *adResponse
	events   EventsListener
}

func (sp *spotCore) PlacementID() string {
	return sp.placementID
}

func (sp *spotCore) IsReady() bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.state == spotStateReady
}

// SetBidFloor sets the minimum acceptable CPM for the next request.
func (sp *spotCore) SetBidFloor(floor float64) {
	sp.mu.Lock()
	sp.bidFloor = floor
	sp.mu.Unlock()
}

// SetEventsListener registers the presentation events listener. A nil listener
// unregisters.
func (sp *spotCore) SetEventsListener(listener EventsListener) {
	sp.mu.Lock()
	sp.events = listener
	sp.mu.Unlock()
}

// Destroy releases the spot's ad and detaches its listeners. A destroyed spot
// never becomes ready again.
func (sp *spotCore) Destroy() {
	sp.mu.Lock()
	sp.state = spotStateDestroyed
	sp.ad = nil
	sp.events = nil
	sp.mu.Unlock()
}

// requestAd runs the bid fetch on an internal goroutine. self is the concrete
// spot handed back through the listener.
func (sp *spotCore) requestAd(ctx context.Context, req spotRequest, self Spot, listener RequestListener) {
	sp.mu.Lock()
	switch sp.state {
	case spotStateDestroyed:
		sp.mu.Unlock()
		go listener.OnAdRequestFailed(self, &RequestError{
			Code:    ErrorCodeInvalidInput,
			Message: "spot is destroyed",
		})
		return
	case spotStateLoading, spotStateReady:
		sp.mu.Unlock()
		go listener.OnAdRequestFailed(self, &RequestError{
			Code:    ErrorCodeSpotAlreadyRequested,
			Message: "spot already has a request in flight or an unconsumed ad",
		})
		return
	}
	sp.state = spotStateLoading
	req.bidFloor = sp.bidFloor
	sp.mu.Unlock()

	rc := sp.sdk.snapshot()
	if !rc.initialized {
		sp.mu.Lock()
		sp.state = spotStateIdle
		sp.mu.Unlock()
		go listener.OnAdRequestFailed(self, &RequestError{
			Code:    ErrorCodeInternalError,
			Message: "marketplace is not initialized",
		})
		return
	}

	go func() {
		ad, rerr := sp.sdk.client.requestAd(ctx, req, rc)
		if rerr != nil {
			sp.mu.Lock()
			if sp.state == spotStateLoading {
				sp.state = spotStateIdle
			}
			sp.mu.Unlock()
			listener.OnAdRequestFailed(self, rerr)
			return
		}

		sp.mu.Lock()
		if sp.state != spotStateLoading {
			// Destroyed while the fetch was in flight; drop the ad.
			sp.mu.Unlock()
			listener.OnAdRequestFailed(self, &RequestError{
				Code:    ErrorCodeInvalidInput,
				Message: "spot was destroyed during the request",
			})
			return
		}
		sp.ad = ad
		sp.state = spotStateReady
		sp.mu.Unlock()

		listener.OnAdRequestSucceeded(self)
	}()
}

// BannerSpot serves inline banner ads.
type BannerSpot struct {
	spotCore
	width  int
	height int
}

// NewBannerSpot builds a banner spot for the placement with the requested size.
func NewBannerSpot(sdk *SDK, placementID string, width int, height int) *BannerSpot {
	return &BannerSpot{
		spotCore: spotCore{sdk: sdk, placementID: placementID},
		width:    width,
		height:   height,
	}
}

// RequestAd fetches an ad for the spot and reports through listener.
func (b *BannerSpot) RequestAd(ctx context.Context, listener RequestListener) {
	b.requestAd(ctx, spotRequest{
		placementID: b.placementID,
		fullscreen:  false,
		width:       b.width,
		height:      b.height,
	}, b, listener)
}

// Markup returns the served creative markup, or "" if the spot is not ready.
func (b *BannerSpot) Markup() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ad == nil {
		return ""
	}
	return b.ad.markup
}

// Size returns the served creative size, falling back to the requested size when
// the exchange did not declare one.
func (b *BannerSpot) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ad == nil || b.ad.width == 0 || b.ad.height == 0 {
		return b.width, b.height
	}
	return b.ad.width, b.ad.height
}

// TrackImpression reports that the banner became visible. The embedding surface
// calls this once per served ad.
func (b *BannerSpot) TrackImpression() {
	b.mu.Lock()
	if b.state != spotStateReady {
		b.mu.Unlock()
		return
	}
	b.state = spotStateShown
	events := b.events
	b.mu.Unlock()

	if events != nil {
		go events.OnShow(b)
	}
}

// Click reports a tap on the banner.
func (b *BannerSpot) Click() {
	b.mu.Lock()
	events := b.events
	shown := b.state == spotStateShown
	b.mu.Unlock()

	if shown && events != nil {
		go events.OnClick(b)
	}
}

// FullscreenSpot serves interstitial and rewarded ads.
type FullscreenSpot struct {
	spotCore
	rewarded bool
	muted    bool
	reward   RewardListener
}

// NewFullscreenSpot builds a fullscreen spot. Rewarded spots additionally report
// through a RewardListener when the ad completes.
func NewFullscreenSpot(sdk *SDK, placementID string, rewarded bool) *FullscreenSpot {
	return &FullscreenSpot{
		spotCore: spotCore{sdk: sdk, placementID: placementID},
		rewarded: rewarded,
	}
}

// Rewarded reports whether the spot serves rewarded ads.
func (f *FullscreenSpot) Rewarded() bool {
	return f.rewarded
}

// SetMuted requests that video creatives start muted.
func (f *FullscreenSpot) SetMuted(muted bool) {
	f.mu.Lock()
	f.muted = muted
	f.mu.Unlock()
}

// SetRewardListener registers the reward listener. A nil listener unregisters.
func (f *FullscreenSpot) SetRewardListener(listener RewardListener) {
	f.mu.Lock()
	f.reward = listener
	f.mu.Unlock()
}

// RequestAd fetches an ad for the spot and reports through listener.
func (f *FullscreenSpot) RequestAd(ctx context.Context, listener RequestListener) {
	f.mu.Lock()
	muted := f.muted
	f.mu.Unlock()

	f.requestAd(ctx, spotRequest{
		placementID: f.placementID,
		fullscreen:  true,
		rewarded:    f.rewarded,
		muted:       muted,
	}, f, listener)
}

// Show presents the loaded ad. It fails if the spot holds no unconsumed ad.
func (f *FullscreenSpot) Show() error {
	f.mu.Lock()
	switch f.state {
	case spotStateDestroyed:
		f.mu.Unlock()
		return ErrSpotDestroyed
	case spotStateReady:
	default:
		f.mu.Unlock()
		return ErrAdNotReady
	}
	f.state = spotStateShown
	events := f.events
	f.mu.Unlock()

	if events != nil {
		go events.OnShow(f)
	}
	return nil
}

// Click reports a tap on the presented ad.
func (f *FullscreenSpot) Click() {
	f.mu.Lock()
	events := f.events
	shown := f.state == spotStateShown
	f.mu.Unlock()

	if shown && events != nil {
		go events.OnClick(f)
	}
}

// Dismiss closes the presented ad. Rewarded spots grant their reward on
// dismissal of a fully presented ad, then all spots report hide. The ad is
// consumed; the spot must be requested again before the next show.
func (f *FullscreenSpot) Dismiss() {
	f.mu.Lock()
	if f.state != spotStateShown {
		f.mu.Unlock()
		return
	}
	f.state = spotStateConsumed
	f.ad = nil
	events := f.events
	reward := f.reward
	f.mu.Unlock()

	go func() {
		if f.rewarded && reward != nil {
			reward.OnReward(f)
		}
		if events != nil {
			events.OnHide(f)
		}
	}()
}
