package dtexchange

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mxmCherry/openrtb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartboost/mediation-dtexchange-go/adapters"
	"github.com/chartboost/mediation-dtexchange-go/completion"
	"github.com/chartboost/mediation-dtexchange-go/config"
	"github.com/chartboost/mediation-dtexchange-go/dtx"
	"github.com/chartboost/mediation-dtexchange-go/errortypes"
)

type recordingListener struct {
	impressions chan string
	clicks      chan string
	dismissals  chan string
	rewards     chan string
}

func newRecordingListener() *recordingListener {
	return &recordingListener{
		impressions: make(chan string, 4),
		clicks:      make(chan string, 4),
		dismissals:  make(chan string, 4),
		rewards:     make(chan string, 4),
	}
}

func (l *recordingListener) OnImpressionTracked(placement string) { l.impressions <- placement }
func (l *recordingListener) OnClicked(placement string)           { l.clicks <- placement }
func (l *recordingListener) OnDismissed(placement string)         { l.dismissals <- placement }
func (l *recordingListener) OnRewarded(placement string)          { l.rewards <- placement }

func awaitEvent(t *testing.T, ch chan string, expected string, what string) {
	t.Helper()
	select {
	case placement := <-ch:
		assert.Equal(t, expected, placement)
	case <-time.After(time.Second):
		t.Fatalf("no %s event arrived", what)
	}
}

func fillBody(t *testing.T, crtype string) []byte {
	t.Helper()
	ext, err := json.Marshal(map[string]string{"crtype": crtype})
	require.NoError(t, err)

	body, err := json.Marshal(openrtb.BidResponse{
		ID: "resp-1",
		SeatBid: []openrtb.SeatBid{{
			Bid: []openrtb.Bid{{
				ID:    "bid-1",
				ImpID: "imp-1",
				Price: 2.5,
				AdM:   "<vast/>",
				W:     320,
				H:     480,
				Ext:   ext,
			}},
		}},
	})
	require.NoError(t, err)
	return body
}

func builtAdapter(t *testing.T, endpoint string) *Adapter {
	t.Helper()
	built, err := Builder(config.Adapter{
		Endpoint:        endpoint,
		MediatorName:    "Chartboost",
		MediatorVersion: "5.3.0",
	}, nil)
	require.NoError(t, err)
	return built.(*Adapter)
}

func setUpAdapter(t *testing.T, endpoint string) *Adapter {
	t.Helper()
	adapter := builtAdapter(t, endpoint)
	require.NoError(t, adapter.SetUp(context.Background(), adapters.Credentials{appIDKey: "102030"}))
	return adapter
}

func TestBuilderRejectsBadEndpoint(t *testing.T) {
	_, err := Builder(config.Adapter{Endpoint: "not a url"}, nil)
	assert.Error(t, err)

	_, err = Builder(config.Adapter{Endpoint: ""}, nil)
	assert.Error(t, err)
}

func TestInfo(t *testing.T) {
	adapter := builtAdapter(t, "https://exchange.example.com/rtb")

	info := adapter.Info()
	assert.Equal(t, "fyber", info.PartnerID)
	assert.Equal(t, "DT Exchange", info.DisplayName)
	assert.Equal(t, dtx.Version, info.NetworkVersion)
	assert.Equal(t, "5."+dtx.Version+".0", info.AdapterVersion)
}

func TestSetUpInvalidCredentials(t *testing.T) {
	tests := []struct {
		description string
		credentials adapters.Credentials
	}{
		{
			description: "nil credentials",
			credentials: nil,
		},
		{
			description: "missing app id entry",
			credentials: adapters.Credentials{"other_key": "102030"},
		},
		{
			description: "blank app id",
			credentials: adapters.Credentials{appIDKey: ""},
		},
		{
			description: "whitespace app id",
			credentials: adapters.Credentials{appIDKey: "   "},
		},
	}

	for _, test := range tests {
		adapter := builtAdapter(t, "https://exchange.example.com/rtb")

		err := adapter.SetUp(context.Background(), test.credentials)
		require.Error(t, err, test.description)
		assert.Equal(t, errortypes.InvalidCredentialsErrorCode, errortypes.ReadCode(err), test.description)
	}
}

func TestSetUpSuccess(t *testing.T) {
	adapter := builtAdapter(t, "https://exchange.example.com/rtb")
	assert.NoError(t, adapter.SetUp(context.Background(), adapters.Credentials{appIDKey: "102030"}))
}

func TestLoadBeforeSetUp(t *testing.T) {
	adapter := builtAdapter(t, "https://exchange.example.com/rtb")

	_, err := adapter.Load(context.Background(), &adapters.AdLoadRequest{
		MediationPlacement: "interstitial_main",
		PartnerPlacement:   "400123",
		Format:             adapters.FormatInterstitial,
	}, newRecordingListener())
	require.Error(t, err)
	assert.Equal(t, errortypes.InitializationFailureErrorCode, errortypes.ReadCode(err))
}

func TestLoadValidation(t *testing.T) {
	adapter := setUpAdapter(t, "https://exchange.example.com/rtb")

	tests := []struct {
		description string
		request     *adapters.AdLoadRequest
	}{
		{
			description: "empty partner placement",
			request: &adapters.AdLoadRequest{
				MediationPlacement: "interstitial_main",
				Format:             adapters.FormatInterstitial,
			},
		},
		{
			description: "unsupported format",
			request: &adapters.AdLoadRequest{
				MediationPlacement: "native_main",
				PartnerPlacement:   "400123",
				Format:             adapters.AdFormat("native"),
			},
		},
		{
			description: "unknown partner settings key",
			request: &adapters.AdLoadRequest{
				MediationPlacement: "interstitial_main",
				PartnerPlacement:   "400123",
				Format:             adapters.FormatInterstitial,
				PartnerSettings:    json.RawMessage(`{"unexpected": true}`),
			},
		},
		{
			description: "negative bid floor",
			request: &adapters.AdLoadRequest{
				MediationPlacement: "interstitial_main",
				PartnerPlacement:   "400123",
				Format:             adapters.FormatInterstitial,
				PartnerSettings:    json.RawMessage(`{"bid_floor": -1}`),
			},
		},
	}

	for _, test := range tests {
		_, err := adapter.Load(context.Background(), test.request, newRecordingListener())
		require.Error(t, err, test.description)
		assert.Equal(t, errortypes.MismatchedAdParamsErrorCode, errortypes.ReadCode(err), test.description)
	}
}

func TestLoadShowAndEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(fillBody(t, "rewarded"))
	}))
	defer server.Close()

	adapter := setUpAdapter(t, server.URL)
	listener := newRecordingListener()

	ad, err := adapter.Load(context.Background(), &adapters.AdLoadRequest{
		MediationPlacement: "rewarded_main",
		PartnerPlacement:   "400123",
		Format:             adapters.FormatRewarded,
		PartnerSettings:    json.RawMessage(`{"bid_floor": 1.5, "muted": true}`),
	}, listener)
	require.NoError(t, err)
	require.NotNil(t, ad)
	assert.Equal(t, "400123", ad.Details["placement_id"])

	require.NoError(t, adapter.Show(context.Background(), ad))
	awaitEvent(t, listener.impressions, "rewarded_main", "impression")

	spot := ad.Ad.(*dtx.FullscreenSpot)
	spot.Click()
	awaitEvent(t, listener.clicks, "rewarded_main", "click")

	spot.Dismiss()
	awaitEvent(t, listener.rewards, "rewarded_main", "reward")
	awaitEvent(t, listener.dismissals, "rewarded_main", "dismiss")
}

func TestLoadBanner(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(fillBody(t, "banner"))
	}))
	defer server.Close()

	adapter := setUpAdapter(t, server.URL)
	listener := newRecordingListener()

	ad, err := adapter.Load(context.Background(), &adapters.AdLoadRequest{
		MediationPlacement: "banner_home",
		PartnerPlacement:   "400124",
		Format:             adapters.FormatBanner,
		Size:               &adapters.Size{Width: 320, Height: 50},
	}, listener)
	require.NoError(t, err)

	banner := ad.Ad.(*dtx.BannerSpot)
	assert.Equal(t, "<vast/>", banner.Markup())
	assert.Equal(t, "320", ad.Details["banner_width"])
	assert.Equal(t, "480", ad.Details["banner_height"])

	banner.TrackImpression()
	awaitEvent(t, listener.impressions, "banner_home", "impression")
}

func TestLoadNoFillRemovesListener(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	adapter := setUpAdapter(t, server.URL)

	_, err := adapter.Load(context.Background(), &adapters.AdLoadRequest{
		MediationPlacement: "interstitial_main",
		PartnerPlacement:   "400123",
		Format:             adapters.FormatInterstitial,
	}, newRecordingListener())
	require.Error(t, err)
	assert.Equal(t, errortypes.NoFillErrorCode, errortypes.ReadCode(err))
	assert.Nil(t, adapter.listeners.get("interstitial_main"))
}

func TestLoadTimeout(t *testing.T) {
	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer server.Close()
	defer close(blocked)

	adapter := setUpAdapter(t, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := adapter.Load(ctx, &adapters.AdLoadRequest{
		MediationPlacement: "interstitial_main",
		PartnerPlacement:   "400123",
		Format:             adapters.FormatInterstitial,
	}, newRecordingListener())
	require.Error(t, err)
	assert.Equal(t, errortypes.TimeoutErrorCode, errortypes.ReadCode(err))
	assert.Nil(t, adapter.listeners.get("interstitial_main"))
}

// The network's request listener contract allows duplicate callbacks; only the
// first outcome may reach the awaiting load.
func TestDuplicateRequestCallbacks(t *testing.T) {
	bridge := completion.New[loadOutcome]()
	listener := &bridgeRequestListener{bridge: bridge}

	listener.OnAdRequestFailed(nil, &dtx.RequestError{Code: dtx.ErrorCodeNoFill})
	listener.OnAdRequestSucceeded(nil)
	listener.OnAdRequestFailed(nil, &dtx.RequestError{Code: dtx.ErrorCodeServerInternalError})

	outcome, err := bridge.Await(context.Background())
	require.NoError(t, err)
	require.NotNil(t, outcome.err)
	assert.Equal(t, dtx.ErrorCodeNoFill, outcome.err.Code)
}

func TestShowFailures(t *testing.T) {
	adapter := setUpAdapter(t, "https://exchange.example.com/rtb")

	tests := []struct {
		description string
		ad          *adapters.PartnerAd
		expected    int
	}{
		{
			description: "nil ad",
			ad:          nil,
			expected:    errortypes.AdNotFoundErrorCode,
		},
		{
			description: "nil ad resource",
			ad:          &adapters.PartnerAd{},
			expected:    errortypes.AdNotFoundErrorCode,
		},
		{
			description: "banner presented as fullscreen",
			ad: &adapters.PartnerAd{
				Ad: dtx.NewBannerSpot(adapter.sdk, "400124", 320, 50),
			},
			expected: errortypes.WrongResourceTypeErrorCode,
		},
		{
			description: "arbitrary resource",
			ad:          &adapters.PartnerAd{Ad: "not a spot"},
			expected:    errortypes.WrongResourceTypeErrorCode,
		},
		{
			description: "fullscreen spot with no loaded ad",
			ad: &adapters.PartnerAd{
				Ad: dtx.NewFullscreenSpot(adapter.sdk, "400123", false),
			},
			expected: errortypes.ShowAdNotReadyErrorCode,
		},
	}

	for _, test := range tests {
		err := adapter.Show(context.Background(), test.ad)
		require.Error(t, err, test.description)
		assert.Equal(t, test.expected, errortypes.ReadCode(err), test.description)
	}
}

func TestInvalidateFailures(t *testing.T) {
	adapter := setUpAdapter(t, "https://exchange.example.com/rtb")

	err := adapter.Invalidate(nil)
	require.Error(t, err)
	assert.Equal(t, errortypes.AdNotFoundErrorCode, errortypes.ReadCode(err))

	err = adapter.Invalidate(&adapters.PartnerAd{})
	require.Error(t, err)
	assert.Equal(t, errortypes.AdNotFoundErrorCode, errortypes.ReadCode(err))

	err = adapter.Invalidate(&adapters.PartnerAd{Ad: 42})
	require.Error(t, err)
	assert.Equal(t, errortypes.WrongResourceTypeErrorCode, errortypes.ReadCode(err))
}

func TestInvalidateReleasesAdAndListener(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(fillBody(t, "interstitial"))
	}))
	defer server.Close()

	adapter := setUpAdapter(t, server.URL)
	listener := newRecordingListener()

	ad, err := adapter.Load(context.Background(), &adapters.AdLoadRequest{
		MediationPlacement: "interstitial_main",
		PartnerPlacement:   "400123",
		Format:             adapters.FormatInterstitial,
	}, listener)
	require.NoError(t, err)

	require.NoError(t, adapter.Invalidate(ad))
	assert.Nil(t, adapter.listeners.get("interstitial_main"))

	// The spot is destroyed; a show after invalidate cannot succeed.
	err = adapter.Show(context.Background(), ad)
	require.Error(t, err)
	assert.Equal(t, errortypes.ShowAdNotReadyErrorCode, errortypes.ReadCode(err))
}
