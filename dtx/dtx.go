// Package dtx is a headless Go client for the Digital Turbine Exchange
// marketplace. It keeps the callback shape of the mobile SDK: requests run on
// internal goroutines and report through listeners, and the listener contract
// permits a callback to fire more than once for a single logical request, so
// callers must guard their own completion handling.
package dtx

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/blang/semver"
	"github.com/golang/glog"
)

// Version is the marketplace client version reported to the exchange.
const Version = "8.3.6"

// InitStatus is reported to the Initialize callback.
type InitStatus int

const (
	InitStatusSuccess InitStatus = iota
	InitStatusFailed
	InitStatusInvalidAppID
)

func (s InitStatus) String() string {
	switch s {
	case InitStatusSuccess:
		return "SUCCESSFULLY"
	case InitStatusInvalidAppID:
		return "INVALID_APP_ID"
	default:
		return "FAILED"
	}
}

// SDK is the marketplace entry point. One instance serves all spots.
type SDK struct {
	client *bidClient

	mu              sync.Mutex
	appID           string
	initialized     bool
	mediatorName    string
	mediatorVersion string

	gdprApplies  *bool
	gdprConsent  string
	usPrivacy    string
	coppaApplies bool
}

// NewSDK builds an SDK pointed at the given exchange endpoint. A nil httpClient
// selects a default transport.
func NewSDK(endpoint string, httpClient *http.Client) *SDK {
	if httpClient == nil {
		transport := &http.Transport{
			MaxIdleConns:        50,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     60 * time.Second,
		}
		httpClient = &http.Client{Transport: transport}
	}

	return &SDK{
		client: &bidClient{
			endpoint: endpoint,
			http:     httpClient,
		},
	}
}

// Initialize starts the marketplace for the given app id and reports the outcome
// through cb on an internal goroutine. Repeat initialization reports success
// without redoing any work.
func (s *SDK) Initialize(ctx context.Context, appID string, cb func(status InitStatus, message string)) {
	go func() {
		if appID == "" {
			cb(InitStatusInvalidAppID, "app id is empty")
			return
		}

		s.mu.Lock()
		s.appID = appID
		s.initialized = true
		s.mu.Unlock()

		glog.Infof("DT Exchange marketplace initialized for app %s", appID)
		cb(InitStatusSuccess, "")
	}()
}

// SetMediator records the mediating SDK's name and version, which are forwarded
// with every bid request. A version that does not parse as a semantic version is
// still forwarded, but logged.
func (s *SDK) SetMediator(name string, version string) {
	if _, err := semver.ParseTolerant(version); err != nil {
		glog.Warningf("mediator version %q is not a semantic version: %v", version, err)
	}

	s.mu.Lock()
	s.mediatorName = name
	s.mediatorVersion = version
	s.mu.Unlock()
}

// SetGDPRApplies records whether GDPR applies to the current user.
func (s *SDK) SetGDPRApplies(applies bool) {
	s.mu.Lock()
	s.gdprApplies = &applies
	s.mu.Unlock()
}

// SetGDPRConsentString records the IAB TCF consent string.
func (s *SDK) SetGDPRConsentString(consent string) {
	s.mu.Lock()
	s.gdprConsent = consent
	s.mu.Unlock()
}

// ClearGDPRConsentData removes any recorded GDPR signals.
func (s *SDK) ClearGDPRConsentData() {
	s.mu.Lock()
	s.gdprApplies = nil
	s.gdprConsent = ""
	s.mu.Unlock()
}

// SetUSPrivacyString records the IAB CCPA/US privacy string.
func (s *SDK) SetUSPrivacyString(usPrivacy string) {
	s.mu.Lock()
	s.usPrivacy = usPrivacy
	s.mu.Unlock()
}

// SetCOPPA records whether the user is a child subject to COPPA.
func (s *SDK) SetCOPPA(applies bool) {
	s.mu.Lock()
	s.coppaApplies = applies
	s.mu.Unlock()
}

// Initialized reports whether Initialize completed successfully.
func (s *SDK) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// snapshot captures the request-relevant SDK state at the moment a spot request
// starts, so concurrent consent updates cannot tear a request in flight.
func (s *SDK) snapshot() requestContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	return requestContext{
		appID:           s.appID,
		initialized:     s.initialized,
		mediatorName:    s.mediatorName,
		mediatorVersion: s.mediatorVersion,
		gdprApplies:     s.gdprApplies,
		gdprConsent:     s.gdprConsent,
		usPrivacy:       s.usPrivacy,
		coppaApplies:    s.coppaApplies,
	}
}

type requestContext struct {
	appID           string
	initialized     bool
	mediatorName    string
	mediatorVersion string
	gdprApplies     *bool
	gdprConsent     string
	usPrivacy       string
	coppaApplies    bool
}
