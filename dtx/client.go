package dtx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/buger/jsonparser"
	"github.com/gofrs/uuid"
	"github.com/golang/glog"
	"github.com/mxmCherry/openrtb"
	"golang.org/x/net/context/ctxhttp"
)

type spotRequest struct {
	placementID string
	fullscreen  bool
	rewarded    bool
	muted       bool
	width       int
	height      int
	bidFloor    float64
}

type adResponse struct {
	impressionID string
	markup       string
	width        int
	height       int
	creativeType string
	price        float64
}

type bidClient struct {
	endpoint string
	http     *http.Client
}

type requestExt struct {
	Mediation mediationExt `json:"mediation"`
	SDK       string       `json:"sdk_version"`
}

type mediationExt struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type regsExt struct {
	GDPR      *int8  `json:"gdpr,omitempty"`
	USPrivacy string `json:"us_privacy,omitempty"`
}

type userExt struct {
	Consent string `json:"consent,omitempty"`
}

// requestAd performs one OpenRTB bid request for the spot. Every failure is
// classified as a RequestError; the caller never retries.
func (c *bidClient) requestAd(ctx context.Context, req spotRequest, rc requestContext) (*adResponse, *RequestError) {
	bidReq, impID, err := buildBidRequest(ctx, req, rc)
	if err != nil {
		return nil, &RequestError{Code: ErrorCodeInternalError, Message: err.Error()}
	}

	body, err := json.Marshal(bidReq)
	if err != nil {
		return nil, &RequestError{Code: ErrorCodeInternalError, Message: err.Error()}
	}

	httpReq, err := http.NewRequest("POST", c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &RequestError{Code: ErrorCodeInternalError, Message: err.Error()}
	}
	httpReq.Header.Add("Content-Type", "application/json;charset=utf-8")
	httpReq.Header.Add("Accept", "application/json")
	httpReq.Header.Add("x-openrtb-version", "2.5")

	resp, err := ctxhttp.Do(ctx, c.http, httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, &RequestError{Code: ErrorCodeConnectionTimeout, Message: err.Error()}
		}
		return nil, &RequestError{Code: ErrorCodeConnectionError, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Code: ErrorCodeConnectionError, Message: err.Error()}
	}

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil, &RequestError{Code: ErrorCodeNoFill}
	case resp.StatusCode == http.StatusBadRequest:
		return nil, &RequestError{
			Code:    ErrorCodeInvalidInput,
			Message: fmt.Sprintf("exchange rejected the request: %s", respBody),
		}
	case resp.StatusCode >= 500:
		return nil, &RequestError{
			Code:    ErrorCodeServerInternalError,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	case resp.StatusCode != http.StatusOK:
		return nil, &RequestError{
			Code:    ErrorCodeUnspecified,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	var bidResp openrtb.BidResponse
	if err := json.Unmarshal(respBody, &bidResp); err != nil {
		return nil, &RequestError{Code: ErrorCodeServerInvalidResponse, Message: err.Error()}
	}
	if len(bidResp.SeatBid) == 0 || len(bidResp.SeatBid[0].Bid) == 0 {
		return nil, &RequestError{Code: ErrorCodeNoFill}
	}

	bid := bidResp.SeatBid[0].Bid[0]
	if bid.AdM == "" {
		return nil, &RequestError{Code: ErrorCodeServerInvalidResponse, Message: "bid has no markup"}
	}

	ad := &adResponse{
		impressionID: impID,
		markup:       bid.AdM,
		width:        int(bid.W),
		height:       int(bid.H),
		price:        bid.Price,
	}

	if len(bid.Ext) > 0 {
		// The exchange declares the creative type in bid.ext; a type that
		// contradicts the spot kind means the placement is misconfigured.
		if crtype, err := jsonparser.GetString(bid.Ext, "crtype"); err == nil {
			ad.creativeType = crtype
			if mismatchedCreativeType(crtype, req.fullscreen) {
				return nil, &RequestError{
					Code:    ErrorCodeUnsupportedSpot,
					Message: fmt.Sprintf("creative type %q does not match the requested spot", crtype),
				}
			}
		}
	}

	glog.V(2).Infof("spot %s filled: %.4f CPM, creative type %q", req.placementID, ad.price, ad.creativeType)
	return ad, nil
}

func mismatchedCreativeType(crtype string, fullscreen bool) bool {
	switch crtype {
	case "banner":
		return fullscreen
	case "interstitial", "rewarded", "vast":
		return !fullscreen
	default:
		return false
	}
}

func buildBidRequest(ctx context.Context, req spotRequest, rc requestContext) (*openrtb.BidRequest, string, error) {
	reqID, err := uuid.NewV4()
	if err != nil {
		return nil, "", err
	}
	impUUID, err := uuid.NewV4()
	if err != nil {
		return nil, "", err
	}
	impID := impUUID.String()

	imp := openrtb.Imp{
		ID:       impID,
		TagID:    req.placementID,
		BidFloor: req.bidFloor,
	}
	if req.fullscreen {
		imp.Instl = 1
		imp.Video = &openrtb.Video{
			MIMEs: []string{"video/mp4"},
		}
		if req.muted {
			if imp.Ext, err = json.Marshal(map[string]bool{"muted": true}); err != nil {
				return nil, "", err
			}
		}
	} else {
		w := uint64(req.width)
		h := uint64(req.height)
		imp.Banner = &openrtb.Banner{
			W:      &w,
			H:      &h,
			Format: []openrtb.Format{{W: w, H: h}},
		}
	}

	ext, err := json.Marshal(requestExt{
		Mediation: mediationExt{Name: rc.mediatorName, Version: rc.mediatorVersion},
		SDK:       Version,
	})
	if err != nil {
		return nil, "", err
	}

	bidReq := &openrtb.BidRequest{
		ID:  reqID.String(),
		Imp: []openrtb.Imp{imp},
		App: &openrtb.App{
			ID: rc.appID,
		},
		Ext: ext,
	}

	if deadline, ok := ctx.Deadline(); ok {
		bidReq.TMax = int64(time.Until(deadline) / time.Millisecond)
	}

	regs := &openrtb.Regs{}
	regsDirty := false
	if rc.coppaApplies {
		regs.COPPA = 1
		regsDirty = true
	}
	rext := regsExt{USPrivacy: rc.usPrivacy}
	if rc.gdprApplies != nil {
		applies := int8(0)
		if *rc.gdprApplies {
			applies = 1
		}
		rext.GDPR = &applies
	}
	if rext.GDPR != nil || rext.USPrivacy != "" {
		if regs.Ext, err = json.Marshal(rext); err != nil {
			return nil, "", err
		}
		regsDirty = true
	}
	if regsDirty {
		bidReq.Regs = regs
	}

	if rc.gdprConsent != "" {
		uext, err := json.Marshal(userExt{Consent: rc.gdprConsent})
		if err != nil {
			return nil, "", err
		}
		bidReq.User = &openrtb.User{Ext: uext}
	}

	return bidReq, impID, nil
}
