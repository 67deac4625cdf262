package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"

	"github.com/chartboost/mediation-dtexchange-go/adapters"
	"github.com/chartboost/mediation-dtexchange-go/adapters/dtexchange"
	"github.com/chartboost/mediation-dtexchange-go/config"
	"github.com/chartboost/mediation-dtexchange-go/metrics"
)

// Rev holds binary revision string
// Set manually at build time using:
//    go build -ldflags "-X main.Rev=`git rev-parse --short HEAD`"
var Rev string

const configFileName = "dtexchange"

func main() {
	flag.Parse() // required for glog flags

	cfg, err := loadConfig()
	if err != nil {
		glog.Exitf("Configuration could not be loaded or did not pass validation: %v", err)
	}

	if err := serve(cfg); err != nil {
		glog.Exitf("dtexchange adapter harness failed: %v", err)
	}
}

func loadConfig() (*config.Configuration, error) {
	v := viper.New()
	config.SetupViper(v, configFileName)
	return config.New(v)
}

// serve runs the adapter diagnostic harness: it sets the adapter up, performs
// one smoke-test interstitial load, and exposes /status and /metrics.
func serve(cfg *config.Configuration) error {
	var engine metrics.Engine = metrics.NewNilEngine()
	var prom *metrics.PrometheusEngine
	if cfg.Metrics.Enabled {
		prom = metrics.NewPrometheusEngine()
		engine = prom
	}

	adapter, err := dtexchange.Builder(cfg.Adapter, engine)
	if err != nil {
		return err
	}

	timeout := time.Duration(cfg.DefaultTimeoutMS) * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	err = adapter.SetUp(ctx, adapters.Credentials{"fyber_app_id": cfg.AppID})
	cancel()
	if err != nil {
		return err
	}

	info := adapter.Info()
	glog.Infof("adapter %s %s ready (network client %s, rev %s)",
		info.PartnerID, info.AdapterVersion, info.NetworkVersion, Rev)

	go smokeTestLoad(adapter, timeout)

	router := httprouter.New()
	router.HandlerFunc("GET", "/status", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s %s\n", info.DisplayName, info.AdapterVersion)
	})
	if prom != nil {
		router.Handler("GET", "/metrics", promhttp.HandlerFor(prom.Registry, promhttp.HandlerOpts{}))
	}

	glog.Infof("diagnostic endpoints listening on :%d", cfg.StatusPort)
	return http.ListenAndServe(fmt.Sprintf(":%d", cfg.StatusPort), router)
}

type logListener struct{}

func (logListener) OnImpressionTracked(placement string) {
	glog.Infof("impression tracked for %s", placement)
}

func (logListener) OnClicked(placement string) {
	glog.Infof("click for %s", placement)
}

func (logListener) OnDismissed(placement string) {
	glog.Infof("dismissal for %s", placement)
}

func (logListener) OnRewarded(placement string) {
	glog.Infof("reward for %s", placement)
}

func smokeTestLoad(adapter adapters.Adapter, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ad, err := adapter.Load(ctx, &adapters.AdLoadRequest{
		MediationPlacement: "smoke_test",
		PartnerPlacement:   "smoke_test",
		Format:             adapters.FormatInterstitial,
	}, logListener{})
	if err != nil {
		glog.Warningf("smoke-test load failed: %v", err)
		return
	}

	if err := adapter.Show(ctx, ad); err != nil {
		glog.Warningf("smoke-test show failed: %v", err)
	}
	if err := adapter.Invalidate(ad); err != nil {
		glog.Warningf("smoke-test invalidate failed: %v", err)
	}
}
