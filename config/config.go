// Package config loads the adapter configuration with viper.
package config

import (
	"fmt"
	"strings"

	validator "github.com/asaskevich/govalidator"
	"github.com/spf13/viper"

	"github.com/chartboost/mediation-dtexchange-go/errortypes"
)

// Configuration holds everything the adapter needs at runtime.
type Configuration struct {
	// AppID is the DT Exchange application id issued for the publisher.
	AppID string `mapstructure:"app_id"`

	Adapter Adapter `mapstructure:"adapter"`

	// DefaultTimeoutMS bounds a load when the caller supplies no deadline.
	DefaultTimeoutMS uint64 `mapstructure:"default_timeout_ms"`

	Metrics Metrics `mapstructure:"metrics"`

	// StatusPort serves the diagnostic endpoints.
	StatusPort int `mapstructure:"status_port"`
}

// Adapter configures the connection to the exchange.
type Adapter struct {
	Endpoint string `mapstructure:"endpoint"` // Required

	// MediatorName and MediatorVersion identify the mediating SDK to the
	// exchange on every bid request.
	MediatorName    string `mapstructure:"mediator_name"`
	MediatorVersion string `mapstructure:"mediator_version"`
}

// Metrics configures the prometheus instrumentation.
type Metrics struct {
	Enabled bool `mapstructure:"enabled"`
}

// New unmarshals and validates a Configuration from viper.
func New(v *viper.Viper) (*Configuration, error) {
	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("viper failed to unmarshal app config: %v", err)
	}

	if errs := c.validate(); len(errs) > 0 {
		return nil, errortypes.NewAggregateErrors("invalid configuration", errs)
	}

	return &c, nil
}

func (cfg *Configuration) validate() []error {
	var errs []error

	errs = validateEndpoint(cfg.Adapter.Endpoint, errs)

	if cfg.DefaultTimeoutMS == 0 {
		errs = append(errs, fmt.Errorf("default_timeout_ms must be positive"))
	}

	return errs
}

// validateEndpoint checks the exchange URL with both IsURL and IsRequestURL:
// IsURL alone admits relative paths, IsRequestURL alone admits some malformed
// absolute URLs.
func validateEndpoint(endpoint string, errs []error) []error {
	if endpoint == "" {
		return append(errs, fmt.Errorf("adapter.endpoint is required"))
	}

	if !validator.IsURL(endpoint) || !validator.IsRequestURL(endpoint) {
		errs = append(errs, fmt.Errorf("adapter.endpoint %q is not a valid URL", endpoint))
	}

	return errs
}

// SetupViper installs defaults and environment bindings on v.
func SetupViper(v *viper.Viper, filename string) {
	if filename != "" {
		v.SetConfigName(filename)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/config")
	}

	v.SetDefault("adapter.endpoint", "https://mbid.marketplace.inner-active.mobi/simpleM2M/requestJsonAd")
	v.SetDefault("adapter.mediator_name", "Chartboost")
	v.SetDefault("adapter.mediator_version", "5.0.0")
	v.SetDefault("default_timeout_ms", 5000)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("status_port", 6067)

	v.SetEnvPrefix("DTX_ADAPTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.ReadInConfig()
}
