package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetupViper(v, "")
	v.Set("app_id", "102030")

	cfg, err := New(v)
	require.NoError(t, err)

	assert.Equal(t, "102030", cfg.AppID)
	assert.Equal(t, "https://mbid.marketplace.inner-active.mobi/simpleM2M/requestJsonAd", cfg.Adapter.Endpoint)
	assert.Equal(t, "Chartboost", cfg.Adapter.MediatorName)
	assert.Equal(t, uint64(5000), cfg.DefaultTimeoutMS)
}

func TestInvalidEndpoint(t *testing.T) {
	v := viper.New()
	SetupViper(v, "")
	v.Set("adapter.endpoint", "not a url")

	_, err := New(v)
	assert.Error(t, err)
}

func TestMissingEndpoint(t *testing.T) {
	v := viper.New()
	SetupViper(v, "")
	v.Set("adapter.endpoint", "")

	_, err := New(v)
	assert.Error(t, err)
}

func TestZeroTimeout(t *testing.T) {
	v := viper.New()
	SetupViper(v, "")
	v.Set("default_timeout_ms", 0)

	_, err := New(v)
	assert.Error(t, err)
}
