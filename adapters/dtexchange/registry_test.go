package dtexchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryLifecycle(t *testing.T) {
	registry := newListenerRegistry()
	assert.Nil(t, registry.get("rewarded_main"))

	listener := &recordingListener{}
	registry.register("rewarded_main", listener)
	assert.Equal(t, listener, registry.get("rewarded_main"))
	assert.Nil(t, registry.get("banner_home"))

	registry.remove("rewarded_main")
	assert.Nil(t, registry.get("rewarded_main"))

	// Removing an absent placement is a no-op.
	registry.remove("rewarded_main")
}

func TestRegistryReplace(t *testing.T) {
	registry := newListenerRegistry()

	first := &recordingListener{}
	second := &recordingListener{}
	registry.register("banner_home", first)
	registry.register("banner_home", second)

	assert.Equal(t, second, registry.get("banner_home"))
}
