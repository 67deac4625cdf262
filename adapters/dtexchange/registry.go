package dtexchange

import (
	"sync"

	"github.com/chartboost/mediation-dtexchange-go/adapters"
)

// listenerRegistry maps a mediation placement to its registered lifecycle
// listener. Load inserts, invalidate removes, event dispatch looks up. The
// mediation layer does not run concurrent loads for one placement, so a plain
// guarded map is enough.
type listenerRegistry struct {
	mu        sync.Mutex
	listeners map[string]adapters.Listener
}

func newListenerRegistry() *listenerRegistry {
	return &listenerRegistry{listeners: make(map[string]adapters.Listener)}
}

func (r *listenerRegistry) register(placement string, listener adapters.Listener) {
	r.mu.Lock()
	r.listeners[placement] = listener
	r.mu.Unlock()
}

func (r *listenerRegistry) remove(placement string) {
	r.mu.Lock()
	delete(r.listeners, placement)
	r.mu.Unlock()
}

func (r *listenerRegistry) get(placement string) adapters.Listener {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listeners[placement]
}
