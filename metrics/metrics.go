// Package metrics records adapter operation outcomes.
package metrics

import (
	"time"
)

// Engine abstracts the metrics backend so callers never branch on whether
// instrumentation is enabled.
type Engine interface {
	RecordSetup(err error)
	RecordLoad(format string, duration time.Duration, err error)
	RecordShow(format string, err error)
	RecordInvalidate(err error)
}

// NewNilEngine returns an Engine that records nothing. The adapter uses it when
// metrics are disabled.
func NewNilEngine() Engine {
	return &nilEngine{}
}

type nilEngine struct{}

func (e *nilEngine) RecordSetup(err error) {}

func (e *nilEngine) RecordLoad(format string, duration time.Duration, err error) {}

func (e *nilEngine) RecordShow(format string, err error) {}

func (e *nilEngine) RecordInvalidate(err error) {}
