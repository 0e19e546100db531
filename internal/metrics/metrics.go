// Package metrics is a tiny facade between the pipeline and whatever
// metrics system a deployment uses. The pipeline only ever talks to this
// package; backends are swapped in at startup with SetBackend. The default
// backend discards everything, so instrumented code needs no nil checks.
package metrics

import "sync"

// Labels attach dimensions to a metric (e.g. {"table": "sales"}).
type Labels map[string]string

// Backend is the minimal surface a metrics sink must implement.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	SetGauge(name string, value float64, labels Labels)
	Flush() error
	Close() error
}

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs the active backend. Call once at startup.
func SetBackend(b Backend) {
	if b == nil {
		b = nopBackend{}
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

func IncCounter(name string, delta float64, labels Labels) { current().IncCounter(name, delta, labels) }
func SetGauge(name string, value float64, labels Labels)   { current().SetGauge(name, value, labels) }
func Flush() error                                         { return current().Flush() }
func Close() error                                         { return current().Close() }

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels) {}
func (nopBackend) SetGauge(string, float64, Labels)   {}
func (nopBackend) Flush() error                       { return nil }
func (nopBackend) Close() error                       { return nil }
