// Package charts builds the four result charts and owns their lifecycle.
package charts

import (
	"sync"
)

// Kind identifies one of the result chart slots
type Kind string

const (
	KindHistogram  Kind = "histogram"
	KindCumulative Kind = "cumulative"
	KindCashFlows  Kind = "cashflows"
	KindForecast   Kind = "forecast"
)

// Kinds lists every slot in display order
var Kinds = []Kind{KindHistogram, KindCumulative, KindCashFlows, KindForecast}

// ParseKind resolves a slot name taken from a URL
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Chart is one rendered chart instance. Its image buffer is held until Destroy.
type Chart struct {
	Kind  Kind
	Title string
	Data  any

	mu        sync.RWMutex
	image     []byte
	destroyed bool
}

func newChart(kind Kind, title string, data any, image []byte) *Chart {
	return &Chart{Kind: kind, Title: title, Data: data, image: image}
}

// PNG returns the rendered image, or false once the chart was destroyed
func (c *Chart) PNG() ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.destroyed {
		return nil, false
	}
	return c.image, true
}

// Destroy releases the image buffer. Safe to call more than once.
func (c *Chart) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.image = nil
	c.destroyed = true
}

// Destroyed reports whether Destroy was called
func (c *Chart) Destroyed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.destroyed
}

// Registry holds at most one live chart per Kind
type Registry struct {
	mu     sync.Mutex
	charts map[Kind]*Chart
}

func NewRegistry() *Registry {
	return &Registry{
		charts: make(map[Kind]*Chart),
	}
}

// Replace destroys the chart in the slot and stores the one returned by build.
// Both steps happen under the registry lock. When build fails the slot stays empty.
func (r *Registry) Replace(kind Kind, build func() (*Chart, error)) (*Chart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.destroyLocked(kind)

	c, err := build()
	if err != nil {
		return nil, err
	}
	r.charts[kind] = c
	return c, nil
}

// Destroy empties one slot
func (r *Registry) Destroy(kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.destroyLocked(kind)
}

// DestroyAll empties every slot
func (r *Registry) DestroyAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for kind := range r.charts {
		r.destroyLocked(kind)
	}
}

func (r *Registry) destroyLocked(kind Kind) {
	if old, ok := r.charts[kind]; ok {
		old.Destroy()
		delete(r.charts, kind)
	}
}

// Get returns the live chart in a slot
func (r *Registry) Get(kind Kind) (*Chart, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.charts[kind]
	return c, ok
}

// Live counts the chart instances currently holding resources
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, c := range r.charts {
		if !c.Destroyed() {
			n++
		}
	}
	return n
}
