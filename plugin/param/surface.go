package param

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	// ErrUnknownParameter indicates a key that is not registered.
	ErrUnknownParameter = errors.New("param: unknown parameter")
	// ErrDuplicateKey indicates a second parameter registered under one key.
	ErrDuplicateKey = errors.New("param: duplicate key")
)

// Listener receives the key and new plain value of a changed parameter.
type Listener func(key string, value float64)

type subscription struct {
	id uint64
	fn Listener
}

// Surface is an ordered registry of parameters. Registration happens before
// the surface is shared; afterwards the registry itself is read-only.
type Surface struct {
	params []Parameter
	byKey  map[string]Parameter

	generation atomic.Uint64

	mu        sync.Mutex
	nextID    uint64
	listeners atomic.Pointer[[]subscription]
}

// NewSurface returns an empty surface.
func NewSurface() *Surface {
	return &Surface{byKey: make(map[string]Parameter)}
}

// Add registers params in order.
func (s *Surface) Add(params ...Parameter) error {
	for _, p := range params {
		if _, exists := s.byKey[p.Key()]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, p.Key())
		}

		p.attach(s)
		s.byKey[p.Key()] = p
		s.params = append(s.params, p)
	}

	return nil
}

// Param returns the parameter registered under key.
func (s *Surface) Param(key string) (Parameter, bool) {
	p, ok := s.byKey[key]
	return p, ok
}

// Float returns the Float registered under key, or nil.
func (s *Surface) Float(key string) *Float {
	f, _ := s.byKey[key].(*Float)
	return f
}

// Choice returns the Choice registered under key, or nil.
func (s *Surface) Choice(key string) *Choice {
	c, _ := s.byKey[key].(*Choice)
	return c
}

// Params returns the parameters in registration order.
func (s *Surface) Params() []Parameter {
	return append([]Parameter(nil), s.params...)
}

// Keys returns the keys in registration order.
func (s *Surface) Keys() []string {
	keys := make([]string, len(s.params))
	for i, p := range s.params {
		keys[i] = p.Key()
	}

	return keys
}

// Get returns the plain value of key.
func (s *Surface) Get(key string) (float64, error) {
	p, ok := s.byKey[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, key)
	}

	return p.Plain(), nil
}

// Set stores a plain value.
func (s *Surface) Set(key string, v float64) error {
	p, ok := s.byKey[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, key)
	}

	p.SetPlain(v)

	return nil
}

// SetNormalized stores a normalized value.
func (s *Surface) SetNormalized(key string, v float64) error {
	p, ok := s.byKey[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, key)
	}

	p.SetNormalized(v)

	return nil
}

// Values returns a snapshot of every plain value.
func (s *Surface) Values() map[string]float64 {
	out := make(map[string]float64, len(s.params))
	for _, p := range s.params {
		out[p.Key()] = p.Plain()
	}

	return out
}

// Restore applies values: present keys are set (and clamped), missing keys
// revert to their default and unknown keys are ignored.
func (s *Surface) Restore(values map[string]float64) {
	for _, p := range s.params {
		if v, ok := values[p.Key()]; ok {
			p.SetPlain(v)
		} else {
			p.Reset()
		}
	}
}

// ResetAll restores every default.
func (s *Surface) ResetAll() {
	for _, p := range s.params {
		p.Reset()
	}
}

// Generation returns a counter that increases on every value change.
func (s *Surface) Generation() uint64 {
	return s.generation.Load()
}

// Subscribe registers fn for change notifications and returns a function
// that removes it. fn runs on the goroutine that made the change.
func (s *Surface) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID

	next := append(s.snapshot(), subscription{id: id, fn: fn})
	s.listeners.Store(&next)

	var once sync.Once

	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

func (s *Surface) unsubscribe(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.snapshot()
	next := make([]subscription, 0, len(current))

	for _, sub := range current {
		if sub.id != id {
			next = append(next, sub)
		}
	}

	s.listeners.Store(&next)
}

// snapshot copies the listener list. Callers hold s.mu.
func (s *Surface) snapshot() []subscription {
	cur := s.listeners.Load()
	if cur == nil {
		return nil
	}

	return append([]subscription(nil), (*cur)...)
}

func (s *Surface) changed(key string, v float64) {
	s.generation.Add(1)

	subs := s.listeners.Load()
	if subs == nil {
		return
	}

	for _, sub := range *subs {
		sub.fn(key, v)
	}
}

// Poller reports whether a surface changed since the last poll.
type Poller struct {
	surface *Surface
	last    uint64
}

// NewPoller returns a Poller that treats the current state as seen.
func NewPoller(s *Surface) *Poller {
	return &Poller{surface: s, last: s.Generation()}
}

// Poll reports whether any parameter changed since the previous call.
func (p *Poller) Poll() bool {
	g := p.surface.Generation()
	if g == p.last {
		return false
	}

	p.last = g

	return true
}
