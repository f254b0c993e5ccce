package trait

import (
	"fmt"
	"sort"
)

// Kind identifies a built-in survival gauge.
type Kind string

// Built-in survival gauge kinds.
const (
	Hunger  Kind = "hunger"
	Thirst  Kind = "thirst"
	Fatigue Kind = "fatigue"
	Health  Kind = "health"
)

// Kinds lists the built-in gauge kinds in canonical order.
var Kinds = []Kind{Hunger, Thirst, Fatigue, Health}

// String returns the kind's gauge name.
func (k Kind) String() string { return string(k) }

// GaugeSet holds the built-in survival gauges keyed by Kind plus an open
// string-keyed map of content-defined extension gauges, behind one uniform
// accessor.
//
// Invariant: extension names never shadow a built-in kind.
type GaugeSet struct {
	builtin map[Kind]*Gauge
	extra   map[string]*Gauge
}

// NewGaugeSet creates a set holding the given built-in gauges and no
// extensions.
func NewGaugeSet(builtin map[Kind]*Gauge) *GaugeSet {
	set := &GaugeSet{
		builtin: make(map[Kind]*Gauge, len(builtin)),
		extra:   make(map[string]*Gauge),
	}
	for k, g := range builtin {
		set.builtin[k] = g
	}
	return set
}

// Builtin returns the gauge for a built-in kind, or nil when the set does
// not carry it.
func (s *GaugeSet) Builtin(k Kind) *Gauge {
	return s.builtin[k]
}

// Gauge is the uniform accessor: it resolves built-in kinds first, then
// extension gauges, and returns nil for unknown names.
func (s *GaugeSet) Gauge(name string) *Gauge {
	if g, ok := s.builtin[Kind(name)]; ok {
		return g
	}
	return s.extra[name]
}

// AddExtension registers a content-defined gauge under the given name.
//
// Precondition: name must not collide with a built-in kind or an existing
// extension.
func (s *GaugeSet) AddExtension(name string, g *Gauge) error {
	if name == "" {
		return fmt.Errorf("trait: extension gauge name must not be empty")
	}
	if g == nil {
		return fmt.Errorf("trait: extension gauge %q must not be nil", name)
	}
	if _, ok := s.builtin[Kind(name)]; ok {
		return fmt.Errorf("trait: extension gauge %q shadows a built-in kind", name)
	}
	if _, ok := s.extra[name]; ok {
		return fmt.Errorf("trait: extension gauge %q already registered", name)
	}
	s.extra[name] = g
	return nil
}

// Each calls fn for every gauge: built-ins in canonical kind order, then
// extensions sorted by name.
func (s *GaugeSet) Each(fn func(name string, g *Gauge)) {
	for _, k := range Kinds {
		if g, ok := s.builtin[k]; ok {
			fn(string(k), g)
		}
	}
	names := make([]string, 0, len(s.extra))
	for name := range s.extra {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fn(name, s.extra[name])
	}
}

// Len returns the total number of gauges in the set.
func (s *GaugeSet) Len() int {
	return len(s.builtin) + len(s.extra)
}
