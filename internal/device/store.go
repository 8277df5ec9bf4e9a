// Package device implements the in-process point store of the simulated boiler
// and a typed facade the simulation reads and writes through.
package device

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

var (
	ErrUnknownPoint   = errors.New("unknown point")
	ErrPointKind      = errors.New("value does not match point kind")
	ErrReadOnlyPoint  = errors.New("point is not writable")
	ErrDuplicatePoint = errors.New("duplicate point definition")
)

type point struct {
	def   Definition
	value any
}

// PointValue is a copy of a point's definition and present value.
type PointValue struct {
	Definition
	Kind  string `json:"kind"`
	Value any    `json:"value"`
}

// Store maps point names to typed present values. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	points map[string]*point
	order  []string
}

// NewStore builds a store from defs, setting every point to its default value.
func NewStore(defs []Definition) (*Store, error) {
	s := &Store{points: make(map[string]*point, len(defs))}
	for _, d := range defs {
		if _, ok := s.points[d.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePoint, d.Name)
		}
		v, err := coerce(d.Kind, d.Default)
		if err != nil {
			return nil, fmt.Errorf("default of %q: %w", d.Name, err)
		}
		s.points[d.Name] = &point{def: d, value: v}
		s.order = append(s.order, d.Name)
	}
	return s, nil
}

// Get returns the present value of name.
func (s *Store) Get(name string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.points[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPoint, name)
	}
	return p.value, nil
}

// Set stores v as the present value of name after checking it against the point kind.
func (s *Store) Set(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.points[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPoint, name)
	}
	cv, err := coerce(p.def.Kind, v)
	if err != nil {
		return fmt.Errorf("set %q: %w", name, err)
	}
	p.value = cv
	return nil
}

// Write is Set for external clients: only points flagged writable accept it.
func (s *Store) Write(name string, v any) error {
	def, err := s.Definition(name)
	if err != nil {
		return err
	}
	if !def.Writable {
		return fmt.Errorf("%w: %q", ErrReadOnlyPoint, name)
	}
	return s.Set(name, v)
}

// Definition returns the definition of name.
func (s *Store) Definition(name string) (Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.points[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownPoint, name)
	}
	return p.def, nil
}

// Point returns the definition and present value of name.
func (s *Store) Point(name string) (PointValue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.points[name]
	if !ok {
		return PointValue{}, fmt.Errorf("%w: %q", ErrUnknownPoint, name)
	}
	return PointValue{Definition: p.def, Kind: p.def.Kind.String(), Value: p.value}, nil
}

// Snapshot copies every point in definition order under a single read lock.
func (s *Store) Snapshot() []PointValue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PointValue, 0, len(s.order))
	for _, name := range s.order {
		p := s.points[name]
		out = append(out, PointValue{Definition: p.def, Kind: p.def.Kind.String(), Value: p.value})
	}
	return out
}

// require checks that name exists with the given kind.
func (s *Store) require(name string, kind Kind) error {
	def, err := s.Definition(name)
	if err != nil {
		return err
	}
	if def.Kind != kind {
		return fmt.Errorf("%w: %q is %s, want %s", ErrPointKind, name, def.Kind, kind)
	}
	return nil
}

// Typed accessors below assume the point was checked with require.

func (s *Store) float(name string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.points[name]; ok {
		f, _ := p.value.(float64)
		return f
	}
	return 0
}

func (s *Store) setFloat(name string, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.points[name]; ok {
		p.value = v
	}
}

func (s *Store) bool(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.points[name]; ok {
		b, _ := p.value.(bool)
		return b
	}
	return false
}

func (s *Store) setBool(name string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.points[name]; ok {
		p.value = v
	}
}

func (s *Store) state(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.points[name]; ok {
		n, _ := p.value.(int)
		return n
	}
	return 0
}

func (s *Store) setState(name string, v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.points[name]; ok {
		p.value = v
	}
}

func (s *Store) addFloat(name string, delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.points[name]; ok {
		f, _ := p.value.(float64)
		p.value = f + delta
	}
}

// coerce converts v to the Go type backing kind: float64, bool or int.
// JSON numbers arrive as float64, so integral floats are accepted for multistate points.
func coerce(kind Kind, v any) (any, error) {
	switch kind {
	case KindAnalog:
		switch x := v.(type) {
		case float64:
			return x, nil
		case float32:
			return float64(x), nil
		case int:
			return float64(x), nil
		case int64:
			return float64(x), nil
		}
	case KindBinary:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindMultistate:
		switch x := v.(type) {
		case int:
			if x >= 0 {
				return x, nil
			}
		case int64:
			if x >= 0 {
				return int(x), nil
			}
		case float64:
			if x >= 0 && x == math.Trunc(x) {
				return int(x), nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %v (%T) for %s point", ErrPointKind, v, v, kind)
}
