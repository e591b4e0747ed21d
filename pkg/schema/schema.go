// Package schema declares the named, typed per-node properties that a
// computation maintains. A schema is assembled through a Builder before a run
// starts and is immutable afterwards; the value store allocates one column
// per element.
package schema

import (
	"errors"
	"fmt"
)

// ValueType enumerates the supported shapes of a node property.
type ValueType int

const (
	ValueTypeLong ValueType = iota
	ValueTypeDouble
	ValueTypeLongArray
	ValueTypeDoubleArray
)

func (t ValueType) String() string {
	switch t {
	case ValueTypeLong:
		return "long"
	case ValueTypeDouble:
		return "double"
	case ValueTypeLongArray:
		return "long_array"
	case ValueTypeDoubleArray:
		return "double_array"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Visibility controls whether a property is part of the externally readable
// result or is only reachable by the algorithm while the run is in flight.
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityPrivate
)

func (v Visibility) String() string {
	if v == VisibilityPrivate {
		return "private"
	}
	return "public"
}

var (
	ErrEmptyPropertyName     = errors.New("property name must not be empty")
	ErrDuplicatePropertyName = errors.New("duplicate property name")
	ErrUnknownProperty       = errors.New("unknown property")
)

// Element is one named property declaration. DefaultLong / DefaultDouble hold
// the initial cell value for scalar columns; array columns always start empty.
type Element struct {
	Name          string
	Type          ValueType
	Visibility    Visibility
	DefaultLong   int64
	DefaultDouble float64
}

// Schema is an ordered, immutable list of property declarations.
type Schema struct {
	elements []Element
	index    map[string]int
}

// Builder accumulates property declarations. The zero value is usable.
type Builder struct {
	elements []Element
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) AddLong(name string, visibility Visibility, defaultValue int64) *Builder {
	b.elements = append(b.elements, Element{
		Name:        name,
		Type:        ValueTypeLong,
		Visibility:  visibility,
		DefaultLong: defaultValue,
	})
	return b
}

func (b *Builder) AddDouble(name string, visibility Visibility, defaultValue float64) *Builder {
	b.elements = append(b.elements, Element{
		Name:          name,
		Type:          ValueTypeDouble,
		Visibility:    visibility,
		DefaultDouble: defaultValue,
	})
	return b
}

func (b *Builder) AddLongArray(name string, visibility Visibility) *Builder {
	b.elements = append(b.elements, Element{Name: name, Type: ValueTypeLongArray, Visibility: visibility})
	return b
}

func (b *Builder) AddDoubleArray(name string, visibility Visibility) *Builder {
	b.elements = append(b.elements, Element{Name: name, Type: ValueTypeDoubleArray, Visibility: visibility})
	return b
}

// Build validates the accumulated declarations and freezes them into a
// Schema. Validation failures are configuration errors and must surface
// before any superstep runs.
func (b *Builder) Build() (*Schema, error) {
	index := make(map[string]int, len(b.elements))
	for i, el := range b.elements {
		if el.Name == "" {
			return nil, ErrEmptyPropertyName
		}
		if _, ok := index[el.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePropertyName, el.Name)
		}
		index[el.Name] = i
	}

	elements := make([]Element, len(b.elements))
	copy(elements, b.elements)

	return &Schema{elements: elements, index: index}, nil
}

// MustBuild is a Build that panics on invalid declarations. Intended for
// algorithm packages whose schemas are static.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// Elements returns the declarations in declaration order. Callers must not
// mutate the returned slice.
func (s *Schema) Elements() []Element {
	return s.elements
}

// Element resolves a property by name.
func (s *Schema) Element(name string) (Element, error) {
	i, ok := s.index[name]
	if !ok {
		return Element{}, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
	return s.elements[i], nil
}

// Has reports whether a property with the given name is declared.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Len returns the number of declared properties.
func (s *Schema) Len() int {
	return len(s.elements)
}
