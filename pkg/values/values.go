// Package values implements the columnar per-node property store backing a
// run. Each schema element maps to one flat column indexed by node id.
//
// The store is shared by every worker within a superstep without locking.
// This is safe because the engine assigns each node id to exactly one worker
// per superstep (partitions are disjoint) and a superstep barrier orders all
// writes before the reads of the next superstep. Concurrent writes to the
// same node id would be a bug in the partitioner, not in this package.
package values

import (
	"errors"
	"fmt"

	"github.com/vertigograph/vertigo/pkg/schema"
)

var (
	ErrNodeOutOfRange = errors.New("node id out of range")
	ErrTypeMismatch   = errors.New("property type mismatch")
	ErrPrivateAccess  = errors.New("property is not externally readable")
)

// NodeValues owns one column per schema element for a fixed node count.
type NodeValues struct {
	schema    *schema.Schema
	nodeCount uint64

	longs        map[string][]int64
	doubles      map[string][]float64
	longArrays   map[string][][]int64
	doubleArrays map[string][][]float64
}

// New allocates the columns declared by the schema, filling scalar columns
// with their declared defaults.
func New(s *schema.Schema, nodeCount uint64) *NodeValues {
	nv := &NodeValues{
		schema:       s,
		nodeCount:    nodeCount,
		longs:        make(map[string][]int64),
		doubles:      make(map[string][]float64),
		longArrays:   make(map[string][][]int64),
		doubleArrays: make(map[string][][]float64),
	}

	for _, el := range s.Elements() {
		switch el.Type {
		case schema.ValueTypeLong:
			col := make([]int64, nodeCount)
			if el.DefaultLong != 0 {
				for i := range col {
					col[i] = el.DefaultLong
				}
			}
			nv.longs[el.Name] = col
		case schema.ValueTypeDouble:
			col := make([]float64, nodeCount)
			if el.DefaultDouble != 0 {
				for i := range col {
					col[i] = el.DefaultDouble
				}
			}
			nv.doubles[el.Name] = col
		case schema.ValueTypeLongArray:
			nv.longArrays[el.Name] = make([][]int64, nodeCount)
		case schema.ValueTypeDoubleArray:
			nv.doubleArrays[el.Name] = make([][]float64, nodeCount)
		}
	}

	return nv
}

// Schema returns the schema the store was created from.
func (nv *NodeValues) Schema() *schema.Schema {
	return nv.schema
}

// NodeCount returns the number of rows in every column.
func (nv *NodeValues) NodeCount() uint64 {
	return nv.nodeCount
}

func (nv *NodeValues) checkNode(node uint64) error {
	if node >= nv.nodeCount {
		return fmt.Errorf("%w: %d (node count %d)", ErrNodeOutOfRange, node, nv.nodeCount)
	}
	return nil
}

func (nv *NodeValues) typeError(name string, want schema.ValueType) error {
	el, err := nv.schema.Element(name)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: property %q is %s, accessed as %s", ErrTypeMismatch, name, el.Type, want)
}

// Long reads a scalar long property.
func (nv *NodeValues) Long(name string, node uint64) (int64, error) {
	if err := nv.checkNode(node); err != nil {
		return 0, err
	}
	col, ok := nv.longs[name]
	if !ok {
		return 0, nv.typeError(name, schema.ValueTypeLong)
	}
	return col[node], nil
}

// SetLong writes a scalar long property.
func (nv *NodeValues) SetLong(name string, node uint64, value int64) error {
	if err := nv.checkNode(node); err != nil {
		return err
	}
	col, ok := nv.longs[name]
	if !ok {
		return nv.typeError(name, schema.ValueTypeLong)
	}
	col[node] = value
	return nil
}

// Double reads a scalar double property.
func (nv *NodeValues) Double(name string, node uint64) (float64, error) {
	if err := nv.checkNode(node); err != nil {
		return 0, err
	}
	col, ok := nv.doubles[name]
	if !ok {
		return 0, nv.typeError(name, schema.ValueTypeDouble)
	}
	return col[node], nil
}

// SetDouble writes a scalar double property.
func (nv *NodeValues) SetDouble(name string, node uint64, value float64) error {
	if err := nv.checkNode(node); err != nil {
		return err
	}
	col, ok := nv.doubles[name]
	if !ok {
		return nv.typeError(name, schema.ValueTypeDouble)
	}
	col[node] = value
	return nil
}

// LongArray reads an array property. The returned slice is the stored value;
// callers must treat it as read-only unless they own the node this superstep.
func (nv *NodeValues) LongArray(name string, node uint64) ([]int64, error) {
	if err := nv.checkNode(node); err != nil {
		return nil, err
	}
	col, ok := nv.longArrays[name]
	if !ok {
		return nil, nv.typeError(name, schema.ValueTypeLongArray)
	}
	return col[node], nil
}

// SetLongArray writes an array property. The store takes ownership of value.
func (nv *NodeValues) SetLongArray(name string, node uint64, value []int64) error {
	if err := nv.checkNode(node); err != nil {
		return err
	}
	col, ok := nv.longArrays[name]
	if !ok {
		return nv.typeError(name, schema.ValueTypeLongArray)
	}
	col[node] = value
	return nil
}

// DoubleArray reads an array property. See LongArray for ownership rules.
func (nv *NodeValues) DoubleArray(name string, node uint64) ([]float64, error) {
	if err := nv.checkNode(node); err != nil {
		return nil, err
	}
	col, ok := nv.doubleArrays[name]
	if !ok {
		return nil, nv.typeError(name, schema.ValueTypeDoubleArray)
	}
	return col[node], nil
}

// SetDoubleArray writes an array property. The store takes ownership of value.
func (nv *NodeValues) SetDoubleArray(name string, node uint64, value []float64) error {
	if err := nv.checkNode(node); err != nil {
		return err
	}
	col, ok := nv.doubleArrays[name]
	if !ok {
		return nv.typeError(name, schema.ValueTypeDoubleArray)
	}
	col[node] = value
	return nil
}

// Snapshot freezes the store into a read-only result view. The snapshot
// shares the underlying columns; it must only be taken after the final
// superstep barrier, when no worker can write anymore.
func (nv *NodeValues) Snapshot() *Snapshot {
	return &Snapshot{store: nv}
}

// Snapshot is the immutable per-node property view bundled into a run result.
// Read accessors enforce schema visibility: private properties are reachable
// only through the Internal variants.
type Snapshot struct {
	store *NodeValues
}

// Properties lists the externally readable schema elements.
func (s *Snapshot) Properties() []schema.Element {
	var public []schema.Element
	for _, el := range s.store.schema.Elements() {
		if el.Visibility == schema.VisibilityPublic {
			public = append(public, el)
		}
	}
	return public
}

// NodeCount returns the number of rows in every column.
func (s *Snapshot) NodeCount() uint64 {
	return s.store.nodeCount
}

func (s *Snapshot) checkPublic(name string) error {
	el, err := s.store.schema.Element(name)
	if err != nil {
		return err
	}
	if el.Visibility != schema.VisibilityPublic {
		return fmt.Errorf("%w: %q", ErrPrivateAccess, name)
	}
	return nil
}

func (s *Snapshot) Long(name string, node uint64) (int64, error) {
	if err := s.checkPublic(name); err != nil {
		return 0, err
	}
	return s.store.Long(name, node)
}

func (s *Snapshot) Double(name string, node uint64) (float64, error) {
	if err := s.checkPublic(name); err != nil {
		return 0, err
	}
	return s.store.Double(name, node)
}

func (s *Snapshot) LongArray(name string, node uint64) ([]int64, error) {
	if err := s.checkPublic(name); err != nil {
		return nil, err
	}
	return s.store.LongArray(name, node)
}

func (s *Snapshot) DoubleArray(name string, node uint64) ([]float64, error) {
	if err := s.checkPublic(name); err != nil {
		return nil, err
	}
	return s.store.DoubleArray(name, node)
}

// InternalLong bypasses the visibility check. Intended for diagnostics and
// tests that need to read private algorithm state after a run.
func (s *Snapshot) InternalLong(name string, node uint64) (int64, error) {
	return s.store.Long(name, node)
}

// InternalDouble bypasses the visibility check.
func (s *Snapshot) InternalDouble(name string, node uint64) (float64, error) {
	return s.store.Double(name, node)
}
