package axes

import (
	"math"

	"github.com/pkg/errors"
)

// Permutation maps the input axis order of a Spec to the canonical
// (group, batch, target) order and back, and carries the parameter shape.
//
// Forward[i] is the input axis placed at canonical position i, so
// x.Transpose(Forward...) has canonical layout. Inverse undoes it:
// Inverse[Forward[i]] == i for all i.
type Permutation struct {
	Forward  []int
	Inverse  []int
	Identity bool // Forward is [0, 1, ..., n-1]

	GroupShape  []int // sizes of the group axes, in group order
	TargetShape []int // sizes of the target axes, in target order
}

// NewPermutation derives the permutation and parameter shapes of a parsed pattern.
//
// sizes must hold a positive size for every group and target axis; other entries
// are ignored. Group sizes are checked before target sizes, each in expression order.
func NewPermutation(spec *Spec, sizes map[string]int) (*Permutation, error) {
	if spec == nil {
		return nil, errors.New("einorm: nil spec")
	}

	groupShape, err := lookupSizes(spec.Group, sizes)
	if err != nil {
		return nil, err
	}
	targetShape, err := lookupSizes(spec.Target, sizes)
	if err != nil {
		return nil, err
	}
	if err := checkParameterSize(spec, groupShape, targetShape); err != nil {
		return nil, err
	}

	n := spec.Pattern.Len()
	forward := make([]int, 0, n)
	for _, name := range spec.Group.Names() {
		idx, _ := spec.Pattern.Index(name)
		forward = append(forward, idx)
	}
	for _, name := range spec.Batch() {
		idx, _ := spec.Pattern.Index(name)
		forward = append(forward, idx)
	}
	for _, name := range spec.Target.Names() {
		idx, _ := spec.Pattern.Index(name)
		forward = append(forward, idx)
	}

	inverse := make([]int, n)
	identity := true
	for i, src := range forward {
		inverse[src] = i
		if src != i {
			identity = false
		}
	}

	return &Permutation{
		Forward:     forward,
		Inverse:     inverse,
		Identity:    identity,
		GroupShape:  groupShape,
		TargetShape: targetShape,
	}, nil
}

// ParameterShape returns the group shape followed by the target shape.
func (p *Permutation) ParameterShape() []int {
	shape := make([]int, 0, len(p.GroupShape)+len(p.TargetShape))
	shape = append(shape, p.GroupShape...)
	return append(shape, p.TargetShape...)
}

// Apply reorders seq so that element i of the result is seq[perm[i]].
// Applying Forward to the input's axis names yields the canonical axis names.
//
// Example:
//
//	Apply([]int{2, 0, 1}, []string{"a", "b", "c"}) // ["c", "a", "b"]
func Apply[E any](perm []int, seq []E) []E {
	if len(perm) != len(seq) {
		panic(errors.Errorf("axes.Apply: permutation of length %d applied to sequence of length %d", len(perm), len(seq)))
	}
	out := make([]E, len(seq))
	for i, src := range perm {
		out[i] = seq[src]
	}
	return out
}

// maxParameterElements keeps the parameter byte size representable for 8-byte elements.
const maxParameterElements = math.MaxInt64 / 8

// checkParameterSize reports the first axis whose size makes the parameter
// element count overflow.
func checkParameterSize(spec *Spec, groupShape, targetShape []int) error {
	names := append(spec.Group.Names(), spec.Target.Names()...)
	shape := append(append([]int(nil), groupShape...), targetShape...)
	n := int64(1)
	for i, size := range shape {
		if n > maxParameterElements/int64(size) {
			return errors.WithStack(&Error{Kind: InvalidAxisSize, Axes: []string{names[i]}, Size: size})
		}
		n *= int64(size)
	}
	return nil
}

func lookupSizes(list List, sizes map[string]int) ([]int, error) {
	shape := make([]int, 0, list.Len())
	for _, name := range list.Names() {
		size, found := sizes[name]
		if !found {
			return nil, newError(MissingAxisSize, "", name)
		}
		if size <= 0 {
			return nil, errors.WithStack(&Error{Kind: InvalidAxisSize, Axes: []string{name}, Size: size})
		}
		shape = append(shape, size)
	}
	return shape, nil
}
