// Package axes parses named-axis expressions and derives the axis permutation
// and parameter shape of an einorm operator.
//
// An expression is a whitespace separated list of axis names, e.g. "batch seq dim".
// Three expressions describe an operator:
//   - pattern: the axis order of the input tensor.
//   - target: the axes normalization statistics are computed over.
//   - group (optional): the axes with independent statistics and parameters per index.
//
// Pattern axes that are neither target nor group are batch axes.
package axes

import (
	"slices"
	"strings"
)

// Spec is a validated set of pattern, target and group axis lists.
type Spec struct {
	Pattern List
	Target  List
	Group   List // empty when the operator has no group
}

// HasGroup reports whether group axes were supplied.
func (s *Spec) HasGroup() bool {
	return s.Group.Len() > 0
}

// Batch returns the pattern axes that are neither target nor group, in pattern order.
func (s *Spec) Batch() []string {
	var batch []string
	for _, name := range s.Pattern.Names() {
		if !s.Target.Has(name) && !s.Group.Has(name) {
			batch = append(batch, name)
		}
	}
	return batch
}

// Parse splits and validates the pattern, target and group expressions.
//
// group is nil when no group was given. A non-nil group must name at least one axis.
//
// Checks run in this order and the first failure is returned:
//  1. pattern is not empty (EmptyPattern)
//  2. target is not empty (EmptyTarget)
//  3. a given group is not empty (EmptyGroup)
//  4. no expression repeats an axis (DuplicateAxis)
//  5. every target axis is in pattern (UnknownAxis)
//  6. every group axis is in pattern (UnknownAxis)
//  7. target and group share no axis (AxisCollision)
func Parse(pattern, target string, group *string) (*Spec, error) {
	patternNames := strings.Fields(pattern)
	targetNames := strings.Fields(target)
	var groupNames []string
	if group != nil {
		groupNames = strings.Fields(*group)
	}

	if len(patternNames) == 0 {
		return nil, newError(EmptyPattern, "pattern")
	}
	if len(targetNames) == 0 {
		return nil, newError(EmptyTarget, "target")
	}
	if group != nil && len(groupNames) == 0 {
		return nil, newError(EmptyGroup, "group")
	}

	spec := &Spec{}
	for _, expr := range []struct {
		name  string
		names []string
		list  *List
	}{
		{"pattern", patternNames, &spec.Pattern},
		{"target", targetNames, &spec.Target},
		{"group", groupNames, &spec.Group},
	} {
		list, dups := newList(expr.names)
		if len(dups) > 0 {
			return nil, newError(DuplicateAxis, expr.name, dups...)
		}
		*expr.list = list
	}

	if unknown := spec.Pattern.Missing(spec.Target); len(unknown) > 0 {
		return nil, newError(UnknownAxis, "target", unknown...)
	}
	if unknown := spec.Pattern.Missing(spec.Group); len(unknown) > 0 {
		return nil, newError(UnknownAxis, "group", unknown...)
	}
	if shared := spec.Group.Shared(spec.Target); len(shared) > 0 {
		return nil, newError(AxisCollision, "", shared...)
	}
	return spec, nil
}

// UnusedSizes returns the keys of sizes that name neither a target nor a group axis, in
// sorted order. Such sizes are accepted and ignored.
func (s *Spec) UnusedSizes(sizes map[string]int) []string {
	var unused []string
	for name := range sizes {
		if !s.Target.Has(name) && !s.Group.Has(name) {
			unused = append(unused, name)
		}
	}
	slices.Sort(unused)
	return unused
}
