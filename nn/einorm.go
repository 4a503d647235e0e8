// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/einorm/internal/axes"
	"github.com/born-ml/einorm/internal/nn"
	"github.com/born-ml/einorm/internal/parallel"
	"github.com/born-ml/einorm/internal/tensor"
)

// Einorm normalizes a tensor over an arbitrary set of named axes.
type Einorm[B tensor.Backend] = nn.Einorm[B]

// EinormOption configures NewEinorm.
type EinormOption = nn.EinormOption

// DefaultEpsilon is the variance stabilizer used when WithEpsilon is not given.
const DefaultEpsilon = nn.DefaultEpsilon

// NewEinorm creates an Einorm over pattern normalizing target.
//
// Example:
//
//	norm, err := nn.NewEinorm("a b c", "b", backend, nn.WithAxisSize("b", 100))
func NewEinorm[B tensor.Backend](pattern, target string, backend B, opts ...EinormOption) (*Einorm[B], error) {
	return nn.NewEinorm(pattern, target, backend, opts...)
}

// WithGroup sets the group expression.
func WithGroup(expr string) EinormOption { return nn.WithGroup(expr) }

// WithBias enables or disables the learnable shift (enabled by default).
func WithBias(enabled bool) EinormOption { return nn.WithBias(enabled) }

// WithEpsilon sets the variance stabilizer.
func WithEpsilon(eps float32) EinormOption { return nn.WithEpsilon(eps) }

// WithAxisSize declares the size of one axis.
func WithAxisSize(name string, size int) EinormOption { return nn.WithAxisSize(name, size) }

// WithAxisSizes declares the sizes of several axes.
func WithAxisSizes(sizes map[string]int) EinormOption { return nn.WithAxisSizes(sizes) }

// WithParallel sets how group slices are spread over goroutines.
func WithParallel(cfg parallel.Config) EinormOption { return nn.WithParallel(cfg) }

// NormalizeFn normalizes x using weight and (possibly nil) bias.
type NormalizeFn[B tensor.Backend] = nn.NormalizeFn[B]

// NewNormalizeFn builds the layer norm over targetShape, mapped over the leading
// groupShape dimensions when groupShape is not empty.
func NewNormalizeFn[B tensor.Backend](targetShape, groupShape tensor.Shape, eps float32, cfg parallel.Config) NormalizeFn[B] {
	return nn.NewNormalizeFn[B](targetShape, groupShape, eps, cfg)
}

// BatchedMap lifts fn to run independently over the leading lead dimensions of its arguments.
func BatchedMap[B tensor.Backend](fn NormalizeFn[B], lead int, cfg parallel.Config) NormalizeFn[B] {
	return nn.BatchedMap(fn, lead, cfg)
}

// AxisError describes an invalid pattern, target, group or axis size.
type AxisError = axes.Error

// AxisErrorKind identifies which check an AxisError failed.
type AxisErrorKind = axes.Kind

// ErrEinorm matches every AxisError with errors.Is.
var ErrEinorm = axes.ErrEinorm

// Axis error kinds.
const (
	EmptyPattern    = axes.EmptyPattern
	EmptyTarget     = axes.EmptyTarget
	EmptyGroup      = axes.EmptyGroup
	DuplicateAxis   = axes.DuplicateAxis
	UnknownAxis     = axes.UnknownAxis
	AxisCollision   = axes.AxisCollision
	MissingAxisSize = axes.MissingAxisSize
	InvalidAxisSize = axes.InvalidAxisSize
)
