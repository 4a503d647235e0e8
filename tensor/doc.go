// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor API of the einorm module.
//
// # Overview
//
// The package exposes:
//   - Tensor[T, B]: generic tensor over a float element type and a compute backend
//   - RawTensor: untyped byte-buffer representation with shape and dtype
//   - Backend: the operations a backend provides to einorm (transpose, layer norm)
//   - Shape, DataType, Device: core type definitions
//
// # Basic Usage
//
//	backend := cpu.New()
//	x := tensor.Randn[float32](tensor.Shape{1, 100, 4}, backend)
//	y := x.Transpose(0, 2, 1)                       // [1, 4, 100]
//	z := y.LayerNorm(tensor.Shape{100}, nil, nil, 1e-5) // normalized over the last dim
//
// # Views
//
// Block returns a zero-copy view of one block over the leading dimensions of a
// tensor. Writes through the view are visible in the parent:
//
//	w := tensor.Ones[float32](tensor.Shape{3, 5}, backend)
//	row := w.Block(1, 2) // Shape{5}, the third row
package tensor
