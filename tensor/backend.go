// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/einorm/internal/tensor"

// Backend defines the interface that compute backends implement for einorm.
//
// Implementations:
//   - backend/cpu: Pure Go, rows processed in parallel
//
// Backends report invalid input (mismatched shapes, bad permutations) by panicking.
type Backend interface {
	// Transpose permutes dimensions; with no axes it reverses them.
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// LayerNorm normalizes over the trailing len(normalizedShape) dimensions and
	// applies the optional elementwise weight and bias of shape normalizedShape.
	LayerNorm(x, weight, bias *RawTensor, normalizedShape Shape, eps float32) *RawTensor

	// Metadata.
	Name() string   // Backend name (e.g., "CPU").
	Device() Device // Device type.
}

// Compile-time check that internal Backend implements public Backend.
var _ Backend = tensor.Backend(nil)
