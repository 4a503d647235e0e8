// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for the einorm operator.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Float32 and Float64 support
//   - Transpose by arbitrary permutation
//   - Layer normalization over trailing dimensions, float64 accumulation
//   - Row-parallel kernels (see parallel.Config)
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/einorm/backend/cpu"
//	    "github.com/born-ml/einorm/nn"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    norm, err := nn.NewEinorm("a b c", "b", backend, nn.WithAxisSize("b", 100))
//	    ...
//	}
package cpu
