// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the einorm operator and the normalization modules built around it.
//
// # Overview
//
// This package contains:
//   - Einorm: normalization over arbitrary named axes, optionally grouped
//   - LayerNorm: normalization over trailing dimensions
//   - Utilities: Sequential, Module interface, Parameter
//   - State: StateDict, LoadStateDict, SaveSafeTensors, LoadSafeTensors
//
// # Einorm
//
// An Einorm is described by three whitespace-separated axis lists:
//
//   - pattern: the name of every input dimension, in order ("batch seq head dim")
//   - target: the axes statistics are computed over ("dim")
//   - group (optional): axes whose indices get separate parameters ("head")
//
// All other pattern axes are batch axes. Sizes are required for target and group
// axes only:
//
//	backend := cpu.New()
//	norm, err := nn.NewEinorm("batch seq head dim", "dim", backend,
//	    nn.WithGroup("head"),
//	    nn.WithAxisSizes(map[string]int{"head": 8, "dim": 64}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	y := norm.Forward(x) // same shape as x
//
// Weight and bias have shape group sizes ++ target sizes ([8, 64] above) and start
// at ones and zeros.
//
// # Errors
//
// Invalid axis specifications are reported by NewEinorm. Every such error matches
// ErrEinorm with errors.Is; errors.As with *AxisError gives the failed check.
// Shape mismatches at Forward time panic in the backend.
//
// # Saving
//
//	err := nn.SaveSafeTensors("einorm.safetensors", norm, nil, nn.StorageF16)
//	_, err = nn.LoadSafeTensors("einorm.safetensors", norm)
package nn
