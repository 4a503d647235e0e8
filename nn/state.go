// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/einorm/internal/nn"
	"github.com/born-ml/einorm/internal/serialization"
	"github.com/born-ml/einorm/internal/tensor"
)

// Storage selects the element type of saved parameters.
type Storage = serialization.Storage

// Storage formats.
const (
	StorageNative = serialization.StorageNative // float32 as is
	StorageF16    = serialization.StorageF16    // IEEE half precision
)

// StateDict returns the parameters of m keyed by name, sharing their memory.
func StateDict[B tensor.Backend](m Module[B]) map[string]*tensor.RawTensor {
	return nn.StateDict(m)
}

// LoadStateDict copies state into the parameters of m.
// Names, shapes and dtypes must match exactly.
func LoadStateDict[B tensor.Backend](m Module[B], state map[string]*tensor.RawTensor) error {
	return nn.LoadStateDict(m, state)
}

// SaveSafeTensors writes the parameters of m to a SafeTensors file.
func SaveSafeTensors[B tensor.Backend](path string, m Module[B], metadata map[string]string, storage Storage) error {
	return nn.SaveSafeTensors(path, m, metadata, storage)
}

// LoadSafeTensors reads a SafeTensors file into the parameters of m.
func LoadSafeTensors[B tensor.Backend](path string, m Module[B]) (map[string]string, error) {
	return nn.LoadSafeTensors(path, m)
}
