package nn

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/born-ml/einorm/internal/serialization"
	"github.com/born-ml/einorm/internal/tensor"
)

// StateDict returns the parameters of m keyed by name.
//
// The tensors are shared with the module, not copied.
func StateDict[B tensor.Backend](m Module[B]) map[string]*tensor.RawTensor {
	params := m.Parameters()
	state := make(map[string]*tensor.RawTensor, len(params))
	for _, p := range params {
		state[p.Name()] = p.Tensor().Raw()
	}
	return state
}

// LoadStateDict copies the values in state into the parameters of m.
//
// state must hold exactly one float32 tensor per parameter, with the parameter's
// shape. Nothing is modified when any check fails.
func LoadStateDict[B tensor.Backend](m Module[B], state map[string]*tensor.RawTensor) error {
	params := m.Parameters()
	known := make(map[string]bool, len(params))
	for _, p := range params {
		known[p.Name()] = true
		raw, ok := state[p.Name()]
		if !ok || raw == nil {
			return errors.Errorf("load state dict: missing parameter %q", p.Name())
		}
		if raw.DType() != tensor.Float32 {
			return errors.Errorf("load state dict: parameter %q: expected dtype float32, got %s", p.Name(), raw.DType())
		}
		if !raw.Shape().Equal(p.Shape()) {
			return errors.Errorf("load state dict: parameter %q: expected shape %v, got %v", p.Name(), p.Shape(), raw.Shape())
		}
	}

	var unexpected []string
	for name := range state {
		if !known[name] {
			unexpected = append(unexpected, name)
		}
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		return errors.Errorf("load state dict: unexpected parameters %v", unexpected)
	}

	for _, p := range params {
		copy(p.Tensor().Raw().Data(), state[p.Name()].Data())
	}
	return nil
}

// SaveSafeTensors writes the parameters of m to a SafeTensors file.
func SaveSafeTensors[B tensor.Backend](path string, m Module[B], metadata map[string]string, storage serialization.Storage) error {
	if err := serialization.SaveFile(path, StateDict(m), metadata, storage); err != nil {
		return errors.WithMessage(err, "save safetensors")
	}
	return nil
}

// LoadSafeTensors reads a SafeTensors file into the parameters of m and returns
// the file's metadata.
func LoadSafeTensors[B tensor.Backend](path string, m Module[B]) (map[string]string, error) {
	var device tensor.Device
	if params := m.Parameters(); len(params) > 0 {
		device = params[0].Tensor().Device()
	}
	state, metadata, err := serialization.LoadFile(path, device)
	if err != nil {
		return nil, errors.WithMessage(err, "load safetensors")
	}
	if err := LoadStateDict(m, state); err != nil {
		return nil, err
	}
	return metadata, nil
}
