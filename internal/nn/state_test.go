package nn

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/einorm/internal/backend/cpu"
	"github.com/born-ml/einorm/internal/serialization"
	"github.com/born-ml/einorm/internal/tensor"
)

func newGroupedEinorm(t *testing.T, opts ...EinormOption) *Einorm[*cpu.CPUBackend] {
	t.Helper()
	opts = append([]EinormOption{WithGroup("g"), WithAxisSizes(map[string]int{"g": 2, "c": 3})}, opts...)
	norm, err := NewEinorm("n g c", "c", cpu.New(), opts...)
	require.NoError(t, err)
	return norm
}

func TestStateDict(t *testing.T) {
	norm := newGroupedEinorm(t)
	state := StateDict[*cpu.CPUBackend](norm)

	require.Len(t, state, 2)
	assert.Equal(t, tensor.Shape{2, 3}, state["weight"].Shape())
	assert.Equal(t, tensor.Shape{2, 3}, state["bias"].Shape())

	// Shared with the module.
	norm.Weight.Tensor().Data()[0] = 5
	assert.Equal(t, float32(5), state["weight"].AsFloat32()[0])
}

func TestLoadStateDict(t *testing.T) {
	src := newGroupedEinorm(t)
	fillRandom(src.Weight.Tensor(), 0.5, 2, 1)
	fillRandom(src.Bias.Tensor(), -1, 1, 2)

	dst := newGroupedEinorm(t)
	require.NoError(t, LoadStateDict[*cpu.CPUBackend](dst, StateDict[*cpu.CPUBackend](src)))
	assert.Equal(t, src.Weight.Tensor().Data(), dst.Weight.Tensor().Data())
	assert.Equal(t, src.Bias.Tensor().Data(), dst.Bias.Tensor().Data())

	// Copied, not shared.
	src.Weight.Tensor().Data()[0] = 42
	assert.NotEqual(t, float32(42), dst.Weight.Tensor().Data()[0])
}

func TestLoadStateDict_Errors(t *testing.T) {
	raw := func(shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
		r, err := tensor.NewRaw(shape, dtype, tensor.CPU)
		require.NoError(t, err)
		return r
	}
	good := func() map[string]*tensor.RawTensor {
		w := raw(tensor.Shape{2, 3}, tensor.Float32)
		copy(w.AsFloat32(), []float32{9, 9, 9, 9, 9, 9})
		return map[string]*tensor.RawTensor{"weight": w, "bias": raw(tensor.Shape{2, 3}, tensor.Float32)}
	}

	tests := []struct {
		name   string
		mutate func(map[string]*tensor.RawTensor)
		msg    string
	}{
		{"missing", func(s map[string]*tensor.RawTensor) { delete(s, "bias") }, "missing parameter"},
		{"shape", func(s map[string]*tensor.RawTensor) { s["bias"] = raw(tensor.Shape{3, 2}, tensor.Float32) }, "expected shape"},
		{"dtype", func(s map[string]*tensor.RawTensor) { s["bias"] = raw(tensor.Shape{2, 3}, tensor.Float64) }, "expected dtype"},
		{"unexpected", func(s map[string]*tensor.RawTensor) { s["running_mean"] = raw(tensor.Shape{3}, tensor.Float32) }, "unexpected parameters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			norm := newGroupedEinorm(t)
			state := good()
			tt.mutate(state)

			err := LoadStateDict[*cpu.CPUBackend](norm, state)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			// Nothing was loaded.
			assert.Equal(t, []float32{1, 1, 1, 1, 1, 1}, norm.Weight.Tensor().Data())
		})
	}
}

func TestSafeTensors_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := newGroupedEinorm(t)
	fillRandom(src.Weight.Tensor(), 0.5, 2, 3)
	fillRandom(src.Bias.Tensor(), -1, 1, 4)

	t.Run("f32", func(t *testing.T) {
		path := filepath.Join(dir, "einorm.safetensors")
		require.NoError(t, SaveSafeTensors[*cpu.CPUBackend](path, src, map[string]string{"pattern": src.Pattern()}, serialization.StorageNative))

		dst := newGroupedEinorm(t)
		metadata, err := LoadSafeTensors[*cpu.CPUBackend](path, dst)
		require.NoError(t, err)
		assert.Equal(t, "n g c", metadata["pattern"])
		assert.Equal(t, src.Weight.Tensor().Data(), dst.Weight.Tensor().Data())
		assert.Equal(t, src.Bias.Tensor().Data(), dst.Bias.Tensor().Data())
	})

	t.Run("f16", func(t *testing.T) {
		path := filepath.Join(dir, "einorm_f16.safetensors")
		require.NoError(t, SaveSafeTensors[*cpu.CPUBackend](path, src, nil, serialization.StorageF16))

		dst := newGroupedEinorm(t)
		_, err := LoadSafeTensors[*cpu.CPUBackend](path, dst)
		require.NoError(t, err)
		assert.InDeltaSlice(t, src.Weight.Tensor().Data(), dst.Weight.Tensor().Data(), 2e-3)
		assert.InDeltaSlice(t, src.Bias.Tensor().Data(), dst.Bias.Tensor().Data(), 1e-3)
	})

	t.Run("bias mismatch", func(t *testing.T) {
		path := filepath.Join(dir, "einorm.safetensors")
		dst := newGroupedEinorm(t, WithBias(false))
		_, err := LoadSafeTensors[*cpu.CPUBackend](path, dst)
		require.Error(t, err)
	})
}

func TestSequential_StateDict(t *testing.T) {
	backend := cpu.New()
	byChannel, err := NewEinorm("b c h w", "c", backend, WithAxisSize("c", 4))
	require.NoError(t, err)
	bySpace, err := NewEinorm("b c h w", "h w", backend, WithAxisSizes(map[string]int{"h": 2, "w": 3}), WithBias(false))
	require.NoError(t, err)

	model := NewSequential[*cpu.CPUBackend](byChannel, bySpace)
	assert.Equal(t, 2, model.Len())

	state := StateDict[*cpu.CPUBackend](model)
	assert.ElementsMatch(t, []string{"0.weight", "0.bias", "1.weight"}, keys(state))

	fresh := NewSequential[*cpu.CPUBackend]()
	c2, err := NewEinorm("b c h w", "c", backend, WithAxisSize("c", 4))
	require.NoError(t, err)
	s2, err := NewEinorm("b c h w", "h w", backend, WithAxisSizes(map[string]int{"h": 2, "w": 3}), WithBias(false))
	require.NoError(t, err)
	fresh.Add(c2)
	fresh.Add(s2)

	byChannel.Weight.Tensor().Data()[1] = 3
	require.NoError(t, LoadStateDict[*cpu.CPUBackend](fresh, state))
	assert.Equal(t, float32(3), c2.Weight.Tensor().Data()[1])

	x := randn(tensor.Shape{2, 4, 2, 3}, 9, backend)
	assert.Equal(t, model.Forward(x).Data(), fresh.Forward(x).Data())
	assert.Panics(t, func() { model.Module(2) })
}

func keys(m map[string]*tensor.RawTensor) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
