package nn

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/einorm/internal/backend/cpu"
	"github.com/born-ml/einorm/internal/parallel"
	"github.com/born-ml/einorm/internal/tensor"
)

var forcedParallel = parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}

// affine computes x*w[0] + b[0] for blocks whose parameters hold a single scalar.
func affine(x, w, b *cpuTensor) *cpuTensor {
	y := tensor.Zeros[float32](x.Shape(), x.Backend())
	shift := float32(0)
	if b != nil {
		shift = b.Data()[0]
	}
	out := y.Data()
	for i, v := range x.Data() {
		out[i] = v*w.Data()[0] + shift
	}
	return y
}

func TestBatchedMap_Blocks(t *testing.T) {
	backend := cpu.New()
	for _, cfg := range []parallel.Config{parallel.Sequential(), forcedParallel} {
		x := randn(tensor.Shape{2, 3, 4}, 7, backend)
		weight := tensor.Zeros[float32](tensor.Shape{2, 3, 1}, backend)
		bias := tensor.Zeros[float32](tensor.Shape{2, 3, 1}, backend)
		for i := 0; i < 6; i++ {
			weight.Data()[i] = float32(i)
			bias.Data()[i] = float32(10 * i)
		}

		out := BatchedMap[*cpu.CPUBackend](affine, 2, cfg)(x, weight, bias)
		require.Equal(t, x.Shape(), out.Shape())
		for i := 0; i < 2; i++ {
			for j := 0; j < 3; j++ {
				g := float32(i*3 + j)
				for k := 0; k < 4; k++ {
					assert.Equal(t, x.At(i, j, k)*g+10*g, out.At(i, j, k))
				}
			}
		}
	}
}

func TestBatchedMap_NilBias(t *testing.T) {
	backend := cpu.New()
	x := tensor.Ones[float32](tensor.Shape{3, 2}, backend)
	weight := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{3, 1}, backend)

	out := BatchedMap[*cpu.CPUBackend](affine, 1, parallel.Sequential())(x, weight, nil)
	assert.Equal(t, []float32{1, 1, 2, 2, 3, 3}, out.Data())
}

func TestBatchedMap_ShapeErrors(t *testing.T) {
	backend := cpu.New()
	x := tensor.Ones[float32](tensor.Shape{2, 3, 4}, backend)

	t.Run("leading mismatch", func(t *testing.T) {
		weight := tensor.Ones[float32](tensor.Shape{3, 2, 1}, backend)
		err := exceptions.TryCatch[error](func() {
			BatchedMap[*cpu.CPUBackend](affine, 2, parallel.Sequential())(x, weight, nil)
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batched map")
	})

	t.Run("input rank", func(t *testing.T) {
		weight := tensor.Ones[float32](tensor.Shape{2, 3, 4, 1}, backend)
		err := exceptions.TryCatch[error](func() {
			BatchedMap[*cpu.CPUBackend](affine, 4, parallel.Sequential())(x, weight, nil)
		})
		require.Error(t, err)
	})

	t.Run("result shape", func(t *testing.T) {
		weight := tensor.Ones[float32](tensor.Shape{2, 3, 1}, backend)
		shrink := func(x, _, _ *cpuTensor) *cpuTensor {
			return tensor.Zeros[float32](tensor.Shape{1}, x.Backend())
		}
		err := exceptions.TryCatch[error](func() {
			BatchedMap[*cpu.CPUBackend](shrink, 2, parallel.Sequential())(x, weight, nil)
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "returned shape")
	})
}

func TestBatchedMap_PanicPassesThrough(t *testing.T) {
	backend := cpu.New()
	x := tensor.Ones[float32](tensor.Shape{8, 2}, backend)
	weight := tensor.Ones[float32](tensor.Shape{8, 2}, backend)
	boom := func(_, _, _ *cpuTensor) *cpuTensor {
		panic("boom")
	}
	assert.PanicsWithValue(t, "boom", func() {
		BatchedMap[*cpu.CPUBackend](boom, 1, forcedParallel)(x, weight, nil)
	})
}

func TestNewNormalizeFn_NoGroup(t *testing.T) {
	backend := cpu.New()
	x := randn(tensor.Shape{4, 3, 5}, 3, backend)
	weight := tensor.Ones[float32](tensor.Shape{3, 5}, backend)
	bias := tensor.Zeros[float32](tensor.Shape{3, 5}, backend)
	fillRandom(weight, 0.5, 2, 4)
	fillRandom(bias, -1, 1, 5)

	got := NewNormalizeFn[*cpu.CPUBackend](tensor.Shape{3, 5}, nil, 1e-5, parallel.Sequential())(x, weight, bias)
	want := x.LayerNorm(tensor.Shape{3, 5}, weight, bias, 1e-5)
	assert.Equal(t, want.Data(), got.Data())
}

func TestNewNormalizeFn_GroupSlicesIndependent(t *testing.T) {
	backend := cpu.New()
	x := randn(tensor.Shape{3, 2, 4}, 11, backend)
	weight := tensor.Ones[float32](tensor.Shape{3, 4}, backend)
	bias := tensor.Zeros[float32](tensor.Shape{3, 4}, backend)
	fillRandom(weight, 0.5, 2, 12)
	fillRandom(bias, -1, 1, 13)

	got := NewNormalizeFn[*cpu.CPUBackend](tensor.Shape{4}, tensor.Shape{3}, 1e-5, forcedParallel)(x, weight, bias)
	require.Equal(t, x.Shape(), got.Shape())
	for g := 0; g < 3; g++ {
		want := x.Block(1, g).LayerNorm(tensor.Shape{4}, weight.Block(1, g), bias.Block(1, g), 1e-5)
		assert.Equal(t, want.Data(), got.Block(1, g).Data(), "group %d", g)
	}
}

// One group axis of size 6 and two of sizes (2, 3) over the same memory must agree.
func TestNewNormalizeFn_MultiAxisGroup(t *testing.T) {
	backend := cpu.New()
	x := randn(tensor.Shape{6, 4, 5}, 21, backend)
	weight := tensor.Ones[float32](tensor.Shape{6, 5}, backend)
	bias := tensor.Zeros[float32](tensor.Shape{6, 5}, backend)
	fillRandom(weight, 0.5, 2, 22)
	fillRandom(bias, -1, 1, 23)

	single := NewNormalizeFn[*cpu.CPUBackend](tensor.Shape{5}, tensor.Shape{6}, 1e-5, forcedParallel)(x, weight, bias)

	x2 := fromSlice(t, x.Data(), tensor.Shape{2, 3, 4, 5}, backend)
	w2 := fromSlice(t, weight.Data(), tensor.Shape{2, 3, 5}, backend)
	b2 := fromSlice(t, bias.Data(), tensor.Shape{2, 3, 5}, backend)
	multi := NewNormalizeFn[*cpu.CPUBackend](tensor.Shape{5}, tensor.Shape{2, 3}, 1e-5, forcedParallel)(x2, w2, b2)

	assert.Equal(t, tensor.Shape{2, 3, 4, 5}, multi.Shape())
	assert.Equal(t, single.Data(), multi.Data())
}
