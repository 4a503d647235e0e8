package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/einorm/internal/backend/cpu"
	"github.com/born-ml/einorm/internal/tensor"
)

type cpuTensor = tensor.Tensor[float32, *cpu.CPUBackend]

// randn returns a reproducible standard normal tensor.
func randn(shape tensor.Shape, seed int64, backend *cpu.CPUBackend) *cpuTensor {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // test data
	return tensor.RandnFrom[float32](shape, rng.Float64, backend)
}

// fillRandom overwrites every element of t with uniform values in [lo, hi).
func fillRandom(t *cpuTensor, lo, hi float32, seed int64) {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // test data
	data := t.Data()
	for i := range data {
		data[i] = lo + (hi-lo)*rng.Float32()
	}
}

func fromSlice(t *testing.T, data []float32, shape tensor.Shape, backend *cpu.CPUBackend) *cpuTensor {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, backend)
	require.NoError(t, err)
	return x
}

// meanVariance returns the population mean and variance of data.
func meanVariance(data []float32) (mean, variance float64) {
	xs := make([]float64, len(data))
	for i, v := range data {
		xs[i] = float64(v)
	}
	return stat.PopMeanVariance(xs, nil)
}
