package tensor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

// metaBackend only reports metadata; tensor construction never calls its kernels.
type metaBackend struct{}

func (metaBackend) Transpose(*RawTensor, ...int) *RawTensor { panic("not implemented") }
func (metaBackend) LayerNorm(_, _, _ *RawTensor, _ Shape, _ float32) *RawTensor {
	panic("not implemented")
}
func (metaBackend) Name() string   { return "meta" }
func (metaBackend) Device() Device { return CPU }

func TestFromSlice(t *testing.T) {
	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, metaBackend{})
	require.NoError(t, err)
	assert.Equal(t, Float32, x.DType())
	assert.Equal(t, float32(6), x.At(1, 2))

	x.Set(9, 0, 1)
	assert.Equal(t, []float32{1, 9, 3, 4, 5, 6}, x.Data())

	_, err = FromSlice([]float32{1, 2, 3}, Shape{2, 2}, metaBackend{})
	assert.Error(t, err)

	assert.Panics(t, func() { x.At(2, 0) })
	assert.Panics(t, func() { x.At(0) })
}

func TestCreation(t *testing.T) {
	z := Zeros[float64](Shape{2, 2}, metaBackend{})
	assert.Equal(t, Float64, z.DType())
	assert.Equal(t, []float64{0, 0, 0, 0}, z.Data())

	assert.Equal(t, []float32{1, 1, 1}, Ones[float32](Shape{3}, metaBackend{}).Data())
	assert.Equal(t, []float32{2.5, 2.5}, Full[float32](Shape{2}, 2.5, metaBackend{}).Data())
}

func TestRandnFrom(t *testing.T) {
	rng := rand.New(rand.NewSource(3)) //nolint:gosec // test data
	x := RandnFrom[float64](Shape{20001}, rng.Float64, metaBackend{})

	mean, variance := stat.PopMeanVariance(x.Data(), nil)
	assert.InDelta(t, 0, mean, 0.05)
	assert.InDelta(t, 1, variance, 0.05)
}

func TestTensorBlockAndClone(t *testing.T) {
	x, err := FromSlice([]float32{0, 1, 2, 3, 4, 5}, Shape{3, 2}, metaBackend{})
	require.NoError(t, err)

	row := x.Block(1, 1)
	assert.Equal(t, Shape{2}, row.Shape())
	assert.Equal(t, []float32{2, 3}, row.Data())
	row.Data()[0] = 20
	assert.Equal(t, float32(20), x.At(1, 0))

	c := x.Clone()
	c.Data()[0] = -1
	assert.Equal(t, float32(0), x.At(0, 0))
	assert.Contains(t, x.String(), "float32")
}
