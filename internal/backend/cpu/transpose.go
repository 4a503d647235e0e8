package cpu

import (
	"github.com/born-ml/einorm/internal/parallel"
	"github.com/born-ml/einorm/internal/tensor"
)

// transposeData gathers src into dst, where dst has shape outShape = srcShape permuted by axes.
// Work is split by output rows (all dimensions but the last).
func transposeData[T float32 | float64](dst, src []T, srcShape, outShape tensor.Shape, axes []int, cfg parallel.Config) {
	ndim := len(axes)
	if ndim == 0 {
		dst[0] = src[0]
		return
	}

	// Source stride for each output dimension.
	srcStrides := srcShape.ComputeStrides()
	permStrides := make([]int, ndim)
	for i, ax := range axes {
		permStrides[i] = srcStrides[ax]
	}

	inner := outShape[ndim-1]
	innerStride := permStrides[ndim-1]
	rows := len(dst) / inner

	parallel.For(rows, func(row int) {
		srcOff := 0
		rem := row
		for d := ndim - 2; d >= 0; d-- {
			srcOff += (rem % outShape[d]) * permStrides[d]
			rem /= outShape[d]
		}
		out := dst[row*inner : (row+1)*inner]
		for j := range out {
			out[j] = src[srcOff+j*innerStride]
		}
	}, cfg)
}
