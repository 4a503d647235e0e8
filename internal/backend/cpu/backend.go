// Package cpu implements the CPU backend: dimension permutation and the
// layer normalization primitive over trailing dimensions.
package cpu

import (
	"github.com/gomlx/exceptions"

	"github.com/born-ml/einorm/internal/parallel"
	"github.com/born-ml/einorm/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
// Row-wise kernels are spread over goroutines according to its parallel.Config.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// New creates a new CPU backend with parallel.DefaultConfig.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a new CPU backend with the given parallelism.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Parallel returns the backend's parallelism configuration.
func (cpu *CPUBackend) Parallel() parallel.Config {
	return cpu.parallel
}

// Transpose transposes the tensor by permuting its dimensions.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	// Default: reverse all dimensions
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	newShape, err := shape.Permute(axes...)
	if err != nil {
		exceptions.Panicf("transpose: %v (shape %v, axes %v)", err, shape, axes)
	}

	result, err := tensor.NewRaw(newShape, t.DType(), t.Device())
	if err != nil {
		exceptions.Panicf("transpose: %v", err)
	}

	switch t.DType() {
	case tensor.Float32:
		transposeData(result.AsFloat32(), t.AsFloat32(), shape, newShape, axes, cpu.parallel)
	case tensor.Float64:
		transposeData(result.AsFloat64(), t.AsFloat64(), shape, newShape, axes, cpu.parallel)
	default:
		exceptions.Panicf("transpose: unsupported dtype %s", t.DType())
	}
	return result
}
