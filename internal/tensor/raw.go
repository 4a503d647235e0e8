package tensor

import (
	"fmt"
	"unsafe"
)

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

// RawTensor is the low-level tensor representation.
//
// Data is stored contiguously in row-major order. Views created with Block share
// the underlying buffer and address it through a byte offset.
type RawTensor struct {
	buffer []byte   // Shared backing buffer
	shape  Shape    // Tensor dimensions
	stride []int    // Memory strides (row-major, in elements)
	dtype  DataType // Runtime type information
	device Device   // Compute device
	offset int      // Byte offset into buffer for views
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is allocated and zeroed.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		buffer: make([]byte, shape.NumElements()*dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
		offset: 0,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw bytes of this tensor (or view).
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.buffer[r.offset : r.offset+r.ByteSize()]
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	data := r.buffer[r.offset:]
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), r.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	data := r.buffer[r.offset:]
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), r.NumElements())
}

// Block returns a zero-copy view of one block of the tensor, selected by a
// flat index over its first lead dimensions.
//
// For a tensor of shape [g0, g1, d0, d1], Block(2, i) views the [d0, d1] block at
// (i / g1, i % g1). Writes to the view are visible in the parent.
//
// Example:
//
//	t := tensor.NewRaw(Shape{4, 3, 5}, Float32, CPU)
//	row := t.Block(1, 2) // Shape{3, 5}, the third [3, 5] block
func (r *RawTensor) Block(lead, index int) *RawTensor {
	if lead < 0 || lead > len(r.shape) {
		panic(fmt.Sprintf("block: lead %d out of range for %dD tensor", lead, len(r.shape)))
	}
	count := r.shape[:lead].NumElements()
	if index < 0 || index >= count {
		panic(fmt.Sprintf("block: index %d out of range for leading shape %v", index, r.shape[:lead]))
	}
	inner := r.shape[lead:].Clone()
	return &RawTensor{
		buffer: r.buffer,
		shape:  inner,
		stride: inner.ComputeStrides(),
		dtype:  r.dtype,
		device: r.device,
		offset: r.offset + index*inner.NumElements()*r.dtype.Size(),
	}
}

// Clone creates a deep copy of the RawTensor.
func (r *RawTensor) Clone() *RawTensor {
	buf := make([]byte, r.ByteSize())
	copy(buf, r.Data())
	return &RawTensor{
		buffer: buf,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
		offset: 0,
	}
}
