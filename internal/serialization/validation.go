package serialization

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Validation limits for security and resource protection.
const (
	MaxHeaderSize    = 100 * 1024 * 1024 // 100MB - maximum header size
	MaxTensorCount   = 100_000           // Maximum number of tensors in a file
	MaxTensorNameLen = 4096              // Maximum tensor name length
)

// TensorMeta describes one tensor entry of a header.
type TensorMeta struct {
	Name   string
	DType  string
	Shape  []int
	Offset int64 // relative to the start of the data section
	Size   int64 // bytes
}

// ValidateTensorOffsets checks for overlapping tensor offsets and out-of-bounds access.
func ValidateTensorOffsets(tensors []TensorMeta, dataSize int64) error {
	if len(tensors) > MaxTensorCount {
		return &ValidationError{
			Err:     ErrTooManyTensors,
			Details: fmt.Sprintf("got %d, max %d", len(tensors), MaxTensorCount),
		}
	}

	sorted := make([]TensorMeta, len(tensors))
	copy(sorted, tensors)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	for i, t := range sorted {
		if t.Offset < 0 || t.Size < 0 {
			return &ValidationError{
				Err:     ErrNegativeOffset,
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset=%d, size=%d", t.Offset, t.Size),
			}
		}

		if t.Offset+t.Size > dataSize {
			return &ValidationError{
				Err:     ErrOutOfBounds,
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", t.Offset, t.Size, dataSize),
			}
		}

		if i < len(sorted)-1 {
			next := sorted[i+1]
			if t.Offset+t.Size > next.Offset {
				return &ValidationError{
					Err:     ErrOffsetOverlap,
					Tensor:  t.Name,
					Tensor2: next.Name,
					Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						t.Offset, t.Offset+t.Size, next.Offset, next.Offset+next.Size),
				}
			}
		}
	}

	return nil
}

// ValidateTensorName rejects empty, overlong and path-like names.
func ValidateTensorName(name string) error {
	if name == "" {
		return &ValidationError{Err: ErrInvalidTensorName, Details: "empty name"}
	}
	if len(name) > MaxTensorNameLen {
		return &ValidationError{
			Err:     ErrInvalidTensorName,
			Tensor:  name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
		}
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, "/\\\x00") {
		return &ValidationError{
			Err:     ErrInvalidTensorName,
			Tensor:  name,
			Details: "contains '..', a path separator or a null byte",
		}
	}
	if name == metadataKey {
		return &ValidationError{Err: ErrInvalidTensorName, Tensor: name, Details: "reserved"}
	}
	return nil
}

// validateSize checks that a tensor's byte size agrees with its dtype and shape.
func validateSize(t TensorMeta) error {
	elemSize, err := dtypeSize(t.DType)
	if err != nil {
		return &ValidationError{Err: ErrUnsupportedDType, Tensor: t.Name, Details: t.DType}
	}
	n := int64(1)
	for _, d := range t.Shape {
		if d < 0 {
			return &ValidationError{Err: ErrSizeMismatch, Tensor: t.Name, Details: fmt.Sprintf("negative dimension in shape %v", t.Shape)}
		}
		if d != 0 && n > math.MaxInt64/int64(elemSize)/int64(d) {
			return &ValidationError{Err: ErrSizeMismatch, Tensor: t.Name, Details: fmt.Sprintf("shape %v overflows", t.Shape)}
		}
		n *= int64(d)
	}
	if n*int64(elemSize) != t.Size {
		return &ValidationError{
			Err:     ErrSizeMismatch,
			Tensor:  t.Name,
			Details: fmt.Sprintf("%s%v needs %d bytes, offsets span %d", t.DType, t.Shape, n*int64(elemSize), t.Size),
		}
	}
	return nil
}
