package tensor

// Transpose transposes the tensor by permuting its dimensions.
//
// If axes is empty, reverses all dimensions (for 2D, this is standard transpose).
// Otherwise, axes specifies the permutation.
//
// Example:
//
//	t := tensor.Randn[float32](Shape{2, 3, 4}, backend)
//	transposed := t.Transpose(2, 0, 1) // Shape: [4, 2, 3]
func (t *Tensor[T, B]) Transpose(axes ...int) *Tensor[T, B] {
	result := t.backend.Transpose(t.raw, axes...)
	return New[T, B](result, t.backend)
}

// LayerNorm normalizes the tensor over its trailing len(normalizedShape) dimensions.
// weight and bias may be nil.
//
// Example:
//
//	x := tensor.Randn[float32](Shape{8, 16}, backend)
//	y := x.LayerNorm(Shape{16}, nil, nil, 1e-5)
func (t *Tensor[T, B]) LayerNorm(normalizedShape Shape, weight, bias *Tensor[T, B], eps float32) *Tensor[T, B] {
	var w, b *RawTensor
	if weight != nil {
		w = weight.raw
	}
	if bias != nil {
		b = bias.raw
	}
	result := t.backend.LayerNorm(t.raw, w, b, normalizedShape, eps)
	return New[T, B](result, t.backend)
}
