package tensor

// Backend defines the interface that compute backends implement.
// Backends handle the actual computation for tensor operations.
//
// Backend operations panic on invalid input (shape or rank mismatch), the same
// way indexing a Go slice out of range does.
type Backend interface {
	// Transpose permutes the dimensions of t: result dimension i is t's dimension axes[i].
	// With no axes it reverses all dimensions.
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// LayerNorm normalizes x over its trailing len(normalizedShape) dimensions:
	//
	//	y = (x - mean) / sqrt(var + eps) * weight + bias
	//
	// weight and bias have shape normalizedShape and broadcast over the leading
	// dimensions of x. weight and bias may be nil (identity scale, zero shift).
	LayerNorm(x, weight, bias *RawTensor, normalizedShape Shape, eps float32) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
