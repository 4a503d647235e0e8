package nn

import (
	"github.com/born-ml/einorm/internal/tensor"
)

// LayerNorm applies Layer Normalization over the trailing dimensions of an input tensor.
//
// Formula: Y = gamma * (X - mean(X)) / sqrt(var(X) + eps) + beta
//
// Where:
//   - mean and variance are computed over the trailing len(normalizedShape) dimensions
//   - gamma is the learnable scale parameter [normalizedShape...]
//   - beta is the learnable shift parameter [normalizedShape...]
//
// Einorm generalizes LayerNorm to arbitrary named axes; for a pattern whose target
// axes are already trailing, the two compute the same thing.
//
// Example:
//
//	backend := cpu.New()
//	layernorm := nn.NewLayerNorm(tensor.Shape{768}, 1e-5, backend)
//	output := layernorm.Forward(hiddenStates)  // [..., 768] -> [..., 768]
type LayerNorm[B tensor.Backend] struct {
	Gamma           *Parameter[B] // learnable scale
	Beta            *Parameter[B] // learnable shift
	Epsilon         float32       // numerical stability constant
	normalizedShape tensor.Shape
}

// NewLayerNorm creates a new LayerNorm layer.
//
// The gamma parameter is initialized to ones, beta to zeros.
func NewLayerNorm[B tensor.Backend](normalizedShape tensor.Shape, epsilon float32, backend B) *LayerNorm[B] {
	return &LayerNorm[B]{
		Gamma:           NewParameter("weight", tensor.Ones[float32](normalizedShape, backend)),
		Beta:            NewParameter("bias", tensor.Zeros[float32](normalizedShape, backend)),
		Epsilon:         epsilon,
		normalizedShape: normalizedShape.Clone(),
	}
}

// Forward applies LayerNorm to the input tensor.
//
// Shapes:
//   - input: [..., normalizedShape...]
//   - output: same as input
func (l *LayerNorm[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return x.LayerNorm(l.normalizedShape, l.Gamma.Tensor(), l.Beta.Tensor(), l.Epsilon)
}

// NormalizedShape returns the trailing shape normalized over.
func (l *LayerNorm[B]) NormalizedShape() tensor.Shape {
	return l.normalizedShape.Clone()
}

// Parameters returns the learnable parameters (gamma and beta).
func (l *LayerNorm[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.Gamma, l.Beta}
}
