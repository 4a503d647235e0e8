// Package nn implements the normalization modules of the einorm framework.
//
// This package provides:
//   - Module interface: Base interface for all NN components
//   - Parameter: Named learnable tensors
//   - LayerNorm: Normalization over a suffix of trailing dimensions
//   - Einorm: Normalization over arbitrary named axes, optionally grouped
//   - StateDict / LoadStateDict: Parameter export and import
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/born-ml/einorm/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: Compute output from input
//   - Parameters: Return all learnable parameters
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all learnable parameters of this module.
	Parameters() []*Parameter[B]
}
