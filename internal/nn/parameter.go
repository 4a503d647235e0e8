package nn

import (
	"github.com/born-ml/einorm/internal/tensor"
)

// Parameter represents a learnable tensor of a module.
//
// Modules only read parameters during Forward. Their values are updated from
// outside (an optimizer, an initializer or LoadStateDict) between forward calls.
//
// Example:
//
//	weight := nn.NewParameter("weight", tensor.Ones[float32](tensor.Shape{100}, backend))
//	w := weight.Tensor()
type Parameter[B tensor.Backend] struct {
	name   string                     // Parameter name (e.g., "weight", "bias")
	tensor *tensor.Tensor[float32, B] // The parameter tensor
}

// NewParameter creates a new parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Shape returns the parameter shape.
func (p *Parameter[B]) Shape() tensor.Shape {
	return p.tensor.Shape()
}

// Fill sets every element of the parameter to value.
func (p *Parameter[B]) Fill(value float32) {
	data := p.tensor.Data()
	for i := range data {
		data[i] = value
	}
}
