package nn

import (
	"fmt"

	"github.com/born-ml/einorm/internal/tensor"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input.
//
// Example:
//
//	byChannel, _ := nn.NewEinorm("b c h w", "c", backend, nn.WithAxisSize("c", 16))
//	bySpace, _ := nn.NewEinorm("b c h w", "h w", backend, nn.WithAxisSizes(map[string]int{"h": 8, "w": 8}))
//	model := nn.NewSequential(byChannel, bySpace)
//
//	output := model.Forward(input)
type Sequential[B tensor.Backend] struct {
	modules []Module[B]
}

// NewSequential creates a new Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return &Sequential[B]{
		modules: modules,
	}
}

// Forward applies all modules in sequence.
func (s *Sequential[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	output := input
	for _, module := range s.modules {
		output = module.Forward(output)
	}
	return output
}

// Parameters returns the parameters of all modules, prefixed with their module
// index (e.g., "0.weight", "0.bias", "1.weight") to avoid name collisions.
//
// The returned parameters share their tensors with the modules, so StateDict and
// LoadStateDict work on a Sequential as on any other module.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for i, module := range s.modules {
		for _, p := range module.Parameters() {
			params = append(params, NewParameter(fmt.Sprintf("%d.%s", i, p.Name()), p.Tensor()))
		}
	}
	return params
}

// Add appends a module to the sequence.
func (s *Sequential[B]) Add(module Module[B]) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential[B]) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential[B]) Module(index int) Module[B] {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}
