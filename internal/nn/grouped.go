package nn

import (
	"github.com/gomlx/exceptions"

	"github.com/born-ml/einorm/internal/parallel"
	"github.com/born-ml/einorm/internal/tensor"
)

// NormalizeFn normalizes x using the scale weight and shift bias.
// bias may be nil.
type NormalizeFn[B tensor.Backend] func(x, weight, bias *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

// NewNormalizeFn builds the normalization applied by Einorm to inputs in canonical
// (group, batch, target) layout.
//
// Without group axes it is a layer norm over the trailing len(targetShape) dimensions,
// with weight and bias of shape targetShape. With group axes it is that same layer
// norm mapped over the leading len(groupShape) dimensions of x, weight and bias, so
// weight and bias have shape groupShape ++ targetShape and each group index has its
// own statistics and parameters.
func NewNormalizeFn[B tensor.Backend](targetShape, groupShape tensor.Shape, eps float32, cfg parallel.Config) NormalizeFn[B] {
	targetShape = targetShape.Clone()
	base := func(x, weight, bias *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
		return x.LayerNorm(targetShape, weight, bias, eps)
	}
	if len(groupShape) == 0 {
		return base
	}
	return BatchedMap(base, len(groupShape), cfg)
}

// BatchedMap lifts fn to run independently for every index of the leading lead
// dimensions of its arguments.
//
// For each flat index i over those dimensions, fn receives the blocks x[i], weight[i]
// and bias[i] (zero-copy views) and its result is written to block i of the output.
// The leading dimensions of weight and bias must equal those of x. Blocks share no
// state, so they are processed in parallel according to cfg. A panic raised by fn
// reaches the caller unchanged.
func BatchedMap[B tensor.Backend](fn NormalizeFn[B], lead int, cfg parallel.Config) NormalizeFn[B] {
	return func(x, weight, bias *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
		xShape := x.Shape()
		if len(xShape) < lead {
			exceptions.Panicf("batched map: input of shape %v has fewer than %d leading dimensions", xShape, lead)
		}
		groups := xShape[:lead]
		for _, p := range []struct {
			name string
			t    *tensor.Tensor[float32, B]
		}{{"weight", weight}, {"bias", bias}} {
			if p.t == nil {
				continue
			}
			if s := p.t.Shape(); len(s) < lead || !s[:lead].Equal(groups) {
				exceptions.Panicf("batched map: %s of shape %v does not match leading dimensions %v of input %v",
					p.name, s, groups, xShape)
			}
		}

		out := tensor.Zeros[float32](xShape, x.Backend())
		parallel.For(groups.NumElements(), func(i int) {
			var w, b *tensor.Tensor[float32, B]
			if weight != nil {
				w = weight.Block(lead, i)
			}
			if bias != nil {
				b = bias.Block(lead, i)
			}
			dst := out.Block(lead, i)
			y := fn(x.Block(lead, i), w, b)
			if !y.Shape().Equal(dst.Shape()) {
				exceptions.Panicf("batched map: function returned shape %v for block of shape %v", y.Shape(), dst.Shape())
			}
			copy(dst.Data(), y.Data())
		}, cfg)
		return out
	}
}
