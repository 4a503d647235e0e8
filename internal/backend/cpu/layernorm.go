package cpu

import (
	"math"

	"github.com/gomlx/exceptions"

	"github.com/born-ml/einorm/internal/parallel"
	"github.com/born-ml/einorm/internal/tensor"
)

// LayerNorm normalizes x over its trailing len(normalizedShape) dimensions.
//
// Statistics are the mean and the biased (population) variance of each trailing
// block, accumulated in float64:
//
//	y = (x - mean) / sqrt(var + eps) * weight + bias
//
// weight and bias must have shape normalizedShape; either may be nil.
func (cpu *CPUBackend) LayerNorm(x, weight, bias *tensor.RawTensor, normalizedShape tensor.Shape, eps float32) *tensor.RawTensor {
	if len(normalizedShape) == 0 {
		exceptions.Panicf("layer_norm: normalized shape must have at least one dimension")
	}
	if !x.Shape().HasSuffix(normalizedShape) {
		exceptions.Panicf("layer_norm: given normalized shape %v, expected input with shape [*, %v], but got input of shape %v",
			normalizedShape, normalizedShape, x.Shape())
	}
	for _, p := range []struct {
		name string
		raw  *tensor.RawTensor
	}{{"weight", weight}, {"bias", bias}} {
		if p.raw == nil {
			continue
		}
		if !p.raw.Shape().Equal(normalizedShape) {
			exceptions.Panicf("layer_norm: expected %s of shape %v, got %v", p.name, normalizedShape, p.raw.Shape())
		}
		if p.raw.DType() != x.DType() {
			exceptions.Panicf("layer_norm: %s dtype %s does not match input dtype %s", p.name, p.raw.DType(), x.DType())
		}
	}

	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		exceptions.Panicf("layer_norm: failed to create result tensor: %v", err)
	}

	size := normalizedShape.NumElements()
	switch x.DType() {
	case tensor.Float32:
		var w, b []float32
		if weight != nil {
			w = weight.AsFloat32()
		}
		if bias != nil {
			b = bias.AsFloat32()
		}
		layerNormRows(result.AsFloat32(), x.AsFloat32(), w, b, size, float64(eps), cpu.parallel)
	case tensor.Float64:
		var w, b []float64
		if weight != nil {
			w = weight.AsFloat64()
		}
		if bias != nil {
			b = bias.AsFloat64()
		}
		layerNormRows(result.AsFloat64(), x.AsFloat64(), w, b, size, float64(eps), cpu.parallel)
	default:
		exceptions.Panicf("layer_norm: unsupported dtype %s", x.DType())
	}
	return result
}

// layerNormRows normalizes every contiguous row of size elements of src into dst.
// Rows never share statistics, so they are processed in parallel.
func layerNormRows[T float32 | float64](dst, src, weight, bias []T, size int, eps float64, cfg parallel.Config) {
	rows := len(src) / size
	parallel.For(rows, func(row int) {
		in := src[row*size : (row+1)*size]
		out := dst[row*size : (row+1)*size]

		var sum float64
		for _, v := range in {
			sum += float64(v)
		}
		mean := sum / float64(size)

		var sq float64
		for _, v := range in {
			d := float64(v) - mean
			sq += d * d
		}
		inv := 1 / math.Sqrt(sq/float64(size)+eps)

		for j, v := range in {
			y := (float64(v) - mean) * inv
			if weight != nil {
				y *= float64(weight[j])
			}
			if bias != nil {
				y += float64(bias[j])
			}
			out[j] = T(y)
		}
	}, cfg)
}
