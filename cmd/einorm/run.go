package main

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
	"k8s.io/klog/v2"

	"github.com/born-ml/einorm/backend/cpu"
	"github.com/born-ml/einorm/nn"
	"github.com/born-ml/einorm/tensor"
)

// run builds the operator described by opts, applies it to random input and
// writes a report to out.
func run(out io.Writer, opts options) error {
	backend := cpu.New()

	einormOpts := []nn.EinormOption{
		nn.WithAxisSizes(opts.Sizes),
		nn.WithBias(!opts.NoBias),
		nn.WithEpsilon(opts.Eps),
	}
	if opts.groupSet {
		einormOpts = append(einormOpts, nn.WithGroup(opts.Group))
	}
	norm, err := nn.NewEinorm(opts.Pattern, opts.Target, backend, einormOpts...)
	if err != nil {
		return err
	}

	shape := tensor.Shape(opts.Shape)
	if len(shape) == 0 {
		shape = defaultShape(opts.Pattern, opts.Sizes)
	}
	if err := shape.Validate(); err != nil {
		return errors.Wrap(err, "invalid --shape")
	}

	rng := rand.New(rand.NewSource(opts.Seed)) //nolint:gosec // reproducible input, not security-critical
	x := tensor.RandnFrom[float32](shape, rng.Float64, backend)
	klog.V(1).Infof("input %v drawn with seed %d", x, opts.Seed)

	var y *tensor.Tensor[float32, *cpu.Backend]
	if err := exceptions.TryCatch[error](func() { y = norm.Forward(x) }); err != nil {
		return errors.WithMessage(err, "forward")
	}

	fmt.Fprintln(out, norm)
	fmt.Fprintf(out, "canonical axes:   %s\n", strings.Join(norm.CanonicalAxes(), " "))
	fmt.Fprintf(out, "permutation:      %v\n", norm.Permutation())
	fmt.Fprintf(out, "inverse:          %v\n", norm.InversePermutation())
	fmt.Fprintf(out, "identity:         %t\n", norm.IsIdentity())
	fmt.Fprintf(out, "parameter shape:  %v\n", norm.ParameterShape())
	fmt.Fprintf(out, "parameters:       %d\n", norm.NumParameters())
	fmt.Fprintf(out, "input shape:      %v\n", x.Shape())
	fmt.Fprintf(out, "output shape:     %v\n", y.Shape())

	s := summarize(y, norm)
	fmt.Fprintf(out, "normalized slices: %d of %d elements\n", s.slices, s.size)
	fmt.Fprintf(out, "max |mean|:       %.3g\n", s.maxAbsMean)
	fmt.Fprintf(out, "mean variance:    %.6f\n", s.meanVariance)

	if opts.Save != "" {
		storage := nn.StorageNative
		if opts.Half {
			storage = nn.StorageF16
		}
		metadata := map[string]string{
			"pattern": opts.Pattern,
			"target":  opts.Target,
		}
		if group, ok := norm.Group(); ok {
			metadata["group"] = group
		}
		if err := nn.SaveSafeTensors[*cpu.Backend](opts.Save, norm, metadata, storage); err != nil {
			return err
		}
		fmt.Fprintf(out, "saved parameters to %s (%s)\n", opts.Save, storage)
	}
	return nil
}

// defaultShape uses the declared size of each pattern axis, or 1.
func defaultShape(pattern string, sizes map[string]int) tensor.Shape {
	var shape tensor.Shape
	for _, name := range strings.Fields(pattern) {
		size, ok := sizes[name]
		if !ok {
			size = 1
		}
		shape = append(shape, size)
	}
	return shape
}

type summary struct {
	slices       int
	size         int
	maxAbsMean   float64
	meanVariance float64
}

// summarize computes the population mean and variance of every slice normalized
// together, i.e. each group and batch index over the target axes.
func summarize(y *tensor.Tensor[float32, *cpu.Backend], norm *nn.Einorm[*cpu.Backend]) summary {
	canonical := y.Transpose(norm.Permutation()...).Data()
	targetSize := 1
	for _, d := range norm.ParameterShape()[len(norm.ParameterShape())-targetRank(norm):] {
		targetSize *= d
	}

	s := summary{size: targetSize}
	values := make([]float64, targetSize)
	for start := 0; start+targetSize <= len(canonical); start += targetSize {
		for i, v := range canonical[start : start+targetSize] {
			values[i] = float64(v)
		}
		mean, variance := stat.PopMeanVariance(values, nil)
		s.maxAbsMean = math.Max(s.maxAbsMean, math.Abs(mean))
		s.meanVariance += variance
		s.slices++
	}
	if s.slices > 0 {
		s.meanVariance /= float64(s.slices)
	}
	return s
}

func targetRank(norm *nn.Einorm[*cpu.Backend]) int {
	return len(strings.Fields(norm.Target()))
}
