package nn

import (
	"maps"
	"slices"

	"k8s.io/klog/v2"

	"github.com/born-ml/einorm/internal/axes"
	"github.com/born-ml/einorm/internal/parallel"
	"github.com/born-ml/einorm/internal/tensor"
)

// DefaultEpsilon is the variance stabilizer used when WithEpsilon is not given.
const DefaultEpsilon float32 = 1e-5

// einormOptions holds construction options for Einorm.
type einormOptions struct {
	group    *string
	bias     bool
	eps      float32
	sizes    map[string]int
	parallel parallel.Config
}

// EinormOption configures NewEinorm.
type EinormOption func(*einormOptions)

// WithGroup sets the group expression. Each index combination over the group axes
// gets its own normalization statistics and its own slice of weight and bias.
//
// Supplying an expression without any axis is an error: WithGroup("") reports
// axes.EmptyGroup rather than behaving as if no group was given. Omit the option
// for an ungrouped operator.
func WithGroup(expr string) EinormOption {
	return func(o *einormOptions) {
		o.group = &expr
	}
}

// WithBias enables or disables the learnable shift. Enabled by default.
func WithBias(enabled bool) EinormOption {
	return func(o *einormOptions) {
		o.bias = enabled
	}
}

// WithEpsilon sets the variance stabilizer (default 1e-5).
func WithEpsilon(eps float32) EinormOption {
	return func(o *einormOptions) {
		o.eps = eps
	}
}

// WithAxisSize declares the size of one axis.
func WithAxisSize(name string, size int) EinormOption {
	return func(o *einormOptions) {
		o.sizes[name] = size
	}
}

// WithAxisSizes declares the sizes of several axes.
func WithAxisSizes(sizes map[string]int) EinormOption {
	return func(o *einormOptions) {
		maps.Copy(o.sizes, sizes)
	}
}

// WithParallel sets how group slices are spread over goroutines.
func WithParallel(cfg parallel.Config) EinormOption {
	return func(o *einormOptions) {
		o.parallel = cfg
	}
}

// Einorm normalizes a tensor over an arbitrary set of named axes.
//
// The input layout is described by a pattern such as "batch seq head dim". Statistics
// are computed over the target axes; the optional group axes get independent
// statistics and parameters per index; all remaining axes are batch axes.
//
// Forward moves the input into (group, batch, target) layout, applies a layer norm
// over the trailing target dimensions (mapped over the group dimensions when a group
// is set), then restores the input layout. When the input is already in canonical
// layout no transpose is performed.
//
// Weight has shape group sizes ++ target sizes and starts at ones. Bias has the same
// shape, starts at zeros and is nil when disabled.
//
// Example:
//
//	norm, err := nn.NewEinorm("a b c", "b", backend, nn.WithAxisSize("b", 100))
//	if err != nil {
//	    return err
//	}
//	y := norm.Forward(x) // x: [1, 100, 4] -> y: [1, 100, 4]
type Einorm[B tensor.Backend] struct {
	Weight *Parameter[B]
	Bias   *Parameter[B] // nil when bias is disabled

	pattern string
	target  string
	group   *string
	eps     float32

	spec      *axes.Spec
	perm      *axes.Permutation
	normalize NormalizeFn[B]
	backend   B
}

// NewEinorm creates an Einorm over pattern normalizing target.
//
// Every group and target axis needs a size (WithAxisSize / WithAxisSizes). Sizes
// of other axes are ignored. All errors unwrap to axes.ErrEinorm; use errors.As
// with *axes.Error to find out which check failed.
func NewEinorm[B tensor.Backend](pattern, target string, backend B, opts ...EinormOption) (*Einorm[B], error) {
	o := &einormOptions{
		bias:     true,
		eps:      DefaultEpsilon,
		sizes:    make(map[string]int),
		parallel: parallel.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(o)
	}

	spec, err := axes.Parse(pattern, target, o.group)
	if err != nil {
		return nil, err
	}
	perm, err := axes.NewPermutation(spec, o.sizes)
	if err != nil {
		return nil, err
	}
	if unused := spec.UnusedSizes(o.sizes); len(unused) > 0 {
		klog.V(1).Infof("einorm %q: ignoring sizes of axes %v, not in target or group", pattern, unused)
	}

	e := &Einorm[B]{
		pattern:   pattern,
		target:    target,
		group:     o.group,
		eps:       o.eps,
		spec:      spec,
		perm:      perm,
		normalize: NewNormalizeFn[B](perm.TargetShape, perm.GroupShape, o.eps, o.parallel),
		backend:   backend,
	}

	shape := tensor.Shape(perm.ParameterShape())
	e.Weight = NewParameter("weight", tensor.Ones[float32](shape, backend))
	if o.bias {
		e.Bias = NewParameter("bias", tensor.Zeros[float32](shape, backend))
	}

	if klog.V(1).Enabled() {
		klog.Infof("einorm %q target %q group %v: canonical axes %v, permutation %v, inverse %v, identity %t, parameter shape %v",
			pattern, target, spec.Group, axes.Apply(perm.Forward, spec.Pattern.Names()),
			perm.Forward, perm.Inverse, perm.Identity, shape)
	}
	return e, nil
}

// Forward normalizes x, whose dimensions follow the pattern order.
//
// Shapes:
//   - input: one dimension per pattern axis, group and target dimensions matching
//     the declared sizes
//   - output: same as input
//
// Rank or size mismatches panic in the backend.
func (e *Einorm[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	var bias *tensor.Tensor[float32, B]
	if e.Bias != nil {
		bias = e.Bias.Tensor()
	}
	if e.perm.Identity {
		return e.normalize(x, e.Weight.Tensor(), bias)
	}
	y := e.normalize(x.Transpose(e.perm.Forward...), e.Weight.Tensor(), bias)
	return y.Transpose(e.perm.Inverse...)
}

// Parameters returns weight, followed by bias when enabled.
func (e *Einorm[B]) Parameters() []*Parameter[B] {
	if e.Bias == nil {
		return []*Parameter[B]{e.Weight}
	}
	return []*Parameter[B]{e.Weight, e.Bias}
}

// NumParameters returns the total number of learnable scalars.
func (e *Einorm[B]) NumParameters() int {
	n := 0
	for _, p := range e.Parameters() {
		n += p.Shape().NumElements()
	}
	return n
}

// ResetParameters sets weight to ones and bias to zeros.
func (e *Einorm[B]) ResetParameters() {
	e.Weight.Fill(1)
	if e.Bias != nil {
		e.Bias.Fill(0)
	}
}

// Pattern returns the pattern expression given at construction.
func (e *Einorm[B]) Pattern() string { return e.pattern }

// Target returns the target expression given at construction.
func (e *Einorm[B]) Target() string { return e.target }

// Group returns the group expression and whether one was given.
func (e *Einorm[B]) Group() (string, bool) {
	if e.group == nil {
		return "", false
	}
	return *e.group, true
}

// Eps returns the variance stabilizer.
func (e *Einorm[B]) Eps() float32 { return e.eps }

// Permutation returns the input axis placed at each canonical position.
func (e *Einorm[B]) Permutation() []int { return slices.Clone(e.perm.Forward) }

// InversePermutation returns the permutation restoring the input layout.
func (e *Einorm[B]) InversePermutation() []int { return slices.Clone(e.perm.Inverse) }

// IsIdentity reports whether the input is already in canonical layout.
func (e *Einorm[B]) IsIdentity() bool { return e.perm.Identity }

// ParameterShape returns the shape of weight and bias.
func (e *Einorm[B]) ParameterShape() tensor.Shape { return tensor.Shape(e.perm.ParameterShape()) }

// CanonicalAxes returns the axis names in (group, batch, target) order.
func (e *Einorm[B]) CanonicalAxes() []string {
	return axes.Apply(e.perm.Forward, e.spec.Pattern.Names())
}

// String describes the operator.
func (e *Einorm[B]) String() string {
	s := "Einorm(pattern=" + e.pattern + ", target=" + e.target
	if e.group != nil {
		s += ", group=" + *e.group
	}
	if e.Bias == nil {
		s += ", bias=false"
	}
	return s + ")"
}
