package axes

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, pattern, target string, group *string) *Spec {
	t.Helper()
	spec, err := Parse(pattern, target, group)
	require.NoError(t, err)
	return spec
}

func TestNewPermutation_TargetMovesLast(t *testing.T) {
	spec := mustParse(t, "a b c", "b", nil)
	perm, err := NewPermutation(spec, map[string]int{"b": 100})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 1}, perm.Forward)
	assert.Equal(t, []int{0, 2, 1}, perm.Inverse)
	assert.False(t, perm.Identity)
	assert.Equal(t, []int{100}, perm.ParameterShape())
	assert.Empty(t, perm.GroupShape)
}

func TestNewPermutation_Canonical(t *testing.T) {
	// group "d b", batch "a e", target "f c"
	spec := mustParse(t, "a b c d e f", "f c", ptr("d b"))
	perm, err := NewPermutation(spec, map[string]int{"b": 2, "c": 3, "d": 4, "f": 5, "unused": 9})
	require.NoError(t, err)

	want := []int{3, 1, 0, 4, 5, 2}
	if diff := cmp.Diff(want, perm.Forward); diff != "" {
		t.Errorf("forward mismatch (-want +got):\n%s", diff)
	}
	names := Apply(perm.Forward, spec.Pattern.Names())
	assert.Equal(t, []string{"d", "b", "a", "e", "f", "c"}, names)
	assert.Equal(t, spec.Pattern.Names(), Apply(perm.Inverse, names))

	assert.Equal(t, []int{4, 2}, perm.GroupShape)
	assert.Equal(t, []int{5, 3}, perm.TargetShape)
	assert.Equal(t, []int{4, 2, 5, 3}, perm.ParameterShape())
}

func TestNewPermutation_Identity(t *testing.T) {
	tests := []struct {
		pattern, target string
		group           *string
		identity        bool
	}{
		{"a b c", "c", nil, true},
		{"a b c", "b c", nil, true},
		{"g a b", "b", ptr("g"), true},
		{"a b c", "b", nil, false},
		{"a b c", "c b", nil, false},
		{"a g b", "b", ptr("g"), false},
	}
	sizes := map[string]int{"a": 1, "b": 2, "c": 3, "g": 4}
	for _, tt := range tests {
		perm, err := NewPermutation(mustParse(t, tt.pattern, tt.target, tt.group), sizes)
		require.NoError(t, err)
		assert.Equal(t, tt.identity, perm.Identity, "pattern=%q target=%q", tt.pattern, tt.target)
	}
}

func TestNewPermutation_SizeErrors(t *testing.T) {
	tests := []struct {
		name  string
		sizes map[string]int
		kind  Kind
		axis  string
	}{
		{"missing target size", map[string]int{"g": 2}, MissingAxisSize, "b"},
		{"missing group size reported first", map[string]int{}, MissingAxisSize, "g"},
		{"zero size", map[string]int{"g": 2, "b": 0}, InvalidAxisSize, "b"},
		{"negative size", map[string]int{"g": -1, "b": 3}, InvalidAxisSize, "g"},
		{"parameter too large", map[string]int{"g": 1 << 40, "b": 1 << 30}, InvalidAxisSize, "b"},
		{"single axis too large", map[string]int{"g": 2, "b": math.MaxInt}, InvalidAxisSize, "b"},
	}
	spec := mustParse(t, "a g b", "b", ptr("g"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perm, err := NewPermutation(spec, tt.sizes)
			require.Error(t, err)
			assert.Nil(t, perm)
			assert.ErrorIs(t, err, ErrEinorm)

			var e *Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, []string{tt.axis}, e.Axes)
		})
	}
}

// TestNewPermutation_RoundTrip checks Forward and Inverse undo each other for random specs.
func TestNewPermutation_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	for iter := 0; iter < 200; iter++ {
		n := 1 + rng.Intn(len(names))
		pattern := append([]string(nil), names[:n]...)
		rng.Shuffle(n, func(i, j int) { pattern[i], pattern[j] = pattern[j], pattern[i] })

		// Split a shuffled copy into target, group and batch axes.
		pool := append([]string(nil), pattern...)
		rng.Shuffle(n, func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		numTarget := 1 + rng.Intn(n)
		numGroup := rng.Intn(n - numTarget + 1)
		target := pool[:numTarget]
		var group *string
		if numGroup > 0 {
			group = ptr(strings.Join(pool[numTarget:numTarget+numGroup], " "))
		}

		sizes := make(map[string]int)
		for i, name := range names {
			sizes[name] = i + 1
		}

		spec := mustParse(t, strings.Join(pattern, " "), strings.Join(target, " "), group)
		perm, err := NewPermutation(spec, sizes)
		require.NoError(t, err)

		seq := make([]int, n)
		for i := range seq {
			seq[i] = i
		}
		assert.Equal(t, seq, Apply(perm.Inverse, Apply(perm.Forward, seq)))
		assert.Equal(t, seq, Apply(perm.Forward, Apply(perm.Inverse, seq)))
		for i := range perm.Forward {
			assert.Equal(t, i, perm.Inverse[perm.Forward[i]])
		}

		// Parameter shape is group sizes then target sizes.
		var want []int
		for _, name := range append(spec.Group.Names(), spec.Target.Names()...) {
			want = append(want, sizes[name])
		}
		assert.Equal(t, want, perm.ParameterShape())

		// Canonical layout ends with the target axes in target order.
		canonical := Apply(perm.Forward, spec.Pattern.Names())
		assert.Equal(t, spec.Target.Names(), canonical[n-numTarget:])
	}
}

func TestApply_LengthMismatch(t *testing.T) {
	assert.Panics(t, func() { Apply([]int{0, 1}, []string{"a"}) })
}
