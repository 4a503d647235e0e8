package axes

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrEinorm is the error every construction failure unwraps to.
// Use errors.As with *Error to find out which check failed.
var ErrEinorm = errors.New("einorm")

// Kind identifies which construction check failed.
type Kind int

// Construction error kinds.
const (
	EmptyPattern Kind = iota
	EmptyTarget
	EmptyGroup
	DuplicateAxis
	UnknownAxis
	AxisCollision
	MissingAxisSize
	InvalidAxisSize
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case EmptyPattern:
		return "EmptyPattern"
	case EmptyTarget:
		return "EmptyTarget"
	case EmptyGroup:
		return "EmptyGroup"
	case DuplicateAxis:
		return "DuplicateAxis"
	case UnknownAxis:
		return "UnknownAxis"
	case AxisCollision:
		return "AxisCollision"
	case MissingAxisSize:
		return "MissingAxisSize"
	case InvalidAxisSize:
		return "InvalidAxisSize"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error describes an invalid pattern, target, group or axis size.
type Error struct {
	Kind Kind
	Expr string   // "pattern", "target" or "group", when the failure is tied to one expression
	Axes []string // offending axis names
	Size int      // offending size, for InvalidAxisSize
}

// Error implements the error interface.
func (e *Error) Error() string {
	axes := strings.Join(e.Axes, ", ")
	var msg string
	switch e.Kind {
	case EmptyPattern, EmptyTarget, EmptyGroup:
		msg = fmt.Sprintf("%s expression does not contain any dimension", e.Expr)
	case DuplicateAxis:
		msg = fmt.Sprintf("%s expression contains duplicate dimension: %s", e.Expr, axes)
	case UnknownAxis:
		msg = fmt.Sprintf("%s expression contains unknown dimension: %s", e.Expr, axes)
	case AxisCollision:
		msg = fmt.Sprintf("group and target expressions contain same dimension: %s", axes)
	case MissingAxisSize:
		msg = fmt.Sprintf("specify size for axis %s", axes)
	case InvalidAxisSize:
		if e.Size > 0 {
			msg = fmt.Sprintf("size %d for axis %s makes the parameter too large", e.Size, axes)
		} else {
			msg = fmt.Sprintf("size must be a positive integer for axis %s, got %d", axes, e.Size)
		}
	default:
		msg = e.Kind.String()
	}
	return "einorm: " + msg
}

// Unwrap returns ErrEinorm.
func (e *Error) Unwrap() error {
	return ErrEinorm
}

func newError(kind Kind, expr string, axes ...string) error {
	return errors.WithStack(&Error{Kind: kind, Expr: expr, Axes: axes})
}
