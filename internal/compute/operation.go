package compute

import (
	"fmt"
	"math"
	"strings"
)

// Operation identifies the unary function a task asks for.
type Operation string

// Built-in operation kinds.
const (
	Sine       Operation = "sine"
	SquareRoot Operation = "sqrt"
	Square     Operation = "square"
)

// Func is a pure function of one argument.
type Func func(float64) float64

// String implements fmt.Stringer.
func (o Operation) String() string {
	return string(o)
}

// ParseOperation maps a configuration value to an Operation. It accepts the
// canonical names plus a few common aliases, case-insensitively. It only
// checks the built-in kinds; custom kinds are looked up in a Registry.
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sine", "sin":
		return Sine, nil
	case "sqrt", "squareroot", "square_root":
		return SquareRoot, nil
	case "square", "pow2", "sqr":
		return Square, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOperation, s)
	}
}

// square always uses exponent 2; any other power is a separate registration.
func square(x float64) float64 {
	return x * x
}

func builtins() map[Operation]Func {
	return map[Operation]Func{
		Sine:       math.Sin,
		SquareRoot: math.Sqrt,
		Square:     square,
	}
}
