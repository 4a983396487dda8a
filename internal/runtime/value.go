package runtime

import (
	"fmt"
	"math"
	"strconv"
)

// Value is any runtime value the interpreter can produce or operate
// on. There are exactly four concrete kinds — nil, boolean, number,
// string — plus Callable for functions (user-defined and native).
type Value interface {
	TypeName() string
	String() string
}

// NilVal is the sole nil value.
type NilVal struct{}

func (NilVal) TypeName() string { return "nil" }
func (NilVal) String() string   { return "nil" }

// BoolVal is a boolean.
type BoolVal bool

func (BoolVal) TypeName() string { return "boolean" }
func (b BoolVal) String() string {
	if b {
		return "true"
	}
	return "false"
}

// NumberVal is a double-precision float, the language's only numeric
// type (there is no separate integer type).
type NumberVal float64

func (NumberVal) TypeName() string { return "number" }
func (n NumberVal) String() string {
	f := float64(n)
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	// Strip a trailing ".0" for integral doubles, matching the
	// source interpreter's stringify behavior.
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// StringVal is a string.
type StringVal string

func (StringVal) TypeName() string { return "string" }
func (s StringVal) String() string { return string(s) }

// Callable is implemented by anything invocable: user-defined
// functions and native functions like clock.
type Callable interface {
	Value
	Arity() int
	Call(interp *Interpreter, args []Value) (Value, error)
}

// NativeFunc wraps a Go function as a Callable, for builtins like
// clock that have no AST body.
type NativeFunc struct {
	Name    string
	NumArgs int
	Fn      func(interp *Interpreter, args []Value) (Value, error)
}

func (n *NativeFunc) TypeName() string { return "function" }
func (n *NativeFunc) String() string   { return fmt.Sprintf("<native fn %s>", n.Name) }
func (n *NativeFunc) Arity() int       { return n.NumArgs }
func (n *NativeFunc) Call(interp *Interpreter, args []Value) (Value, error) {
	return n.Fn(interp, args)
}

// IsTruthy implements the language's truthiness rule: nil and false
// are falsey, everything else (including 0 and "") is truthy.
func IsTruthy(v Value) bool {
	switch t := v.(type) {
	case NilVal:
		return false
	case BoolVal:
		return bool(t)
	default:
		return true
	}
}

// ValuesEqual implements the language's equality: values of different
// kinds are never equal, nil equals only nil.
func ValuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case NilVal:
		_, ok := b.(NilVal)
		return ok
	case BoolVal:
		bv, ok := b.(BoolVal)
		return ok && av == bv
	case NumberVal:
		bv, ok := b.(NumberVal)
		return ok && av == bv
	case StringVal:
		bv, ok := b.(StringVal)
		return ok && av == bv
	default:
		return a == b
	}
}

// Stringify renders v the way `print` writes it.
func Stringify(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.String()
}
