// Package runtime is the tree-walking evaluator: it executes an AST
// directly against a chain of lexical Environments, with no separate
// compilation or resolution pass.
package runtime

import (
	"fmt"
	"io"

	"golox/internal/ast"
	"golox/internal/span"
	"golox/internal/token"
)

// RuntimeError is a language-level error raised during evaluation. It
// carries the source line so the diagnostic sink can format the
// two-line runtime error report.
type RuntimeError struct {
	Message string
	Line    int
}

func (e *RuntimeError) Error() string { return e.Message }
func (e *RuntimeError) ErrLine() int  { return e.Line }

func newRuntimeError(sp span.Span, format string, args ...any) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...), Line: sp.Start.Line}
}

// returnSignal is panicked by a return statement and recovered at the
// call boundary in UserFunction.Call, unwinding through any number of
// nested blocks/loops without threading a result value through every
// intermediate call.
type returnSignal struct {
	value Value
}

// UserFunction is a function declared in source: its parameter names,
// its body, and the environment captured at the point of declaration
// (not the environment active when it is later called — this is what
// gives closures definition-site semantics).
type UserFunction struct {
	decl    *ast.FunctionStmt
	closure *Environment
}

func (f *UserFunction) TypeName() string { return "function" }
func (f *UserFunction) String() string   { return fmt.Sprintf("<fn %s>", f.decl.Name.Lexeme) }
func (f *UserFunction) Arity() int       { return len(f.decl.Params) }

func (f *UserFunction) Call(interp *Interpreter, args []Value) (result Value, err error) {
	callEnv := NewChildEnvironment(f.closure)
	for i, param := range f.decl.Params {
		callEnv.Define(param.Lexeme, args[i])
	}

	defer func() {
		if r := recover(); r != nil {
			if ret, ok := r.(returnSignal); ok {
				result = ret.value
				return
			}
			panic(r)
		}
	}()

	interp.callDepth++
	if interp.callDepth > interp.maxCallDepth {
		interp.callDepth--
		return nil, newRuntimeError(f.decl.Span, "Stack overflow.")
	}
	defer func() { interp.callDepth-- }()

	err = interp.executeBlock(f.decl.Body, callEnv)
	if err != nil {
		return nil, err
	}
	return NilVal{}, nil
}

// Interpreter walks an AST and evaluates it against a chain of
// Environments rooted at global.
type Interpreter struct {
	global       *Environment
	env          *Environment
	output       io.Writer
	callDepth    int
	maxCallDepth int
}

// New creates an Interpreter that writes `print` output to w and
// registers the native builtins (clock).
func New(w io.Writer, maxCallDepth int) *Interpreter {
	global := NewEnvironment()
	if maxCallDepth <= 0 {
		maxCallDepth = 255
	}
	interp := &Interpreter{global: global, env: global, output: w, maxCallDepth: maxCallDepth}
	interp.registerBuiltins()
	return interp
}

// Run executes a whole program: every top-level statement in order.
// It returns the first RuntimeError encountered, if any.
func (interp *Interpreter) Run(statements []ast.Stmt) error {
	for _, stmt := range statements {
		if err := interp.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (interp *Interpreter) execute(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := interp.evaluate(s.Expr)
		return err

	case *ast.PrintStmt:
		v, err := interp.evaluate(s.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(interp.output, Stringify(v))
		return nil

	case *ast.VarStmt:
		var value Value = NilVal{}
		if s.Initializer != nil {
			v, err := interp.evaluate(s.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		interp.env.Define(s.Name.Lexeme, value)
		return nil

	case *ast.BlockStmt:
		return interp.executeBlock(s.Statements, NewChildEnvironment(interp.env))

	case *ast.IfStmt:
		cond, err := interp.evaluate(s.Condition)
		if err != nil {
			return err
		}
		if IsTruthy(cond) {
			return interp.execute(s.Then)
		}
		if s.ElseBranch != nil {
			return interp.execute(s.ElseBranch)
		}
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := interp.evaluate(s.Condition)
			if err != nil {
				return err
			}
			if !IsTruthy(cond) {
				return nil
			}
			if err := interp.execute(s.Body); err != nil {
				return err
			}
		}

	case *ast.FunctionStmt:
		fn := &UserFunction{decl: s, closure: interp.env}
		interp.env.Define(s.Name.Lexeme, fn)
		return nil

	case *ast.ReturnStmt:
		var value Value = NilVal{}
		if s.Value != nil {
			v, err := interp.evaluate(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		panic(returnSignal{value: value})

	default:
		return newRuntimeError(stmt.GetSpan(), "unhandled statement %T", stmt)
	}
}

// executeBlock runs statements against env, restoring the
// interpreter's previous environment afterward even if a statement
// returns an error or panics a return signal, so a raised error never
// leaves the interpreter pointed at a stale scope.
func (interp *Interpreter) executeBlock(statements []ast.Stmt, env *Environment) error {
	previous := interp.env
	interp.env = env
	defer func() { interp.env = previous }()

	for _, stmt := range statements {
		if err := interp.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (interp *Interpreter) evaluate(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return literalValue(e.Value), nil

	case *ast.Grouping:
		return interp.evaluate(e.Inner)

	case *ast.Unary:
		operand, err := interp.evaluate(e.Operand)
		if err != nil {
			return nil, err
		}
		return interp.evalUnary(e, operand)

	case *ast.Binary:
		left, err := interp.evaluate(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := interp.evaluate(e.Right)
		if err != nil {
			return nil, err
		}
		return interp.evalBinary(e, left, right)

	case *ast.Logical:
		left, err := interp.evaluate(e.Left)
		if err != nil {
			return nil, err
		}
		if e.Op.Type == token.OR {
			if IsTruthy(left) {
				return left, nil
			}
		} else {
			if !IsTruthy(left) {
				return left, nil
			}
		}
		return interp.evaluate(e.Right)

	case *ast.Variable:
		v, ok := interp.env.Get(e.Name.Lexeme)
		if !ok {
			return nil, newRuntimeError(e.Span, "Undefined variable '%s'.", e.Name.Lexeme)
		}
		return v, nil

	case *ast.Assign:
		value, err := interp.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if !interp.env.Assign(e.Name.Lexeme, value) {
			return nil, newRuntimeError(e.Span, "Undefined variable '%s'.", e.Name.Lexeme)
		}
		return value, nil

	case *ast.Call:
		return interp.evalCall(e)

	default:
		return nil, newRuntimeError(expr.GetSpan(), "unhandled expression %T", expr)
	}
}

func literalValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return NilVal{}
	case bool:
		return BoolVal(t)
	case float64:
		return NumberVal(t)
	case string:
		return StringVal(t)
	default:
		return NilVal{}
	}
}

func (interp *Interpreter) evalUnary(e *ast.Unary, operand Value) (Value, error) {
	switch e.Op.Lexeme {
	case "-":
		n, ok := operand.(NumberVal)
		if !ok {
			return nil, newRuntimeError(e.Span, "Operand must be a number.")
		}
		return -n, nil
	case "!":
		return BoolVal(!IsTruthy(operand)), nil
	default:
		return nil, newRuntimeError(e.Span, "unknown unary operator %q", e.Op.Lexeme)
	}
}

func (interp *Interpreter) evalBinary(e *ast.Binary, left, right Value) (Value, error) {
	switch e.Op.Lexeme {
	case "+":
		ln, lok := left.(NumberVal)
		rn, rok := right.(NumberVal)
		if lok && rok {
			return ln + rn, nil
		}
		ls, lok := left.(StringVal)
		rs, rok := right.(StringVal)
		if lok && rok {
			return ls + rs, nil
		}
		return nil, newRuntimeError(e.Op.Span, "Operands must be two numbers or two strings.")
	case "-":
		ln, rn, err := checkNumberOperands(e, left, right)
		if err != nil {
			return nil, err
		}
		return ln - rn, nil
	case "*":
		ln, rn, err := checkNumberOperands(e, left, right)
		if err != nil {
			return nil, err
		}
		return ln * rn, nil
	case "/":
		ln, rn, err := checkNumberOperands(e, left, right)
		if err != nil {
			return nil, err
		}
		return ln / rn, nil
	case ">":
		ln, rn, err := checkNumberOperands(e, left, right)
		if err != nil {
			return nil, err
		}
		return BoolVal(ln > rn), nil
	case ">=":
		ln, rn, err := checkNumberOperands(e, left, right)
		if err != nil {
			return nil, err
		}
		return BoolVal(ln >= rn), nil
	case "<":
		ln, rn, err := checkNumberOperands(e, left, right)
		if err != nil {
			return nil, err
		}
		return BoolVal(ln < rn), nil
	case "<=":
		ln, rn, err := checkNumberOperands(e, left, right)
		if err != nil {
			return nil, err
		}
		return BoolVal(ln <= rn), nil
	case "==":
		return BoolVal(ValuesEqual(left, right)), nil
	case "!=":
		return BoolVal(!ValuesEqual(left, right)), nil
	default:
		return nil, newRuntimeError(e.Op.Span, "unknown binary operator %q", e.Op.Lexeme)
	}
}

// checkNumberOperands requires both operands to be numbers, checked
// together rather than one at a time, matching the source
// interpreter's checkNumberOperands.
func checkNumberOperands(e *ast.Binary, left, right Value) (NumberVal, NumberVal, error) {
	ln, lok := left.(NumberVal)
	rn, rok := right.(NumberVal)
	if !lok || !rok {
		return 0, 0, newRuntimeError(e.Op.Span, "Operands must be numbers.")
	}
	return ln, rn, nil
}

func (interp *Interpreter) evalCall(e *ast.Call) (result Value, err error) {
	callee, err := interp.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := interp.evaluate(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, newRuntimeError(e.Paren.Span, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, newRuntimeError(e.Paren.Span, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	return fn.Call(interp, args)
}
