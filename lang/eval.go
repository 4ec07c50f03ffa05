package lang

import (
	"context"
	"log/slog"
	"strconv"
)

// Evaluate evaluates every item of prog in env and returns the value of the
// last item that is not a function definition, or nil if there is none.
//
// Function definitions are bound directly in env and persist across items.
// Every other item is evaluated against a snapshot of env, so bindings it
// makes are not visible to later items. The first error aborts evaluation.
// A nil env is treated as empty.
func (prog *Program) Evaluate(ctx context.Context, env *Environment, opts ...Option) (Value, error) {
	return Evaluate(ctx, prog, env, opts...)
}

// Evaluate evaluates node in env.
func Evaluate(ctx context.Context, node Node, env *Environment, opts ...Option) (Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if env == nil {
		env = NewEnvironment()
	}

	ev := &evalContext{ctx: ctx, opts: makeOptions(opts...)}

	return ev.eval(node, env)
}

// evalContext holds the state for recursive evaluation.
type evalContext struct {
	ctx   context.Context
	opts  options
	depth int
}

// eval dispatches on the node variant.
func (ev *evalContext) eval(node Node, env *Environment) (Value, error) {
	if isNil(node) {
		return nil, ErrMalformed.With(slog.String("node", "nil"))
	}

	if err := ev.ctx.Err(); err != nil {
		return nil, err
	}

	ev.depth++
	defer func() { ev.depth-- }()

	if ev.opts.maxEvalDepth > 0 && ev.depth > ev.opts.maxEvalDepth {
		return nil, ErrMaxDepthExceeded.
			With(slog.Int("max", ev.opts.maxEvalDepth)).
			at(node)
	}

	switch n := node.(type) {
	case *Program:
		return ev.evalProgram(n, env)
	case *FunctionDef:
		fn := Function{Def: n}
		env.Bind(n.Name.Lexeme, fn)

		return fn, nil
	case *Lambda:
		return ev.evalLambda(n, env)
	case *Closure:
		return nil, ErrMalformed.With(slog.String("node", "closure")).at(n)
	case *Apply:
		return ev.evalApply(n, env)
	case *If:
		return ev.evalIf(n, env)
	case *Let:
		return ev.evalLet(n, env)
	case *Switch:
		return ev.evalSwitch(n, env)
	case *Case:
		return ev.eval(n.Branch, env)
	case *BinaryOp:
		return ev.evalBinary(n, env)
	case *RelOp:
		return ev.evalRel(n, env)
	case *UnaryOp:
		return ev.evalUnary(n, env)
	case *Literal:
		return evalLiteral(n)
	case *Identifier:
		return ev.lookup(n, env)
	case *ListLiteral:
		return ev.evalList(n, env)
	case *SetLiteral:
		return ev.evalSet(n, env)
	case *Head:
		return ev.evalHead(n, env)
	case *Tail:
		return ev.evalTail(n, env)
	default:
		return nil, ErrMalformed.at(node)
	}
}

func (ev *evalContext) evalProgram(prog *Program, env *Environment) (Value, error) {
	var result Value

	for _, item := range prog.Items {
		if def, ok := item.(*FunctionDef); ok && def != nil {
			if _, err := ev.eval(def, env); err != nil {
				return nil, err
			}

			continue
		}

		v, err := ev.eval(item, env.Snapshot())
		if err != nil {
			return nil, err
		}

		result = v
	}

	return result, nil
}

// evalLambda evaluates the body of lam in env, whose parameter binding has
// already been installed by the caller. A closure-bearing lambda first binds
// its self name to a closure over a snapshot of env.
func (ev *evalContext) evalLambda(lam *Lambda, env *Environment) (Value, error) {
	if lam.Closure == nil {
		return ev.eval(lam.Body, env)
	}

	scope := env.Snapshot()
	scope.Bind(lam.Closure.Self.Lexeme, ClosureValue{Lambda: lam, Env: scope})

	return ev.eval(lam.Closure.Body, scope)
}

func (ev *evalContext) evalApply(n *Apply, env *Environment) (Value, error) {
	var (
		lam  *Lambda
		base = env
	)

	switch callee := n.Callee.(type) {
	case *Identifier:
		v, err := ev.lookup(callee, env)
		if err != nil {
			return nil, err
		}

		switch fn := v.(type) {
		case Function:
			if fn.Def != nil {
				lam = fn.Def.Lambda
			}
		case ClosureValue:
			lam, base = fn.Lambda, fn.Env
		default:
			return nil, ErrNotFunction.
				With(slog.String("name", callee.Name.Lexeme), slog.String("kind", KindOf(v))).
				at(n)
		}
	case *Lambda:
		lam = callee
	}

	if lam == nil {
		return nil, ErrMalformed.With(slog.String("node", "apply")).at(n)
	}

	arg, err := ev.eval(n.Arg, env)
	if err != nil {
		return nil, err
	}

	scope := base.Snapshot()
	scope.Bind(lam.Param.Lexeme, arg)

	return ev.evalLambda(lam, scope)
}

func (ev *evalContext) evalIf(n *If, env *Environment) (Value, error) {
	cond, err := ev.eval(n.Cond, env)
	if err != nil {
		return nil, err
	}

	b, ok := cond.(Boolean)
	if !ok {
		return nil, ErrNotBoolean.With(slog.String("kind", KindOf(cond))).at(n)
	}

	if b {
		return ev.eval(n.Then, env)
	}

	return ev.eval(n.Else, env)
}

// evalLet evaluates every right-hand side against env in declaration order,
// then installs the bindable results, also in declaration order, in a
// snapshot of env and evaluates the body there.
func (ev *evalContext) evalLet(n *Let, env *Environment) (Value, error) {
	if len(n.Bindings) == 0 {
		return nil, ErrMalformed.With(slog.String("node", "let")).at(n)
	}

	values := make([]Value, len(n.Bindings))

	for i, b := range n.Bindings {
		v, err := ev.eval(b.Value, env)
		if err != nil {
			return nil, err
		}

		values[i] = v
	}

	scope := env.Snapshot()

	for i, b := range n.Bindings {
		switch values[i].(type) {
		case Integer, Real, List, Set:
			scope.Bind(b.Name.Lexeme, values[i])
		default:
			ev.opts.logger.WarnContext(ev.ctx, "value not bindable",
				slog.String("name", b.Name.Lexeme),
				slog.String("kind", KindOf(values[i])),
				slog.Int("line", n.Line()))
		}
	}

	return ev.eval(n.Body, scope)
}

func (ev *evalContext) evalSwitch(n *Switch, env *Environment) (Value, error) {
	v, err := ev.eval(n.Scrutinee, env)
	if err != nil {
		return nil, err
	}

	scrutinee, ok := v.(Integer)
	if !ok {
		return nil, ErrNotInteger.With(slog.String("kind", KindOf(v))).at(n)
	}

	for _, c := range n.Cases {
		if c == nil {
			continue
		}

		g, err := ev.eval(c.Guard, env)
		if err != nil {
			ev.opts.logger.WarnContext(ev.ctx, "case guard failed",
				slog.Any("error", err),
				slog.Int("line", c.Line()))

			continue
		}

		guard, ok := g.(Integer)
		if !ok {
			ev.opts.logger.WarnContext(ev.ctx, "case guard is not an integer",
				slog.String("kind", KindOf(g)),
				slog.Int("line", c.Line()))

			continue
		}

		if guard == scrutinee {
			return ev.eval(c.Branch, env)
		}
	}

	return ev.eval(n.Default, env)
}

func (ev *evalContext) evalBinary(n *BinaryOp, env *Environment) (Value, error) {
	left, err := ev.eval(n.Left, env)
	if err != nil {
		return nil, err
	}

	right, err := ev.eval(n.Right, env)
	if err != nil {
		return nil, err
	}

	var (
		v Value
		e *Error
	)

	switch n.Op.Type {
	case CONCAT:
		v, e = concat(left, right)
	case UNION, INTERSECT:
		v, e = setOp(n.Op.Type, left, right)
	default:
		v, e = arith(n.Op.Type, left, right)
	}

	if e != nil {
		return nil, e.With(slog.String("op", n.Op.Lexeme)).at(n)
	}

	return v, nil
}

func concat(left, right Value) (Value, *Error) {
	l, lok := left.(List)
	r, rok := right.(List)

	if !lok || !rok {
		return nil, ErrNotList.With(
			slog.String("left", KindOf(left)), slog.String("right", KindOf(right)))
	}

	lk, lok := l.ElemKind()
	rk, rok := r.ElemKind()

	switch {
	case !lok:
		return r, nil
	case !rok:
		return l, nil
	case lk != rk:
		return nil, ErrMixedList.With(
			slog.String("left", lk.String()), slog.String("right", rk.String()))
	default:
		return l.Concat(r), nil
	}
}

func setOp(op TokenType, left, right Value) (Value, *Error) {
	l, lok := left.(Set)
	r, rok := right.(Set)

	switch {
	case !lok || !rok:
		return nil, ErrNotSet.With(
			slog.String("left", KindOf(left)), slog.String("right", KindOf(right)))
	case l.Len() == 0 || r.Len() == 0:
		return nil, ErrEmptySet.With(
			slog.Int("left", l.Len()), slog.Int("right", r.Len()))
	case op == UNION:
		return l.Union(r), nil
	default:
		return l.Intersect(r), nil
	}
}

// arith applies an arithmetic or Boolean operator. Operands must be of the
// same kind; there is no implicit conversion.
func arith(op TokenType, left, right Value) (Value, *Error) {
	if e := sameKind(left, right); e != nil {
		return nil, e
	}

	switch l := left.(type) {
	case Integer:
		r := right.(Integer)

		switch op {
		case ADD:
			return l + r, nil
		case SUB:
			return l - r, nil
		case MULT:
			return l * r, nil
		case DIV:
			if r == 0 {
				return nil, ErrDivisionByZero.With(slog.Int64("left", int64(l)))
			}

			return l / r, nil
		}
	case Real:
		r := right.(Real)

		switch op {
		case ADD:
			return l + r, nil
		case SUB:
			return l - r, nil
		case MULT:
			return l * r, nil
		case DIV:
			return l / r, nil
		}
	case Boolean:
		r := right.(Boolean)

		switch op {
		case AND:
			return l && r, nil
		case OR:
			return l || r, nil
		}
	}

	return nil, ErrTypeMismatch.With(
		slog.String("left", KindOf(left)), slog.String("right", KindOf(right)))
}

// sameKind reports an error unless left and right are of the same kind.
// Differing numeric kinds are reported as [ErrMixedType].
func sameKind(left, right Value) *Error {
	if left == nil || right == nil || left.Kind() != right.Kind() {
		sentinel := ErrTypeMismatch
		if left != nil && right != nil && left.Kind().IsNumeric() && right.Kind().IsNumeric() {
			sentinel = ErrMixedType
		}

		return sentinel.With(
			slog.String("left", KindOf(left)), slog.String("right", KindOf(right)))
	}

	return nil
}

func (ev *evalContext) evalRel(n *RelOp, env *Environment) (Value, error) {
	left, err := ev.eval(n.Left, env)
	if err != nil {
		return nil, err
	}

	right, err := ev.eval(n.Right, env)
	if err != nil {
		return nil, err
	}

	v, e := relate(n.Op.Type, left, right)
	if e != nil {
		return nil, e.With(slog.String("op", n.Op.Lexeme)).at(n)
	}

	return v, nil
}

func relate(op TokenType, left, right Value) (Value, *Error) {
	if e := sameKind(left, right); e != nil {
		return nil, e
	}

	switch op {
	case EQ, NEQ:
		switch left.Kind() {
		case KindFunction, KindClosure:
		default:
			return Boolean(Equal(left, right) == (op == EQ)), nil
		}
	default:
		if c, ok := compareNumeric(left, right); ok {
			switch op {
			case LT:
				return Boolean(c < 0), nil
			case LTE:
				return Boolean(c <= 0), nil
			case GT:
				return Boolean(c > 0), nil
			case GTE:
				return Boolean(c >= 0), nil
			}
		}
	}

	return nil, ErrTypeMismatch.With(
		slog.String("left", KindOf(left)), slog.String("right", KindOf(right)))
}

// compareNumeric orders two values of the same numeric kind.
func compareNumeric(left, right Value) (int, bool) {
	switch left.(type) {
	case Integer, Real:
		return Compare(left, right), true
	default:
		return 0, false
	}
}

func (ev *evalContext) evalUnary(n *UnaryOp, env *Environment) (Value, error) {
	v, err := ev.eval(n.Operand, env)
	if err != nil {
		return nil, err
	}

	b, ok := v.(Boolean)
	if !ok {
		return nil, ErrNotBoolean.
			With(slog.String("op", n.Op.Lexeme), slog.String("kind", KindOf(v))).
			at(n)
	}

	return !b, nil
}

func evalLiteral(n *Literal) (Value, error) {
	switch n.Token.Type {
	case INT:
		i, err := strconv.ParseInt(n.Token.Lexeme, 10, 64)
		if err != nil {
			return nil, ErrMalformed.Wrap(err).at(n)
		}

		return Integer(i), nil
	case REAL:
		f, err := strconv.ParseFloat(n.Token.Lexeme, 64)
		if err != nil {
			return nil, ErrMalformed.Wrap(err).at(n)
		}

		return Real(f), nil
	case TRUE:
		return Boolean(true), nil
	case FALSE:
		return Boolean(false), nil
	default:
		return nil, ErrMalformed.With(slog.String("token", n.Token.String())).at(n)
	}
}

func (ev *evalContext) lookup(n *Identifier, env *Environment) (Value, error) {
	v, ok := env.Lookup(n.Name.Lexeme)
	if !ok {
		return nil, ErrUnbound.With(slog.String("name", n.Name.Lexeme)).at(n)
	}

	return v, nil
}

// evalList evaluates the elements of a list literal. The kind of the first
// element, which must be numeric, fixes the kind of the rest.
func (ev *evalContext) evalList(n *ListLiteral, env *Environment) (Value, error) {
	elems := make([]Value, 0, len(n.Elems))

	for i, en := range n.Elems {
		v, err := ev.eval(en, env)
		if err != nil {
			return nil, err
		}

		switch {
		case v.Kind() == KindList || v.Kind() == KindSet:
			return nil, ErrNestedList.
				With(slog.Int("index", i), slog.String("kind", KindOf(v))).
				at(en)
		case !v.Kind().IsNumeric():
			return nil, ErrTypeMismatch.
				With(slog.Int("index", i), slog.String("kind", KindOf(v))).
				at(en)
		case i > 0 && v.Kind() != elems[0].Kind():
			return nil, ErrMixedList.
				With(
					slog.Int("index", i),
					slog.String("want", elems[0].Kind().String()),
					slog.String("kind", KindOf(v))).
				at(en)
		}

		elems = append(elems, v)
	}

	return List{elems: elems}, nil
}

func (ev *evalContext) evalSet(n *SetLiteral, env *Environment) (Value, error) {
	elems := make([]Value, 0, len(n.Elems))

	for _, en := range n.Elems {
		v, err := ev.eval(en, env)
		if err != nil {
			return nil, err
		}

		elems = append(elems, v)
	}

	return NewSet(elems...), nil
}

func (ev *evalContext) evalListOperand(operand Node, env *Environment, at Node) (List, error) {
	v, err := ev.eval(operand, env)
	if err != nil {
		return List{}, err
	}

	l, ok := v.(List)
	if !ok {
		return List{}, ErrNotList.With(slog.String("kind", KindOf(v))).at(at)
	}

	return l, nil
}

func (ev *evalContext) evalHead(n *Head, env *Environment) (Value, error) {
	l, err := ev.evalListOperand(n.Operand, env, n)
	if err != nil {
		return nil, err
	}

	if l.Len() == 0 {
		return nil, ErrEmptyList.at(n)
	}

	return l.At(0), nil
}

func (ev *evalContext) evalTail(n *Tail, env *Environment) (Value, error) {
	l, err := ev.evalListOperand(n.Operand, env, n)
	if err != nil {
		return nil, err
	}

	if l.Len() < 2 {
		return nil, ErrShortList.With(slog.Int("len", l.Len())).at(n)
	}

	return NewList(l.elems[1:]...), nil
}
