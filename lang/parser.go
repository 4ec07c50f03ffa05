package lang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Parser builds a [Program] from a token stream by recursive descent with a
// single token of lookahead.
//
// Grammar violations do not stop the parse. Each one is recorded as a
// [Diagnostic] and logged, the error flag is set, and parsing continues.
// The resulting tree may then contain nil children and must not be
// evaluated; check [Parser.HasError] first.
type Parser struct {
	ctx    context.Context
	lex    *Lexer
	opts   options
	source string
	diags  []Diagnostic

	next      Token
	nextLine  int
	ahead     *Token
	aheadLine int
	consumed  int
	depth     int
	halted    bool
}

// NewParser returns a parser reading source text from r.
func NewParser(r io.Reader, opts ...Option) *Parser {
	return &Parser{lex: NewLexer(r), opts: makeOptions(opts...)}
}

// NewParserString returns a parser reading source text from s.
func NewParserString(s string, opts ...Option) *Parser {
	p := NewParser(strings.NewReader(s), opts...)
	p.source = s

	return p
}

// NewParserFile returns a parser reading source text from the file at path.
func NewParserFile(path string, opts ...Option) (*Parser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("path", path))
	}

	return NewParserString(string(data), opts...), nil
}

// ToggleTracing switches tracing of productions and fetched tokens on or
// off. Tracing is logged at the trace level and does not affect the result.
func (p *Parser) ToggleTracing() { p.opts.tracing = !p.opts.tracing }

// HasError reports whether any diagnostic has been recorded.
func (p *Parser) HasError() bool { return len(p.diags) > 0 }

// Diagnostics returns the recorded diagnostics in the order they occurred.
func (p *Parser) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), p.diags...)
}

// Err returns a [*ParseError] describing the recorded diagnostics, or nil.
func (p *Parser) Err() error {
	if !p.HasError() {
		return nil
	}

	return &ParseError{Diagnostics: p.Diagnostics(), Source: p.source}
}

// Parse parses the whole input.
func (p *Parser) Parse(ctx context.Context) *Program {
	p.ctx = ctx

	p.advance()

	prog := p.program()

	if p.next.Type != EOF {
		p.errorf("unexpected token %s", p.next)
	}

	if err := p.lex.Err(); err != nil {
		p.record(p.nextLine, err.Error())
	}

	p.opts.logger.TraceContext(ctx, "parse complete",
		slog.Int("items", len(prog.Items)),
		slog.Int("diagnostics", len(p.diags)))

	return prog
}

// ParseString parses src. If the parse records diagnostics, the partial
// program is returned together with a [*ParseError].
func ParseString(ctx context.Context, src string, opts ...Option) (*Program, error) {
	p := NewParserString(src, opts...)
	prog := p.Parse(ctx)

	return prog, p.Err()
}

// prog -> { comment | funOrExpr }
func (p *Parser) program() *Program {
	defer p.trace("prog")()

	prog := &Program{pos: pos{line: p.nextLine}}

	for p.next.Type != EOF {
		if p.next.Type == SEMICOLON {
			if text, ok := p.comment(); ok {
				prog.Comments = append(prog.Comments, text)
			}

			continue
		}

		line, before, errs := p.nextLine, p.consumed, len(p.diags)

		if item := p.funOrExpr(); !isNil(item) {
			prog.Items = append(prog.Items, item)
		}

		if len(p.diags) > errs || p.consumed == before {
			p.synchronize(line, p.consumed == before)
		}
	}

	return prog
}

// comment consumes "; tokens... ;" and returns the text between the
// semicolons.
func (p *Parser) comment() (string, bool) {
	line := p.nextLine

	p.advance()

	var words []string

	for p.next.Type != SEMICOLON {
		if p.next.Type == EOF {
			p.errorAt(line, "unterminated comment")

			return "", false
		}

		words = append(words, p.next.Lexeme)
		p.advance()
	}

	p.advance()

	text := strings.Join(words, " ")

	p.opts.logger.InfoContext(p.ctx, "comment",
		slog.String("comment", text), slog.Int("line", line))

	return text, true
}

// synchronize skips tokens until one that can begin a top-level item on a
// line after line, or EOF. If force is set, at least one token is skipped.
func (p *Parser) synchronize(line int, force bool) {
	if force && p.next.Type != EOF {
		p.advance()
	}

	for p.next.Type != EOF && (p.nextLine <= line || !startsItem(p.next.Type)) {
		p.advance()
	}
}

func startsItem(t TokenType) bool {
	switch t {
	case FUN, LET, APPLY, IF, SWITCH, NOT, ID, INT, REAL, TRUE, FALSE,
		LIST, SET, HD, TL, LPAREN, SEMICOLON:
		return true
	default:
		return false
	}
}

// funOrExpr -> FUN ID lambda | expr
func (p *Parser) funOrExpr() Node {
	if p.next.Type != FUN {
		return p.expr()
	}

	line := p.nextLine

	p.advance()

	if p.next.Type != ID {
		p.errorf("function needs a name, saw %s", p.next)

		return nil
	}

	def := &FunctionDef{pos: pos{line: line}, Name: p.next}

	p.advance()

	def.Lambda = p.lambda()

	return def
}

// lambda -> ID TO expr | ID TO ID TO expr
func (p *Parser) lambda() *Lambda {
	exit, ok := p.enter("lambda")
	defer exit()

	if !ok {
		return nil
	}

	if p.next.Type != ID {
		p.errorf("lambda expression requires a parameter, saw %s", p.next)

		return nil
	}

	lam := &Lambda{pos: pos{line: p.nextLine}, Param: p.next}

	p.advance()

	if !p.expect(TO, "expected ~") {
		return lam
	}

	if p.next.Type == ID && p.peek().Type == TO {
		c := &Closure{pos: pos{line: p.nextLine}, Self: p.next}

		p.advance()
		p.advance()

		c.Body = p.expr()
		lam.Closure = c

		return lam
	}

	lam.Body = p.expr()

	return lam
}

// expr -> LET bindings IN expr
//
//	| APPLY (ID | '(' lambda ')') expr
//	| IF expr THEN expr ELSE expr
//	| SWITCH '(' expr ')' { CASE '(' factor ')' expr } DEFAULT expr
//	| NOT rexpr
//	| rexpr { (AND | OR) rexpr }
func (p *Parser) expr() Node {
	exit, ok := p.enter("expr")
	defer exit()

	if !ok {
		return nil
	}

	switch p.next.Type {
	case LET:
		return p.let()
	case APPLY:
		return p.apply()
	case IF:
		return p.ifExpr()
	case SWITCH:
		return p.switchExpr()
	case NOT:
		n := &UnaryOp{pos: pos{line: p.nextLine}, Op: p.next}

		p.advance()

		n.Operand = p.rexpr()

		return n
	}

	left := p.rexpr()

	for p.next.Type == AND || p.next.Type == OR {
		n := &BinaryOp{pos: pos{line: p.nextLine}, Left: left, Op: p.next}

		p.advance()

		n.Right = p.rexpr()
		left = n
	}

	return left
}

// let -> LET ID ASSIGN expr { ID ASSIGN expr } IN expr
func (p *Parser) let() Node {
	n := &Let{pos: pos{line: p.nextLine}}

	p.advance()

	if p.next.Type != ID {
		p.errorf("let expression missing variable, saw %s", p.next)

		return nil
	}

	for p.next.Type == ID {
		b := Binding{Name: p.next}

		p.advance()

		if !p.expect(ASSIGN, "let expression missing assignment") {
			return n
		}

		b.Value = p.expr()
		n.Bindings = append(n.Bindings, b)
	}

	if !p.expect(IN, "let expression expected in") {
		return n
	}

	n.Body = p.expr()

	return n
}

// apply -> APPLY (ID | '(' lambda ')') expr
func (p *Parser) apply() Node {
	n := &Apply{pos: pos{line: p.nextLine}}

	p.advance()

	switch p.next.Type {
	case ID:
		n.Callee = &Identifier{pos: pos{line: p.nextLine}, Name: p.next}

		p.advance()

	case LPAREN:
		p.advance()

		if lam := p.lambda(); lam != nil {
			n.Callee = lam
		}

		if !p.expect(RPAREN, "closing paren expected") {
			return n
		}

	default:
		p.errorf("function name or lambda expression expected, saw %s", p.next)

		return nil
	}

	n.Arg = p.expr()

	return n
}

// if -> IF expr THEN expr ELSE expr
func (p *Parser) ifExpr() Node {
	n := &If{pos: pos{line: p.nextLine}}

	p.advance()

	n.Cond = p.expr()

	if !p.expect(THEN, "expected then") {
		return n
	}

	n.Then = p.expr()

	if !p.expect(ELSE, "expected else") {
		return n
	}

	n.Else = p.expr()

	return n
}

// switch -> SWITCH '(' expr ')' { CASE '(' factor ')' expr } DEFAULT expr
func (p *Parser) switchExpr() Node {
	n := &Switch{pos: pos{line: p.nextLine}}

	p.advance()

	if !p.expect(LPAREN, "left paren expected") {
		return n
	}

	n.Scrutinee = p.expr()

	if !p.expect(RPAREN, "right paren expected") {
		return n
	}

	for p.next.Type == CASE {
		c := &Case{pos: pos{line: p.nextLine}}

		p.advance()

		if !p.expect(LPAREN, "left paren expected") {
			return n
		}

		switch p.next.Type {
		case INT, REAL, TRUE, FALSE:
			c.Guard = &Literal{pos: pos{line: p.nextLine}, Token: p.next}
		case ID:
			c.Guard = &Identifier{pos: pos{line: p.nextLine}, Name: p.next}
		default:
			p.errorf("case guard expected, saw %s", p.next)

			return n
		}

		p.advance()

		if !p.expect(RPAREN, "right paren expected") {
			return n
		}

		c.Branch = p.expr()
		n.Cases = append(n.Cases, c)
	}

	if !p.expect(DEFAULT, "default expected") {
		return n
	}

	n.Default = p.expr()

	return n
}

// rexpr -> mexpr [ (LT | LTE | GT | GTE | EQ | NEQ) mexpr ]
func (p *Parser) rexpr() Node {
	defer p.trace("rexpr")()

	left := p.mexpr()

	switch p.next.Type {
	case LT, LTE, GT, GTE, EQ, NEQ:
		n := &RelOp{pos: pos{line: p.nextLine}, Left: left, Op: p.next}

		p.advance()

		n.Right = p.mexpr()

		return n
	default:
		return left
	}
}

// mexpr -> term { (ADD | SUB) term }
func (p *Parser) mexpr() Node {
	defer p.trace("mexpr")()

	left := p.term()

	for p.next.Type == ADD || p.next.Type == SUB {
		n := &BinaryOp{pos: pos{line: p.nextLine}, Left: left, Op: p.next}

		p.advance()

		n.Right = p.term()
		left = n
	}

	return left
}

// term -> factor { (MULT | DIV | CONCAT | UNION | INTERSECT) factor }
func (p *Parser) term() Node {
	defer p.trace("term")()

	left := p.factor()

	for {
		switch p.next.Type {
		case MULT, DIV, CONCAT, UNION, INTERSECT:
		default:
			return left
		}

		n := &BinaryOp{pos: pos{line: p.nextLine}, Left: left, Op: p.next}

		p.advance()

		n.Right = p.factor()
		left = n
	}
}

// factor -> ID | INT | REAL | TRUE | FALSE
//
//	| LIST '(' [ elem { ',' elem } ] ')'
//	| SET '[' [ elem { ',' elem } ] ']'
//	| HD factor | TL factor
//	| '(' expr ')'
func (p *Parser) factor() Node {
	exit, ok := p.enter("factor")
	defer exit()

	if !ok {
		return nil
	}

	line := p.nextLine

	switch p.next.Type {
	case INT, REAL, TRUE, FALSE:
		n := &Literal{pos: pos{line: line}, Token: p.next}

		p.advance()

		return n

	case ID:
		n := &Identifier{pos: pos{line: line}, Name: p.next}

		p.advance()

		return n

	case LIST:
		p.advance()

		elems, _ := p.elems(LPAREN, RPAREN, "list")

		return &ListLiteral{pos: pos{line: line}, Elems: elems}

	case SET:
		p.advance()

		elems, _ := p.elems(LBRACKET, RBRACKET, "set")

		return &SetLiteral{pos: pos{line: line}, Elems: elems}

	case HD:
		p.advance()

		return &Head{pos: pos{line: line}, Operand: p.factor()}

	case TL:
		p.advance()

		return &Tail{pos: pos{line: line}, Operand: p.factor()}

	case LPAREN:
		p.advance()

		n := p.expr()

		if p.next.Type != RPAREN {
			p.errorf("expected ) received %s", p.next)

			return n
		}

		p.advance()

		return n

	default:
		p.errorf("unexpected token %s", p.next)

		return nil
	}
}

// elems parses a delimited, comma-separated sequence of INT, REAL or ID
// tokens. On a malformed element the elements read so far are returned.
func (p *Parser) elems(open, closing TokenType, what string) ([]Node, bool) {
	if !p.expect(open, fmt.Sprintf("%s expected %s", what, open.Spelling())) {
		return nil, false
	}

	var elems []Node

	if p.next.Type == closing {
		p.advance()

		return elems, true
	}

	for {
		switch p.next.Type {
		case INT, REAL:
			elems = append(elems, &Literal{pos: pos{line: p.nextLine}, Token: p.next})
		case ID:
			elems = append(elems, &Identifier{pos: pos{line: p.nextLine}, Name: p.next})
		default:
			p.errorf("invalid %s element %s", what, p.next)

			return elems, false
		}

		p.advance()

		if p.next.Type != COMMA {
			break
		}

		p.advance()
	}

	if !p.expect(closing, fmt.Sprintf("invalid %s, expected %s", what, closing.Spelling())) {
		return elems, false
	}

	return elems, true
}

// expect consumes the next token if it has type t. Otherwise it records msg
// and leaves the token in place.
func (p *Parser) expect(t TokenType, msg string) bool {
	if p.next.Type != t {
		p.errorf("%s, saw %s", msg, p.next)

		return false
	}

	p.advance()

	return true
}

// advance fetches the next token into the lookahead.
func (p *Parser) advance() {
	if p.halted {
		p.next = Token{Type: EOF}

		return
	}

	if p.ahead != nil {
		p.next, p.nextLine = *p.ahead, p.aheadLine
		p.ahead = nil
	} else {
		p.next = p.lex.Next()
		p.nextLine = p.lex.TokenLine()
	}

	p.consumed++

	if p.opts.tracing {
		p.opts.logger.TraceContext(p.ctx, "next token",
			slog.String("token", p.next.String()), slog.Int("line", p.nextLine))
	}
}

// peek returns the token following the lookahead without consuming it.
func (p *Parser) peek() Token {
	if p.ahead == nil {
		t := p.lex.Next()
		p.ahead, p.aheadLine = &t, p.lex.TokenLine()
	}

	return *p.ahead
}

// enter marks entry into a recursive production. It reports false once the
// nesting limit is exceeded, after which the parse is halted. The returned
// function must be deferred.
func (p *Parser) enter(production string) (func(), bool) {
	exit := p.trace(production)

	p.depth++

	leave := func() {
		p.depth--
		exit()
	}

	if p.halted {
		return leave, false
	}

	if p.opts.maxDepth > 0 && p.depth > p.opts.maxDepth {
		p.errorf("maximum nesting depth %d exceeded", p.opts.maxDepth)

		p.halted = true
		p.next = Token{Type: EOF}

		return leave, false
	}

	return leave, true
}

// trace logs entry into production and returns a function that logs exit.
func (p *Parser) trace(production string) func() {
	if !p.opts.tracing {
		return func() {}
	}

	p.opts.logger.TraceContext(p.ctx, "enter", slog.String("production", production))

	return func() {
		p.opts.logger.TraceContext(p.ctx, "exit", slog.String("production", production))
	}
}

func (p *Parser) errorf(format string, args ...any) {
	p.errorAt(p.nextLine, fmt.Sprintf(format, args...))
}

// errorAt records a diagnostic. Nothing is recorded once the parse has been
// halted.
func (p *Parser) errorAt(line int, msg string) {
	if p.halted {
		return
	}

	p.record(line, msg)
}

func (p *Parser) record(line int, msg string) {
	p.diags = append(p.diags, Diagnostic{Line: line, Message: msg})

	p.opts.logger.ErrorContext(p.ctx, msg, slog.Int("line", line))
}
