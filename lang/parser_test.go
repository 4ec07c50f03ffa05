package lang

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/letlang/log"
)

func mustParse(t *testing.T, src string, opts ...Option) *Program {
	t.Helper()

	prog, err := ParseString(context.Background(), src, opts...)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", src, err)
	}

	return prog
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		check func(t *testing.T, item Node)
	}{
		{
			name: "single let",
			src:  "let x := 3 in x + 4",
			check: func(t *testing.T, item Node) {
				let, ok := item.(*Let)
				if !ok || let.Multi() || let.Bindings[0].Name.Lexeme != "x" {
					t.Fatalf("got %#v", item)
				}

				if _, ok := let.Body.(*BinaryOp); !ok {
					t.Errorf("body = %T, want *BinaryOp", let.Body)
				}
			},
		},
		{
			name: "multi let in declaration order",
			src:  "let b := 1 a := 2 c := 3 in a",
			check: func(t *testing.T, item Node) {
				let := item.(*Let)
				if !let.Multi() {
					t.Fatal("expected multi-binding let")
				}

				var names []string
				for _, b := range let.Bindings {
					names = append(names, b.Name.Lexeme)
				}

				if got := strings.Join(names, ","); got != "b,a,c" {
					t.Errorf("bindings = %s, want b,a,c", got)
				}
			},
		},
		{
			name: "closure lambda",
			src:  "fun f x ~ self ~ apply self x",
			check: func(t *testing.T, item Node) {
				def := item.(*FunctionDef)
				if def.Name.Lexeme != "f" || def.Lambda.Param.Lexeme != "x" {
					t.Fatalf("got %#v", def)
				}

				if def.Lambda.Closure == nil || def.Lambda.Closure.Self.Lexeme != "self" {
					t.Errorf("closure = %#v", def.Lambda.Closure)
				}
			},
		},
		{
			name: "lambda body starting with identifier",
			src:  "fun f x ~ y + x",
			check: func(t *testing.T, item Node) {
				lam := item.(*FunctionDef).Lambda
				if lam.Closure != nil {
					t.Fatal("unexpected closure")
				}

				if _, ok := lam.Body.(*BinaryOp); !ok {
					t.Errorf("body = %T, want *BinaryOp", lam.Body)
				}
			},
		},
		{
			name: "apply inline lambda",
			src:  "apply (x ~ x * 2) 21",
			check: func(t *testing.T, item Node) {
				app := item.(*Apply)
				if _, ok := app.Callee.(*Lambda); !ok {
					t.Errorf("callee = %T, want *Lambda", app.Callee)
				}
			},
		},
		{
			name: "switch with expression scrutinee",
			src:  "switch (1 + 1) case (1) 10 case (2) 20 default 0",
			check: func(t *testing.T, item Node) {
				sw := item.(*Switch)
				if len(sw.Cases) != 2 || sw.Default == nil {
					t.Fatalf("got %#v", sw)
				}

				if _, ok := sw.Scrutinee.(*BinaryOp); !ok {
					t.Errorf("scrutinee = %T", sw.Scrutinee)
				}
			},
		},
		{
			name: "precedence",
			src:  "1 + 2 * 3 < 10 and true",
			check: func(t *testing.T, item Node) {
				and := item.(*BinaryOp)
				if and.Op.Type != AND {
					t.Fatalf("root op = %v", and.Op)
				}

				rel := and.Left.(*RelOp)
				add := rel.Left.(*BinaryOp)

				if add.Op.Type != ADD || add.Right.(*BinaryOp).Op.Type != MULT {
					t.Errorf("unexpected tree %s", Format(item))
				}
			},
		},
		{
			name: "head and tail",
			src:  "hd tl list(1, 2, 3)",
			check: func(t *testing.T, item Node) {
				h := item.(*Head)
				tl := h.Operand.(*Tail)

				if l := tl.Operand.(*ListLiteral); len(l.Elems) != 3 {
					t.Errorf("list has %d elements", len(l.Elems))
				}
			},
		},
		{
			name: "empty collections",
			src:  "list() ++ list()",
			check: func(t *testing.T, item Node) {
				op := item.(*BinaryOp)
				if op.Op.Type != CONCAT {
					t.Errorf("op = %v", op.Op)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := mustParse(t, tt.src)
			if len(prog.Items) != 1 {
				t.Fatalf("got %d items, want 1", len(prog.Items))
			}

			tt.check(t, prog.Items[0])
		})
	}
}

func TestParseLines(t *testing.T) {
	prog := mustParse(t, "1\n\nlet x := 2\nin x\n  fun f y ~ y")

	want := []int{1, 3, 5}
	for i, item := range prog.Items {
		if item.Line() != want[i] {
			t.Errorf("item %d line = %d, want %d", i, item.Line(), want[i])
		}
	}
}

func TestParseComments(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf, log.WithFormat(log.FormatText))
	prog := mustParse(t, "; squares of things ;\n1\n; more ;", WithLogger(logger))

	if got := strings.Join(prog.Comments, "|"); got != "squares of things|more" {
		t.Errorf("Comments = %q", got)
	}

	if len(prog.Items) != 1 {
		t.Errorf("got %d items, want 1", len(prog.Items))
	}

	if !strings.Contains(buf.String(), "squares of things") {
		t.Errorf("comment not logged: %q", buf.String())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantLine  int
		wantMsg   string
		wantItems int
	}{
		{"unterminated comment", "; abc", 1, "unterminated comment", 0},
		{"missing else", "if true then 1", 1, "expected else", 1},
		{"missing in", "let x := 1 2", 1, "expected in", 1},
		{"missing assignment in multi let", "let x := 1 y 2 in x", 1, "missing assignment", 1},
		{"bad case guard", "switch (1) case (list()) 2 default 3", 1, "case guard expected", 1},
		{"case without paren", "switch (1) case x 2 default 3", 1, "left paren expected", 1},
		{"unexpected token", ")", 1, "unexpected token RPAREN", 0},
		{"unknown character", "1 # 2", 1, "unexpected token UNKNOWN(#)", 1},
		{"non-ASCII digit", "٣", 1, "unexpected token UNKNOWN(٣)", 0},
		{"function without name", "fun 3", 1, "function needs a name", 0},
		{"lambda without tilde", "fun f x x", 1, "expected ~", 1},
		{"unclosed paren", "(1 + 2", 1, "expected ) received EOF", 1},
		{"bad list element", "list(1, +)", 1, "invalid list element", 1},
		{"bad set", "set(1)", 1, "set expected [", 1},
		{"apply without callee", "apply 3 4", 1, "function name or lambda expression expected", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParserString(tt.src)
			prog := p.Parse(context.Background())

			if !p.HasError() {
				t.Fatal("HasError() = false")
			}

			d := p.Diagnostics()[0]
			if d.Line != tt.wantLine || !strings.Contains(d.Message, tt.wantMsg) {
				t.Errorf("first diagnostic = %v, want line %d containing %q", d, tt.wantLine, tt.wantMsg)
			}

			if len(prog.Items) != tt.wantItems {
				t.Errorf("got %d items, want %d", len(prog.Items), tt.wantItems)
			}
		})
	}
}

func TestParseRecovery(t *testing.T) {
	src := "let x := in 5\nlet y := 2 in y * 3\n"

	p := NewParserString(src)
	prog := p.Parse(context.Background())

	if !p.HasError() {
		t.Fatal("HasError() = false")
	}

	if d := p.Diagnostics(); len(d) != 1 || d[0].Line != 1 {
		t.Errorf("Diagnostics() = %v, want one on line 1", d)
	}

	if len(prog.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(prog.Items))
	}

	good := &Program{Items: prog.Items[1:]}

	v, err := good.Evaluate(context.Background(), nil)
	if err != nil || !Equal(v, Integer(6)) {
		t.Errorf("recovered statement = %v, %v; want 6", v, err)
	}

	if _, err := prog.Evaluate(context.Background(), nil); !errors.Is(err, ErrMalformed) {
		t.Errorf("evaluating malformed program: %v, want ErrMalformed", err)
	}
}

func TestParseRecoverySkipsRestOfLine(t *testing.T) {
	p := NewParserString(") ) 1 2\n3")
	prog := p.Parse(context.Background())

	if !p.HasError() {
		t.Fatal("HasError() = false")
	}

	if len(prog.Items) != 1 || Format(prog.Items[0]) != "3" {
		t.Errorf("items = %q, want [3]", Format(prog))
	}
}

func TestParseTerminatesOnMalformedLoops(t *testing.T) {
	for _, src := range []string{
		"switch (1) case (1) 2 case",
		"switch (1) case (1) 2 case (",
		"let x := 1 y := 2 z",
		"let a := 1 b",
		strings.Repeat("case ", 50),
	} {
		p := NewParserString(src)
		p.Parse(context.Background())

		if !p.HasError() {
			t.Errorf("%q: HasError() = false", src)
		}
	}
}

func TestParseMaxDepth(t *testing.T) {
	src := strings.Repeat("(", 5000) + "1" + strings.Repeat(")", 5000)

	p := NewParserString(src, WithMaxDepth(100))
	p.Parse(context.Background())

	d := p.Diagnostics()
	if len(d) != 1 || !strings.Contains(d[0].Message, "maximum nesting depth") {
		t.Errorf("Diagnostics() = %v", d)
	}

	// The default limit also stops runaway nesting.
	p = NewParserString(strings.Repeat("hd ", 20000) + "x")
	p.Parse(context.Background())

	if !p.HasError() {
		t.Error("default depth limit not enforced")
	}
}

func TestParseStringError(t *testing.T) {
	_, err := ParseString(context.Background(), "1\nlet in 3")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %T, want *ParseError", err)
	}

	if pe.Diagnostics[0].Line != 2 {
		t.Errorf("line = %d, want 2", pe.Diagnostics[0].Line)
	}

	if !strings.Contains(err.Error(), "2 | let in 3") {
		t.Errorf("Error() = %q, want source snippet", err.Error())
	}
}

func TestParseTracing(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf, log.WithLevel(log.LevelTrace), log.WithFormat(log.FormatText))

	p := NewParserString("1 + 2", WithLogger(logger))
	p.ToggleTracing()
	p.Parse(context.Background())

	out := buf.String()
	for _, want := range []string{"production=expr", "production=factor", "token=INT(2)"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace output missing %q", want)
		}
	}

	buf.Reset()

	p = NewParserString("1 + 2", WithLogger(logger), WithTracing(true))
	p.ToggleTracing()
	p.Parse(context.Background())

	if strings.Contains(buf.String(), "production=") {
		t.Errorf("tracing still enabled after toggle: %q", buf.String())
	}
}

func TestNewParserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.let")

	if err := os.WriteFile(path, []byte("fun sq x ~ x * x\napply sq 7\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := NewParserFile(path)
	if err != nil {
		t.Fatalf("NewParserFile: %v", err)
	}

	prog := p.Parse(context.Background())
	if p.HasError() {
		t.Fatalf("diagnostics: %v", p.Diagnostics())
	}

	v, err := prog.Evaluate(context.Background(), nil)
	if err != nil || !Equal(v, Integer(49)) {
		t.Errorf("Evaluate() = %v, %v; want 49", v, err)
	}

	_, err = NewParserFile(filepath.Join(dir, "missing.let"))
	if !errors.Is(err, ErrReadInput) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}
