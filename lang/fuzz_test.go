package lang

import (
	"context"
	"testing"
	"time"
)

func FuzzParseEvaluate(f *testing.F) {
	for _, seed := range []string{
		"let x := 3 in x + 4",
		"list(1,2,3) ++ list(4,5)",
		"hd(list(1,2,3))",
		"set[1,2] union set[2,3]",
		"switch (2) case (1) 10 case (2) 20 default 0",
		"fun fact n ~ self ~ if n <= 1 then 1 else n * (apply self (n - 1))\napply fact 5",
		"; comment ; 1 / 0",
		"let x := in 5\n1",
		"((((",
		"3. .5 : ! # ~",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		p := NewParserString(src, WithMaxDepth(200))
		prog := p.Parse(ctx)

		if prog == nil {
			t.Fatal("Parse returned nil")
		}

		// Formatting must tolerate partial trees.
		_ = Format(prog)

		if p.HasError() {
			return
		}

		_, _ = prog.Evaluate(ctx, nil, WithMaxEvalDepth(500))
	})
}
