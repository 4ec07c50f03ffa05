// Package lang implements the letlang expression language: a lexer, a
// recursive-descent parser producing a syntax tree, and a tree-walking
// evaluator over dynamically typed values.
//
// # Language
//
// A program is a sequence of function definitions and expressions:
//
//	; square numbers ;
//	fun square x ~ x * x
//	let y := 3 in apply square y
//
// Expressions include let bindings (single or multiple), lambda application
// with apply, if/then/else, an integer switch, Boolean and relational
// operators, arithmetic on integers and reals, lists (list(1, 2), ++, hd,
// tl) and sets (set[1, 2], union, intersect). Operands are never converted
// implicitly: 1 + 1.0 is an error.
//
// A lambda written "x ~ self ~ body" binds self, while body evaluates, to a
// closure over the lambda itself, so "apply self e" recurses:
//
//	fun fact n ~ self ~ if n <= 1 then 1 else n * (apply self (n - 1))
//	apply fact 5
//
// # Parsing
//
//	prog, err := lang.ParseString(ctx, src, lang.WithLogger(logger))
//
// The parser records every grammar violation as a [Diagnostic] and keeps
// going, so a single parse can report several problems. A program with
// diagnostics may contain nil nodes and should not be evaluated.
//
// [ParseCached] and [ParseReader] memoize results by source content, so
// repeated parses of the same text share one read-only tree.
//
// # Evaluation
//
//	v, err := prog.Evaluate(ctx, lang.NewEnvironment())
//
// Scoping is by snapshot: every top-level expression, let body and function
// application evaluates in a copy of its environment, so bindings never leak
// to siblings. Function definitions are the exception and persist in the
// environment passed to [Program.Evaluate].
//
// Evaluation errors are [*Error] values derived from the package sentinels
// (match with [errors.Is]) and carry the source line of the offending node
// as a structured attribute.
package lang
