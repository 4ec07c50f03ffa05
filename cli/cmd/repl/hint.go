package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/letlang/lang"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// applyTarget returns the callee name of the innermost "apply NAME" that
// precedes the cursor and is still waiting for its argument.
func applyTarget(input string, cursor int) (name string, ok bool) {
	if cursor > len(input) {
		cursor = len(input)
	}

	fields := strings.FieldsFunc(input[:cursor], isWordBoundary)

	// Only complete words count: a trailing partial word is still being
	// typed.
	if cursor > 0 && !isWordBoundary(rune(input[cursor-1])) && len(fields) > 0 {
		fields = fields[:len(fields)-1]
	}

	n := len(fields)
	if n < 2 || fields[n-2] != lang.APPLY.Spelling() {
		return "", false
	}

	return fields[n-1], true
}

// signature returns the callee and parameter names of the function or
// closure bound to name in the session.
func signature(session *Session, name string) (callee, param string, ok bool) {
	if session == nil {
		return "", "", false
	}

	v, found := session.Lookup(name)
	if !found {
		return "", "", false
	}

	switch fn := v.(type) {
	case lang.Function:
		if fn.Def == nil || fn.Def.Lambda == nil {
			return "", "", false
		}

		return name, fn.Def.Lambda.Param.Lexeme, true

	case lang.ClosureValue:
		if fn.Lambda == nil {
			return "", "", false
		}

		return name, fn.Lambda.Param.Lexeme, true
	}

	return "", "", false
}

// renderSignatureHint renders "apply NAME PARAM" with the parameter
// highlighted.
func renderSignatureHint(callee, param string) string {
	return signatureStyle.Render(lang.APPLY.Spelling()+" ") +
		signatureNameStyle.Render(callee) +
		signatureStyle.Render(" ") +
		currentParamStyle.Render(param)
}
