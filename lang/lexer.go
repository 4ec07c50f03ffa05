package lang

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode"
)

// charClass partitions input runes for the lexer's state machine.
type charClass int

const (
	classLetter charClass = iota
	classDigit
	classSpace
	classOther
	classEnd
)

// Lexer converts a rune stream into tokens on demand.
// It holds one rune of lookahead that may be pushed back.
type Lexer struct {
	r         *bufio.Reader
	err       error
	line      int
	tokenLine int
	ch        rune
	class     charClass
	pushback  bool
	done      bool
}

// NewLexer returns a lexer reading from r.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{r: bufio.NewReader(r), line: 1, tokenLine: 1}
}

// NewLexerString returns a lexer reading from s.
func NewLexerString(s string) *Lexer { return NewLexer(strings.NewReader(s)) }

// Line returns the number of the line the lexer is currently reading.
// It counts newlines consumed so far, including lookahead.
func (l *Lexer) Line() int { return l.line }

// TokenLine returns the line on which the most recent token began.
func (l *Lexer) TokenLine() int { return l.tokenLine }

// Err returns the first read error other than [io.EOF], if any.
// A read error ends the token stream.
func (l *Lexer) Err() error { return l.err }

// Next returns the next token. At end of input it returns [EOF] repeatedly.
func (l *Lexer) Next() Token {
	l.skipSpace()
	l.tokenLine = l.line

	switch l.class {
	case classLetter:
		var b strings.Builder

		for l.class == classLetter || l.class == classDigit {
			b.WriteRune(l.ch)
			l.read()
		}

		l.unread()

		word := b.String()

		return Token{Type: LookupKeyword(word), Lexeme: word}

	case classDigit:
		var b strings.Builder

		l.digits(&b)

		if l.ch != '.' {
			l.unread()

			return Token{Type: INT, Lexeme: b.String()}
		}

		b.WriteRune(l.ch)
		l.read()
		l.digits(&b)
		l.unread()

		return Token{Type: REAL, Lexeme: b.String()}

	case classOther:
		return l.symbol()

	default:
		return Token{Type: EOF}
	}
}

// digits appends the run of digits starting at the current rune to b and
// leaves the first non-digit current.
func (l *Lexer) digits(b *strings.Builder) {
	for l.class == classDigit {
		b.WriteRune(l.ch)
		l.read()
	}
}

// symbol scans an operator or punctuation token starting at the current rune.
func (l *Lexer) symbol() Token {
	// follow consumes the next rune if it is want, returning ifMatch;
	// otherwise the rune is pushed back and orElse is returned.
	follow := func(want rune, ifMatch, orElse Token) Token {
		l.read()

		if l.ch == want && l.class != classEnd {
			return ifMatch
		}

		l.unread()

		return orElse
	}

	switch ch := l.ch; ch {
	case '.':
		l.read()

		if l.class != classDigit {
			l.unread()

			return Token{Type: UNKNOWN, Lexeme: "."}
		}

		var b strings.Builder

		b.WriteRune('.')
		l.digits(&b)
		l.unread()

		return Token{Type: REAL, Lexeme: b.String()}

	case ':':
		return follow('=', MakeToken(ASSIGN, ""), Token{Type: UNKNOWN, Lexeme: ":"})
	case '+':
		return follow('+', MakeToken(CONCAT, ""), MakeToken(ADD, ""))
	case '!':
		return follow('=', MakeToken(NEQ, ""), Token{Type: UNKNOWN, Lexeme: "!"})
	case '>':
		return follow('=', MakeToken(GTE, ""), MakeToken(GT, ""))
	case '<':
		return follow('=', MakeToken(LTE, ""), MakeToken(LT, ""))
	case '-':
		return MakeToken(SUB, "")
	case '*':
		return MakeToken(MULT, "")
	case '/':
		return MakeToken(DIV, "")
	case '(':
		return MakeToken(LPAREN, "")
	case ')':
		return MakeToken(RPAREN, "")
	case '[':
		return MakeToken(LBRACKET, "")
	case ']':
		return MakeToken(RBRACKET, "")
	case ',':
		return MakeToken(COMMA, "")
	case ';':
		return MakeToken(SEMICOLON, "")
	case '~':
		return MakeToken(TO, "")
	case '=':
		return MakeToken(EQ, "")
	default:
		return Token{Type: UNKNOWN, Lexeme: string(ch)}
	}
}

func (l *Lexer) skipSpace() {
	l.read()

	for l.class == classSpace {
		l.read()
	}
}

// read advances to the next rune, or re-delivers the current one if it was
// pushed back. Newlines are counted when first read only.
func (l *Lexer) read() {
	if l.pushback {
		l.pushback = false

		return
	}

	if l.done {
		l.ch, l.class = 0, classEnd

		return
	}

	ch, _, err := l.r.ReadRune()
	if err != nil {
		if !errors.Is(err, io.EOF) && l.err == nil {
			l.err = ErrReadInput.Wrap(err)
		}

		l.ch, l.class, l.done = 0, classEnd, true

		return
	}

	l.ch = ch

	switch {
	case unicode.IsLetter(ch):
		l.class = classLetter
	case '0' <= ch && ch <= '9':
		l.class = classDigit
	case unicode.IsSpace(ch):
		l.class = classSpace
	default:
		l.class = classOther
	}

	if ch == '\n' {
		l.line++
	}
}

// unread pushes the current rune back so the next read delivers it again.
func (l *Lexer) unread() { l.pushback = true }
