package lang

//go:generate go tool stringer --type TokenType --output token_string.go

// TokenType is the lexical category of a [Token].
type TokenType int

// Token types. Constants are named after the category they denote.
const (
	UNKNOWN TokenType = iota
	EOF

	// Literals.
	INT
	REAL
	ID
	TRUE
	FALSE

	// Operators.
	ADD
	SUB
	MULT
	DIV
	CONCAT
	AND
	OR
	NOT
	EQ
	NEQ
	LT
	LTE
	GT
	GTE

	// Keywords.
	LET
	IN
	FUN
	APPLY
	IF
	THEN
	ELSE
	LIST
	SET
	UNION
	INTERSECT
	SWITCH
	CASE
	DEFAULT
	HD
	TL

	// Punctuation.
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	COMMA
	SEMICOLON
	ASSIGN
	TO
)

// keywords maps reserved words to their token types.
//
//nolint:gochecknoglobals
var keywords = map[string]TokenType{
	"let":       LET,
	"in":        IN,
	"hd":        HD,
	"tl":        TL,
	"list":      LIST,
	"and":       AND,
	"or":        OR,
	"not":       NOT,
	"fun":       FUN,
	"apply":     APPLY,
	"if":        IF,
	"then":      THEN,
	"else":      ELSE,
	"true":      TRUE,
	"false":     FALSE,
	"set":       SET,
	"union":     UNION,
	"intersect": INTERSECT,
	"switch":    SWITCH,
	"case":      CASE,
	"default":   DEFAULT,
}

// spellings holds the fixed source text of operator and punctuation tokens.
//
//nolint:gochecknoglobals
var spellings = map[TokenType]string{
	ADD:       "+",
	SUB:       "-",
	MULT:      "*",
	DIV:       "/",
	CONCAT:    "++",
	EQ:        "=",
	NEQ:       "!=",
	LT:        "<",
	LTE:       "<=",
	GT:        ">",
	GTE:       ">=",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	COMMA:     ",",
	SEMICOLON: ";",
	ASSIGN:    ":=",
	TO:        "~",
}

func init() {
	for word, typ := range keywords {
		spellings[typ] = word
	}
}

// Keywords returns the reserved words of the language in no particular order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for word := range keywords {
		words = append(words, word)
	}

	return words
}

// LookupKeyword returns the token type of ident: its keyword type if ident is
// reserved, else [ID].
func LookupKeyword(ident string) TokenType {
	if typ, ok := keywords[ident]; ok {
		return typ
	}

	return ID
}

// Spelling returns the fixed source text of typ, or "" if tokens of that type
// carry variable text.
func (t TokenType) Spelling() string { return spellings[t] }

// IsValued reports whether tokens of type t carry variable text.
func (t TokenType) IsValued() bool {
	switch t {
	case INT, REAL, ID, UNKNOWN:
		return true
	default:
		return false
	}
}

// Token is a lexical unit: a type and the source text it was read from.
type Token struct {
	Type   TokenType
	Lexeme string
}

// MakeToken returns a token of type typ. Fixed-spelling types ignore lexeme.
func MakeToken(typ TokenType, lexeme string) Token {
	if s := typ.Spelling(); s != "" {
		lexeme = s
	}

	return Token{Type: typ, Lexeme: lexeme}
}

// Equal reports whether t and o denote the same binding.
// Only the lexemes are compared.
func (t Token) Equal(o Token) bool { return t.Lexeme == o.Lexeme }

// String renders valued tokens as TYPE(lexeme) and all others as TYPE.
func (t Token) String() string {
	if t.Type.IsValued() {
		return t.Type.String() + "(" + t.Lexeme + ")"
	}

	return t.Type.String()
}
