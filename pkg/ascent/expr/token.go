package expr

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNumber
	TokenIdent
	TokenOperator
	TokenLParen
	TokenRParen
	TokenComma
)

// String returns a short description used in error messages.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenNumber:
		return "number"
	case TokenIdent:
		return "identifier"
	case TokenOperator:
		return "operator"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenComma:
		return "','"
	default:
		return "unknown token"
	}
}

// Token is a single lexical unit. Tokens are immutable values.
type Token struct {
	Kind TokenKind
	// Text is the raw source span.
	Text string
	// Pos is the byte offset of the first character.
	Pos int
	// Value holds the parsed literal for TokenNumber.
	Value float32
	// Op holds the operator for TokenOperator.
	Op Operator
}

// describe renders the token for error messages.
func (t Token) describe() string {
	switch t.Kind {
	case TokenEOF:
		return "end of input"
	case TokenNumber, TokenIdent:
		return t.Kind.String() + " " + quote(t.Text)
	default:
		return quote(t.Text)
	}
}

func quote(s string) string {
	return "'" + s + "'"
}
