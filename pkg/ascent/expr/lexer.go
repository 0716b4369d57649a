package expr

import (
	"iter"
	"strconv"
	"unicode/utf8"
)

// Lexer produces tokens on demand from an expression string.
// A Lexer is single use: once it returns an error it keeps returning that
// error, and restarting requires a new Lexer.
type Lexer struct {
	src string
	pos int
	err error
}

// NewLexer creates a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Tokens lazily yields the tokens of src, ending with a TokenEOF token.
// Iteration stops after the first error.
func Tokens(src string) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		lx := NewLexer(src)
		for {
			tok, err := lx.Next()
			if !yield(tok, err) || err != nil || tok.Kind == TokenEOF {
				return
			}
		}
	}
}

// Tokenize returns every token of src, including the trailing TokenEOF.
func Tokenize(src string) ([]Token, error) {
	var toks []Token
	for tok, err := range Tokens(src) {
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
	return toks, nil
}

// Next returns the next token. At the end of input it returns a TokenEOF
// token positioned at len(src), repeatedly.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}
	tok, err := l.scan()
	if err != nil {
		l.err = err
	}
	return tok, err
}

func (l *Lexer) scan() (Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.src) {
		return Token{Kind: TokenEOF, Pos: len(l.src)}, nil
	}

	start := l.pos
	ch := l.src[l.pos]

	switch {
	case isDigit(ch) || (ch == '.' && isDigit(l.peekAt(1))):
		return l.scanNumber()
	case isIdentStart(ch):
		return l.scanIdent(), nil
	}

	switch ch {
	case '(':
		l.pos++
		return Token{Kind: TokenLParen, Text: "(", Pos: start}, nil
	case ')':
		l.pos++
		return Token{Kind: TokenRParen, Text: ")", Pos: start}, nil
	case ',':
		l.pos++
		return Token{Kind: TokenComma, Text: ",", Pos: start}, nil
	case '+':
		return l.op(OpAdd, 1), nil
	case '-':
		return l.op(OpSub, 1), nil
	case '*':
		return l.op(OpMul, 1), nil
	case '/':
		return l.op(OpDiv, 1), nil
	case '%':
		return l.op(OpMod, 1), nil
	case '^':
		return l.op(OpPow, 1), nil
	case '<':
		if l.peekAt(1) == '=' {
			return l.op(OpLe, 2), nil
		}
		return l.op(OpLt, 1), nil
	case '>':
		if l.peekAt(1) == '=' {
			return l.op(OpGe, 2), nil
		}
		return l.op(OpGt, 1), nil
	case '!':
		if l.peekAt(1) == '=' {
			return l.op(OpNe, 2), nil
		}
		return l.op(OpNot, 1), nil
	case '=':
		if l.peekAt(1) == '=' {
			return l.op(OpEq, 2), nil
		}
		return Token{}, newError(KindLex, StageLex, start, "unexpected '=', did you mean '=='?")
	case '&':
		if l.peekAt(1) == '&' {
			return l.op(OpAnd, 2), nil
		}
		return Token{}, newError(KindLex, StageLex, start, "unexpected '&', did you mean '&&'?")
	case '|':
		if l.peekAt(1) == '|' {
			return l.op(OpOr, 2), nil
		}
		return Token{}, newError(KindLex, StageLex, start, "unexpected '|', did you mean '||'?")
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return Token{}, newError(KindLex, StageLex, start, "unrecognized character %q", r)
}

func (l *Lexer) op(op Operator, width int) Token {
	tok := Token{Kind: TokenOperator, Text: l.src[l.pos : l.pos+width], Pos: l.pos, Op: op}
	l.pos += width
	return tok
}

// scanNumber reads digits with an optional single decimal point and an
// optional exponent.
func (l *Lexer) scanNumber() (Token, error) {
	start := l.pos
	seenDot := false

	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		if isDigit(ch) {
			l.pos++
			continue
		}
		if ch == '.' {
			if seenDot {
				return Token{}, newError(KindLex, StageLex, l.pos, "malformed number: second decimal point")
			}
			seenDot = true
			l.pos++
			continue
		}
		break
	}

	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		l.pos++
		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}
		if l.pos >= len(l.src) || !isDigit(l.src[l.pos]) {
			return Token{}, newError(KindLex, StageLex, l.pos, "malformed number: exponent has no digits")
		}
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}

	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		return Token{}, newError(KindLex, StageLex, l.pos, "malformed number: unexpected decimal point")
	}

	text := l.src[start:l.pos]
	v, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return Token{}, newError(KindLex, StageLex, start, "malformed number %s: out of range", quote(text))
	}
	return Token{Kind: TokenNumber, Text: text, Pos: start, Value: float32(v)}, nil
}

// scanIdent reads a name made of dot-separated segments, e.g. "x",
// "query.speed" or "math.sin".
func (l *Lexer) scanIdent() Token {
	start := l.pos
	for {
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isIdentStart(l.src[l.pos+1]) {
			l.pos++
			continue
		}
		break
	}
	return Token{Kind: TokenIdent, Text: l.src[start:l.pos], Pos: start}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			l.pos++
		default:
			return
		}
	}
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
