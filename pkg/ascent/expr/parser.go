package expr

// DefaultMaxDepth is the nesting limit used when none is configured.
const DefaultMaxDepth = 256

// DefaultMaxHeight is the tree height limit used when none is configured.
const DefaultMaxHeight = 10_000

// Option configures parsing.
type Option func(*options)

type options struct {
	maxDepth  int
	maxHeight int
}

func defaultOptions() options {
	return options{maxDepth: DefaultMaxDepth, maxHeight: DefaultMaxHeight}
}

// WithMaxDepth limits how deeply parentheses, prefix operators, exponents
// and function arguments may nest. Values <= 0 are ignored.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// WithMaxHeight limits the height of the syntax tree. Unlike the nesting
// depth it also counts every operator of a flat chain such as 1+1+1, since
// each one adds a level to the tree. Values <= 0 are ignored.
func WithMaxHeight(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxHeight = n
		}
	}
}

// Parser builds an AST from the token stream of a Lexer, one token of
// lookahead at a time. It stops at the first error.
type Parser struct {
	lex   *Lexer
	cur   Token
	depth int
	opts  options
}

// NewParser creates a parser over src.
func NewParser(src string, opts ...Option) *Parser {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Parser{lex: NewLexer(src), opts: o}
}

// Parse parses src into a single rooted AST.
func Parse(src string, opts ...Option) (Node, error) {
	return NewParser(src, opts...).Parse()
}

// Parse consumes the whole input and returns the root node.
//
// Precedence, low to high:
//
//	||
//	&&
//	==  !=
//	<  <=  >  >=
//	+  -
//	*  /  %
//	unary -  !
//	^            (right associative)
//	literals, identifiers, calls, parentheses
func (p *Parser) Parse() (Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	root, err := p.parseBinary(precOr)
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != TokenEOF {
		return nil, p.errorf(p.cur.Pos, "unexpected %s after complete expression", p.cur.describe())
	}
	return root, nil
}

func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) errorf(pos int, format string, args ...any) error {
	return newError(KindParse, StageParse, pos, format, args...)
}

// enter records one more level of nesting, failing once the limit is passed.
func (p *Parser) enter(pos int) error {
	p.depth++
	if p.depth > p.opts.maxDepth {
		return newError(KindNestingTooDeep, StageParse, pos,
			"expression nests deeper than %d levels", p.opts.maxDepth)
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// grow returns the height of a node over children of the given heights,
// failing once the limit is passed.
func (p *Parser) grow(pos int, children ...int) (int, error) {
	h := 0
	for _, c := range children {
		h = max(h, c)
	}
	h++
	if h > p.opts.maxHeight {
		return 0, newError(KindNestingTooDeep, StageParse, pos,
			"expression tree is taller than %d levels", p.opts.maxHeight)
	}
	return h, nil
}

// parseBinary implements precedence climbing for the left-associative
// binary operators at or above minPrec.
func (p *Parser) parseBinary(minPrec int) (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.cur.Kind == TokenOperator {
		op := p.cur.Op
		prec := op.precedence()
		if prec < minPrec || prec == precLowest || prec >= precUnary {
			break
		}
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		h, err := p.grow(pos, heightOf(left), heightOf(right))
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op, Left: left, Right: right, At: pos, height: h}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Node, error) {
	if p.cur.Kind == TokenOperator && p.cur.Op.isUnary() {
		op, pos := p.cur.Op, p.cur.Pos
		if err := p.enter(pos); err != nil {
			return nil, err
		}
		defer p.leave()

		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		h, err := p.grow(pos, heightOf(operand))
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: op, Operand: operand, At: pos, height: h}, nil
	}
	return p.parsePower()
}

// parsePower parses base ('^' exponent)?, where the exponent may itself
// carry a prefix operator and another '^', giving right associativity.
func (p *Parser) parsePower() (Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != TokenOperator || p.cur.Op != OpPow {
		return base, nil
	}

	pos := p.cur.Pos
	if err := p.enter(pos); err != nil {
		return nil, err
	}
	defer p.leave()

	if err := p.advance(); err != nil {
		return nil, err
	}
	exponent, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	h, err := p.grow(pos, heightOf(base), heightOf(exponent))
	if err != nil {
		return nil, err
	}
	return &BinaryOp{Op: OpPow, Left: base, Right: exponent, At: pos, height: h}, nil
}

func (p *Parser) parsePrimary() (Node, error) {
	tok := p.cur
	switch tok.Kind {
	case TokenNumber:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &NumberLiteral{Value: tok.Value, At: tok.Pos}, nil

	case TokenIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind == TokenLParen {
			return p.parseCall(tok)
		}
		return &Identifier{Name: tok.Text, At: tok.Pos}, nil

	case TokenLParen:
		return p.parseGroup()

	case TokenEOF:
		return nil, p.errorf(tok.Pos, "unexpected end of expression")

	default:
		return nil, p.errorf(tok.Pos, "unexpected %s", tok.describe())
	}
}

func (p *Parser) parseGroup() (Node, error) {
	open := p.cur.Pos
	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer p.leave()

	if err := p.advance(); err != nil {
		return nil, err
	}
	inner, err := p.parseBinary(precOr)
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != TokenRParen {
		return nil, p.errorf(p.cur.Pos, "expected ')' to close '(' at position %d, found %s", open, p.cur.describe())
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	h, err := p.grow(open, heightOf(inner))
	if err != nil {
		return nil, err
	}
	return &Grouping{Inner: inner, At: open, height: h}, nil
}

// parseCall parses the argument list of name(...) with the current token
// on '('. Function names and arities are checked against the registry here,
// so a Program never holds an unresolved call.
func (p *Parser) parseCall(name Token) (Node, error) {
	fn, ok := LookupFunction(name.Text)
	if !ok {
		return nil, newError(KindUnknownFunction, StageParse, name.Pos, "no function named %s", quote(name.Text))
	}
	if err := p.enter(p.cur.Pos); err != nil {
		return nil, err
	}
	defer p.leave()

	if err := p.advance(); err != nil {
		return nil, err
	}

	var args []Node
	if p.cur.Kind != TokenRParen {
		for {
			arg, err := p.parseBinary(precOr)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur.Kind != TokenComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if p.cur.Kind != TokenRParen {
		return nil, p.errorf(p.cur.Pos, "expected ',' or ')' in call to %s, found %s", name.Text, p.cur.describe())
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if len(args) != fn.Arity {
		return nil, newError(KindArityMismatch, StageParse, name.Pos,
			"%s takes %d argument(s), got %d", fn.Name, fn.Arity, len(args))
	}
	heights := make([]int, len(args))
	for i, arg := range args {
		heights[i] = heightOf(arg)
	}
	h, err := p.grow(name.Pos, heights...)
	if err != nil {
		return nil, err
	}
	return &FunctionCall{Name: fn.Name, Args: args, Fn: fn, At: name.Pos, height: h}, nil
}
