package expr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Scope resolves the root identifiers of an expression.
type Scope interface {
	Resolve(name string) (any, bool)
}

// MapScope is a Scope backed by a plain map.
type MapScope map[string]any

// Resolve implements Scope.
func (m MapScope) Resolve(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Env is what an expression is evaluated against. A nil Funcs map falls back
// to Builtins.
type Env struct {
	Scope Scope
	Funcs map[string]Func
}

// Expr is a parsed expression. It holds no state and can be evaluated
// concurrently.
type Expr struct {
	source string
	root   node
}

// Parse compiles a single expression.
//
// Supported syntax:
//   - identifiers with dotted paths and [index] access: `fractals.dragon.rules[0]`
//   - string, number, bool and null literals
//   - unary `! - +`, binary `* / % + -`, comparisons `< <= > >= == != === !==`
//   - `&&` / `||` returning the deciding operand, ternary `a ? b : c`
//   - calls of registered helpers: `len(items)`, `default(title, "untitled")`
func Parse(source string) (*Expr, error) {
	tokens, err := tokenize(source)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, errors.New("expr: empty expression")
	}
	stream := &tokenStream{tokens: tokens}
	root, err := parseTernary(stream)
	if err != nil {
		return nil, err
	}
	if tok, ok := stream.peek(); ok {
		return nil, fmt.Errorf("expr: offset %d: unexpected token %q", tok.pos, tok.raw)
	}
	return &Expr{source: source, root: root}, nil
}

// ParseList compiles a comma separated list of expressions, as used by
// argument lists. An empty source yields an empty list.
func ParseList(source string) ([]*Expr, error) {
	tokens, err := tokenize(source)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	stream := &tokenStream{tokens: tokens}
	var out []*Expr
	for {
		start := stream.pos
		root, err := parseTernary(stream)
		if err != nil {
			return nil, err
		}
		out = append(out, &Expr{source: joinRaw(tokens[start:stream.pos]), root: root})
		if !stream.match(tokenComma) {
			break
		}
	}
	if tok, ok := stream.peek(); ok {
		return nil, fmt.Errorf("expr: offset %d: unexpected token %q", tok.pos, tok.raw)
	}
	return out, nil
}

// MustParse is like Parse but panics on error.
func MustParse(source string) *Expr {
	e, err := Parse(source)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the source the expression was parsed from.
func (e *Expr) String() string {
	return e.source
}

// Eval evaluates the expression. Unknown identifiers evaluate to nil; calling
// an unknown helper or applying arithmetic to non numeric operands is an
// error.
func (e *Expr) Eval(env Env) (any, error) {
	if e == nil || e.root == nil {
		return nil, nil
	}
	if env.Funcs == nil {
		env.Funcs = Builtins()
	}
	return e.root.eval(&env)
}

func joinRaw(tokens []token) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.kind == tokenString {
			parts = append(parts, strconv.Quote(tok.raw))
			continue
		}
		parts = append(parts, tok.raw)
	}
	return strings.Join(parts, " ")
}

type node interface {
	eval(env *Env) (any, error)
}

type literalNode struct {
	value any
}

func (n literalNode) eval(*Env) (any, error) {
	return n.value, nil
}

type identNode struct {
	name string
}

func (n identNode) eval(env *Env) (any, error) {
	if env.Scope == nil {
		return nil, nil
	}
	v, ok := env.Scope.Resolve(n.name)
	if !ok {
		return nil, nil
	}
	return v, nil
}

type memberNode struct {
	target node
	name   string
}

func (n memberNode) eval(env *Env) (any, error) {
	target, err := n.target.eval(env)
	if err != nil {
		return nil, err
	}
	v, _ := Member(target, n.name)
	return v, nil
}

type indexNode struct {
	target node
	index  node
}

func (n indexNode) eval(env *Env) (any, error) {
	target, err := n.target.eval(env)
	if err != nil {
		return nil, err
	}
	idx, err := n.index.eval(env)
	if err != nil {
		return nil, err
	}
	v, _ := Index(target, idx)
	return v, nil
}

type callNode struct {
	name string
	args []node
}

func (n callNode) eval(env *Env) (any, error) {
	fn, ok := env.Funcs[n.name]
	if !ok || fn == nil {
		return nil, fmt.Errorf("expr: unknown function %q", n.name)
	}
	args := make([]any, 0, len(n.args))
	for _, arg := range n.args {
		v, err := arg.eval(env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	out, err := fn(args...)
	if err != nil {
		return nil, fmt.Errorf("expr: %s: %w", n.name, err)
	}
	return out, nil
}

type unaryNode struct {
	op    tokenKind
	inner node
}

func (n unaryNode) eval(env *Env) (any, error) {
	v, err := n.inner.eval(env)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case tokenNot:
		return !Truthy(v), nil
	case tokenMinus:
		f, err := arithmeticOperand("-", v)
		if err != nil {
			return nil, err
		}
		return -f, nil
	default:
		return arithmeticOperand("+", v)
	}
}

type logicalNode struct {
	op          tokenKind
	left, right node
}

func (n logicalNode) eval(env *Env) (any, error) {
	left, err := n.left.eval(env)
	if err != nil {
		return nil, err
	}
	if n.op == tokenOr && Truthy(left) {
		return left, nil
	}
	if n.op == tokenAnd && !Truthy(left) {
		return left, nil
	}
	return n.right.eval(env)
}

type ternaryNode struct {
	cond, then, otherwise node
}

func (n ternaryNode) eval(env *Env) (any, error) {
	cond, err := n.cond.eval(env)
	if err != nil {
		return nil, err
	}
	if Truthy(cond) {
		return n.then.eval(env)
	}
	return n.otherwise.eval(env)
}

type binaryNode struct {
	op          tokenKind
	raw         string
	left, right node
}

func (n binaryNode) eval(env *Env) (any, error) {
	left, err := n.left.eval(env)
	if err != nil {
		return nil, err
	}
	right, err := n.right.eval(env)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case tokenEq:
		return LooseEqual(left, right), nil
	case tokenNeq:
		return !LooseEqual(left, right), nil
	case tokenStrictEq:
		return StrictEqual(left, right), nil
	case tokenStrictNeq:
		return !StrictEqual(left, right), nil
	case tokenLt, tokenLte, tokenGt, tokenGte:
		return compare(n.op, left, right), nil
	case tokenPlus:
		if isStringLike(left) || isStringLike(right) {
			return Format(left) + Format(right), nil
		}
	}

	a, err := arithmeticOperand(n.raw, left)
	if err != nil {
		return nil, err
	}
	b, err := arithmeticOperand(n.raw, right)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case tokenPlus:
		return a + b, nil
	case tokenMinus:
		return a - b, nil
	case tokenStar:
		return a * b, nil
	case tokenSlash:
		return a / b, nil
	case tokenPercent:
		return math.Mod(a, b), nil
	default:
		return nil, fmt.Errorf("expr: unsupported operator %q", n.raw)
	}
}

func arithmeticOperand(op string, v any) (float64, error) {
	if v == nil {
		return 0, nil
	}
	if b, ok := v.(bool); ok {
		if b {
			return 1, nil
		}
		return 0, nil
	}
	f, ok := coerceNumber(v)
	if !ok {
		return 0, fmt.Errorf("expr: operator %q needs a number, got %T", op, v)
	}
	return f, nil
}

func compare(op tokenKind, left, right any) bool {
	ls, lok := left.(string)
	rs, rok := right.(string)
	var c int
	if lok && rok {
		c = strings.Compare(ls, rs)
	} else {
		a, aok := coerceNumber(left)
		b, bok := coerceNumber(right)
		if !aok || !bok || math.IsNaN(a) || math.IsNaN(b) {
			return false
		}
		switch {
		case a < b:
			c = -1
		case a > b:
			c = 1
		}
	}
	switch op {
	case tokenLt:
		return c < 0
	case tokenLte:
		return c <= 0
	case tokenGt:
		return c > 0
	default:
		return c >= 0
	}
}

type tokenStream struct {
	tokens []token
	pos    int
}

func parseTernary(stream *tokenStream) (node, error) {
	cond, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if !stream.match(tokenQuestion) {
		return cond, nil
	}
	then, err := parseTernary(stream)
	if err != nil {
		return nil, err
	}
	if !stream.match(tokenColon) {
		return nil, errors.New("expr: missing ':' in conditional expression")
	}
	otherwise, err := parseTernary(stream)
	if err != nil {
		return nil, err
	}
	return ternaryNode{cond: cond, then: then, otherwise: otherwise}, nil
}

func parseOr(stream *tokenStream) (node, error) {
	left, err := parseAnd(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenOr) {
		right, err := parseAnd(stream)
		if err != nil {
			return nil, err
		}
		left = logicalNode{op: tokenOr, left: left, right: right}
	}
	return left, nil
}

func parseAnd(stream *tokenStream) (node, error) {
	left, err := parseEquality(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenAnd) {
		right, err := parseEquality(stream)
		if err != nil {
			return nil, err
		}
		left = logicalNode{op: tokenAnd, left: left, right: right}
	}
	return left, nil
}

func parseEquality(stream *tokenStream) (node, error) {
	return parseBinary(stream, parseComparison, tokenEq, tokenNeq, tokenStrictEq, tokenStrictNeq)
}

func parseComparison(stream *tokenStream) (node, error) {
	return parseBinary(stream, parseAdditive, tokenLt, tokenLte, tokenGt, tokenGte)
}

func parseAdditive(stream *tokenStream) (node, error) {
	return parseBinary(stream, parseMultiplicative, tokenPlus, tokenMinus)
}

func parseMultiplicative(stream *tokenStream) (node, error) {
	return parseBinary(stream, parseUnary, tokenStar, tokenSlash, tokenPercent)
}

func parseBinary(stream *tokenStream, next func(*tokenStream) (node, error), ops ...tokenKind) (node, error) {
	left, err := next(stream)
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := stream.matchAny(ops...)
		if !ok {
			return left, nil
		}
		right, err := next(stream)
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: tok.kind, raw: tok.raw, left: left, right: right}
	}
}

func parseUnary(stream *tokenStream) (node, error) {
	if tok, ok := stream.matchAny(tokenNot, tokenMinus, tokenPlus); ok {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return unaryNode{op: tok.kind, inner: inner}, nil
	}
	return parsePostfix(stream)
}

func parsePostfix(stream *tokenStream) (node, error) {
	target, err := parsePrimary(stream)
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case stream.match(tokenDot):
			name, ok := stream.consume(tokenIdentifier)
			if !ok {
				return nil, errors.New("expr: expected property name after '.'")
			}
			target = memberNode{target: target, name: name.raw}
		case stream.match(tokenLBracket):
			index, err := parseTernary(stream)
			if err != nil {
				return nil, err
			}
			if !stream.match(tokenRBracket) {
				return nil, errors.New("expr: missing closing ']'")
			}
			target = indexNode{target: target, index: index}
		default:
			return target, nil
		}
	}
}

func parsePrimary(stream *tokenStream) (node, error) {
	if stream.match(tokenLParen) {
		inner, err := parseTernary(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("expr: missing closing ')'")
		}
		return inner, nil
	}

	tok, ok := stream.next()
	if !ok {
		return nil, errors.New("expr: unexpected end of expression")
	}
	switch tok.kind {
	case tokenString:
		return literalNode{value: tok.raw}, nil
	case tokenNumber:
		f, err := strconv.ParseFloat(tok.raw, 64)
		if err != nil {
			return nil, fmt.Errorf("expr: invalid number literal %q", tok.raw)
		}
		return literalNode{value: f}, nil
	case tokenBool:
		return literalNode{value: tok.raw == "true"}, nil
	case tokenNull:
		return literalNode{value: nil}, nil
	case tokenIdentifier:
		if stream.match(tokenLParen) {
			args, err := parseArgs(stream)
			if err != nil {
				return nil, err
			}
			return callNode{name: tok.raw, args: args}, nil
		}
		return identNode{name: tok.raw}, nil
	default:
		return nil, fmt.Errorf("expr: offset %d: unexpected token %q", tok.pos, tok.raw)
	}
}

func parseArgs(stream *tokenStream) ([]node, error) {
	var args []node
	if stream.match(tokenRParen) {
		return args, nil
	}
	for {
		arg, err := parseTernary(stream)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if stream.match(tokenComma) {
			continue
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("expr: missing closing ')' in call")
		}
		return args, nil
	}
}

func (s *tokenStream) peek() (token, bool) {
	if s.pos >= len(s.tokens) {
		return token{}, false
	}
	return s.tokens[s.pos], true
}

func (s *tokenStream) next() (token, bool) {
	tok, ok := s.peek()
	if ok {
		s.pos++
	}
	return tok, ok
}

func (s *tokenStream) match(kind tokenKind) bool {
	_, ok := s.consume(kind)
	return ok
}

func (s *tokenStream) matchAny(kinds ...tokenKind) (token, bool) {
	tok, ok := s.peek()
	if !ok {
		return token{}, false
	}
	for _, kind := range kinds {
		if tok.kind == kind {
			s.pos++
			return tok, true
		}
	}
	return token{}, false
}

func (s *tokenStream) consume(kind tokenKind) (token, bool) {
	tok, ok := s.peek()
	if !ok || tok.kind != kind {
		return token{}, false
	}
	s.pos++
	return tok, true
}
