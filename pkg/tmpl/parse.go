package tmpl

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-fractalview/pkg/tmpl/expr"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

type blockKind int

const (
	blockFor blockKind = iota
	blockIf
)

func (k blockKind) String() string {
	if k == blockFor {
		return "for"
	}
	return "if"
}

type frame struct {
	kind   blockKind
	pos    int
	loop   *forNode
	branch *ifNode
}

type parser struct {
	name  string
	root  []node
	stack []*frame
}

func parse(name string, items []item) ([]node, error) {
	p := &parser{name: name}
	for _, it := range items {
		var err error
		switch it.kind {
		case itemText:
			p.append(textNode(it.val))
		case itemExpression:
			err = p.expression(it)
		case itemStatement:
			err = p.statement(it)
		}
		if err != nil {
			return nil, err
		}
	}
	if n := len(p.stack); n > 0 {
		open := p.stack[n-1]
		return nil, p.errorf(open.pos, "unclosed %s block", open.kind)
	}
	return p.root, nil
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	return &SyntaxError{Template: p.name, Offset: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) append(n node) {
	if len(p.stack) == 0 {
		p.root = append(p.root, n)
		return
	}
	top := p.stack[len(p.stack)-1]
	switch top.kind {
	case blockFor:
		top.loop.body = append(top.loop.body, n)
	case blockIf:
		top.branch.append(n)
	}
}

func (p *parser) expression(it item) error {
	source := strings.TrimSpace(it.val)
	e, err := expr.Parse(source)
	if err != nil {
		return p.errorf(it.pos, "%v", err)
	}
	p.append(&outputNode{expr: e})
	return nil
}

func (p *parser) statement(it item) error {
	stmt := strings.TrimSpace(it.val)
	stmt = strings.TrimSpace(strings.TrimSuffix(stmt, ";"))
	if stmt == "" {
		return nil
	}

	closesBrace := strings.HasPrefix(stmt, "}")
	if closesBrace {
		stmt = strings.TrimSpace(stmt[1:])
	}
	if strings.HasSuffix(stmt, "{") {
		stmt = strings.TrimSpace(stmt[:len(stmt)-1])
	}

	word, rest := splitKeyword(stmt)
	if closesBrace && stmt != "" && word != "else" {
		return p.errorf(it.pos, "unexpected %q after }", stmt)
	}

	switch {
	case stmt == "" || word == "end":
		if rest != "" {
			return p.errorf(it.pos, "unexpected %q after end", rest)
		}
		return p.end(it.pos)
	case word == "else":
		return p.elseBranch(it.pos, rest)
	case word == "for":
		return p.forBlock(it.pos, rest)
	case word == "if":
		return p.ifBlock(it.pos, rest)
	case word == "print":
		return p.print(it.pos, rest)
	case word == "set" || word == "var" || word == "let" || word == "const":
		return p.set(it.pos, rest)
	default:
		return p.errorf(it.pos, "unsupported statement %q", stmt)
	}
}

func (p *parser) end(pos int) error {
	if len(p.stack) == 0 {
		return p.errorf(pos, "end without an open block")
	}
	p.stack = p.stack[:len(p.stack)-1]
	return nil
}

func (p *parser) elseBranch(pos int, rest string) error {
	if len(p.stack) == 0 || p.stack[len(p.stack)-1].kind != blockIf {
		return p.errorf(pos, "else outside of an if block")
	}
	block := p.stack[len(p.stack)-1].branch
	if block.hasElse {
		return p.errorf(pos, "else after else")
	}

	word, cond := splitKeyword(rest)
	switch {
	case rest == "":
		block.hasElse = true
		return nil
	case word == "if":
		e, err := p.condition(pos, cond)
		if err != nil {
			return err
		}
		block.branches = append(block.branches, &condBranch{cond: e})
		return nil
	default:
		return p.errorf(pos, "unexpected %q after else", rest)
	}
}

func (p *parser) ifBlock(pos int, cond string) error {
	e, err := p.condition(pos, cond)
	if err != nil {
		return err
	}
	n := &ifNode{branches: []*condBranch{{cond: e}}}
	p.append(n)
	p.stack = append(p.stack, &frame{kind: blockIf, pos: pos, branch: n})
	return nil
}

func (p *parser) condition(pos int, source string) (*expr.Expr, error) {
	if strings.TrimSpace(source) == "" {
		return nil, p.errorf(pos, "if needs a condition")
	}
	e, err := expr.Parse(source)
	if err != nil {
		return nil, p.errorf(pos, "%v", err)
	}
	return e, nil
}

func (p *parser) forBlock(pos int, header string) error {
	header = unwrapParens(strings.TrimSpace(header))
	for _, decl := range []string{"var ", "let ", "const "} {
		if strings.HasPrefix(header, decl) {
			header = strings.TrimSpace(header[len(decl):])
			break
		}
	}

	idx := strings.Index(header, " in ")
	if idx < 0 {
		return p.errorf(pos, "for needs the form NAME in EXPR")
	}
	names := strings.Split(header[:idx], ",")
	if len(names) > 2 {
		return p.errorf(pos, "for binds at most two names")
	}
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
		if !identPattern.MatchString(names[i]) {
			return p.errorf(pos, "invalid loop variable %q", names[i])
		}
	}

	source, err := expr.Parse(header[idx+len(" in "):])
	if err != nil {
		return p.errorf(pos, "%v", err)
	}

	n := &forNode{src: source}
	if len(names) == 2 {
		n.key, n.value = names[0], names[1]
	} else {
		n.name = names[0]
	}
	p.append(n)
	p.stack = append(p.stack, &frame{kind: blockFor, pos: pos, loop: n})
	return nil
}

func (p *parser) print(pos int, rest string) error {
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return p.errorf(pos, "print needs an argument list")
	}
	args, err := expr.ParseList(rest[1 : len(rest)-1])
	if err != nil {
		return p.errorf(pos, "%v", err)
	}
	p.append(&printNode{args: args})
	return nil
}

func (p *parser) set(pos int, rest string) error {
	idx := strings.Index(rest, "=")
	if idx < 0 || strings.HasPrefix(rest[idx:], "==") {
		return p.errorf(pos, "set needs the form NAME = EXPR")
	}
	name := strings.TrimSpace(rest[:idx])
	if !identPattern.MatchString(name) {
		return p.errorf(pos, "invalid variable name %q", name)
	}
	value, err := expr.Parse(rest[idx+1:])
	if err != nil {
		return p.errorf(pos, "%v", err)
	}
	p.append(&setNode{name: name, value: value})
	return nil
}

// splitKeyword splits a statement into its leading word and the remainder.
// The word ends at a space or an opening parenthesis.
func splitKeyword(stmt string) (string, string) {
	end := strings.IndexAny(stmt, " (")
	if end < 0 {
		return stmt, ""
	}
	return stmt[:end], strings.TrimSpace(stmt[end:])
}

// unwrapParens removes one pair of parentheses enclosing the whole string.
func unwrapParens(s string) string {
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return s
	}
	depth := 0
	for i, ch := range s {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return s
			}
		}
	}
	return strings.TrimSpace(s[1 : len(s)-1])
}
