package tmpl

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-fractalview/pkg/tmpl/expr"
)

// Ordered is a mapping that iterates in insertion order. Datasets implement
// it so `for name in fractals` visits examples in file order.
type Ordered = expr.Ordered

// Template is a compiled micro-template. It is immutable and safe for
// concurrent Execute calls.
type Template struct {
	name  string
	root  []node
	funcs map[string]expr.Func
}

// Compile parses source into a Template using the builtin helpers.
func Compile(source string) (*Template, error) {
	return compile("", source, nil)
}

// CompileNamed is Compile with a name used in error messages.
func CompileNamed(name, source string) (*Template, error) {
	return compile(name, source, nil)
}

func compile(name, source string, funcs map[string]expr.Func) (*Template, error) {
	items, err := lex(name, source)
	if err != nil {
		return nil, err
	}
	root, err := parse(name, items)
	if err != nil {
		return nil, err
	}
	if funcs == nil {
		funcs = expr.Builtins()
	}
	return &Template{name: name, root: root, funcs: funcs}, nil
}

// Name returns the template name, empty for anonymous templates.
func (t *Template) Name() string {
	return t.name
}

// Execute renders the template against data. Structs are addressed through
// their JSON field names; nil data renders with an empty mapping.
func (t *Template) Execute(data any) (string, error) {
	data = expr.Normalize(data)
	if data == nil {
		data = map[string]any{}
	}
	st := &state{
		data:   data,
		frames: []map[string]any{{}},
		funcs:  t.funcs,
	}
	if err := st.run(t.root); err != nil {
		if t.name != "" {
			return "", fmt.Errorf("tmpl: %s: %w", t.name, err)
		}
		return "", fmt.Errorf("tmpl: %w", err)
	}
	return strings.Join(st.out, ""), nil
}

// state is the per-execution scope chain and output buffer.
type state struct {
	out    []string
	data   any
	frames []map[string]any
	funcs  map[string]expr.Func
}

// Resolve implements expr.Scope. Locals shadow data fields; `data` and `obj`
// address the whole data mapping.
func (s *state) Resolve(name string) (any, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i][name]; ok {
			return v, true
		}
	}
	if v, ok := field(s.data, name); ok {
		return v, true
	}
	if name == "data" || name == "obj" {
		return s.data, true
	}
	return nil, false
}

func (s *state) env() expr.Env {
	return expr.Env{Scope: s, Funcs: s.funcs}
}

func (s *state) eval(e *expr.Expr) (any, error) {
	v, err := e.Eval(s.env())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e, err)
	}
	return v, nil
}

func (s *state) assign(name string, value any) {
	for i := len(s.frames) - 1; i > 0; i-- {
		if _, ok := s.frames[i][name]; ok {
			s.frames[i][name] = value
			return
		}
	}
	s.frames[0][name] = value
}

func (s *state) run(nodes []node) error {
	for _, n := range nodes {
		if err := n.exec(s); err != nil {
			return err
		}
	}
	return nil
}

func field(data any, name string) (any, bool) {
	switch typed := data.(type) {
	case Ordered:
		return typed.Field(name)
	case map[string]any:
		v, ok := typed[name]
		return v, ok
	default:
		if name == "length" {
			return nil, false
		}
		return expr.Member(data, name)
	}
}

type node interface {
	exec(s *state) error
}

type textNode string

func (n textNode) exec(s *state) error {
	s.out = append(s.out, string(n))
	return nil
}

type outputNode struct {
	expr *expr.Expr
}

func (n *outputNode) exec(s *state) error {
	v, err := s.eval(n.expr)
	if err != nil {
		return err
	}
	s.out = append(s.out, expr.Format(v))
	return nil
}

type printNode struct {
	args []*expr.Expr
}

func (n *printNode) exec(s *state) error {
	for _, arg := range n.args {
		v, err := s.eval(arg)
		if err != nil {
			return err
		}
		s.out = append(s.out, expr.Format(v))
	}
	return nil
}

type setNode struct {
	name  string
	value *expr.Expr
}

func (n *setNode) exec(s *state) error {
	v, err := s.eval(n.value)
	if err != nil {
		return err
	}
	s.assign(n.name, v)
	return nil
}

// forNode binds name to mapping keys or slice elements, or key and value to
// both when two names are given.
type forNode struct {
	name       string
	key, value string
	src        *expr.Expr
	body       []node
}

func (n *forNode) exec(s *state) error {
	collection, err := s.eval(n.src)
	if err != nil {
		return err
	}
	keyed := isMapping(collection)

	s.frames = append(s.frames, map[string]any{})
	defer func() { s.frames = s.frames[:len(s.frames)-1] }()
	scope := len(s.frames) - 1

	return expr.Each(collection, func(key, value any) error {
		vars := map[string]any{}
		switch {
		case n.name == "":
			vars[n.key], vars[n.value] = key, value
		case keyed:
			vars[n.name] = key
		default:
			vars[n.name] = value
		}
		s.frames[scope] = vars
		return s.run(n.body)
	})
}

func isMapping(v any) bool {
	if _, ok := v.(Ordered); ok {
		return true
	}
	if v == nil {
		return false
	}
	return reflect.ValueOf(v).Kind() == reflect.Map
}

type condBranch struct {
	cond *expr.Expr
	body []node
}

type ifNode struct {
	branches  []*condBranch
	otherwise []node
	hasElse   bool
}

// append adds n to the branch currently being parsed.
func (n *ifNode) append(child node) {
	if n.hasElse {
		n.otherwise = append(n.otherwise, child)
		return
	}
	last := n.branches[len(n.branches)-1]
	last.body = append(last.body, child)
}

func (n *ifNode) exec(s *state) error {
	for _, branch := range n.branches {
		v, err := s.eval(branch.cond)
		if err != nil {
			return err
		}
		if expr.Truthy(v) {
			return s.run(branch.body)
		}
	}
	return s.run(n.otherwise)
}
