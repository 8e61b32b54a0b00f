package tmpl

import "strings"

const (
	openTag  = "<%"
	closeTag = "%>"
)

type itemKind int

const (
	itemText itemKind = iota
	itemStatement
	itemExpression
)

type item struct {
	kind itemKind
	val  string
	pos  int
}

var whitespace = strings.NewReplacer("\r", " ", "\t", " ", "\n", " ")

// lex normalizes line breaks and tabs to spaces and splits the source into
// text, statement and expression items.
func lex(name, source string) ([]item, error) {
	src := whitespace.Replace(source)
	var items []item

	pos := 0
	for pos < len(src) {
		open := strings.Index(src[pos:], openTag)
		if open < 0 {
			if stray := strings.Index(src[pos:], closeTag); stray >= 0 {
				return nil, &SyntaxError{Template: name, Offset: pos + stray, Msg: "unexpected %> without opening <%"}
			}
			items = append(items, item{kind: itemText, val: src[pos:], pos: pos})
			break
		}
		if open > 0 {
			text := src[pos : pos+open]
			if stray := strings.Index(text, closeTag); stray >= 0 {
				return nil, &SyntaxError{Template: name, Offset: pos + stray, Msg: "unexpected %> without opening <%"}
			}
			items = append(items, item{kind: itemText, val: text, pos: pos})
		}

		start := pos + open
		body := start + len(openTag)
		kind := itemStatement
		if strings.HasPrefix(src[body:], "=") {
			kind = itemExpression
			body++
		}

		end := strings.Index(src[body:], closeTag)
		if end < 0 {
			return nil, &SyntaxError{Template: name, Offset: start, Msg: "unterminated <% tag"}
		}
		items = append(items, item{kind: kind, val: src[body : body+end], pos: start})
		pos = body + end + len(closeTag)
	}
	return items, nil
}
