package expr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenStrictEq
	tokenStrictNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenAnd
	tokenOr
	tokenNot
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenPercent
	tokenQuestion
	tokenColon
	tokenComma
	tokenDot
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
)

type token struct {
	kind tokenKind
	raw  string
	pos  int
}

var punctuation = []struct {
	raw  string
	kind tokenKind
}{
	// longest first
	{"===", tokenStrictEq},
	{"!==", tokenStrictNeq},
	{"==", tokenEq},
	{"!=", tokenNeq},
	{"<=", tokenLte},
	{">=", tokenGte},
	{"&&", tokenAnd},
	{"||", tokenOr},
	{"<", tokenLt},
	{">", tokenGt},
	{"!", tokenNot},
	{"+", tokenPlus},
	{"-", tokenMinus},
	{"*", tokenStar},
	{"/", tokenSlash},
	{"%", tokenPercent},
	{"?", tokenQuestion},
	{":", tokenColon},
	{",", tokenComma},
	{".", tokenDot},
	{"(", tokenLParen},
	{")", tokenRParen},
	{"[", tokenLBracket},
	{"]", tokenRBracket},
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	for i < len(input) {
		ch := input[i]
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			i++
			continue
		}

		switch {
		case ch == '"' || ch == '\'':
			value, n, err := scanString(input[i:])
			if err != nil {
				return nil, fmt.Errorf("expr: offset %d: %w", i, err)
			}
			tokens = append(tokens, token{kind: tokenString, raw: value, pos: i})
			i += n
			continue
		case isDigit(ch) || (ch == '.' && i+1 < len(input) && isDigit(input[i+1])):
			n := scanNumber(input[i:])
			raw := input[i : i+n]
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				return nil, fmt.Errorf("expr: offset %d: invalid number literal %q", i, raw)
			}
			tokens = append(tokens, token{kind: tokenNumber, raw: raw, pos: i})
			i += n
			continue
		case isIdentStart(ch):
			start := i
			for i < len(input) && isIdentPart(input[i]) {
				i++
			}
			raw := input[start:i]
			switch raw {
			case "true", "false":
				tokens = append(tokens, token{kind: tokenBool, raw: raw, pos: start})
			case "null", "nil", "undefined":
				tokens = append(tokens, token{kind: tokenNull, raw: "null", pos: start})
			default:
				tokens = append(tokens, token{kind: tokenIdentifier, raw: raw, pos: start})
			}
			continue
		}

		matched := false
		for _, p := range punctuation {
			if strings.HasPrefix(input[i:], p.raw) {
				tokens = append(tokens, token{kind: p.kind, raw: p.raw, pos: i})
				i += len(p.raw)
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		switch ch {
		case '=':
			return nil, fmt.Errorf("expr: offset %d: unexpected '='; use '=='", i)
		case '&':
			return nil, fmt.Errorf("expr: offset %d: unexpected '&'; use '&&'", i)
		case '|':
			return nil, fmt.Errorf("expr: offset %d: unexpected '|'; use '||'", i)
		}
		r, _ := utf8.DecodeRuneInString(input[i:])
		return nil, fmt.Errorf("expr: offset %d: unexpected character %q", i, r)
	}

	return tokens, nil
}

// scanString reads a quoted literal starting at input[0] and returns its
// unescaped value and the number of bytes consumed.
func scanString(input string) (string, int, error) {
	quote := input[0]
	var b strings.Builder
	i := 1
	for i < len(input) {
		c := input[i]
		switch {
		case c == quote:
			return b.String(), i + 1, nil
		case c == '\\' && i+1 < len(input):
			i++
			switch esc := input[i]; esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'u':
				if i+4 < len(input) {
					if code, err := strconv.ParseUint(input[i+1:i+5], 16, 32); err == nil {
						b.WriteRune(rune(code))
						i += 4
						break
					}
				}
				b.WriteByte(esc)
			default:
				b.WriteByte(esc)
			}
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", 0, fmt.Errorf("unterminated string literal")
}

func scanNumber(input string) int {
	i := 0
	for i < len(input) && isDigit(input[i]) {
		i++
	}
	if i < len(input) && input[i] == '.' {
		i++
		for i < len(input) && isDigit(input[i]) {
			i++
		}
	}
	if i < len(input) && (input[i] == 'e' || input[i] == 'E') {
		j := i + 1
		if j < len(input) && (input[j] == '+' || input[j] == '-') {
			j++
		}
		if j < len(input) && isDigit(input[j]) {
			for j < len(input) && isDigit(input[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch == '$' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
