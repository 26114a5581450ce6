// Package expr implements the #if/#elif expression evaluator: a small
// recursive-descent parser over defined(...), !, &&, and || with no
// operator-precedence distinction between the two logical operators.
// A chain of them groups to the right, as the grammar
// EXPR := TERM (op EXPR)? implies: "A || B && C" is A || (B && C), and
// "A && B || C" is A && (B || C).
package expr

import (
	"fmt"

	"github.com/gopherpp/lcpp/macro"
	"github.com/gopherpp/lcpp/token"
)

// ParseError is returned for any syntactic deviation from the grammar,
// carrying the offending input for diagnosis.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("expression parse error: %q", e.Input)
}

// Defined reports whether a macro table considers name to be defined.
// Evaluate takes this as an interface rather than *macro.Table directly
// so callers can stub it in tests without constructing a real table.
type Defined interface {
	Defined(name string) bool
}

// Evaluate parses and evaluates the right-hand side of an #if/#elif
// directive against table.
func Evaluate(table Defined, input string) (bool, error) {
	cfg := token.Config{
		Identifier: token.Default().Identifier,
		Number:     token.Default().Number,
		Whitespace: token.Default().Whitespace,
		Keywords:   token.ExprKeywords(),
	}
	toks := significantTokens(token.All(input, cfg))
	p := &parser{toks: toks, input: input, table: table}
	result, err := p.parseExpr()
	if err != nil {
		return false, err
	}
	if p.peek().Kind != token.KindEOF {
		return false, &ParseError{Input: input}
	}
	return result, nil
}

func significantTokens(toks []token.Token) []token.Token {
	out := toks[:0:0]
	for _, t := range toks {
		if t.Kind == token.KindIgnore {
			continue
		}
		out = append(out, t)
	}
	return out
}

type parser struct {
	toks  []token.Token
	pos   int
	input string
	table Defined
}

func (p *parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.KindEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) fail() error {
	return &ParseError{Input: p.input}
}

// parseExpr implements EXPR := TERM (('&&' | '||') EXPR)?
func (p *parser) parseExpr() (bool, error) {
	left, err := p.parseTerm()
	if err != nil {
		return false, err
	}

	switch p.peek().Kind {
	case "&&":
		p.next()
		right, err := p.parseExpr()
		if err != nil {
			return false, err
		}
		return left && right, nil
	case "||":
		p.next()
		right, err := p.parseExpr()
		if err != nil {
			return false, err
		}
		return left || right, nil
	default:
		return left, nil
	}
}

// parseTerm implements TERM := '!' TERM | '(' EXPR ')' | DEFCALL
func (p *parser) parseTerm() (bool, error) {
	switch p.peek().Kind {
	case "!":
		p.next()
		operand, err := p.parseTerm()
		if err != nil {
			return false, err
		}
		return !operand, nil
	case "(":
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return false, err
		}
		if p.peek().Kind != token.Kind(")") {
			return false, p.fail()
		}
		p.next()
		return inner, nil
	case "defined":
		p.next()
		return p.parseDefCall()
	default:
		return false, p.fail()
	}
}

// parseDefCall implements DEFCALL := 'defined' '(' IDENT ')' | 'defined' IDENT
func (p *parser) parseDefCall() (bool, error) {
	if p.peek().Kind == token.Kind("(") {
		p.next()
		if p.peek().Kind != token.KindIdentifier {
			return false, p.fail()
		}
		name := p.next().Lexeme
		if p.peek().Kind != token.Kind(")") {
			return false, p.fail()
		}
		p.next()
		return p.table.Defined(name), nil
	}
	if p.peek().Kind != token.KindIdentifier {
		return false, p.fail()
	}
	name := p.next().Lexeme
	return p.table.Defined(name), nil
}

var _ Defined = (*macro.Table)(nil)
