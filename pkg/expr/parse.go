package expr

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenType int

const (
	tokIdent tokenType = iota
	tokConst
	tokNot
	tokAnd
	tokOr
	tokXor
	tokEq
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	typ  tokenType
	text string
	pos  int
}

type tokenizer struct {
	input []rune
	pos   int
}

func (t *tokenizer) peek() rune {
	if t.pos >= len(t.input) {
		return 0
	}
	return t.input[t.pos]
}

func (t *tokenizer) advance() rune {
	r := t.peek()
	if t.pos < len(t.input) {
		t.pos++
	}
	return r
}

func (t *tokenizer) next() (token, error) {
	for t.pos < len(t.input) && unicode.IsSpace(t.peek()) {
		t.advance()
	}
	start := t.pos
	if t.pos >= len(t.input) {
		return token{typ: tokEOF, pos: start}, nil
	}

	c := t.advance()
	switch c {
	case '(':
		return token{typ: tokLParen, text: "(", pos: start}, nil
	case ')':
		return token{typ: tokRParen, text: ")", pos: start}, nil
	case '!', '~', '¬':
		return token{typ: tokNot, text: string(c), pos: start}, nil
	case '*', '∧':
		return token{typ: tokAnd, text: string(c), pos: start}, nil
	case '+', '∨':
		return token{typ: tokOr, text: string(c), pos: start}, nil
	case '^':
		return token{typ: tokXor, text: "^", pos: start}, nil
	case '=':
		return token{typ: tokEq, text: "=", pos: start}, nil
	case '&':
		if t.peek() == '&' {
			t.advance()
		}
		return token{typ: tokAnd, text: "&", pos: start}, nil
	case '|':
		if t.peek() == '|' {
			t.advance()
		}
		return token{typ: tokOr, text: "|", pos: start}, nil
	}

	if c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c) {
		var sb strings.Builder
		sb.WriteRune(c)
		for {
			r := t.peek()
			if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				break
			}
			sb.WriteRune(t.advance())
		}
		text := sb.String()
		switch strings.ToLower(text) {
		case "and":
			return token{typ: tokAnd, text: text, pos: start}, nil
		case "or":
			return token{typ: tokOr, text: text, pos: start}, nil
		case "xor":
			return token{typ: tokXor, text: text, pos: start}, nil
		case "not":
			return token{typ: tokNot, text: text, pos: start}, nil
		case "0", "1", "true", "false":
			return token{typ: tokConst, text: strings.ToLower(text), pos: start}, nil
		}
		if unicode.IsDigit(c) {
			return token{}, &Error{Kind: KindSyntax, Pos: start, Msg: "invalid constant " + text}
		}
		return token{typ: tokIdent, text: text, pos: start}, nil
	}

	return token{}, &Error{Kind: KindSyntax, Pos: start, Msg: "unexpected character " + string(c)}
}

type parser struct {
	tok     *tokenizer
	current token
}

// Parse parses a guard expression. The empty string yields True.
func Parse(s string) (Expression, error) {
	if strings.TrimSpace(s) == "" {
		return True, nil
	}
	p := &parser{tok: &tokenizer{input: []rune(s)}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.current.typ != tokEOF {
		return nil, p.errorf("unexpected %q", p.current.text)
	}
	return e, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// static tables.
func MustParse(s string) Expression {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

func (p *parser) advance() error {
	tok, err := p.tok.next()
	if err != nil {
		return err
	}
	p.current = tok
	return nil
}

func (p *parser) errorf(msg string, args ...interface{}) error {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &Error{Kind: KindSyntax, Pos: p.current.pos, Msg: msg}
}

func (p *parser) parseOr() (Expression, error) {
	return p.parseBinary(tokOr, OpOr, p.parseXor)
}

func (p *parser) parseXor() (Expression, error) {
	return p.parseBinary(tokXor, OpXor, p.parseAnd)
}

func (p *parser) parseAnd() (Expression, error) {
	return p.parseBinary(tokAnd, OpAnd, p.parseUnary)
}

func (p *parser) parseBinary(typ tokenType, op Op, operand func() (Expression, error)) (Expression, error) {
	first, err := operand()
	if err != nil {
		return nil, err
	}
	operands := []Expression{first}
	for p.current.typ == typ {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := operand()
		if err != nil {
			return nil, err
		}
		operands = append(operands, next)
	}
	return newOperation(op, operands), nil
}

func (p *parser) parseUnary() (Expression, error) {
	if p.current.typ == tokNot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not(x), nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (Expression, error) {
	switch p.current.typ {
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.current.typ != tokRParen {
			return nil, p.errorf("missing closing parenthesis")
		}
		return e, p.advance()

	case tokConst:
		c := p.current.text == "1" || p.current.text == "true"
		return Const(c), p.advance()

	case tokIdent:
		name := p.current.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.current.typ != tokEq {
			return Var(name), nil
		}
		// name=0 / name=1
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.current.typ != tokConst {
			return nil, p.errorf("expected 0 or 1 after %s=", name)
		}
		want := p.current.text == "1" || p.current.text == "true"
		if err := p.advance(); err != nil {
			return nil, err
		}
		if want {
			return Var(name), nil
		}
		return Not(Var(name)), nil

	case tokEOF:
		return nil, p.errorf("unexpected end of expression")
	}
	return nil, p.errorf("unexpected %q", p.current.text)
}
