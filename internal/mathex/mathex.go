// Package mathex evaluates restricted arithmetic expressions.
//
// Expressions may contain integer and float literals, the operators
// + - * / ** and parentheses. Nothing else is accepted: expressions
// originate from user-authored specification files, so evaluation must
// never reach anything resembling code execution. Callers substitute
// any variables with literals before calling Evaluate.
package mathex

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// EvalError reports a malformed or unevaluable expression. The
// original expression is carried verbatim so specification-file
// authors can find the offending text.
type EvalError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("mathex: %s at position %d in %q", e.Msg, e.Pos, e.Expr)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPower
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	val  float64
	pos  int
}

type lexer struct {
	src  string
	pos  int
	toks []token
}

func (l *lexer) errorf(pos int, format string, args ...any) error {
	return &EvalError{Expr: l.src, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) run() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t':
			l.pos++
		case c >= '0' && c <= '9' || c == '.':
			if err := l.number(); err != nil {
				return err
			}
		case c == '+':
			l.emit(tokPlus)
		case c == '-':
			l.emit(tokMinus)
		case c == '*':
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '*' {
				l.toks = append(l.toks, token{kind: tokPower, pos: l.pos})
				l.pos += 2
			} else {
				l.emit(tokStar)
			}
		case c == '/':
			l.emit(tokSlash)
		case c == '(':
			l.emit(tokLParen)
		case c == ')':
			l.emit(tokRParen)
		default:
			if unicode.IsLetter(rune(c)) || c == '_' {
				return l.errorf(l.pos, "unexpected identifier starting with %q", c)
			}
			return l.errorf(l.pos, "illegal character %q", c)
		}
	}
	l.toks = append(l.toks, token{kind: tokEOF, pos: len(l.src)})
	return nil
}

func (l *lexer) emit(k tokenKind) {
	l.toks = append(l.toks, token{kind: k, pos: l.pos})
	l.pos++
}

func (l *lexer) number() error {
	start := l.pos
	seenDot := false
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c >= '0' && c <= '9' {
			l.pos++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			l.pos++
			continue
		}
		break
	}
	lit := l.src[start:l.pos]
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return l.errorf(start, "malformed number %q", lit)
	}
	l.toks = append(l.toks, token{kind: tokNumber, val: v, pos: start})
	return nil
}

type parser struct {
	src  string
	toks []token
	idx  int
}

func (p *parser) peek() token { return p.toks[p.idx] }
func (p *parser) next() token { t := p.toks[p.idx]; p.idx++; return t }

func (p *parser) errorf(t token, format string, args ...any) error {
	return &EvalError{Expr: p.src, Pos: t.pos, Msg: fmt.Sprintf(format, args...)}
}

// expr := term (('+'|'-') term)*
func (p *parser) expr() (float64, error) {
	v, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			rhs, err := p.term()
			if err != nil {
				return 0, err
			}
			v += rhs
		case tokMinus:
			p.next()
			rhs, err := p.term()
			if err != nil {
				return 0, err
			}
			v -= rhs
		default:
			return v, nil
		}
	}
}

// term := factor (('*'|'/') factor)*
func (p *parser) term() (float64, error) {
	v, err := p.factor()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek().kind {
		case tokStar:
			p.next()
			rhs, err := p.factor()
			if err != nil {
				return 0, err
			}
			v *= rhs
		case tokSlash:
			t := p.next()
			rhs, err := p.factor()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, p.errorf(t, "division by zero")
			}
			v /= rhs
		default:
			return v, nil
		}
	}
}

// factor := ('+'|'-') factor | primary ('**' factor)?
//
// Exponentiation is right-associative and binds tighter than a
// leading unary minus, matching the usual arithmetic convention:
// -2**2 is -4 and 2**-1 is 0.5.
func (p *parser) factor() (float64, error) {
	switch p.peek().kind {
	case tokPlus:
		p.next()
		return p.factor()
	case tokMinus:
		p.next()
		v, err := p.factor()
		return -v, err
	}
	v, err := p.primary()
	if err != nil {
		return 0, err
	}
	if p.peek().kind == tokPower {
		p.next()
		exp, err := p.factor()
		if err != nil {
			return 0, err
		}
		return math.Pow(v, exp), nil
	}
	return v, nil
}

func (p *parser) primary() (float64, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return t.val, nil
	case tokLParen:
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return 0, p.errorf(closing, "missing closing parenthesis")
		}
		return v, nil
	case tokEOF:
		return 0, p.errorf(t, "unexpected end of expression")
	default:
		return 0, p.errorf(t, "unexpected token")
	}
}

// Evaluate parses and evaluates expr, returning its numeric value.
// It returns *EvalError for anything outside the restricted grammar,
// including division by zero.
func Evaluate(expr string) (float64, error) {
	if strings.TrimSpace(expr) == "" {
		return 0, &EvalError{Expr: expr, Pos: 0, Msg: "empty expression"}
	}
	lex := &lexer{src: expr}
	if err := lex.run(); err != nil {
		return 0, err
	}
	p := &parser{src: expr, toks: lex.toks}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if trailing := p.next(); trailing.kind != tokEOF {
		return 0, p.errorf(trailing, "trailing input")
	}
	return v, nil
}
