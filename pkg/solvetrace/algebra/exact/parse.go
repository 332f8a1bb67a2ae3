package exact

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// knownFuncs maps accepted call names to their canonical form.
var knownFuncs = map[string]string{
	"sin":  "sin",
	"cos":  "cos",
	"tan":  "tan",
	"exp":  "exp",
	"sqrt": "sqrt",
	"abs":  "abs",
	"log":  "log",
	"ln":   "log",
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex splits text into tokens. Positions are rune offsets, used only
// for error messages.
func lex(text string) ([]token, error) {
	runes := []rune(text)
	toks := make([]token, 0, len(runes)/2+1)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r >= '0' && r <= '9' || r == '.':
			start := i
			sawDot := false
			for i < len(runes) {
				c := runes[i]
				if c == '.' {
					if sawDot {
						return nil, fmt.Errorf("unexpected %q at position %d", c, i)
					}
					sawDot = true
					i++
					continue
				}
				if c < '0' || c > '9' {
					break
				}
				i++
			}
			lit := string(runes[start:i])
			if lit == "." {
				return nil, fmt.Errorf("unexpected %q at position %d", '.', start)
			}
			toks = append(toks, token{kind: tokNumber, text: lit, pos: start})
		case isLetter(r):
			start := i
			for i < len(runes) && isLetter(runes[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(runes[start:i]), pos: start})
		case r == '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				toks = append(toks, token{kind: tokOp, text: "**", pos: i})
				i += 2
			} else {
				toks = append(toks, token{kind: tokOp, text: "*", pos: i})
				i++
			}
		case r == '+' || r == '-' || r == '/' || r == '^':
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			return nil, fmt.Errorf("unexpected %q at position %d", r, i)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(runes)})
	return toks, nil
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_'
}

// parseText parses an expression in the usual infix notation: + - * /,
// right-associative ** (or ^), unary minus, parentheses, and
// single-argument calls to the known functions. Multiplication is
// always explicit; "2x" is an error.
func parseText(text string) (node, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty expression")
	}
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q at position %d", tok.text, tok.pos)
	}
	return e, nil
}

type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) next() token {
	tok := p.toks[p.i]
	if tok.kind != tokEOF {
		p.i++
	}
	return tok
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp || (tok.text != "+" && tok.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if tok.text == "+" {
			left = sum(left, right)
		} else {
			left = sum(left, neg(right))
		}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp || (tok.text != "*" && tok.text != "/") {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if tok.text == "*" {
			left = product(left, right)
		} else {
			left = div(left, right)
		}
	}
}

func (p *parser) parseUnary() (node, error) {
	tok := p.peek()
	if tok.kind == tokOp && (tok.text == "-" || tok.text == "+") {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if tok.text == "-" {
			return neg(operand), nil
		}
		return operand, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	if tok.kind == tokOp && (tok.text == "**" || tok.text == "^") {
		p.next()
		// Right-associative, and the exponent may carry a sign: 2**-3.
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return power(base, exp), nil
	}
	return base, nil
}

func (p *parser) parseAtom() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		val, ok := new(big.Rat).SetString(tok.text)
		if !ok {
			return nil, fmt.Errorf("invalid number %q at position %d", tok.text, tok.pos)
		}
		return newNum(val), nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			canonical, ok := knownFuncs[strings.ToLower(tok.text)]
			if !ok {
				return nil, fmt.Errorf("unknown function %q at position %d", tok.text, tok.pos)
			}
			p.next()
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if closing := p.next(); closing.kind != tokRParen {
				return nil, fmt.Errorf("missing ')' at position %d", closing.pos)
			}
			if canonical == "sqrt" {
				return sqrtOf(arg), nil
			}
			return function(canonical, arg), nil
		}
		return symbol(tok.text), nil
	case tokLParen:
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, fmt.Errorf("missing ')' at position %d", closing.pos)
		}
		return e, nil
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of expression")
	default:
		return nil, fmt.Errorf("unexpected %q at position %d", tok.text, tok.pos)
	}
}
