package tools

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Calculator errors.
var (
	ErrDivisionByZero = errors.New("除数不能为零")
	ErrSyntax         = errors.New("表达式错误")
)

// Evaluate computes an arithmetic expression with + - * / % ^, unary
// signs and parentheses. ^ binds tighter than unary minus and is right
// associative, so -2^2 is -4 and 2^3^2 is 512.
func Evaluate(expr string) (float64, error) {
	p := &exprParser{src: []rune(expr)}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return 0, fmt.Errorf("%w: 多余的 %q", ErrSyntax, string(p.src[p.pos]))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: 结果无效", ErrSyntax)
	}
	return v, nil
}

// FormatNumber prints v without a trailing ".0" or exponent noise.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'g', 12, 64)
}

type exprParser struct {
	src []rune
	pos int
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

// peek returns the next significant rune, or 0 at the end.
func (p *exprParser) peek() rune {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *exprParser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *exprParser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		switch op {
		case '*', '×':
		case '/', '÷', '%':
		default:
			return left, nil
		}
		p.pos++
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		switch op {
		case '*', '×':
			left *= right
		case '/', '÷':
			if right == 0 {
				return 0, ErrDivisionByZero
			}
			left /= right
		case '%':
			if right == 0 {
				return 0, ErrDivisionByZero
			}
			left = math.Mod(left, right)
		}
	}
}

func (p *exprParser) unary() (float64, error) {
	switch p.peek() {
	case '-':
		p.pos++
		v, err := p.unary()
		return -v, err
	case '+':
		p.pos++
		return p.unary()
	}
	return p.power()
}

func (p *exprParser) power() (float64, error) {
	base, err := p.primary()
	if err != nil {
		return 0, err
	}
	if p.peek() != '^' {
		return base, nil
	}
	p.pos++
	exp, err := p.unary()
	if err != nil {
		return 0, err
	}
	return math.Pow(base, exp), nil
}

func (p *exprParser) primary() (float64, error) {
	r := p.peek()
	switch {
	case r == '(':
		p.pos++
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("%w: 缺少右括号", ErrSyntax)
		}
		p.pos++
		return v, nil
	case unicode.IsDigit(r) || r == '.':
		start := p.pos
		for p.pos < len(p.src) && (unicode.IsDigit(p.src[p.pos]) || p.src[p.pos] == '.') {
			p.pos++
		}
		// Exponent suffix such as 1e3 or 2.5E-4.
		if p.pos < len(p.src) && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
			save := p.pos
			p.pos++
			if p.pos < len(p.src) && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
				p.pos++
			}
			if p.pos < len(p.src) && unicode.IsDigit(p.src[p.pos]) {
				for p.pos < len(p.src) && unicode.IsDigit(p.src[p.pos]) {
					p.pos++
				}
			} else {
				p.pos = save
			}
		}
		text := string(p.src[start:p.pos])
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: 无效数字 %q", ErrSyntax, text)
		}
		return v, nil
	case r == 0:
		return 0, fmt.Errorf("%w: 表达式不完整", ErrSyntax)
	}
	return 0, fmt.Errorf("%w: 无法识别 %q", ErrSyntax, strings.TrimSpace(string(r)))
}
