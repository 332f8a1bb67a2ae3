package exact

import (
	"fmt"

	"github.com/solvetrace/solvetrace/pkg/solvetrace/internalerr"
)

// diffNode differentiates n with respect to v and returns the
// simplified result.
func diffNode(n node, v string) (node, error) {
	d, err := derive(n, v)
	if err != nil {
		return nil, err
	}
	return simplifyNode(d), nil
}

func derive(n node, v string) (node, error) {
	if !containsSym(n, v) {
		return newInt(0), nil
	}
	switch t := n.(type) {
	case *sym:
		return newInt(1), nil
	case *add:
		terms := make([]node, len(t.terms))
		for i, term := range t.terms {
			d, err := derive(term, v)
			if err != nil {
				return nil, err
			}
			terms[i] = d
		}
		return sum(terms...), nil
	case *mul:
		// Product rule over all factors.
		terms := make([]node, 0, len(t.factors))
		for i := range t.factors {
			d, err := derive(t.factors[i], v)
			if err != nil {
				return nil, err
			}
			rest := make([]node, 0, len(t.factors))
			rest = append(rest, d)
			for j, f := range t.factors {
				if j != i {
					rest = append(rest, f)
				}
			}
			terms = append(terms, product(rest...))
		}
		return sum(terms...), nil
	case *pow:
		return derivePow(t, v)
	case *fn:
		return deriveFn(t, v)
	}
	return nil, fmt.Errorf("cannot differentiate %s", n)
}

func derivePow(p *pow, v string) (node, error) {
	baseHas := containsSym(p.base, v)
	expHas := containsSym(p.exp, v)
	switch {
	case baseHas && !expHas:
		// e * base^(e-1) * base'
		db, err := derive(p.base, v)
		if err != nil {
			return nil, err
		}
		return product(p.exp, power(p.base, sub(p.exp, newInt(1))), db), nil
	case !baseHas && expHas:
		// a^u -> a^u * log(a) * u'
		du, err := derive(p.exp, v)
		if err != nil {
			return nil, err
		}
		return product(power(p.base, p.exp), function("log", p.base), du), nil
	default:
		// f^g -> f^g * (g'*log(f) + g*f'/f)
		df, err := derive(p.base, v)
		if err != nil {
			return nil, err
		}
		dg, err := derive(p.exp, v)
		if err != nil {
			return nil, err
		}
		inner := sum(
			product(dg, function("log", p.base)),
			product(p.exp, df, power(p.base, newInt(-1))),
		)
		return product(power(p.base, p.exp), inner), nil
	}
}

func deriveFn(f *fn, v string) (node, error) {
	du, err := derive(f.arg, v)
	if err != nil {
		return nil, err
	}
	var outer node
	switch f.name {
	case "sin":
		outer = function("cos", f.arg)
	case "cos":
		outer = neg(function("sin", f.arg))
	case "tan":
		outer = power(function("cos", f.arg), newInt(-2))
	case "exp":
		outer = function("exp", f.arg)
	case "log":
		outer = power(f.arg, newInt(-1))
	case "abs":
		outer = product(f.arg, power(function("abs", f.arg), newInt(-1)))
	default:
		return nil, fmt.Errorf("cannot differentiate %s", f.name)
	}
	return product(outer, du), nil
}

// integrateNode finds an antiderivative of n with respect to v using a
// rule table over sums, constant multiples, powers of linear arguments,
// and elementary functions of linear arguments. The constant of
// integration is left to the caller.
func integrateNode(n node, v string) (node, error) {
	r, err := antiderive(simplifyNode(n), v)
	if err != nil {
		return nil, err
	}
	return simplifyNode(r), nil
}

func antiderive(n node, v string) (node, error) {
	if !containsSym(n, v) {
		return product(n, symbol(v)), nil
	}
	switch t := n.(type) {
	case *sym:
		return product(newRat(1, 2), power(symbol(v), newInt(2))), nil
	case *add:
		terms := make([]node, len(t.terms))
		for i, term := range t.terms {
			r, err := antiderive(term, v)
			if err != nil {
				return nil, err
			}
			terms[i] = r
		}
		return sum(terms...), nil
	case *mul:
		constants := make([]node, 0, len(t.factors))
		var dependent node
		for _, f := range t.factors {
			if !containsSym(f, v) {
				constants = append(constants, f)
				continue
			}
			if dependent != nil {
				return nil, fmt.Errorf("%w: %s", internalerr.ErrNoClosedForm, n)
			}
			dependent = f
		}
		r, err := antiderive(dependent, v)
		if err != nil {
			return nil, err
		}
		return product(append(constants, r)...), nil
	case *pow:
		return antiderivePow(t, v)
	case *fn:
		return antideriveFn(t, v)
	}
	return nil, fmt.Errorf("%w: %s", internalerr.ErrNoClosedForm, n)
}

func antiderivePow(p *pow, v string) (node, error) {
	if k, ok := isNum(p.exp); ok {
		if a, _, lin := linearParts(p.base, v); lin && !isZero(a) {
			if k.val.Cmp(ratMinusOne) == 0 {
				// 1/(a*x+b) -> log(a*x+b)/a
				return div(function("log", p.base), a), nil
			}
			// (a*x+b)^k -> (a*x+b)^(k+1) / (a*(k+1))
			next := sum(p.exp, newInt(1))
			return div(power(p.base, next), product(a, next)), nil
		}
	}
	if !containsSym(p.base, v) {
		if a, _, lin := linearParts(p.exp, v); lin && !isZero(a) {
			// c^(a*x+b) -> c^(a*x+b) / (a*log(c))
			return div(power(p.base, p.exp), product(a, function("log", p.base))), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", internalerr.ErrNoClosedForm, p)
}

func antideriveFn(f *fn, v string) (node, error) {
	a, _, lin := linearParts(f.arg, v)
	if !lin || isZero(a) {
		return nil, fmt.Errorf("%w: %s", internalerr.ErrNoClosedForm, f)
	}
	var outer node
	switch f.name {
	case "sin":
		outer = neg(function("cos", f.arg))
	case "cos":
		outer = function("sin", f.arg)
	case "tan":
		outer = neg(function("log", function("cos", f.arg)))
	case "exp":
		outer = function("exp", f.arg)
	case "log":
		outer = sub(product(f.arg, function("log", f.arg)), f.arg)
	default:
		return nil, fmt.Errorf("%w: %s", internalerr.ErrNoClosedForm, f)
	}
	return div(outer, a), nil
}

// linearParts writes n as a*v + b when n is linear in v.
func linearParts(n node, v string) (a, b node, ok bool) {
	cs, err := coefficients(expandNode(n), v)
	if err != nil || len(cs) > 2 {
		return nil, nil, false
	}
	switch len(cs) {
	case 1:
		return newInt(0), cs[0], true
	case 2:
		return cs[0], cs[1], true
	}
	return newInt(0), newInt(0), true
}
