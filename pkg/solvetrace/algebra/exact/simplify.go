package exact

import (
	"math"
	"math/big"
)

// simplifyNode reduces n to canonical form: flattened sums and products,
// folded rational arithmetic, collected like terms and like factors,
// deterministic ordering. Iterates to a fixpoint since one reduction can
// expose another.
func simplifyNode(n node) node {
	prev := n.String()
	for i := 0; i < 10; i++ {
		n = simplifyOnce(n)
		cur := n.String()
		if cur == prev {
			break
		}
		prev = cur
	}
	return n
}

func simplifyOnce(n node) node {
	switch v := n.(type) {
	case *num, *approx, *sym:
		return n
	case *add:
		terms := make([]node, len(v.terms))
		for i, t := range v.terms {
			terms[i] = simplifyOnce(t)
		}
		return simplifyAdd(terms)
	case *mul:
		factors := make([]node, len(v.factors))
		for i, f := range v.factors {
			factors[i] = simplifyOnce(f)
		}
		return simplifyMul(factors)
	case *pow:
		return simplifyPow(simplifyOnce(v.base), simplifyOnce(v.exp))
	case *fn:
		return simplifyFn(v.name, simplifyOnce(v.arg))
	}
	return n
}

// simplifyAdd flattens nested sums, folds numeric terms, and collects
// like terms by their non-numeric part.
func simplifyAdd(terms []node) node {
	flat := make([]node, 0, len(terms))
	for _, t := range terms {
		if a, ok := t.(*add); ok {
			flat = append(flat, a.terms...)
		} else {
			flat = append(flat, t)
		}
	}

	constant := new(big.Rat)
	type bucket struct {
		coeff *big.Rat
		rest  node
	}
	order := make([]string, 0, len(flat))
	buckets := make(map[string]*bucket, len(flat))

	for _, t := range flat {
		coeff, rest := termParts(t)
		if rest == nil {
			constant.Add(constant, coeff)
			continue
		}
		key := rest.String()
		if b, ok := buckets[key]; ok {
			b.coeff.Add(b.coeff, coeff)
		} else {
			buckets[key] = &bucket{coeff: new(big.Rat).Set(coeff), rest: rest}
			order = append(order, key)
		}
	}

	out := make([]node, 0, len(order)+1)
	for _, key := range order {
		b := buckets[key]
		if b.coeff.Sign() == 0 {
			continue
		}
		out = append(out, scaleTerm(b.coeff, b.rest))
	}
	if constant.Sign() != 0 {
		out = append(out, newNum(constant))
	}

	if len(out) == 0 {
		return newInt(0)
	}
	sortTerms(out)
	if len(out) == 1 {
		return out[0]
	}
	return &add{terms: out}
}

// termParts splits a term into its rational coefficient and the rest.
// A nil rest means the term is purely numeric.
func termParts(t node) (*big.Rat, node) {
	switch v := t.(type) {
	case *num:
		return v.val, nil
	case *mul:
		if len(v.factors) > 0 {
			if c, ok := isNum(v.factors[0]); ok {
				return c.val, product(append([]node(nil), v.factors[1:]...)...)
			}
		}
	}
	return ratOne, t
}

// scaleTerm rebuilds coeff*rest without renormalizing rest.
func scaleTerm(coeff *big.Rat, rest node) node {
	if coeff.Cmp(ratOne) == 0 {
		return rest
	}
	if m, ok := rest.(*mul); ok {
		factors := make([]node, 0, len(m.factors)+1)
		factors = append(factors, newNum(coeff))
		factors = append(factors, m.factors...)
		return &mul{factors: factors}
	}
	return &mul{factors: []node{newNum(coeff), rest}}
}

// simplifyMul flattens nested products, folds the numeric coefficient,
// and merges repeated bases into powers. Plain numeric factors fold only
// into the coefficient; they are never merged with symbolic powers of
// the same value, which keeps forms like 2*sqrt(2) stable.
func simplifyMul(factors []node) node {
	flat := make([]node, 0, len(factors))
	for _, f := range factors {
		if m, ok := f.(*mul); ok {
			flat = append(flat, m.factors...)
		} else {
			flat = append(flat, f)
		}
	}

	coeff := new(big.Rat).Set(ratOne)
	type bucket struct {
		base node
		exps []node
	}
	order := make([]string, 0, len(flat))
	buckets := make(map[string]*bucket, len(flat))

	for _, f := range flat {
		if c, ok := isNum(f); ok {
			if c.val.Sign() == 0 {
				return newInt(0)
			}
			coeff.Mul(coeff, c.val)
			continue
		}
		base, exp := factorParts(f)
		key := base.String()
		if b, ok := buckets[key]; ok {
			b.exps = append(b.exps, exp)
		} else {
			buckets[key] = &bucket{base: base, exps: []node{exp}}
			order = append(order, key)
		}
	}

	out := make([]node, 0, len(order)+1)
	for _, key := range order {
		b := buckets[key]
		var merged node
		if len(b.exps) == 1 {
			merged = simplifyPow(b.base, b.exps[0])
		} else {
			merged = simplifyPow(b.base, simplifyNode(sum(b.exps...)))
		}
		if c, ok := isNum(merged); ok {
			if c.val.Sign() == 0 {
				return newInt(0)
			}
			coeff.Mul(coeff, c.val)
			continue
		}
		// A merged power can fold into a product, e.g. sqrt(8) -> 2*sqrt(2).
		if m, ok := merged.(*mul); ok {
			for _, f := range m.factors {
				if c, ok := isNum(f); ok {
					coeff.Mul(coeff, c.val)
					continue
				}
				out = append(out, f)
			}
			continue
		}
		out = append(out, merged)
	}

	if len(out) == 0 {
		return newNum(coeff)
	}
	sortFactors(out)
	if coeff.Cmp(ratOne) != 0 {
		out = append([]node{newNum(coeff)}, out...)
	}
	if len(out) == 1 {
		return out[0]
	}
	return &mul{factors: out}
}

// factorParts splits a factor into base and exponent.
func factorParts(f node) (node, node) {
	if p, ok := f.(*pow); ok {
		return p.base, p.exp
	}
	return f, newInt(1)
}

// simplifyPow reduces base^exp. Exact rational powers fold; rational
// roots extract perfect squares; square roots of negative rationals
// factor through the imaginary unit.
func simplifyPow(base, exp node) node {
	if e, ok := isNum(exp); ok {
		if e.val.Sign() == 0 {
			return newInt(1)
		}
		if e.val.Cmp(ratOne) == 0 {
			return base
		}

		if b, ok := isNum(base); ok {
			if folded := foldNumPow(b.val, e.val); folded != nil {
				return folded
			}
			return &pow{base: base, exp: exp}
		}
		if b, ok := base.(*approx); ok {
			f, _ := e.val.Float64()
			r := math.Pow(b.val, f)
			if !math.IsNaN(r) && !math.IsInf(r, 0) {
				return &approx{val: r}
			}
			return &pow{base: base, exp: exp}
		}

		if e.val.IsInt() {
			// (a^b)^k -> a^(b*k); (x*y)^k -> x^k * y^k
			if p, ok := base.(*pow); ok {
				return simplifyPow(p.base, simplifyNode(product(p.exp, exp)))
			}
			if m, ok := base.(*mul); ok {
				parts := make([]node, len(m.factors))
				for i, f := range m.factors {
					parts[i] = simplifyPow(f, exp)
				}
				return simplifyMul(parts)
			}
		}
	}
	return &pow{base: base, exp: exp}
}

// foldNumPow evaluates r^e for rational r and e where an exact or
// partially extracted form exists. Returns nil when the power should
// stay symbolic.
func foldNumPow(r, e *big.Rat) node {
	if e.IsInt() {
		k := e.Num().Int64()
		if r.Sign() == 0 && k < 0 {
			return nil
		}
		return newNum(ratPow(r, k))
	}

	p := e.Num().Int64()
	q := e.Denom().Int64()

	if r.Sign() == 0 {
		if p > 0 {
			return newInt(0)
		}
		return nil
	}
	if r.Sign() < 0 {
		// Only square roots factor through i here.
		if p == 1 && q == 2 {
			abs := new(big.Rat).Neg(r)
			root := foldNumPow(abs, e)
			if root == nil {
				root = &pow{base: newNum(abs), exp: newNum(e)}
			}
			return simplifyMul([]node{symbol(imaginaryUnit), root})
		}
		return nil
	}

	// r > 0: try an exact q-th root of r^p.
	t := ratPow(r, p)
	if root, ok := perfectRoot(t, q); ok {
		return newNum(root)
	}
	if q == 2 {
		// Extract the largest square factor: sqrt(8) -> 2*sqrt(2).
		coeff, radicand, ok := factorSquareRat(t)
		if ok && coeff.Cmp(ratOne) != 0 {
			return simplifyMul([]node{
				newNum(coeff),
				&pow{base: newNum(radicand), exp: newRat(1, 2)},
			})
		}
		if ok && !ratEqual(radicand, r) {
			return &pow{base: newNum(radicand), exp: newRat(1, 2)}
		}
	}
	return nil
}

func ratEqual(a, b *big.Rat) bool {
	return a.Cmp(b) == 0
}

// ratPow raises r to the integer power k exactly. k may be negative for
// nonzero r.
func ratPow(r *big.Rat, k int64) *big.Rat {
	if k == 0 {
		return new(big.Rat).Set(ratOne)
	}
	neg := k < 0
	if neg {
		k = -k
	}
	out := new(big.Rat).Set(ratOne)
	base := new(big.Rat).Set(r)
	for ; k > 0; k >>= 1 {
		if k&1 == 1 {
			out.Mul(out, base)
		}
		base.Mul(base, base)
	}
	if neg {
		out.Inv(out)
	}
	return out
}

// perfectRoot returns the exact q-th root of a non-negative rational, if
// one exists.
func perfectRoot(r *big.Rat, q int64) (*big.Rat, bool) {
	if r.Sign() < 0 || q <= 0 {
		return nil, false
	}
	pRoot, ok := nthRootInt(r.Num(), q)
	if !ok {
		return nil, false
	}
	qRoot, ok := nthRootInt(r.Denom(), q)
	if !ok {
		return nil, false
	}
	return new(big.Rat).SetFrac(pRoot, qRoot), true
}

// nthRootInt finds the exact integer q-th root of x >= 0 by binary
// search.
func nthRootInt(x *big.Int, q int64) (*big.Int, bool) {
	if x.Sign() < 0 {
		return nil, false
	}
	if x.Sign() == 0 || x.Cmp(bigOne) == 0 {
		return new(big.Int).Set(x), true
	}
	lo := big.NewInt(1)
	hi := new(big.Int).Set(x)
	exp := big.NewInt(q)
	for lo.Cmp(hi) <= 0 {
		mid := new(big.Int).Add(lo, hi)
		mid.Rsh(mid, 1)
		trial := new(big.Int).Exp(mid, exp, nil)
		switch trial.Cmp(x) {
		case 0:
			return mid, true
		case -1:
			lo = new(big.Int).Add(mid, bigOne)
		default:
			hi = new(big.Int).Sub(mid, bigOne)
		}
	}
	return nil, false
}

// factorSquareRat writes t as coeff^2 * radicand with the largest
// extractable coeff, so sqrt(t) = coeff*sqrt(radicand). Only attempts
// values that fit a machine word.
func factorSquareRat(t *big.Rat) (coeff, radicand *big.Rat, ok bool) {
	if !t.Num().IsInt64() || !t.Denom().IsInt64() {
		return nil, nil, false
	}
	// sqrt(p/q) = sqrt(p*q)/q
	p := t.Num().Int64()
	q := t.Denom().Int64()
	prod := p * q
	if prod < 0 || (p != 0 && prod/p != q) {
		return nil, nil, false
	}
	s, m := extractSquare(prod)
	coeff = big.NewRat(s, q)
	radicand = big.NewRat(m, 1)
	return coeff, radicand, true
}

// extractSquare factors n = s*s*m with m square-free (up to the trial
// bound).
func extractSquare(n int64) (s, m int64) {
	s, m = 1, n
	for f := int64(2); f*f <= m && f <= 1<<16; f++ {
		sq := f * f
		for m%sq == 0 {
			m /= sq
			s *= f
		}
	}
	return s, m
}

// simplifyFn folds a handful of exact function values.
func simplifyFn(name string, arg node) node {
	if v, ok := isNum(arg); ok {
		switch name {
		case "sin", "tan":
			if v.val.Sign() == 0 {
				return newInt(0)
			}
		case "cos", "exp":
			if v.val.Sign() == 0 {
				return newInt(1)
			}
		case "log":
			if v.val.Cmp(ratOne) == 0 {
				return newInt(0)
			}
		case "abs":
			return newNum(new(big.Rat).Abs(v.val))
		}
	}
	return &fn{name: name, arg: arg}
}

// expandNode distributes products over sums and unrolls small integer
// powers of sums, returning a simplified result.
func expandNode(n node) node {
	return simplifyNode(expandOnce(simplifyNode(n)))
}

const maxExpandPower = 16

func expandOnce(n node) node {
	switch v := n.(type) {
	case *add:
		terms := make([]node, len(v.terms))
		for i, t := range v.terms {
			terms[i] = expandOnce(t)
		}
		return sum(terms...)
	case *mul:
		factors := make([]node, len(v.factors))
		for i, f := range v.factors {
			factors[i] = expandOnce(f)
		}
		return distribute(factors)
	case *pow:
		base := expandOnce(v.base)
		exp := expandOnce(v.exp)
		if e, ok := isNum(exp); ok && e.val.IsInt() {
			k := e.val.Num().Int64()
			if _, isAdd := base.(*add); isAdd && k >= 2 && k <= maxExpandPower {
				out := base
				for i := int64(1); i < k; i++ {
					out = distribute([]node{out, base})
				}
				return out
			}
		}
		return power(base, exp)
	case *fn:
		return function(v.name, expandOnce(v.arg))
	}
	return n
}

// distribute multiplies factors out over any sums among them.
func distribute(factors []node) node {
	products := [][]node{nil}
	for _, f := range factors {
		terms := []node{f}
		if a, ok := f.(*add); ok {
			terms = a.terms
		}
		next := make([][]node, 0, len(products)*len(terms))
		for _, p := range products {
			for _, t := range terms {
				combined := make([]node, len(p), len(p)+1)
				copy(combined, p)
				combined = append(combined, t)
				next = append(next, combined)
			}
		}
		products = next
	}
	if len(products) == 1 {
		return product(products[0]...)
	}
	terms := make([]node, len(products))
	for i, p := range products {
		terms[i] = product(p...)
	}
	return sum(terms...)
}

// evalNode reduces n to a float64 when it contains no free symbols.
func evalNode(n node) (float64, bool) {
	switch v := n.(type) {
	case *num:
		f, _ := v.val.Float64()
		return f, true
	case *approx:
		return v.val, true
	case *sym:
		return 0, false
	case *add:
		var total float64
		for _, t := range v.terms {
			f, ok := evalNode(t)
			if !ok {
				return 0, false
			}
			total += f
		}
		return total, true
	case *mul:
		total := 1.0
		for _, f := range v.factors {
			x, ok := evalNode(f)
			if !ok {
				return 0, false
			}
			total *= x
		}
		return total, true
	case *pow:
		b, ok := evalNode(v.base)
		if !ok {
			return 0, false
		}
		e, ok := evalNode(v.exp)
		if !ok {
			return 0, false
		}
		r := math.Pow(b, e)
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return 0, false
		}
		return r, true
	case *fn:
		x, ok := evalNode(v.arg)
		if !ok {
			return 0, false
		}
		var r float64
		switch v.name {
		case "sin":
			r = math.Sin(x)
		case "cos":
			r = math.Cos(x)
		case "tan":
			r = math.Tan(x)
		case "exp":
			r = math.Exp(x)
		case "log":
			if x <= 0 {
				return 0, false
			}
			r = math.Log(x)
		case "abs":
			r = math.Abs(x)
		default:
			return 0, false
		}
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return 0, false
		}
		return r, true
	}
	return 0, false
}
