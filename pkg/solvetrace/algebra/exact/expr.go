package exact

import (
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// node is the internal expression tree. All nodes are immutable after
// construction; every transformation builds new nodes.
type node interface {
	String() string
	isNode()
}

// num is an exact rational constant.
type num struct {
	val *big.Rat
}

// approx is a floating-point constant, used for numeric root finding
// results that have no exact form.
type approx struct {
	val float64
}

// sym is a free variable referenced by name.
type sym struct {
	name string
}

// add is an n-ary sum.
type add struct {
	terms []node
}

// mul is an n-ary product.
type mul struct {
	factors []node
}

// pow raises base to exp. Square roots are pow with exponent 1/2.
type pow struct {
	base node
	exp  node
}

// fn is a known unary function application.
type fn struct {
	name string
	arg  node
}

func (*num) isNode()    {}
func (*approx) isNode() {}
func (*sym) isNode()    {}
func (*add) isNode()    {}
func (*mul) isNode()    {}
func (*pow) isNode()    {}
func (*fn) isNode()     {}

// imaginaryUnit is the symbol square roots of negative numbers factor
// through.
const imaginaryUnit = "i"

func newInt(n int64) *num {
	return &num{val: new(big.Rat).SetInt64(n)}
}

func newRat(p, q int64) *num {
	return &num{val: big.NewRat(p, q)}
}

func newNum(r *big.Rat) *num {
	return &num{val: new(big.Rat).Set(r)}
}

func symbol(name string) *sym {
	return &sym{name: name}
}

// sum builds an unsimplified n-ary sum, unwrapping the trivial cases.
func sum(terms ...node) node {
	switch len(terms) {
	case 0:
		return newInt(0)
	case 1:
		return terms[0]
	}
	return &add{terms: terms}
}

// product builds an unsimplified n-ary product, unwrapping the trivial
// cases.
func product(factors ...node) node {
	switch len(factors) {
	case 0:
		return newInt(1)
	case 1:
		return factors[0]
	}
	return &mul{factors: factors}
}

func power(base, exp node) node {
	return &pow{base: base, exp: exp}
}

func sqrtOf(e node) node {
	return power(e, newRat(1, 2))
}

func function(name string, arg node) node {
	return &fn{name: name, arg: arg}
}

func neg(e node) node {
	return product(newInt(-1), e)
}

func sub(a, b node) node {
	return sum(a, neg(b))
}

func div(a, b node) node {
	return product(a, power(b, newInt(-1)))
}

// numeric predicates

func isNum(n node) (*num, bool) {
	v, ok := n.(*num)
	return v, ok
}

func isZero(n node) bool {
	v, ok := isNum(n)
	return ok && v.val.Sign() == 0
}

func isOne(n node) bool {
	v, ok := isNum(n)
	return ok && v.val.Cmp(ratOne) == 0
}

var (
	ratOne      = big.NewRat(1, 1)
	ratMinusOne = big.NewRat(-1, 1)
	ratHalf     = big.NewRat(1, 2)
)

// nodeClass orders node kinds for canonical factor ordering.
func nodeClass(n node) int {
	switch n.(type) {
	case *num:
		return 0
	case *approx:
		return 1
	case *sym:
		return 2
	case *pow:
		return 3
	case *fn:
		return 4
	case *mul:
		return 5
	case *add:
		return 6
	}
	return 7
}

// degreeOf estimates a term's total degree for descending polynomial
// display order. Functions rank with the degree of their argument.
func degreeOf(n node) float64 {
	switch v := n.(type) {
	case *num, *approx:
		return 0
	case *sym:
		return 1
	case *pow:
		if e, ok := isNum(v.exp); ok {
			f, _ := e.val.Float64()
			return degreeOf(v.base) * f
		}
		return 2
	case *mul:
		var total float64
		for _, f := range v.factors {
			total += degreeOf(f)
		}
		return total
	case *fn:
		return degreeOf(v.arg)
	case *add:
		var max float64
		for _, t := range v.terms {
			if d := degreeOf(t); d > max {
				max = d
			}
		}
		return max
	}
	return 0
}

// sortTerms orders sum terms by descending degree, then by canonical
// string, so polynomials display highest power first.
func sortTerms(terms []node) {
	sort.SliceStable(terms, func(i, j int) bool {
		di, dj := degreeOf(terms[i]), degreeOf(terms[j])
		if di != dj {
			return di > dj
		}
		return terms[i].String() < terms[j].String()
	})
}

// sortFactors orders product factors: numeric coefficient first, then by
// node class and canonical string.
func sortFactors(factors []node) {
	sort.SliceStable(factors, func(i, j int) bool {
		ci, cj := nodeClass(factors[i]), nodeClass(factors[j])
		if ci != cj {
			return ci < cj
		}
		return factors[i].String() < factors[j].String()
	})
}

// Rendering. The display form uses ** for powers, sqrt() for half
// powers, and slash notation for negative exponents so step text reads
// naturally.

func (n *num) String() string {
	return n.val.RatString()
}

func (n *approx) String() string {
	return strconv.FormatFloat(n.val, 'g', 10, 64)
}

func (n *sym) String() string {
	return n.name
}

func (n *fn) String() string {
	return n.name + "(" + n.arg.String() + ")"
}

func (n *add) String() string {
	var b strings.Builder
	for i, t := range n.terms {
		negative, abs := negativePart(t)
		switch {
		case i == 0 && negative:
			b.WriteString("-")
			b.WriteString(abs.String())
		case i == 0:
			b.WriteString(t.String())
		case negative:
			b.WriteString(" - ")
			b.WriteString(abs.String())
		default:
			b.WriteString(" + ")
			b.WriteString(t.String())
		}
	}
	return b.String()
}

// negativePart reports whether t renders with a leading minus and
// returns the unsigned remainder.
func negativePart(t node) (bool, node) {
	switch v := t.(type) {
	case *num:
		if v.val.Sign() < 0 {
			return true, newNum(new(big.Rat).Neg(v.val))
		}
	case *approx:
		if v.val < 0 {
			return true, &approx{val: -v.val}
		}
	case *mul:
		if len(v.factors) > 0 {
			if c, ok := isNum(v.factors[0]); ok && c.val.Sign() < 0 {
				rest := make([]node, 0, len(v.factors))
				flipped := newNum(new(big.Rat).Neg(c.val))
				if !isOne(flipped) {
					rest = append(rest, flipped)
				}
				rest = append(rest, v.factors[1:]...)
				return true, product(rest...)
			}
		}
	}
	return false, t
}

func (n *mul) String() string {
	numParts, denParts, negative := splitFraction(n)

	var b strings.Builder
	if negative {
		b.WriteString("-")
	}
	if len(numParts) == 0 {
		b.WriteString("1")
	} else {
		b.WriteString(strings.Join(numParts, "*"))
	}
	if len(denParts) > 0 {
		b.WriteString("/")
		if len(denParts) > 1 {
			b.WriteString("(" + strings.Join(denParts, "*") + ")")
		} else {
			b.WriteString(denParts[0])
		}
	}
	return b.String()
}

// splitFraction renders a product's factors into numerator and
// denominator pieces, pulling rational coefficients apart and flipping
// negative exponents below the bar.
func splitFraction(n *mul) (numParts, denParts []string, negative bool) {
	for _, f := range n.factors {
		switch v := f.(type) {
		case *num:
			r := v.val
			if r.Sign() < 0 {
				negative = !negative
				r = new(big.Rat).Neg(r)
			}
			p := r.Num()
			q := r.Denom()
			if p.Cmp(bigOne) != 0 {
				numParts = append(numParts, p.String())
			}
			if q.Cmp(bigOne) != 0 {
				denParts = append(denParts, q.String())
			}
		case *pow:
			if e, ok := isNum(v.exp); ok && e.val.Sign() < 0 {
				flipped := newNum(new(big.Rat).Neg(e.val))
				if isOne(flipped) {
					denParts = append(denParts, baseString(v.base))
				} else {
					denParts = append(denParts, factorString(power(v.base, flipped)))
				}
				continue
			}
			numParts = append(numParts, factorString(f))
		default:
			numParts = append(numParts, factorString(f))
		}
	}
	return numParts, denParts, negative
}

var bigOne = big.NewInt(1)

// factorString parenthesizes sums inside a product.
func factorString(f node) string {
	if _, ok := f.(*add); ok {
		return "(" + f.String() + ")"
	}
	if p, ok := f.(*pow); ok {
		return p.String()
	}
	return f.String()
}

func (n *pow) String() string {
	if e, ok := isNum(n.exp); ok {
		if e.val.Cmp(ratHalf) == 0 {
			return "sqrt(" + n.base.String() + ")"
		}
		if e.val.Sign() < 0 {
			inv := &pow{base: n.base, exp: newNum(new(big.Rat).Neg(e.val))}
			var body string
			if isOne(inv.exp) {
				body = baseString(n.base)
			} else {
				body = inv.String()
			}
			return "1/" + body
		}
	}
	return baseString(n.base) + "**" + expString(n.exp)
}

func baseString(b node) string {
	switch v := b.(type) {
	case *add, *mul, *pow:
		return "(" + b.String() + ")"
	case *num:
		if v.val.Sign() < 0 || !v.val.IsInt() {
			return "(" + b.String() + ")"
		}
	case *approx:
		if v.val < 0 {
			return "(" + b.String() + ")"
		}
	}
	return b.String()
}

func expString(e node) string {
	switch v := e.(type) {
	case *add, *mul, *pow:
		return "(" + e.String() + ")"
	case *num:
		if v.val.Sign() < 0 || !v.val.IsInt() {
			return "(" + e.String() + ")"
		}
	}
	return e.String()
}

// containsSym reports whether the variable name occurs anywhere in n.
func containsSym(n node, name string) bool {
	switch v := n.(type) {
	case *num, *approx:
		return false
	case *sym:
		return v.name == name
	case *add:
		for _, t := range v.terms {
			if containsSym(t, name) {
				return true
			}
		}
	case *mul:
		for _, f := range v.factors {
			if containsSym(f, name) {
				return true
			}
		}
	case *pow:
		return containsSym(v.base, name) || containsSym(v.exp, name)
	case *fn:
		return containsSym(v.arg, name)
	}
	return false
}
