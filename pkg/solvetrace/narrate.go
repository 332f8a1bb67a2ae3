package solvetrace

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/solvetrace/solvetrace/pkg/solvetrace/algebra"
	"github.com/solvetrace/solvetrace/pkg/solvetrace/classify"
	"github.com/solvetrace/solvetrace/pkg/solvetrace/internalerr"
)

// splitEquation cuts an equation into its two sides. Exactly one '='
// must be present.
func splitEquation(text string) (lhs, rhs string, err error) {
	if strings.Count(text, "=") != 1 {
		return "", "", internalerr.ErrMalformedEquation
	}
	halves := strings.SplitN(text, "=", 2)
	return halves[0], halves[1], nil
}

// narrateSolve handles equations. Degree one and two get specialized
// narration with the coefficient and discriminant stages spelled out;
// everything else goes through the engine's general solver.
func (s *Solver) narrateSolve(text string) Outcome {
	lhsText, rhsText, err := splitEquation(text)
	if err != nil {
		return absent(classify.KindSolve, []string{"Equation must contain exactly one '=' sign."})
	}
	lhs, err := s.eng.Parse(lhsText)
	if err != nil {
		return absent(classify.KindSolve, []string{"Parsing error: " + err.Error()})
	}
	rhs, err := s.eng.Parse(rhsText)
	if err != nil {
		return absent(classify.KindSolve, []string{"Parsing error: " + err.Error()})
	}

	steps := []string{
		fmt.Sprintf("Original equation: %s = %s", s.eng.Format(lhs), s.eng.Format(rhs)),
	}
	residual := s.eng.Expand(s.eng.Simplify(s.eng.Sub(lhs, rhs)))
	steps = append(steps, fmt.Sprintf("Simplify to one side: %s = 0", s.eng.Format(residual)))

	vars := s.det.Detect(text)
	if cs, err := s.eng.Coefficients(residual, vars); err == nil {
		switch len(cs) {
		case 2:
			a, b := cs[0], cs[1]
			steps = append(steps, fmt.Sprintf("Linear equation with a=%s, b=%s",
				s.eng.Format(a), s.eng.Format(b)))
			if s.eng.Format(a) == "0" {
				steps = append(steps, "Coefficient a is 0 -> no or infinite solutions.")
				break
			}
			root := s.eng.Simplify(s.eng.Div(s.eng.Mul(s.eng.Number(-1), b), a))
			value := s.eng.Format(root)
			steps = append(steps, fmt.Sprintf("Solve: %s = -b/a = %s", solveVariable(residual, vars), value))
			return many(classify.KindSolve, []string{value}, steps)
		case 3:
			a, b, c := cs[0], cs[1], cs[2]
			steps = append(steps, fmt.Sprintf("Quadratic detected with a=%s, b=%s, c=%s",
				s.eng.Format(a), s.eng.Format(b), s.eng.Format(c)))

			disc := s.eng.Simplify(s.eng.Sub(s.eng.Mul(b, b), s.eng.Mul(s.eng.Number(4), a, c)))
			steps = append(steps, "Discriminant Δ = b² - 4ac = "+s.eng.Format(disc))
			if v, ok := s.eng.Evaluate(disc); ok && v < 0 {
				steps = append(steps, "Δ < 0 → complex roots")
			}

			sq := s.eng.Simplify(s.eng.Sqrt(disc))
			negB := s.eng.Mul(s.eng.Number(-1), b)
			twoA := s.eng.Mul(s.eng.Number(2), a)
			x1 := s.eng.Simplify(s.eng.Div(s.eng.Add(negB, sq), twoA))
			x2 := s.eng.Simplify(s.eng.Div(s.eng.Sub(negB, sq), twoA))
			v1, v2 := s.eng.Format(x1), s.eng.Format(x2)
			steps = append(steps, fmt.Sprintf("Roots: x = (-b ± √Δ) / (2a) → %s, %s", v1, v2))
			return many(classify.KindSolve, []string{v1, v2}, steps)
		}
	}

	steps = append(steps, "Using general solve")
	roots, err := s.eng.Solve(algebra.Equation{LHS: lhs, RHS: rhs}, vars)
	if err != nil {
		steps = append(steps, "Could not solve: "+err.Error())
		return absent(classify.KindSolve, steps)
	}
	values := make([]string, len(roots))
	for i, r := range roots {
		values[i] = s.eng.Format(r)
	}
	steps = append(steps, "Solutions: ["+strings.Join(values, ", ")+"]")
	if len(values) == 0 {
		return absent(classify.KindSolve, steps)
	}
	return many(classify.KindSolve, values, steps)
}

// solveVariable names the variable the linear narration isolates: the
// first detected variable that occurs in the residual.
func solveVariable(residual algebra.Expr, vars []string) string {
	rendered := residual.String()
	for _, v := range vars {
		if containsName(rendered, v) {
			return v
		}
	}
	if len(vars) > 0 {
		return vars[0]
	}
	return "x"
}

// containsName reports whether name occurs in rendered text as a whole
// letter run.
func containsName(text, name string) bool {
	for i := 0; i+len(name) <= len(text); i++ {
		if text[i:i+len(name)] != name {
			continue
		}
		beforeOK := i == 0 || !isWordByte(text[i-1])
		afterOK := i+len(name) == len(text) || !isWordByte(text[i+len(name)])
		if beforeOK && afterOK {
			return true
		}
	}
	return false
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// narrateDerivative handles diff queries, unwrapping the
// diff(expr, var) call form when present.
func (s *Solver) narrateDerivative(text, explicit string) Outcome {
	exprText, callVar, _ := unwrapCall(text, "diff(")
	variable := firstNonEmpty(callVar, explicit)

	f, err := s.eng.Parse(exprText)
	if err != nil {
		return absent(classify.KindDifferentiate, []string{"Parsing error: " + err.Error()})
	}
	if variable == "" {
		variable = s.det.Primary(exprText)
	}

	steps := []string{
		"Function: " + s.eng.Format(f),
		"Differentiate w.r.t " + variable,
	}
	d, err := s.eng.Differentiate(f, variable)
	if err != nil {
		steps = append(steps, "Could not differentiate: "+err.Error())
		return absent(classify.KindDifferentiate, steps)
	}
	value := s.eng.Format(d)
	steps = append(steps, "Result: "+value)
	return single(classify.KindDifferentiate, value, steps)
}

// narrateIntegral handles integrate queries, unwrapping the
// integrate(expr, var) call form when present. A missing closed form is
// an expected outcome, reported as a step.
func (s *Solver) narrateIntegral(text, explicit string) Outcome {
	exprText, callVar, _ := unwrapCall(text, "integrate(")
	variable := firstNonEmpty(callVar, explicit)

	f, err := s.eng.Parse(exprText)
	if err != nil {
		return absent(classify.KindIntegrate, []string{"Parsing error: " + err.Error()})
	}
	if variable == "" {
		variable = s.det.Primary(exprText)
	}

	steps := []string{
		"Integrand: " + s.eng.Format(f),
		"Integrate w.r.t " + variable,
	}
	antideriv, err := s.eng.Integrate(f, variable)
	if err != nil {
		steps = append(steps, "Could not integrate: "+err.Error())
		return absent(classify.KindIntegrate, steps)
	}
	value := s.eng.Format(antideriv)
	steps = append(steps, "Result: "+value+" + C")
	return single(classify.KindIntegrate, value, steps)
}

// narrateSimplify parses the text as a bare expression and simplifies
// it. It is also the terminal fallback for queries nothing else claims.
func (s *Solver) narrateSimplify(text string) Outcome {
	e, err := s.eng.Parse(text)
	if err != nil {
		return absent(classify.KindSimplify, []string{"Parsing error: " + err.Error()})
	}
	steps := []string{"Original: " + s.eng.Format(e)}
	simplified := s.eng.Simplify(e)
	value := s.eng.Format(simplified)
	steps = append(steps, "Simplified: "+value)
	return single(classify.KindSimplify, value, steps)
}

// narrateEvaluate parses the text and reduces it numerically. A value
// that keeps free symbols is shown in simplified symbolic form; text
// that does not parse at all falls back to the simplify narration.
func (s *Solver) narrateEvaluate(text string) Outcome {
	e, err := s.eng.Parse(text)
	if err != nil {
		return s.narrateSimplify(text)
	}
	steps := []string{"Parsed value: " + s.eng.Format(e)}
	var value string
	if v, ok := s.eng.Evaluate(e); ok {
		value = strconv.FormatFloat(v, 'g', 10, 64)
	} else {
		value = s.eng.Format(s.eng.Simplify(e))
	}
	steps = append(steps, "Numeric evaluation: "+value)
	return single(classify.KindEvaluate, value, steps)
}

// unwrapCall extracts the body of prefix(...) when text starts with the
// prefix (case-insensitive): the last character is assumed to close the
// call, the body splits on commas, the first piece is the expression
// and the second, if any, names the variable. Text without the prefix
// is returned whole.
func unwrapCall(text, prefix string) (exprText, variable string, ok bool) {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(strings.ToLower(t), prefix) {
		return text, "", false
	}
	body := ""
	if len(t) > len(prefix) {
		body = t[len(prefix) : len(t)-1]
	}
	parts := strings.Split(body, ",")
	exprText = parts[0]
	if len(parts) > 1 {
		variable = strings.TrimSpace(parts[1])
	}
	return exprText, variable, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
