package exact

import (
	"errors"
	"testing"

	"github.com/solvetrace/solvetrace/pkg/solvetrace/internalerr"
)

func TestDifferentiate(t *testing.T) {
	eng := New()
	cases := []struct {
		in   string
		v    string
		want string
	}{
		{"x**2", "x", "2*x"},
		{"x**3", "x", "3*x**2"},
		{"5", "x", "0"},
		{"y", "x", "0"},
		{"x", "x", "1"},
		{"2*x + 3", "x", "2"},
		{"sin(x)", "x", "cos(x)"},
		{"cos(x)", "x", "-sin(x)"},
		{"exp(x)", "x", "exp(x)"},
		{"log(x)", "x", "1/x"},
		{"tan(x)", "x", "1/cos(x)**2"},
		{"sin(x)*x", "x", "x*cos(x) + sin(x)"},
		{"sin(x**2)", "x", "2*x*cos(x**2)"},
		{"2**x", "x", "2**x*log(2)"},
		{"x*y", "y", "x"},
		{"sqrt(x)", "x", "1/(2*sqrt(x))"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := eng.Parse(tc.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tc.in, err)
			}
			d, err := eng.Differentiate(e, tc.v)
			if err != nil {
				t.Fatalf("Differentiate(%q, %q) error: %v", tc.in, tc.v, err)
			}
			if got := eng.Format(d); got != tc.want {
				t.Errorf("Differentiate(%q, %q) = %q, want %q", tc.in, tc.v, got, tc.want)
			}
		})
	}
}

func TestIntegrate(t *testing.T) {
	eng := New()
	cases := []struct {
		in   string
		v    string
		want string
	}{
		{"7", "x", "7*x"},
		{"x", "x", "x**2/2"},
		{"x**2", "x", "x**3/3"},
		{"2*x", "x", "x**2"},
		{"1/x", "x", "log(x)"},
		{"sin(x)", "x", "-cos(x)"},
		{"cos(x)", "x", "sin(x)"},
		{"exp(x)", "x", "exp(x)"},
		{"sin(2*x)", "x", "-cos(2*x)/2"},
		{"2*sin(x)", "x", "-2*cos(x)"},
		{"x**2 + x", "x", "x**3/3 + x**2/2"},
		{"log(x)", "x", "x*log(x) - x"},
		{"(x+1)**2", "x", "(x + 1)**3/3"},
		{"y", "x", "x*y"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := eng.Parse(tc.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tc.in, err)
			}
			anti, err := eng.Integrate(e, tc.v)
			if err != nil {
				t.Fatalf("Integrate(%q, %q) error: %v", tc.in, tc.v, err)
			}
			if got := eng.Format(anti); got != tc.want {
				t.Errorf("Integrate(%q, %q) = %q, want %q", tc.in, tc.v, got, tc.want)
			}
		})
	}
}

func TestIntegrateNoClosedForm(t *testing.T) {
	eng := New()
	inputs := []string{
		"exp(x**2)",
		"sin(x)*cos(x)",
		"sin(x**2)",
		"abs(x)",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			e, err := eng.Parse(in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", in, err)
			}
			_, err = eng.Integrate(e, "x")
			if !errors.Is(err, internalerr.ErrNoClosedForm) {
				t.Errorf("Integrate(%q, x) error = %v, want ErrNoClosedForm", in, err)
			}
		})
	}
}

func TestDerivativeOfIntegral(t *testing.T) {
	eng := New()
	inputs := []string{"x**2", "sin(x)", "exp(x)", "2*x + 3"}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			e, err := eng.Parse(in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", in, err)
			}
			anti, err := eng.Integrate(e, "x")
			if err != nil {
				t.Fatalf("Integrate(%q, x) error: %v", in, err)
			}
			back, err := eng.Differentiate(anti, "x")
			if err != nil {
				t.Fatalf("Differentiate error: %v", err)
			}
			want := eng.Format(eng.Simplify(e))
			if got := eng.Format(back); got != want {
				t.Errorf("d/dx of integral of %q = %q, want %q", in, got, want)
			}
		})
	}
}
