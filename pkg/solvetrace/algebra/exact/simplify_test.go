package exact

import "testing"

func TestSimplify(t *testing.T) {
	eng := New()
	cases := []struct {
		in   string
		want string
	}{
		// numeric folding
		{"2+3", "5"},
		{"2*3", "6"},
		{"2**10", "1024"},
		{"1/2 + 1/3", "5/6"},
		{"10/4", "5/2"},

		// identities
		{"x + 0", "x"},
		{"x*1", "x"},
		{"x*0", "0"},
		{"x**0", "1"},
		{"x**1", "x"},
		{"x - x", "0"},
		{"x/x", "1"},

		// like terms and factors
		{"x + x", "2*x"},
		{"2*x + 3*x", "5*x"},
		{"x*x", "x**2"},
		{"x**2*x", "x**3"},
		{"x**2*x**-1", "x"},
		{"3*x - 2*x - x", "0"},

		// canonical ordering
		{"1 + x", "x + 1"},
		{"y*x", "x*y"},
		{"1 + x**2 + x", "x**2 + x + 1"},

		// roots
		{"sqrt(4)", "2"},
		{"sqrt(8)", "2*sqrt(2)"},
		{"sqrt(12)", "2*sqrt(3)"},
		{"sqrt(2)", "sqrt(2)"},
		{"sqrt(-4)", "2*i"},
		{"sqrt(-1)", "i"},
		{"sqrt(x)*sqrt(x)", "x"},

		// function values
		{"sin(0)", "0"},
		{"cos(0)", "1"},
		{"tan(0)", "0"},
		{"exp(0)", "1"},
		{"log(1)", "0"},
		{"ln(1)", "0"},
		{"abs(-5)", "5"},
		{"sin(x)", "sin(x)"},

		// stays put
		{"2*x - 4", "2*x - 4"},
		{"2*sqrt(2)", "2*sqrt(2)"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := eng.Parse(tc.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tc.in, err)
			}
			if got := eng.Format(eng.Simplify(e)); got != tc.want {
				t.Errorf("Simplify(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	eng := New()
	inputs := []string{
		"2*x + 3*x - 1",
		"sqrt(8)",
		"x**2*x - x**3",
		"(x+1)*(x-1)",
		"sin(x)*cos(x)",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			e, err := eng.Parse(in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", in, err)
			}
			once := eng.Simplify(e)
			twice := eng.Simplify(once)
			if eng.Format(once) != eng.Format(twice) {
				t.Errorf("Simplify(Simplify(%q)) = %q, want %q", in, eng.Format(twice), eng.Format(once))
			}
		})
	}
}

func TestExpand(t *testing.T) {
	eng := New()
	cases := []struct {
		in   string
		want string
	}{
		{"2*(x + 3)", "2*x + 6"},
		{"(x+1)*(x-1)", "x**2 - 1"},
		{"(x+1)**2", "x**2 + 2*x + 1"},
		{"(x+2)*(x+3)", "x**2 + 5*x + 6"},
		{"x*(x + y)", "x**2 + x*y"},
		{"(x+1)**3", "x**3 + 3*x**2 + 3*x + 1"},
		{"x + 1", "x + 1"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := eng.Parse(tc.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tc.in, err)
			}
			if got := eng.Format(eng.Expand(e)); got != tc.want {
				t.Errorf("Expand(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	eng := New()
	cases := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"2+3", 5, true},
		{"2**3", 8, true},
		{"10/4", 2.5, true},
		{"sqrt(4)", 2, true},
		{"abs(-3)", 3, true},
		{"x + 1", 0, false},
		{"log(0)", 0, false},
		{"1/0", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := eng.Parse(tc.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tc.in, err)
			}
			got, ok := eng.Evaluate(e)
			if ok != tc.wantOK {
				t.Fatalf("Evaluate(%q) ok = %v, want %v", tc.in, ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
