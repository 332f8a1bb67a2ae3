// Command solvetrace answers math queries with step-by-step traces,
// either one-shot via -query or as an interactive prompt.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/solvetrace/solvetrace/pkg/solvetrace"
	"github.com/solvetrace/solvetrace/pkg/solvetrace/classify"
	"github.com/solvetrace/solvetrace/pkg/solvetrace/config"
	"github.com/solvetrace/solvetrace/pkg/solvetrace/symbols"
)

func main() {
	var (
		configPath = flag.String("config", "", "Config file path (optional)")
		query      = flag.String("query", "", "One-shot query (non-interactive mode)")
		mode       = flag.String("mode", "", "Operation override: solve, diff, integrate, simplify")
		variable   = flag.String("var", "", "Variable for diff/integrate when the query names none")
	)
	flag.Parse()

	solver, defaultMode, err := buildSolver(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	reqMode := defaultMode
	if *mode != "" {
		reqMode = classify.ParseMode(*mode)
	}

	// One-shot query mode
	if *query != "" {
		answer(os.Stdout, solver, solvetrace.Request{Query: *query, Mode: reqMode, Variable: *variable})
		return
	}

	// Interactive mode
	fmt.Println("===========================================")
	fmt.Println("  solvetrace")
	fmt.Println("  Math queries with step-by-step traces")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Type a query (Ctrl+D to exit):")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		answer(os.Stdout, solver, solvetrace.Request{Query: line, Mode: reqMode, Variable: *variable})
	}

	fmt.Println("\nGoodbye!")
}

// buildSolver loads configuration and assembles the solver plus the
// default operation mode.
func buildSolver(configPath string) (*solvetrace.Solver, classify.Mode, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, classify.ModeAuto, fmt.Errorf("load config: %w", err)
	}

	detector := symbols.NewDetector(nil)
	for _, name := range cfg.ReservedFunctions {
		detector.AddReserved(name)
	}

	solver := solvetrace.New(solvetrace.Options{Detector: detector})
	return solver, classify.ParseMode(cfg.DefaultMode), nil
}

// answer prints the step trace and result line for one query.
func answer(w io.Writer, solver *solvetrace.Solver, req solvetrace.Request) {
	out := solver.Answer(req)

	for _, step := range out.Steps {
		fmt.Fprintln(w, "  •", step)
	}

	switch out.Form {
	case solvetrace.Single:
		fmt.Fprintln(w, "Result:", out.Values[0])
	case solvetrace.Many:
		fmt.Fprintln(w, "Result:", strings.Join(out.Values, ", "))
	default:
		fmt.Fprintln(w, "No result.")
	}
	fmt.Fprintln(w)
}
