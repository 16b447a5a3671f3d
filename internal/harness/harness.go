package harness

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/influxq/internal/queryinflux"
	"github.com/roach88/influxq/internal/queryir"
)

// Result is the outcome of a scenario.
type Result struct {
	// Pass is true when every case expectation and assertion holds.
	Pass bool `json:"pass"`

	// Cases holds one entry per scenario case, in order.
	Cases []CaseResult `json:"cases"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// CaseResult is what one case compiled to.
type CaseResult struct {
	Name  string `json:"name"`
	Query string `json:"query,omitempty"`

	// Code is the CompileError code when compilation failed.
	Code string `json:"code,omitempty"`
	// Error is the full error text when compilation failed.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the case did not compile.
func (c CaseResult) Failed() bool {
	return c.Error != ""
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Case returns the result for the named case.
func (r *Result) Case(name string) (CaseResult, bool) {
	for _, c := range r.Cases {
		if c.Name == name {
			return c, true
		}
	}
	return CaseResult{}, false
}

// Harness runs scenarios.
type Harness struct {
	logger *slog.Logger
}

// New creates a harness. A nil logger discards.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{logger: logger}
}

// Run executes a scenario with a discarding logger.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(scenario)
}

// Run compiles every case, checks its expectation and then evaluates the
// scenario assertions.
//
// A case whose request document cannot be converted (for example value
// and raw both set) is a scenario error, not a case failure.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	compiler := &queryinflux.Compiler{IntegersAsFloat: scenario.Options.IntegersAsFloat}
	result := NewResult()

	for i, c := range scenario.Cases {
		reqs, err := c.Request.Requests()
		if err != nil {
			return nil, fmt.Errorf("case %d (%s): %w", i, c.Name, err)
		}

		cr := compileCase(compiler, c.Name, reqs)
		result.Cases = append(result.Cases, cr)

		for _, msg := range checkExpect(c, cr) {
			result.AddError(fmt.Sprintf("case %q: %s", c.Name, msg))
		}

		h.logger.Debug("case compiled",
			"scenario", scenario.Name,
			"case", c.Name,
			"query", cr.Query,
			"code", cr.Code)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	h.logger.Info("scenario finished",
		"scenario", scenario.Name,
		"cases", len(result.Cases),
		"pass", result.Pass)
	return result, nil
}

func compileCase(compiler *queryinflux.Compiler, name string, reqs []queryir.Request) CaseResult {
	var query string
	var err error
	if len(reqs) == 1 {
		query, err = compiler.Compile(reqs[0])
	} else {
		query, err = compiler.CompileBatch(reqs...)
	}

	cr := CaseResult{Name: name, Query: query}
	if err != nil {
		cr.Error = err.Error()
		if ce, ok := queryinflux.AsCompileError(err); ok {
			cr.Code = string(ce.Code)
		}
	}
	return cr
}

// checkExpect returns one message per unmet expectation.
func checkExpect(c Case, cr CaseResult) []string {
	var failures []string
	exp := c.Expect

	switch {
	case exp.Error != "" && !cr.Failed():
		failures = append(failures, fmt.Sprintf("expected error %s, got query %q", exp.Error, cr.Query))
	case exp.Error != "" && cr.Code != exp.Error:
		failures = append(failures, fmt.Sprintf("expected error %s, got %s", exp.Error, cr.Error))
	case exp.Error == "" && cr.Failed():
		failures = append(failures, fmt.Sprintf("unexpected error: %s", cr.Error))
	case exp.Query != "" && cr.Query != exp.Query:
		failures = append(failures, fmt.Sprintf("query mismatch\n  expected: %s\n  actual:   %s", exp.Query, cr.Query))
	}

	text := cr.Query
	if cr.Failed() {
		text = cr.Error
	}
	for _, sub := range exp.Contains {
		if !strings.Contains(text, sub) {
			failures = append(failures, fmt.Sprintf("expected %q to contain %q", text, sub))
		}
	}

	return failures
}
