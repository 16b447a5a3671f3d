package harness

import (
	"fmt"
	"strings"

	"github.com/influxdata/influxql"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Cases    []CaseResult // Case results for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Cases) > 0 {
		fmt.Fprintf(&buf, "\nCases:\n")
		for i, c := range e.Cases {
			if c.Failed() {
				fmt.Fprintf(&buf, "  [%d] %s: %s\n", i+1, c.Name, c.Error)
			} else {
				fmt.Fprintf(&buf, "  [%d] %s: %s\n", i+1, c.Name, c.Query)
			}
		}
	}

	return buf.String()
}

// assertSameQuery checks that every listed case compiled to one query.
func assertSameQuery(result *Result, assertion Assertion) error {
	var cases []CaseResult
	for _, name := range assertion.Cases {
		c, ok := result.Case(name)
		if !ok {
			return fmt.Errorf("same_query: unknown case %q", name)
		}
		cases = append(cases, c)
	}

	first := cases[0]
	for _, c := range cases[1:] {
		if c.Failed() || first.Failed() || c.Query != first.Query {
			return &AssertionError{
				Type:     AssertSameQuery,
				Expected: fmt.Sprintf("cases %s compile to one query", strings.Join(assertion.Cases, ", ")),
				Actual:   fmt.Sprintf("%s differs from %s", c.Name, first.Name),
				Cases:    cases,
			}
		}
	}
	return nil
}

// assertErrorCount checks how many cases failed with the given code.
func assertErrorCount(result *Result, assertion Assertion) error {
	count := 0
	for _, c := range result.Cases {
		if c.Code == assertion.Code {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertErrorCount,
			Expected: fmt.Sprintf("%d case(s) failing with %s", assertion.Count, assertion.Code),
			Actual:   fmt.Sprintf("%d case(s)", count),
			Cases:    result.Cases,
		}
	}
	return nil
}

// assertParses checks compiled queries against the InfluxQL parser.
// Integer-typed literals ("20i") are not part of the parser's grammar, so
// scenarios using this assertion set integers_as_float.
func assertParses(result *Result, assertion Assertion) error {
	var targets []CaseResult
	if len(assertion.Cases) == 0 {
		for _, c := range result.Cases {
			if !c.Failed() {
				targets = append(targets, c)
			}
		}
	} else {
		for _, name := range assertion.Cases {
			c, ok := result.Case(name)
			if !ok {
				return fmt.Errorf("parses: unknown case %q", name)
			}
			targets = append(targets, c)
		}
	}

	for _, c := range targets {
		if c.Failed() {
			return &AssertionError{
				Type:     AssertParses,
				Expected: fmt.Sprintf("case %s compiles", c.Name),
				Actual:   c.Error,
			}
		}
		if _, err := influxql.ParseQuery(c.Query); err != nil {
			return &AssertionError{
				Type:     AssertParses,
				Expected: fmt.Sprintf("case %s parses as InfluxQL", c.Name),
				Actual:   err.Error(),
				Cases:    []CaseResult{c},
			}
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertSameQuery:
			err = assertSameQuery(result, assertion)
		case AssertErrorCount:
			err = assertErrorCount(result, assertion)
		case AssertParses:
			err = assertParses(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
