package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/influxq/internal/requestfile"
)

// Scenario defines a conformance scenario: a set of requests and the
// queries or errors they must compile to.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Options configure the compiler for every case.
	Options Options `yaml:"options,omitempty"`

	// Cases are compiled in order.
	Cases []Case `yaml:"cases"`

	// Assertions check relations across cases.
	// Supported types: same_query, error_count, parses
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Options mirror queryinflux.Compiler options.
type Options struct {
	IntegersAsFloat bool `yaml:"integers_as_float,omitempty"`
}

// Case is one request and its expected outcome.
type Case struct {
	Name string `yaml:"name"`

	// Request uses the request-file document shape. A request with
	// statements compiles as a batch.
	Request requestfile.File `yaml:"request"`

	Expect Expect `yaml:"expect"`
}

// Expect specifies what a case must produce.
//
// With Error set, compilation must fail with that CompileError code.
// Otherwise it must succeed and, if Query is set, match it exactly.
// Every Contains entry must be a substring of the query or error text.
type Expect struct {
	Query    string   `yaml:"query,omitempty"`
	Error    string   `yaml:"error,omitempty"`
	Contains []string `yaml:"contains,omitempty"`
}

// Assertion checks a relation across case results.
type Assertion struct {
	// Type specifies the assertion type:
	// - "same_query": all listed cases compile to the identical query
	// - "error_count": exactly Count cases fail with error code Code
	// - "parses": every listed case (all successful cases when empty)
	//   is accepted by the InfluxQL parser
	Type string `yaml:"type"`

	Cases []string `yaml:"cases,omitempty"`
	Code  string   `yaml:"code,omitempty"`
	Count int      `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertSameQuery  = "same_query"
	AssertErrorCount = "error_count"
	AssertParses     = "parses"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true

		if c.Expect.Query != "" && c.Expect.Error != "" {
			return fmt.Errorf("cases[%d]: expect.query and expect.error are mutually exclusive", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a, seen); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion, cases map[string]bool) error {
	for _, name := range a.Cases {
		if !cases[name] {
			return fmt.Errorf("assertions[%d]: unknown case %q", index, name)
		}
	}

	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertSameQuery:
		if len(a.Cases) < 2 {
			return fmt.Errorf("assertions[%d]: same_query needs at least two cases", index)
		}
	case AssertErrorCount:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for error_count", index)
		}
	case AssertParses:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
