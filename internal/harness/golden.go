package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// GoldenDir is where golden files live, relative to the test's package.
const GoldenDir = "testdata/golden"

// Snapshot renders a result in the golden file format:
//
//	# <scenario>
//	== <case>
//	query: <query>
//	== <case>
//	error: <error text>
//
// Every line ends with a newline so the output is stable byte for byte.
func Snapshot(scenario *Scenario, result *Result) []byte {
	var buf strings.Builder
	fmt.Fprintf(&buf, "# %s\n", scenario.Name)
	for _, c := range result.Cases {
		fmt.Fprintf(&buf, "== %s\n", c.Name)
		if c.Failed() {
			fmt.Fprintf(&buf, "error: %s\n", c.Error)
		} else {
			fmt.Fprintf(&buf, "query: %s\n", c.Query)
		}
	}
	return []byte(buf.String())
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check expectations.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, Snapshot(scenario, result))

	return result, nil
}
