// Package harness provides a conformance testing framework for the query
// compiler.
//
// A scenario is a YAML file holding named cases. Each case carries a
// request in the request-file document shape and an expectation: either
// the exact query it must compile to, or the CompileError code it must
// fail with. Scenario-level assertions relate cases to each other
// (same_query, error_count, parses).
//
// Results are pinned by golden files. Snapshot renders one line per case,
// and RunWithGolden compares it with goldie; the CLI test command uses the
// same snapshot for its --update flow.
package harness
