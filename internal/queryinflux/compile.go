package queryinflux

import (
	"fmt"
	"strings"

	"github.com/roach88/influxq/internal/queryir"
)

// StatementSeparator joins statements of a multi-statement request.
const StatementSeparator = ";"

// Compiler compiles requests to InfluxQL.
//
// A Compiler holds only options and is safe for concurrent use.
type Compiler struct {
	// IntegersAsFloat renders queryir.Int values as plain numbers instead of
	// the integer-typed "20i" form.
	IntegersAsFloat bool
}

// NewCompiler creates a Compiler with default options.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile compiles req with default options.
func Compile(req queryir.Request) (string, error) {
	return NewCompiler().Compile(req)
}

// Compile converts a request to a single InfluxQL SELECT statement.
//
// Checks run in order and the first failing stage aborts:
//  1. measurements present
//  2. WHERE comparators (all invalid conditions reported together)
//  3. GROUP BY directives (all invalid directives reported together)
//
// Returned errors are *CompileError.
func (c *Compiler) Compile(req queryir.Request) (string, error) {
	if len(req.Measurements) == 0 {
		return "", errMeasurementsRequired()
	}

	selectClause := c.compileFields(req.Fields)
	fromClause := c.compileMeasurements(req.Measurements)

	parts := partitionConditions(desugarTimeRange(req))

	var whereClause string
	where, err := c.renderWhere(parts)
	if err != nil {
		return "", err
	}
	if where != "" {
		whereClause = " WHERE " + where
	}

	var groupByClause string
	groupBy, err := c.renderGroupBy(req.GroupBy, len(parts.time) > 0)
	if err != nil {
		return "", err
	}
	if groupBy != "" {
		groupByClause = " GROUP BY " + groupBy
	}

	return fmt.Sprintf("SELECT %s FROM %s%s%s",
		selectClause,
		fromClause,
		whereClause,
		groupByClause), nil
}

// compileFields renders the SELECT list. Fields may be arbitrary
// expressions and are not escaped.
func (c *Compiler) compileFields(fields []string) string {
	if len(fields) == 0 {
		return "*"
	}
	return strings.Join(fields, ",")
}

// compileMeasurements renders the FROM list.
func (c *Compiler) compileMeasurements(measurements []string) string {
	parts := make([]string, len(measurements))
	for i, m := range measurements {
		parts[i] = c.renderIdentifier(m)
	}
	return strings.Join(parts, ",")
}

// CompileBatch compiles every request and joins the statements with Batch.
// The first request that fails aborts the batch; the error names its index
// and wraps the *CompileError.
func (c *Compiler) CompileBatch(reqs ...queryir.Request) (string, error) {
	queries := make([]string, 0, len(reqs))
	for i, req := range reqs {
		q, err := c.Compile(req)
		if err != nil {
			return "", fmt.Errorf("statement %d: %w", i, err)
		}
		queries = append(queries, q)
	}
	return Batch(queries...), nil
}

// Batch joins compiled statements into one multi-statement request,
// preserving order.
func Batch(queries ...string) string {
	return strings.Join(queries, StatementSeparator)
}
