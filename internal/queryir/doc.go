// Package queryir defines the structured request that influxq compiles into
// an InfluxQL SELECT statement.
//
// A Request names its measurements, optional output fields, filter
// conditions, an optional time range and GROUP BY directives. The package
// contains type definitions and shape classification only; rendering lives
// in package queryinflux.
//
// CONDITION GROUPS:
//
// Conditions are organised in two levels:
//
//	Conditions: []ConditionGroup{
//	    {a, b},   // a AND b
//	    {c},      // OR c
//	}
//
// A request with a single group is a plain conjunction.
//
// SEALED VALUES:
//
// Value is a sealed interface using the marker method pattern. Literal
// variants (String, Int, Float, Bool, Null) are rendered according to their
// type; Raw is emitted verbatim. Durations (20m, 2d) and regular expressions
// (/^cpu/) are not separate constructors: they are derived from the shape of
// a String literal by Classify, so classification lives in one place.
//
// GROUP BY DIRECTIVES:
//
// GroupDirective is a plain string whose kind is recognised by shape:
//
//	*            wildcard
//	time(10m)    time bucket
//	fill(null)   fill policy
//	host         tag
//
// Requests are plain values with no hidden state. Compiling the same
// Request twice yields identical output.
package queryir
