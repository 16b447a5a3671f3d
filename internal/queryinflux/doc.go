// Package queryinflux compiles a queryir.Request into an InfluxQL SELECT
// statement.
//
// Compilation is a pure function of the request:
//
//	[queryir.Request] → desugar from/to → partition time conditions
//	                  → WHERE → GROUP BY → "SELECT ... FROM ..."
//
// Rules worth knowing when reading the output:
//   - Measurements and tags are double-quoted identifiers; condition values
//     are single-quoted literals. Duration (20m) and regex (/^a/) shaped
//     strings are never quoted, nor is queryir.Raw.
//   - Integers carry the "i" suffix unless Compiler.IntegersAsFloat is set.
//   - Every condition on the "time" field is hoisted out of its OR group and
//     AND-ed with the other time bounds: `(<time>) AND (<rest>)`.
//   - time(...) in GROUP BY requires a time bound in WHERE.
//   - fill(...) always renders last, separated by a space.
//
// Validation is all-or-nothing: every invalid comparator (or every invalid
// GROUP BY directive) is reported in a single *CompileError and no partial
// query is returned.
package queryinflux
