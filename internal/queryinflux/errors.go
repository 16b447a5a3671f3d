package queryinflux

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/influxq/internal/queryir"
)

// ErrorCode categorizes compile errors.
type ErrorCode string

const (
	// ErrCodeMeasurementsRequired indicates the request names no measurement.
	ErrCodeMeasurementsRequired ErrorCode = "MEASUREMENTS_REQUIRED"

	// ErrCodeInvalidComparator indicates one or more conditions use an
	// unknown comparator.
	ErrCodeInvalidComparator ErrorCode = "INVALID_COMPARATOR"

	// ErrCodeInvalidGroupBy indicates one or more GROUP BY directives are
	// invalid.
	ErrCodeInvalidGroupBy ErrorCode = "INVALID_GROUP_BY_DIRECTIVE"
)

// Reasons attached to InvalidDirective.
const (
	ReasonMissingTimeCondition = "missing time condition in where statement"
)

// InvalidDirective pairs a rejected GROUP BY directive with the reason.
type InvalidDirective struct {
	Directive queryir.GroupDirective `json:"directive"`
	Reason    string                 `json:"reason"`
}

// CompileError reports why a request could not be compiled.
//
// Conditions is populated for ErrCodeInvalidComparator and Directives for
// ErrCodeInvalidGroupBy. Both carry every offending entry, not only the
// first one found.
type CompileError struct {
	Code       ErrorCode
	Message    string
	Conditions []queryir.Condition
	Directives []InvalidDirective
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func errMeasurementsRequired() *CompileError {
	return &CompileError{
		Code:    ErrCodeMeasurementsRequired,
		Message: "at least one measurement is required",
	}
}

func errInvalidComparators(conds []queryir.Condition) *CompileError {
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = fmt.Sprintf("%q in %q", c.Comparator, c.String())
	}
	return &CompileError{
		Code:       ErrCodeInvalidComparator,
		Message:    fmt.Sprintf("invalid comparator in %d condition(s): %s", len(conds), strings.Join(parts, "; ")),
		Conditions: conds,
	}
}

func errInvalidDirectives(dirs []InvalidDirective) *CompileError {
	parts := make([]string, len(dirs))
	for i, d := range dirs {
		parts[i] = fmt.Sprintf("%s: %s", d.Directive, d.Reason)
	}
	return &CompileError{
		Code:       ErrCodeInvalidGroupBy,
		Message:    fmt.Sprintf("invalid group by directive(s): %s", strings.Join(parts, "; ")),
		Directives: dirs,
	}
}

// fillReason describes a rejected fill option.
func fillReason(option string) string {
	return fmt.Sprintf("invalid fill option %q: must be a number or one of %s",
		option, strings.Join(queryir.FillOptions, ", "))
}

// AsCompileError extracts a *CompileError from err, following wraps.
func AsCompileError(err error) (*CompileError, bool) {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsMeasurementsRequired returns true if err is a missing-measurements error.
func IsMeasurementsRequired(err error) bool {
	return hasCode(err, ErrCodeMeasurementsRequired)
}

// IsInvalidComparator returns true if err reports invalid comparators.
func IsInvalidComparator(err error) bool {
	return hasCode(err, ErrCodeInvalidComparator)
}

// IsInvalidGroupBy returns true if err reports invalid GROUP BY directives.
func IsInvalidGroupBy(err error) bool {
	return hasCode(err, ErrCodeInvalidGroupBy)
}

func hasCode(err error, code ErrorCode) bool {
	ce, ok := AsCompileError(err)
	return ok && ce.Code == code
}
