package queryir

import (
	"regexp"
	"strconv"
)

// Value is a sealed interface representing a condition operand.
// Only String, Int, Float, Bool, Null and Raw implement it.
type Value interface {
	value() // Sealed - only these types implement it
}

// String is a string literal. Depending on its shape it is classified as a
// duration, a regex or a quoted literal.
type String string

func (String) value() {}

// Int is an integer literal.
type Int int64

func (Int) value() {}

// Float is a floating point literal. NaN and Inf have no InfluxQL literal
// form; request files reject them on load.
type Float float64

func (Float) value() {}

// Bool is a boolean literal.
type Bool bool

func (Bool) value() {}

// Null is an absent value. It renders as 0.
type Null struct{}

func (Null) value() {}

// Raw is an expression emitted verbatim, e.g. "now() - 1h".
type Raw string

func (Raw) value() {}

// Kind is the rendering class of a Value.
type Kind int

const (
	KindLiteral Kind = iota
	KindRaw
	KindDuration
	KindRegex
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindDuration:
		return "duration"
	case KindRegex:
		return "regex"
	default:
		return "literal"
	}
}

// DurationUnits are the suffixes recognised on duration literals.
var DurationUnits = []string{"u", "µ", "ms", "s", "m", "h", "d", "w"}

var (
	durationPattern = regexp.MustCompile(`^\d+(?:u|µ|ms|s|m|h|d|w)$`)
	regexPattern    = regexp.MustCompile(`(?s)^/.*/$`)
)

// Classify returns the rendering class of v.
//
// Precedence: Raw, then duration shape, then regex shape, then literal.
// Only String values can take a duration or regex shape.
func Classify(v Value) Kind {
	switch val := v.(type) {
	case Raw:
		return KindRaw
	case String:
		return ClassifyText(string(val))
	default:
		return KindLiteral
	}
}

// ClassifyText classifies a bare string by shape.
func ClassifyText(s string) Kind {
	switch {
	case durationPattern.MatchString(s):
		return KindDuration
	case regexPattern.MatchString(s):
		return KindRegex
	default:
		return KindLiteral
	}
}

// Text returns the natural textual form of v without quoting or type
// suffixes. A nil Value or Null yields "0".
func Text(v Value) string {
	switch val := v.(type) {
	case String:
		return string(val)
	case Raw:
		return string(val)
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return strconv.FormatFloat(float64(val), 'f', -1, 64)
	case Bool:
		return strconv.FormatBool(bool(val))
	default:
		return "0"
	}
}
