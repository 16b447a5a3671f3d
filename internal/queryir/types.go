package queryir

import (
	"regexp"
	"strings"
)

// TimeField is the field name that marks a condition as a time bound.
const TimeField = "time"

// Request describes a single InfluxQL SELECT statement.
//
// Semantics:
//
//	SELECT <Fields> FROM <Measurements> WHERE <Conditions> GROUP BY <GroupBy>
//
// From and To are shorthand for time bounds: a non-empty From adds
// `time > From` and a non-empty To adds `time < To`. Both are raw
// expressions such as "now() - 1h".
type Request struct {
	Measurements []string         // Source series; at least one is required
	Fields       []string         // Output expressions; empty selects *
	Conditions   []ConditionGroup // OR across groups, AND within a group
	From         string           // Lower time bound (raw), empty = none
	To           string           // Upper time bound (raw), empty = none
	GroupBy      []GroupDirective // Tags, time(...), fill(...) or *
}

// ConditionGroup is a conjunction of conditions.
type ConditionGroup []Condition

// Condition is a single `field comparator value` filter.
type Condition struct {
	Field      string
	Value      Value
	Comparator Comparator
}

// IsTime reports whether the condition bounds the time column.
func (c Condition) IsTime() bool {
	return c.Field == TimeField
}

// String renders the condition for diagnostics. Values are shown in their
// textual form without quoting.
func (c Condition) String() string {
	return c.Field + " " + string(c.Comparator) + " " + Text(c.Value)
}

// Comparator is an InfluxQL comparison operator.
type Comparator string

const (
	Equal          Comparator = "="
	Less           Comparator = "<"
	LessOrEqual    Comparator = "<="
	Greater        Comparator = ">"
	GreaterOrEqual Comparator = ">="
	RegexMatch     Comparator = "=~"
	RegexNotMatch  Comparator = "!~"
)

// Comparators lists every accepted comparator.
var Comparators = []Comparator{
	Equal, Less, LessOrEqual, Greater, GreaterOrEqual, RegexMatch, RegexNotMatch,
}

// Valid reports whether c is one of Comparators.
func (c Comparator) Valid() bool {
	for _, known := range Comparators {
		if c == known {
			return true
		}
	}
	return false
}

// GroupDirective is one GROUP BY entry. Its kind is derived from its shape;
// see DirectiveKind.
type GroupDirective string

// Wildcard groups by every tag.
const Wildcard GroupDirective = "*"

// DirectiveKind classifies a GroupDirective.
type DirectiveKind int

const (
	DirectiveTag DirectiveKind = iota
	DirectiveTimeBucket
	DirectiveFill
	DirectiveWildcard
)

func (k DirectiveKind) String() string {
	switch k {
	case DirectiveTimeBucket:
		return "time"
	case DirectiveFill:
		return "fill"
	case DirectiveWildcard:
		return "wildcard"
	default:
		return "tag"
	}
}

// FillOptions lists the keyword arguments accepted by fill(). Any numeric
// literal is accepted as well.
var FillOptions = []string{"null", "none", "previous", "linear"}

// Tag returns a directive grouping by the named tag.
func Tag(name string) GroupDirective {
	return GroupDirective(name)
}

// TimeBucket returns a time(interval) directive.
func TimeBucket(interval string) GroupDirective {
	return GroupDirective("time(" + interval + ")")
}

// Fill returns a fill(option) directive.
func Fill(option string) GroupDirective {
	return GroupDirective("fill(" + option + ")")
}

// Kind classifies the directive by shape.
func (d GroupDirective) Kind() DirectiveKind {
	s := string(d)
	switch {
	case d == Wildcard:
		return DirectiveWildcard
	case isCall(s, "time"):
		return DirectiveTimeBucket
	case isCall(s, "fill"):
		return DirectiveFill
	default:
		return DirectiveTag
	}
}

// Argument returns the text between the parentheses of a time(...) or
// fill(...) directive, and "" for other kinds.
func (d GroupDirective) Argument() string {
	switch d.Kind() {
	case DirectiveTimeBucket:
		return strings.TrimSpace(string(d)[len("time(") : len(d)-1])
	case DirectiveFill:
		return strings.TrimSpace(string(d)[len("fill(") : len(d)-1])
	default:
		return ""
	}
}

// fillNumberPattern matches the decimal literals InfluxQL accepts in fill().
// Exponents, hex floats, underscores, NaN and Inf are not numbers there.
var fillNumberPattern = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)$`)

// ValidFillOption reports whether option is a fill keyword or a decimal number.
func ValidFillOption(option string) bool {
	for _, known := range FillOptions {
		if option == known {
			return true
		}
	}
	return fillNumberPattern.MatchString(option)
}

func isCall(s, name string) bool {
	return strings.HasPrefix(s, name+"(") && strings.HasSuffix(s, ")")
}
