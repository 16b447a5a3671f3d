package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComparator_Valid(t *testing.T) {
	for _, c := range Comparators {
		assert.True(t, c.Valid(), "comparator %q should be valid", c)
	}

	for _, c := range []Comparator{"", "==", "!=", "<>", "LIKE", "=>"} {
		assert.False(t, c.Valid(), "comparator %q should be invalid", c)
	}
}

func TestCondition_IsTime(t *testing.T) {
	assert.True(t, Condition{Field: "time", Value: Raw("now()"), Comparator: Greater}.IsTime())
	assert.False(t, Condition{Field: "Time", Value: Raw("now()"), Comparator: Greater}.IsTime())
	assert.False(t, Condition{Field: "time_ms", Value: Int(1), Comparator: Greater}.IsTime())
}

func TestCondition_String(t *testing.T) {
	c := Condition{Field: "host", Value: String("node-1"), Comparator: Equal}
	assert.Equal(t, "host = node-1", c.String())
}

func TestGroupDirective_Kind(t *testing.T) {
	testCases := []struct {
		directive GroupDirective
		kind      DirectiveKind
		arg       string
	}{
		{"*", DirectiveWildcard, ""},
		{"time(2d)", DirectiveTimeBucket, "2d"},
		{"time(10m, 5m)", DirectiveTimeBucket, "10m, 5m"},
		{"fill(null)", DirectiveFill, "null"},
		{"fill( 0 )", DirectiveFill, "0"},
		{"host", DirectiveTag, ""},
		{"time", DirectiveTag, ""},
		{"fill(", DirectiveTag, ""},
		{"timestamp(1h)", DirectiveTag, ""},
	}

	for _, tc := range testCases {
		t.Run(string(tc.directive), func(t *testing.T) {
			assert.Equal(t, tc.kind, tc.directive.Kind())
			assert.Equal(t, tc.arg, tc.directive.Argument())
		})
	}
}

func TestGroupDirective_Constructors(t *testing.T) {
	assert.Equal(t, GroupDirective("host"), Tag("host"))
	assert.Equal(t, GroupDirective("time(1h)"), TimeBucket("1h"))
	assert.Equal(t, GroupDirective("fill(previous)"), Fill("previous"))
	assert.Equal(t, DirectiveWildcard, Wildcard.Kind())
}

func TestValidFillOption(t *testing.T) {
	for _, opt := range []string{"null", "none", "previous", "linear", "0", "-1", "+2", "3.14", ".5", "10."} {
		assert.True(t, ValidFillOption(opt), "fill option %q should be valid", opt)
	}
	for _, opt := range []string{"", "NULL", "invalid_opt", "prev", "1h", "NaN", "inf", "-Infinity", "0x1p3", "1_0", "1e3", "-", "."} {
		assert.False(t, ValidFillOption(opt), "fill option %q should be invalid", opt)
	}
}
