package queryinflux

import (
	"fmt"
	"strings"

	"github.com/roach88/influxq/internal/queryir"
)

// renderCondition renders "field comparator value".
// Returns false if the comparator is not one of queryir.Comparators.
func (c *Compiler) renderCondition(cond queryir.Condition) (string, bool) {
	if !cond.Comparator.Valid() {
		return "", false
	}
	return fmt.Sprintf("%s %s %s",
		cond.Field,
		cond.Comparator,
		c.renderValue(cond.Value, QuoteLiteral)), true
}

// renderConjunction renders conds joined by AND.
// Every condition with an invalid comparator is returned; the rendered text
// is only meaningful when that list is empty.
func (c *Compiler) renderConjunction(conds []queryir.Condition) (string, []queryir.Condition) {
	var parts []string
	var invalid []queryir.Condition

	for _, cond := range conds {
		s, ok := c.renderCondition(cond)
		if !ok {
			invalid = append(invalid, cond)
			continue
		}
		parts = append(parts, s)
	}

	return strings.Join(parts, " AND "), invalid
}
