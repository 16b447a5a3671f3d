package queryinflux

import (
	"strings"

	"github.com/roach88/influxq/internal/queryir"
)

// desugarTimeRange turns From/To into ordinary condition groups.
//
// From is prepended first and To second, so a request with both starts
// with the To group:
//
//	[{time < To}], [{time > From}], <req.Conditions...>
func desugarTimeRange(req queryir.Request) []queryir.ConditionGroup {
	groups := make([]queryir.ConditionGroup, 0, len(req.Conditions)+2)
	groups = append(groups, req.Conditions...)

	if req.From != "" {
		groups = prependGroup(groups, queryir.Condition{
			Field:      queryir.TimeField,
			Value:      queryir.Raw(req.From),
			Comparator: queryir.Greater,
		})
	}
	if req.To != "" {
		groups = prependGroup(groups, queryir.Condition{
			Field:      queryir.TimeField,
			Value:      queryir.Raw(req.To),
			Comparator: queryir.Less,
		})
	}

	return groups
}

func prependGroup(groups []queryir.ConditionGroup, cond queryir.Condition) []queryir.ConditionGroup {
	return append([]queryir.ConditionGroup{{cond}}, groups...)
}

// partitioned holds conditions split into the time pool and the remaining
// OR groups.
type partitioned struct {
	time   []queryir.Condition      // AND-ed together
	groups []queryir.ConditionGroup // OR across, AND within
}

// partitionConditions extracts every time condition, whichever group it
// came from. Time ranges intersect, so the pool is always a conjunction.
// Groups left empty by the extraction are dropped.
func partitionConditions(groups []queryir.ConditionGroup) partitioned {
	var p partitioned
	for _, group := range groups {
		var rest queryir.ConditionGroup
		for _, cond := range group {
			if cond.IsTime() {
				p.time = append(p.time, cond)
			} else {
				rest = append(rest, cond)
			}
		}
		if len(rest) > 0 {
			p.groups = append(p.groups, rest)
		}
	}
	return p
}

// renderWhere renders the WHERE body, or "" when there are no conditions.
//
// Layout:
//
//	time only      →  <time>
//	non-time only  →  <g1> OR <g2>
//	both           →  (<time>) AND (<g1> OR <g2>)
func (c *Compiler) renderWhere(p partitioned) (string, error) {
	timeSQL, invalid := c.renderConjunction(p.time)

	var groupParts []string
	for _, group := range p.groups {
		s, bad := c.renderConjunction(group)
		invalid = append(invalid, bad...)
		if s != "" {
			groupParts = append(groupParts, s)
		}
	}

	if len(invalid) > 0 {
		return "", errInvalidComparators(invalid)
	}

	rest := strings.Join(groupParts, " OR ")
	switch {
	case timeSQL != "" && rest != "":
		return "(" + timeSQL + ") AND (" + rest + ")", nil
	case timeSQL != "":
		return timeSQL, nil
	default:
		return rest, nil
	}
}

// renderGroupBy renders the GROUP BY body, or "" when there are no
// directives. hasTime reports whether the WHERE clause bounds time.
//
// Fill directives are moved after every other directive and separated by a
// space instead of a comma:
//
//	[time(1h), fill(0), host]  →  time(1h),"host" fill(0)
func (c *Compiler) renderGroupBy(directives []queryir.GroupDirective, hasTime bool) (string, error) {
	if len(directives) == 0 {
		return "", nil
	}
	if len(directives) == 1 && directives[0] == queryir.Wildcard {
		return string(queryir.Wildcard), nil
	}

	var others, fills []string
	var invalid []InvalidDirective

	for _, d := range directives {
		switch d.Kind() {
		case queryir.DirectiveTimeBucket:
			if !hasTime {
				invalid = append(invalid, InvalidDirective{Directive: d, Reason: ReasonMissingTimeCondition})
				continue
			}
			others = append(others, string(d))
		case queryir.DirectiveFill:
			if !queryir.ValidFillOption(d.Argument()) {
				invalid = append(invalid, InvalidDirective{Directive: d, Reason: fillReason(d.Argument())})
				continue
			}
			fills = append(fills, string(d))
		case queryir.DirectiveWildcard:
			others = append(others, string(d))
		default:
			others = append(others, c.renderIdentifier(string(d)))
		}
	}

	if len(invalid) > 0 {
		return "", errInvalidDirectives(invalid)
	}

	out := strings.Join(others, ",")
	if len(fills) > 0 {
		if out != "" {
			out += " "
		}
		out += strings.Join(fills, " ")
	}
	return out, nil
}
