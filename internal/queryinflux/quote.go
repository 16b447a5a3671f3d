package queryinflux

import (
	"strings"

	"github.com/roach88/influxq/internal/queryir"
)

// Quoting selects how a literal string is wrapped.
type Quoting int

const (
	// QuoteIdentifier wraps measurement and tag names in double quotes.
	QuoteIdentifier Quoting = iota
	// QuoteLiteral wraps condition values in single quotes.
	QuoteLiteral
)

func (q Quoting) char() string {
	if q == QuoteLiteral {
		return "'"
	}
	return `"`
}

// quote wraps s in the quote character of q, escaping backslashes and
// embedded quote characters.
func quote(s string, q Quoting) string {
	c := q.char()
	escaped := strings.NewReplacer(`\`, `\\`, c, `\`+c).Replace(s)
	return c + escaped + c
}

// renderValue renders v under the quoting mode q.
//
// Raw values, duration-shaped and regex-shaped strings are returned
// unchanged. Other strings are quoted. Numbers and booleans are never
// quoted; a nil or Null value renders as 0.
func (c *Compiler) renderValue(v queryir.Value, q Quoting) string {
	switch val := v.(type) {
	case queryir.Raw:
		return string(val)
	case queryir.String:
		if queryir.Classify(val) != queryir.KindLiteral {
			return string(val)
		}
		return quote(string(val), q)
	case queryir.Int:
		if c.IntegersAsFloat {
			return queryir.Text(val)
		}
		return queryir.Text(val) + "i"
	default:
		return queryir.Text(v)
	}
}

// renderIdentifier renders a measurement or tag name.
func (c *Compiler) renderIdentifier(name string) string {
	return c.renderValue(queryir.String(name), QuoteIdentifier)
}
