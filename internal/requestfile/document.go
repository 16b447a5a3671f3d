package requestfile

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/roach88/influxq/internal/queryir"
)

// File is the top-level shape of a request file.
// Either the inline Document or Statements is used, never both.
type File struct {
	Document   `yaml:",inline"`
	Statements []Document `yaml:"statements,omitempty"`
}

// Document is the file form of a queryir.Request.
type Document struct {
	Measurements []string         `yaml:"measurements,omitempty"`
	Fields       []string         `yaml:"fields,omitempty"`
	Conditions   [][]ConditionDoc `yaml:"conditions,omitempty"`
	From         string           `yaml:"from,omitempty"`
	To           string           `yaml:"to,omitempty"`
	GroupBy      GroupByDoc       `yaml:"group_by,omitempty"`
}

// ConditionDoc is the file form of a queryir.Condition.
// Value and Raw are mutually exclusive; with neither, the value is null.
type ConditionDoc struct {
	Field      string    `yaml:"field"`
	Comparator string    `yaml:"comparator"`
	Value      *ValueDoc `yaml:"value,omitempty"`
	Raw        *string   `yaml:"raw,omitempty"`
}

// ValueDoc holds a typed scalar condition value.
type ValueDoc struct {
	Value queryir.Value
}

// UnmarshalYAML maps the scalar's resolved YAML tag to a queryir literal.
func (v *ValueDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: condition value must be a scalar", node.Line)
	}

	switch node.ShortTag() {
	case "!!null":
		v.Value = queryir.Null{}
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		v.Value = queryir.Bool(b)
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		v.Value = queryir.Int(n)
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("line %d: condition value %s is not a finite number", node.Line, node.Value)
		}
		v.Value = queryir.Float(f)
	default:
		v.Value = queryir.String(node.Value)
	}
	return nil
}

// GroupByDoc accepts either a list of directives or the single scalar "*".
type GroupByDoc []string

// UnmarshalYAML accepts a scalar or a sequence of strings.
func (g *GroupByDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*g = GroupByDoc{node.Value}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*g = GroupByDoc(list)
	return nil
}

// Requests returns the requests described by the file, in order.
func (f File) Requests() ([]queryir.Request, error) {
	if len(f.Statements) == 0 {
		req, err := f.Document.Request()
		if err != nil {
			return nil, err
		}
		return []queryir.Request{req}, nil
	}

	if !f.Document.isZero() {
		return nil, fmt.Errorf("statements cannot be combined with a top-level request")
	}

	reqs := make([]queryir.Request, 0, len(f.Statements))
	for i, doc := range f.Statements {
		req, err := doc.Request()
		if err != nil {
			return nil, fmt.Errorf("statements[%d]: %w", i, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// Request converts the document into a queryir.Request.
func (d Document) Request() (queryir.Request, error) {
	req := queryir.Request{
		Measurements: d.Measurements,
		Fields:       d.Fields,
		From:         d.From,
		To:           d.To,
	}

	for i, group := range d.Conditions {
		g := make(queryir.ConditionGroup, 0, len(group))
		for j, c := range group {
			cond, err := c.Condition()
			if err != nil {
				return queryir.Request{}, fmt.Errorf("conditions[%d][%d]: %w", i, j, err)
			}
			g = append(g, cond)
		}
		req.Conditions = append(req.Conditions, g)
	}

	for _, dir := range d.GroupBy {
		req.GroupBy = append(req.GroupBy, queryir.GroupDirective(dir))
	}

	return req, nil
}

// Condition converts the document into a queryir.Condition.
// The comparator is not checked here; the compiler reports every invalid
// comparator at once.
func (c ConditionDoc) Condition() (queryir.Condition, error) {
	if c.Field == "" {
		return queryir.Condition{}, fmt.Errorf("field is required")
	}

	cond := queryir.Condition{
		Field:      c.Field,
		Comparator: queryir.Comparator(c.Comparator),
		Value:      queryir.Null{},
	}

	hasValue := c.Value != nil && c.Value.Value != nil
	switch {
	case c.Raw != nil && hasValue:
		return queryir.Condition{}, fmt.Errorf("field %q: value and raw are mutually exclusive", c.Field)
	case c.Raw != nil:
		cond.Value = queryir.Raw(*c.Raw)
	case hasValue:
		cond.Value = c.Value.Value
	}

	return cond, nil
}

func (d Document) isZero() bool {
	return len(d.Measurements) == 0 && len(d.Fields) == 0 && len(d.Conditions) == 0 &&
		d.From == "" && d.To == "" && len(d.GroupBy) == 0
}
