package store

import (
	"fmt"

	"github.com/roach88/influxq/internal/queryir"
)

// QueryRecord is one compiled request in the history.
type QueryRecord struct {
	ID              string
	Fingerprint     string
	IntegersAsFloat bool
	Request         string // canonical JSON
	Query           string
	Seq             int64
}

// Batch is a recorded multi-statement query and its ordered members.
type Batch struct {
	ID        string
	Statement string
	Seq       int64
	Members   []QueryRecord
}

// NewQueryRecord builds an unsaved record for req and its compiled query.
// ID and Seq are assigned by RecordQuery.
func NewQueryRecord(req queryir.Request, query string, integersAsFloat bool) (QueryRecord, error) {
	canonical, err := queryir.MarshalCanonical(req)
	if err != nil {
		return QueryRecord{}, fmt.Errorf("marshal request: %w", err)
	}
	fp, err := queryir.Fingerprint(req)
	if err != nil {
		return QueryRecord{}, fmt.Errorf("fingerprint request: %w", err)
	}
	return QueryRecord{
		Fingerprint:     fp,
		IntegersAsFloat: integersAsFloat,
		Request:         string(canonical),
		Query:           query,
	}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
