package cli

import (
	"errors"

	"github.com/roach88/influxq/internal/queryinflux"
	"github.com/roach88/influxq/internal/requestfile"
)

// Error codes for CLI output.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No request files found
	ErrCodeParseFailed = "E004" // YAML/JSON/CUE syntax error
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeSchema      = "E006" // CUE schema violation
	ErrCodeStoreFailed = "E007" // History database error
	ErrCodeUnsupported = "E008" // Unsupported file extension
	ErrCodeInvalidDoc  = "E009" // Request document cannot be converted
	ErrCodeGoldenIO    = "E010" // Golden file read/write error

	// Compile errors
	ErrCodeMeasurementsRequired = "E101"
	ErrCodeInvalidComparator    = "E102"
	ErrCodeInvalidGroupBy       = "E103"
)

var loadCodes = map[requestfile.ErrorCode]string{
	requestfile.ErrCodeNotFound:    ErrCodeNotFound,
	requestfile.ErrCodeNoFiles:     ErrCodeNoFiles,
	requestfile.ErrCodeUnsupported: ErrCodeUnsupported,
	requestfile.ErrCodeParse:       ErrCodeParseFailed,
	requestfile.ErrCodeSchema:      ErrCodeSchema,
	requestfile.ErrCodeInvalid:     ErrCodeInvalidDoc,
}

var compileCodes = map[queryinflux.ErrorCode]string{
	queryinflux.ErrCodeMeasurementsRequired: ErrCodeMeasurementsRequired,
	queryinflux.ErrCodeInvalidComparator:    ErrCodeInvalidComparator,
	queryinflux.ErrCodeInvalidGroupBy:       ErrCodeInvalidGroupBy,
}

// MapError maps an error to a CLI error code and message.
func MapError(err error) (code, message string) {
	var loadErr *requestfile.LoadError
	if errors.As(err, &loadErr) {
		if c, ok := loadCodes[loadErr.Code]; ok {
			return c, loadErr.Error()
		}
		return ErrCodeGeneric, loadErr.Error()
	}

	if ce, ok := queryinflux.AsCompileError(err); ok {
		if c, ok := compileCodes[ce.Code]; ok {
			return c, err.Error()
		}
	}

	return ErrCodeGeneric, err.Error()
}
