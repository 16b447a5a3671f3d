package requestfile

import (
	_ "embed"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// decodeCUE evaluates a CUE request file, checks it against #File and
// decodes the concrete result through the YAML path so both formats share
// one set of conversion rules.
func decodeCUE(path string, data []byte) (*File, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, cueLoadError(ErrCodeSchema, path, err)
	}

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, cueLoadError(ErrCodeParse, path, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#File")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeSchema, path, err)
	}

	jsonData, err := unified.MarshalJSON()
	if err != nil {
		return nil, cueLoadError(ErrCodeSchema, path, err)
	}

	return decodeYAML(path, jsonData)
}

// cueLoadError converts the first CUE error into a LoadError, keeping its
// line when CUE reports a position inside the request file.
func cueLoadError(code ErrorCode, path string, err error) *LoadError {
	le := &LoadError{Code: code, Path: path, Message: err.Error()}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return le
	}

	first := errs[0]
	le.Message = first.Error()
	for _, pos := range cueerrors.Positions(first) {
		if pos.IsValid() && pos.Filename() == path {
			le.Line = pos.Line()
			break
		}
	}
	return le
}
