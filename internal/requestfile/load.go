package requestfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/influxq/internal/queryir"
)

// LoadMode controls how errors are handled when loading several files.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// ErrorCode categorizes load errors.
type ErrorCode string

const (
	ErrCodeNotFound    ErrorCode = "NOT_FOUND"
	ErrCodeNoFiles     ErrorCode = "NO_FILES"
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED_FORMAT"
	ErrCodeParse       ErrorCode = "PARSE_FAILED"
	ErrCodeSchema      ErrorCode = "SCHEMA_VIOLATION"
	ErrCodeInvalid     ErrorCode = "INVALID_REQUEST"
)

// LoadError represents an error that occurred while loading a request file.
type LoadError struct {
	Code    ErrorCode
	Path    string
	Line    int // 0 when unknown
	Message string
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", e.Path, e.Line, e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Loaded holds the requests read from one file.
type Loaded struct {
	Path     string
	Requests []queryir.Request
}

// Extensions lists the recognised request file extensions.
var Extensions = []string{".yaml", ".yml", ".json", ".cue"}

// Load reads every request from a single file.
func Load(path string) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "file not found"}
		}
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: err.Error()}
	}

	var file *File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		file, err = decodeYAML(path, data)
	case ".cue":
		file, err = decodeCUE(path, data)
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupported,
			Path:    path,
			Message: fmt.Sprintf("unsupported extension %q (want one of %s)", filepath.Ext(path), strings.Join(Extensions, ", ")),
		}
	}
	if err != nil {
		return nil, err
	}

	reqs, err := file.Requests()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Path: path, Message: err.Error()}
	}

	return &Loaded{Path: path, Requests: reqs}, nil
}

// decodeYAML parses data with strict field checking.
// JSON documents are valid YAML and take the same path.
func decodeYAML(path string, data []byte) (*File, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &file, nil
		}
		return nil, &LoadError{Code: ErrCodeParse, Path: path, Line: yamlErrorLine(err), Message: err.Error()}
	}
	return &file, nil
}

// yamlErrorLine extracts the first line number reported by yaml.v3.
func yamlErrorLine(err error) int {
	var line int
	msg := err.Error()
	if idx := strings.Index(msg, "line "); idx >= 0 {
		fmt.Sscanf(msg[idx:], "line %d", &line)
	}
	return line
}

// LoadPaths loads every file named in paths. Directories are scanned
// (non-recursively) for files with a recognised extension.
//
// With LoadModeFailFast the first error stops loading. With
// LoadModeCollectAll every error is returned alongside the files that did
// load.
func LoadPaths(paths []string, mode LoadMode) ([]*Loaded, []error) {
	var files []string
	var errs []error

	for _, p := range paths {
		found, err := expandPath(p)
		if err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return nil, errs
			}
			continue
		}
		files = append(files, found...)
	}

	var loaded []*Loaded
	for _, f := range files {
		l, err := Load(f)
		if err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return loaded, errs
			}
			continue
		}
		loaded = append(loaded, l)
	}

	return loaded, errs
}

func expandPath(path string) ([]string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "path not found"}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: err.Error()}
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	files, err := FindRequestFiles(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: fmt.Sprintf("scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Path: path, Message: "no request files found"}
	}
	return files, nil
}

// FindRequestFiles returns the request files directly inside dir, sorted
// by name.
func FindRequestFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !hasRequestExtension(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func hasRequestExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range Extensions {
		if ext == known {
			return true
		}
	}
	return false
}

// AsLoadError extracts a *LoadError from err, following wraps.
func AsLoadError(err error) (*LoadError, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
