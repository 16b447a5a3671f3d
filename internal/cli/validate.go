package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/influxq/internal/queryinflux"
	"github.com/roach88/influxq/internal/requestfile"
)

// ValidationError is one problem found by validate.
type ValidationError struct {
	File    string `json:"file,omitempty"`
	Index   int    `json:"index"` // request index within the file, -1 for file-level errors
	Line    int    `json:"line,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Files    int               `json:"files"`
	Requests int               `json:"requests"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var integersAsFloat bool

	cmd := &cobra.Command{
		Use:   "validate <file-or-dir>...",
		Short: "Check request files without printing queries",
		Long: `Validate request files.

Every file is loaded and every request compiled; all problems are
reported together instead of stopping at the first one.

Exit codes:
  0 - All requests valid
  1 - One or more problems found
  2 - Command error`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, integersAsFloat, cmd)
		},
	}

	cmd.Flags().BoolVar(&integersAsFloat, "integers-as-float", false, "validate with integers rendered without the i suffix")

	return cmd
}

func runValidate(opts *RootOptions, paths []string, integersAsFloat bool, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger()

	loaded, loadErrs := requestfile.LoadPaths(paths, requestfile.LoadModeCollectAll)

	result := ValidationResult{Files: len(loaded)}
	for _, err := range loadErrs {
		result.Errors = append(result.Errors, loadValidationError(err))
	}

	compiler := &queryinflux.Compiler{IntegersAsFloat: integersAsFloat}
	for _, l := range loaded {
		logger.Debug("validating request file", "path", l.Path, "requests", len(l.Requests))
		for i, req := range l.Requests {
			result.Requests++
			if _, err := compiler.Compile(req); err != nil {
				code, message := MapError(err)
				result.Errors = append(result.Errors, ValidationError{
					File:    l.Path,
					Index:   i,
					Code:    code,
					Message: message,
				})
			}
		}
	}

	if len(result.Errors) > 0 {
		return outputValidationErrors(formatter, result)
	}

	result.Valid = true
	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ All requests valid (%d request(s) in %d file(s))\n", result.Requests, result.Files)
	return nil
}

func loadValidationError(err error) ValidationError {
	code, message := MapError(err)
	ve := ValidationError{Index: -1, Code: code, Message: message}
	if le, ok := requestfile.AsLoadError(err); ok {
		ve.File = le.Path
		ve.Line = le.Line
		ve.Message = le.Message
	}
	return ve
}

// outputValidationErrors outputs every validation problem.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	msg := fmt.Sprintf("validation failed with %d error(s)", len(errs))

	if formatter.IsJSON() {
		if err := formatter.Encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, e := range errs {
		switch {
		case e.Line > 0:
			fmt.Fprintf(formatter.Writer, "%s:%d\n", e.File, e.Line)
		case e.Index >= 0:
			fmt.Fprintf(formatter.Writer, "%s[%d]\n", e.File, e.Index)
		case e.File != "":
			fmt.Fprintf(formatter.Writer, "%s\n", e.File)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", e.Code, e.Message)
	}

	return NewExitError(ExitFailure, msg)
}
