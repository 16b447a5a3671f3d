package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/influxq/internal/queryinflux"
	"github.com/roach88/influxq/internal/queryir"
	"github.com/roach88/influxq/internal/requestfile"
	"github.com/roach88/influxq/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Batch           bool   // join every statement into one request
	IntegersAsFloat bool   // render integers without the "i" suffix
	Database        string // history database path (optional)
}

// CompiledQuery is one compiled request in command output.
type CompiledQuery struct {
	File        string `json:"file"`
	Index       int    `json:"index"`
	Query       string `json:"query"`
	Fingerprint string `json:"fingerprint"`
	ID          string `json:"id,omitempty"` // history record ID with --db
}

// CompileResult is the compile command's JSON payload.
type CompileResult struct {
	Queries []CompiledQuery `json:"queries"`
	Batch   string          `json:"batch,omitempty"`
	BatchID string          `json:"batch_id,omitempty"`
}

// compileFailure is one request that did not compile.
type compileFailure struct {
	File    string `json:"file"`
	Index   int    `json:"index"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <file-or-dir>...",
		Short: "Compile request files to InfluxQL",
		Long: `Compile request files to InfluxQL SELECT statements.

Prints one query per request, or a single ';'-joined statement with
--batch. With --db, every compiled query is recorded in the history
database.

Exit codes:
  0 - All requests compiled
  1 - One or more requests failed to compile
  2 - Command error (unreadable files, database errors)

Examples:
  influxq compile cpu.yaml
  influxq compile ./requests --batch
  influxq compile cpu.cue --integers-as-float --db history.db`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Batch, "batch", false, "join all statements into one multi-statement query")
	cmd.Flags().BoolVar(&opts.IntegersAsFloat, "integers-as-float", false, "render integer values without the i suffix")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record compiled queries in this history database")

	return cmd
}

func runCompile(opts *CompileOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger()

	loaded, loadErrs := requestfile.LoadPaths(paths, requestfile.LoadModeFailFast)
	if len(loadErrs) > 0 {
		code, message := MapError(loadErrs[0])
		_ = formatter.Error(code, message, nil)
		return NewExitError(ExitCommandError, message)
	}

	compiler := &queryinflux.Compiler{IntegersAsFloat: opts.IntegersAsFloat}

	var (
		result   CompileResult
		reqs     []queryir.Request
		failures []compileFailure
	)
	for _, l := range loaded {
		logger.Debug("loaded request file", "path", l.Path, "requests", len(l.Requests))
		for i, req := range l.Requests {
			query, err := compiler.Compile(req)
			if err != nil {
				code, message := MapError(err)
				failures = append(failures, compileFailure{File: l.Path, Index: i, Code: code, Message: message})
				continue
			}
			fp, err := queryir.Fingerprint(req)
			if err != nil {
				return WrapExitError(ExitCommandError, "fingerprint request", err)
			}
			result.Queries = append(result.Queries, CompiledQuery{
				File:        l.Path,
				Index:       i,
				Query:       query,
				Fingerprint: fp,
			})
			reqs = append(reqs, req)
		}
	}

	if len(failures) > 0 {
		return outputCompileFailures(formatter, failures)
	}

	if opts.Batch {
		queries := make([]string, len(result.Queries))
		for i, q := range result.Queries {
			queries[i] = q.Query
		}
		result.Batch = queryinflux.Batch(queries...)
	}

	if opts.Database != "" {
		if err := recordCompiled(cmd.Context(), opts, reqs, &result); err != nil {
			code, message := ErrCodeStoreFailed, err.Error()
			_ = formatter.Error(code, message, nil)
			return WrapExitError(ExitCommandError, "recording history", err)
		}
	}

	return outputCompileSuccess(formatter, result)
}

// recordCompiled stores every compiled query, and the batch when present,
// filling in the record IDs.
func recordCompiled(ctx context.Context, opts *CompileOptions, reqs []queryir.Request, result *CompileResult) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.logger()

	st, err := store.Open(opts.Database, store.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	records := make([]store.QueryRecord, len(reqs))
	for i, req := range reqs {
		rec, err := store.NewQueryRecord(req, result.Queries[i].Query, opts.IntegersAsFloat)
		if err != nil {
			return err
		}
		records[i] = rec
	}

	if opts.Batch {
		batch, err := st.RecordBatch(ctx, result.Batch, records)
		if err != nil {
			return err
		}
		result.BatchID = batch.ID
		for i, m := range batch.Members {
			result.Queries[i].ID = m.ID
		}
		return nil
	}

	for i, rec := range records {
		stored, err := st.RecordQuery(ctx, rec)
		if err != nil {
			return err
		}
		result.Queries[i].ID = stored.ID
	}
	return nil
}

// outputCompileSuccess outputs compiled queries.
func outputCompileSuccess(formatter *OutputFormatter, result CompileResult) error {
	if result.Queries == nil {
		result.Queries = []CompiledQuery{}
	}
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	if result.Batch != "" {
		fmt.Fprintln(formatter.Writer, result.Batch)
		return nil
	}
	for _, q := range result.Queries {
		fmt.Fprintln(formatter.Writer, q.Query)
	}
	return nil
}

// outputCompileFailures outputs every request that did not compile.
func outputCompileFailures(formatter *OutputFormatter, failures []compileFailure) error {
	msg := fmt.Sprintf("compilation failed for %d request(s)", len(failures))

	if formatter.IsJSON() {
		if err := formatter.Encode(CLIResponse{
			Status: "error",
			Data:   failures,
			Error: &CLIError{
				Code:    failures[0].Code,
				Message: failures[0].Message,
			},
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)
	for _, f := range failures {
		fmt.Fprintf(formatter.Writer, "%s[%d]\n", f.File, f.Index)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", f.Code, f.Message)
	}

	return NewExitError(ExitFailure, msg)
}
