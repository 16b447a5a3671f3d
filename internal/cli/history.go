package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/influxq/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database    string
	Limit       int
	Fingerprint string
	BatchID     string
}

// HistoryEntry is one recorded query in command output.
type HistoryEntry struct {
	Seq             int64  `json:"seq"`
	ID              string `json:"id"`
	Fingerprint     string `json:"fingerprint"`
	IntegersAsFloat bool   `json:"integers_as_float,omitempty"`
	Query           string `json:"query"`
	Request         string `json:"request,omitempty"` // canonical JSON, with --verbose
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded queries",
		Long: `List queries recorded by 'influxq compile --db', newest first.

With --fingerprint, list every rendering of one request. With --batch,
show one recorded batch and its statements in order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "history database path (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum entries to list (0 for all)")
	cmd.Flags().StringVar(&opts.Fingerprint, "fingerprint", "", "show every rendering of one request")
	cmd.Flags().StringVar(&opts.BatchID, "batch", "", "show one recorded batch")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database, store.WithLogger(opts.logger()))
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening history", err)
	}
	defer st.Close()

	var records []store.QueryRecord
	var statement string
	switch {
	case opts.BatchID != "":
		batch, err := st.ReadBatch(ctx, opts.BatchID)
		if err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "reading batch", err)
		}
		records, statement = batch.Members, batch.Statement
	case opts.Fingerprint != "":
		records, err = st.Lookup(ctx, opts.Fingerprint)
		if err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "looking up fingerprint", err)
		}
	default:
		records, err = st.History(ctx, opts.Limit)
		if err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "reading history", err)
		}
	}

	entries := make([]HistoryEntry, len(records))
	for i, r := range records {
		entries[i] = HistoryEntry{
			Seq:             r.Seq,
			ID:              r.ID,
			Fingerprint:     r.Fingerprint,
			IntegersAsFloat: r.IntegersAsFloat,
			Query:           r.Query,
		}
		if opts.Verbose {
			entries[i].Request = r.Request
		}
	}

	if formatter.IsJSON() {
		data := map[string]any{"entries": entries}
		if statement != "" {
			data["statement"] = statement
		}
		return formatter.Success(data)
	}

	if statement != "" {
		fmt.Fprintln(formatter.Writer, statement)
		fmt.Fprintln(formatter.Writer)
	}
	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "No recorded queries.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(formatter.Writer, "%d\t%s\t%s\n", e.Seq, e.ID, e.Query)
		if e.Request != "" {
			fmt.Fprintf(formatter.Writer, "\t%s\n", e.Request)
		}
	}
	return nil
}
