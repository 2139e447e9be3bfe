package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/netglean/fnslog/internal/retention"
	"github.com/netglean/fnslog/internal/store"
)

// PruneOptions holds flags for the prune command.
type PruneOptions struct {
	*RootOptions
	DryRun bool
	Days   int
}

// NewPruneCommand creates the prune command.
func NewPruneCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PruneOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete log entries older than the retention period",
		Long: `Delete every log entry older than the retention cutoff in one
transactional statement, then reclaim storage. With --dry-run only the
candidate count is reported and nothing is deleted.

Example:
  fnslog prune --config /etc/fnslog/config.yaml --dry-run
  fnslog prune --days 14`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report candidates without deleting")
	cmd.Flags().IntVar(&opts.Days, "days", 0, "retention period override in days (default: config days_to_keep_logs)")

	return cmd
}

func runPrune(opts *PruneOptions, cmd *cobra.Command) error {
	cfg, log, err := setup(opts.RootOptions)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	days := cfg.RetentionDays
	if cmd.Flags().Changed("days") {
		days = opts.Days
	}
	policy := retention.Policy{Days: days}
	if err := policy.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid retention period", err)
	}

	st, err := store.Open(cfg.StoreParams())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open store", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			log.Error("error closing store", zap.Error(closeErr))
		}
	}()

	eng := &retention.Engine{Store: st, Policy: policy, Log: log}
	res, err := eng.Prune(context.Background(), opts.DryRun)
	if err != nil {
		if errors.Is(err, retention.ErrInvalidRetention) {
			return WrapExitError(ExitCommandError, "invalid retention period", err)
		}
		return WrapExitError(ExitFailure, "prune failed", err)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		return f.Success(res)
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(cmd.OutOrStdout(), "Retention: %d days (cutoff %s)\n", policy.Days, res.Cutoff)
	if res.DryRun {
		p.Fprintf(cmd.OutOrStdout(), "Dry run: %d rows would be deleted\n", res.CandidateRows)
		return nil
	}
	p.Fprintf(cmd.OutOrStdout(), "Deleted %d of %d expired rows\n", res.RowsDeleted, res.CandidateRows)
	if res.Reclaimed {
		fmt.Fprintln(cmd.OutOrStdout(), "Storage reclaimed")
	}
	return nil
}
