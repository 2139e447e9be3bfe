package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/netglean/fnslog/internal/retention"
	"github.com/netglean/fnslog/internal/store"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print database usage and ingestion-rate statistics",
		Long: `Print the usage report: database and table sizes, record counts
within the retention window, and average ingestion rates per minute,
hour, day, week and month.

Example:
  fnslog stats --config /etc/fnslog/config.yaml
  fnslog stats --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd)
		},
	}
	return cmd
}

func runStats(opts *RootOptions, cmd *cobra.Command) error {
	cfg, log, err := setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	st, err := store.Open(cfg.StoreParams())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open store", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			log.Error("error closing store", zap.Error(closeErr))
		}
	}()

	eng := &retention.Engine{
		Store:  st,
		Policy: retention.Policy{Days: cfg.RetentionDays},
		Log:    log,
	}
	rep, err := eng.Statistics(context.Background())
	if err != nil {
		return WrapExitError(ExitFailure, "statistics failed", err)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		return f.Success(rep)
	}

	out := cmd.OutOrStdout()
	p := message.NewPrinter(language.English)
	p.Fprintf(out, "Database size:  %.2f MB\n", rep.DatabaseSizeMB)
	p.Fprintf(out, "Table size:     %.2f MB\n", rep.TableSizeMB)
	p.Fprintf(out, "Table rows:     %d\n", rep.TableRows)
	p.Fprintf(out, "Total records:  %d (last %d days)\n", rep.TotalRecords, rep.RetentionDays)
	if rep.OldestTimestamp != nil {
		p.Fprintf(out, "Oldest record:  %s\n", *rep.OldestTimestamp)
	}
	if rep.NewestTimestamp != nil {
		p.Fprintf(out, "Newest record:  %s\n", *rep.NewestTimestamp)
	}
	p.Fprintf(out, "Avg per minute: %.2f\n", rep.AvgPerMinute)
	p.Fprintf(out, "Avg per hour:   %.2f\n", rep.AvgPerHour)
	p.Fprintf(out, "Avg per day:    %.2f\n", rep.AvgPerDay)
	p.Fprintf(out, "Avg per week:   %.2f\n", rep.AvgPerWeek)
	p.Fprintf(out, "Avg per month:  %.2f\n", rep.AvgPerMonth)
	return nil
}
