package retention

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/netglean/fnslog/internal/model"
)

// PruneResult reports one pruning run. CandidateRows is how many rows were
// older than the cutoff when the run started; RowsDeleted stays 0 in dry-run
// mode.
type PruneResult struct {
	DryRun        bool   `json:"dry_run"`
	CandidateRows int64  `json:"candidate_rows"`
	RowsDeleted   int64  `json:"rows_deleted"`
	Cutoff        string `json:"cutoff"`
	Reclaimed     bool   `json:"reclaimed"`
}

// Prune deletes every row older than the retention cutoff in one
// transactional statement. In dry-run mode it only reports the candidate
// count. After a deletion that removed at least one row it attempts a
// best-effort storage reclamation; reclamation failure is logged and does
// not fail the run. Any store error before or during deletion is fatal to
// the run (the transaction rolls back inside the store).
func (e *Engine) Prune(ctx context.Context, dryRun bool) (PruneResult, error) {
	if err := e.Policy.Validate(); err != nil {
		return PruneResult{}, err
	}

	log := e.logger()
	cutoff := e.Policy.Cutoff(e.now())
	cutoffStr := cutoff.Format(model.TimeLayout)

	log.Info("starting log pruning",
		zap.Bool("dry_run", dryRun),
		zap.Int("retention_days", e.Policy.Days),
		zap.String("cutoff", cutoffStr),
	)

	candidates, err := e.Store.CountBefore(ctx, cutoffStr)
	if err != nil {
		return PruneResult{}, fmt.Errorf("prune logs: %w", err)
	}
	res := PruneResult{DryRun: dryRun, CandidateRows: candidates, Cutoff: cutoffStr}
	log.Info("found prune candidates", zap.Int64("rows", candidates))

	if dryRun {
		log.Info("dry run: no rows deleted")
		return res, nil
	}
	if candidates == 0 {
		log.Info("no logs to prune")
		return res, nil
	}

	deleted, err := e.Store.DeleteBefore(ctx, cutoffStr)
	if err != nil {
		return res, fmt.Errorf("prune logs: %w", err)
	}
	res.RowsDeleted = deleted
	log.Info("deleted expired log entries", zap.Int64("rows", deleted))

	if deleted > 0 {
		log.Info("reclaiming storage")
		if err := e.Store.Reclaim(ctx); err != nil {
			// Deletion already committed; reclamation is advisory.
			log.Warn("storage reclamation failed", zap.Error(err))
		} else {
			res.Reclaimed = true
		}
	}
	return res, nil
}
