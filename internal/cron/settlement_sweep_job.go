package cron

import (
	"context"
	"fmt"

	"github.com/bidzone/bidzone-backend/internal/settlement"
	"github.com/bidzone/bidzone-backend/pkg/logger"
)

// SettlementSweepJobParams configure the auction close-out job.
type SettlementSweepJobParams struct {
	Logger     *logger.Logger
	Settlement settlement.Service
}

// NewSettlementSweepJob builds the job that settles auctions whose ending
// time has arrived.
func NewSettlementSweepJob(params SettlementSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Settlement == nil {
		return nil, fmt.Errorf("settlement service required")
	}
	return &settlementSweepJob{
		logg:       params.Logger,
		settlement: params.Settlement,
	}, nil
}

type settlementSweepJob struct {
	logg       *logger.Logger
	settlement settlement.Service
}

func (j *settlementSweepJob) Name() string { return "settlement-sweep" }

func (j *settlementSweepJob) Run(ctx context.Context) error {
	stats, err := j.settlement.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("settlement sweep: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"scanned":   stats.Scanned,
		"completed": stats.Completed,
		"skipped":   stats.Skipped,
	})
	j.logg.Info(logCtx, "settlement sweep job finished")
	return nil
}
