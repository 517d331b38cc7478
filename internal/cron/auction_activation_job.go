package cron

import (
	"context"
	"fmt"

	"github.com/bidzone/bidzone-backend/internal/auctions"
	"github.com/bidzone/bidzone-backend/pkg/logger"
)

// AuctionActivationJobParams configure the scheduled-auction opener.
type AuctionActivationJobParams struct {
	Logger   *logger.Logger
	Auctions auctions.Service
}

// NewAuctionActivationJob builds the job that flips scheduled auctions to
// active once their starting time passes.
func NewAuctionActivationJob(params AuctionActivationJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Auctions == nil {
		return nil, fmt.Errorf("auction service required")
	}
	return &auctionActivationJob{
		logg:     params.Logger,
		auctions: params.Auctions,
	}, nil
}

type auctionActivationJob struct {
	logg     *logger.Logger
	auctions auctions.Service
}

func (j *auctionActivationJob) Name() string { return "auction-activation" }

func (j *auctionActivationJob) Run(ctx context.Context) error {
	activated, err := j.auctions.ActivateDue(ctx)
	if err != nil {
		return fmt.Errorf("activate due auctions: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "activated", activated)
	j.logg.Info(logCtx, "auction activation job finished")
	return nil
}
