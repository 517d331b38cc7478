package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/bidzone/bidzone-backend/internal/auctions"
	"github.com/bidzone/bidzone-backend/internal/bidding"
	"github.com/bidzone/bidzone-backend/internal/deliveries"
	"github.com/bidzone/bidzone-backend/internal/ledger"
	"github.com/bidzone/bidzone-backend/pkg/db/models"
	"github.com/bidzone/bidzone-backend/pkg/enums"
	pkgerrors "github.com/bidzone/bidzone-backend/pkg/errors"
	"github.com/bidzone/bidzone-backend/pkg/logger"
	"github.com/bidzone/bidzone-backend/pkg/outbox"
	"github.com/bidzone/bidzone-backend/pkg/outbox/payloads"
)

// ServiceParams groups dependencies for the settlement sweep.
type ServiceParams struct {
	AuctionRepo auctions.Repository
	BidRepo     bidding.Repository
	Ledger      ledger.Service
	Deliveries  deliveries.Service
	Transactor  auctions.Transactor
	Outbox      auctions.Outbox
	Logger      *logger.Logger
	Window      time.Duration
	Now         func() time.Time
}

// Service closes out auctions whose ending time falls inside the sweep
// window. Each auction settles in its own transaction so one failure never
// blocks the rest of the batch.
type Service interface {
	Sweep(ctx context.Context) (SweepStats, error)
}

// SweepStats summarizes one sweep run.
type SweepStats struct {
	Scanned   int
	Completed int
	Skipped   int
	Refunded  int
}

type service struct {
	auctionRepo auctions.Repository
	bidRepo     bidding.Repository
	ledger      ledger.Service
	deliveries  deliveries.Service
	transactor  auctions.Transactor
	outbox      auctions.Outbox
	logg        *logger.Logger
	window      time.Duration
	now         func() time.Time
}

// NewService builds a settlement service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.AuctionRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "auction repo is required")
	}
	if params.BidRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bid repo is required")
	}
	if params.Ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ledger service is required")
	}
	if params.Deliveries == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery service is required")
	}
	if params.Transactor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transactor is required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outbox is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.Window <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sweep window must be positive")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		auctionRepo: params.AuctionRepo,
		bidRepo:     params.BidRepo,
		ledger:      params.Ledger,
		deliveries:  params.Deliveries,
		transactor:  params.Transactor,
		outbox:      params.Outbox,
		logg:        params.Logger,
		window:      params.Window,
		now:         now,
	}, nil
}

func (s *service) Sweep(ctx context.Context) (SweepStats, error) {
	now := s.now().UTC()
	candidates, err := s.auctionRepo.ListEndingWithin(ctx, now.Add(-s.window), now.Add(s.window))
	if err != nil {
		return SweepStats{}, fmt.Errorf("query ending auctions: %w", err)
	}

	stats := SweepStats{Scanned: len(candidates)}
	var errs []error
	for _, candidate := range candidates {
		completed, refunded, err := s.settleOne(ctx, candidate.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("settle auction %s: %w", candidate.ID, err))
			continue
		}
		if completed {
			stats.Completed++
			stats.Refunded += refunded
		} else {
			stats.Skipped++
		}
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"scanned":   stats.Scanned,
		"completed": stats.Completed,
		"skipped":   stats.Skipped,
		"refunded":  stats.Refunded,
	})
	s.logg.Info(logCtx, "settlement sweep complete")
	return stats, multierr.Combine(errs...)
}

// settleOne completes a single auction: pick the winner, refund everyone
// else, pay the seller, and open the delivery. Auctions without bids are left
// active for a manual decision.
func (s *service) settleOne(ctx context.Context, auctionID uuid.UUID) (bool, int, error) {
	completed := false
	refunded := 0
	err := s.transactor.WithTx(ctx, func(tx *gorm.DB) error {
		auctionRepo := s.auctionRepo.WithTx(tx)
		auction, err := auctionRepo.FindByIDForUpdate(ctx, auctionID)
		if err != nil {
			return err
		}
		if auction == nil || auction.Status != enums.AuctionStatusActive {
			return nil
		}

		bids, err := s.bidRepo.WithTx(tx).ListStandingForUpdate(ctx, auction.ID)
		if err != nil {
			return err
		}
		if len(bids) == 0 {
			return nil
		}

		winner := bids[0]
		for _, loser := range bids[1:] {
			if err := s.refundBid(ctx, tx, loser); err != nil {
				return err
			}
			refunded++
		}

		if _, err := s.ledger.Credit(ctx, tx, ledger.EntryInput{
			CustomerID: auction.SellerID,
			Amount:     winner.Amount,
			Type:       enums.TransactionTypeDeposit,
			Invoice:    fmt.Sprintf("Received %d for auction %s", winner.Amount, auction.ID),
			AuctionID:  &auction.ID,
		}); err != nil {
			return err
		}

		now := s.now().UTC()
		auction.Status = enums.AuctionStatusCompleted
		auction.WinnerID = &winner.BidderID
		if err := auctionRepo.Update(ctx, auction); err != nil {
			return err
		}

		delivery, err := s.deliveries.CreateForAuction(ctx, tx, auction.ID, winner.BidderID)
		if err != nil {
			return err
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDeliveryCreated,
			AggregateType: enums.AggregateDelivery,
			AggregateID:   delivery.ID,
			Data: payloads.DeliveryCreatedEvent{
				DeliveryID:     delivery.ID,
				AuctionID:      auction.ID,
				CustomerID:     winner.BidderID,
				TrackingNumber: delivery.TrackingNumber,
			},
		}); err != nil {
			return err
		}

		completed = true
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAuctionCompleted,
			AggregateType: enums.AggregateAuction,
			AggregateID:   auction.ID,
			Data: payloads.AuctionCompletedEvent{
				AuctionID:    auction.ID,
				ProductID:    auction.ProductID,
				SellerID:     auction.SellerID,
				WinnerID:     winner.BidderID,
				WinningBid:   winner.Amount,
				RefundedBids: refunded,
				CompletedAt:  now,
			},
		})
	})
	if err != nil {
		return false, 0, err
	}
	return completed, refunded, nil
}

func (s *service) refundBid(ctx context.Context, tx *gorm.DB, bid models.Bid) error {
	if _, err := s.ledger.Credit(ctx, tx, ledger.EntryInput{
		CustomerID: bid.BidderID,
		Amount:     bid.Amount,
		Type:       enums.TransactionTypeRefund,
		Invoice:    fmt.Sprintf("Refund for auction %s", bid.AuctionID),
		AuctionID:  &bid.AuctionID,
	}); err != nil {
		return err
	}

	bid.Standing = false
	if err := s.bidRepo.WithTx(tx).Update(ctx, &bid); err != nil {
		return err
	}

	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventBidRefunded,
		AggregateType: enums.AggregateBid,
		AggregateID:   bid.ID,
		Data: payloads.BidRefundedEvent{
			BidID:     bid.ID,
			AuctionID: bid.AuctionID,
			BidderID:  bid.BidderID,
			Amount:    bid.Amount,
		},
	})
}
