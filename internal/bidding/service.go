package bidding

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidzone/bidzone-backend/internal/auctions"
	"github.com/bidzone/bidzone-backend/internal/ledger"
	"github.com/bidzone/bidzone-backend/pkg/config"
	"github.com/bidzone/bidzone-backend/pkg/db"
	"github.com/bidzone/bidzone-backend/pkg/db/models"
	"github.com/bidzone/bidzone-backend/pkg/enums"
	pkgerrors "github.com/bidzone/bidzone-backend/pkg/errors"
	"github.com/bidzone/bidzone-backend/pkg/outbox"
	"github.com/bidzone/bidzone-backend/pkg/outbox/payloads"
)

// ServiceParams groups dependencies for the bid engine.
type ServiceParams struct {
	Repo        Repository
	AuctionRepo auctions.Repository
	Ledger      ledger.Service
	Transactor  auctions.Transactor
	Outbox      auctions.Outbox
	Config      config.BiddingConfig
	Now         func() time.Time
	Sleep       func(time.Duration)
}

// Service is the bid engine. A bid locks the auction and the bidder's account
// in one transaction; raises debit only the difference over the previous bid.
type Service interface {
	PlaceBid(ctx context.Context, input PlaceBidInput) (*models.Bid, error)
	ListBids(ctx context.Context, auctionID uuid.UUID) ([]models.Bid, error)
}

// PlaceBidInput carries one bid attempt.
type PlaceBidInput struct {
	AuctionID uuid.UUID
	BidderID  uuid.UUID
	Amount    int64
}

type service struct {
	repo        Repository
	auctionRepo auctions.Repository
	ledger      ledger.Service
	transactor  auctions.Transactor
	outbox      auctions.Outbox
	cfg         config.BiddingConfig
	now         func() time.Time
	sleep       func(time.Duration)
}

// NewService builds a bid engine with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bid repo is required")
	}
	if params.AuctionRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "auction repo is required")
	}
	if params.Ledger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ledger service is required")
	}
	if params.Transactor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transactor is required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outbox is required")
	}
	if params.Config.MaxRetries < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max retries must be non-negative")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	sleep := params.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	return &service{
		repo:        params.Repo,
		auctionRepo: params.AuctionRepo,
		ledger:      params.Ledger,
		transactor:  params.Transactor,
		outbox:      params.Outbox,
		cfg:         params.Config,
		now:         now,
		sleep:       sleep,
	}, nil
}

// PlaceBid places a first bid or raises an existing one. Serialization
// failures are retried with backoff; every other error aborts immediately.
func (s *service) PlaceBid(ctx context.Context, input PlaceBidInput) (*models.Bid, error) {
	if input.AuctionID == uuid.Nil || input.BidderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "auction id and bidder id are required")
	}
	if input.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bid amount must be positive")
	}

	var bid *models.Bid
	var err error
	for attempt := 0; ; attempt++ {
		bid, err = s.placeBidOnce(ctx, input)
		if err == nil {
			return bid, nil
		}
		if !db.IsSerializationFailure(err) {
			return nil, err
		}
		if attempt >= s.cfg.MaxRetries {
			return nil, pkgerrors.Wrap(pkgerrors.CodeContention, err, "bid lost the row lock race")
		}
		s.sleep(s.cfg.RetryBackoff)
	}
}

func (s *service) placeBidOnce(ctx context.Context, input PlaceBidInput) (*models.Bid, error) {
	var bid *models.Bid
	err := s.transactor.WithTx(ctx, func(tx *gorm.DB) error {
		auctionRepo := s.auctionRepo.WithTx(tx)
		auction, err := auctionRepo.FindByIDForUpdate(ctx, input.AuctionID)
		if err != nil {
			return err
		}
		if auction == nil || auction.Status == enums.AuctionStatusDeleted {
			return pkgerrors.New(pkgerrors.CodeNotFound, "auction not found")
		}
		if auction.Status != enums.AuctionStatusActive {
			return pkgerrors.New(pkgerrors.CodeAuctionNotOpen, "auction is not open for bidding").
				WithDetails(map[string]any{"status": auction.Status})
		}
		if auction.SellerID == input.BidderID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "sellers cannot bid on their own auctions")
		}
		if input.Amount <= auction.CurrentPrice {
			return pkgerrors.New(pkgerrors.CodeBidTooLow, "bid must exceed the current price").
				WithDetails(map[string]any{"currentPrice": auction.CurrentPrice, "amount": input.Amount})
		}

		repo := s.repo.WithTx(tx)
		existing, err := repo.FindByAuctionAndBidderForUpdate(ctx, input.AuctionID, input.BidderID)
		if err != nil {
			return err
		}

		// First bids commit the full amount; raises only the difference
		// over the bidder's own previous bid.
		debit := input.Amount
		isRaise := existing != nil
		if isRaise {
			debit = input.Amount - existing.Amount
		}

		invoice := fmt.Sprintf("Bid on auction %s", auction.ID)
		if isRaise {
			invoice = fmt.Sprintf("Raised bid on auction %s", auction.ID)
		}
		if _, err := s.ledger.Debit(ctx, tx, ledger.EntryInput{
			CustomerID: input.BidderID,
			Amount:     debit,
			Type:       enums.TransactionTypeBid,
			Invoice:    invoice,
			AuctionID:  &auction.ID,
		}); err != nil {
			return err
		}

		if isRaise {
			existing.Amount = input.Amount
			existing.Standing = true
			if err := repo.Update(ctx, existing); err != nil {
				return err
			}
			bid = existing
		} else {
			bid = &models.Bid{
				AuctionID: auction.ID,
				BidderID:  input.BidderID,
				Amount:    input.Amount,
				Standing:  true,
			}
			if err := repo.Create(ctx, bid); err != nil {
				return err
			}
		}

		auction.CurrentPrice = input.Amount
		if err := auctionRepo.Update(ctx, auction); err != nil {
			return err
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventBidPlaced,
			AggregateType: enums.AggregateBid,
			AggregateID:   bid.ID,
			Actor:         &outbox.ActorRef{CustomerID: input.BidderID, Role: string(enums.ActorRoleCustomer)},
			Data: payloads.BidPlacedEvent{
				BidID:        bid.ID,
				AuctionID:    auction.ID,
				BidderID:     input.BidderID,
				Amount:       input.Amount,
				DebitedCoins: debit,
				IsRaise:      isRaise,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return bid, nil
}

func (s *service) ListBids(ctx context.Context, auctionID uuid.UUID) ([]models.Bid, error) {
	if auctionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "auction id is required")
	}
	auction, err := s.auctionRepo.FindByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if auction == nil || auction.Status == enums.AuctionStatusDeleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "auction not found")
	}
	return s.repo.ListByAuction(ctx, auctionID)
}
