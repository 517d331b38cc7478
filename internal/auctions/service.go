package auctions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidzone/bidzone-backend/internal/products"
	"github.com/bidzone/bidzone-backend/pkg/db"
	"github.com/bidzone/bidzone-backend/pkg/db/models"
	"github.com/bidzone/bidzone-backend/pkg/enums"
	pkgerrors "github.com/bidzone/bidzone-backend/pkg/errors"
	"github.com/bidzone/bidzone-backend/pkg/outbox"
	"github.com/bidzone/bidzone-backend/pkg/outbox/payloads"
	"github.com/bidzone/bidzone-backend/pkg/pagination"
)

// Transactor runs a function inside a database transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Outbox queues domain events inside the caller's transaction.
type Outbox interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ServiceParams groups dependencies for the auction service.
type ServiceParams struct {
	Repo        Repository
	ProductRepo products.Repository
	Transactor  Transactor
	Outbox      Outbox
	Now         func() time.Time
}

// Service exposes the auction lifecycle: creation, the scheduled-to-active
// transition, and the admin cancel/delete paths. Completion is owned by the
// settlement sweep.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Auction, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Auction, error)
	List(ctx context.Context, status *enums.AuctionStatus, cursor string, limit int) ([]models.Auction, string, error)
	Cancel(ctx context.Context, id uuid.UUID, actor *outbox.ActorRef, reason string) (*models.Auction, error)
	Delete(ctx context.Context, id uuid.UUID, actor *outbox.ActorRef) error
	ActivateDue(ctx context.Context) (int, error)
}

// CreateInput carries the fields a seller provides for a new auction.
type CreateInput struct {
	SellerID      uuid.UUID
	ProductID     uuid.UUID
	StartingPrice int64
	StartingTime  time.Time
	EndingTime    time.Time
}

type service struct {
	repo        Repository
	productRepo products.Repository
	transactor  Transactor
	outbox      Outbox
	now         func() time.Time
}

// NewService builds an auction service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "auction repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.Transactor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transactor is required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outbox is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:        params.Repo,
		productRepo: params.ProductRepo,
		transactor:  params.Transactor,
		outbox:      params.Outbox,
		now:         now,
	}, nil
}

var _ Transactor = (*db.Client)(nil)

// legalTransitions is the full status graph. Completed is reached only by the
// settlement sweep; terminal states have no exits.
var legalTransitions = map[enums.AuctionStatus][]enums.AuctionStatus{
	enums.AuctionStatusScheduled: {enums.AuctionStatusActive, enums.AuctionStatusCancelled, enums.AuctionStatusDeleted},
	enums.AuctionStatusActive:    {enums.AuctionStatusCompleted, enums.AuctionStatusCancelled, enums.AuctionStatusDeleted},
}

// CanTransition reports whether moving an auction from one status to another
// is allowed.
func CanTransition(from, to enums.AuctionStatus) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Auction, error) {
	if input.SellerID == uuid.Nil || input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id and product id are required")
	}
	if input.StartingPrice <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "starting price must be positive")
	}
	if !input.EndingTime.After(input.StartingTime) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ending time must be after starting time")
	}
	now := s.now()
	if !input.EndingTime.After(now) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ending time must be in the future")
	}

	status := enums.AuctionStatusActive
	if input.StartingTime.After(now) {
		status = enums.AuctionStatusScheduled
	}

	var auction *models.Auction
	err := s.transactor.WithTx(ctx, func(tx *gorm.DB) error {
		product, err := s.productRepo.WithTx(tx).FindByIDForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		if product.SellerID != input.SellerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another seller")
		}
		if product.InAuction {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "product is already attached to an auction")
		}

		auction = &models.Auction{
			ProductID:     input.ProductID,
			SellerID:      input.SellerID,
			Status:        status,
			StartingPrice: input.StartingPrice,
			CurrentPrice:  input.StartingPrice,
			StartingTime:  input.StartingTime,
			EndingTime:    input.EndingTime,
		}
		if err := s.repo.WithTx(tx).Create(ctx, auction); err != nil {
			return err
		}
		if err := s.productRepo.WithTx(tx).SetInAuction(ctx, product.ID, true); err != nil {
			return err
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAuctionCreated,
			AggregateType: enums.AggregateAuction,
			AggregateID:   auction.ID,
			Data: payloads.AuctionCreatedEvent{
				AuctionID:     auction.ID,
				ProductID:     auction.ProductID,
				SellerID:      auction.SellerID,
				Status:        auction.Status,
				StartingPrice: auction.StartingPrice,
				StartingTime:  auction.StartingTime,
				EndingTime:    auction.EndingTime,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return auction, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "auction id is required")
	}
	auction, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if auction == nil || auction.Status == enums.AuctionStatusDeleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "auction not found")
	}
	return auction, nil
}

func (s *service) List(ctx context.Context, status *enums.AuctionStatus, cursor string, limit int) ([]models.Auction, string, error) {
	if status != nil && !status.IsValid() {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid auction status")
	}
	parsed, err := pagination.ParseCursor(cursor)
	if err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	normalized := pagination.NormalizeLimit(limit)
	rows, err := s.repo.List(ctx, ListFilter{Status: status, Limit: normalized + 1, Cursor: parsed})
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > normalized {
		rows = rows[:normalized]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

// Cancel closes an auction before settlement. Auctions holding bids cannot be
// cancelled; the coins are already committed.
func (s *service) Cancel(ctx context.Context, id uuid.UUID, actor *outbox.ActorRef, reason string) (*models.Auction, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "auction id is required")
	}

	var auction *models.Auction
	err := s.transactor.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		auction, err = s.guardedTransition(ctx, tx, id, enums.AuctionStatusCancelled)
		if err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAuctionCancelled,
			AggregateType: enums.AggregateAuction,
			AggregateID:   auction.ID,
			Actor:         actor,
			Data: payloads.AuctionCancelledEvent{
				AuctionID:   auction.ID,
				ProductID:   auction.ProductID,
				CancelledAt: s.now().UTC(),
				Reason:      reason,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return auction, nil
}

// Delete removes a bidless auction entirely and releases its product back to
// the catalog.
func (s *service) Delete(ctx context.Context, id uuid.UUID, actor *outbox.ActorRef) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "auction id is required")
	}

	return s.transactor.WithTx(ctx, func(tx *gorm.DB) error {
		auction, err := s.guardedTransition(ctx, tx, id, enums.AuctionStatusDeleted)
		if err != nil {
			return err
		}
		if err := s.productRepo.WithTx(tx).SetInAuction(ctx, auction.ProductID, false); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAuctionDeleted,
			AggregateType: enums.AggregateAuction,
			AggregateID:   auction.ID,
			Actor:         actor,
			Data: payloads.AuctionDeletedEvent{
				AuctionID: auction.ID,
				ProductID: auction.ProductID,
				DeletedAt: s.now().UTC(),
			},
		})
	})
}

// ActivateDue opens every scheduled auction whose starting time has passed.
// Each auction transitions in its own transaction so one failure does not
// hold back the rest.
func (s *service) ActivateDue(ctx context.Context) (int, error) {
	due, err := s.repo.ListScheduledDue(ctx, s.now())
	if err != nil {
		return 0, err
	}

	activated := 0
	for _, candidate := range due {
		err := s.transactor.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			auction, err := repo.FindByIDForUpdate(ctx, candidate.ID)
			if err != nil {
				return err
			}
			if auction == nil || auction.Status != enums.AuctionStatusScheduled {
				return nil
			}
			auction.Status = enums.AuctionStatusActive
			if err := repo.Update(ctx, auction); err != nil {
				return err
			}
			activated++
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventAuctionActivated,
				AggregateType: enums.AggregateAuction,
				AggregateID:   auction.ID,
				Data: payloads.AuctionActivatedEvent{
					AuctionID:   auction.ID,
					ActivatedAt: s.now().UTC(),
				},
			})
		})
		if err != nil {
			return activated, err
		}
	}
	return activated, nil
}

// guardedTransition locks the auction, verifies the move is legal and that no
// bids exist, and persists the new status.
func (s *service) guardedTransition(ctx context.Context, tx *gorm.DB, id uuid.UUID, to enums.AuctionStatus) (*models.Auction, error) {
	repo := s.repo.WithTx(tx)
	auction, err := repo.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if auction == nil || auction.Status == enums.AuctionStatusDeleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "auction not found")
	}
	if !CanTransition(auction.Status, to) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition, "auction status does not allow this action").
			WithDetails(map[string]any{"from": auction.Status, "to": to})
	}

	bidCount, err := repo.CountBids(ctx, auction.ID)
	if err != nil {
		return nil, err
	}
	if bidCount > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeAuctionHasBids, "auction already holds bids").
			WithDetails(map[string]any{"bids": bidCount})
	}

	auction.Status = to
	if err := repo.Update(ctx, auction); err != nil {
		return nil, err
	}
	return auction, nil
}
