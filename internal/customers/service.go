package customers

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidzone/bidzone-backend/internal/auctions"
	"github.com/bidzone/bidzone-backend/internal/ledger"
	pkgauth "github.com/bidzone/bidzone-backend/pkg/auth"
	"github.com/bidzone/bidzone-backend/pkg/auth/session"
	"github.com/bidzone/bidzone-backend/pkg/config"
	"github.com/bidzone/bidzone-backend/pkg/db"
	"github.com/bidzone/bidzone-backend/pkg/db/models"
	"github.com/bidzone/bidzone-backend/pkg/enums"
	pkgerrors "github.com/bidzone/bidzone-backend/pkg/errors"
	"github.com/bidzone/bidzone-backend/pkg/outbox"
	"github.com/bidzone/bidzone-backend/pkg/outbox/payloads"
)

// SessionManager issues and revokes the refresh-token side of a login.
type SessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams groups dependencies for the customer service.
type ServiceParams struct {
	Repo             Repository
	Ledger           ledger.Service
	Transactor       auctions.Transactor
	Outbox           auctions.Outbox
	Sessions         SessionManager
	JWTConfig        config.JWTConfig
	InitialCoinGrant int64
	Now              func() time.Time
}

// Service handles registration and customer reads. Registration creates the
// identity and its coin account in one transaction and returns a signed-in
// session.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Refresh(ctx context.Context, accessID, refreshToken string, claims pkgauth.AccessTokenClaims) (*TokenPair, error)
	Logout(ctx context.Context, accessID string) error
}

// RegisterInput carries the fields a new customer provides.
type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
}

// RegisterResult is the newly created customer plus their first session.
type RegisterResult struct {
	Customer     *models.Customer
	Account      *models.Account
	AccessToken  string
	RefreshToken string
}

// TokenPair is a rotated access/refresh token set.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type service struct {
	repo       Repository
	ledger     ledger.Service
	transactor auctions.Transactor
	outbox     auctions.Outbox
	sessions   SessionManager
	jwtCfg     config.JWTConfig
	grant      int64
	now        func() time.Time
}

// NewService builds a customer service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer repo is required")
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
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session manager is required")
	}
	if params.InitialCoinGrant < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "initial coin grant must be non-negative")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:       params.Repo,
		ledger:     params.Ledger,
		transactor: params.Transactor,
		outbox:     params.Outbox,
		sessions:   params.Sessions,
		jwtCfg:     params.JWTConfig,
		grant:      params.InitialCoinGrant,
		now:        now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
	}

	var customer *models.Customer
	var account *models.Account
	err = s.transactor.WithTx(ctx, func(tx *gorm.DB) error {
		customer = &models.Customer{
			Email:     email,
			FirstName: strings.TrimSpace(input.FirstName),
			LastName:  strings.TrimSpace(input.LastName),
			Tier:      enums.MembershipTierBronze,
			IsActive:  true,
		}
		if err := s.repo.WithTx(tx).Create(ctx, customer); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email is already registered")
			}
			return err
		}

		account, err = s.ledger.OpenAccount(ctx, tx, customer.ID, s.grant)
		if err != nil {
			return err
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCustomerRegistered,
			AggregateType: enums.AggregateCustomer,
			AggregateID:   customer.ID,
			Data: payloads.CustomerRegisteredEvent{
				CustomerID:   customer.ID,
				AccountID:    account.ID,
				InitialCoins: s.grant,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := s.issueSession(ctx, customer)
	if err != nil {
		return nil, err
	}
	return &RegisterResult{
		Customer:     customer,
		Account:      account,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return customer, nil
}

// Refresh rotates the refresh token and mints a fresh access token carrying
// the caller's existing claims.
func (s *service) Refresh(ctx context.Context, accessID, refreshToken string, claims pkgauth.AccessTokenClaims) (*TokenPair, error) {
	newAccessID, newRefreshToken, err := s.sessions.Rotate(ctx, accessID, refreshToken)
	if err != nil {
		return nil, err
	}

	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgauth.AccessTokenPayload{
		CustomerID: claims.CustomerID,
		Role:       claims.Role,
		Tier:       claims.Tier,
		JTI:        newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	return s.sessions.Revoke(ctx, accessID)
}

func (s *service) issueSession(ctx context.Context, customer *models.Customer) (string, string, error) {
	accessID := session.NewAccessID()
	tier := customer.Tier
	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgauth.AccessTokenPayload{
		CustomerID: customer.ID,
		Role:       enums.ActorRoleCustomer,
		Tier:       &tier,
		JTI:        accessID,
	})
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}
	return accessToken, refreshToken, nil
}
