package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/bidzone/bidzone-backend/api/middleware"
	"github.com/bidzone/bidzone-backend/internal/customers"
	pkgauth "github.com/bidzone/bidzone-backend/pkg/auth"
	"github.com/bidzone/bidzone-backend/pkg/db/models"
	"github.com/bidzone/bidzone-backend/pkg/enums"
	pkgerrors "github.com/bidzone/bidzone-backend/pkg/errors"
)

type testCustomerService struct {
	registerFn func(ctx context.Context, input customers.RegisterInput) (*customers.RegisterResult, error)
	getFn      func(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

func (s *testCustomerService) Register(ctx context.Context, input customers.RegisterInput) (*customers.RegisterResult, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, input)
	}
	return nil, nil
}

func (s *testCustomerService) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, nil
}

func (s *testCustomerService) Refresh(ctx context.Context, accessID, refreshToken string, claims pkgauth.AccessTokenClaims) (*customers.TokenPair, error) {
	return nil, nil
}

func (s *testCustomerService) Logout(ctx context.Context, accessID string) error {
	return nil
}

func TestRegisterCustomerSuccess(t *testing.T) {
	svc := &testCustomerService{
		registerFn: func(ctx context.Context, input customers.RegisterInput) (*customers.RegisterResult, error) {
			if input.Email != "new@bidzone.test" {
				t.Fatalf("unexpected email %s", input.Email)
			}
			customer := &models.Customer{
				ID:        uuid.New(),
				Email:     input.Email,
				FirstName: input.FirstName,
				LastName:  input.LastName,
				Tier:      enums.MembershipTierBronze,
			}
			return &customers.RegisterResult{
				Customer:     customer,
				Account:      &models.Account{CustomerID: customer.ID, Balance: 10000},
				AccessToken:  "access-token",
				RefreshToken: "refresh-token",
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers",
		strings.NewReader(`{"email":"new@bidzone.test","first_name":"Ada","last_name":"Lovelace"}`))
	resp := httptest.NewRecorder()
	RegisterCustomer(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("X-BZ-Token"); got != "access-token" {
		t.Fatalf("expected token header, got %q", got)
	}
	var envelope struct {
		Data registerCustomerResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Balance != 10000 {
		t.Fatalf("expected starting balance in response, got %d", envelope.Data.Balance)
	}
	if envelope.Data.RefreshToken != "refresh-token" {
		t.Fatal("expected refresh token in response")
	}
}

func TestRegisterCustomerValidatesEmail(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers",
		strings.NewReader(`{"email":"not-an-email","first_name":"Ada","last_name":"Lovelace"}`))
	resp := httptest.NewRecorder()
	RegisterCustomer(&testCustomerService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRegisterCustomerConflict(t *testing.T) {
	svc := &testCustomerService{
		registerFn: func(ctx context.Context, input customers.RegisterInput) (*customers.RegisterResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers",
		strings.NewReader(`{"email":"dup@bidzone.test","first_name":"Ada","last_name":"Lovelace"}`))
	resp := httptest.NewRecorder()
	RegisterCustomer(svc, testLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestCustomerMeReturnsProfile(t *testing.T) {
	customerID := uuid.New()
	svc := &testCustomerService{
		getFn: func(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
			if id != customerID {
				t.Fatalf("unexpected customer %s", id)
			}
			return &models.Customer{ID: id, Email: "me@bidzone.test", Tier: enums.MembershipTierBronze}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/me", nil)
	req = req.WithContext(middleware.WithCustomerID(req.Context(), customerID.String()))
	resp := httptest.NewRecorder()
	CustomerMe(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data customerDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Email != "me@bidzone.test" {
		t.Fatalf("unexpected email %s", envelope.Data.Email)
	}
}

func TestCustomerMeMissingContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/me", nil)
	resp := httptest.NewRecorder()
	CustomerMe(&testCustomerService{}, testLogger())(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
