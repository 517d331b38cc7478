package controllers

import (
	"net/http"
	"strings"

	"github.com/bidzone/bidzone-backend/api/responses"
	"github.com/bidzone/bidzone-backend/api/validators"
	"github.com/bidzone/bidzone-backend/internal/customers"
	"github.com/bidzone/bidzone-backend/internal/deliveries"
	"github.com/bidzone/bidzone-backend/internal/ledger"
	"github.com/bidzone/bidzone-backend/pkg/enums"
	pkgerrors "github.com/bidzone/bidzone-backend/pkg/errors"
	"github.com/bidzone/bidzone-backend/pkg/logger"
)

type registerCustomerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,min=1,max=64"`
	LastName  string `json:"last_name" validate:"required,min=1,max=64"`
}

type registerCustomerResponse struct {
	Customer     customerDTO `json:"customer"`
	Balance      int64       `json:"balance"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

// RegisterCustomer creates a customer with their coin account and signs
// them in.
func RegisterCustomer(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		var body registerCustomerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), customers.RegisterInput{
			Email:     body.Email,
			FirstName: validators.SanitizeString(body.FirstName, 64),
			LastName:  validators.SanitizeString(body.LastName, 64),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("X-BZ-Token", result.AccessToken)
		responses.WriteSuccessStatus(w, http.StatusCreated, registerCustomerResponse{
			Customer:     toCustomerDTO(result.Customer),
			Balance:      result.Account.Balance,
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
		})
	}
}

// CustomerMe returns the authenticated customer's profile.
func CustomerMe(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		customerID, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Get(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCustomerDTO(customer))
	}
}

// CustomerBalance returns the authenticated customer's coin balance.
func CustomerBalance(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		customerID, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		balance, err := svc.GetBalance(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"balance": balance})
	}
}

// CustomerTransactions lists the authenticated customer's coin history.
func CustomerTransactions(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		customerID, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cursor, limit, err := parsePageQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := ledger.TransactionFilter{Cursor: cursor, Limit: limit}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			parsed, err := enums.ParseTransactionType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction type"))
				return
			}
			filter.Type = &parsed
		}

		txns, next, err := svc.ListTransactions(r.Context(), customerID, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]transactionDTO, 0, len(txns))
		for i := range txns {
			items = append(items, toTransactionDTO(&txns[i]))
		}
		responses.WriteSuccess(w, pageDTO[transactionDTO]{Items: items, Next: next})
	}
}

// CustomerDeliveries lists deliveries won by the authenticated customer.
func CustomerDeliveries(svc deliveries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		customerID, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cursor, limit, err := parsePageQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, next, err := svc.ListByCustomer(r.Context(), customerID, cursor, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]deliveryDTO, 0, len(rows))
		for i := range rows {
			items = append(items, toDeliveryDTO(&rows[i]))
		}
		responses.WriteSuccess(w, pageDTO[deliveryDTO]{Items: items, Next: next})
	}
}
