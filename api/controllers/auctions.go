package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bidzone/bidzone-backend/api/middleware"
	"github.com/bidzone/bidzone-backend/api/responses"
	"github.com/bidzone/bidzone-backend/api/validators"
	auctionsvc "github.com/bidzone/bidzone-backend/internal/auctions"
	"github.com/bidzone/bidzone-backend/pkg/enums"
	pkgerrors "github.com/bidzone/bidzone-backend/pkg/errors"
	"github.com/bidzone/bidzone-backend/pkg/logger"
	"github.com/bidzone/bidzone-backend/pkg/outbox"
)

type createAuctionRequest struct {
	ProductID     string    `json:"product_id" validate:"required"`
	StartingPrice int64     `json:"starting_price" validate:"required,min=1"`
	StartingTime  time.Time `json:"starting_time" validate:"required"`
	EndingTime    time.Time `json:"ending_time" validate:"required"`
}

type cancelAuctionRequest struct {
	Reason string `json:"reason,omitempty"`
}

func actorFromContext(r *http.Request) *outbox.ActorRef {
	customerID, err := uuid.Parse(middleware.CustomerIDFromContext(r.Context()))
	if err != nil {
		return nil
	}
	role := middleware.RoleFromContext(r.Context())
	if role == "" {
		role = string(enums.ActorRoleCustomer)
	}
	return &outbox.ActorRef{CustomerID: customerID, Role: role}
}

// CreateAuction lists a product for sale and schedules or opens the auction.
func CreateAuction(svc auctionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auction service unavailable"))
			return
		}

		sellerID, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createAuctionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(strings.TrimSpace(body.ProductID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		auction, err := svc.Create(r.Context(), auctionsvc.CreateInput{
			SellerID:      sellerID,
			ProductID:     productID,
			StartingPrice: body.StartingPrice,
			StartingTime:  body.StartingTime,
			EndingTime:    body.EndingTime,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toAuctionDTO(auction))
	}
}

// GetAuction returns a single auction.
func GetAuction(svc auctionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auction service unavailable"))
			return
		}

		auctionID, err := parseUUIDParam(r, "auctionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		auction, err := svc.Get(r.Context(), auctionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toAuctionDTO(auction))
	}
}

// ListAuctions pages through auctions, optionally filtered by status.
func ListAuctions(svc auctionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auction service unavailable"))
			return
		}

		cursor, limit, err := parsePageQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.AuctionStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseAuctionStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			status = &parsed
		}

		rows, next, err := svc.List(r.Context(), status, cursor, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]auctionDTO, 0, len(rows))
		for i := range rows {
			items = append(items, toAuctionDTO(&rows[i]))
		}
		responses.WriteSuccess(w, pageDTO[auctionDTO]{Items: items, Next: next})
	}
}

// CancelAuction cancels a bidless auction.
func CancelAuction(svc auctionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auction service unavailable"))
			return
		}

		auctionID, err := parseUUIDParam(r, "auctionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cancelAuctionRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		auction, err := svc.Cancel(r.Context(), auctionID, actorFromContext(r), validators.SanitizeString(body.Reason, 500))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toAuctionDTO(auction))
	}
}

// DeleteAuction soft-deletes a bidless auction and releases its product.
func DeleteAuction(svc auctionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auction service unavailable"))
			return
		}

		auctionID, err := parseUUIDParam(r, "auctionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), auctionID, actorFromContext(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
