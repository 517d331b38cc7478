package controllers

import (
	"net/http"

	"github.com/bidzone/bidzone-backend/api/responses"
	"github.com/bidzone/bidzone-backend/api/validators"
	"github.com/bidzone/bidzone-backend/internal/bidding"
	pkgerrors "github.com/bidzone/bidzone-backend/pkg/errors"
	"github.com/bidzone/bidzone-backend/pkg/logger"
)

type placeBidRequest struct {
	Amount int64 `json:"amount" validate:"required,min=1"`
}

// PlaceBid places or raises the caller's bid on an auction.
func PlaceBid(svc bidding.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bid service unavailable"))
			return
		}

		bidderID, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		auctionID, err := parseUUIDParam(r, "auctionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body placeBidRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bid, err := svc.PlaceBid(r.Context(), bidding.PlaceBidInput{
			AuctionID: auctionID,
			BidderID:  bidderID,
			Amount:    body.Amount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toBidDTO(bid))
	}
}

// ListBids returns all bids on an auction, highest first.
func ListBids(svc bidding.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bid service unavailable"))
			return
		}

		auctionID, err := parseUUIDParam(r, "auctionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bids, err := svc.ListBids(r.Context(), auctionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]bidDTO, 0, len(bids))
		for i := range bids {
			items = append(items, toBidDTO(&bids[i]))
		}
		responses.WriteSuccess(w, pageDTO[bidDTO]{Items: items})
	}
}
