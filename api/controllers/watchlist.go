package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/bidzone/bidzone-backend/api/responses"
	"github.com/bidzone/bidzone-backend/internal/watchlist"
	pkgerrors "github.com/bidzone/bidzone-backend/pkg/errors"
	"github.com/bidzone/bidzone-backend/pkg/logger"
	"github.com/bidzone/bidzone-backend/pkg/types"
)

type addWatchlistItemPayload struct {
	AuctionID types.NullableUUID `json:"auction_id"`
}

// WatchlistList returns the paginated watchlist for the caller.
func WatchlistList(svc watchlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "watchlist service unavailable"))
			return
		}

		customerID, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		cursor, limit, err := parsePageQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resp, err := svc.GetWatchlist(ctx, customerID, cursor, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// WatchlistAddItem adds an auction to the caller's watchlist.
func WatchlistAddItem(svc watchlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "watchlist service unavailable"))
			return
		}

		customerID, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addWatchlistItemPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payload"))
			return
		}

		if !payload.AuctionID.Valid || payload.AuctionID.Value == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "auction id is required"))
			return
		}

		if err := svc.AddItem(ctx, customerID, *payload.AuctionID.Value); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"added": true})
	}
}

// WatchlistRemoveItem removes an auction from the caller's watchlist.
func WatchlistRemoveItem(svc watchlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "watchlist service unavailable"))
			return
		}

		customerID, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		auctionID, err := parseUUIDParam(r, "auctionId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.RemoveItem(ctx, customerID, auctionID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"removed": true})
	}
}
