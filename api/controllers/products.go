package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/bidzone/bidzone-backend/api/responses"
	"github.com/bidzone/bidzone-backend/api/validators"
	productsvc "github.com/bidzone/bidzone-backend/internal/products"
	pkgerrors "github.com/bidzone/bidzone-backend/pkg/errors"
	"github.com/bidzone/bidzone-backend/pkg/logger"
)

type createProductRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// CreateProduct registers a new listing owned by the caller.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		sellerID, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), productsvc.CreateInput{
			SellerID:    sellerID,
			Name:        validators.SanitizeString(body.Name, 200),
			Description: body.Description,
			ImageURL:    body.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toProductDTO(product))
	}
}

// GetProduct returns a single listing.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductDTO(product))
	}
}

// ListProducts pages through the catalog, optionally scoped to the caller
// via mine=true.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		cursor, limit, err := parsePageQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var sellerID *uuid.UUID
		if r.URL.Query().Get("mine") == "true" {
			id, err := customerFromContext(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			sellerID = &id
		}

		rows, next, err := svc.List(r.Context(), sellerID, cursor, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]productDTO, 0, len(rows))
		for i := range rows {
			items = append(items, toProductDTO(&rows[i]))
		}
		responses.WriteSuccess(w, pageDTO[productDTO]{Items: items, Next: next})
	}
}

// DeleteProduct removes a listing the caller owns, as long as it is not in
// an auction.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		sellerID, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), sellerID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
