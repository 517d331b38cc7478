package controllers

import (
	"net/http"

	"github.com/bidzone/bidzone-backend/api/responses"
	"github.com/bidzone/bidzone-backend/internal/settlement"
	pkgerrors "github.com/bidzone/bidzone-backend/pkg/errors"
	"github.com/bidzone/bidzone-backend/pkg/logger"
)

type sweepResponse struct {
	Scanned   int `json:"scanned"`
	Completed int `json:"completed"`
	Skipped   int `json:"skipped"`
	Refunded  int `json:"refunded"`
}

// SettlementRun triggers one settlement sweep on demand. The cron worker
// runs the same sweep on its schedule; this endpoint exists for operators.
func SettlementRun(svc settlement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settlement service unavailable"))
			return
		}

		stats, err := svc.Sweep(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sweepResponse{
			Scanned:   stats.Scanned,
			Completed: stats.Completed,
			Skipped:   stats.Skipped,
			Refunded:  stats.Refunded,
		})
	}
}
