package controllers

import (
	"net/http"

	"github.com/gracechapel-dev/churchhub-backend/api/responses"
	"github.com/gracechapel-dev/churchhub-backend/internal/dashboard"
	pkgerrors "github.com/gracechapel-dev/churchhub-backend/pkg/errors"
	"github.com/gracechapel-dev/churchhub-backend/pkg/logger"
)

// AdminDashboardStats returns the headline counters for the admin home screen.
func AdminDashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
