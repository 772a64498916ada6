package controllers

import (
	"net/http"

	"github.com/gracechapel-dev/churchhub-backend/api/responses"
	"github.com/gracechapel-dev/churchhub-backend/pkg/config"
	"github.com/gracechapel-dev/churchhub-backend/pkg/db"
	pkgerrors "github.com/gracechapel-dev/churchhub-backend/pkg/errors"
	"github.com/gracechapel-dev/churchhub-backend/pkg/logger"
	"github.com/gracechapel-dev/churchhub-backend/pkg/redis"
	"github.com/gracechapel-dev/churchhub-backend/pkg/storage/gcs"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ChurchHub-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every backing dependency answers.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, gcsP gcs.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ChurchHub-Env", cfg.App.Env)

		checks := map[string]error{}
		if dbP != nil {
			checks["postgres"] = dbP.Ping(r.Context())
		}
		if redisP != nil {
			checks["redis"] = redisP.Ping(r.Context())
		}
		if gcsP != nil {
			checks["gcs"] = gcsP.Ping(r.Context())
		}

		status := map[string]string{"status": "ready"}
		for name, err := range checks {
			if err != nil {
				if logg != nil {
					logg.Error(r.Context(), "readiness check failed: "+name, err)
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
			status[name] = "ok"
		}

		responses.WriteSuccess(w, status)
	}
}
