package controllers

import (
	"net/http"

	"github.com/kiranalabs/bazaari-backend/api/responses"
	"github.com/kiranalabs/bazaari-backend/pkg/config"
	"github.com/kiranalabs/bazaari-backend/pkg/db"
	pkgerrors "github.com/kiranalabs/bazaari-backend/pkg/errors"
	"github.com/kiranalabs/bazaari-backend/pkg/logger"
	"github.com/kiranalabs/bazaari-backend/pkg/redis"
)

const envHeader = "X-Bazaari-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, database db.Pinger, cache redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if database != nil {
			if err := database.Ping(r.Context()); err != nil {
				checks["database"] = err.Error()
				healthy = false
			} else {
				checks["database"] = "ok"
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				checks["redis"] = err.Error()
				healthy = false
			} else {
				checks["redis"] = "ok"
			}
		}

		if !healthy {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
