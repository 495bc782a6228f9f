package controllers

import (
	"context"
	"net/http"

	"github.com/lasgemelas/disfraces-backend/api/responses"
	pkgerrors "github.com/lasgemelas/disfraces-backend/pkg/errors"
	"github.com/lasgemelas/disfraces-backend/pkg/logger"
)

// Pinger is the readiness surface of a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

func HealthReady(db, cache Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if db == nil || cache == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "health checks unavailable")
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := db.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}
		if err := cache.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

// TestDB is the legacy connectivity probe kept for older clients.
func TestDB(db Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if db == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "database unavailable")
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := db.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}
		responses.WriteSuccess(w, map[string]string{
			"message":  "conexión exitosa",
			"database": "ok",
		})
	}
}
