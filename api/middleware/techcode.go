package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/lasgemelas/disfraces-backend/api/responses"
	"github.com/lasgemelas/disfraces-backend/pkg/config"
	pkgerrors "github.com/lasgemelas/disfraces-backend/pkg/errors"
	"github.com/lasgemelas/disfraces-backend/pkg/logger"
)

const techCodeHeader = "X-Tech-Code"

// TechCode gates the technician surface behind the configured code allow-list.
// Matched codes are attached to the logging context so every admin mutation
// carries the technician identity.
func TechCode(cfg config.TechConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	allowed := cfg.AllowedCodes()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := strings.TrimSpace(r.Header.Get(techCodeHeader))
			if provided == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "código técnico requerido"))
				return
			}

			if !matchTechCode(allowed, provided) {
				if logg != nil {
					ctx := logg.WithFields(r.Context(), map[string]any{"header": techCodeHeader})
					logg.Warn(ctx, "tech.code.rejected")
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "código técnico inválido"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxTechCode, provided)
			if logg != nil {
				ctx = logg.WithTechCode(ctx, provided)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func matchTechCode(allowed []string, provided string) bool {
	for _, code := range allowed {
		if subtle.ConstantTimeCompare([]byte(code), []byte(provided)) == 1 {
			return true
		}
	}
	return false
}
