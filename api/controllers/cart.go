package controllers

import (
	"net/http"
	"strings"

	"github.com/lasgemelas/disfraces-backend/api/middleware"
	"github.com/lasgemelas/disfraces-backend/api/responses"
	"github.com/lasgemelas/disfraces-backend/api/validators"
	"github.com/lasgemelas/disfraces-backend/internal/checkout"
	"github.com/lasgemelas/disfraces-backend/pkg/enums"
	pkgerrors "github.com/lasgemelas/disfraces-backend/pkg/errors"
	"github.com/lasgemelas/disfraces-backend/pkg/logger"
	"github.com/lasgemelas/disfraces-backend/pkg/metrics"
)

// ProcesarCarrito submits the client's cart for atomic processing.
// The body's usuario_codigo defaults to the bearer token's; a mismatch is
// only allowed for admins acting on someone else's behalf.
func ProcesarCarrito(svc checkout.Service, httpMetrics *metrics.HTTPMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkout.CartDTO
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		callerCodigo := middleware.CodigoFromContext(r.Context())
		bodyCodigo := strings.ToUpper(strings.TrimSpace(body.UsuarioCodigo))
		switch {
		case bodyCodigo == "":
			body.UsuarioCodigo = callerCodigo
		case bodyCodigo != callerCodigo && middleware.RoleFromContext(r.Context()) != string(enums.UserRoleAdmin):
			err := pkgerrors.New(pkgerrors.CodeForbidden, "no puede procesar el carrito de otro usuario")
			responses.WriteError(r.Context(), logg, w, err)
			return
		default:
			body.UsuarioCodigo = bodyCodigo
		}

		result, err := svc.ProcesarCarrito(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if httpMetrics != nil {
			httpMetrics.AddCheckoutItems("compra", len(result.ComprasProcesadas))
			httpMetrics.AddCheckoutItems("alquiler", len(result.AlquileresProcesados))
		}
		responses.WriteCreated(w, result)
	}
}
