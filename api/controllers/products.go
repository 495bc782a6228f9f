package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/lasgemelas/disfraces-backend/api/responses"
	"github.com/lasgemelas/disfraces-backend/api/validators"
	"github.com/lasgemelas/disfraces-backend/internal/products"
	pkgerrors "github.com/lasgemelas/disfraces-backend/pkg/errors"
	"github.com/lasgemelas/disfraces-backend/pkg/logger"
)

// ProductsList is the public catalog listing with optional filters.
func ProductsList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := paginationFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := products.ListFilter{
			Categoria: validators.SanitizeString(r.URL.Query().Get("categoria"), maxSearchLen),
			Search:    params.Search,
		}
		if raw := r.URL.Query().Get("disponible_compra"); raw != "" {
			value, parseErr := strconv.ParseBool(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "disponible_compra must be a boolean"))
				return
			}
			filter.DisponibleCompra = &value
		}
		if raw := r.URL.Query().Get("disponible_alquiler"); raw != "" {
			value, parseErr := strconv.ParseBool(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "disponible_alquiler must be a boolean"))
				return
			}
			filter.DisponibleAlquiler = &value
		}

		result, err := svc.ListCatalog(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProductGet returns a single listing by id.
func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := parseIDParam(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type createProductRequest struct {
	Nombre             string          `json:"nombre" validate:"required"`
	Descripcion        *string         `json:"descripcion"`
	PrecioCompra       decimal.Decimal `json:"precio_compra"`
	PrecioAlquiler     decimal.Decimal `json:"precio_alquiler"`
	Categoria          string          `json:"categoria" validate:"required"`
	Talla              *string         `json:"talla"`
	Color              *string         `json:"color"`
	DisponibleCompra   *bool           `json:"disponible_compra"`
	DisponibleAlquiler *bool           `json:"disponible_alquiler"`
	StockCompra        int             `json:"stock_compra" validate:"min=0"`
	StockAlquiler      int             `json:"stock_alquiler" validate:"min=0"`
	Imagen             *string         `json:"imagen"`
}

func (b createProductRequest) toDTO() products.CreateProductDTO {
	return products.CreateProductDTO{
		Nombre:             b.Nombre,
		Descripcion:        b.Descripcion,
		PrecioCompra:       b.PrecioCompra,
		PrecioAlquiler:     b.PrecioAlquiler,
		Categoria:          b.Categoria,
		Talla:              b.Talla,
		Color:              b.Color,
		DisponibleCompra:   b.DisponibleCompra,
		DisponibleAlquiler: b.DisponibleAlquiler,
		StockCompra:        b.StockCompra,
		StockAlquiler:      b.StockAlquiler,
		Imagen:             b.Imagen,
	}
}

// AdminProductCreate publishes a new listing. Requires rol admin.
func AdminProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), body.toDTO())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, created)
	}
}

type updateProductRequest struct {
	Nombre             *string          `json:"nombre"`
	Descripcion        *string          `json:"descripcion"`
	PrecioCompra       *decimal.Decimal `json:"precio_compra"`
	PrecioAlquiler     *decimal.Decimal `json:"precio_alquiler"`
	Categoria          *string          `json:"categoria"`
	Talla              *string          `json:"talla"`
	Color              *string          `json:"color"`
	DisponibleCompra   *bool            `json:"disponible_compra"`
	DisponibleAlquiler *bool            `json:"disponible_alquiler"`
	StockCompra        *int             `json:"stock_compra"`
	StockAlquiler      *int             `json:"stock_alquiler"`
	Imagen             *string          `json:"imagen"`
}

func (b updateProductRequest) toDTO() products.UpdateProductDTO {
	return products.UpdateProductDTO{
		Nombre:             b.Nombre,
		Descripcion:        b.Descripcion,
		PrecioCompra:       b.PrecioCompra,
		PrecioAlquiler:     b.PrecioAlquiler,
		Categoria:          b.Categoria,
		Talla:              b.Talla,
		Color:              b.Color,
		DisponibleCompra:   b.DisponibleCompra,
		DisponibleAlquiler: b.DisponibleAlquiler,
		StockCompra:        b.StockCompra,
		StockAlquiler:      b.StockAlquiler,
		Imagen:             b.Imagen,
	}
}

// AdminProductUpdate applies a partial update to a listing.
func AdminProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := parseIDParam(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), id, body.toDTO())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminProductDelete removes a listing and names it in the response.
func AdminProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := parseIDParam(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		name, err := svc.Delete(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{
			"message":  "producto eliminado",
			"producto": name,
		})
	}
}
