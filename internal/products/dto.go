package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lasgemelas/disfraces-backend/pkg/db/models"
)

// ProductDTO is the catalog transport shape.
type ProductDTO struct {
	ID                 uuid.UUID       `json:"id"`
	Nombre             string          `json:"nombre"`
	Descripcion        *string         `json:"descripcion,omitempty"`
	PrecioCompra       decimal.Decimal `json:"precio_compra"`
	PrecioAlquiler     decimal.Decimal `json:"precio_alquiler"`
	Categoria          string          `json:"categoria"`
	Talla              *string         `json:"talla,omitempty"`
	Color              *string         `json:"color,omitempty"`
	DisponibleCompra   bool            `json:"disponible_compra"`
	DisponibleAlquiler bool            `json:"disponible_alquiler"`
	StockCompra        int             `json:"stock_compra"`
	StockAlquiler      int             `json:"stock_alquiler"`
	Imagen             *string         `json:"imagen,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// CreateProductDTO holds the fields needed to publish a listing.
type CreateProductDTO struct {
	Nombre             string
	Descripcion        *string
	PrecioCompra       decimal.Decimal
	PrecioAlquiler     decimal.Decimal
	Categoria          string
	Talla              *string
	Color              *string
	DisponibleCompra   *bool
	DisponibleAlquiler *bool
	StockCompra        int
	StockAlquiler      int
	Imagen             *string
}

// UpdateProductDTO carries the mutable listing fields. Nil pointers leave the
// stored value untouched.
type UpdateProductDTO struct {
	Nombre             *string
	Descripcion        *string
	PrecioCompra       *decimal.Decimal
	PrecioAlquiler     *decimal.Decimal
	Categoria          *string
	Talla              *string
	Color              *string
	DisponibleCompra   *bool
	DisponibleAlquiler *bool
	StockCompra        *int
	StockAlquiler      *int
	Imagen             *string
}

// ListFilter narrows the public catalog query.
type ListFilter struct {
	Categoria          string
	DisponibleCompra   *bool
	DisponibleAlquiler *bool
	SoloDisponibles    bool
	Search             string
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:                 p.ID,
		Nombre:             p.Nombre,
		Descripcion:        p.Descripcion,
		PrecioCompra:       p.PrecioCompra,
		PrecioAlquiler:     p.PrecioAlquiler,
		Categoria:          p.Categoria,
		Talla:              p.Talla,
		Color:              p.Color,
		DisponibleCompra:   p.DisponibleCompra,
		DisponibleAlquiler: p.DisponibleAlquiler,
		StockCompra:        p.StockCompra,
		StockAlquiler:      p.StockAlquiler,
		Imagen:             p.Imagen,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func FromModels(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func (c CreateProductDTO) ToModel() *models.Product {
	dispCompra := true
	if c.DisponibleCompra != nil {
		dispCompra = *c.DisponibleCompra
	}
	dispAlquiler := true
	if c.DisponibleAlquiler != nil {
		dispAlquiler = *c.DisponibleAlquiler
	}
	return &models.Product{
		Nombre:             c.Nombre,
		Descripcion:        c.Descripcion,
		PrecioCompra:       c.PrecioCompra,
		PrecioAlquiler:     c.PrecioAlquiler,
		Categoria:          c.Categoria,
		Talla:              c.Talla,
		Color:              c.Color,
		DisponibleCompra:   dispCompra,
		DisponibleAlquiler: dispAlquiler,
		StockCompra:        c.StockCompra,
		StockAlquiler:      c.StockAlquiler,
		Imagen:             c.Imagen,
	}
}
