package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lasgemelas/disfraces-backend/pkg/db/models"
	"github.com/lasgemelas/disfraces-backend/pkg/enums"
)

// ProductSummary is the slice of the listing embedded in order history rows.
type ProductSummary struct {
	ID        uuid.UUID `json:"id"`
	Nombre    string    `json:"nombre"`
	Categoria string    `json:"categoria"`
	Imagen    *string   `json:"imagen,omitempty"`
}

// PurchaseDTO is the transport shape for a compra row.
type PurchaseDTO struct {
	ID             uuid.UUID            `json:"id"`
	Producto       ProductSummary       `json:"producto"`
	Cantidad       int                  `json:"cantidad"`
	PrecioUnitario decimal.Decimal      `json:"precio_unitario"`
	PrecioTotal    decimal.Decimal      `json:"precio_total"`
	Estado         enums.PurchaseStatus `json:"estado"`
	MetodoPago     enums.PaymentMethod  `json:"metodo_pago"`
	DireccionEnvio string               `json:"direccion_envio"`
	Notas          *string              `json:"notas,omitempty"`
	FechaCompra    time.Time            `json:"fecha_compra"`
}

// RentalDTO is the transport shape for an alquiler row.
type RentalDTO struct {
	ID               uuid.UUID           `json:"id"`
	Producto         ProductSummary      `json:"producto"`
	Cantidad         int                 `json:"cantidad"`
	PrecioUnitario   decimal.Decimal     `json:"precio_unitario"`
	PrecioTotal      decimal.Decimal     `json:"precio_total"`
	FechaInicio      time.Time           `json:"fecha_inicio"`
	FechaFin         time.Time           `json:"fecha_fin"`
	DiasAlquiler     int                 `json:"dias_alquiler"`
	Estado           enums.RentalStatus  `json:"estado"`
	MetodoPago       enums.PaymentMethod `json:"metodo_pago"`
	DireccionEntrega string              `json:"direccion_entrega"`
	Deposito         decimal.Decimal     `json:"deposito"`
	Notas            *string             `json:"notas,omitempty"`
	FechaReserva     time.Time           `json:"fecha_reserva"`
}

func summaryFromProduct(p *models.Product) ProductSummary {
	if p == nil {
		return ProductSummary{}
	}
	return ProductSummary{
		ID:        p.ID,
		Nombre:    p.Nombre,
		Categoria: p.Categoria,
		Imagen:    p.Imagen,
	}
}

func PurchaseFromModel(row *models.Purchase) *PurchaseDTO {
	if row == nil {
		return nil
	}
	return &PurchaseDTO{
		ID:             row.ID,
		Producto:       summaryFromProduct(row.Producto),
		Cantidad:       row.Cantidad,
		PrecioUnitario: row.PrecioUnitario,
		PrecioTotal:    row.PrecioTotal,
		Estado:         row.Estado,
		MetodoPago:     row.MetodoPago,
		DireccionEnvio: row.DireccionEnvio,
		Notas:          row.Notas,
		FechaCompra:    row.FechaCompra,
	}
}

func RentalFromModel(row *models.Rental) *RentalDTO {
	if row == nil {
		return nil
	}
	return &RentalDTO{
		ID:               row.ID,
		Producto:         summaryFromProduct(row.Producto),
		Cantidad:         row.Cantidad,
		PrecioUnitario:   row.PrecioUnitario,
		PrecioTotal:      row.PrecioTotal,
		FechaInicio:      row.FechaInicio,
		FechaFin:         row.FechaFin,
		DiasAlquiler:     row.DiasAlquiler,
		Estado:           row.Estado,
		MetodoPago:       row.MetodoPago,
		DireccionEntrega: row.DireccionEntrega,
		Deposito:         row.Deposito,
		Notas:            row.Notas,
		FechaReserva:     row.FechaReserva,
	}
}

func PurchasesFromModels(rows []models.Purchase) []PurchaseDTO {
	out := make([]PurchaseDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *PurchaseFromModel(&rows[i]))
	}
	return out
}

func RentalsFromModels(rows []models.Rental) []RentalDTO {
	out := make([]RentalDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *RentalFromModel(&rows[i]))
	}
	return out
}
