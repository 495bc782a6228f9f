package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lasgemelas/disfraces-backend/pkg/enums"
)

// PurchaseLineDTO is one compra entry in the submitted cart.
type PurchaseLineDTO struct {
	ProductoID uuid.UUID `json:"producto_id" validate:"required"`
	Cantidad   int       `json:"cantidad" validate:"required,gt=0"`
	Notas      *string   `json:"notas"`
}

// RentalLineDTO is one alquiler entry in the submitted cart.
type RentalLineDTO struct {
	ProductoID  uuid.UUID        `json:"producto_id" validate:"required"`
	Cantidad    int              `json:"cantidad" validate:"required,gt=0"`
	FechaInicio time.Time        `json:"fecha_inicio" validate:"required"`
	FechaFin    time.Time        `json:"fecha_fin" validate:"required"`
	Deposito    *decimal.Decimal `json:"deposito"`
	Notas       *string          `json:"notas"`
}

// CartDTO is the full procesar-carrito request body.
type CartDTO struct {
	UsuarioCodigo  string              `json:"usuario_codigo" validate:"required"`
	Compras        []PurchaseLineDTO   `json:"compras" validate:"dive"`
	Alquileres     []RentalLineDTO     `json:"alquileres" validate:"dive"`
	MetodoPago     enums.PaymentMethod `json:"metodo_pago" validate:"required"`
	DireccionEnvio string              `json:"direccion_envio" validate:"required"`
	NotasGenerales *string             `json:"notas_generales"`
}

// ProcessedPurchase echoes one persisted compra back to the client.
type ProcessedPurchase struct {
	CompraID       uuid.UUID       `json:"compra_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	PrecioTotal    decimal.Decimal `json:"precio_total"`
}

// ProcessedRental echoes one persisted alquiler back to the client.
type ProcessedRental struct {
	AlquilerID     uuid.UUID       `json:"alquiler_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	FechaInicio    time.Time       `json:"fecha_inicio"`
	FechaFin       time.Time       `json:"fecha_fin"`
	DiasAlquiler   int             `json:"dias_alquiler"`
	PrecioTotal    decimal.Decimal `json:"precio_total"`
}

// CartResult is the itemized checkout receipt.
type CartResult struct {
	ComprasProcesadas    []ProcessedPurchase `json:"compras_procesadas"`
	AlquileresProcesados []ProcessedRental   `json:"alquileres_procesados"`
	TotalCompras         decimal.Decimal     `json:"total_compras"`
	TotalAlquileres      decimal.Decimal     `json:"total_alquileres"`
	TotalGeneral         decimal.Decimal     `json:"total_general"`
}
