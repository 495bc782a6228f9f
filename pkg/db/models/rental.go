package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lasgemelas/disfraces-backend/pkg/enums"
)

// Rental is one alquiler line priced per calendar day.
// Invariant: FechaFin is strictly after FechaInicio, so DiasAlquiler > 0 and
// PrecioTotal = PrecioUnitario × Cantidad × DiasAlquiler.
type Rental struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UsuarioID         uuid.UUID           `gorm:"column:usuario_id;type:uuid;not null;index"`
	ProductoID        uuid.UUID           `gorm:"column:producto_id;type:uuid;not null;index"`
	Cantidad          int                 `gorm:"column:cantidad;not null;default:1"`
	PrecioUnitario    decimal.Decimal     `gorm:"column:precio_unitario;type:numeric(10,2);not null"`
	PrecioTotal       decimal.Decimal     `gorm:"column:precio_total;type:numeric(10,2);not null"`
	FechaInicio       time.Time           `gorm:"column:fecha_inicio;not null"`
	FechaFin          time.Time           `gorm:"column:fecha_fin;not null"`
	DiasAlquiler      int                 `gorm:"column:dias_alquiler;not null"`
	Estado            enums.RentalStatus  `gorm:"column:estado;not null;default:'reservado'"`
	MetodoPago        enums.PaymentMethod `gorm:"column:metodo_pago;not null"`
	DireccionEntrega  string              `gorm:"column:direccion_entrega;not null"`
	Deposito          decimal.Decimal     `gorm:"column:deposito;type:numeric(10,2);not null;default:0"`
	Notas             *string             `gorm:"column:notas"`
	FechaReserva      time.Time           `gorm:"column:fecha_reserva;autoCreateTime"`
	Usuario           *User               `gorm:"foreignKey:UsuarioID;constraint:OnDelete:CASCADE"`
	Producto          *Product            `gorm:"foreignKey:ProductoID;constraint:OnDelete:CASCADE"`
}

func (Rental) TableName() string { return "alquileres" }

func (r *Rental) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
