package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lasgemelas/disfraces-backend/pkg/enums"
)

// Purchase is one compra line. PrecioUnitario is a snapshot taken at checkout
// time; later catalog price changes must not affect it.
type Purchase struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UsuarioID      uuid.UUID           `gorm:"column:usuario_id;type:uuid;not null;index"`
	ProductoID     uuid.UUID           `gorm:"column:producto_id;type:uuid;not null;index"`
	Cantidad       int                 `gorm:"column:cantidad;not null;default:1"`
	PrecioUnitario decimal.Decimal     `gorm:"column:precio_unitario;type:numeric(10,2);not null"`
	PrecioTotal    decimal.Decimal     `gorm:"column:precio_total;type:numeric(10,2);not null"`
	Estado         enums.PurchaseStatus `gorm:"column:estado;not null;default:'pendiente'"`
	MetodoPago     enums.PaymentMethod `gorm:"column:metodo_pago;not null"`
	DireccionEnvio string              `gorm:"column:direccion_envio;not null"`
	Notas          *string             `gorm:"column:notas"`
	FechaCompra    time.Time           `gorm:"column:fecha_compra;autoCreateTime"`
	Usuario        *User               `gorm:"foreignKey:UsuarioID;constraint:OnDelete:CASCADE"`
	Producto       *Product            `gorm:"foreignKey:ProductoID;constraint:OnDelete:CASCADE"`
}

func (Purchase) TableName() string { return "compras" }

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
