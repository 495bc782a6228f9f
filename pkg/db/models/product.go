package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a costume listing. Purchase and rental availability are tracked
// independently, each with its own price and stock counter.
type Product struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Nombre             string          `gorm:"column:nombre;not null"`
	Descripcion        *string         `gorm:"column:descripcion"`
	PrecioCompra       decimal.Decimal `gorm:"column:precio_compra;type:numeric(10,2);not null"`
	PrecioAlquiler     decimal.Decimal `gorm:"column:precio_alquiler;type:numeric(10,2);not null"`
	Categoria          string          `gorm:"column:categoria;not null"`
	Talla              *string         `gorm:"column:talla"`
	Color              *string         `gorm:"column:color"`
	DisponibleCompra   bool            `gorm:"column:disponible_compra;not null;default:true"`
	DisponibleAlquiler bool            `gorm:"column:disponible_alquiler;not null;default:true"`
	StockCompra        int             `gorm:"column:stock_compra;not null;default:0"`
	StockAlquiler      int             `gorm:"column:stock_alquiler;not null;default:0"`
	Imagen             *string         `gorm:"column:imagen"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "productos" }

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
