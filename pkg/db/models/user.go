package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lasgemelas/disfraces-backend/pkg/enums"
)

// User represents a storefront account. Codigo is the human-facing business
// key (U… for customers, T… for technician-created admins).
type User struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Codigo         string         `gorm:"column:codigo;not null;uniqueIndex"`
	Nombre         string         `gorm:"column:nombre;not null"`
	Apellido       string         `gorm:"column:apellido;not null"`
	Correo         string         `gorm:"column:correo;not null;uniqueIndex"`
	ContrasenaHash string         `gorm:"column:contrasena_hash;not null"`
	Telefono       *string        `gorm:"column:telefono"`
	Direccion      *string        `gorm:"column:direccion"`
	Rol            enums.UserRole `gorm:"column:rol;not null;default:'cliente'"`
	Activo         bool           `gorm:"column:activo;not null;default:true"`
	UltimoAcceso   *time.Time     `gorm:"column:ultimo_acceso"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "usuarios" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
