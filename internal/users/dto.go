package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/lasgemelas/disfraces-backend/pkg/db/models"
	"github.com/lasgemelas/disfraces-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID           uuid.UUID      `json:"id"`
	Codigo       string         `json:"codigo"`
	Nombre       string         `json:"nombre"`
	Apellido     string         `json:"apellido"`
	Correo       string         `json:"correo"`
	Telefono     *string        `json:"telefono,omitempty"`
	Direccion    *string        `json:"direccion,omitempty"`
	Rol          enums.UserRole `json:"rol"`
	Activo       bool           `json:"activo"`
	UltimoAcceso *time.Time     `json:"ultimo_acceso,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Codigo         string
	Nombre         string
	Apellido       string
	Correo         string
	ContrasenaHash string
	Telefono       *string
	Direccion      *string
	Rol            enums.UserRole
	Activo         *bool
}

// UpdateUserDTO carries the mutable profile fields. Nil pointers leave the
// stored value untouched.
type UpdateUserDTO struct {
	Nombre         *string
	Apellido       *string
	Correo         *string
	ContrasenaHash *string
	Telefono       *string
	Direccion      *string
	Rol            *enums.UserRole
	Activo         *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:           u.ID,
		Codigo:       u.Codigo,
		Nombre:       u.Nombre,
		Apellido:     u.Apellido,
		Correo:       u.Correo,
		Telefono:     u.Telefono,
		Direccion:    u.Direccion,
		Rol:          u.Rol,
		Activo:       u.Activo,
		UltimoAcceso: u.UltimoAcceso,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	activo := true
	if c.Activo != nil {
		activo = *c.Activo
	}
	rol := c.Rol
	if rol == "" {
		rol = enums.UserRoleCliente
	}

	return &models.User{
		Codigo:         c.Codigo,
		Nombre:         c.Nombre,
		Apellido:       c.Apellido,
		Correo:         c.Correo,
		ContrasenaHash: c.ContrasenaHash,
		Telefono:       c.Telefono,
		Direccion:      c.Direccion,
		Rol:            rol,
		Activo:         activo,
	}
}
