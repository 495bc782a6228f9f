package tech

import (
	"github.com/lasgemelas/disfraces-backend/internal/users"
	"github.com/lasgemelas/disfraces-backend/pkg/enums"
	"github.com/lasgemelas/disfraces-backend/pkg/pagination"
)

// CreateTechUserDTO is the technician create body. Unlike public registration
// the codigo may carry the T prefix, which yields an admin account.
type CreateTechUserDTO struct {
	Codigo     string  `json:"codigo"`
	Nombre     string  `json:"nombre" validate:"required"`
	Apellido   string  `json:"apellido" validate:"required"`
	Correo     string  `json:"correo" validate:"required,email"`
	Contrasena string  `json:"contrasena" validate:"required,min=8"`
	Telefono   *string `json:"telefono"`
	Direccion  *string `json:"direccion"`
	Activo     *bool   `json:"activo"`
}

// UpdateTechUserDTO carries partial updates. A supplied contrasena is re-hashed.
type UpdateTechUserDTO struct {
	Nombre     *string         `json:"nombre"`
	Apellido   *string         `json:"apellido"`
	Correo     *string         `json:"correo"`
	Contrasena *string         `json:"contrasena"`
	Telefono   *string         `json:"telefono"`
	Direccion  *string         `json:"direccion"`
	Rol        *enums.UserRole `json:"rol"`
	Activo     *bool           `json:"activo"`
}

// UserListResult pages the user roster for the technician console.
type UserListResult struct {
	Usuarios []users.UserDTO `json:"usuarios"`
	Meta     pagination.Meta `json:"meta"`
}

// StatsDTO summarizes activity for the technician dashboard.
type StatsDTO struct {
	UsuariosTotal    int64 `json:"usuarios_total"`
	UsuariosHoy      int64 `json:"usuarios_hoy"`
	UsuariosSemana   int64 `json:"usuarios_semana"`
	ComprasTotal     int64 `json:"compras_total"`
	ComprasSemana    int64 `json:"compras_semana"`
	AlquileresTotal  int64 `json:"alquileres_total"`
	AlquileresSemana int64 `json:"alquileres_semana"`
}
