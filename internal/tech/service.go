package tech

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lasgemelas/disfraces-backend/internal/orders"
	"github.com/lasgemelas/disfraces-backend/internal/users"
	"github.com/lasgemelas/disfraces-backend/pkg/config"
	"github.com/lasgemelas/disfraces-backend/pkg/db"
	"github.com/lasgemelas/disfraces-backend/pkg/enums"
	pkgerrors "github.com/lasgemelas/disfraces-backend/pkg/errors"
	"github.com/lasgemelas/disfraces-backend/pkg/pagination"
	"github.com/lasgemelas/disfraces-backend/pkg/security"
)

// Technician-created codes accept both prefixes: U clients, T admins.
var techCodigoPattern = regexp.MustCompile(`^[UT]\d{8}[A-Z0-9]{3}$`)

// Service is the technician console: full user administration plus stats.
type Service interface {
	List(ctx context.Context, params pagination.Params) (*UserListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*users.UserDTO, error)
	Create(ctx context.Context, input CreateTechUserDTO) (*users.UserDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateTechUserDTO) (*users.UserDTO, error)
	Delete(ctx context.Context, id uuid.UUID) (string, error)
	Stats(ctx context.Context) (*StatsDTO, error)
}

// ServiceParams lists the collaborators the tech service needs.
type ServiceParams struct {
	Users    *users.Repository
	Orders   *orders.Repository
	Password config.PasswordConfig
}

type service struct {
	users    *users.Repository
	orders   *orders.Repository
	password config.PasswordConfig
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{
		users:    params.Users,
		orders:   params.Orders,
		password: params.Password,
		now:      time.Now,
	}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*UserListResult, error) {
	rows, total, err := s.users.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	dtos := make([]users.UserDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *users.FromModel(&rows[i]))
	}
	return &UserListResult{
		Usuarios: dtos,
		Meta:     pagination.BuildMeta(params, total),
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "usuario no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return users.FromModel(user), nil
}

func (s *service) Create(ctx context.Context, input CreateTechUserDTO) (*users.UserDTO, error) {
	input.Correo = strings.ToLower(strings.TrimSpace(input.Correo))
	input.Codigo = strings.ToUpper(strings.TrimSpace(input.Codigo))

	if err := validateTechCreate(input); err != nil {
		return nil, err
	}

	codigo := input.Codigo
	if codigo == "" {
		codigo = s.newCodigo("U")
	}
	rol := enums.UserRoleCliente
	if strings.HasPrefix(codigo, "T") {
		rol = enums.UserRoleAdmin
	}

	if _, err := s.users.FindByCorreo(ctx, input.Correo); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el correo ya está registrado")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check correo")
	}
	if _, err := s.users.FindByCodigo(ctx, codigo); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el código ya está registrado")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check codigo")
	}

	hash, err := security.HashPassword(input.Contrasena, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Codigo:         codigo,
		Nombre:         strings.TrimSpace(input.Nombre),
		Apellido:       strings.TrimSpace(input.Apellido),
		Correo:         input.Correo,
		ContrasenaHash: hash,
		Telefono:       input.Telefono,
		Direccion:      input.Direccion,
		Rol:            rol,
		Activo:         input.Activo,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "el correo o código ya está registrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return users.FromModel(user), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateTechUserDTO) (*users.UserDTO, error) {
	if err := validateTechUpdate(input); err != nil {
		return nil, err
	}

	if input.Correo != nil {
		taken, err := s.users.CorreoTakenByOther(ctx, *input.Correo, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check correo")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "el correo ya está registrado")
		}
	}

	update := users.UpdateUserDTO{
		Nombre:    input.Nombre,
		Apellido:  input.Apellido,
		Correo:    input.Correo,
		Telefono:  input.Telefono,
		Direccion: input.Direccion,
		Rol:       input.Rol,
		Activo:    input.Activo,
	}
	if input.Contrasena != nil {
		hash, err := security.HashPassword(*input.Contrasena, s.password)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		update.ContrasenaHash = &hash
	}

	user, err := s.users.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "usuario no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}
	return users.FromModel(user), nil
}

// Delete removes the user and returns the display name for the response.
func (s *service) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "usuario no encontrado")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "usuario no encontrado")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	return fmt.Sprintf("%s %s", user.Nombre, user.Apellido), nil
}

func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := startOfDay.AddDate(0, 0, -6)

	stats := &StatsDTO{}
	var err error
	if stats.UsuariosTotal, err = s.users.CountAll(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users")
	}
	if stats.UsuariosHoy, err = s.users.CountCreatedSince(ctx, startOfDay); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users today")
	}
	if stats.UsuariosSemana, err = s.users.CountCreatedSince(ctx, startOfWeek); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users week")
	}
	if stats.ComprasTotal, err = s.orders.CountPurchases(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count purchases")
	}
	if stats.ComprasSemana, err = s.orders.CountPurchasesSince(ctx, startOfWeek); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count purchases week")
	}
	if stats.AlquileresTotal, err = s.orders.CountRentals(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count rentals")
	}
	if stats.AlquileresSemana, err = s.orders.CountRentalsSince(ctx, startOfWeek); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count rentals week")
	}
	return stats, nil
}

func (s *service) newCodigo(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:3]
	return fmt.Sprintf("%s%s%s", prefix, s.now().Format("20060102"), suffix)
}

func validateTechCreate(input CreateTechUserDTO) error {
	details := map[string]string{}
	if strings.TrimSpace(input.Nombre) == "" {
		details["nombre"] = "is required"
	}
	if strings.TrimSpace(input.Apellido) == "" {
		details["apellido"] = "is required"
	}
	if input.Correo == "" || !strings.Contains(input.Correo, "@") {
		details["correo"] = "must be a valid email"
	}
	if len(input.Contrasena) < 8 {
		details["contrasena"] = "must be at least 8 characters"
	}
	if input.Codigo != "" && !techCodigoPattern.MatchString(input.Codigo) {
		details["codigo"] = "must match U/T + fecha + sufijo"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

func validateTechUpdate(input UpdateTechUserDTO) error {
	details := map[string]string{}
	if input.Nombre != nil && strings.TrimSpace(*input.Nombre) == "" {
		details["nombre"] = "must not be empty"
	}
	if input.Apellido != nil && strings.TrimSpace(*input.Apellido) == "" {
		details["apellido"] = "must not be empty"
	}
	if input.Correo != nil && !strings.Contains(*input.Correo, "@") {
		details["correo"] = "must be a valid email"
	}
	if input.Contrasena != nil && len(*input.Contrasena) < 8 {
		details["contrasena"] = "must be at least 8 characters"
	}
	if input.Rol != nil && !input.Rol.IsValid() {
		details["rol"] = "must be cliente or admin"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}
