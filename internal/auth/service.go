package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lasgemelas/disfraces-backend/internal/users"
	pkgauth "github.com/lasgemelas/disfraces-backend/pkg/auth"
	"github.com/lasgemelas/disfraces-backend/pkg/auth/session"
	"github.com/lasgemelas/disfraces-backend/pkg/config"
	"github.com/lasgemelas/disfraces-backend/pkg/db"
	"github.com/lasgemelas/disfraces-backend/pkg/db/models"
	"github.com/lasgemelas/disfraces-backend/pkg/enums"
	pkgerrors "github.com/lasgemelas/disfraces-backend/pkg/errors"
	"github.com/lasgemelas/disfraces-backend/pkg/security"
)

// Cliente codes are U + fecha (yyyymmdd) + 3 uppercase alphanumerics.
var clienteCodigoPattern = regexp.MustCompile(`^U\d{8}[A-Z0-9]{3}$`)

const invalidCredentialsMessage = "credenciales inválidas"

// Service covers registration, login, and the refresh-token lifecycle.
type Service interface {
	Register(ctx context.Context, input RegisterDTO) (*RegisterResult, error)
	Login(ctx context.Context, input LoginDTO) (*LoginResult, error)
	Refresh(ctx context.Context, input RefreshDTO) (*RefreshResult, error)
	Logout(ctx context.Context, accessID string) error
	Perfil(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
}

type userStore interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByCorreo(ctx context.Context, correo string) (*models.User, error)
	FindByCodigo(ctx context.Context, codigo string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams lists the collaborators the auth service needs.
type ServiceParams struct {
	Users    userStore
	Sessions sessionManager
	JWT      config.JWTConfig
	Password config.PasswordConfig
}

type service struct {
	users    userStore
	sessions sessionManager
	jwt      config.JWTConfig
	password config.PasswordConfig
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user store required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if params.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt config required")
	}
	return &service{
		users:    params.Users,
		sessions: params.Sessions,
		jwt:      params.JWT,
		password: params.Password,
		now:      time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterDTO) (*RegisterResult, error) {
	input.Correo = strings.ToLower(strings.TrimSpace(input.Correo))
	input.Codigo = strings.ToUpper(strings.TrimSpace(input.Codigo))

	if err := validateRegister(input); err != nil {
		return nil, err
	}

	codigo := input.Codigo
	if codigo == "" {
		codigo = s.newClienteCodigo()
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
		Rol:            enums.UserRoleCliente,
	})
	if err != nil {
		// The unique indexes still win races the pre-checks missed.
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "el correo o código ya está registrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return &RegisterResult{UserID: user.ID, Codigo: user.Codigo}, nil
}

func (s *service) Login(ctx context.Context, input LoginDTO) (*LoginResult, error) {
	identifier := input.Identifier()
	if identifier == "" || input.Contrasena == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.resolveUser(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	match, err := security.VerifyPassword(input.Contrasena, user.ContrasenaHash)
	if err != nil || !match {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if !user.Activo {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cuenta desactivada")
	}

	accessID := session.NewAccessID()
	token, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Codigo: user.Codigo,
		Rol:    user.Rol,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}
	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record login")
	}

	return &LoginResult{
		Token:        token,
		RefreshToken: refreshToken,
		Usuario:      users.FromModel(user),
	}, nil
}

// resolveUser routes the identifier: anything with '@' is a correo, anything
// matching the codigo shape is a codigo, everything else tries both columns.
func (s *service) resolveUser(ctx context.Context, identifier string) (*models.User, error) {
	if strings.Contains(identifier, "@") {
		return s.users.FindByCorreo(ctx, identifier)
	}
	user, err := s.users.FindByCodigo(ctx, strings.ToUpper(identifier))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.users.FindByCorreo(ctx, identifier)
}

func (s *service) Refresh(ctx context.Context, input RefreshDTO) (*RefreshResult, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwt, input.Token)
	if err != nil || claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token de actualización inválido")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token de actualización inválido")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if !user.Activo {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cuenta desactivada")
	}

	newAccessID, newRefreshToken, err := s.sessions.Rotate(ctx, claims.ID, input.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token de actualización inválido")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	token, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Codigo: user.Codigo,
		Rol:    user.Rol,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	return &RefreshResult{Token: token, RefreshToken: newRefreshToken}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sesión inválida")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) Perfil(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "usuario no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return users.FromModel(user), nil
}

func (s *service) newClienteCodigo() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:3]
	return fmt.Sprintf("U%s%s", s.now().Format("20060102"), suffix)
}

func validateRegister(input RegisterDTO) error {
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
	if input.Codigo != "" && !clienteCodigoPattern.MatchString(input.Codigo) {
		details["codigo"] = "must match U + fecha + sufijo"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}
