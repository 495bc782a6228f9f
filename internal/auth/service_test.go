package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lasgemelas/disfraces-backend/internal/users"
	pkgauth "github.com/lasgemelas/disfraces-backend/pkg/auth"
	"github.com/lasgemelas/disfraces-backend/pkg/auth/session"
	"github.com/lasgemelas/disfraces-backend/pkg/config"
	"github.com/lasgemelas/disfraces-backend/pkg/db/models"
	"github.com/lasgemelas/disfraces-backend/pkg/enums"
	pkgerrors "github.com/lasgemelas/disfraces-backend/pkg/errors"
	"github.com/lasgemelas/disfraces-backend/pkg/security"
)

type stubUserStore struct {
	byCorreo   map[string]*models.User
	byCodigo   map[string]*models.User
	byID       map[uuid.UUID]*models.User
	lastLogins map[uuid.UUID]time.Time
	created    []*models.User
	createErr  error
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{
		byCorreo:   map[string]*models.User{},
		byCodigo:   map[string]*models.User{},
		byID:       map[uuid.UUID]*models.User{},
		lastLogins: map[uuid.UUID]time.Time{},
	}
}

func (s *stubUserStore) add(user *models.User) {
	s.byCorreo[user.Correo] = user
	s.byCodigo[user.Codigo] = user
	s.byID[user.ID] = user
}

func (s *stubUserStore) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user := dto.ToModel()
	user.ID = uuid.New()
	s.add(user)
	s.created = append(s.created, user)
	return user, nil
}

func (s *stubUserStore) FindByCorreo(_ context.Context, correo string) (*models.User, error) {
	if user, ok := s.byCorreo[strings.ToLower(correo)]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserStore) FindByCodigo(_ context.Context, codigo string) (*models.User, error) {
	if user, ok := s.byCodigo[codigo]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserStore) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogins[id] = at
	return nil
}

type stubSessions struct {
	tokens  map[string]string
	revoked []string
}

func newStubSessions() *stubSessions {
	return &stubSessions{tokens: map[string]string{}}
}

func (s *stubSessions) Generate(_ context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	s.tokens[accessID] = token
	return token, nil
}

func (s *stubSessions) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.tokens, oldAccessID)
	newID := session.NewAccessID()
	newToken := "refresh-" + newID
	s.tokens[newID] = newToken
	return newID, newToken, nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	delete(s.tokens, accessID)
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "disfraces-backend-test",
		ExpirationMinutes: 60,
	}
}

func newAuthService(t *testing.T, store *stubUserStore, sessions *stubSessions) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Users:    store,
		Sessions: sessions,
		JWT:      testJWTConfig(),
		Password: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func seedUser(t *testing.T, store *stubUserStore, password string) *models.User {
	t.Helper()
	user := &models.User{
		ID:             uuid.New(),
		Codigo:         "U20240101ABC",
		Nombre:         "Lucía",
		Apellido:       "Gemela",
		Correo:         "lucia@example.com",
		ContrasenaHash: mustHash(t, password),
		Rol:            enums.UserRoleCliente,
		Activo:         true,
	}
	store.add(user)
	return user
}

func TestRegisterAssignsCodigoAndHashes(t *testing.T) {
	store := newStubUserStore()
	svc := newAuthService(t, store, newStubSessions())

	result, err := svc.Register(context.Background(), RegisterDTO{
		Nombre:     "Lucía",
		Apellido:   "Gemela",
		Correo:     "Lucia@Example.com",
		Contrasena: "super-secreta",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !strings.HasPrefix(result.Codigo, "U") {
		t.Fatalf("expected cliente codigo, got %q", result.Codigo)
	}
	if !clienteCodigoPattern.MatchString(result.Codigo) {
		t.Fatalf("generated codigo %q does not match the cliente shape", result.Codigo)
	}

	created := store.created[0]
	if created.Correo != "lucia@example.com" {
		t.Fatalf("expected lowercased correo, got %q", created.Correo)
	}
	if created.Rol != enums.UserRoleCliente {
		t.Fatalf("self-registration must yield cliente, got %q", created.Rol)
	}
	if created.ContrasenaHash == "super-secreta" || created.ContrasenaHash == "" {
		t.Fatal("password must be stored hashed")
	}
	match, err := security.VerifyPassword("super-secreta", created.ContrasenaHash)
	if err != nil || !match {
		t.Fatalf("stored hash does not verify: match=%v err=%v", match, err)
	}
}

func TestRegisterRejectsDuplicateCorreo(t *testing.T) {
	store := newStubUserStore()
	seedUser(t, store, "super-secreta")
	svc := newAuthService(t, store, newStubSessions())

	_, err := svc.Register(context.Background(), RegisterDTO{
		Nombre:     "Otra",
		Apellido:   "Persona",
		Correo:     "lucia@example.com",
		Contrasena: "otra-clave-123",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterMapsUniqueRaceToValidation(t *testing.T) {
	store := newStubUserStore()
	// The pre-checks see nothing, but a concurrent insert wins the race and
	// the unique index rejects ours.
	store.createErr = errors.New("UNIQUE constraint failed: usuarios.correo")
	svc := newAuthService(t, store, newStubSessions())

	_, err := svc.Register(context.Background(), RegisterDTO{
		Nombre:     "Carrera",
		Apellido:   "Perdida",
		Correo:     "carrera@example.com",
		Contrasena: "clave-segura-1",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if appErr.Message() != "el correo o código ya está registrado" {
		t.Fatalf("unexpected message: %q", appErr.Message())
	}

	store.createErr = errors.New("connection refused")
	_, err = svc.Register(context.Background(), RegisterDTO{
		Nombre:     "Carrera",
		Apellido:   "Perdida",
		Correo:     "carrera@example.com",
		Contrasena: "clave-segura-1",
	})
	appErr = pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error for unrelated failure, got %v", err)
	}
}

func TestRegisterRejectsAdminShapedCodigo(t *testing.T) {
	store := newStubUserStore()
	svc := newAuthService(t, store, newStubSessions())

	_, err := svc.Register(context.Background(), RegisterDTO{
		Codigo:     "T20240101ABC",
		Nombre:     "Intrusa",
		Apellido:   "Admin",
		Correo:     "intrusa@example.com",
		Contrasena: "clave-segura-1",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for T codigo, got %v", err)
	}
}

func TestLoginByCorreoAndCodigo(t *testing.T) {
	store := newStubUserStore()
	user := seedUser(t, store, "super-secreta")
	svc := newAuthService(t, store, newStubSessions())
	ctx := context.Background()

	for _, identifier := range []string{"lucia@example.com", "U20240101ABC", "u20240101abc"} {
		result, err := svc.Login(ctx, LoginDTO{Usuario: identifier, Contrasena: "super-secreta"})
		if err != nil {
			t.Fatalf("login with %q failed: %v", identifier, err)
		}
		if result.Token == "" || result.RefreshToken == "" {
			t.Fatalf("expected token pair for %q", identifier)
		}
		if result.Usuario == nil || result.Usuario.ID != user.ID {
			t.Fatalf("unexpected usuario payload for %q", identifier)
		}

		claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.Token)
		if err != nil {
			t.Fatalf("minted token does not parse: %v", err)
		}
		if claims.UserID != user.ID || claims.Codigo != user.Codigo {
			t.Fatalf("unexpected claims: %+v", claims)
		}
	}

	if _, ok := store.lastLogins[user.ID]; !ok {
		t.Fatal("expected ultimo_acceso recorded")
	}
}

func TestLoginFailuresAreUndifferentiated(t *testing.T) {
	store := newStubUserStore()
	seedUser(t, store, "super-secreta")
	svc := newAuthService(t, store, newStubSessions())
	ctx := context.Background()

	cases := []LoginDTO{
		{Correo: "nadie@example.com", Contrasena: "super-secreta"},
		{Correo: "lucia@example.com", Contrasena: "equivocada"},
		{Usuario: "U20990101XYZ", Contrasena: "super-secreta"},
	}
	for _, input := range cases {
		_, err := svc.Login(ctx, input)
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized for %+v, got %v", input, err)
		}
		if appErr.Message() != invalidCredentialsMessage {
			t.Fatalf("message must not leak which part failed, got %q", appErr.Message())
		}
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	store := newStubUserStore()
	user := seedUser(t, store, "super-secreta")
	user.Activo = false
	svc := newAuthService(t, store, newStubSessions())

	_, err := svc.Login(context.Background(), LoginDTO{
		Correo:     "lucia@example.com",
		Contrasena: "super-secreta",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for inactive user, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	store := newStubUserStore()
	seedUser(t, store, "super-secreta")
	sessions := newStubSessions()
	svc := newAuthService(t, store, sessions)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginDTO{Correo: "lucia@example.com", Contrasena: "super-secreta"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, RefreshDTO{Token: login.Token, RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if refreshed.Token == login.Token {
		t.Fatal("expected a newly minted access token")
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatal("expected a rotated refresh token")
	}

	// The old pair is dead after rotation.
	_, err = svc.Refresh(ctx, RefreshDTO{Token: login.Token, RefreshToken: login.RefreshToken})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized replaying old pair, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	store := newStubUserStore()
	seedUser(t, store, "super-secreta")
	sessions := newStubSessions()
	svc := newAuthService(t, store, sessions)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginDTO{Correo: "lucia@example.com", Contrasena: "super-secreta"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), login.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	if err := svc.Logout(ctx, claims.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != claims.ID {
		t.Fatalf("expected session %q revoked, got %v", claims.ID, sessions.revoked)
	}
}

func TestPerfil(t *testing.T) {
	store := newStubUserStore()
	user := seedUser(t, store, "super-secreta")
	svc := newAuthService(t, store, newStubSessions())

	perfil, err := svc.Perfil(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("perfil failed: %v", err)
	}
	if perfil.Correo != user.Correo || perfil.Codigo != user.Codigo {
		t.Fatalf("unexpected perfil: %+v", perfil)
	}

	_, err = svc.Perfil(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
