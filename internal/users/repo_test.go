package users

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lasgemelas/disfraces-backend/pkg/db"
	"github.com/lasgemelas/disfraces-backend/pkg/db/models"
	"github.com/lasgemelas/disfraces-backend/pkg/enums"
	"github.com/lasgemelas/disfraces-backend/pkg/pagination"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func mustCreate(t *testing.T, repo *Repository, codigo, correo string) *models.User {
	t.Helper()
	user, err := repo.Create(context.Background(), CreateUserDTO{
		Codigo:         codigo,
		Nombre:         "Nora",
		Apellido:       "Prueba",
		Correo:         correo,
		ContrasenaHash: "hash",
		Rol:            enums.UserRoleCliente,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestRepositoryCreateAndFinders(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	created := mustCreate(t, repo, "U20240101AAA", "nora@example.com")
	if created.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
	if !created.Activo {
		t.Fatal("expected activo default true")
	}

	byCorreo, err := repo.FindByCorreo(ctx, "NORA@example.com")
	if err != nil {
		t.Fatalf("find by correo failed: %v", err)
	}
	if byCorreo.ID != created.ID {
		t.Fatal("correo lookup returned wrong user")
	}

	byCodigo, err := repo.FindByCodigo(ctx, "U20240101AAA")
	if err != nil {
		t.Fatalf("find by codigo failed: %v", err)
	}
	if byCodigo.ID != created.ID {
		t.Fatal("codigo lookup returned wrong user")
	}

	if _, err := repo.FindByCodigo(ctx, "U20990101ZZZ"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestRepositoryCreateDuplicateHitsUniqueIndex(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	mustCreate(t, repo, "U20240101AAA", "nora@example.com")

	_, err := repo.Create(ctx, CreateUserDTO{
		Codigo:         "U20240101BBB",
		Nombre:         "Nora",
		Apellido:       "Prueba",
		Correo:         "nora@example.com",
		ContrasenaHash: "hash",
		Rol:            enums.UserRoleCliente,
	})
	if err == nil {
		t.Fatal("expected duplicate correo insert to fail")
	}
	if !db.IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}

	_, err = repo.Create(ctx, CreateUserDTO{
		Codigo:         "U20240101AAA",
		Nombre:         "Nora",
		Apellido:       "Prueba",
		Correo:         "otra@example.com",
		ContrasenaHash: "hash",
		Rol:            enums.UserRoleCliente,
	})
	if !db.IsUniqueViolation(err) {
		t.Fatalf("expected unique violation on codigo, got %v", err)
	}
}

func TestRepositoryUpdateLastLogin(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	created := mustCreate(t, repo, "U20240101AAA", "nora@example.com")
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.UpdateLastLogin(ctx, created.ID, at); err != nil {
		t.Fatalf("update last login failed: %v", err)
	}

	reloaded, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.UltimoAcceso == nil || !reloaded.UltimoAcceso.Equal(at) {
		t.Fatalf("expected ultimo_acceso %v, got %v", at, reloaded.UltimoAcceso)
	}
}

func TestRepositoryUpdateLowercasesCorreo(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	created := mustCreate(t, repo, "U20240101AAA", "nora@example.com")

	correo := "Nueva@Example.COM"
	rol := enums.UserRoleAdmin
	updated, err := repo.Update(ctx, created.ID, UpdateUserDTO{Correo: &correo, Rol: &rol})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Correo != "nueva@example.com" {
		t.Fatalf("expected lowercased correo, got %q", updated.Correo)
	}
	if updated.Rol != enums.UserRoleAdmin {
		t.Fatalf("expected rol admin, got %q", updated.Rol)
	}

	if _, err := repo.Update(ctx, uuid.New(), UpdateUserDTO{Correo: &correo}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for missing user, got %v", err)
	}
}

func TestRepositoryCorreoTakenByOther(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	first := mustCreate(t, repo, "U20240101AAA", "primera@example.com")
	second := mustCreate(t, repo, "U20240101BBB", "segunda@example.com")

	taken, err := repo.CorreoTakenByOther(ctx, "primera@example.com", second.ID)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !taken {
		t.Fatal("expected correo reported taken")
	}

	taken, err = repo.CorreoTakenByOther(ctx, "primera@example.com", first.ID)
	if err != nil {
		t.Fatalf("self check failed: %v", err)
	}
	if taken {
		t.Fatal("own correo must not count as taken")
	}
}

func TestRepositoryListSearch(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	mustCreate(t, repo, "U20240101AAA", "ana@example.com")
	mustCreate(t, repo, "U20240101BBB", "benito@example.com")

	rows, total, err := repo.List(ctx, pagination.Params{Search: "benito"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || rows[0].Correo != "benito@example.com" {
		t.Fatalf("expected benito, got total=%d", total)
	}

	rows, total, err = repo.List(ctx, pagination.Params{Search: "U20240101"})
	if err != nil {
		t.Fatalf("codigo search failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected codigo prefix to match both, got %d", total)
	}
	if len(rows) != 2 {
		t.Fatalf("expected both rows, got %d", len(rows))
	}
}

func TestRepositoryDeleteAndCounts(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	created := mustCreate(t, repo, "U20240101AAA", "nora@example.com")

	count, err := repo.CountAll(ctx)
	if err != nil || count != 1 {
		t.Fatalf("expected 1 user, got %d err=%v", count, err)
	}
	recent, err := repo.CountCreatedSince(ctx, time.Now().Add(-time.Hour))
	if err != nil || recent != 1 {
		t.Fatalf("expected 1 recent user, got %d err=%v", recent, err)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := repo.Delete(ctx, created.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on second delete, got %v", err)
	}
}
