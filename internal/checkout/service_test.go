package checkout

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lasgemelas/disfraces-backend/internal/orders"
	"github.com/lasgemelas/disfraces-backend/internal/products"
	"github.com/lasgemelas/disfraces-backend/internal/users"
	"github.com/lasgemelas/disfraces-backend/pkg/db"
	"github.com/lasgemelas/disfraces-backend/pkg/db/models"
	"github.com/lasgemelas/disfraces-backend/pkg/enums"
	pkgerrors "github.com/lasgemelas/disfraces-backend/pkg/errors"
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
	if err := conn.AutoMigrate(&models.User{}, &models.Product{}, &models.Purchase{}, &models.Rental{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	conn := openTestDB(t)
	svc, err := NewService(ServiceParams{
		Tx:       db.NewWithConn(conn),
		Users:    users.NewRepository(conn),
		Products: products.NewRepository(conn),
		Orders:   orders.NewRepository(conn),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func mustCreateClient(t *testing.T, tx *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Codigo:         fmt.Sprintf("U2024%s", uuid.NewString()[:8]),
		Nombre:         "Carla",
		Apellido:       "Cliente",
		Correo:         fmt.Sprintf("%s@example.com", uuid.NewString()),
		ContrasenaHash: "hash",
		Rol:            enums.UserRoleCliente,
		Activo:         true,
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func mustCreateListing(t *testing.T, tx *gorm.DB, mutate func(*models.Product)) *models.Product {
	t.Helper()
	product := &models.Product{
		Nombre:             "Disfraz de Catrina",
		PrecioCompra:       decimal.NewFromFloat(50.00),
		PrecioAlquiler:     decimal.NewFromFloat(20.00),
		Categoria:          "tradicional",
		DisponibleCompra:   true,
		DisponibleAlquiler: true,
		StockCompra:        5,
		StockAlquiler:      5,
	}
	if mutate != nil {
		mutate(product)
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func stockOf(t *testing.T, conn *gorm.DB, id uuid.UUID) (int, int) {
	t.Helper()
	var product models.Product
	if err := conn.First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	return product.StockCompra, product.StockAlquiler
}

func TestProcesarCarritoPurchasesAndRentals(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := mustCreateClient(t, conn)
	product := mustCreateListing(t, conn, nil)

	inicio := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fin := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)

	result, err := svc.ProcesarCarrito(ctx, CartDTO{
		UsuarioCodigo: user.Codigo,
		Compras: []PurchaseLineDTO{
			{ProductoID: product.ID, Cantidad: 2},
		},
		Alquileres: []RentalLineDTO{
			{ProductoID: product.ID, Cantidad: 2, FechaInicio: inicio, FechaFin: fin},
		},
		MetodoPago:     enums.PaymentMethodTarjeta,
		DireccionEnvio: "Calle Falsa 123",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if len(result.ComprasProcesadas) != 1 || len(result.AlquileresProcesados) != 1 {
		t.Fatalf("unexpected line counts: %+v", result)
	}
	if !result.TotalCompras.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected total_compras 100, got %s", result.TotalCompras)
	}
	rental := result.AlquileresProcesados[0]
	if rental.DiasAlquiler != 3 {
		t.Fatalf("expected 3 dias for 01..04, got %d", rental.DiasAlquiler)
	}
	if !rental.PrecioTotal.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected rental total 120 (20 x 2 x 3), got %s", rental.PrecioTotal)
	}
	if !result.TotalGeneral.Equal(decimal.NewFromInt(220)) {
		t.Fatalf("expected total_general 220, got %s", result.TotalGeneral)
	}

	compra, alquiler := stockOf(t, conn, product.ID)
	if compra != 3 || alquiler != 3 {
		t.Fatalf("expected stocks 3/3 after checkout, got %d/%d", compra, alquiler)
	}

	var persisted models.Purchase
	if err := conn.First(&persisted, "usuario_id = ?", user.ID).Error; err != nil {
		t.Fatalf("load purchase: %v", err)
	}
	if !persisted.PrecioUnitario.Equal(product.PrecioCompra) {
		t.Fatalf("expected snapshot price %s, got %s", product.PrecioCompra, persisted.PrecioUnitario)
	}
}

func TestProcesarCarritoSnapshotSurvivesPriceChange(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := mustCreateClient(t, conn)
	product := mustCreateListing(t, conn, nil)

	_, err := svc.ProcesarCarrito(ctx, CartDTO{
		UsuarioCodigo:  user.Codigo,
		Compras:        []PurchaseLineDTO{{ProductoID: product.ID, Cantidad: 1}},
		MetodoPago:     enums.PaymentMethodEfectivo,
		DireccionEnvio: "Calle Falsa 123",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	err = conn.Model(&models.Product{}).
		Where("id = ?", product.ID).
		UpdateColumn("precio_compra", decimal.NewFromInt(999)).Error
	if err != nil {
		t.Fatalf("reprice product: %v", err)
	}

	var persisted models.Purchase
	if err := conn.First(&persisted, "usuario_id = ?", user.ID).Error; err != nil {
		t.Fatalf("load purchase: %v", err)
	}
	if !persisted.PrecioUnitario.Equal(decimal.NewFromFloat(50.00)) {
		t.Fatalf("snapshot price must not follow the catalog, got %s", persisted.PrecioUnitario)
	}
}

func TestProcesarCarritoRollsBackOnBadLine(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := mustCreateClient(t, conn)
	good := mustCreateListing(t, conn, nil)
	scarce := mustCreateListing(t, conn, func(p *models.Product) {
		p.Nombre = "Disfraz Agotado"
		p.StockCompra = 1
	})

	_, err := svc.ProcesarCarrito(ctx, CartDTO{
		UsuarioCodigo: user.Codigo,
		Compras: []PurchaseLineDTO{
			{ProductoID: good.ID, Cantidad: 2},
			{ProductoID: scarce.ID, Cantidad: 3},
		},
		MetodoPago:     enums.PaymentMethodEfectivo,
		DireccionEnvio: "Calle Falsa 123",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if appErr.Message() != "stock insuficiente para Disfraz Agotado" {
		t.Fatalf("error must name the offending product, got %q", appErr.Message())
	}

	compra, _ := stockOf(t, conn, good.ID)
	if compra != 5 {
		t.Fatalf("expected first line rolled back, stock %d", compra)
	}
	var count int64
	if err := conn.Model(&models.Purchase{}).Count(&count).Error; err != nil {
		t.Fatalf("count purchases: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no purchases persisted, got %d", count)
	}
}

func TestProcesarCarritoSecondCartExhaustsStock(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := mustCreateClient(t, conn)
	product := mustCreateListing(t, conn, func(p *models.Product) {
		p.StockCompra = 3
	})

	cart := CartDTO{
		UsuarioCodigo:  user.Codigo,
		Compras:        []PurchaseLineDTO{{ProductoID: product.ID, Cantidad: 2}},
		MetodoPago:     enums.PaymentMethodEfectivo,
		DireccionEnvio: "Calle Falsa 123",
	}

	if _, err := svc.ProcesarCarrito(ctx, cart); err != nil {
		t.Fatalf("first cart failed: %v", err)
	}
	_, err := svc.ProcesarCarrito(ctx, cart)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected second cart to fail on stock, got %v", err)
	}
	compra, _ := stockOf(t, conn, product.ID)
	if compra != 1 {
		t.Fatalf("expected remaining stock 1, got %d", compra)
	}
}

func TestProcesarCarritoRejectsBadDates(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := mustCreateClient(t, conn)
	product := mustCreateListing(t, conn, nil)

	inicio := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	_, err := svc.ProcesarCarrito(ctx, CartDTO{
		UsuarioCodigo: user.Codigo,
		Alquileres: []RentalLineDTO{
			{ProductoID: product.ID, Cantidad: 1, FechaInicio: inicio, FechaFin: inicio},
		},
		MetodoPago:     enums.PaymentMethodEfectivo,
		DireccionEnvio: "Calle Falsa 123",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if appErr.Message() != "fechas no válidas" {
		t.Fatalf("unexpected message: %q", appErr.Message())
	}
	_, alquiler := stockOf(t, conn, product.ID)
	if alquiler != 5 {
		t.Fatalf("expected rental stock untouched, got %d", alquiler)
	}
}

func TestProcesarCarritoRejectsEmptyCart(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ProcesarCarrito(context.Background(), CartDTO{
		UsuarioCodigo:  "U20240101ABC",
		MetodoPago:     enums.PaymentMethodEfectivo,
		DireccionEnvio: "Calle Falsa 123",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := appErr.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected details map, got %T", appErr.Details())
	}
	if _, found := details["carrito"]; !found {
		t.Fatalf("expected empty-cart detail, got %v", details)
	}
}

func TestProcesarCarritoUnknownUser(t *testing.T) {
	svc, conn := newTestService(t)
	product := mustCreateListing(t, conn, nil)

	_, err := svc.ProcesarCarrito(context.Background(), CartDTO{
		UsuarioCodigo:  "U20990101ZZZ",
		Compras:        []PurchaseLineDTO{{ProductoID: product.ID, Cantidad: 1}},
		MetodoPago:     enums.PaymentMethodEfectivo,
		DireccionEnvio: "Calle Falsa 123",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProcesarCarritoUnavailableProduct(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	user := mustCreateClient(t, conn)
	hidden := mustCreateListing(t, conn, func(p *models.Product) {
		p.Nombre = "Disfraz Retirado"
	})
	// Default-tagged bools are skipped on insert when false, so flip it after.
	err := conn.Model(&models.Product{}).
		Where("id = ?", hidden.ID).
		UpdateColumn("disponible_compra", false).Error
	if err != nil {
		t.Fatalf("hide product: %v", err)
	}

	_, err = svc.ProcesarCarrito(ctx, CartDTO{
		UsuarioCodigo:  user.Codigo,
		Compras:        []PurchaseLineDTO{{ProductoID: hidden.ID, Cantidad: 1}},
		MetodoPago:     enums.PaymentMethodEfectivo,
		DireccionEnvio: "Calle Falsa 123",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unavailable product, got %v", err)
	}
	if appErr.Message() != "producto no disponible para compra: Disfraz Retirado" {
		t.Fatalf("unexpected message: %q", appErr.Message())
	}
}

func TestRentalDays(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		fin  time.Time
		want int
	}{
		{"three full days", base.AddDate(0, 0, 3), 3},
		{"partial day rounds up", base.Add(30 * time.Hour), 2},
		{"single day", base.AddDate(0, 0, 1), 1},
		{"same instant", base, 0},
		{"inverted range", base.AddDate(0, 0, -1), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := rentalDays(base, tc.fin); got != tc.want {
				t.Fatalf("expected %d days, got %d", tc.want, got)
			}
		})
	}
}
