package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lasgemelas/disfraces-backend/internal/orders"
	"github.com/lasgemelas/disfraces-backend/internal/products"
	"github.com/lasgemelas/disfraces-backend/internal/users"
	"github.com/lasgemelas/disfraces-backend/pkg/db/models"
	"github.com/lasgemelas/disfraces-backend/pkg/enums"
	pkgerrors "github.com/lasgemelas/disfraces-backend/pkg/errors"
)

// Service processes a submitted cart in a single transaction. Either every
// line lands or none of them do.
type Service interface {
	ProcesarCarrito(ctx context.Context, input CartDTO) (*CartResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams lists the collaborators the checkout service needs.
type ServiceParams struct {
	Tx       txRunner
	Users    *users.Repository
	Products *products.Repository
	Orders   *orders.Repository
}

type service struct {
	tx       txRunner
	users    *users.Repository
	products *products.Repository
	orders   *orders.Repository
}

func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{
		tx:       params.Tx,
		users:    params.Users,
		products: params.Products,
		orders:   params.Orders,
	}, nil
}

func (s *service) ProcesarCarrito(ctx context.Context, input CartDTO) (*CartResult, error) {
	if err := validateCart(input); err != nil {
		return nil, err
	}

	var result *CartResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.users.WithTx(tx)
		productRepo := s.products.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		user, err := userRepo.FindByCodigo(ctx, strings.TrimSpace(input.UsuarioCodigo))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "usuario no encontrado")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
		}

		built, err := s.processLines(ctx, input, user, productRepo, orderRepo)
		if err != nil {
			return err
		}
		result = built
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) processLines(
	ctx context.Context,
	input CartDTO,
	user *models.User,
	productRepo *products.Repository,
	orderRepo *orders.Repository,
) (*CartResult, error) {
	result := &CartResult{
		ComprasProcesadas:    make([]ProcessedPurchase, 0, len(input.Compras)),
		AlquileresProcesados: make([]ProcessedRental, 0, len(input.Alquileres)),
		TotalCompras:         decimal.Zero,
		TotalAlquileres:      decimal.Zero,
		TotalGeneral:         decimal.Zero,
	}

	for _, line := range input.Compras {
		product, err := loadCartProduct(ctx, productRepo, line.ProductoID)
		if err != nil {
			return nil, err
		}
		if !product.DisponibleCompra {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("producto no disponible para compra: %s", product.Nombre))
		}
		if err := productRepo.DecrementStockCompra(ctx, product.ID, line.Cantidad); err != nil {
			if errors.Is(err, products.ErrInsufficientStock) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("stock insuficiente para %s", product.Nombre))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement purchase stock")
		}

		total := product.PrecioCompra.Mul(decimal.NewFromInt(int64(line.Cantidad)))
		row := &models.Purchase{
			UsuarioID:      user.ID,
			ProductoID:     product.ID,
			Cantidad:       line.Cantidad,
			PrecioUnitario: product.PrecioCompra,
			PrecioTotal:    total,
			Estado:         enums.PurchaseStatusPendiente,
			MetodoPago:     input.MetodoPago,
			DireccionEnvio: input.DireccionEnvio,
			Notas:          mergeNotas(line.Notas, input.NotasGenerales),
		}
		if err := orderRepo.CreatePurchase(ctx, row); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create purchase")
		}

		result.ComprasProcesadas = append(result.ComprasProcesadas, ProcessedPurchase{
			CompraID:       row.ID,
			Producto:       product.Nombre,
			Cantidad:       line.Cantidad,
			PrecioUnitario: product.PrecioCompra,
			PrecioTotal:    total,
		})
		result.TotalCompras = result.TotalCompras.Add(total)
	}

	for _, line := range input.Alquileres {
		product, err := loadCartProduct(ctx, productRepo, line.ProductoID)
		if err != nil {
			return nil, err
		}
		if !product.DisponibleAlquiler {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("producto no disponible para alquiler: %s", product.Nombre))
		}
		dias := rentalDays(line.FechaInicio, line.FechaFin)
		if dias <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "fechas no válidas").
				WithDetails(map[string]string{"producto": product.Nombre})
		}
		if err := productRepo.DecrementStockAlquiler(ctx, product.ID, line.Cantidad); err != nil {
			if errors.Is(err, products.ErrInsufficientStock) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("stock insuficiente para %s", product.Nombre))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement rental stock")
		}

		total := product.PrecioAlquiler.
			Mul(decimal.NewFromInt(int64(line.Cantidad))).
			Mul(decimal.NewFromInt(int64(dias)))
		deposito := decimal.Zero
		if line.Deposito != nil {
			deposito = *line.Deposito
		}
		row := &models.Rental{
			UsuarioID:        user.ID,
			ProductoID:       product.ID,
			Cantidad:         line.Cantidad,
			PrecioUnitario:   product.PrecioAlquiler,
			PrecioTotal:      total,
			FechaInicio:      line.FechaInicio,
			FechaFin:         line.FechaFin,
			DiasAlquiler:     dias,
			Estado:           enums.RentalStatusReservado,
			MetodoPago:       input.MetodoPago,
			DireccionEntrega: input.DireccionEnvio,
			Deposito:         deposito,
			Notas:            mergeNotas(line.Notas, input.NotasGenerales),
		}
		if err := orderRepo.CreateRental(ctx, row); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create rental")
		}

		result.AlquileresProcesados = append(result.AlquileresProcesados, ProcessedRental{
			AlquilerID:     row.ID,
			Producto:       product.Nombre,
			Cantidad:       line.Cantidad,
			PrecioUnitario: product.PrecioAlquiler,
			FechaInicio:    line.FechaInicio,
			FechaFin:       line.FechaFin,
			DiasAlquiler:   dias,
			PrecioTotal:    total,
		})
		result.TotalAlquileres = result.TotalAlquileres.Add(total)
	}

	result.TotalGeneral = result.TotalCompras.Add(result.TotalAlquileres)
	return result, nil
}

func loadCartProduct(ctx context.Context, repo *products.Repository, id uuid.UUID) (*models.Product, error) {
	product, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "producto no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

func validateCart(input CartDTO) error {
	details := map[string]string{}
	if strings.TrimSpace(input.UsuarioCodigo) == "" {
		details["usuario_codigo"] = "is required"
	}
	if len(input.Compras) == 0 && len(input.Alquileres) == 0 {
		details["carrito"] = "el carrito está vacío"
	}
	if !input.MetodoPago.IsValid() {
		details["metodo_pago"] = "must be one of efectivo, tarjeta, transferencia"
	}
	if strings.TrimSpace(input.DireccionEnvio) == "" {
		details["direccion_envio"] = "is required"
	}
	for i, line := range input.Compras {
		if line.Cantidad <= 0 {
			details[fmt.Sprintf("compras[%d].cantidad", i)] = "must be greater than zero"
		}
	}
	for i, line := range input.Alquileres {
		if line.Cantidad <= 0 {
			details[fmt.Sprintf("alquileres[%d].cantidad", i)] = "must be greater than zero"
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

// rentalDays counts billable calendar days, rounding partial days up. The
// range is half-open: inicio 1st, fin 4th bills 3 days.
func rentalDays(inicio, fin time.Time) int {
	if !fin.After(inicio) {
		return 0
	}
	hours := fin.Sub(inicio).Hours()
	return int(math.Ceil(hours / 24))
}

func mergeNotas(line, general *string) *string {
	switch {
	case line != nil && general != nil:
		merged := fmt.Sprintf("%s | %s", *line, *general)
		return &merged
	case line != nil:
		return line
	default:
		return general
	}
}
