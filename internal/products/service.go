package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/lasgemelas/disfraces-backend/pkg/errors"
	"github.com/lasgemelas/disfraces-backend/pkg/pagination"
)

// Service exposes catalog reads and the admin listing CRUD.
type Service interface {
	ListCatalog(ctx context.Context, filter ListFilter, params pagination.Params) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, input CreateProductDTO) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductDTO) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) (string, error)
}

// ListResult pairs a catalog page with its pagination metadata.
type ListResult struct {
	Productos []ProductDTO    `json:"productos"`
	Meta      pagination.Meta `json:"meta"`
}

type service struct {
	repo *Repository
}

// NewService constructs a product service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListCatalog(ctx context.Context, filter ListFilter, params pagination.Params) (*ListResult, error) {
	// The storefront never shows listings with both availability flags off.
	filter.SoloDisponibles = true
	rows, total, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return &ListResult{
		Productos: FromModels(rows),
		Meta:      pagination.BuildMeta(params, total),
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "producto no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return FromModel(product), nil
}

func (s *service) Create(ctx context.Context, input CreateProductDTO) (*ProductDTO, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}
	input.Nombre = strings.TrimSpace(input.Nombre)
	input.Categoria = strings.TrimSpace(input.Categoria)

	product, err := s.repo.Create(ctx, input.ToModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductDTO) (*ProductDTO, error) {
	if err := validateUpdate(input); err != nil {
		return nil, err
	}
	product, err := s.repo.Update(ctx, id, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "producto no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return FromModel(product), nil
}

// Delete removes the listing and returns its display name for the response.
func (s *service) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "producto no encontrado")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "producto no encontrado")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return product.Nombre, nil
}

func validateCreate(input CreateProductDTO) error {
	details := map[string]string{}
	if strings.TrimSpace(input.Nombre) == "" {
		details["nombre"] = "is required"
	}
	if strings.TrimSpace(input.Categoria) == "" {
		details["categoria"] = "is required"
	}
	if input.PrecioCompra.IsNegative() {
		details["precio_compra"] = "must not be negative"
	}
	if input.PrecioAlquiler.IsNegative() {
		details["precio_alquiler"] = "must not be negative"
	}
	if input.StockCompra < 0 {
		details["stock_compra"] = "must not be negative"
	}
	if input.StockAlquiler < 0 {
		details["stock_alquiler"] = "must not be negative"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

func validateUpdate(input UpdateProductDTO) error {
	details := map[string]string{}
	if input.Nombre != nil && strings.TrimSpace(*input.Nombre) == "" {
		details["nombre"] = "must not be empty"
	}
	if input.Categoria != nil && strings.TrimSpace(*input.Categoria) == "" {
		details["categoria"] = "must not be empty"
	}
	if input.PrecioCompra != nil && input.PrecioCompra.IsNegative() {
		details["precio_compra"] = "must not be negative"
	}
	if input.PrecioAlquiler != nil && input.PrecioAlquiler.IsNegative() {
		details["precio_alquiler"] = "must not be negative"
	}
	if input.StockCompra != nil && *input.StockCompra < 0 {
		details["stock_compra"] = "must not be negative"
	}
	if input.StockAlquiler != nil && *input.StockAlquiler < 0 {
		details["stock_alquiler"] = "must not be negative"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}
