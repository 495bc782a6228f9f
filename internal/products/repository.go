package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lasgemelas/disfraces-backend/pkg/db/models"
	"github.com/lasgemelas/disfraces-backend/pkg/pagination"
)

// ErrInsufficientStock is returned when a guarded decrement finds fewer units
// than requested. The caller decides how to surface it.
var ErrInsufficientStock = errors.New("insufficient stock")

// Repository wires together the product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new listing.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies the non-nil fields and returns the refreshed row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*models.Product, error) {
	updates := map[string]any{}
	if dto.Nombre != nil {
		updates["nombre"] = *dto.Nombre
	}
	if dto.Descripcion != nil {
		updates["descripcion"] = *dto.Descripcion
	}
	if dto.PrecioCompra != nil {
		updates["precio_compra"] = *dto.PrecioCompra
	}
	if dto.PrecioAlquiler != nil {
		updates["precio_alquiler"] = *dto.PrecioAlquiler
	}
	if dto.Categoria != nil {
		updates["categoria"] = *dto.Categoria
	}
	if dto.Talla != nil {
		updates["talla"] = *dto.Talla
	}
	if dto.Color != nil {
		updates["color"] = *dto.Color
	}
	if dto.DisponibleCompra != nil {
		updates["disponible_compra"] = *dto.DisponibleCompra
	}
	if dto.DisponibleAlquiler != nil {
		updates["disponible_alquiler"] = *dto.DisponibleAlquiler
	}
	if dto.StockCompra != nil {
		updates["stock_compra"] = *dto.StockCompra
	}
	if dto.StockAlquiler != nil {
		updates["stock_alquiler"] = *dto.StockAlquiler
	}
	if dto.Imagen != nil {
		updates["imagen"] = *dto.Imagen
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes the listing.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns a page of listings for the given filter.
func (r *Repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Product, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.Product{})
	if cat := strings.TrimSpace(filter.Categoria); cat != "" {
		query = query.Where("categoria = ?", cat)
	}
	if filter.DisponibleCompra != nil {
		query = query.Where("disponible_compra = ?", *filter.DisponibleCompra)
	}
	if filter.DisponibleAlquiler != nil {
		query = query.Where("disponible_alquiler = ?", *filter.DisponibleAlquiler)
	}
	if filter.SoloDisponibles {
		query = query.Where("disponible_compra = ? OR disponible_alquiler = ?", true, true)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(nombre) LIKE ? OR LOWER(categoria) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := query.
		Order("categoria ASC, nombre ASC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// DecrementStockCompra atomically takes qty units off the purchase stock.
// The WHERE guard keeps concurrent checkouts from driving stock negative.
func (r *Repository) DecrementStockCompra(ctx context.Context, id uuid.UUID, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_compra >= ?", id, qty).
		UpdateColumn("stock_compra", gorm.Expr("stock_compra - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// DecrementStockAlquiler atomically takes qty units off the rental stock.
func (r *Repository) DecrementStockAlquiler(ctx context.Context, id uuid.UUID, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_alquiler >= ?", id, qty).
		UpdateColumn("stock_alquiler", gorm.Expr("stock_alquiler - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}
