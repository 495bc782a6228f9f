package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lasgemelas/disfraces-backend/pkg/db/models"
	"github.com/lasgemelas/disfraces-backend/pkg/pagination"
)

// Repository persists compras and alquileres and serves the history reads.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreatePurchase inserts a compra line.
func (r *Repository) CreatePurchase(ctx context.Context, row *models.Purchase) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// CreateRental inserts an alquiler line.
func (r *Repository) CreateRental(ctx context.Context, row *models.Rental) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// ListPurchasesByUser returns the user's compras, newest first, with the
// product preloaded for display.
func (r *Repository) ListPurchasesByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Purchase, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.Purchase{}).Where("usuario_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Purchase
	err := query.
		Preload("Producto").
		Order("fecha_compra DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListRentalsByUser returns the user's alquileres, newest first.
func (r *Repository) ListRentalsByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Rental, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.Rental{}).Where("usuario_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Rental
	err := query.
		Preload("Producto").
		Order("fecha_reserva DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CountPurchases returns the total number of compras.
func (r *Repository) CountPurchases(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Purchase{}).Count(&count).Error
	return count, err
}

// CountRentals returns the total number of alquileres.
func (r *Repository) CountRentals(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Rental{}).Count(&count).Error
	return count, err
}

// CountPurchasesSince counts compras registered at or after the cutoff.
func (r *Repository) CountPurchasesSince(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("fecha_compra >= ?", cutoff).
		Count(&count).Error
	return count, err
}

// CountRentalsSince counts alquileres reserved at or after the cutoff.
func (r *Repository) CountRentalsSince(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Rental{}).
		Where("fecha_reserva >= ?", cutoff).
		Count(&count).Error
	return count, err
}
