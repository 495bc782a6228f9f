package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/lasgemelas/disfraces-backend/pkg/errors"
	"github.com/lasgemelas/disfraces-backend/pkg/pagination"
)

// Service serves the authenticated order-history reads.
type Service interface {
	MisCompras(ctx context.Context, userID uuid.UUID, params pagination.Params) (*PurchaseListResult, error)
	MisAlquileres(ctx context.Context, userID uuid.UUID, params pagination.Params) (*RentalListResult, error)
}

type PurchaseListResult struct {
	Compras []PurchaseDTO   `json:"compras"`
	Meta    pagination.Meta `json:"meta"`
}

type RentalListResult struct {
	Alquileres []RentalDTO     `json:"alquileres"`
	Meta       pagination.Meta `json:"meta"`
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) MisCompras(ctx context.Context, userID uuid.UUID, params pagination.Params) (*PurchaseListResult, error) {
	rows, total, err := s.repo.ListPurchasesByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list purchases")
	}
	return &PurchaseListResult{
		Compras: PurchasesFromModels(rows),
		Meta:    pagination.BuildMeta(params, total),
	}, nil
}

func (s *service) MisAlquileres(ctx context.Context, userID uuid.UUID, params pagination.Params) (*RentalListResult, error) {
	rows, total, err := s.repo.ListRentalsByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list rentals")
	}
	return &RentalListResult{
		Alquileres: RentalsFromModels(rows),
		Meta:       pagination.BuildMeta(params, total),
	}, nil
}
