package products

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lasgemelas/disfraces-backend/pkg/db/models"
	"github.com/lasgemelas/disfraces-backend/pkg/pagination"
)

func TestRepositoryCreateAndFindByID(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	desc := "Con sombrero y parche"
	created, err := repo.Create(ctx, &models.Product{
		Nombre:             "Disfraz de Pirata",
		Descripcion:        &desc,
		PrecioCompra:       decimal.NewFromFloat(45.50),
		PrecioAlquiler:     decimal.NewFromFloat(15.00),
		Categoria:          "aventura",
		DisponibleCompra:   true,
		DisponibleAlquiler: true,
		StockCompra:        10,
		StockAlquiler:      5,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}

	found, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.Nombre != "Disfraz de Pirata" {
		t.Fatalf("unexpected nombre: %s", found.Nombre)
	}
	if !found.PrecioCompra.Equal(decimal.NewFromFloat(45.50)) {
		t.Fatalf("unexpected precio_compra: %s", found.PrecioCompra)
	}
	if found.Descripcion == nil || *found.Descripcion != desc {
		t.Fatalf("unexpected descripcion: %v", found.Descripcion)
	}
}

func TestRepositoryUpdateAppliesOnlyProvidedFields(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateProduct(t, db, nil)

	nombre := "Disfraz de Corsario"
	stock := 3
	updated, err := repo.Update(ctx, product.ID, UpdateProductDTO{
		Nombre:      &nombre,
		StockCompra: &stock,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Nombre != nombre {
		t.Fatalf("expected nombre %q, got %q", nombre, updated.Nombre)
	}
	if updated.StockCompra != stock {
		t.Fatalf("expected stock_compra %d, got %d", stock, updated.StockCompra)
	}
	if updated.Categoria != product.Categoria {
		t.Fatalf("categoria should be untouched, got %q", updated.Categoria)
	}
}

func TestRepositoryUpdateMissingProduct(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)

	nombre := "nadie"
	_, err := repo.Update(context.Background(), uuid.New(), UpdateProductDTO{Nombre: &nombre})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestRepositoryDelete(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateProduct(t, db, nil)
	if err := repo.Delete(ctx, product.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.FindByID(ctx, product.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record gone, got %v", err)
	}
	if err := repo.Delete(ctx, product.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on second delete, got %v", err)
	}
}

func TestRepositoryListFiltersAndCounts(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mustCreateProduct(t, db, func(p *models.Product) {
		p.Nombre = "Disfraz de Bruja"
		p.Categoria = "halloween"
	})
	vampiro := mustCreateProduct(t, db, func(p *models.Product) {
		p.Nombre = "Disfraz de Vampiro"
		p.Categoria = "halloween"
	})
	// Default-tagged bools are skipped on insert when false, so flip it after.
	err := db.Model(&models.Product{}).
		Where("id = ?", vampiro.ID).
		UpdateColumn("disponible_compra", false).Error
	if err != nil {
		t.Fatalf("hide product: %v", err)
	}
	mustCreateProduct(t, db, func(p *models.Product) {
		p.Nombre = "Disfraz de Hada"
		p.Categoria = "fantasia"
	})

	rows, total, err := repo.List(ctx, ListFilter{Categoria: "halloween"}, pagination.Params{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("expected 2 halloween rows, got total=%d len=%d", total, len(rows))
	}

	disponible := true
	rows, total, err = repo.List(ctx, ListFilter{Categoria: "halloween", DisponibleCompra: &disponible}, pagination.Params{})
	if err != nil {
		t.Fatalf("list with availability failed: %v", err)
	}
	if total != 1 || rows[0].Nombre != "Disfraz de Bruja" {
		t.Fatalf("expected only the available witch, got total=%d rows=%+v", total, rows)
	}

	rows, total, err = repo.List(ctx, ListFilter{Search: "hada"}, pagination.Params{})
	if err != nil {
		t.Fatalf("list with search failed: %v", err)
	}
	if total != 1 || rows[0].Nombre != "Disfraz de Hada" {
		t.Fatalf("expected search to match the fairy, got total=%d", total)
	}
}

func TestRepositoryListSoloDisponibles(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mustCreateProduct(t, db, func(p *models.Product) {
		p.Nombre = "Disfraz de Angel"
		p.Categoria = "navidad"
	})
	mustCreateProduct(t, db, func(p *models.Product) {
		p.Nombre = "Disfraz de Zorro"
		p.Categoria = "aventura"
	})
	hidden := mustCreateProduct(t, db, func(p *models.Product) {
		p.Nombre = "Disfraz Retirado"
		p.Categoria = "aventura"
	})
	// Default-tagged bools are skipped on insert when false, so flip them after.
	err := db.Model(&models.Product{}).
		Where("id = ?", hidden.ID).
		UpdateColumns(map[string]any{
			"disponible_compra":   false,
			"disponible_alquiler": false,
		}).Error
	if err != nil {
		t.Fatalf("hide product: %v", err)
	}

	rows, total, err := repo.List(ctx, ListFilter{SoloDisponibles: true}, pagination.Params{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("expected 2 visible rows, got total=%d len=%d", total, len(rows))
	}
	if rows[0].Nombre != "Disfraz de Zorro" || rows[1].Nombre != "Disfraz de Angel" {
		t.Fatalf("expected categoria/nombre ordering, got %q then %q", rows[0].Nombre, rows[1].Nombre)
	}
}

func TestRepositoryListPaginates(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		mustCreateProduct(t, db, nil)
	}

	rows, total, err := repo.List(ctx, ListFilter{}, pagination.Params{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows on page 2, got %d", len(rows))
	}
}

func TestDecrementStockCompra(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateProduct(t, db, func(p *models.Product) {
		p.StockCompra = 3
	})

	if err := repo.DecrementStockCompra(ctx, product.ID, 2); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	refreshed, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if refreshed.StockCompra != 1 {
		t.Fatalf("expected stock 1, got %d", refreshed.StockCompra)
	}

	if err := repo.DecrementStockCompra(ctx, product.ID, 2); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	refreshed, err = repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if refreshed.StockCompra != 1 {
		t.Fatalf("failed decrement must not touch stock, got %d", refreshed.StockCompra)
	}
}

func TestDecrementStockAlquiler(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateProduct(t, db, func(p *models.Product) {
		p.StockAlquiler = 1
	})

	if err := repo.DecrementStockAlquiler(ctx, product.ID, 1); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if err := repo.DecrementStockAlquiler(ctx, product.ID, 1); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock once empty, got %v", err)
	}
}
