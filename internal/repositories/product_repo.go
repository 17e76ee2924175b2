package repositories

import (
	"context"
	"fmt"

	"productos/internal/models"
)

// ProductRepository defines the interface for product data access. Every
// implementation enforces the store-level constraints of models.Product on
// writes, so callers that skip request validation are still protected.
type ProductRepository interface {
	Create(ctx context.Context, fields models.ProductFields) (*models.Product, error)
	// BulkCreate persists all products or none.
	BulkCreate(ctx context.Context, list []models.ProductFields) ([]models.Product, error)
	// FindAll returns every product, most recently created first.
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	// FindBySKU returns the oldest product with the given SKU.
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
	FindByCategory(ctx context.Context, category string) ([]models.Product, error)
	Update(ctx context.Context, id string, fields models.ProductFields) (*models.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
	// ValidID reports whether id has the store's identifier format.
	ValidID(id string) bool
}

// prepare builds and checks the products of a bulk payload before anything
// is written.
func prepare(list []models.ProductFields) ([]models.Product, error) {
	products := make([]models.Product, len(list))
	var errs []models.FieldError
	for i, fields := range list {
		products[i] = models.NewProduct(fields)
		products[i].Normalize()
		if err := products[i].Validate(); err != nil {
			fieldErrs, _ := models.IsValidation(err)
			for _, fe := range fieldErrs {
				fe.Field = indexed(i, fe.Field)
				errs = append(errs, fe)
			}
		}
	}
	if err := models.NewValidationError(errs); err != nil {
		return nil, err
	}
	return products, nil
}

func indexed(i int, field string) string {
	return fmt.Sprintf("[%d].%s", i, field)
}
