package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"productos/internal/models"
)

const bulkBatchSize = 100

// GORMProductRepository is a GORM implementation of ProductRepository for
// relational stores (PostgreSQL in production, SQLite locally and in tests).
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Migrate creates or updates the productos table, its indexes and checks.
func (r *GORMProductRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&models.Product{}); err != nil {
		return &models.StoreError{Op: "migrate", Err: err}
	}
	return nil
}

// Create inserts a new product. Defaults and constraints are applied by the
// model's BeforeSave hook.
func (r *GORMProductRepository) Create(ctx context.Context, fields models.ProductFields) (*models.Product, error) {
	product := models.NewProduct(fields)
	product.ID = uuid.New().String()
	if err := r.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, gormError("create product", err)
	}
	return &product, nil
}

// BulkCreate validates every element first and inserts the batch in a single
// transaction.
func (r *GORMProductRepository) BulkCreate(ctx context.Context, list []models.ProductFields) ([]models.Product, error) {
	if len(list) == 0 {
		return []models.Product{}, nil
	}
	products, err := prepare(list)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].ID = uuid.New().String()
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&products, bulkBatchSize).Error
	})
	if err != nil {
		return nil, gormError("bulk create products", err)
	}
	return products, nil
}

// FindAll retrieves all products, newest first.
func (r *GORMProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&products).Error; err != nil {
		return nil, gormError("find all products", err)
	}
	return products, nil
}

// FindByID retrieves a single product by its ID.
func (r *GORMProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, gormError("find product by id", err)
	}
	return &product, nil
}

// FindBySKU retrieves the oldest product carrying sku.
func (r *GORMProductRepository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("sku = ?", sku).
		Order("created_at asc").
		Take(&product).Error
	if err != nil {
		return nil, gormError("find product by sku", err)
	}
	return &product, nil
}

// FindByCategory retrieves every product in category, newest first.
func (r *GORMProductRepository) FindByCategory(ctx context.Context, category string) ([]models.Product, error) {
	products := []models.Product{}
	err := r.db.WithContext(ctx).
		Where("categoria = ?", category).
		Order("created_at desc").
		Find(&products).Error
	if err != nil {
		return nil, gormError("find products by category", err)
	}
	return products, nil
}

// Update merges fields into the stored product and saves the result.
func (r *GORMProductRepository) Update(ctx context.Context, id string, fields models.ProductFields) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			return err
		}
		product.Apply(fields)
		return tx.Save(&product).Error
	})
	if err != nil {
		return nil, gormError("update product", err)
	}
	return &product, nil
}

// Delete deletes a product by its ID. It reports false when nothing matched.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return false, gormError("delete product", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ValidID accepts canonical UUID strings.
func (r *GORMProductRepository) ValidID(id string) bool {
	return validUUID(id)
}

func gormError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	if _, ok := models.IsValidation(err); ok {
		return err
	}
	return &models.StoreError{Op: op, Err: err}
}

func validUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
