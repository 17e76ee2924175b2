package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"productos/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[string]memoryRecord
	seq      int64
	now      func() time.Time
	mu       sync.RWMutex
}

type memoryRecord struct {
	product models.Product
	seq     int64
}

// MemoryOption configures a MemoryProductRepository.
type MemoryOption func(*MemoryProductRepository)

// WithClock replaces time.Now as the source of createdAt/updatedAt.
func WithClock(now func() time.Time) MemoryOption {
	return func(r *MemoryProductRepository) {
		r.now = now
	}
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository(opts ...MemoryOption) *MemoryProductRepository {
	r := &MemoryProductRepository{
		products: make(map[string]memoryRecord),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(ctx context.Context, fields models.ProductFields) (*models.Product, error) {
	product := models.NewProduct(fields)
	product.Normalize()
	if err := product.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.insert(&product)
	return &product, nil
}

// BulkCreate adds every product or none of them.
func (r *MemoryProductRepository) BulkCreate(ctx context.Context, list []models.ProductFields) ([]models.Product, error) {
	products, err := prepare(list)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range products {
		r.insert(&products[i])
	}
	return products, nil
}

// FindAll returns all products, newest first.
func (r *MemoryProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	return r.filter(func(models.Product) bool { return true }), nil
}

// FindByID returns a product by its ID.
func (r *MemoryProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.products[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	product := rec.product
	return &product, nil
}

// FindBySKU returns the oldest product with the given SKU.
func (r *MemoryProductRepository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	matches := r.filter(func(p models.Product) bool { return p.SKU == sku })
	if len(matches) == 0 {
		return nil, models.ErrNotFound
	}
	product := matches[len(matches)-1]
	return &product, nil
}

// FindByCategory returns the products in category, newest first.
func (r *MemoryProductRepository) FindByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool { return p.Categoria == category }), nil
}

// Update merges fields into an existing product.
func (r *MemoryProductRepository) Update(ctx context.Context, id string, fields models.ProductFields) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.products[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	product := rec.product
	product.Apply(fields)
	product.Normalize()
	if err := product.Validate(); err != nil {
		return nil, err
	}
	product.UpdatedAt = r.now()
	detach(&product)
	rec.product = product
	r.products[id] = rec
	return &product, nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	return true, nil
}

// ValidID accepts canonical UUID strings.
func (r *MemoryProductRepository) ValidID(id string) bool {
	return validUUID(id)
}

// insert must be called with mu held.
func (r *MemoryProductRepository) insert(product *models.Product) {
	product.ID = uuid.New().String()
	now := r.now()
	product.CreatedAt = now
	product.UpdatedAt = now
	detach(product)
	r.seq++
	r.products[product.ID] = memoryRecord{product: *product, seq: r.seq}
}

// filter returns matching products ordered newest first. Records created at
// the same instant keep insertion order.
func (r *MemoryProductRepository) filter(match func(models.Product) bool) []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := make([]memoryRecord, 0, len(r.products))
	for _, rec := range r.products {
		if match(rec.product) {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.product.CreatedAt.Equal(b.product.CreatedAt) {
			return a.product.CreatedAt.After(b.product.CreatedAt)
		}
		return a.seq > b.seq
	})

	products := make([]models.Product, len(recs))
	for i, rec := range recs {
		products[i] = rec.product
	}
	return products
}

// detach copies text fields so stored records never share memory with a
// request buffer.
func detach(p *models.Product) {
	p.SKU = strings.Clone(p.SKU)
	p.Descripcion = strings.Clone(p.Descripcion)
	p.Referencia = strings.Clone(p.Referencia)
	p.Categoria = strings.Clone(p.Categoria)
}
