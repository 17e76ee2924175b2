package services

import (
	"context"
	"log/slog"

	"productos/internal/models"
	"productos/internal/repositories"
)

// Product event types published after successful mutations.
const (
	EventProductCreated      = "product.created"
	EventProductsBulkCreated = "product.bulk_created"
	EventProductUpdated      = "product.updated"
	EventProductDeleted      = "product.deleted"
)

// EventPublisher delivers product events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

// Publish implements EventPublisher.
func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	log       *slog.Logger
}

// NewProductService creates a new ProductService. A nil publisher disables
// events and a nil logger falls back to slog.Default.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, log *slog.Logger) *ProductService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// GetAllProducts retrieves all products, newest first.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.FindAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// GetProductBySKU retrieves the first product with the given SKU.
func (s *ProductService) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	return s.repo.FindBySKU(ctx, sku)
}

// GetProductsByCategory retrieves the products of a category.
func (s *ProductService) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return s.repo.FindByCategory(ctx, category)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(ctx context.Context, fields models.ProductFields) (*models.Product, error) {
	product, err := s.repo.Create(ctx, fields)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventProductCreated, product)
	return product, nil
}

// CreateProducts creates a batch of products, all or none.
func (s *ProductService) CreateProducts(ctx context.Context, list []models.ProductFields) ([]models.Product, error) {
	products, err := s.repo.BulkCreate(ctx, list)
	if err != nil {
		return nil, err
	}
	if len(products) > 0 {
		s.publish(ctx, EventProductsBulkCreated, products)
	}
	return products, nil
}

// UpdateProduct merges fields into an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, fields models.ProductFields) (*models.Product, error) {
	product, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventProductUpdated, product)
	return product, nil
}

// DeleteProduct deletes a product by its ID. It returns models.ErrNotFound
// when no product had that ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return models.ErrNotFound
	}
	s.publish(ctx, EventProductDeleted, map[string]string{"id": id})
	return nil
}

// ValidID reports whether id has the identifier format of the active store.
func (s *ProductService) ValidID(id string) bool {
	return s.repo.ValidID(id)
}

func (s *ProductService) publish(ctx context.Context, eventType string, payload interface{}) {
	if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
		s.log.Warn("failed to publish product event", slog.String("event", eventType), slog.Any("error", err))
	}
}
