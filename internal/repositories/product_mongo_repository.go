package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"productos/internal/models"
)

// productDocument is the stored shape of a product. Field names match the
// documents written by earlier versions of the service.
type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	SKU         string             `bson:"SKU"`
	Descripcion string             `bson:"descripcion"`
	Referencia  string             `bson:"referencia"`
	Peso        float64            `bson:"peso"`
	Categoria   string             `bson:"categoria"`
	Precio      float64            `bson:"precio"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func toDocument(p models.Product) productDocument {
	doc := productDocument{
		SKU:         p.SKU,
		Descripcion: p.Descripcion,
		Referencia:  p.Referencia,
		Peso:        p.Peso,
		Categoria:   p.Categoria,
		Precio:      p.Precio,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if oid, err := primitive.ObjectIDFromHex(p.ID); err == nil {
		doc.ID = oid
	}
	return doc
}

func (d productDocument) product() models.Product {
	return models.Product{
		ID:          d.ID.Hex(),
		SKU:         d.SKU,
		Descripcion: d.Descripcion,
		Referencia:  d.Referencia,
		Peso:        d.Peso,
		Categoria:   d.Categoria,
		Precio:      d.Precio,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoProductRepository is a MongoDB implementation of ProductRepository.
type MongoProductRepository struct {
	coll *mongo.Collection
}

// NewMongoProductRepository creates a repository over coll.
func NewMongoProductRepository(coll *mongo.Collection) *MongoProductRepository {
	return &MongoProductRepository{
		coll: coll,
	}
}

// EnsureIndexes creates the lookup indexes used by the repository.
func (r *MongoProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "SKU", Value: 1}}},
		{Keys: bson.D{{Key: "categoria", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return &models.StoreError{Op: "create indexes", Err: err}
	}
	return nil
}

// Create inserts a new product document.
func (r *MongoProductRepository) Create(ctx context.Context, fields models.ProductFields) (*models.Product, error) {
	product := models.NewProduct(fields)
	product.Normalize()
	if err := product.Validate(); err != nil {
		return nil, err
	}

	doc := newDocument(product)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, mongoError("create product", err)
	}
	created := doc.product()
	return &created, nil
}

// BulkCreate validates every element, then inserts them with one ordered
// InsertMany.
func (r *MongoProductRepository) BulkCreate(ctx context.Context, list []models.ProductFields) ([]models.Product, error) {
	if len(list) == 0 {
		return []models.Product{}, nil
	}
	products, err := prepare(list)
	if err != nil {
		return nil, err
	}

	docs := make([]interface{}, len(products))
	for i := range products {
		doc := newDocument(products[i])
		products[i] = doc.product()
		docs[i] = doc
	}
	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, mongoError("bulk create products", err)
	}
	return products, nil
}

// FindAll returns every product, newest first.
func (r *MongoProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, "find all products", bson.M{})
}

// FindByID returns the product with the given ObjectID hex string.
func (r *MongoProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	var doc productDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mongoError("find product by id", err)
	}
	product := doc.product()
	return &product, nil
}

// FindBySKU returns the oldest product with the given SKU.
func (r *MongoProductRepository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	var doc productDocument
	if err := r.coll.FindOne(ctx, bson.M{"SKU": sku}, opts).Decode(&doc); err != nil {
		return nil, mongoError("find product by sku", err)
	}
	product := doc.product()
	return &product, nil
}

// FindByCategory returns the products in category, newest first.
func (r *MongoProductRepository) FindByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return r.find(ctx, "find products by category", bson.M{"categoria": category})
}

// Update merges fields into the stored document and replaces it.
func (r *MongoProductRepository) Update(ctx context.Context, id string, fields models.ProductFields) (*models.Product, error) {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product := *current
	product.Apply(fields)
	product.Normalize()
	if err := product.Validate(); err != nil {
		return nil, err
	}
	product.UpdatedAt = mongoNow()

	doc := toDocument(product)
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return nil, mongoError("update product", err)
	}
	if res.MatchedCount == 0 {
		return nil, models.ErrNotFound
	}
	return &product, nil
}

// Delete removes the product document. It reports false when nothing matched.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, mongoError("delete product", err)
	}
	return res.DeletedCount > 0, nil
}

// ValidID accepts 24 character ObjectID hex strings.
func (r *MongoProductRepository) ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

func (r *MongoProductRepository) find(ctx context.Context, op string, filter bson.M) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, mongoError(op, err)
	}
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mongoError(op, err)
	}
	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, doc.product())
	}
	return products, nil
}

// newDocument assigns a fresh ObjectID and timestamps to p.
func newDocument(p models.Product) productDocument {
	now := mongoNow()
	p.CreatedAt = now
	p.UpdatedAt = now
	doc := toDocument(p)
	doc.ID = primitive.NewObjectID()
	return doc
}

// mongoNow truncates to the millisecond precision BSON dates keep, so the
// value returned to the caller equals what a later read yields.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func mongoError(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	return &models.StoreError{Op: op, Err: err}
}
