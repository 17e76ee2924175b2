package models

import (
	"html"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Field limits shared by the store-level constraint and the request validator.
const (
	MaxSKULength         = 100
	MaxDescripcionLength = 250
	MaxReferenciaLength  = 150
	PricePlaces          = 2
)

// SKUPattern is the character set a SKU may use.
var SKUPattern = regexp.MustCompile(`^[A-Za-z0-9_-]*$`)

// Product represents a product in the catalog.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SKU         string    `json:"sku" gorm:"type:varchar(100);index"`
	Descripcion string    `json:"descripcion" gorm:"type:text"`
	Referencia  string    `json:"referencia" gorm:"type:text"`
	Peso        float64   `json:"peso" gorm:"not null;check:peso >= 0"`
	Precio      float64   `json:"precio" gorm:"type:decimal(12,2);not null;check:precio >= 0"`
	Categoria   string    `json:"categoria" gorm:"type:varchar(64);not null;index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName maps Product to the productos table.
func (Product) TableName() string {
	return "productos"
}

// ProductFields is the partial payload accepted by create, bulk create and
// update. A nil field was not supplied by the client.
type ProductFields struct {
	SKU         *string  `json:"sku" form:"sku" validate:"omitempty,max=100,sku"`
	Descripcion *string  `json:"descripcion" form:"descripcion" validate:"omitempty,max=250"`
	Referencia  *string  `json:"referencia" form:"referencia" validate:"omitempty,max=150"`
	Peso        *float64 `json:"peso" form:"peso" validate:"omitempty,finite,gte=0"`
	Precio      *float64 `json:"precio" form:"precio" validate:"omitempty,finite,gte=0"`
	Categoria   *string  `json:"categoria" form:"categoria" validate:"omitempty,categoria"`
}

// NewProduct builds a product from fields, filling store defaults for
// anything omitted.
func NewProduct(fields ProductFields) Product {
	p := Product{Categoria: DefaultCategory}
	p.Apply(fields)
	return p
}

// Apply merges the supplied fields into p, keeping the current value of
// every field left nil.
func (p *Product) Apply(fields ProductFields) {
	if fields.SKU != nil {
		p.SKU = *fields.SKU
	}
	if fields.Descripcion != nil {
		p.Descripcion = *fields.Descripcion
	}
	if fields.Referencia != nil {
		p.Referencia = *fields.Referencia
	}
	if fields.Peso != nil {
		p.Peso = *fields.Peso
	}
	if fields.Precio != nil {
		p.Precio = *fields.Precio
	}
	if fields.Categoria != nil {
		p.Categoria = *fields.Categoria
	}
}

// Normalize trims text fields and rounds the price to two decimal places.
func (p *Product) Normalize() {
	p.SKU = strings.TrimSpace(p.SKU)
	p.Descripcion = strings.TrimSpace(p.Descripcion)
	p.Referencia = strings.TrimSpace(p.Referencia)
	p.Precio = RoundPrice(p.Precio)
}

// Validate enforces the store-level constraints. It runs on every write
// regardless of whether the request validator already saw the payload.
func (p *Product) Validate() error {
	var errs []FieldError
	if utf8.RuneCountInString(p.SKU) > MaxSKULength {
		errs = append(errs, FieldError{Field: "sku", Message: "must be at most 100 characters"})
	}
	if !SKUPattern.MatchString(p.SKU) {
		errs = append(errs, FieldError{Field: "sku", Message: "may only contain letters, digits, '-' and '_'"})
	}
	// Text may already be HTML-escaped; the limit applies to what the client wrote.
	if utf8.RuneCountInString(html.UnescapeString(p.Descripcion)) > MaxDescripcionLength {
		errs = append(errs, FieldError{Field: "descripcion", Message: "must be at most 250 characters"})
	}
	if utf8.RuneCountInString(html.UnescapeString(p.Referencia)) > MaxReferenciaLength {
		errs = append(errs, FieldError{Field: "referencia", Message: "must be at most 150 characters"})
	}
	if !nonNegative(p.Peso) {
		errs = append(errs, FieldError{Field: "peso", Message: "must be a finite number greater than or equal to 0"})
	}
	if !nonNegative(p.Precio) {
		errs = append(errs, FieldError{Field: "precio", Message: "must be a finite number greater than or equal to 0"})
	}
	if !IsValidCategory(p.Categoria) {
		errs = append(errs, FieldError{Field: "categoria", Message: "is not a valid category"})
	}
	return NewValidationError(errs)
}

// BeforeSave is the GORM hook applying the store-level constraints to every
// insert and update.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.Normalize()
	return p.Validate()
}

// RoundPrice rounds v half away from zero to PricePlaces decimals.
func RoundPrice(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(PricePlaces).InexactFloat64()
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
