package validation

import (
	"fmt"
	"html"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"productos/internal/models"
)

// Validator checks create and update payloads. It wraps a go-playground
// validator configured with the catalog's custom tags.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the sku, categoria and finite tags registered.
func New() *Validator {
	v := validator.New()

	// Report fields by their JSON name so clients see what they sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or baked-in names.
	_ = v.RegisterValidation("sku", func(fl validator.FieldLevel) bool {
		return models.SKUPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("categoria", func(fl validator.FieldLevel) bool {
		return models.IsValidCategory(fl.Field().String())
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})

	return &Validator{validate: v}
}

// Product validates fields in place. Text fields are trimmed first; every
// violation is collected. When the payload is accepted, descripcion and
// referencia are HTML-escaped.
func (v *Validator) Product(fields *models.ProductFields) []models.FieldError {
	trim(fields.SKU)
	trim(fields.Descripcion)
	trim(fields.Referencia)

	if err := v.validate.Struct(fields); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []models.FieldError{{Field: "body", Message: err.Error()}}
		}
		out := make([]models.FieldError, 0, len(verrs))
		for _, e := range verrs {
			out = append(out, models.FieldError{Field: e.Field(), Message: message(e)})
		}
		return out
	}

	escape(fields.Descripcion)
	escape(fields.Referencia)
	return nil
}

// Products validates each element of a bulk payload. Violations are
// reported with the element index, e.g. "[1].categoria".
func (v *Validator) Products(list []models.ProductFields) []models.FieldError {
	var out []models.FieldError
	for i := range list {
		for _, fe := range v.Product(&list[i]) {
			fe.Field = fmt.Sprintf("[%d].%s", i, fe.Field)
			out = append(out, fe)
		}
	}
	return out
}

// ID checks id against the identifier format of the active store.
func (v *Validator) ID(id string, valid func(string) bool) *models.FieldError {
	if id == "" || !valid(id) {
		return &models.FieldError{Field: "id", Message: "is not a valid identifier"}
	}
	return nil
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "finite":
		return "must be a finite number"
	case "sku":
		return "may only contain letters, digits, '-' and '_'"
	case "categoria":
		return "is not a valid category"
	default:
		return fmt.Sprintf("failed on the '%s' rule", e.Tag())
	}
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func escape(s *string) {
	if s != nil {
		*s = html.EscapeString(*s)
	}
}
