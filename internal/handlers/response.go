package handlers

import "productos/internal/models"

// Envelope is the uniform body of every response.
type Envelope struct {
	Success bool                `json:"success"`
	Count   *int                `json:"count,omitempty"`
	Data    interface{}         `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Errors  []models.FieldError `json:"errors,omitempty"`
	Message string              `json:"message,omitempty"`
}

// Success wraps a single result.
func Success(data interface{}) Envelope {
	return Envelope{Success: true, Data: data}
}

// List wraps a collection and its size.
func List(products []models.Product) Envelope {
	if products == nil {
		products = []models.Product{}
	}
	n := len(products)
	return Envelope{Success: true, Count: &n, Data: products}
}

// Failure wraps an error message.
func Failure(msg string) Envelope {
	return Envelope{Success: false, Error: msg}
}

// Invalid wraps field-level violations.
func Invalid(msg string, errs []models.FieldError) Envelope {
	return Envelope{Success: false, Error: msg, Errors: errs}
}
