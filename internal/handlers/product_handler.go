package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"productos/internal/models"
	"productos/internal/services"
	"productos/internal/validation"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service   *services.ProductService
	validator *validation.Validator
	log       *slog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, validator *validation.Validator, log *slog.Logger) *ProductHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ProductHandler{
		service:   service,
		validator: validator,
		log:       log,
	}
}

// RegisterRoutes mounts the product routes under prefix.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, prefix string) {
	productRoutes := router.Group(prefix)
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Post("/bulk", h.HandleCreateProductsBulk)
	productRoutes.Get("/sku/:sku", h.HandleGetProductBySKU)
	productRoutes.Get("/categoria/:categoria", h.HandleGetProductsByCategory)
	productRoutes.Get("/category/:categoria", h.HandleGetProductsByCategory)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts lists every product, newest first.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return h.fail(c, err, "Error retrieving products")
	}
	return c.Status(fiber.StatusOK).JSON(List(products))
}

// HandleCreateProduct creates a product from a partial payload.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	fields, ok := h.parseFields(c)
	if !ok {
		return nil
	}
	if errs := h.validator.Product(&fields); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(Invalid("Validation failed", errs))
	}

	product, err := h.service.CreateProduct(c.UserContext(), fields)
	if err != nil {
		return h.fail(c, err, "Error creating product")
	}
	return c.Status(fiber.StatusCreated).JSON(Success(product))
}

// HandleCreateProductsBulk creates every product of a JSON array or none.
func (h *ProductHandler) HandleCreateProductsBulk(c *fiber.Ctx) error {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 || body[0] != '[' {
		return h.fail(c, &models.BadRequestError{Message: "Request body must be an array of products"}, "")
	}

	var list []models.ProductFields
	if err := c.App().Config().JSONDecoder(body, &list); err != nil {
		h.log.Debug("invalid bulk body", slog.Any("error", err))
		return h.fail(c, &models.BadRequestError{Message: "Invalid request body"}, "")
	}
	if errs := h.validator.Products(list); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(Invalid("Validation failed", errs))
	}

	products, err := h.service.CreateProducts(c.UserContext(), list)
	if err != nil {
		return h.fail(c, err, "Error creating products")
	}
	return c.Status(fiber.StatusCreated).JSON(List(products))
}

// HandleGetProductBySKU returns the first product carrying the SKU.
func (h *ProductHandler) HandleGetProductBySKU(c *fiber.Ctx) error {
	sku := validation.Sanitize(pathParam(c, "sku"))
	product, err := h.service.GetProductBySKU(c.UserContext(), sku)
	if err != nil {
		return h.fail(c, err, "Error retrieving product")
	}
	return c.Status(fiber.StatusOK).JSON(Success(product))
}

// HandleGetProductsByCategory lists the products of a category. No match is
// an empty list, not an error.
func (h *ProductHandler) HandleGetProductsByCategory(c *fiber.Ctx) error {
	category := validation.Sanitize(pathParam(c, "categoria"))
	products, err := h.service.GetProductsByCategory(c.UserContext(), category)
	if err != nil {
		return h.fail(c, err, "Error retrieving products")
	}
	return c.Status(fiber.StatusOK).JSON(List(products))
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok := h.productID(c)
	if !ok {
		return nil
	}
	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, "Error retrieving product")
	}
	return c.Status(fiber.StatusOK).JSON(Success(product))
}

// HandleUpdateProduct merges the payload into an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok := h.productID(c)
	if !ok {
		return nil
	}
	fields, ok := h.parseFields(c)
	if !ok {
		return nil
	}
	if errs := h.validator.Product(&fields); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(Invalid("Validation failed", errs))
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, fields)
	if err != nil {
		return h.fail(c, err, "Error updating product")
	}
	return c.Status(fiber.StatusOK).JSON(Success(product))
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok := h.productID(c)
	if !ok {
		return nil
	}
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return h.fail(c, err, "Error deleting product")
	}
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Success: true,
		Data:    fiber.Map{},
		Message: "Product deleted successfully",
	})
}

// parseFields binds a JSON or form body. An empty body is an empty payload.
// On failure the 400 response has already been written.
func (h *ProductHandler) parseFields(c *fiber.Ctx) (models.ProductFields, bool) {
	var fields models.ProductFields
	if len(bytes.TrimSpace(c.Body())) == 0 {
		return fields, true
	}
	if err := c.BodyParser(&fields); err != nil {
		h.log.Debug("invalid request body", slog.Any("error", err))
		_ = h.fail(c, &models.BadRequestError{Message: "Invalid request body"}, "")
		return fields, false
	}
	return fields, true
}

// productID validates the :id parameter, writing a 400 response when the
// format does not match the store.
func (h *ProductHandler) productID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if fe := h.validator.ID(id, h.service.ValidID); fe != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(Invalid("Invalid product id", []models.FieldError{*fe}))
		return "", false
	}
	return id, true
}

// fail maps err onto the response envelope. Unexpected errors are logged and
// answered with the generic message so store details never reach the client.
func (h *ProductHandler) fail(c *fiber.Ctx, err error, generic string) error {
	if fieldErrs, ok := models.IsValidation(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(Invalid("Validation failed", fieldErrs))
	}
	var badReq *models.BadRequestError
	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(Failure("Product not found"))
	case errors.As(err, &badReq):
		return c.Status(fiber.StatusBadRequest).JSON(Failure(badReq.Message))
	}

	h.log.Error(generic,
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.Any("error", err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(Failure(generic))
}

func pathParam(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
