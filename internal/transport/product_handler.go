package transport

import (
	"net/http"

	"zenith-pos/internal/domain"
	"zenith-pos/internal/middleware"
	"zenith-pos/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductRequest is the product payload for create and update. Any id in the
// body is ignored.
type ProductRequest struct {
	Name     string   `json:"name" validate:"required,min=2"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	SKU      string   `json:"sku" validate:"required"`
	Barcode  string   `json:"barcode" validate:"required"`
	ImageURL string   `json:"imageUrl" validate:"omitempty,url"`
}

func (p ProductRequest) toProduct() domain.Product {
	return domain.Product{
		Name:     p.Name,
		Price:    *p.Price,
		SKU:      p.SKU,
		Barcode:  p.Barcode,
		ImageURL: p.ImageURL,
	}
}

// ProductHandler handles HTTP requests for the catalog
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns the full catalog
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "")
		return
	}
	middleware.RespondOK(w, products)
}

// Create adds a product under a server-assigned id
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid product data")
		return
	}

	product, err := h.productService.Create(r.Context(), req.toProduct())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "")
		return
	}
	h.logger.Info("Product created", zap.String("product_id", product.ID))
	middleware.RespondOK(w, product)
}

// Update replaces an existing product
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "Invalid product data")
		return
	}

	product, err := h.productService.Update(r.Context(), chi.URLParam(r, "id"), req.toProduct())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Product not found")
		return
	}
	middleware.RespondOK(w, product)
}

// Delete removes a product
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.productService.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "Product not found")
		return
	}
	middleware.RespondOK(w, DeleteResponse{ID: id, Deleted: true})
}
