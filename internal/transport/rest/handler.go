// Package rest provides HTTP handlers for catalog operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	caterrors "github.com/evergreen/nursery/internal/catalog/errors"
	"github.com/evergreen/nursery/internal/catalog/model"
	"github.com/evergreen/nursery/internal/catalog/service"
	"github.com/evergreen/nursery/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// livenessMessage is returned by the root route.
const livenessMessage = "Welcome to evergreen nursery server."

type Handler struct {
	products   service.ProductService
	categories service.CategoryService
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewHandler creates a new instance of the catalog API with the provided services.
func NewHandler(products service.ProductService, categories service.CategoryService, logger *slog.Logger) *Handler {
	return &Handler{
		products:   products,
		categories: categories,
		validate:   validator.New(),
		logger:     logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the catalog service.
// The paths mirror the public API contract, including the asymmetric
// category route names.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindProductByID)
			r.Put("/", h.UpdateProduct)
			r.Delete("/", h.DeleteProduct)
		})
	})
	r.Get("/search", h.SearchProducts)
	r.Put("/update-quantities", h.UpdateQuantities)

	r.Get("/categories", h.ListCategories)
	r.Post("/addCategory", h.CreateCategory)
	r.Put("/updateCategory/{id}", h.UpdateCategory)
	r.Delete("/deleteCategory/{id}", h.DeleteCategory)

	r.Get("/", h.Liveness)
	r.Get("/healthz", h.HealthCheck)
}

// ListProducts retrieves products. When both page and pageSize parse to
// positive integers the response is one sorted page plus the total count in
// the meta section; otherwise it is the entire collection.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	page := web.QueryPositiveInt(r, "page")
	pageSize := web.QueryPositiveInt(r, "pageSize")

	if page > 0 && pageSize > 0 {
		q := service.PageRequest{
			Page:     page,
			PageSize: pageSize,
			Sort:     web.QueryString(r, "sort", service.DefaultSortField),
			Desc:     r.URL.Query().Get("sortOrder") == "desc",
		}
		mLogger.DebugContext(r.Context(), "Received request to list product page",
			"page", q.Page, "pageSize", q.PageSize, "sort", q.Sort, "desc", q.Desc)
		result, err := h.products.FindPage(r.Context(), q)
		if err != nil {
			mLogger.ErrorContext(r.Context(), "Error retrieving product page", "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to retrieve products")
			return
		}
		web.RespondDataMeta(w, mLogger, http.StatusOK, result.Items, map[string]any{
			"totalCount": result.TotalCount,
			"page":       q.Page,
			"pageSize":   q.PageSize,
		})
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to list all products")
	list, err := h.products.FindAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	web.RespondData(w, mLogger, http.StatusOK, list)
}

// FindProductByID retrieves a product by its ID.
func (h *Handler) FindProductByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseObjectID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id.Hex())
	found, err := h.products.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, caterrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id.Hex())
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id.Hex()))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id.Hex(), "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %s", id.Hex()))
		return
	}
	web.RespondData(w, mLogger, http.StatusOK, found)
}

// CreateProduct inserts the request body verbatim. Product documents are
// schema-less; no field validation happens here.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var doc model.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.products.Create(r.Context(), doc)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to add product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", id.Hex())
	web.RespondDataMeta(w, mLogger, http.StatusCreated, nil, map[string]any{"insertedId": id.Hex()})
}

// UpdateProduct merges the supplied fields into an existing product. A
// well-formed ID that matches nothing still yields a success envelope; the
// matched count in the meta section tells the two cases apart.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseObjectID(w, r, mLogger)
	if !ok {
		return
	}
	var fields model.Document
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	matched, err := h.products.Update(r.Context(), id, fields)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error updating product", "ID", id.Hex(), "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to update product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", id.Hex(), "matched", matched)
	web.RespondDataMeta(w, mLogger, http.StatusOK, nil, map[string]any{"matchedCount": matched})
}

// DeleteProduct removes a product. Deleting an absent ID is a no-op success.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseObjectID(w, r, mLogger)
	if !ok {
		return
	}

	deleted, err := h.products.Delete(r.Context(), id)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error deleting product", "ID", id.Hex(), "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id.Hex(), "deleted", deleted)
	web.RespondDataMeta(w, mLogger, http.StatusOK, nil, map[string]any{"deletedCount": deleted})
}

// SearchProducts matches the title term as a case-insensitive substring.
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	title := r.URL.Query().Get("title")
	if title == "" {
		web.RespondError(w, mLogger, http.StatusBadRequest, "Title query parameter is required")
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to search products", "title", title)
	matches, err := h.products.Search(r.Context(), title)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error searching products", "title", title, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to search products")
		return
	}
	web.RespondData(w, mLogger, http.StatusOK, matches)
}

// quantitiesUpdateDto is the bulk stock decrement request body.
type quantitiesUpdateDto struct {
	Items []service.DecrementItem `json:"items" validate:"required,min=1,dive"`
}

// UpdateQuantities applies a sequence of stock decrements in input order.
// The item list is validated before any write; a store failure mid-batch
// stops the loop, and the error response still reports the decrements that
// were already applied and stay committed.
func (h *Handler) UpdateQuantities(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto quantitiesUpdateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(dto); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			// If the error is a validation error, we can extract field-specific errors.
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				// fieldErr.Tag() returns "required", "gt", etc.
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	report, err := h.products.DecrementQuantities(r.Context(), dto.Items)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error updating quantities", "applied", len(report.Applied), "error", err)
		web.RespondJSON(w, mLogger, http.StatusInternalServerError, map[string]any{
			"error": "Failed to update quantities",
			"meta":  map[string]any{"applied": report.Applied},
		})
		return
	}
	mLogger.InfoContext(r.Context(), "Quantities updated successfully", "items", len(report.Applied))
	web.RespondData(w, mLogger, http.StatusOK, report.Applied)
}

// Liveness returns the plain greeting used as a liveness probe by the client.
func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(livenessMessage))
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
