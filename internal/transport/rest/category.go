package rest

import (
	"encoding/json"
	"net/http"

	"github.com/evergreen/nursery/internal/catalog/model"
	"github.com/evergreen/nursery/pkg/web"
)

// ListCategories retrieves the entire category collection.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	list, err := h.categories.FindAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving category list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}
	web.RespondData(w, mLogger, http.StatusOK, list)
}

// CreateCategory inserts the request body verbatim, like CreateProduct.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var doc model.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.categories.Create(r.Context(), doc)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error creating category", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to add category")
		return
	}
	mLogger.InfoContext(r.Context(), "Category created successfully", "ID", id.Hex())
	web.RespondDataMeta(w, mLogger, http.StatusCreated, nil, map[string]any{"insertedId": id.Hex()})
}

// UpdateCategory merges the supplied fields into an existing category.
// Zero matched is still a success envelope.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
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

	matched, err := h.categories.Update(r.Context(), id, fields)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error updating category", "ID", id.Hex(), "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to update category")
		return
	}
	mLogger.InfoContext(r.Context(), "Category updated successfully", "ID", id.Hex(), "matched", matched)
	web.RespondDataMeta(w, mLogger, http.StatusOK, nil, map[string]any{"matchedCount": matched})
}

// DeleteCategory removes a category. No cascade: products referencing the
// category keep their reference.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseObjectID(w, r, mLogger)
	if !ok {
		return
	}

	deleted, err := h.categories.Delete(r.Context(), id)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error deleting category", "ID", id.Hex(), "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	mLogger.InfoContext(r.Context(), "Category deleted successfully", "ID", id.Hex(), "deleted", deleted)
	web.RespondDataMeta(w, mLogger, http.StatusOK, nil, map[string]any{"deletedCount": deleted})
}
