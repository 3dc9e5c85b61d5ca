package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/regear/marketplace/internal/errors"
	"github.com/regear/marketplace/internal/service"
	"github.com/regear/marketplace/pkg/web"
)

// FindAllItems retrieves a list of all items.
func (h *Handler) FindAllItems(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	list, err := h.items.FindAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving item list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch items")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved item list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindItemByID retrieves an item by its ID.
func (h *Handler) FindItemByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.items.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrItemNotFound) {
			mLogger.WarnContext(r.Context(), "Item not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Item with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving item", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve item with ID %d", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// CreateItem handles the creation of a new item.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var candidate service.ItemCreateDto
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	newItem, err := h.items.Create(r.Context(), candidate)
	if err != nil {
		if respondValidationErrors(w, mLogger, err) {
			return
		}
		if errors.Is(err, apperrors.ErrUnknownProduct) {
			mLogger.WarnContext(r.Context(), "Item references unknown product", "ProductID", candidate.ProductID)
			web.RespondError(w, mLogger, http.StatusBadRequest, fmt.Sprintf("Product with ID %d does not exist", candidate.ProductID))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error creating item", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create item")
		return
	}
	mLogger.InfoContext(r.Context(), "Item created successfully", "ID", newItem.ID, "ProductID", newItem.ProductID)
	w.Header().Set("Location", fmt.Sprintf("/api/v1/items/%d", newItem.ID))
	web.RespondJSON(w, mLogger, http.StatusCreated, newItem)
}

// UpdateItem replaces an item's mutable fields.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var candidate service.ItemCreateDto
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.items.Update(r.Context(), id, candidate)
	if err != nil {
		if respondValidationErrors(w, mLogger, err) {
			return
		}
		if errors.Is(err, apperrors.ErrUnknownProduct) {
			mLogger.WarnContext(r.Context(), "Item references unknown product", "ProductID", candidate.ProductID)
			web.RespondError(w, mLogger, http.StatusBadRequest, fmt.Sprintf("Product with ID %d does not exist", candidate.ProductID))
			return
		}
		if errors.Is(err, apperrors.ErrItemNotFound) {
			mLogger.WarnContext(r.Context(), "Item not found for update", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Item with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating item", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to update item with ID %d", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Item updated successfully", "ID", updated.ID)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteItemByID deletes an item by its ID.
func (h *Handler) DeleteItemByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	if err := h.items.DeleteByID(r.Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrItemNotFound) {
			mLogger.WarnContext(r.Context(), "Item not found for deletion", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Item with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting item", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete item with ID %d", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Item deleted successfully", "ID", id)
	w.WriteHeader(http.StatusOK)
}
