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

// FindAllListings retrieves a list of all listings.
func (h *Handler) FindAllListings(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	list, err := h.listings.FindAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving listing list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch listings")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved listing list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindActiveListings retrieves the listings whose sale window contains now.
func (h *Handler) FindActiveListings(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	list, err := h.listings.FindActive(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving active listings", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch active listings")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved active listings", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindListingByID retrieves a listing by its ID.
func (h *Handler) FindListingByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.listings.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrListingNotFound) {
			mLogger.WarnContext(r.Context(), "Listing not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Listing with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving listing", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve listing with ID %d", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// CreateListing handles the creation of a new listing.
func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var candidate service.ListingCreateDto
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	newListing, err := h.listings.Create(r.Context(), candidate)
	if err != nil {
		if respondValidationErrors(w, mLogger, err) {
			return
		}
		mLogger.ErrorContext(r.Context(), "Error creating listing", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create listing")
		return
	}
	mLogger.InfoContext(r.Context(), "Listing created successfully", "ID", newListing.ID, "Name", newListing.Name)
	w.Header().Set("Location", fmt.Sprintf("/api/v1/listings/%d", newListing.ID))
	web.RespondJSON(w, mLogger, http.StatusCreated, newListing)
}

// UpdateListing replaces a listing's mutable fields.
func (h *Handler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var candidate service.ListingCreateDto
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.listings.Update(r.Context(), id, candidate)
	if err != nil {
		if respondValidationErrors(w, mLogger, err) {
			return
		}
		if errors.Is(err, apperrors.ErrListingNotFound) {
			mLogger.WarnContext(r.Context(), "Listing not found for update", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Listing with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating listing", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to update listing with ID %d", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Listing updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteListingByID deletes a listing by its ID.
func (h *Handler) DeleteListingByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	if err := h.listings.DeleteByID(r.Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrListingNotFound) {
			mLogger.WarnContext(r.Context(), "Listing not found for deletion", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Listing with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting listing", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete listing with ID %d", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Listing deleted successfully", "ID", id)
	w.WriteHeader(http.StatusOK)
}

// SetListingItems replaces the listing's entire item set with the ids in the
// request body.
func (h *Handler) SetListingItems(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var itemIDs []int64
	if err := json.NewDecoder(r.Body).Decode(&itemIDs); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.listings.SetItems(r.Context(), id, itemIDs); err != nil {
		if errors.Is(err, apperrors.ErrListingNotFound) {
			mLogger.WarnContext(r.Context(), "Listing not found for item assignment", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Listing with ID %d not found", id))
			return
		}
		if errors.Is(err, apperrors.ErrUnknownItem) {
			mLogger.WarnContext(r.Context(), "Item set references unknown item", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
			return
		}
		mLogger.ErrorContext(r.Context(), "Error setting items for listing", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to set items for listing with ID %d", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Listing items replaced successfully", "ID", id, "count", len(itemIDs))
	w.WriteHeader(http.StatusNoContent)
}

// FindListingItems returns the hydrated items associated with the listing.
func (h *Handler) FindListingItems(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	items, err := h.listings.Items(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrListingNotFound) {
			mLogger.WarnContext(r.Context(), "Listing not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Listing with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving items for listing", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch items for listing with ID %d", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, items)
}
