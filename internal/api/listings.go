package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/bazar/internal/market"
	"github.com/erazemk/bazar/internal/model"
	"github.com/erazemk/bazar/internal/store"
)

// ListingsHandler handles listing endpoints.
type ListingsHandler struct {
	Listings *market.ListingGuard
}

type createListingRequest struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Price          *float64  `json:"price"`
	IsFree         bool      `json:"is_free"`
	IsTrade        bool      `json:"is_trade"`
	AvailableUntil time.Time `json:"available_until"`
	Category       string    `json:"category"`
	Location       string    `json:"location"`
}

// Create handles POST /api/listings.
func (h *ListingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createListingRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	listing, err := h.Listings.Create(r.Context(), claims.UserID, model.Listing{
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		IsFree:         req.IsFree,
		IsTrade:        req.IsTrade,
		AvailableUntil: req.AvailableUntil,
		Category:       req.Category,
		Location:       req.Location,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusCreated, listing)
}

// List handles GET /api/listings.
func (h *ListingsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.ListingFilter{
		Category: q.Get("category"),
		Location: q.Get("location"),
	}

	ownerID, ok := queryID(r, "owner_id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid owner_id")
		return
	}
	f.OwnerID = ownerID

	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"min_price", &f.MinPrice},
		{"max_price", &f.MaxPrice},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || !model.ValidPrice(price) {
			jsonError(w, http.StatusBadRequest, "invalid "+p.name)
			return
		}
		*p.dst = price
	}

	if v := q.Get("include_expired"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid include_expired")
			return
		}
		f.IncludeExpired = include
	}

	listings, err := h.Listings.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if listings == nil {
		listings = []model.Listing{}
	}

	jsonResponse(w, http.StatusOK, listings)
}

// Get handles GET /api/listings/{id}.
func (h *ListingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	listing, err := h.Listings.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, listing)
}

// Delete handles DELETE /api/listings/{id}.
func (h *ListingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.Listings.Delete(r.Context(), id, claims.UserID); err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "listing deleted"})
}
