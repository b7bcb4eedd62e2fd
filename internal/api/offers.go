package api

import (
	"fmt"
	"net/http"

	"github.com/erazemk/bazar/internal/market"
	"github.com/erazemk/bazar/internal/model"
)

// OffersHandler handles offer endpoints.
type OffersHandler struct {
	Offers *market.OfferEngine
}

type createOfferRequest struct {
	ListingID    int64   `json:"listing_id"`
	OfferedPrice float64 `json:"offered_price"`
	Message      string  `json:"message"`
}

type updateOfferRequest struct {
	Status       model.OfferStatus `json:"status"`
	CounterPrice *float64          `json:"counter_price"`
}

type updateOfferResponse struct {
	Offer   *model.Offer `json:"offer"`
	Message string       `json:"message"`
}

// Create handles POST /api/offers.
func (h *OffersHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createOfferRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ListingID <= 0 {
		jsonError(w, http.StatusBadRequest, "listing_id required")
		return
	}

	offer, err := h.Offers.Create(r.Context(), claims.UserID, req.ListingID, req.OfferedPrice, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusCreated, offer)
}

// List handles GET /api/offers.
func (h *OffersHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	q := market.OfferQuery{Status: model.OfferStatus(r.URL.Query().Get("status"))}
	switch role := r.URL.Query().Get("role"); role {
	case "":
	case "buyer":
		q.Role = model.PartyBuyer
	case "seller":
		q.Role = model.PartySeller
	default:
		jsonError(w, http.StatusBadRequest, "role must be buyer or seller")
		return
	}

	listingID, ok := queryID(r, "listing_id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid listing_id")
		return
	}
	q.ListingID = listingID

	offers, err := h.Offers.List(r.Context(), claims.UserID, q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if offers == nil {
		offers = []model.Offer{}
	}

	jsonResponse(w, http.StatusOK, offers)
}

// Get handles GET /api/offers/{id}.
func (h *OffersHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	offer, err := h.Offers.Get(r.Context(), id, claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, offer)
}

// Update handles PATCH /api/offers/{id}.
func (h *OffersHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req updateOfferRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	offer, err := h.Offers.Transition(r.Context(), market.TransitionRequest{
		OfferID:      id,
		ActorID:      claims.UserID,
		Status:       req.Status,
		CounterPrice: req.CounterPrice,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, updateOfferResponse{
		Offer:   offer,
		Message: fmt.Sprintf("offer %s successfully", offer.Status),
	})
}

// Delete handles DELETE /api/offers/{id}.
func (h *OffersHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Offers.Delete(r.Context(), id, claims.UserID); err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "offer deleted"})
}
