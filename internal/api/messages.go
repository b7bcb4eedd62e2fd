package api

import (
	"net/http"

	"github.com/erazemk/bazar/internal/market"
	"github.com/erazemk/bazar/internal/model"
)

// MessagesHandler handles direct message endpoints.
type MessagesHandler struct {
	Messaging *market.Messaging
}

type sendMessageRequest struct {
	ReceiverID int64  `json:"receiver_id"`
	ListingID  int64  `json:"listing_id"`
	Content    string `json:"content"`
}

// Send handles POST /api/messages.
func (h *MessagesHandler) Send(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := h.Messaging.Send(r.Context(), claims.UserID, req.ReceiverID, req.ListingID, req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusCreated, msg)
}

// List handles GET /api/messages.
func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	withID, ok := queryID(r, "with")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid with")
		return
	}
	listingID, ok := queryID(r, "listing_id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid listing_id")
		return
	}

	msgs, err := h.Messaging.List(r.Context(), claims.UserID, withID, listingID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []model.Message{}
	}

	jsonResponse(w, http.StatusOK, msgs)
}
