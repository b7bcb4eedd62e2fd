package model

import "time"

// Message is a free-text note between two users about a listing.
// Messages are never edited.
type Message struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	ListingID  int64     `json:"listing_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`

	// Joined fields (not always populated).
	SenderName   string `json:"sender_name,omitempty"`
	ReceiverName string `json:"receiver_name,omitempty"`
	ListingTitle string `json:"listing_title,omitempty"`
}
