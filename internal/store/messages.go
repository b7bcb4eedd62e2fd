package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/bazar/internal/model"
)

const messageSelect = `SELECT m.id, m.sender_id, m.receiver_id, m.listing_id, m.content, m.created_at,
	       su.name AS sender_name, ru.name AS receiver_name, l.title AS listing_title
	FROM messages m
	JOIN users su ON su.id = m.sender_id
	JOIN users ru ON ru.id = m.receiver_id
	JOIN listings l ON l.id = m.listing_id`

// CreateMessage appends a message.
func CreateMessage(ctx context.Context, db *sql.DB, senderID, receiverID, listingID int64, content string) (*model.Message, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO messages (sender_id, receiver_id, listing_id, content) VALUES (?, ?, ?, ?)`,
		senderID, receiverID, listingID, content,
	)
	if err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting message id: %w", err)
	}

	return GetMessage(ctx, db, id)
}

// GetMessage returns a message by ID.
func GetMessage(ctx context.Context, db *sql.DB, id int64) (*model.Message, error) {
	rows, err := db.QueryContext(ctx, messageSelect+` WHERE m.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting message: %w", err)
	}
	defer rows.Close()

	msgs, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, nil
	}
	return &msgs[0], nil
}

// ListMessages returns every message sent or received by userID in
// conversation order (oldest first). A non-zero withUserID keeps only the
// conversation with that user; a non-zero listingID keeps only messages
// about that listing.
func ListMessages(ctx context.Context, db *sql.DB, userID, withUserID, listingID int64) ([]model.Message, error) {
	query := messageSelect
	var args []any

	if withUserID > 0 {
		query += ` WHERE ((m.sender_id = ? AND m.receiver_id = ?) OR (m.sender_id = ? AND m.receiver_id = ?))`
		args = append(args, userID, withUserID, withUserID, userID)
	} else {
		query += ` WHERE (m.sender_id = ? OR m.receiver_id = ?)`
		args = append(args, userID, userID)
	}
	if listingID > 0 {
		query += ` AND m.listing_id = ?`
		args = append(args, listingID)
	}

	query += ` ORDER BY m.created_at ASC, m.id ASC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]model.Message, error) {
	var msgs []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.ListingID, &m.Content, &m.CreatedAt,
			&m.SenderName, &m.ReceiverName, &m.ListingTitle); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
