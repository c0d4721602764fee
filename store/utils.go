package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tavisz/chatterbox/chat"
)

func scanChat(row interface{ Scan(...interface{}) error }) (*chat.Chat, error) {
	scanned := &chat.Chat{}
	var createdAt, updatedAt int64

	if err := row.Scan(&scanned.ID, &scanned.UserID, &scanned.Title, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	scanned.CreatedAt = time.UnixMicro(createdAt)
	scanned.UpdatedAt = time.UnixMicro(updatedAt)
	return scanned, nil
}

func scanMessage(row interface{ Scan(...interface{}) error }) (*chat.Message, error) {
	scanned := &chat.Message{}
	var sender string
	var createdAt int64

	if err := row.Scan(&scanned.ID, &scanned.ChatID, &scanned.UserID, &scanned.Content, &sender, &createdAt); err != nil {
		return nil, err
	}

	scanned.Sender = chat.Sender(sender)
	scanned.CreatedAt = time.UnixMicro(createdAt)
	return scanned, nil
}

// scanMessages helps avoid duplicate message scanning code.
func scanMessages(rows *sql.Rows) ([]*chat.Message, error) {
	var messages []*chat.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message rows: %w", err)
	}
	return messages, nil
}
