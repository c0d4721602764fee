package store

import (
	"fmt"
	"time"
)

// TouchChat bumps a chat's updated_at timestamp.
func (s *Store) TouchChat(chatID string) error {
	result, err := s.db.Exec(`
		UPDATE chats SET updated_at = ? WHERE id = ?
	`, time.Now().UnixMicro(), chatID)
	if err != nil {
		return fmt.Errorf("updating chat timestamp: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("chat not found")
	}
	return nil
}
