package store

import "fmt"

// DeleteChat removes a chat and all of its messages.
func (s *Store) DeleteChat(chatID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Messages first, then the chat row.
	if _, err := tx.Exec(`DELETE FROM messages WHERE chat_id = ?`, chatID); err != nil {
		return fmt.Errorf("deleting messages: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM chats WHERE id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("deleting chat: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("chat not found")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
