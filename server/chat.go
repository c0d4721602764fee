package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tavisz/chatterbox/chat"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, chatID string) {
	chats, err := s.transport.ListChats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	selected := &chat.Chat{ID: chatID, Title: chatID}
	for _, c := range chats {
		if c.ID == chatID {
			selected = c
			break
		}
	}

	messages, err := s.transport.ListMessages(r.Context(), chatID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	messageViews := make([]MessageViewModel, 0, len(messages))
	for _, message := range messages {
		messageViews = append(messageViews, MessageViewModel{
			Message:       message,
			FormattedTime: message.CreatedAt.Local().Format(time.RFC822),
			IsBot:         message.Sender == chat.SenderBot,
		})
	}

	viewModel := &ChatViewModel{
		Chat:          selected,
		FormattedTime: selected.UpdatedAt.Local().Format(time.RFC822),
	}

	data := PageData{
		Title:    fmt.Sprintf("Chat %s", chatID),
		ShowBack: true,
		Chat:     viewModel,
		Messages: messageViews,
	}

	if err := s.tmpl.ExecuteTemplate(w, "base", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request, chatID string) {
	if err := s.transport.DeleteChat(r.Context(), chatID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// If the request is AJAX, return 200 OK
	if r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
		w.WriteHeader(http.StatusOK)
		return
	}

	// Otherwise redirect to inbox
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
