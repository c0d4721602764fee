package server

import (
	"net/http"
)

func (s *Server) handleInbox(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	chats, err := s.transport.ListChats(r.Context())
	if err != nil {
		http.Error(w, "Failed to list chats", http.StatusInternalServerError)
		return
	}

	chatViews := []ChatViewModel{}
	// Format timestamps for each chat
	for _, c := range chats {
		chatViews = append(chatViews, ChatViewModel{
			Chat:          c,
			FormattedTime: c.UpdatedAt.Local().Format("Jan 2, 2006 3:04 PM"),
		})
	}

	data := &PageData{
		Title: "Inbox",
		Chats: chatViews,
	}

	if err := s.tmpl.ExecuteTemplate(w, "base", data); err != nil {
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
}
