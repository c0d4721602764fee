package server

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/spf13/cobra"

	"github.com/tavisz/chatterbox/chat"
)

//go:embed templates
var templatesFS embed.FS

// PageData is the payload handed to every page template.
type PageData struct {
	Title    string
	ShowBack bool
	Chat     *ChatViewModel
	Messages []MessageViewModel
	Chats    []ChatViewModel
}

// ChatViewModel represents a chat with formatted time for the template
type ChatViewModel struct {
	*chat.Chat
	FormattedTime string
}

// MessageViewModel represents a message with formatted time for the template
type MessageViewModel struct {
	*chat.Message
	FormattedTime string
	IsBot         bool
}

// NewServeCmd creates a new serve command
func NewServeCmd(transport chat.Transport) *cobra.Command {
	var opts struct {
		Port int
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a web interface for viewing chats",
		Long:  "Serve a web interface for viewing chats",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := &Server{
				transport: transport,
			}
			return server.Start(opts.Port)
		},
	}

	cmd.Flags().IntVarP(&opts.Port, "port", "p", 3030, "Port to serve on")
	return cmd
}

// Server handles the web interface
type Server struct {
	transport chat.Transport
	tmpl      *template.Template
}

func (s *Server) Start(port int) error {
	funcMap := sprig.HtmlFuncMap()
	funcMap["formatMessage"] = formatMessage

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS,
		"templates/*.tmpl",
		"templates/pages/*.tmpl",
	)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}
	s.tmpl = tmpl

	http.HandleFunc("/", s.handleInbox)
	http.HandleFunc("/chat/", s.handleChatRoutes)

	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("Server starting on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, nil)
}

func (s *Server) handleChatRoutes(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 3 {
		http.NotFound(w, r)
		return
	}

	chatID := parts[2]

	switch {
	case r.Method == "GET" && len(parts) == 3:
		s.handleChat(w, r, chatID)
	case r.Method == "DELETE" && len(parts) == 3:
		s.handleDeleteChat(w, r, chatID)
	default:
		http.NotFound(w, r)
	}
}

// formatMessage renders message content for HTML, preserving line breaks.
func formatMessage(content string) template.HTML {
	escaped := template.HTMLEscapeString(content)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}
