package chat

import (
	"github.com/spf13/cobra"

	"github.com/tavisz/chatterbox/internal/cli"
)

// NewChatsCmd instantiates and returns the chats command.
func NewChatsCmd(controller *Controller) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chats",
		Short: "List all chats",
		Long:  "List all chats",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			cobra.CheckErr(controller.RefreshChats(ctx))

			// Headers.
			cli.Title("CHATTERBOX CHATS")

			for _, chat := range controller.View().Chats() {
				cli.UserCommand("chat (%s) - %s\n", chat.ID, chat.Title)
				cli.Info("  updated %s\n", chat.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
				if chat.LastMessage != nil {
					cli.UserInput("  > %s\n", chat.LastMessage.Content)
				}
			}
		},
	}

	cmd.AddCommand(newDeleteCmd(controller))
	return cmd
}

// newDeleteCmd instantiates and returns the chats delete command.
func newDeleteCmd(controller *Controller) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [chat-id]",
		Short: "Delete a chat",
		Long:  "Delete a chat and all of its messages",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			chatID := args[0]
			if !cli.QueryUser("Delete this chat and all of its messages?") {
				return
			}
			cobra.CheckErr(controller.DeleteChat(cmd.Context(), chatID))
			cli.Info("deleted chat %s\n", chatID)
		},
	}
	return cmd
}
