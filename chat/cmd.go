package chat

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/buger/goterm"
	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tavisz/chatterbox/internal/cli"
	"github.com/tavisz/chatterbox/internal/configuration"
	"github.com/tavisz/chatterbox/internal/markdown"
)

const replyPollInterval = 100 * time.Millisecond

// NewCmd instantiates and returns the chat command.
func NewCmd(controller *Controller, config *configuration.Config) *cobra.Command {
	var opts struct {
		ChatID string
	}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Back and forth chat",
		Long:  "Back and forth chat",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()

			renderer, err := markdown.NewRenderer(goterm.Width())
			cobra.CheckErr(err)

			// Headers.
			session := controller.Session()
			name := session.DisplayName
			if name == "" {
				name = session.Email
			}
			cli.Title("CHATTERBOX CHAT [%s]", name)

			// Resume an existing chat if relevant.
			if opts.ChatID != "" {
				controller.SelectChat(opts.ChatID)
				cobra.CheckErr(controller.RefreshMessages(ctx, opts.ChatID))
				for _, message := range controller.View().Messages(opts.ChatID) {
					printMessage(renderer, message)
				}
			}

			replyTimeout := time.Duration(config.RequestTimeout) * time.Second
			for {
				// Query user for prompt.
				text, err := cli.PromptUser()
				if err == readline.ErrInterrupt || err == io.EOF {
					return
				}
				cobra.CheckErr(err)
				if strings.TrimSpace(text) == "" {
					continue
				}

				sentAt := time.Now()
				cobra.CheckErr(controller.SendUserMessage(ctx, text))

				// Quick feedback so user knows the reply is on its way.
				cli.BotOutput("BOT: ")
				reply, err := awaitBotReply(ctx, controller, sentAt, replyTimeout)
				cobra.CheckErr(err)
				cli.BotOutput("\n%s\n", renderer.Render(reply.Content))
			}
		},
	}

	cmd.Flags().StringVar(&opts.ChatID, "id", "", "resume the chat with this id")
	return cmd
}

// awaitBotReply polls the view until a bot message posted after sentAt shows
// up in the current chat.
func awaitBotReply(ctx context.Context, controller *Controller, sentAt time.Time, timeout time.Duration) (*Message, error) {
	chatID := controller.CurrentChatID()
	if chatID == "" {
		return nil, ErrNoActiveChat
	}

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(replyPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
		if time.Now().After(deadline) {
			return nil, errors.New("timed out waiting for a reply")
		}

		if err := controller.RefreshMessages(ctx, chatID); err != nil {
			return nil, err
		}
		messages := controller.View().Messages(chatID)
		if len(messages) == 0 {
			continue
		}
		last := messages[len(messages)-1]
		if last.Sender == SenderBot && !last.CreatedAt.Before(sentAt) {
			return last, nil
		}
	}
}

func printMessage(renderer *markdown.Renderer, message *Message) {
	if message.Sender == SenderUser {
		cli.UserInput("> %s\n", message.Content)
		return
	}
	cli.BotOutput(fmt.Sprintf("%s\n", renderer.Render(message.Content)))
}
