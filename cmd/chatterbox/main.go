package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tavisz/chatterbox/chat"
	"github.com/tavisz/chatterbox/demo"
	"github.com/tavisz/chatterbox/internal/configuration"
	"github.com/tavisz/chatterbox/internal/file"
	"github.com/tavisz/chatterbox/nhost"
	"github.com/tavisz/chatterbox/server"
	"github.com/tavisz/chatterbox/store"
)

const (
	configFilepath  = "~/.config/chatterbox/config.json"
	sessionFilepath = "~/.config/chatterbox/session.json"
)

var rootCmd = &cobra.Command{
	Use:     "chatterbox",
	Short:   "A CLI for chatting with a canned bot",
	Version: "1.0",
}

func main() {
	// A .env in the working directory can carry NHOST_* overrides.
	godotenv.Load()

	config, err := configuration.Parse(configFilepath)
	if err != nil {
		panic(err)
	}

	sessionPath, err := file.ExpandPath(sessionFilepath)
	if err != nil {
		panic(err)
	}

	var transport chat.Transport
	var session *chat.Session
	if config.Demo() {
		// No backend configured: run against the local sqlite store.
		s, err := store.New(config.Chat.Database)
		if err != nil {
			panic(err)
		}
		// Ensure store is closed when the program exits normally
		defer s.Close()
		session = demo.Session()
		transport = demo.NewTransport(s, session)
	} else {
		nhostConfig := nhost.Config{
			Subdomain: config.Nhost.Subdomain,
			Region:    config.Nhost.Region,
		}

		authSession, err := nhost.LoadSession(sessionPath)
		if err != nil {
			panic(err)
		}
		if authSession != nil && authSession.Expired() {
			refreshed, err := nhost.NewAuthClient(nhostConfig).Refresh(context.Background(), authSession.RefreshToken)
			if err == nil && refreshed != nil {
				refreshed.Save(sessionPath)
				authSession = refreshed
			}
		}

		token := ""
		if authSession != nil {
			session = authSession.User()
			token = authSession.AccessToken
		}
		transport = nhost.NewClient(nhostConfig, func() string { return token })

		rootCmd.AddCommand(nhost.NewLoginCmd(nhostConfig, sessionPath))
		rootCmd.AddCommand(nhost.NewSignupCmd(nhostConfig, sessionPath))
		rootCmd.AddCommand(nhost.NewLogoutCmd(nhostConfig, sessionPath))
	}

	controller := chat.NewController(transport, session, chat.NewResponder())
	rootCmd.AddCommand(chat.NewCmd(controller, config))
	rootCmd.AddCommand(chat.NewChatsCmd(controller))
	rootCmd.AddCommand(server.NewServeCmd(transport))
	rootCmd.Execute()
}
