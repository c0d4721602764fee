package nhost

import (
	"github.com/spf13/cobra"

	"github.com/tavisz/chatterbox/internal/cli"
)

// NewLoginCmd instantiates and returns the login command.
func NewLoginCmd(config Config, sessionPath string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the backend",
		Long:  "Sign in to the backend with email and password",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			email, err := cli.QueryUserInput("Email:")
			cobra.CheckErr(err)
			password, err := cli.QueryUserSecret("Password:")
			cobra.CheckErr(err)

			client := NewAuthClient(config)
			session, err := client.SignIn(cmd.Context(), email, password)
			cobra.CheckErr(err)
			if session == nil {
				cli.Info("no session issued; verify your email, then try again\n")
				return
			}
			cobra.CheckErr(session.Save(sessionPath))
			cli.Info("logged in as %s\n", session.Email)
		},
	}
	return cmd
}

// NewSignupCmd instantiates and returns the signup command.
func NewSignupCmd(config Config, sessionPath string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new account",
		Long:  "Register a new account with email and password",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			email, err := cli.QueryUserInput("Email:")
			cobra.CheckErr(err)
			displayName, err := cli.QueryUserInput("Display name:")
			cobra.CheckErr(err)
			password, err := cli.QueryUserSecret("Password:")
			cobra.CheckErr(err)

			client := NewAuthClient(config)
			session, err := client.SignUp(cmd.Context(), email, password, displayName)
			cobra.CheckErr(err)
			if session == nil {
				cli.Info("account created; verify your email, then run login\n")
				return
			}
			cobra.CheckErr(session.Save(sessionPath))
			cli.Info("signed up as %s\n", session.Email)
		},
	}
	return cmd
}

// NewLogoutCmd instantiates and returns the logout command.
func NewLogoutCmd(config Config, sessionPath string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Long:  "Invalidate the stored session and remove it",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			session, err := LoadSession(sessionPath)
			cobra.CheckErr(err)
			if session == nil {
				cli.Info("not logged in\n")
				return
			}

			client := NewAuthClient(config)
			if err := client.SignOut(cmd.Context(), session.RefreshToken); err != nil {
				// The local session goes away regardless.
				cli.Info("backend sign-out failed: %v\n", err)
			}
			cobra.CheckErr(RemoveSession(sessionPath))
			cli.Info("logged out\n")
		},
	}
	return cmd
}
