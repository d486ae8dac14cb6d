package cli

import (
	"os"

	"trivia-service/internal/client"
	"trivia-service/internal/console"

	"github.com/spf13/cobra"
)

type remoteFlags struct {
	server string
	token  string
}

func (f *remoteFlags) bind(cmd *cobra.Command) {
	server := os.Getenv("TRIVIA_API_URL")
	if server == "" {
		server = "http://localhost:8080"
	}
	cmd.Flags().StringVar(&f.server, "server", server, "base URL of the trivia API (env TRIVIA_API_URL)")
	cmd.Flags().StringVar(&f.token, "token", os.Getenv("TRIVIA_TOKEN"), "bearer token (env TRIVIA_TOKEN)")
}

func (f *remoteFlags) console(cmd *cobra.Command) *console.Console {
	api := client.New(f.server, client.WithToken(f.token))
	return console.New(api, cmd.InOrStdin(), cmd.OutOrStdout())
}

// NewPlayCmd plays one challenge against a running server.
func NewPlayCmd() *cobra.Command {
	var flags remoteFlags
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a challenge in the terminal and submit the score",
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.console(cmd).Play(cmd.Context())
		},
	}
	flags.bind(cmd)
	return cmd
}

// NewCreateCmd authors a quiz interactively.
func NewCreateCmd() *cobra.Command {
	var flags remoteFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Author a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.console(cmd).Create(cmd.Context())
		},
	}
	flags.bind(cmd)
	return cmd
}
