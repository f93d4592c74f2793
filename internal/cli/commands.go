package cli

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/client"
)

// EnvServer names the environment variable holding the server address
const EnvServer = "DESKCTL_SERVER"

// RootOptions are the flags shared by every command
type RootOptions struct {
	Server  string
	Session string
	Timeout time.Duration
	Output  OutputOptions
}

// Client builds an API client from the flags
func (o *RootOptions) Client() *client.Client {
	return client.New(o.Server, client.WithTimeout(o.Timeout))
}

// RequireSession returns the --session flag or an error
func (o *RootOptions) RequireSession() (string, error) {
	if o.Session == "" {
		return "", errors.New("requires --session (or create one with 'deskctl session create')")
	}
	return o.Session, nil
}

func (o *RootOptions) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.Timeout)
}

// New returns the deskctl root command
func New() *cobra.Command {
	opts := &RootOptions{}

	server := os.Getenv(EnvServer)
	if server == "" {
		server = client.DefaultBaseURL
	}

	cmd := &cobra.Command{
		Use:           "deskctl",
		Short:         "Drive a DeskFolio desktop server from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", server, "Server address ($"+EnvServer+").")
	cmd.PersistentFlags().StringVarP(&opts.Session, "session", "s", os.Getenv("DESKCTL_SESSION"), "Session id ($DESKCTL_SESSION).")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "Request timeout.")
	AddOutputArg(cmd, &opts.Output)

	AddCommands(cmd, opts)
	return cmd
}

// AddCommands registers every subcommand on topLevel
func AddCommands(topLevel *cobra.Command, opts *RootOptions) {
	addHealth(topLevel, opts)
	addSession(topLevel, opts)
	addWindows(topLevel, opts)
	addRun(topLevel, opts)
	addWallpaper(topLevel, opts)
	addNote(topLevel, opts)
	addSnapshots(topLevel, opts)
}
