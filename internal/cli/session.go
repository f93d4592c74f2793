package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"
)

func addHealth(topLevel *cobra.Command, opts *RootOptions) {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			out, err := opts.Client().Health(ctx)
			if err != nil {
				return err
			}
			p := NewPrinter(cmd, opts.Output)
			if p.JSON() {
				return p.Value(out)
			}
			status, _ := out["status"].(string)
			p.Ok("%s is %s", opts.Server, status)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addSession(topLevel *cobra.Command, opts *RootOptions) {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions"},
		Short:   "Create, list and close desktop sessions",
	}

	var req types.CreateSessionRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Start a desktop session",
		Example: `
deskctl session create --width 1440 --height 900
export DESKCTL_SESSION=$(deskctl session create --quiet)
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			created, err := opts.Client().CreateSession(ctx, req)
			if err != nil {
				return err
			}
			p := NewPrinter(cmd, opts.Output)
			if p.JSON() {
				return p.Value(created)
			}
			if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), created.SessionID)
				return err
			}
			p.Ok("Session %s", created.SessionID)
			p.Field("viewport", formatSize(created.Desktop.Viewport))
			p.Field("wallpaper", created.Desktop.Wallpaper.Title)
			return nil
		},
	}
	create.Flags().IntVar(&req.Width, "width", 0, "Viewport width.")
	create.Flags().IntVar(&req.Height, "height", 0, "Viewport height.")
	create.Flags().StringVar(&req.Resume, "resume", "", "Resume the persisted layout of a previous session id.")
	create.Flags().BoolP("quiet", "q", false, "Print only the session id.")

	list := &cobra.Command{
		Use:   "list",
		Short: "List live sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			sessions, err := opts.Client().Sessions(ctx)
			if err != nil {
				return err
			}
			p := NewPrinter(cmd, opts.Output)
			if p.JSON() {
				return p.Value(sessions)
			}
			p.Sessions(sessions)
			return nil
		},
	}

	closeCmd := &cobra.Command{
		Use:   "close",
		Short: "Close the session named by --session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := opts.RequireSession()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			if err := opts.Client().CloseSession(ctx, sid); err != nil {
				return err
			}
			NewPrinter(cmd, opts.Output).Ok("Closed %s", sid)
			return nil
		},
	}

	cmd.AddCommand(create, list, closeCmd)
	topLevel.AddCommand(cmd)
}

func formatSize(s types.Size) string {
	return itoa(s.Width) + "x" + itoa(s.Height)
}
