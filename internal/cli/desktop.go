package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

func addWindows(topLevel *cobra.Command, opts *RootOptions) {
	cmd := &cobra.Command{
		Use:     "windows",
		Aliases: []string{"window", "win"},
		Short:   "List the session's windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := opts.RequireSession()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			list, err := opts.Client().Windows(ctx, sid)
			if err != nil {
				return err
			}
			p := NewPrinter(cmd, opts.Output)
			if p.JSON() {
				return p.Value(list)
			}
			p.Windows(list)
			return nil
		},
	}

	open := &cobra.Command{
		Use:     "open <panel>",
		Short:   "Open a panel, or focus it when already open",
		Example: "deskctl windows open about",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := opts.RequireSession()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			w, ok, err := opts.Client().OpenWindow(ctx, sid, args[0])
			if err != nil {
				return err
			}
			p := NewPrinter(cmd, opts.Output)
			if !ok {
				p.Warn("No panel named %q", args[0])
				return nil
			}
			if p.JSON() {
				return p.Value(w)
			}
			p.Ok("Opened %s", w.Title)
			return nil
		},
	}

	closeCmd := &cobra.Command{
		Use:   "close <window>",
		Short: "Close a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := opts.RequireSession()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			ok, err := opts.Client().CloseWindow(ctx, sid, args[0])
			if err != nil {
				return err
			}
			p := NewPrinter(cmd, opts.Output)
			if !ok {
				p.Warn("No window %q", args[0])
				return nil
			}
			p.Ok("Closing %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(open, closeCmd)
	topLevel.AddCommand(cmd)
}

func addRun(topLevel *cobra.Command, opts *RootOptions) {
	cmd := &cobra.Command{
		Use:   "run <command...>",
		Short: "Run a command in the session's terminal",
		Example: `
deskctl run help
deskctl run echo hello there
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a terminal command")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := opts.RequireSession()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			res, err := opts.Client().Run(ctx, sid, strings.Join(args, " "))
			if err != nil {
				return err
			}
			p := NewPrinter(cmd, opts.Output)
			if p.JSON() {
				return p.Value(res)
			}
			p.Terminal(res)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addWallpaper(topLevel *cobra.Command, opts *RootOptions) {
	var title string
	cmd := &cobra.Command{
		Use:   "wallpaper [image-ref]",
		Short: "Set the wallpaper, or reset it with no argument",
		Example: `
deskctl wallpaper /wallpapers/lake.jpg --title Lake
deskctl wallpaper
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := opts.RequireSession()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			c := opts.Client()
			p := NewPrinter(cmd, opts.Output)
			if len(args) == 0 {
				wp, err := c.ResetWallpaper(ctx, sid)
				if err != nil {
					return err
				}
				p.Ok("Wallpaper reset to %s", wp.Title)
				return nil
			}

			wp, err := c.SetWallpaper(ctx, sid, args[0], title)
			if err != nil {
				return err
			}
			if p.JSON() {
				return p.Value(wp)
			}
			p.Ok("Wallpaper set to %s", wp.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Wallpaper title.")
	topLevel.AddCommand(cmd)
}

func addNote(topLevel *cobra.Command, opts *RootOptions) {
	cmd := &cobra.Command{
		Use:     "note [text...]",
		Aliases: []string{"notes"},
		Short:   "Add a note, or list notes with no argument",
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := opts.RequireSession()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			c := opts.Client()
			p := NewPrinter(cmd, opts.Output)
			if len(args) == 0 {
				list, err := c.Notes(ctx, sid)
				if err != nil {
					return err
				}
				if p.JSON() {
					return p.Value(list)
				}
				p.Title("Notes - " + itoa(len(list)))
				if len(list) == 0 {
					p.None()
				}
				for _, n := range list {
					p.Field(n.Date.Format("Jan 02"), n.Content)
				}
				return nil
			}

			note, ok, err := c.AddNote(ctx, sid, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if !ok {
				p.Warn("Empty note ignored")
				return nil
			}
			if p.JSON() {
				return p.Value(note)
			}
			p.Ok("Added note %s", note.ID)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addSnapshots(topLevel *cobra.Command, opts *RootOptions) {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"snapshots", "snap"},
		Short:   "Save, list, restore and delete layout snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			list, err := opts.Client().Snapshots(ctx)
			if err != nil {
				return err
			}
			p := NewPrinter(cmd, opts.Output)
			if p.JSON() {
				return p.Value(list)
			}
			p.Snapshots(list)
			return nil
		},
	}

	var description string
	save := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the session's layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := opts.RequireSession()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			info, err := opts.Client().SaveSnapshot(ctx, sid, args[0], description)
			if err != nil {
				return err
			}
			p := NewPrinter(cmd, opts.Output)
			if p.JSON() {
				return p.Value(info)
			}
			p.Ok("Saved %s (%s)", info.Name, info.ID)
			return nil
		},
	}
	save.Flags().StringVarP(&description, "description", "d", "", "Snapshot description.")

	restore := &cobra.Command{
		Use:   "restore <snapshot-id>",
		Short: "Apply a snapshot to the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := opts.RequireSession()
			if err != nil {
				return err
			}
			ctx, cancel := opts.context(cmd)
			defer cancel()

			if err := opts.Client().RestoreSnapshot(ctx, sid, args[0]); err != nil {
				return err
			}
			NewPrinter(cmd, opts.Output).Ok("Restored %s", args[0])
			return nil
		},
	}

	del := &cobra.Command{
		Use:     "delete <snapshot-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a snapshot",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			if err := opts.Client().DeleteSnapshot(ctx, args[0]); err != nil {
				return err
			}
			NewPrinter(cmd, opts.Output).Ok("Deleted %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(save, restore, del)
	topLevel.AddCommand(cmd)
}
