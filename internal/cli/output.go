package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	apihttp "github.com/GriffinCanCode/DeskFolio/backend/internal/api/http"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/session"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/terminal"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/window"
)

// OutputOptions selects machine-readable output
type OutputOptions struct {
	JSON bool
}

// AddOutputArg registers --json on cmd
func AddOutputArg(cmd *cobra.Command, oo *OutputOptions) {
	cmd.PersistentFlags().BoolVar(&oo.JSON, "json", false, "Output as JSON.")
}

// Printer writes command results either as JSON or as colored text
type Printer struct {
	out  io.Writer
	json bool
}

// NewPrinter returns a printer for cmd's output stream
func NewPrinter(cmd *cobra.Command, oo OutputOptions) *Printer {
	return &Printer{out: cmd.OutOrStdout(), json: oo.JSON}
}

// JSON reports whether the printer emits JSON
func (p *Printer) JSON() bool {
	return p.json
}

// Value prints v as indented JSON
func (p *Printer) Value(v any) error {
	b, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.out, string(b))
	return err
}

// Title prints a bold underlined heading
func (p *Printer) Title(title string) {
	_, _ = color.New(color.Bold, color.Underline).Fprintln(p.out, title)
}

// Field prints a faint key and its value
func (p *Printer) Field(key, value string) {
	_, _ = color.New(color.Faint).Fprintf(p.out, "%-12s", key)
	_, _ = fmt.Fprintln(p.out, value)
}

// Ok prints a green confirmation
func (p *Printer) Ok(format string, args ...any) {
	_, _ = color.New(color.FgGreen).Fprintf(p.out, format+"\n", args...)
}

// Warn prints a yellow notice
func (p *Printer) Warn(format string, args ...any) {
	_, _ = color.New(color.FgYellow).Fprintf(p.out, format+"\n", args...)
}

// None prints the faint placeholder for an empty list
func (p *Printer) None() {
	_, _ = color.New(color.Faint, color.Italic).Fprintln(p.out, " none")
}

// Windows prints windows in z-order, marking the active one
func (p *Printer) Windows(list []window.Window) {
	p.Title(fmt.Sprintf("Windows - %d", len(list)))
	if len(list) == 0 {
		p.None()
		return
	}
	active := color.New(color.FgHiCyan, color.Bold)
	for _, w := range list {
		marker := " "
		c := color.New()
		if w.IsActive {
			marker = "*"
			c = active
		}
		_, _ = c.Fprintf(p.out, "%s %-20s %-24s %4d,%-4d %4dx%-4d\n",
			marker, w.ID, w.Title, w.Position.X, w.Position.Y, w.Size.Width, w.Size.Height)
	}
}

// Sessions prints the live sessions
func (p *Printer) Sessions(list []session.Info) {
	p.Title(fmt.Sprintf("Sessions - %d", len(list)))
	if len(list) == 0 {
		p.None()
		return
	}
	faint := color.New(color.Faint)
	for _, s := range list {
		_, _ = fmt.Fprintf(p.out, "%-32s %2d windows ", s.ID, s.Windows)
		_, _ = faint.Fprintf(p.out, "last seen %s\n", s.LastSeen.Format("15:04:05"))
	}
}

// Snapshots prints saved layouts
func (p *Printer) Snapshots(list []session.SnapshotInfo) {
	p.Title(fmt.Sprintf("Snapshots - %d", len(list)))
	if len(list) == 0 {
		p.None()
		return
	}
	faint := color.New(color.Faint)
	for _, s := range list {
		_, _ = fmt.Fprintf(p.out, "%-32s %-20s %2d windows ", s.ID, s.Name, s.Windows)
		_, _ = faint.Fprintln(p.out, s.CreatedAt.Format("2006-01-02 15:04"))
	}
}

var lineColors = map[terminal.Style]*color.Color{
	terminal.StyleHeading: color.New(color.Bold),
	terminal.StyleAccent:  color.New(color.FgHiGreen),
	terminal.StyleMuted:   color.New(color.Faint),
	terminal.StyleLink:    color.New(color.FgBlue, color.Underline),
	terminal.StyleError:   color.New(color.FgRed),
}

// Terminal prints command output with per-line styling
func (p *Printer) Terminal(res apihttp.TerminalResult) {
	if res.Clear {
		p.Warn("(terminal cleared)")
		return
	}
	for _, line := range res.Output {
		c, ok := lineColors[line.Style]
		if !ok {
			c = color.New()
		}
		_, _ = c.Fprintln(p.out, line.Text)
	}
	if res.Action != nil {
		target := strings.TrimSpace(string(res.Action.Kind) + " " + res.Action.Panel)
		_, _ = color.New(color.Faint, color.Italic).Fprintf(p.out, "-> %s\n", target)
	}
}
