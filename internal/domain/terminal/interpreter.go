package terminal

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	unknownName = "unknown"
	dateLayout  = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"
)

type command struct {
	name string
	// usage and help are empty for aliases hidden from the help listing
	usage string
	help  string
	run   func(in *Interpreter, arg string) Result
}

// commands is the fixed table, in completion order. It is filled in init
// because help reads it.
var commands []command

func init() {
	commands = []command{
		{name: "help", usage: "help", run: (*Interpreter).help},
		{name: "about", usage: "about", help: "Display information about me", run: static(aboutText)},
		{name: "projects", usage: "projects", help: "List my projects", run: static(projectsText)},
		{name: "skills", usage: "skills", help: "Show my technical skills", run: static(skillsText)},
		{name: "contact", usage: "contact", help: "Display contact information", run: static(contactText)},
		{name: "certifications", usage: "certifications", help: "View my certifications", run: certifications},
		{name: "open certifications", run: opener("Opening certifications...",
			"Tip: You can also click the Certifications icon in the dock.", PanelCertifications)},
		{name: "gallery", usage: "gallery", help: "Open photo gallery", run: opener("Opening photo gallery...",
			"Tip: You can also click the Photos icon in the dock.", PanelGallery)},
		{name: "wallpaper", usage: "wallpaper", help: "Open wallpaper settings", run: opener("Opening wallpaper settings...",
			`Tip: You can also right-click on the desktop and select "Change Wallpaper".`, PanelWallpaperSettings)},
		{name: "default-wallpaper", usage: "default-wallpaper", help: "Reset to default wallpaper", run: resetWallpaper},
		{name: "reset-wallpaper", run: resetWallpaper},
		{name: "clear", usage: "clear", help: "Clear the terminal", run: func(*Interpreter, string) Result {
			return Result{Clear: true}
		}},
		{name: "neofetch", usage: "neofetch", help: "Display system information", run: (*Interpreter).neofetch},
		{name: "ls", usage: "ls", help: "List directory contents", run: static(lsText)},
		{name: "pwd", usage: "pwd", help: "Print working directory", run: static([]Line{plain(WorkingDirectory)})},
		{name: "date", usage: "date", help: "Display current date and time", run: (*Interpreter).date},
		{name: "echo", usage: "echo <text>", help: "Display a line of text", run: echo},
	}
}

// Names returns the completion table in order
func Names() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}
	return names
}

// Interpreter maps input lines to results
type Interpreter struct {
	now    func() time.Time
	uptime func() int
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithClock sets the time source used by date
func WithClock(now func() time.Time) Option {
	return func(in *Interpreter) {
		in.now = now
	}
}

// WithUptime sets the day count reported by neofetch
func WithUptime(days func() int) Option {
	return func(in *Interpreter) {
		in.uptime = days
	}
}

// uniformDays draws whole days from [lo, hi)
func uniformDays(lo, hi int) func() int {
	dist := distuv.Uniform{Min: float64(lo), Max: float64(hi)}
	return func() int { return int(dist.Rand()) }
}

// NewInterpreter creates an interpreter over the fixed command table
func NewInterpreter(opts ...Option) *Interpreter {
	in := &Interpreter{
		now:    time.Now,
		uptime: uniformDays(0, 100),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Normalize trims and lowercases an input line
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Interpret runs one input line. Blank input yields an empty result.
func (in *Interpreter) Interpret(raw string) Result {
	trimmed := strings.TrimSpace(raw)
	cmd := strings.ToLower(trimmed)
	if cmd == "" {
		return Result{}
	}

	for _, c := range commands {
		if c.name == "echo" {
			continue
		}
		if cmd == c.name {
			r := c.run(in, "")
			r.Name = c.name
			return r
		}
	}

	// echo keeps the case of its argument; bare echo is not a command
	if strings.HasPrefix(cmd, "echo ") {
		r := echo(in, strings.TrimPrefix(trimmed[len("echo"):], " "))
		r.Name = "echo"
		return r
	}

	return Result{
		Name: unknownName,
		Output: []Line{{
			Text:  fmt.Sprintf("command not found: %s. Type 'help' to see available commands.", cmd),
			Style: StyleError,
		}},
	}
}

// Complete returns the table entries that start with the lowercased input
func Complete(input string) []string {
	prefix := strings.ToLower(input)
	var matches []string
	for _, c := range commands {
		if strings.HasPrefix(c.name, prefix) {
			matches = append(matches, c.name)
		}
	}
	return matches
}

func (in *Interpreter) help(string) Result {
	out := []Line{plain("Available commands:")}
	for _, c := range commands {
		if c.help == "" {
			continue
		}
		out = append(out, plain(fmt.Sprintf("%s - %s", c.usage, c.help)))
	}
	return Result{Output: out}
}

func (in *Interpreter) neofetch(string) Result {
	out := []Line{
		heading("developer@macOS"),
		plain("-----------------------"),
	}
	for _, f := range systemInfo(in.uptime()) {
		out = append(out, plain(f))
	}
	return Result{Output: out}
}

func (in *Interpreter) date(string) Result {
	return Result{Output: []Line{plain(in.now().Format(dateLayout))}}
}

func static(lines []Line) func(*Interpreter, string) Result {
	return func(*Interpreter, string) Result {
		return Result{Output: append([]Line(nil), lines...)}
	}
}

func opener(message, tip, panel string) func(*Interpreter, string) Result {
	return func(*Interpreter, string) Result {
		return Result{
			Output: []Line{heading(message), muted(tip)},
			Action: OpenPanel(panel),
		}
	}
}

func certifications(*Interpreter, string) Result {
	out := append([]Line(nil), certificationsText...)
	out = append(out, muted("Type open certifications to view in the Certifications app."))
	return Result{Output: out, Action: OpenPanel(PanelCertifications)}
}

func resetWallpaper(*Interpreter, string) Result {
	return Result{
		Output: []Line{heading("Resetting wallpaper to default...")},
		Action: ResetWallpaper(),
	}
}

func echo(_ *Interpreter, text string) Result {
	return Result{Output: []Line{plain(text)}}
}
