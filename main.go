package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/mcncl/unfold/internal/app"
	"github.com/mcncl/unfold/internal/config"
	"github.com/mcncl/unfold/internal/errors"
	"github.com/mcncl/unfold/internal/formatter"
	"github.com/mcncl/unfold/internal/logging"
	"github.com/mcncl/unfold/internal/models"
	"github.com/mcncl/unfold/internal/parser"
	"github.com/mcncl/unfold/internal/tui"
	"github.com/mcncl/unfold/internal/watcher"
)

// CLI defines the command-line interface
var CLI struct {
	File          string `arg:"" optional:"" help:"JSON file to view. Reads stdin when omitted or '-'."`
	Config        string `help:"Path to a config file. Defaults to .unfold.yml in the working directory or its parents." type:"path"`
	Theme         string `help:"Color theme: dark or light."`
	Search        string `help:"Start with this search query." short:"s"`
	CaseSensitive bool   `help:"Make the search case-sensitive." short:"c"`
	Regex         bool   `help:"Treat the search query as a regular expression." short:"e"`
	Path          string `help:"Select the node at this path, e.g. users[0].email." short:"p"`
	Depth         int    `help:"Expand containers up to this depth on load." default:"-1"`
	ExpandAll     bool   `help:"Expand every node on load." short:"a"`
	Print         bool   `help:"Print the selected node instead of opening the viewer. Implied when stdout is not a terminal."`
	Minify        bool   `help:"Print minified JSON." short:"m"`
	Watch         bool   `help:"Reload the file when it changes." short:"w"`
	Debug         bool   `help:"Enable debug logging." short:"d"`
	LogFile       string `help:"Write logs to this file." type:"path"`
	Version       bool   `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	// ConfigPath is where theme changes are saved
	ConfigPath string
	Stdin      io.Reader
	Stdout     io.Writer
	// Interactive runs the viewer; otherwise the selection is printed
	Interactive bool
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("unfold"),
		kong.Description("Browse, search and copy from JSON documents in the terminal"),
		kong.UsageOnError(),
	)

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		parser.FatalIfErrorf(err)
	}

	if CLI.Version {
		fmt.Printf("unfold version %s\n", Version)
		return
	}

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, cliOverrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
	if configPath == "" {
		configPath = config.UserConfigPath()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactive := !CLI.Print && isatty.IsTerminal(os.Stdout.Fd())
	err = run(ctx, &Context{
		Debug:       CLI.Debug,
		Config:      cfg,
		ConfigPath:  configPath,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Interactive: interactive,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: unfold --help\n")
		os.Exit(1)
	}
}

// cliOverrides collects the flags that were actually given.
func cliOverrides() config.CLIOverrides {
	var o config.CLIOverrides
	if CLI.Theme != "" {
		o.Theme = &CLI.Theme
	}
	if CLI.CaseSensitive {
		o.CaseSensitive = &CLI.CaseSensitive
	}
	if CLI.Regex {
		o.Regex = &CLI.Regex
	}
	if CLI.Depth >= 0 {
		o.ExpandDepth = &CLI.Depth
	}
	if CLI.Debug {
		o.Debug = &CLI.Debug
	}
	if CLI.LogFile != "" {
		o.LogFile = &CLI.LogFile
	}
	return o
}

// run executes the main program logic
func run(ctx context.Context, rc *Context) error {
	closer, err := logging.Setup(logging.Options{
		Logging: rc.Config.Logging,
		Stderr:  !rc.Interactive,
	})
	if err != nil {
		return errors.NewConfigError("failed to set up logging", err)
	}
	defer closer.Close()

	doc, err := parseInput(rc.Stdin)
	if err != nil {
		return err
	}

	session := app.New(rc.Config)
	session.Load(doc)
	if CLI.ExpandAll {
		session.ExpandAll()
	}
	if CLI.Search != "" {
		session.SetQuery(CLI.Search)
		if err := session.Search().Err(); err != nil {
			return err
		}
	}
	if CLI.Path != "" {
		if err := session.GoToPath(CLI.Path); err != nil {
			return err
		}
	}

	if !rc.Interactive {
		return printSelection(rc.Stdout, session)
	}
	return runViewer(ctx, rc, session, doc.Source)
}

// parseInput reads JSON from the file argument or stdin
func parseInput(stdin io.Reader) (models.Document, error) {
	if CLI.File != "" && CLI.File != "-" {
		return parser.ParseFile(CLI.File)
	}

	if f, ok := stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return models.Document{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	return parser.Parse(stdin)
}

// printSelection writes the node picked by --path or --search, or the
// whole document, to w.
func printSelection(w io.Writer, session *app.Session) error {
	mode := formatter.ModeIndented
	if CLI.Minify {
		mode = formatter.ModeMinified
	}

	var (
		out string
		err error
	)
	if CLI.Path != "" || session.Search().Results().Len() > 0 {
		out, err = session.CopyValue(mode)
	} else {
		f := formatter.NewFormatter()
		f.Indent = session.Config().Export.Indent
		out, err = f.Format(session.Tree(), session.Tree().Root(), mode)
	}
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, strings.TrimRight(out, "\n")); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// runViewer opens the terminal viewer, reloading the file on change when
// --watch is set.
func runViewer(ctx context.Context, rc *Context, session *app.Session, source string) error {
	model := tui.New(session, tui.WithConfigPath(rc.ConfigPath))

	if !CLI.Watch || source == "" {
		return tui.Run(ctx, model, nil)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reloads := make(chan tea.Msg, 1)
	w, err := watcher.New(source, func() {
		var msg tea.Msg
		doc, err := parser.ParseFile(source)
		if err != nil {
			msg = tui.ReloadErrorMsg{Err: err}
		} else {
			msg = tui.ReloadMsg{Document: doc}
		}
		select {
		case reloads <- msg:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()
	go w.Run(ctx)

	return tui.Run(ctx, model, reloads)
}
