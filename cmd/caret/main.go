// Package main is the entry point for the caret command.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dshills/caret/internal/app"
	"github.com/dshills/caret/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath  string
	scriptPath  string
	outputPath  string
	diagnostics string
	language    string
	logLevel    string
	logFile     string
	write       bool
	report      bool
	readOnly    bool
	watch       bool
	file        string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	settings, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	configureLogging(opts, settings)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	script, err := readScript(opts.scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	application, err := app.New(app.Options{
		Settings:        settings,
		File:            opts.file,
		Language:        opts.language,
		ReadOnly:        opts.readOnly,
		DiagnosticsPath: opts.diagnostics,
		Output:          os.Stdout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	original := application.Document().Source.Text()
	if err := execute(ctx, application, script, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.watch {
		if err := watch(ctx, application, script, original, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.scriptPath, "script", "", "Edit script to run, - for stdin")
	flag.StringVar(&opts.scriptPath, "s", "", "Edit script to run (shorthand)")
	flag.StringVar(&opts.outputPath, "o", "", "Write the result to this file instead of stdout")
	flag.BoolVar(&opts.write, "write", false, "Write the result back to the input file")
	flag.BoolVar(&opts.write, "w", false, "Write the result back to the input file (shorthand)")
	flag.StringVar(&opts.diagnostics, "diagnostics", "", "File of diagnostic labels to attach")
	flag.BoolVar(&opts.report, "report", false, "Print diagnostics on caret lines after the script")
	flag.StringVar(&opts.language, "lang", "", "Language for the chroma highlighter")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.logFile, "log-file", "", "Log to this file instead of stderr")
	flag.BoolVar(&opts.readOnly, "readonly", false, "Open the file read-only")
	flag.BoolVar(&opts.readOnly, "R", false, "Open the file read-only (shorthand)")
	flag.BoolVar(&opts.watch, "watch", false, "Rerun the script whenever the config file changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "caret - multi-caret source editing engine\n\n")
		fmt.Fprintf(os.Stderr, "Usage: caret [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  caret -s edits.txt main.go       Print main.go after the edits\n")
		fmt.Fprintf(os.Stderr, "  caret -s edits.txt -w main.go    Apply the edits in place\n")
		fmt.Fprintf(os.Stderr, "  echo 'type \"x\"' | caret -s -     Edit a scratch document\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("caret %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}

	switch flag.NArg() {
	case 0:
	case 1:
		opts.file = flag.Arg(0)
	default:
		fmt.Fprintf(os.Stderr, "Error: at most one file may be given\n")
		os.Exit(1)
	}
	if opts.write && opts.file == "" {
		fmt.Fprintf(os.Stderr, "Error: -write needs a file\n")
		os.Exit(1)
	}
	if opts.watch && opts.configPath == "" {
		fmt.Fprintf(os.Stderr, "Error: -watch needs -config\n")
		os.Exit(1)
	}

	return opts
}

// configureLogging sets up commonlog. Flags win over the config file.
func configureLogging(opts options, settings *config.Settings) {
	verbosity := settings.Logging.Verbosity
	switch opts.logLevel {
	case "debug":
		verbosity = 2
	case "info":
		verbosity = 1
	case "warn":
		verbosity = -1
	case "error":
		verbosity = -2
	}

	path := settings.Logging.File
	if opts.logFile != "" {
		path = opts.logFile
	}
	if path == "" {
		commonlog.Configure(verbosity, nil)
		return
	}
	commonlog.Configure(verbosity, &path)
}

func readScript(path string) ([]byte, error) {
	switch path {
	case "":
		return nil, nil
	case "-":
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// execute runs the script and writes the result where the flags ask.
func execute(ctx context.Context, a *app.Application, script []byte, opts options) error {
	if err := a.RunScript(ctx, bytes.NewReader(script)); err != nil {
		return err
	}
	if opts.report {
		if err := a.Report(os.Stdout); err != nil {
			return err
		}
	}

	doc := a.Document()
	switch {
	case opts.write:
		return doc.Save()
	case opts.outputPath != "":
		return doc.SaveAs(opts.outputPath)
	default:
		_, err := fmt.Fprintln(os.Stdout, doc.Source.Text())
		return err
	}
}

// watch reruns the script against the original text each time the config
// file changes, until ctx is done.
func watch(ctx context.Context, a *app.Application, script []byte, original string, opts options) error {
	w, err := config.Watch(opts.configPath, func(ev config.Event, s *config.Settings, err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		if err := a.Reload(s); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		if err := a.Document().Source.SetContent(original); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		a.Document().Source.ClearHistory()
		if err := execute(ctx, a, script, opts); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Fprintf(os.Stderr, "watching %s\n", w.Path())
	<-ctx.Done()
	return nil
}
