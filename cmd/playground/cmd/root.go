// Package cmd implements the playground CLI commands.
//
// A root command dispatches to subcommands (run, validate).
package cmd

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/go-drift/behaviors/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name        string
	Short       string
	Long        string
	Usage       string
	Run         func(args []string) error
	SubCommands []*Command
}

var rootCmd = &Command{
	Name:  "playground",
	Short: "Behavior playground",
	Long: `Playground runs scripted scenes against an element tree with
attached behaviors and traces how focus and view-model flags evolve.

Use "playground <command> --help" for more information about a command.`,
	Usage: "playground [--verbose] <command> [args]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)

// Global flag state.
var (
	verbose bool
	stdout  io.Writer = os.Stdout
)

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

// Execute runs the CLI with the process arguments.
func Execute() error {
	return execute(os.Args[1:])
}

func execute(args []string) error {
	verbose = false

	var filteredArgs []string
	for _, arg := range args {
		switch arg {
		case "-h", "--help", "help":
			if len(filteredArgs) == 0 {
				printHelp(rootCmd)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "-v", "--version", "version":
			if len(filteredArgs) == 0 {
				fmt.Fprintf(stdout, "Playground version %s (built %s)\n", Version, BuildTime)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "--verbose":
			verbose = true
		default:
			filteredArgs = append(filteredArgs, arg)
		}
	}
	args = filteredArgs

	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp(rootCmd)
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	return cmd.Run(cmdArgs)
}

// newCore builds the logging core for a level. Tests replace it.
var newCore = func(level zapcore.Level) zapcore.Core {
	return errors.NewConsoleLogger(level).Core()
}

// newLogger returns the step tracing logger and routes framework errors
// through it.
func newLogger() *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	logger := zap.New(newCore(level))
	errors.SetHandler(&errors.LogHandler{Verbose: verbose, Logger: logger})
	return logger
}

// report sends err to the error handler and returns it unchanged. Errors
// that are not already structured are wrapped with op and kind. Contract
// violations were reported when raised and are passed through.
func report(op string, kind errors.ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	var violation *errors.ContractViolation
	if stderrors.As(err, &violation) {
		return err
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		e = &errors.Error{Op: op, Kind: kind, Err: err}
	}
	errors.Report(e)
	return err
}

func printHelp(cmd *Command) {
	fmt.Fprintln(stdout, cmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", cmd.Usage)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Commands:")
	for _, sub := range cmd.SubCommands {
		fmt.Fprintf(stdout, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintf(stdout, "  %-14s %s\n", "version", "Show version information")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Flags:")
	fmt.Fprintln(stdout, "  -h, --help           Show help for a command")
	fmt.Fprintln(stdout, "  -v, --version        Show version information")
	fmt.Fprintln(stdout, "  --verbose            Log debug traces")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Examples:")
	fmt.Fprintln(stdout, "  playground run                 Run the built-in two-control scene")
	fmt.Fprintln(stdout, "  playground run scene.yaml      Run a scene file")
	fmt.Fprintln(stdout, "  playground validate scene.yaml Report every problem in a scene")
}

func printCommandHelp(cmd *Command) {
	fmt.Fprintln(stdout, cmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", cmd.Usage)
}
