package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/narvi-dev/narvi/internal/config"
	"github.com/narvi-dev/narvi/internal/errors"
	"github.com/narvi-dev/narvi/pkg/notify"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app is the state shared by every subcommand once the config is loaded.
type app struct {
	configDir string
	noColor   bool
	compact   bool
	cfg       *config.Config
	logger    *slog.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and reports a failure on errOut. It
// returns the process exit code.
func run(args []string, out, errOut io.Writer) int {
	a := &app{}
	cmd := a.rootCmd(errOut)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	if err := cmd.Execute(); err != nil {
		a.applyColor()
		errors.PrintError(errOut, err, a.compact)
		return 1
	}
	return 0
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	return (&app{}).rootCmd(logOut)
}

func (a *app) rootCmd(logOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "narvi",
		Short: "Property change notification engine",
		Long: `Narvi propagates property changes through declared dependencies.

Types embed notify.Notifier, declare which properties are derived
from which, and every write raises the changed property followed by
everything that depends on it, each at most once.

  • Dependency index per type, built once
  • Weak and strong subscriptions
  • Live subscriptions to property paths
  • Prometheus and OpenTelemetry instrumentation`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.applyColor()
			return a.load(logOut)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configDir, "config", "c", ".", "Directory containing "+config.ConfigFileName)
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output (also set by NO_COLOR)")
	rootCmd.PersistentFlags().BoolVar(&a.compact, "compact", false, "Print errors on a single line")

	rootCmd.AddCommand(
		demoCmd(a),
		depsCmd(),
		initCmd(a),
		versionCmd(),
	)

	return rootCmd
}

func (a *app) load(logOut io.Writer) error {
	cfg, err := config.Load(a.configDir)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.Logger(logOut)
	notify.SetLogger(a.logger)
	return nil
}

// applyColor turns colors off for --no-color or a non-empty NO_COLOR.
func (a *app) applyColor() {
	if a.noColor || os.Getenv("NO_COLOR") != "" {
		errors.DisableColors()
	}
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	mark := "✓"
	if errors.ColorsEnabled() {
		mark = "\033[32m✓\033[0m"
	}
	fmt.Fprintf(w, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
