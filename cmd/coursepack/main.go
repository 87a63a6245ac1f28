// Command coursepack packages course projects: for every entry in
// projects.yml it compiles the instructions PDF, zips the graded Eclipse
// project, and derives a sanitized student archive from it.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kingrea/coursepack/internal/config"
	"github.com/kingrea/coursepack/internal/logging"
	"github.com/kingrea/coursepack/internal/sanitize"
	"github.com/kingrea/coursepack/internal/toolrun"
)

// app holds the flag values shared by every subcommand.
type app struct {
	configPath string
	outputDir  string
	tools      config.Tools
	extension  string
	logFile    string
	quiet      bool

	stdout io.Writer
	stderr io.Writer

	// runner overrides the exec runner (tests)
	runner toolrun.Runner
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

func (a *app) rootCmd() *cobra.Command {
	build := a.buildCmd()
	root := &cobra.Command{
		Use:   "coursepack",
		Short: "Package course projects into graded, student and instruction artifacts",
		Long: `coursepack reads projects.yml and, for each project in file order,
removes the previous build, compiles document/project.tex twice, zips the
graded Eclipse project and builds a student archive with private code,
private tests and grading support stripped out.

Run without a subcommand to build every project.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          build.RunE,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	defaults := config.DefaultTools()
	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", config.DefaultConfigFile, "projects file")
	pf.StringVarP(&a.outputDir, "output", "o", config.DefaultOutputDir, "directory receiving the finished artifacts")
	pf.StringVar(&a.tools.Zip, "zip", defaults.Zip, "archiver command")
	pf.StringVar(&a.tools.Unzip, "unzip", defaults.Unzip, "extractor command")
	pf.StringVar(&a.tools.Latex, "latex", defaults.Latex, "document compiler")
	pf.StringVar(&a.tools.Document, "document", defaults.Document, "document source inside each project's document/ directory")
	pf.StringVar(&a.extension, "ext", sanitize.DefaultExtension, "extension of the source and test files to sanitize")
	pf.StringVar(&a.logFile, "log-file", "", "append a timestamped log of every command to this file")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "do not echo commands to the console")

	// Build flags are accepted on the root command too.
	root.Flags().AddFlagSet(build.Flags())

	root.AddCommand(build, a.listCmd(), a.checkCmd(), a.stagesCmd(), a.sanitizeCmd())
	return root
}

// logger opens the run log. Console echo goes to stdout unless quiet.
func (a *app) logger(console bool) (*logging.Logger, error) {
	var w io.Writer
	if console && !a.quiet {
		w = a.stdout
	}
	return logging.New(a.logFile, logging.WithConsole(w))
}

func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if a.outputDir != "" {
		cfg.OutputDir = a.outputDir
	}
	cfg.Tools = a.tools.Normalized()
	return cfg, nil
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newApp(stdout, stderr).rootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
