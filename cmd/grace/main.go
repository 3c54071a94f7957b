// Command grace compiles and runs Grace source files, per spec.md §6's
// minimal CLI surface.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lgtm-migrator/grace/internal/config"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stderr.Fd()) {
		color.NoColor = true
	}

	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString(err.Error()))
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "grace FILE [grace_args...]",
		Short:         "Run a Grace script",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
				printVersion(cmd)
				return nil
			}
			if len(args) == 0 {
				return cmd.Help()
			}
			return runFile(v, args[0], args[1:])
		},
	}

	root.Flags().BoolP("version", "V", false, "print version information and exit")
	root.Flags().BoolP("verbose", "v", false, "enable verbose compiler/VM tracing")
	// spec.md's "-we" shorthand is two characters; pflag shorthands are a
	// single rune, so this adopts "-w" instead (the long form
	// --warnings-error is unchanged and is what scripts should rely on).
	root.Flags().BoolP("warnings-error", "w", false, "treat warnings as errors")
	root.PersistentFlags().Bool("show-full-callstack", false, "never truncate error call-stack traces")
	root.PersistentFlags().Int("max-callstack-frames", 0, "override the call-stack trace truncation depth (0 keeps the configured default)")

	bindRootFlags(v, root)

	root.AddCommand(newDisCommand())
	root.AddCommand(newVersionCommand())
	return root
}

func bindRootFlags(v *viper.Viper, root *cobra.Command) {
	_ = v.BindPFlag("verbose", root.Flags().Lookup("verbose"))
	_ = v.BindPFlag("warnings_as_error", root.Flags().Lookup("warnings-error"))
	_ = v.BindPFlag("show_full_callstack", root.PersistentFlags().Lookup("show-full-callstack"))
	_ = v.BindPFlag("max_callstack_frames", root.PersistentFlags().Lookup("max-callstack-frames"))
}

func printVersion(cmd *cobra.Command) {
	fmt.Fprintf(cmd.OutOrStdout(), "grace %s (commit %s, built %s)\n", version, commit, date)
}

// loadConfig merges CLI flags with an optional .gracerc.toml in the
// current working directory, per internal/config's documented precedence.
func loadConfig(v *viper.Viper) (config.Config, error) {
	dir, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(dir, v)
	if err != nil {
		return config.Config{}, err
	}
	if cfg.MaxCallStackFrames == 0 {
		cfg.MaxCallStackFrames = 15
	}
	return cfg, nil
}
