package cmd

import (
	"github.com/josephlewis42/rush/core/engine"
	"github.com/spf13/cobra"
)

// execCmd runs a single program the same way the interactive shell would.
var execCmd = &cobra.Command{
	Use:   "exec [flags] -- PROGRAM [ARG...]",
	Short: "Run one program through the engine and exit with its status.",
	Long: `Run one program through the configured engine, print the same diagnostic
the shell would and exit with the program's status: its exit code, 128+N when
killed by signal N, 127 when it couldn't be started and 1 when it couldn't be
waited on.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		stdio := engineStdio()
		eng, err := engine.New(cfg.Engine, stdio)
		if err != nil {
			return err
		}

		outcome := eng.Execute(args[0], args[1:])
		engine.NewReporter(stdio.Stderr, cfg.ShouldColor(stderrIsTerm())).Outcome(args[0], outcome)

		if code := outcome.ExitCode(); code != 0 {
			exitFunc(code)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
}
