package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/josephlewis42/rush/core/config"
	"github.com/josephlewis42/rush/core/engine"
	"github.com/josephlewis42/rush/core/logger"
	"github.com/josephlewis42/rush/core/shell"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	engineName   string
	appLogger    = log.New(os.Stderr, "rush: ", 0)
	exitFunc     = os.Exit
	engineStdio  = engine.OSStdio
	stderrIsTerm = func() bool { return isatty.IsTerminal(os.Stderr.Fd()) }
)

// loadConfig reads the configuration named by --config, or the defaults if
// none was given, and applies command line overrides.
func loadConfig() (*config.Configuration, error) {
	configuration := config.Default()
	if cfgPath != "" {
		var err error
		configuration, err = config.Load(cfgPath)
		if errors.Is(err, fs.ErrNotExist) {
			appLogger.Println("Couldn't load config: did you run init?")
		}
		if err != nil {
			return nil, err
		}
	}

	if engineName != "" {
		configuration.Engine = engineName
		if err := configuration.Validate(); err != nil {
			return nil, err
		}
	}

	return configuration, nil
}

// openEventLog creates the session logger for the configuration, the returned
// closer must be called when the session ends.
func openEventLog(cfg *config.Configuration) (*logger.SessionLogger, io.Closer, error) {
	if !cfg.EventLogEnabled() {
		return logger.NewNopLogger().NewSession(), io.NopCloser(nil), nil
	}

	logFd, err := cfg.OpenEventLog()
	if err != nil {
		return nil, nil, fmt.Errorf("opening event log: %w", err)
	}
	return logger.NewJsonLinesLogRecorder(logFd).NewSession(), logFd, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rush",
	Short: "A minimal interactive command shell",
	Long: `rush reads a line, splits it into a program name and arguments, runs the
program with the shell's terminal and reports how it exited.

The only builtin is "exit [code]".`,
	Args: cobra.ExactArgs(0),
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

		tokenizer, err := shell.TokenizerByName(cfg.Tokenizer)
		if err != nil {
			return err
		}

		events, closer, err := openEventLog(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		sh := shell.NewShell(eng, stdio.Stdin, stdio.Stdout, stdio.Stderr)
		sh.Prompt = cfg.Prompt
		sh.Tokenize = tokenizer
		sh.Reporter = engine.NewReporter(stdio.Stderr, cfg.ShouldColor(stderrIsTerm()))
		sh.Events = events
		sh.Exit = exitFunc

		if err := events.Record(&logger.ShellStart{
			Engine:    cfg.Engine,
			Tokenizer: cfg.Tokenizer,
			PID:       os.Getpid(),
		}); err != nil {
			appLogger.Printf("Error recording event: %v", err)
		}

		if code := sh.Run(); code != 0 {
			exitFunc(code)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config directory, built-in defaults are used if empty")
	rootCmd.PersistentFlags().StringVar(&engineName, "engine", "", "override the configured engine (spawn|fork)")
}
