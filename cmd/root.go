// Package cmd holds the command-line entry points.
package cmd

import (
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/conchsh/conch/core/config"
	"github.com/conchsh/conch/core/logger"
	"github.com/conchsh/conch/core/shell"
)

var (
	cfgPath string
	debug   bool
)

// rootCmd runs the shell: interactively, or over a script file when
// one is given.
var rootCmd = &cobra.Command{
	Use:          "conch [script]",
	Short:        "A small command shell",
	Long:         `conch is a command shell with pipelines, file redirection, command chaining, background execution and history recall.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetDebug(debug)

		osFs := afero.NewOsFs()
		cfg, err := loadConfig(osFs)
		if err != nil {
			return err
		}

		notifySignals()

		session := shell.NewSession(cfg, osFs, os.Stdin, os.Stdout, os.Stderr)

		if len(args) == 1 {
			script, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer script.Close()

			status := session.RunScript(script)
			logger.Debugf("script finished with status %d", status)
			return nil
		}

		return session.Run()
	},
}

// loadConfig reads the configured path, falling back to the embedded
// defaults when no config file exists.
func loadConfig(osFs afero.Fs) (*config.Configuration, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}

	cfg, err := config.Load(osFs, cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debugf("no config at %s, using defaults", cfgPath)
		return config.Default(), nil
	}
	return cfg, err
}

// notifySignals acknowledges terminal control signals without acting
// on them; there is no job control, so they are only logged.
func notifySignals() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTSTP, syscall.SIGQUIT)
	go func() {
		for sig := range sigs {
			logger.Debugf("caught signal %v", sig)
		}
	}()
}

// Execute runs the root command. It is called once from main.main().
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a config.yaml or its directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print debug diagnostics")
}
