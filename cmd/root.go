package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/josephlewis42/relaysh/core"
	"github.com/josephlewis42/relaysh/core/config"
	"github.com/josephlewis42/relaysh/core/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	commandLine string
)

// defaultConfigDir is where configuration lives when --config isn't set.
func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".relaysh")
}

func configPath() string {
	if cfgPath == "" {
		return defaultConfigDir()
	}
	return cfgPath
}

// loadConfig reads the configuration. A missing file falls back to the
// defaults, which is only worth mentioning if the user pointed at one.
func loadConfig(cmd *cobra.Command, appLogger *log.Logger) (*config.Configuration, error) {
	configuration, err := config.Load(configPath())
	if errors.Is(err, fs.ErrNotExist) {
		if cmd.Flags().Changed("config") {
			appLogger.Println("Couldn't load config, using defaults: did you run init?")
		}
		return config.Default(afero.NewOsFs(), configPath()), nil
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "relaysh",
	Short: "An interactive command shell.",
	Long: `An interactive command shell with builtins, PATH lookup, pipelines,
output redirection and persistent history.

Set HISTFILE to keep history between sessions.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		code, err := runShell(cmd)
		if err != nil {
			return err
		}
		os.Exit(code)
		return nil
	},
}

func runShell(cmd *cobra.Command) (int, error) {
	appLogger := log.New(cmd.ErrOrStderr(), "[relaysh] ", 0)

	configuration, err := loadConfig(cmd, appLogger)
	if err != nil {
		return 0, err
	}

	eventLogger := logger.NewNopLogger()
	if configuration.HasEventLog() {
		fd, err := configuration.OpenEventLog()
		if err != nil {
			appLogger.Printf("Couldn't open event log: %v", err)
		} else {
			defer fd.Close()
			eventLogger = logger.NewJsonLinesLogRecorder(fd)
		}
	}
	events := eventLogger.NewSession()

	session := core.NewSession(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	session.Events = events
	session.HistFile = configuration.ResolveHistFile(os.Getenv)
	if err := session.LoadHistory(); err != nil {
		appLogger.Printf("Couldn't load history: %v", err)
	}

	events.Record(&logger.Session{Event: logger.SessionStart})

	var code int
	if cmd.Flags().Changed("command") {
		code = session.RunLine(commandLine)
		if exitCode, ok := session.Exited(); ok {
			code = exitCode
		}
	} else {
		shell, err := core.NewShell(session, configuration)
		if err != nil {
			return 0, err
		}
		defer shell.Close()

		code = shell.Run()
	}

	events.Record(&logger.Session{Event: logger.SessionExit, ExitCode: code})
	return code, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config directory or file (default $HOME/.relaysh)")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single line and exit with its status")
}
