package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ytget/app-organizer/internal/bootstrap"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) options() bootstrap.Options {
	return bootstrap.Options{
		ConfigPath: strings.TrimSpace(*c.configFlag),
		LogLevel:   strings.TrimSpace(*c.logLevelFlag),
	}
}

// withServices opens the shared services for the duration of fn
func (c *commandContext) withServices(fn func(*bootstrap.Services) error) error {
	services, err := bootstrap.Open(c.options())
	if err != nil {
		return err
	}
	defer services.Close()
	return fn(services)
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:           "apporg",
		Short:         "Organize exported Android app lists",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newPrefetchCommand(ctx))
	rootCmd.AddCommand(newCacheCommand(ctx))

	return rootCmd
}
