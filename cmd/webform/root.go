package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&app{})
}

func newRootCmdWith(a *app) *cobra.Command {
	var cfgFile string
	v := newViper()

	root := &cobra.Command{
		Use:           "webform",
		Short:         "Check, render, and serve declarative HTML form schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, v, cfgFile)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./webform.yaml, or WEBFORM_CONFIG)")
	flags.StringP("schemas", "s", Defaults().Schemas, "directory holding schema files")
	flags.Bool("strict", false, "reject duplicate form slugs")
	flags.String("secret", "", "HMAC secret enabling anti-forgery tokens")
	flags.String("log-level", Defaults().LogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", Defaults().LogFormat, "log format (console, json)")

	root.AddCommand(
		newCheckCmd(a),
		newRenderCmd(a),
		newOpenAPICmd(a),
		newPromptCmd(a),
		newServeCmd(a),
	)
	return root
}
