package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-webform"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		values   map[string]string
		errs     map[string]string
		output   string
		renderer string
	)
	cmd := &cobra.Command{
		Use:   "render <slug>",
		Short: "Render a form fragment to stdout or a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, _, err := a.load()
			if err != nil {
				return err
			}
			html, err := wf.RenderWith(cmd.Context(), renderer, args[0], webform.RenderOptions{
				Values: values,
				Errors: errs,
			})
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(append(html, '\n'))
				return err
			}
			if err := os.WriteFile(output, html, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "form written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringToStringVar(&values, "value", nil, "prefill a field (name=value), repeatable")
	cmd.Flags().StringToStringVar(&errs, "error", nil, "show an error on a field (name=message), repeatable")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&renderer, "renderer", "", "renderer name (default renderer if empty)")
	return cmd
}
