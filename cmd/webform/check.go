package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load every schema file and report problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wf, slugs, err := a.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, slug := range slugs {
				schema, _ := wf.Registry.Lookup(slug)
				fmt.Fprintf(out, "ok\t%s\t%s\t%d fields\n", slug, schema.FormMethod(), len(schema.Fields))
			}
			fmt.Fprintf(out, "%d schema(s) in %s\n", len(slugs), a.cfg.Schemas)
			return nil
		},
	}
}
