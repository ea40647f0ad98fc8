package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newOpenAPICmd(a *app) *cobra.Command {
	var (
		title   string
		version string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Describe the submission contract of every form as OpenAPI 3",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wf, _, err := a.load()
			if err != nil {
				return err
			}
			doc, err := wf.OpenAPI(title, version)
			if err != nil {
				return err
			}
			if err := doc.Validate(cmd.Context()); err != nil {
				return fmt.Errorf("generated document is invalid: %w", err)
			}

			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			switch format {
			case "json":
			case "yaml":
				var tree any
				if err := json.Unmarshal(data, &tree); err != nil {
					return err
				}
				if data, err = yaml.Marshal(tree); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		},
	}
	cmd.Flags().StringVar(&title, "title", "Forms", "document title")
	cmd.Flags().StringVar(&version, "api-version", "1.0.0", "document version")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")
	return cmd
}
