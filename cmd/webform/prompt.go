package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-webform/pkg/prompt"
	"github.com/goliatone/go-webform/pkg/validation"
)

func newPromptCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt <slug>",
		Short: "Fill in a form from the terminal and print the encoded payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, _, err := a.load()
			if err != nil {
				return err
			}
			schema, err := wf.Registry.Get(args[0])
			if err != nil {
				return err
			}

			opts := []prompt.Option{prompt.WithValidator(wf.Validator)}
			if a.driver != nil {
				opts = append(opts, prompt.WithDriver(a.driver))
			}
			token, err := wf.IssueToken(cmd.Context(), schema.Slug)
			if err != nil {
				return err
			}
			if field := wf.TokenField(); field != "" {
				opts = append(opts, prompt.WithToken(field, token))
			}

			values, err := prompt.New(opts...).Collect(cmd.Context(), schema)
			if errors.Is(err, prompt.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "aborted")
				return nil
			}
			if err != nil {
				return err
			}

			result, err := wf.Validate(cmd.Context(), schema.Slug, validation.NewSubmission(values, false, token))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !result.Valid() {
				names := make([]string, 0, len(result.Errors))
				for name := range result.Errors {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(out, "%s: %s\n", name, result.Errors[name])
				}
				return fmt.Errorf("submission for %q is %s", schema.Slug, result.State)
			}
			fmt.Fprintln(out, values.Encode())
			return nil
		},
	}
	return cmd
}
