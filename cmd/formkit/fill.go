package main

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/input"
	"github.com/goliatone/go-formkit/pkg/prompt"
)

func newFillCommand(a *app) *cobra.Command {
	var (
		flags  formFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "fill [source]",
		Short: "Fill a form interactively and print the submission",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "form" && format != "json" {
				return fmt.Errorf("unsupported --format %q (want form or json)", format)
			}
			def, err := a.loadForm(cmd.Context(), args, flags)
			if err != nil {
				return err
			}

			driver := a.driver
			if driver == nil {
				driver = prompt.NewSurveyDriver()
			}
			m := input.New()
			if err := prompt.New(driver).Fill(cmd.Context(), m, def.Fields...); err != nil {
				return err
			}
			a.log.Debug("form filled", zap.String("form", def.ID), zap.Int("fields", len(def.Fields)))

			prefix := def.NamePrefix
			if prefix == "" {
				prefix = a.cfg.Render.NamePrefix
			}
			out := cmd.OutOrStdout()
			if format == "json" {
				payload := m.Map()
				if prefix != "" {
					payload = map[string]any{prefix: payload}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			}
			_, err = fmt.Fprintln(out, scoped(m.Values(), prefix).Encode())
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "form", "output format: form or json")
	return cmd
}

// scoped renames bracket-named values under prefix.
func scoped(values url.Values, prefix string) url.Values {
	if prefix == "" {
		return values
	}
	out := make(url.Values, len(values))
	for name, list := range values {
		out[input.BracketName(append([]string{prefix}, input.Segments(name)...)...)] = list
	}
	return out
}
