package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errInvalidSubmission makes validate exit non-zero without extra output.
var errInvalidSubmission = errors.New("submission is invalid")

func newRenderCommand(a *app) *cobra.Command {
	var (
		flags    formFlags
		values   string
		validate bool
	)
	cmd := &cobra.Command{
		Use:   "render [source]",
		Short: "Render a form's inputs as HTML",
		Example: `  formkit render forms/signup.yaml
  formkit render api.yaml --openapi --form createDonation
  formkit render forms --form signup --values 'form[email]=x' --validate`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.loadForm(cmd.Context(), args, flags)
			if err != nil {
				return err
			}
			submitted, err := url.ParseQuery(values)
			if err != nil {
				return fmt.Errorf("parse --values: %w", err)
			}

			form := a.bind(def, submitted)
			if validate {
				valid := form.Validate()
				a.log.Debug("validated", zap.String("form", def.ID), zap.Bool("valid", valid))
			}
			html, err := form.HTML()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), html)
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&values, "values", "", "submitted values as a query string, used to prefill inputs")
	cmd.Flags().BoolVar(&validate, "validate", false, "validate the values and render messages")
	return cmd
}

func newValidateCommand(a *app) *cobra.Command {
	var (
		flags  formFlags
		values string
	)
	cmd := &cobra.Command{
		Use:   "validate [source]",
		Short: "Validate submitted values and print the result as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.loadForm(cmd.Context(), args, flags)
			if err != nil {
				return err
			}
			submitted, err := url.ParseQuery(values)
			if err != nil {
				return fmt.Errorf("parse --values: %w", err)
			}

			form := a.bind(def, submitted)
			valid := form.Validate()
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(form.Result()); err != nil {
				return err
			}
			if !valid {
				a.log.Info("submission rejected", zap.String("form", def.ID), zap.Int("issues", len(form.Result().Issues)))
				return errInvalidSubmission
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&values, "values", "", "submitted values as a query string")
	return cmd
}
