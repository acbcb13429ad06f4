package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/token"
)

var errInvalidToken = errors.New("token is invalid or expired")

func newTokenCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue and check anti-CSRF tokens",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "issue",
			Short: "Print a fresh token",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				codec, err := a.codec()
				if err != nil {
					return err
				}
				tok, err := codec.Create()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
				return err
			},
		},
		&cobra.Command{
			Use:   "check <token>",
			Short: "Check a token against the configured secret and window",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				codec, err := a.codec()
				if err != nil {
					return err
				}
				if !codec.Check(args[0]) {
					a.log.Info("token rejected",
						zap.Duration("valid_from", codec.Window().From),
						zap.Duration("valid_to", codec.Window().To),
					)
					fmt.Fprintln(cmd.OutOrStdout(), "invalid")
					return errInvalidToken
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return err
			},
		},
	)
	return cmd
}

func (a *app) codec() (*token.Codec, error) {
	secret, err := a.cfg.SecretBytes()
	if err != nil {
		return nil, err
	}
	return token.NewCodec(secret, token.WithWindow(a.cfg.Window()), token.WithClock(a.now)), nil
}
