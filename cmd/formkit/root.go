package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/internal/config"
	"github.com/goliatone/go-formkit/pkg/prompt"
)

// app carries state shared by the subcommands.
type app struct {
	cfgFile string
	debug   bool

	cfg *config.Config
	log *zap.Logger

	// Overridden in tests.
	now    func() time.Time
	driver prompt.Driver
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "formkit",
		Short: "Render, fill and validate HTML forms from declarative definitions",
		Long: `formkit renders HTML form inputs from JSON, YAML or OpenAPI definitions,
fills them interactively from a terminal and issues the anti-CSRF tokens
embedded in them.

Configuration is read from formkit.yaml in the working directory (or --config)
and FORMKIT_* environment variables, e.g. FORMKIT_SECRET or
FORMKIT_TOKEN_VALID_TO=30m.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./formkit.yaml)")
	flags.BoolVar(&a.debug, "debug", false, "enable development logging")
	flags.String("secret", "", "token secret (overrides FORMKIT_SECRET)")

	root.AddCommand(
		newRenderCommand(a),
		newValidateCommand(a),
		newFillCommand(a),
		newTokenCommand(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	v := config.New(a.cfgFile)
	if flag := cmd.Flags().Lookup("secret"); flag != nil && flag.Changed {
		if err := v.BindPFlag(config.KeySecret, flag); err != nil {
			return err
		}
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.log == nil {
		logger, err := newLogger(cfg, a.debug)
		if err != nil {
			return err
		}
		a.log = logger
	}
	if a.now == nil {
		a.now = time.Now
	}
	a.log.Debug("configuration loaded",
		zap.String("config", v.ConfigFileUsed()),
		zap.Duration("token_valid_from", cfg.Token.ValidFrom),
		zap.Duration("token_valid_to", cfg.Token.ValidTo),
	)
	return nil
}

func newLogger(cfg *config.Config, debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
