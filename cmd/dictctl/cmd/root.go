// Package cmd provides the dictctl commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/telugupadalu/dictionary/internal/store"
	"github.com/telugupadalu/dictionary/pkg/config"
	"github.com/telugupadalu/dictionary/pkg/logger"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	backend    string
	seedFile   string
	logLevel   string
}

// NewRootCmd creates the root command for dictctl.
func NewRootCmd() *cobra.Command {
	var opts globalOptions

	cmd := &cobra.Command{
		Use:   "dictctl",
		Short: "Administer the Telugu/English dictionary",
		Long: `dictctl works directly against the dictionary key store.

With the memory backend every invocation starts from the seed file, so
words added with 'dictctl add' last only for that run. Use the postgres
backend to make changes durable.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(logger.New(cmd.ErrOrStderr(), opts.logLevel, "text"))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file")
	cmd.PersistentFlags().StringVar(&opts.backend, "store", "", "override store.backend (memory or postgres)")
	cmd.PersistentFlags().StringVar(&opts.seedFile, "seed-file", "", "override store.seedFile")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level for diagnostics on stderr")

	cmd.AddCommand(
		newClassifyCmd(),
		newResolveCmd(&opts),
		newAddCmd(&opts),
		newSeedCmd(&opts),
	)
	return cmd
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if o.backend != "" {
		cfg.Store.Backend = o.backend
	}
	if o.seedFile != "" {
		cfg.Store.SeedFile = o.seedFile
	}
	return cfg, nil
}

// openStore loads the config and opens its backend. The returned function
// releases the backend.
func (o *globalOptions) openStore(ctx context.Context) (*config.Config, store.Backend, func() error, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	backend, closeFn, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening %s store: %w", cfg.Store.Backend, err)
	}
	return cfg, backend, closeFn, nil
}
