package main

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ojjj13/kltech-std-parser/internal/logging"
	"github.com/ojjj13/kltech-std-parser/internal/options"
)

var (
	log       = logrus.StandardLogger()
	logCloser = io.Closer(io.NopCloser(nil))
)

func newRootCmd() *cobra.Command {
	cfg := options.NewViper()
	var configPath string

	root := &cobra.Command{
		Use:           "std-parser",
		Short:         "Decode STDF test logs",
		Long:          "std-parser extracts parametric test results and die coordinates from STDF binary logs.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			opts, err := options.Load(cfg, configPath)
			if err != nil {
				return err
			}
			l, closer, err := logging.New(opts.Log)
			if err != nil {
				return err
			}
			log, logCloser = l, closer
			cmd.SetContext(options.WithOptions(cmd.Context(), opts))
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return logCloser.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (yaml, toml or json)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-file", "", "also write logs to this file, rotated by size")
	pf.String("metrics-textfile", "", "write Prometheus metrics to this file when done")

	root.AddCommand(newPTRCmd(), newCoordsCmd(), newReformatCmd(), newJoinCmd(), newDumpCmd())
	return root
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	ctx := context.Background()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
