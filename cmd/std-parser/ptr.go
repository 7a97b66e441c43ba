package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ojjj13/kltech-std-parser/internal/metrics"
	"github.com/ojjj13/kltech-std-parser/internal/options"
	"github.com/ojjj13/kltech-std-parser/pkg/stdparser"
)

func newPTRCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ptr <file.std>",
		Short: "Export parametric test records as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  runPTR,
	}
	cmd.Flags().StringP("output", "o", "ptr_results.csv", "CSV output path")
	cmd.Flags().Bool("spec", false, "include LoSpec/HiSpec columns")
	return cmd
}

func runPTR(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	opts := options.FromContext(ctx)
	output, _ := cmd.Flags().GetString("output")

	reg := prometheus.NewRegistry()
	decodeOpts := stdparser.Options{Logger: log}
	if opts.MetricsTextfile != "" {
		decodeOpts.Metrics = metrics.NewDecoder(reg)
	}

	log.WithField("input", args[0]).Info("reading")
	res, err := stdparser.DecodeFile(ctx, args[0], decodeOpts)
	if err != nil {
		return err
	}
	if res.Incomplete != nil {
		log.WithError(res.Incomplete).Warn("log ends inside a record; keeping records read so far")
	}
	for _, re := range res.Errors {
		log.WithFields(logrus.Fields{"offset": re.Offset}).WithError(re.Err).Warn("PTR skipped")
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	bw := bufio.NewWriter(f)
	if err := res.WriteCSV(bw, opts.IncludeSpec); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", output, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", output, err)
	}

	if opts.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(opts.MetricsTextfile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	log.WithFields(logrus.Fields{
		"output":    output,
		"records":   len(res.Records),
		"errors":    len(res.Errors),
		"heuristic": res.Heuristic,
	}).Info("CSV exported")
	fmt.Fprintln(cmd.OutOrStdout(), res.String())
	return nil
}
