package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ojjj13/kltech-std-parser/internal/report"
	"github.com/ojjj13/kltech-std-parser/pkg/stdparser"
)

func newReformatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reformat <ptr_results.csv> <final_results.csv>",
		Short: "Pivot a PTR export into one row per device",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()
			return writeFile(args[1], func(f *os.File) error {
				return report.Pivot(in, f)
			})
		},
	}
}

func newJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <final_results.csv> <file.std> <output.csv>",
		Short: "Order a pivoted report by die coordinates and append X/Y",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res, err := stdparser.ExtractCoordsFile(ctx, args[1], stdparser.Options{Logger: log})
			if err != nil {
				return err
			}
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()
			log.WithField("coords", len(res.Coords)).Info("joining report with coordinates")
			return writeFile(args[2], func(f *os.File) error {
				return report.JoinCoords(in, res.Coords, f)
			})
		},
	}
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	log.WithField("output", path).Info("written")
	return nil
}
