package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ojjj13/kltech-std-parser/internal/frame"
	"github.com/ojjj13/kltech-std-parser/internal/options"
	"github.com/ojjj13/kltech-std-parser/internal/stream"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file.std>",
		Short: "Print raw PTR payloads next to their decoded fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := options.FromContext(cmd.Context())
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			shown := 0
			for out, err := range stream.NewReader(f, stream.WithLogger(log)).All() {
				if err != nil {
					return err
				}
				if out.Kind == stream.KindSkip {
					continue
				}
				shown++
				printOutcome(cmd.OutOrStdout(), shown, out)
				if opts.Limit > 0 && shown >= opts.Limit {
					break
				}
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 5, "number of PTRs to print (0 = all)")
	return cmd
}

func printOutcome(w io.Writer, n int, out stream.Outcome) {
	fmt.Fprintf(w, "PTR %d at offset %d (%d bytes)\n", n, out.Offset, out.Header.Length)
	fmt.Fprintf(w, "  hex:   % x\n", out.Payload)
	fmt.Fprintf(w, "  ascii: %s\n", frame.Printable(out.Payload, '.'))
	if out.Err != nil {
		fmt.Fprintf(w, "  error: %v\n", out.Err)
		return
	}
	rec := out.Record
	fmt.Fprintf(w, "  test=%d site=%d result=%g name=%q units=%q fields=%s strategy=%s\n",
		rec.TestNumber, rec.SiteNumber, rec.Result, rec.TestName, rec.Units, rec.Fields, rec.Strategy)
}
