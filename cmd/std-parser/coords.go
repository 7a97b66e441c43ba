package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ojjj13/kltech-std-parser/internal/options"
	"github.com/ojjj13/kltech-std-parser/pkg/stdparser"
)

func newCoordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coords <file.std>",
		Short: "List die coordinates found in datalog text records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := options.FromContext(ctx)
			res, err := stdparser.ExtractCoordsFile(ctx, args[0], stdparser.Options{
				Logger:    log,
				MaxCoords: opts.MaxCoords,
			})
			if err != nil {
				return err
			}
			if res.Incomplete != nil {
				log.WithError(res.Incomplete).Warn("log ends inside a record")
			}
			log.WithField("coords", len(res.Coords)).Info("coordinates extracted")

			var out []byte
			switch opts.Format {
			case "yaml":
				out, err = yaml.Marshal(res.Coords)
			default:
				out, err = json.MarshalIndent(res.Coords, "", "  ")
			}
			if err != nil {
				return fmt.Errorf("encode coords: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().Int("max", 0, "stop after this many coordinates (0 = all)")
	cmd.Flags().String("format", "json", "output format: json or yaml")
	return cmd
}
