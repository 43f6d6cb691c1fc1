package main

import (
	"encoding/json"
	"fmt"

	"github.com/patterntool/patterntool/pkg/linefilter"
	"github.com/spf13/cobra"
)

type strategyInfo struct {
	Name        string `json:"name"`
	PatternMode string `json:"pattern_mode"`
	Description string `json:"description"`
}

func newStrategiesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "List the match strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			for _, s := range linefilter.Strategies() {
				info := strategyInfo{
					Name:        s.String(),
					PatternMode: s.PatternMode().String(),
					Description: s.Description(),
				}

				if asJSON {
					data, err := json.Marshal(info)
					if err != nil {
						return err
					}
					if _, err := fmt.Fprintln(out, string(data)); err != nil {
						return err
					}
					continue
				}

				if _, err := fmt.Fprintf(out, "%-12s %-7s %s\n", info.Name, info.PatternMode, info.Description); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON Lines instead of a table")
	return cmd
}
