package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pkordes/stepsync/internal/domain"
	"github.com/pkordes/stepsync/internal/service"
)

func newLocationsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "locations <trip_dir>",
		Short: "Print the tracked positions of an export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locs, err := service.NewLocationLoader().Load(args[0])
			if err != nil {
				return fmt.Errorf("load locations: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, locs)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderLocations(locs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the positions as JSON")
	return cmd
}

func renderLocations(locs []domain.Location) string {
	if len(locs) == 0 {
		return "No locations\n"
	}
	rows := make([][]string, len(locs))
	for i, l := range locs {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(l.Lat, 'f', 6, 64),
			strconv.FormatFloat(l.Lon, 'f', 6, 64),
			formatMoment(l.Time),
		}
	}
	return renderTable(
		[]string{"#", "Lat", "Lon", "Time"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
	) + "\n"
}
