package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/stepsync/internal/dates"
	"github.com/pkordes/stepsync/internal/domain"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var tripID int64
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <trip_dir>",
		Short: "Print a trip and its steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.openExport(args[0], tripID)
			if err != nil {
				return err
			}
			trip, err := svc.Trip(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, trip)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTrip(trip))
			return nil
		},
	}

	cmd.Flags().Int64Var(&tripID, "trip-id", 0, "Remote trip id to assign")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the trip as JSON")
	return cmd
}

func renderTrip(trip domain.Trip) string {
	out := fmt.Sprintf("Trip:  %s (id %d)\n", trip.Name, trip.ID)
	out += fmt.Sprintf("Dates: %s to %s\n", formatDay(trip.StartDate), formatDay(trip.EndDate))
	if trip.CoverPhotoPath != "" {
		out += fmt.Sprintf("Cover: %s\n", trip.CoverPhotoPath)
	}
	if len(trip.Steps) == 0 {
		return out + "No steps\n"
	}

	rows := make([][]string, len(trip.Steps))
	for i, s := range trip.Steps {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			s.ID,
			s.Name,
			s.Location.Country,
			formatMoment(s.StartTime),
			strconv.Itoa(len(s.Photos)),
			strconv.Itoa(len(s.Videos)),
			strconv.Itoa(len(s.Comments)),
		}
	}
	headers := []string{"#", "ID", "Name", "Country", "Start", "Photos", "Videos", "Comments"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight}
	return out + renderTable(headers, rows, aligns) + "\n"
}

// formatDay renders an optional trip date; a missing end date means the trip is ongoing.
func formatDay(t *time.Time) string {
	if t == nil {
		return "-"
	}
	if dates.HasClock(*t) {
		return formatMoment(*t)
	}
	return t.Format(time.DateOnly)
}

func formatMoment(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04 MST")
}
