package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var stepID string
	var locationID int64
	var tripID int64

	cmd := &cobra.Command{
		Use:   "upload <trip_dir>",
		Short: "Send one step to the remote steps API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.openExport(args[0], tripID)
			if err != nil {
				return err
			}
			if err := svc.UploadStep(cmd.Context(), stepID, locationID); err != nil {
				return fmt.Errorf("upload step %s: %w", stepID, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded step %s to trip %d\n", stepID, tripID)
			return nil
		},
	}

	cmd.Flags().StringVar(&stepID, "step", "", "Id of the step to upload")
	cmd.Flags().Int64Var(&locationID, "location-id", 0, "Remote location id")
	cmd.Flags().Int64Var(&tripID, "trip-id", 0, "Remote trip id")
	_ = cmd.MarkFlagRequired("step")
	_ = cmd.MarkFlagRequired("location-id")
	_ = cmd.MarkFlagRequired("trip-id")
	return cmd
}
