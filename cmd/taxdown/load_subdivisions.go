package main

import (
	"github.com/spf13/cobra"
)

func newLoadSubdivisionsCmd() *cobra.Command {
	var source string
	zone := defaultStatePlaneZone()

	cmd := &cobra.Command{
		Use:   "load-subdivisions",
		Short: "Load subdivision boundary geometry and names from a shapefile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.checkReady(ctx); err != nil {
				return err
			}

			summary, err := a.pipeline.LoadSubdivisions(ctx, source, zone)
			printSummary(summary)
			return err
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "path to the subdivision shapefile")
	addZoneFlags(cmd, &zone)
	cmd.MarkFlagRequired("source")

	return cmd
}
