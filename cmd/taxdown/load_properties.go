package main

import (
	"encoding/json"
	"fmt"

	"github.com/mjmurray03/taxdown/internal/geo"
	"github.com/mjmurray03/taxdown/internal/ingest"
	"github.com/spf13/cobra"
)

func newLoadPropertiesCmd() *cobra.Command {
	var source string
	var buildingsSource string
	zone := defaultStatePlaneZone()

	cmd := &cobra.Command{
		Use:   "load-properties",
		Short: "Load parcel geometry and attributes from a shapefile",
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

			var buildings []ingest.BuildingFootprint
			if buildingsSource != "" {
				records, err := ingest.ReadShapefile(buildingsSource)
				if err != nil {
					return fmt.Errorf("failed to read building footprints %s: %w", buildingsSource, err)
				}
				for _, rec := range records {
					buildings = append(buildings, ingest.BuildingFootprint{Rings: rec.Rings})
				}
			}

			summary, err := a.pipeline.LoadParcels(ctx, source, zone, buildings)
			printSummary(summary)
			return err
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "path to the parcel shapefile")
	cmd.Flags().StringVar(&buildingsSource, "buildings", "", "path to the building-footprints shapefile (optional)")
	addZoneFlags(cmd, &zone)
	cmd.MarkFlagRequired("source")

	return cmd
}

func printSummary(v interface{}) {
	out, err := json.Marshal(v)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(out))
}

// defaultStatePlaneZone is a Texas South Central-like placeholder zone;
// operators override it per county with --zone-* flags.
func defaultStatePlaneZone() geo.StatePlaneZone {
	return geo.StatePlaneZone{
		OriginLat:         27.833333,
		OriginLon:         -99.0,
		StdParallel1:      28.383333,
		StdParallel2:      30.283333,
		FalseEastingFeet:  2296583.333,
		FalseNorthingFeet: 9842500.0,
	}
}

func addZoneFlags(cmd *cobra.Command, zone *geo.StatePlaneZone) {
	cmd.Flags().Float64Var(&zone.OriginLat, "zone-origin-lat", zone.OriginLat, "state-plane zone origin latitude")
	cmd.Flags().Float64Var(&zone.OriginLon, "zone-origin-lon", zone.OriginLon, "state-plane zone origin longitude")
	cmd.Flags().Float64Var(&zone.StdParallel1, "zone-std-parallel-1", zone.StdParallel1, "state-plane zone first standard parallel")
	cmd.Flags().Float64Var(&zone.StdParallel2, "zone-std-parallel-2", zone.StdParallel2, "state-plane zone second standard parallel")
	cmd.Flags().Float64Var(&zone.FalseEastingFeet, "zone-false-easting", zone.FalseEastingFeet, "state-plane zone false easting (feet)")
	cmd.Flags().Float64Var(&zone.FalseNorthingFeet, "zone-false-northing", zone.FalseNorthingFeet, "state-plane zone false northing (feet)")
}
