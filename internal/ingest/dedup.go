package ingest

import (
	"strconv"

	"github.com/mjmurray03/taxdown/internal/geo"
)

// isEmptyPlaceholder reports whether a parcel has none of the
// identifying attributes ingest relies on: no parcel id, no address,
// no owner, and zero total value (§4.1).
func isEmptyPlaceholder(p *ParcelCandidate) bool {
	return p.Property.ParcelID == nil &&
		p.Property.PropertyAddress == nil &&
		p.Property.OwnerName == nil &&
		p.Property.TotalValueCents == 0
}

// dedupKey identifies duplicate parcels within a single load: same
// address, owner, total value, and geometry centroid hash.
func dedupKey(p *ParcelCandidate) string {
	centroidWKT, err := geo.MultiCentroidWKT(p.Property.Geometry)
	if err != nil {
		centroidWKT = ""
	}

	addr := ""
	if p.Property.PropertyAddress != nil {
		addr = *p.Property.PropertyAddress
	}
	owner := ""
	if p.Property.OwnerName != nil {
		owner = *p.Property.OwnerName
	}

	return addr + "|" + owner + "|" + strconv.FormatInt(p.Property.TotalValueCents, 10) + "|" + centroidWKT
}

// Deduplicate drops empty placeholders and collapses duplicate-key
// records, keeping the one with the lowest source order, standing in
// for "smallest internal id" before any row has been assigned one.
// Output preserves source order: this is the order the pipeline
// inserts rows in, and SERIAL id assignment (and so the comparable
// tie-break and the ingest idempotence law) depends on that order
// being deterministic across reruns of the same source.
func Deduplicate(candidates []*ParcelCandidate) []*ParcelCandidate {
	keys := make([]string, len(candidates))
	firstSeenAt := make(map[string]int)

	for i, c := range candidates {
		if isEmptyPlaceholder(c) {
			continue
		}
		key := dedupKey(c)
		keys[i] = key
		if _, ok := firstSeenAt[key]; !ok {
			firstSeenAt[key] = i
		}
	}

	out := make([]*ParcelCandidate, 0, len(candidates))
	for i, c := range candidates {
		if isEmptyPlaceholder(c) {
			continue
		}
		if firstSeenAt[keys[i]] == i {
			out = append(out, c)
		}
	}
	return out
}
