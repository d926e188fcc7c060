package geo

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/mjmurray03/taxdown/internal/models"
)

// CentroidWKT renders a polygon's centroid as a WKT POINT, the textual
// form hashed to derive a synthetic parcel id.
func CentroidWKT(p models.Polygon) (string, error) {
	lat, lng, err := Centroid(p)
	if err != nil {
		return "", fmt.Errorf("centroid wkt: %w", err)
	}
	return fmt.Sprintf("POINT(%s %s)", formatCoord(lng), formatCoord(lat)), nil
}

// MultiCentroidWKT is CentroidWKT for a MultiPolygon, via its
// largest-area member (see MultiCentroid).
func MultiCentroidWKT(mp models.MultiPolygon) (string, error) {
	lat, lng, err := MultiCentroid(mp)
	if err != nil {
		return "", fmt.Errorf("multicentroid wkt: %w", err)
	}
	return fmt.Sprintf("POINT(%s %s)", formatCoord(lng), formatCoord(lat)), nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 9, 64)
}

// SyntheticParcelID computes "SYNTH-" followed by the uppercased first 12
// hex characters of the SHA-256 hash of the centroid's WKT text (§4.1).
// Deterministic across reingests of the same geometry.
func SyntheticParcelID(centroidWKT string) string {
	sum := sha256.Sum256([]byte(centroidWKT))
	hexDigest := hex.EncodeToString(sum[:])
	return "SYNTH-" + strings.ToUpper(hexDigest[:12])
}
