// Package geocell assigns S2 cell identifiers to complaint coordinates so
// complaints can be grouped and queried by locality.
package geocell

import (
	"github.com/golang/geo/s2"
)

// StorageLevel is the S2 cell level stored with each complaint. Level 16
// cells are a few city blocks across.
const StorageLevel = 16

// ID returns the S2 cell id at StorageLevel for the given coordinates.
func ID(lat, lng float64) int64 {
	cell := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng))
	return int64(cell.Parent(StorageLevel))
}

// Neighborhood returns the cell for the given coordinates together with its
// eight edge and vertex neighbors, for nearby lookups.
func Neighborhood(lat, lng float64) []int64 {
	center := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng)).Parent(StorageLevel)
	cells := []int64{int64(center)}
	for _, neighbor := range center.AllNeighbors(StorageLevel) {
		cells = append(cells, int64(neighbor))
	}
	return cells
}

// ValidCoordinates reports whether the coordinates are in range.
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
