// Package geometry converts AOI dimensions in kilometers into
// latitude/longitude rectangles around a center point.
package geometry

import (
	"math"

	"github.com/shubham17122001/aoi-generator/pkg/models"
)

// kmPerDegree is the spherical approximation of one degree of latitude
const kmPerDegree = 111.0

// KmToDegrees converts a distance in kilometers to degrees at the given
// latitude. Latitude degrees are treated as a constant 111 km; longitude
// degrees shrink with the cosine of the latitude.
func KmToDegrees(lat, km float64, isLatitude bool) float64 {
	if isLatitude {
		return km / kmPerDegree
	}
	return km / (kmPerDegree * math.Abs(math.Cos(lat*math.Pi/180.0)))
}

// Rectangle builds the AOI rectangle of the given dimensions around the
// center. The conversion is a planar spherical approximation suitable
// for small AOIs; it performs no validation, so latitudes at or near
// the poles blow up the longitude offset and non-positive dimensions
// yield degenerate rectangles. Callers doing batch runs should validate
// rows first.
func Rectangle(center models.CenterPoint, widthKm, heightKm float64) models.AOIRectangle {
	latOffset := KmToDegrees(center.Lat, heightKm/2, true)
	lonOffset := KmToDegrees(center.Lat, widthKm/2, false)

	return models.AOIRectangle{
		Code: center.Code,
		Corners: [4]models.Corner{
			{Lon: center.Lon - lonOffset, Lat: center.Lat + latOffset}, // top-left
			{Lon: center.Lon + lonOffset, Lat: center.Lat + latOffset}, // top-right
			{Lon: center.Lon + lonOffset, Lat: center.Lat - latOffset}, // bottom-right
			{Lon: center.Lon - lonOffset, Lat: center.Lat - latOffset}, // bottom-left
		},
		Center: center,
	}
}

// Collection converts a batch of center points, preserving input order
func Collection(centers []models.CenterPoint, widthKm, heightKm float64) models.AOICollection {
	aois := make(models.AOICollection, len(centers))
	for i, c := range centers {
		aois[i] = Rectangle(c, widthKm, heightKm)
	}
	return aois
}
