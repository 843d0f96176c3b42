package models

import "image/color"

// CenterPoint represents one input row: a labeled geographic center
type CenterPoint struct {
	Code string  `json:"code"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Corner is a single rectangle corner in lon/lat order
type Corner struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// AOIRectangle is a rectangular Area of Interest derived from a center
// point and width/height in kilometers. Corners are ordered top-left,
// top-right, bottom-right, bottom-left (clockwise from NW); the ring is
// closed only when serialized.
type AOIRectangle struct {
	Code    string      `json:"code"`
	Corners [4]Corner   `json:"corners"`
	Center  CenterPoint `json:"center"`
}

// AOICollection holds one rectangle per input row, in input row order.
// Codes are expected to be unique within a collection; both output
// formats key by code.
type AOICollection []AOIRectangle

// BoundingBox represents a rectangular area defined by two corners
type BoundingBox struct {
	BottomLeft Corner
	TopRight   Corner
}

// ClosedRing returns the corners with the first corner repeated at the
// end, the closed form both output formats expect.
func (a AOIRectangle) ClosedRing() []Corner {
	return []Corner{a.Corners[0], a.Corners[1], a.Corners[2], a.Corners[3], a.Corners[0]}
}

// Bounds returns the axis-aligned extent of the rectangle
func (a AOIRectangle) Bounds() BoundingBox {
	b := BoundingBox{
		BottomLeft: Corner{Lon: a.Corners[0].Lon, Lat: a.Corners[0].Lat},
		TopRight:   Corner{Lon: a.Corners[0].Lon, Lat: a.Corners[0].Lat},
	}
	for _, c := range a.Corners[1:] {
		if c.Lon < b.BottomLeft.Lon {
			b.BottomLeft.Lon = c.Lon
		}
		if c.Lon > b.TopRight.Lon {
			b.TopRight.Lon = c.Lon
		}
		if c.Lat < b.BottomLeft.Lat {
			b.BottomLeft.Lat = c.Lat
		}
		if c.Lat > b.TopRight.Lat {
			b.TopRight.Lat = c.Lat
		}
	}
	return b
}

// Contains reports whether the point lies within the rectangle,
// boundary included
func (a AOIRectangle) Contains(lat, lon float64) bool {
	b := a.Bounds()
	return lat >= b.BottomLeft.Lat && lat <= b.TopRight.Lat &&
		lon >= b.BottomLeft.Lon && lon <= b.TopRight.Lon
}

// OverlayStyle configures the visual appearance of overlay features.
// It is passed into the overlay writer as a value; there is no global
// default style state.
type OverlayStyle struct {
	LineColor   color.RGBA
	LineWidth   float64
	FillColor   color.RGBA
	FillOpacity uint8 // alpha applied to FillColor when filling polygons
	IconURL     string
	IconScale   float64
}

// OverlayArtifact holds the paths of a written KML document and its KMZ
// container
type OverlayArtifact struct {
	KMLPath string `json:"kml_path"`
	KMZPath string `json:"kmz_path"`
}

// ShapefileArtifact holds the paths of the four shapefile companion
// files plus the zip bundling them. A partial set is not independently
// valid.
type ShapefileArtifact struct {
	SHPPath string `json:"shp_path"`
	SHXPath string `json:"shx_path"`
	DBFPath string `json:"dbf_path"`
	PRJPath string `json:"prj_path"`
	ZipPath string `json:"zip_path"`
}
