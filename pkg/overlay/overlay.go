// Package overlay serializes AOI collections into KML documents and
// KMZ containers for map viewers.
package overlay

import (
	"archive/zip"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/twpayne/go-kml/v2"

	"github.com/shubham17122001/aoi-generator/pkg/models"
)

// DefaultStyle returns the house style for AOI overlays: blue outline
// of width 4, translucent blue fill, Google map-pin icon at the center.
func DefaultStyle() models.OverlayStyle {
	return models.OverlayStyle{
		LineColor:   color.RGBA{B: 0xff, A: 0xff},
		LineWidth:   4,
		FillColor:   color.RGBA{B: 0xff},
		FillOpacity: 100,
		IconURL:     "http://maps.google.com/mapfiles/kml/pal2/icon10.png",
		IconScale:   1,
	}
}

// Write serializes the collection to <basePath>.kml and wraps that one
// document into <basePath>.kmz. Each AOI becomes a polygon placemark
// named by its code plus a point placemark at its center. The parent
// directory is created if absent; existing files are overwritten.
func Write(aois models.AOICollection, basePath string, style models.OverlayStyle) (models.OverlayArtifact, error) {
	if err := os.MkdirAll(filepath.Dir(basePath), 0755); err != nil {
		return models.OverlayArtifact{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	doc := kml.Document()
	for _, aoi := range aois {
		doc.Add(polygonPlacemark(aoi, style), centerPlacemark(aoi, style))
	}

	kmlPath := basePath + ".kml"
	if err := writeKML(doc, kmlPath); err != nil {
		return models.OverlayArtifact{}, err
	}

	kmzPath := basePath + ".kmz"
	if err := packKMZ(kmlPath, kmzPath); err != nil {
		return models.OverlayArtifact{}, err
	}

	return models.OverlayArtifact{KMLPath: kmlPath, KMZPath: kmzPath}, nil
}

func polygonPlacemark(aoi models.AOIRectangle, style models.OverlayStyle) kml.Element {
	fill := style.FillColor
	fill.A = style.FillOpacity

	ring := aoi.ClosedRing()
	coords := make([]kml.Coordinate, len(ring))
	for i, c := range ring {
		coords[i] = kml.Coordinate{Lon: c.Lon, Lat: c.Lat}
	}

	return kml.Placemark(
		kml.Name(aoi.Code),
		kml.Style(
			kml.LineStyle(
				kml.Color(style.LineColor),
				kml.Width(style.LineWidth),
			),
			kml.PolyStyle(
				kml.Color(fill),
			),
		),
		kml.Polygon(
			kml.OuterBoundaryIs(
				kml.LinearRing(
					kml.Coordinates(coords...),
				),
			),
		),
	)
}

func centerPlacemark(aoi models.AOIRectangle, style models.OverlayStyle) kml.Element {
	name := fmt.Sprintf("Center: %s,\nLat: %v, Lon: %v", aoi.Code, aoi.Center.Lat, aoi.Center.Lon)

	return kml.Placemark(
		kml.Name(name),
		kml.Style(
			kml.IconStyle(
				kml.Scale(style.IconScale),
				kml.Icon(
					kml.Href(style.IconURL),
				),
			),
		),
		kml.Point(
			kml.Coordinates(kml.Coordinate{Lon: aoi.Center.Lon, Lat: aoi.Center.Lat}),
		),
	)
}

func writeKML(doc kml.Element, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create KML file: %w", err)
	}

	if err := kml.KML(doc).WriteIndent(f, "", "  "); err != nil {
		f.Close()
		return fmt.Errorf("failed to write KML: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close KML file: %w", err)
	}
	return nil
}

// packKMZ zips the single KML document into the standard KMZ container
func packKMZ(kmlPath, kmzPath string) error {
	src, err := os.Open(kmlPath)
	if err != nil {
		return fmt.Errorf("failed to open KML for packing: %w", err)
	}
	defer src.Close()

	out, err := os.Create(kmzPath)
	if err != nil {
		return fmt.Errorf("failed to create KMZ file: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	entry, err := zw.Create(filepath.Base(kmlPath))
	if err != nil {
		return fmt.Errorf("failed to create KMZ entry: %w", err)
	}
	if _, err := io.Copy(entry, src); err != nil {
		return fmt.Errorf("failed to write KMZ entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize KMZ: %w", err)
	}
	return nil
}
