// Package shapefile writes AOI collections as shapefile bundles
// (.shp, .shx, .dbf, .prj) in WGS84 and zips the four files together.
package shapefile

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"

	"github.com/shubham17122001/aoi-generator/pkg/models"
)

// wgs84WKT is the ESRI well-known text for EPSG:4326, written to the
// .prj companion file
const wgs84WKT = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// record is the attribute table layout: one polygon keyed by AOI code
type record struct {
	geom.Polygon
	CODE string
}

// Write emits the shapefile bundle at <basename>.{shp,shx,dbf,prj} and
// zips the four files into <basename>.zip. All five files are produced
// together or the write fails; a partial bundle is not valid. Existing
// files are overwritten. Rows are written in collection order with no
// deduplication, so duplicate codes yield duplicate records.
func Write(aois models.AOICollection, basename string) (models.ShapefileArtifact, error) {
	if err := os.MkdirAll(filepath.Dir(basename), 0755); err != nil {
		return models.ShapefileArtifact{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	art := models.ShapefileArtifact{
		SHPPath: basename + ".shp",
		SHXPath: basename + ".shx",
		DBFPath: basename + ".dbf",
		PRJPath: basename + ".prj",
		ZipPath: basename + ".zip",
	}

	enc, err := shp.NewEncoder(art.SHPPath, record{})
	if err != nil {
		return models.ShapefileArtifact{}, fmt.Errorf("failed to create shapefile encoder: %w", err)
	}
	for _, aoi := range aois {
		if err := enc.Encode(record{Polygon: polygon(aoi), CODE: aoi.Code}); err != nil {
			enc.Close()
			return models.ShapefileArtifact{}, fmt.Errorf("failed to encode AOI %q: %w", aoi.Code, err)
		}
	}
	enc.Close()

	if err := os.WriteFile(art.PRJPath, []byte(wgs84WKT), 0644); err != nil {
		return models.ShapefileArtifact{}, fmt.Errorf("failed to write projection file: %w", err)
	}

	if err := bundle(art); err != nil {
		return models.ShapefileArtifact{}, err
	}
	return art, nil
}

// Read loads codes and rectangles back from a shapefile. Used by the
// locate command and to verify round trips.
func Read(shpPath string) (models.AOICollection, error) {
	dec, err := shp.NewDecoder(shpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer dec.Close()

	var aois models.AOICollection
	for {
		g, fields, more := dec.DecodeRowFields("CODE")
		if !more {
			break
		}

		// DBF character fields are fixed-width; strip the trailing
		// padding so codes round-trip as written
		code := strings.TrimRight(fields["CODE"], " \x00")

		poly, ok := g.(geom.Polygon)
		if !ok {
			return nil, fmt.Errorf("unexpected geometry type %T for %q", g, code)
		}
		aoi, err := fromPolygon(code, poly)
		if err != nil {
			return nil, err
		}
		aois = append(aois, aoi)
	}
	if err := dec.Error(); err != nil {
		return nil, fmt.Errorf("failed to read shapefile: %w", err)
	}
	return aois, nil
}

// polygon converts an AOI into a closed single-ring polygon
func polygon(aoi models.AOIRectangle) geom.Polygon {
	ring := aoi.ClosedRing()
	path := make([]geom.Point, len(ring))
	for i, c := range ring {
		path[i] = geom.Point{X: c.Lon, Y: c.Lat}
	}
	return geom.Polygon{path}
}

func fromPolygon(code string, poly geom.Polygon) (models.AOIRectangle, error) {
	if len(poly) == 0 || len(poly[0]) < 4 {
		return models.AOIRectangle{}, fmt.Errorf("AOI %q: degenerate polygon ring", code)
	}

	aoi := models.AOIRectangle{Code: code}
	var sumLon, sumLat float64
	for i := 0; i < 4; i++ {
		aoi.Corners[i] = models.Corner{Lon: poly[0][i].X, Lat: poly[0][i].Y}
		sumLon += poly[0][i].X
		sumLat += poly[0][i].Y
	}
	aoi.Center = models.CenterPoint{Code: code, Lat: sumLat / 4, Lon: sumLon / 4}
	return aoi, nil
}

// bundle zips the four companion files; consumers need the complete set
func bundle(art models.ShapefileArtifact) error {
	out, err := os.Create(art.ZipPath)
	if err != nil {
		return fmt.Errorf("failed to create shapefile bundle: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, path := range []string{art.SHPPath, art.SHXPath, art.DBFPath, art.PRJPath} {
		if err := addToZip(zw, path); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize shapefile bundle: %w", err)
	}
	return nil
}

func addToZip(zw *zip.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s for bundling: %w", filepath.Base(path), err)
	}
	defer src.Close()

	entry, err := zw.Create(filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create bundle entry %s: %w", filepath.Base(path), err)
	}
	if _, err := io.Copy(entry, src); err != nil {
		return fmt.Errorf("failed to write bundle entry %s: %w", filepath.Base(path), err)
	}
	return nil
}
