// Package generator orchestrates one conversion run: tabular rows in,
// overlay and shapefile artifacts out.
package generator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shubham17122001/aoi-generator/pkg/dataset"
	"github.com/shubham17122001/aoi-generator/pkg/geometry"
	"github.com/shubham17122001/aoi-generator/pkg/models"
	"github.com/shubham17122001/aoi-generator/pkg/overlay"
	"github.com/shubham17122001/aoi-generator/pkg/shapefile"
)

// Suggested dimension bounds in kilometers, matching the upstream form
// limits. Only positivity is enforced by Run; interactive frontends
// enforce the range.
const (
	MinDimensionKm = 1.0
	MaxDimensionKm = 100.0
)

// DefaultOutputDir is where artifacts land unless a run overrides it
const DefaultOutputDir = "AOI_Files"

// Suffixes appended to the input base name for the two artifacts
const (
	OverlaySuffix   = "_AOIs_with_centers"
	ShapefileSuffix = "_AOIs"
)

// Params configures one conversion run
type Params struct {
	WidthKm  float64
	HeightKm float64

	// OutputDir receives all artifacts; DefaultOutputDir when empty.
	// Created if absent, existing artifacts are overwritten. Concurrent
	// runs against the same directory are last-writer-wins.
	OutputDir string

	// Style for the overlay document; overlay.DefaultStyle when zero
	Style models.OverlayStyle

	// Read controls input parsing, used as-is: the zero value means the
	// header is the first row and duplicate codes are rejected
	Read dataset.ReadOptions
}

// Result holds the collection and the artifact paths of a finished run
type Result struct {
	AOIs      models.AOICollection
	Overlay   models.OverlayArtifact
	Shapefile models.ShapefileArtifact
}

// Run reads the tabular input at inputPath and produces both artifacts.
// Output names derive from the input base name: <base>_AOIs_with_centers
// for the overlay and <base>_AOIs for the shapefile bundle. The first
// error aborts the run; there are no partial-success semantics, though
// files already written when a later step fails are not rolled back.
func Run(inputPath string, p Params) (*Result, error) {
	centers, err := dataset.ReadFile(inputPath, p.Read)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return Generate(BaseName(inputPath), centers, p)
}

// Generate runs the conversion for already-parsed rows. Split out so
// the HTTP server can feed uploaded workbooks through the same path.
func Generate(base string, centers []models.CenterPoint, p Params) (*Result, error) {
	if err := validate(centers, p); err != nil {
		return nil, err
	}

	if p.OutputDir == "" {
		p.OutputDir = DefaultOutputDir
	}
	if p.Style == (models.OverlayStyle{}) {
		p.Style = overlay.DefaultStyle()
	}

	aois := geometry.Collection(centers, p.WidthKm, p.HeightKm)

	overlayArt, err := overlay.Write(aois, filepath.Join(p.OutputDir, base+OverlaySuffix), p.Style)
	if err != nil {
		return nil, fmt.Errorf("failed to write overlay: %w", err)
	}

	shapeArt, err := shapefile.Write(aois, filepath.Join(p.OutputDir, base+ShapefileSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to write shapefile: %w", err)
	}

	return &Result{AOIs: aois, Overlay: overlayArt, Shapefile: shapeArt}, nil
}

// BaseName strips the directory and extension from an input path
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func validate(centers []models.CenterPoint, p Params) error {
	if p.WidthKm <= 0 || p.HeightKm <= 0 {
		return fmt.Errorf("AOI dimensions must be positive, got %gx%g km", p.WidthKm, p.HeightKm)
	}

	for i, c := range centers {
		// The geometry layer does not guard the poles; reject rows that
		// would produce infinite longitude offsets
		if c.Lat <= -90 || c.Lat >= 90 {
			return fmt.Errorf("row %d (%s): latitude %g is at or beyond a pole", i+1, c.Code, c.Lat)
		}
		if c.Lon < -180 || c.Lon > 180 {
			return fmt.Errorf("row %d (%s): longitude %g out of range", i+1, c.Code, c.Lon)
		}
	}
	return nil
}
