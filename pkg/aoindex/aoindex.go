// Package aoindex provides a thread-safe R-Tree index over generated
// AOI rectangles for point-containment and overlap queries.
package aoindex

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dhconnelly/rtreego"

	"github.com/shubham17122001/aoi-generator/pkg/models"
)

const (
	minChildren = 25
	maxChildren = 50
	dimensions  = 2

	// tolerance pads degenerate extents so zero-area rectangles and
	// query points still have an indexable rect
	tolerance = 1e-9
)

// spatialAOI wraps a rectangle to implement rtreego.Spatial
type spatialAOI struct {
	aoi  models.AOIRectangle
	rect *rtreego.Rect
}

func (s *spatialAOI) Bounds() *rtreego.Rect {
	return s.rect
}

// Index is a thread-safe R-Tree over AOI rectangles
type Index struct {
	tree      *rtreego.Rtree
	mu        sync.RWMutex
	itemCount atomic.Int64
}

// New creates an empty AOI index
func New() *Index {
	return &Index{
		tree: rtreego.NewTree(dimensions, minChildren, maxChildren),
	}
}

// IndexAOIs inserts every rectangle of the collection
func (x *Index) IndexAOIs(aois models.AOICollection) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, aoi := range aois {
		rect, err := boundsRect(aoi)
		if err != nil {
			return fmt.Errorf("failed to index AOI %q: %w", aoi.Code, err)
		}
		x.tree.Insert(&spatialAOI{aoi: aoi, rect: rect})
		x.itemCount.Add(1)
	}
	return nil
}

// Containing returns the AOIs whose rectangle contains the given point,
// in no particular order
func (x *Index) Containing(lat, lon float64) []models.AOIRectangle {
	x.mu.RLock()
	defer x.mu.RUnlock()

	p := rtreego.Point{lat, lon}
	results := x.tree.SearchIntersect(p.ToRect(tolerance))

	aois := make([]models.AOIRectangle, 0, len(results))
	for _, result := range results {
		item, ok := result.(*spatialAOI)
		if !ok {
			continue
		}
		// The tree reports bounding-rect intersections; confirm actual
		// containment the same way radius searches confirm distance
		if item.aoi.Contains(lat, lon) {
			aois = append(aois, item.aoi)
		}
	}
	return aois
}

// Overlapping returns the AOIs whose extent intersects the given box
func (x *Index) Overlapping(box models.BoundingBox) ([]models.AOIRectangle, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	// Pad degenerate spans the same way indexed rects are padded, so
	// point-like and line-like query boxes work instead of erroring
	latSpan := box.TopRight.Lat - box.BottomLeft.Lat
	lonSpan := box.TopRight.Lon - box.BottomLeft.Lon
	if latSpan <= 0 {
		latSpan = tolerance
	}
	if lonSpan <= 0 {
		lonSpan = tolerance
	}
	bounds, err := rtreego.NewRect(
		rtreego.Point{box.BottomLeft.Lat, box.BottomLeft.Lon},
		[]float64{latSpan, lonSpan},
	)
	if err != nil {
		return nil, fmt.Errorf("invalid query box: %w", err)
	}

	results := x.tree.SearchIntersect(bounds)
	aois := make([]models.AOIRectangle, 0, len(results))
	for _, result := range results {
		item, ok := result.(*spatialAOI)
		if !ok {
			continue
		}
		b := item.aoi.Bounds()
		if b.BottomLeft.Lat <= box.TopRight.Lat && b.TopRight.Lat >= box.BottomLeft.Lat &&
			b.BottomLeft.Lon <= box.TopRight.Lon && b.TopRight.Lon >= box.BottomLeft.Lon {
			aois = append(aois, item.aoi)
		}
	}
	return aois, nil
}

// Count returns the number of indexed AOIs
func (x *Index) Count() int64 {
	return x.itemCount.Load()
}

// Clear removes all AOIs from the index
func (x *Index) Clear() {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.tree = rtreego.NewTree(dimensions, minChildren, maxChildren)
	x.itemCount.Store(0)
}

// all extracts every indexed AOI by searching a world-sized box.
// rtreego provides no iterator, same workaround as for persistence of
// point indexes.
func (x *Index) all() []models.AOIRectangle {
	largeBounds, _ := rtreego.NewRect(rtreego.Point{-90, -180}, []float64{180, 360})
	results := x.tree.SearchIntersect(largeBounds)

	aois := make([]models.AOIRectangle, 0, len(results))
	for _, result := range results {
		if item, ok := result.(*spatialAOI); ok {
			aois = append(aois, item.aoi)
		}
	}
	return aois
}

func boundsRect(aoi models.AOIRectangle) (*rtreego.Rect, error) {
	b := aoi.Bounds()
	latSpan := b.TopRight.Lat - b.BottomLeft.Lat
	lonSpan := b.TopRight.Lon - b.BottomLeft.Lon
	if latSpan <= 0 {
		latSpan = tolerance
	}
	if lonSpan <= 0 {
		lonSpan = tolerance
	}
	return rtreego.NewRect(
		rtreego.Point{b.BottomLeft.Lat, b.BottomLeft.Lon},
		[]float64{latSpan, lonSpan},
	)
}
