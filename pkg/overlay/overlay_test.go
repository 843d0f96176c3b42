package overlay

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubham17122001/aoi-generator/pkg/geometry"
	"github.com/shubham17122001/aoi-generator/pkg/models"
)

func testCollection() models.AOICollection {
	return geometry.Collection([]models.CenterPoint{
		{Code: "A", Lat: 13.0, Lon: 77.5},
		{Code: "B", Lat: 28.6, Lon: 77.2},
	}, 8, 8)
}

func TestWriteKML(t *testing.T) {
	base := filepath.Join(t.TempDir(), "stations_AOIs_with_centers")

	art, err := Write(testCollection(), base, DefaultStyle())
	require.NoError(t, err)
	assert.Equal(t, base+".kml", art.KMLPath)
	assert.Equal(t, base+".kmz", art.KMZPath)

	raw, err := os.ReadFile(art.KMLPath)
	require.NoError(t, err)
	content := string(raw)

	// One polygon and one center point placemark per AOI
	assert.Equal(t, 2, strings.Count(content, "<Polygon>"))
	assert.Equal(t, 2, strings.Count(content, "<Point>"))
	assert.Equal(t, 4, strings.Count(content, "<Placemark>"))

	assert.Contains(t, content, "<name>A</name>")
	assert.Contains(t, content, "<name>B</name>")
	assert.Contains(t, content, "Center: A,")

	// Blue outline and translucent blue fill in KML aabbggrr order
	assert.Contains(t, content, "ffff0000")
	assert.Contains(t, content, "64ff0000")
	assert.Contains(t, content, "<width>4</width>")
	assert.Contains(t, content, "http://maps.google.com/mapfiles/kml/pal2/icon10.png")
}

func TestWriteClosesRing(t *testing.T) {
	base := filepath.Join(t.TempDir(), "ring")

	art, err := Write(testCollection()[:1], base, DefaultStyle())
	require.NoError(t, err)

	raw, err := os.ReadFile(art.KMLPath)
	require.NoError(t, err)

	start := strings.Index(string(raw), "<coordinates>")
	end := strings.Index(string(raw), "</coordinates>")
	require.True(t, start >= 0 && end > start)

	coords := strings.Fields(strings.TrimSpace(string(raw)[start+len("<coordinates>") : end]))
	require.Len(t, coords, 5, "polygon ring should repeat the first corner")
	assert.Equal(t, coords[0], coords[4])
}

func TestWriteKMZSingleEntry(t *testing.T) {
	base := filepath.Join(t.TempDir(), "stations_AOIs_with_centers")

	art, err := Write(testCollection(), base, DefaultStyle())
	require.NoError(t, err)

	zr, err := zip.OpenReader(art.KMZPath)
	require.NoError(t, err)
	defer zr.Close()

	require.Len(t, zr.File, 1)
	assert.Equal(t, filepath.Base(art.KMLPath), zr.File[0].Name)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()

	packed, err := io.ReadAll(rc)
	require.NoError(t, err)
	direct, err := os.ReadFile(art.KMLPath)
	require.NoError(t, err)
	assert.Equal(t, direct, packed, "KMZ entry should be exactly the KML document")
}

func TestWriteCreatesOutputDirectory(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "deeper", "out")

	_, err := Write(testCollection(), base, DefaultStyle())
	require.NoError(t, err)

	_, err = os.Stat(base + ".kmz")
	assert.NoError(t, err)
}

func TestWriteOverwritesExisting(t *testing.T) {
	base := filepath.Join(t.TempDir(), "repeat")

	first, err := Write(testCollection(), base, DefaultStyle())
	require.NoError(t, err)
	firstKML, err := os.ReadFile(first.KMLPath)
	require.NoError(t, err)

	second, err := Write(testCollection(), base, DefaultStyle())
	require.NoError(t, err)
	secondKML, err := os.ReadFile(second.KMLPath)
	require.NoError(t, err)

	// Regeneration is idempotent at the coordinate level
	assert.Equal(t, firstKML, secondKML)
}
