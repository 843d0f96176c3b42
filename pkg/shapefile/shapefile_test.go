package shapefile

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubham17122001/aoi-generator/pkg/geometry"
	"github.com/shubham17122001/aoi-generator/pkg/models"
)

func testCollection() models.AOICollection {
	return geometry.Collection([]models.CenterPoint{
		{Code: "A", Lat: 13.0, Lon: 77.5},
		{Code: "B", Lat: 28.6139, Lon: 77.2090},
	}, 8, 8)
}

func TestWriteProducesCompleteBundle(t *testing.T) {
	base := filepath.Join(t.TempDir(), "stations_AOIs")

	art, err := Write(testCollection(), base)
	require.NoError(t, err)

	for _, path := range []string{art.SHPPath, art.SHXPath, art.DBFPath, art.PRJPath, art.ZipPath} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Greater(t, info.Size(), int64(0), path)
	}

	prj, err := os.ReadFile(art.PRJPath)
	require.NoError(t, err)
	assert.Contains(t, string(prj), "GCS_WGS_1984")

	zr, err := zip.OpenReader(art.ZipPath)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"stations_AOIs.dbf",
		"stations_AOIs.prj",
		"stations_AOIs.shp",
		"stations_AOIs.shx",
	}, names)
}

func TestRoundTrip(t *testing.T) {
	base := filepath.Join(t.TempDir(), "roundtrip")
	want := testCollection()

	art, err := Write(want, base)
	require.NoError(t, err)

	got, err := Read(art.SHPPath)
	require.NoError(t, err)
	require.Len(t, got, len(want))

	for i := range want {
		assert.Equal(t, want[i].Code, got[i].Code)
		for j := 0; j < 4; j++ {
			assert.InDelta(t, want[i].Corners[j].Lon, got[i].Corners[j].Lon, 1e-9)
			assert.InDelta(t, want[i].Corners[j].Lat, got[i].Corners[j].Lat, 1e-9)
		}
		assert.InDelta(t, want[i].Center.Lat, got[i].Center.Lat, 1e-9)
		assert.InDelta(t, want[i].Center.Lon, got[i].Center.Lon, 1e-9)
	}
}

func TestReadTrimsAttributePadding(t *testing.T) {
	// DBF stores CODE as a fixed-width character field padded with
	// spaces; the reader must return the codes exactly as written,
	// including when their lengths differ within one table.
	base := filepath.Join(t.TempDir(), "padded")
	aois := geometry.Collection([]models.CenterPoint{
		{Code: "BLR", Lat: 13.0, Lon: 77.5},
		{Code: "SHAR", Lat: 13.7199, Lon: 80.2304},
		{Code: "D", Lat: 28.6139, Lon: 77.2090},
	}, 8, 8)

	art, err := Write(aois, base)
	require.NoError(t, err)

	got, err := Read(art.SHPPath)
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i, want := range []string{"BLR", "SHAR", "D"} {
		assert.Equal(t, want, got[i].Code)
		assert.Equal(t, want, got[i].Center.Code)
	}
}

func TestWriteDuplicateCodes(t *testing.T) {
	// The writer does not deduplicate; a collection that was read with
	// AllowDuplicateCodes produces one record per row and consumers see
	// ambiguous keys.
	base := filepath.Join(t.TempDir(), "dupes")
	aois := geometry.Collection([]models.CenterPoint{
		{Code: "A", Lat: 13.0, Lon: 77.5},
		{Code: "A", Lat: 14.0, Lon: 78.5},
	}, 8, 8)

	art, err := Write(aois, base)
	require.NoError(t, err)

	got, err := Read(art.SHPPath)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Code)
	assert.Equal(t, "A", got[1].Code)
}

func TestWriteDegenerateRectangle(t *testing.T) {
	// Zero-area rectangles are written without error; usefulness is the
	// caller's problem.
	base := filepath.Join(t.TempDir(), "degenerate")
	aois := geometry.Collection([]models.CenterPoint{{Code: "Z", Lat: 10, Lon: 10}}, 0, 0)

	_, err := Write(aois, base)
	require.NoError(t, err)
}

func TestWriteOverwritesExisting(t *testing.T) {
	base := filepath.Join(t.TempDir(), "again")

	_, err := Write(testCollection(), base)
	require.NoError(t, err)

	art, err := Write(testCollection(), base)
	require.NoError(t, err)

	got, err := Read(art.SHPPath)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
