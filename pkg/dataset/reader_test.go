package dataset

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeTestWorkbook creates an xlsx file with one banner row, a header
// row and the given data rows, mirroring the production input layout.
func writeTestWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Ground Station AOI List"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"CODE", "CENTER LAT", "CENTER LONG"}))
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+3)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}

	path := filepath.Join(t.TempDir(), "stations.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadFileXLSX(t *testing.T) {
	path := writeTestWorkbook(t, [][]interface{}{
		{"BLR", 13.0, 77.5},
		{"DEL", 28.6139, 77.2090},
	})

	centers, err := ReadFile(path, DefaultReadOptions())
	require.NoError(t, err)
	require.Len(t, centers, 2)

	assert.Equal(t, "BLR", centers[0].Code)
	assert.InDelta(t, 13.0, centers[0].Lat, 1e-9)
	assert.InDelta(t, 77.5, centers[0].Lon, 1e-9)
	assert.Equal(t, "DEL", centers[1].Code)
}

func TestReadFileDuplicateCode(t *testing.T) {
	path := writeTestWorkbook(t, [][]interface{}{
		{"BLR", 13.0, 77.5},
		{"BLR", 14.0, 78.5},
	})

	_, err := ReadFile(path, DefaultReadOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate CODE "BLR"`)

	opts := DefaultReadOptions()
	opts.AllowDuplicateCodes = true
	centers, err := ReadFile(path, opts)
	require.NoError(t, err)
	assert.Len(t, centers, 2)
}

func TestReadFileInvalidLatitude(t *testing.T) {
	path := writeTestWorkbook(t, [][]interface{}{
		{"BLR", "north-ish", 77.5},
	})

	_, err := ReadFile(path, DefaultReadOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
	assert.Contains(t, err.Error(), "CENTER LAT")
}

func TestReadFileMissingColumns(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"banner"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"CODE", "LATITUDE", "LONGITUDE"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"BLR", 13.0, 77.5}))

	path := filepath.Join(t.TempDir(), "bad.xlsx")
	require.NoError(t, f.SaveAs(path))

	_, err := ReadFile(path, DefaultReadOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CENTER LAT")
	assert.Contains(t, err.Error(), "CENTER LONG")
}

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"Ground Station AOI List,,",
		"CODE,CENTER LAT,CENTER LONG",
		"BLR,13.0,77.5",
		",,",
		"SHAR,13.7199,80.2304",
	}, "\n")

	centers, err := ReadCSV(strings.NewReader(input), DefaultReadOptions())
	require.NoError(t, err)
	require.Len(t, centers, 2)
	assert.Equal(t, "SHAR", centers[1].Code)
	assert.InDelta(t, 80.2304, centers[1].Lon, 1e-9)
}

func TestReadCSVNoHeaderOffset(t *testing.T) {
	input := "CODE,CENTER LAT,CENTER LONG\nBLR,13.0,77.5\n"

	centers, err := ReadCSV(strings.NewReader(input), ReadOptions{HeaderOffset: 0})
	require.NoError(t, err)
	require.Len(t, centers, 1)
	assert.Equal(t, "BLR", centers[0].Code)
}

func TestReadCSVEmptyData(t *testing.T) {
	input := "banner,,\nCODE,CENTER LAT,CENTER LONG\n"

	_, err := ReadCSV(strings.NewReader(input), DefaultReadOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}

func TestReadFileUnsupportedFormat(t *testing.T) {
	_, err := ReadFile("stations.ods", DefaultReadOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported input format")
}
