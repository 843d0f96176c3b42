// Package dataset reads tabular center-point input from Excel or CSV
// files. The expected layout is a header row with CODE, CENTER LAT and
// CENTER LONG columns, optionally preceded by leading banner rows.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/shubham17122001/aoi-generator/pkg/models"
)

// Required column headers, matched case-insensitively
const (
	ColCode = "CODE"
	ColLat  = "CENTER LAT"
	ColLon  = "CENTER LONG"
)

// ReadOptions controls how the tabular input is interpreted
type ReadOptions struct {
	// HeaderOffset is the number of leading rows to skip before the
	// header row. The source convention is one banner row.
	HeaderOffset int

	// AllowDuplicateCodes keeps rows with repeated CODE values instead
	// of rejecting the input. Downstream formats key by code, so
	// duplicates produce ambiguous entries.
	AllowDuplicateCodes bool
}

// DefaultReadOptions returns the options matching the source convention
func DefaultReadOptions() ReadOptions {
	return ReadOptions{HeaderOffset: 1}
}

// ReadFile reads center points from an .xlsx or .csv file
func ReadFile(path string, opts ReadOptions) ([]models.CenterPoint, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		defer f.Close()
		return readWorkbook(f, opts)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open csv file: %w", err)
		}
		defer f.Close()
		return ReadCSV(f, opts)
	default:
		return nil, fmt.Errorf("unsupported input format %q (expected .xlsx or .csv)", filepath.Ext(path))
	}
}

// ReadXLSX reads center points from xlsx content, e.g. an uploaded file
func ReadXLSX(r io.Reader, opts ReadOptions) ([]models.CenterPoint, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return readWorkbook(f, opts)
}

// ReadCSV reads center points from CSV content with the same layout
func ReadCSV(r io.Reader, opts ReadOptions) ([]models.CenterPoint, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row widths vary in hand-edited sheets

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return parseRows(rows, opts)
}

func readWorkbook(f *excelize.File, opts ReadOptions) ([]models.CenterPoint, error) {
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return parseRows(rows, opts)
}

// columnIndex maps the required columns to their positions in the header
type columnIndex struct {
	code, lat, lon int
}

func parseRows(rows [][]string, opts ReadOptions) ([]models.CenterPoint, error) {
	if opts.HeaderOffset < 0 {
		return nil, fmt.Errorf("header offset must not be negative, got %d", opts.HeaderOffset)
	}
	if len(rows) <= opts.HeaderOffset {
		return nil, fmt.Errorf("input has %d rows, no header row at offset %d", len(rows), opts.HeaderOffset)
	}

	idx, err := resolveColumns(rows[opts.HeaderOffset])
	if err != nil {
		return nil, err
	}

	seen := make(map[string]int)
	var centers []models.CenterPoint

	for i, row := range rows[opts.HeaderOffset+1:] {
		rowNum := opts.HeaderOffset + i + 2 // 1-based, as shown in spreadsheet apps
		if emptyRow(row) {
			continue
		}

		code := strings.TrimSpace(cell(row, idx.code))
		if code == "" {
			return nil, fmt.Errorf("row %d: empty %s", rowNum, ColCode)
		}

		lat, err := parseFloat(cell(row, idx.lat))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid %s: %w", rowNum, ColLat, err)
		}
		lon, err := parseFloat(cell(row, idx.lon))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid %s: %w", rowNum, ColLon, err)
		}

		if first, dup := seen[code]; dup && !opts.AllowDuplicateCodes {
			return nil, fmt.Errorf("row %d: duplicate %s %q (first seen at row %d)", rowNum, ColCode, code, first)
		}
		seen[code] = rowNum

		centers = append(centers, models.CenterPoint{Code: code, Lat: lat, Lon: lon})
	}

	if len(centers) == 0 {
		return nil, fmt.Errorf("no data rows found below header row %d", opts.HeaderOffset+1)
	}
	return centers, nil
}

func resolveColumns(header []string) (columnIndex, error) {
	idx := columnIndex{code: -1, lat: -1, lon: -1}
	for i, name := range header {
		switch strings.ToUpper(strings.TrimSpace(name)) {
		case ColCode:
			idx.code = i
		case ColLat:
			idx.lat = i
		case ColLon:
			idx.lon = i
		}
	}

	var missing []string
	if idx.code < 0 {
		missing = append(missing, ColCode)
	}
	if idx.lat < 0 {
		missing = append(missing, ColLat)
	}
	if idx.lon < 0 {
		missing = append(missing, ColLon)
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
