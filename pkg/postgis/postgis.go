// Package postgis exports generated AOI collections into a PostGIS
// table so they can be queried alongside other spatial datasets.
package postgis

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/shubham17122001/aoi-generator/pkg/models"
)

// Store holds a PostGIS connection for AOI exports
type Store struct {
	db *sql.DB
}

// NewStore creates a new PostGIS connection
func NewStore(host, user, password, dbname string, port int) (*Store, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Store{db: db}, nil
}

// InitSchema creates the AOI table and its spatial index
func (s *Store) InitSchema() error {
	queries := []string{
		// Enable PostGIS extension
		`CREATE EXTENSION IF NOT EXISTS postgis;`,

		`CREATE TABLE IF NOT EXISTS aoi_rectangles (
			code TEXT PRIMARY KEY,
			center GEOMETRY(POINT, 4326),
			footprint GEOMETRY(POLYGON, 4326)
		);`,

		`CREATE INDEX IF NOT EXISTS idx_aoi_rectangles_footprint
			ON aoi_rectangles USING GIST(footprint);`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", query, err)
		}
	}

	return nil
}

// InsertAOIs loads the collection in one transaction. Rows are keyed by
// code, so re-exporting replaces earlier footprints for the same code.
func (s *Store) InsertAOIs(aois models.AOICollection) error {
	stmt, err := s.db.Prepare(`
		INSERT INTO aoi_rectangles (code, center, footprint)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326), ST_GeomFromText($4, 4326))
		ON CONFLICT (code) DO UPDATE
			SET center = EXCLUDED.center, footprint = EXCLUDED.footprint
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStmt := tx.Stmt(stmt)
	for _, aoi := range aois {
		_, err := txStmt.Exec(aoi.Code, aoi.Center.Lon, aoi.Center.Lat, polygonWKT(aoi))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert AOI %s: %w", aoi.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Containing returns the codes of stored AOIs whose footprint contains
// the given point
func (s *Store) Containing(lat, lon float64) ([]string, error) {
	query := `
		SELECT code
		FROM aoi_rectangles
		WHERE ST_Contains(footprint, ST_SetSRID(ST_MakePoint($1, $2), 4326))
		ORDER BY code
	`

	rows, err := s.db.Query(query, lon, lat)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		codes = append(codes, code)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return codes, nil
}

// Count returns the number of stored AOIs
func (s *Store) Count() (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM aoi_rectangles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count AOIs: %w", err)
	}
	return count, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// polygonWKT renders the closed rectangle ring as a WKT polygon
func polygonWKT(aoi models.AOIRectangle) string {
	ring := aoi.ClosedRing()
	parts := make([]string, len(ring))
	for i, c := range ring {
		parts[i] = fmt.Sprintf("%g %g", c.Lon, c.Lat)
	}
	return fmt.Sprintf("POLYGON((%s))", strings.Join(parts, ", "))
}
