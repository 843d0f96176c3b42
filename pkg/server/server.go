// Package server exposes the converter over HTTP: upload a workbook,
// get back download links for the KMZ and shapefile artifacts.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/shubham17122001/aoi-generator/pkg/dataset"
	"github.com/shubham17122001/aoi-generator/pkg/generator"
)

// maxUploadBytes bounds workbook uploads; center-point sheets are tiny
const maxUploadBytes = 32 << 20

// Config holds the server settings
type Config struct {
	Addr      string
	OutputDir string
}

// ConfigFromEnv builds the config from AOI_ADDR and AOI_OUTPUT_DIR,
// loading a .env file first if one is present
func ConfigFromEnv() Config {
	_ = godotenv.Load()

	cfg := Config{Addr: ":8080", OutputDir: generator.DefaultOutputDir}
	if v := os.Getenv("AOI_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("AOI_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	return cfg
}

// NewLogger builds the server logger. LOG_FORMAT=json selects the JSON
// handler, LOG_LEVEL adjusts verbosity; defaults are text at info.
func NewLogger() *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	var h slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}
	return slog.New(h)
}

// Server handles uploads and artifact downloads
type Server struct {
	cfg Config
	log *slog.Logger
}

// New creates a server for the given config
func New(cfg Config, log *slog.Logger) *Server {
	if log == nil {
		log = NewLogger()
	}
	return &Server{cfg: cfg, log: log}
}

// Routes builds the HTTP mux
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/generate", s.handleGenerate)
	mux.Handle("/files/", http.StripPrefix("/files/", http.FileServer(http.Dir(s.cfg.OutputDir))))
	return mux
}

// ListenAndServe runs the server until it fails
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	s.log.Info("listening", "addr", s.cfg.Addr, "output_dir", s.cfg.OutputDir)
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type generateResponse struct {
	Count     int    `json:"count"`
	KMZ       string `json:"kmz"`
	Shapefile string `json:"shapefile"`
}

// handleGenerate accepts a multipart form with an xlsx "file" plus
// aoi_width_km and aoi_height_km fields, runs the conversion and
// responds with download paths under /files/
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("invalid multipart form: %v", err), http.StatusBadRequest)
		return
	}

	width, err := parseDimension(r.FormValue("aoi_width_km"), "aoi_width_km")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	height, err := parseDimension(r.FormValue("aoi_height_km"), "aoi_height_km")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	centers, err := dataset.ReadXLSX(file, dataset.DefaultReadOptions())
	if err != nil {
		s.log.Warn("rejected upload", "file", header.Filename, "err", err)
		http.Error(w, fmt.Sprintf("unreadable workbook: %v", err), http.StatusUnprocessableEntity)
		return
	}

	base := generator.BaseName(header.Filename)
	res, err := generator.Generate(base, centers, generator.Params{
		WidthKm:   width,
		HeightKm:  height,
		OutputDir: s.cfg.OutputDir,
	})
	if err != nil {
		s.log.Error("generation failed", "file", header.Filename, "err", err)
		http.Error(w, fmt.Sprintf("generation failed: %v", err), http.StatusInternalServerError)
		return
	}

	s.log.Info("generated artifacts",
		"file", header.Filename,
		"aois", len(res.AOIs),
		"kmz", res.Overlay.KMZPath,
		"shapefile", res.Shapefile.ZipPath,
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(generateResponse{
		Count:     len(res.AOIs),
		KMZ:       "/files/" + filepath.Base(res.Overlay.KMZPath),
		Shapefile: "/files/" + filepath.Base(res.Shapefile.ZipPath),
	})
}

func parseDimension(v, name string) (float64, error) {
	if v == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	d, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	if d < generator.MinDimensionKm || d > generator.MaxDimensionKm {
		return 0, fmt.Errorf("%s must be between %g and %g km", name, generator.MinDimensionKm, generator.MaxDimensionKm)
	}
	return d, nil
}
