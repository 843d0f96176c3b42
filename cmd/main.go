package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shubham17122001/aoi-generator/pkg/aoindex"
	"github.com/shubham17122001/aoi-generator/pkg/dataset"
	"github.com/shubham17122001/aoi-generator/pkg/generator"
	"github.com/shubham17122001/aoi-generator/pkg/postgis"
	"github.com/shubham17122001/aoi-generator/pkg/server"
)

var rootCmd = &cobra.Command{
	Use:   "aoi-generator",
	Short: "Convert spreadsheets of center points into AOI overlays and shapefiles",
	Long: `Reads a spreadsheet of named center points, builds fixed-size
rectangular Areas of Interest around each one, and writes the result as
a KML/KMZ map overlay plus a WGS84 shapefile bundle.`,
}

var generateCmd = &cobra.Command{
	Use:   "generate <input.xlsx|input.csv>",
	Short: "Generate KMZ and shapefile artifacts from a spreadsheet",
	Long:  `Run one conversion: read center-point rows, build AOIs, write both artifacts.`,
	Args:  cobra.ExactArgs(1),
	Run:   runGenerate,
}

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Find the AOIs containing a point",
	Long:  `Load a saved AOI index snapshot and list the AOIs containing the given point.`,
	Run:   runLocate,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the converter over HTTP",
	Long:  `Accept workbook uploads on /generate and serve the generated artifacts on /files/.`,
	Run:   runServe,
}

var exportCmd = &cobra.Command{
	Use:   "export-postgis <input.xlsx|input.csv>",
	Short: "Export generated AOIs into a PostGIS table",
	Long:  `Convert the spreadsheet and load the resulting AOI polygons into PostGIS.`,
	Args:  cobra.ExactArgs(1),
	Run:   runExport,
}

var (
	widthKm        float64
	heightKm       float64
	outputDir      string
	headerOffset   int
	allowDupCodes  bool
	indexFile      string
	locateIndex    string
	locateLat      float64
	locateLon      float64
	serveAddr      string
	serveOut       string
	dbHost         string
	dbPort         int
	dbUser         string
	dbPassword     string
	dbName         string
	skipInitSchema bool
)

func init() {
	generateCmd.Flags().Float64VarP(&widthKm, "width", "W", 8, "AOI width in km")
	generateCmd.Flags().Float64VarP(&heightKm, "height", "H", 8, "AOI height in km")
	generateCmd.Flags().StringVarP(&outputDir, "out", "o", generator.DefaultOutputDir, "Output directory")
	generateCmd.Flags().IntVar(&headerOffset, "header-offset", 1, "Leading rows to skip before the header row")
	generateCmd.Flags().BoolVar(&allowDupCodes, "allow-duplicate-codes", false, "Keep rows with repeated CODE values")
	generateCmd.Flags().StringVar(&indexFile, "index-file", "", "Also save an AOI index snapshot to this path")

	locateCmd.Flags().StringVarP(&locateIndex, "index-file", "i", "aois.gob", "AOI index snapshot path")
	locateCmd.Flags().Float64Var(&locateLat, "lat", 0, "Point latitude")
	locateCmd.Flags().Float64Var(&locateLon, "lon", 0, "Point longitude")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides AOI_ADDR)")
	serveCmd.Flags().StringVarP(&serveOut, "out", "o", "", "Output directory (overrides AOI_OUTPUT_DIR)")

	exportCmd.Flags().Float64VarP(&widthKm, "width", "W", 8, "AOI width in km")
	exportCmd.Flags().Float64VarP(&heightKm, "height", "H", 8, "AOI height in km")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", generator.DefaultOutputDir, "Output directory")
	exportCmd.Flags().IntVar(&headerOffset, "header-offset", 1, "Leading rows to skip before the header row")
	exportCmd.Flags().StringVar(&dbHost, "db-host", "localhost", "PostGIS host")
	exportCmd.Flags().IntVar(&dbPort, "db-port", 5432, "PostGIS port")
	exportCmd.Flags().StringVar(&dbUser, "db-user", "postgres", "PostGIS user")
	exportCmd.Flags().StringVar(&dbPassword, "db-password", "", "PostGIS password (defaults to AOI_DB_PASSWORD)")
	exportCmd.Flags().StringVar(&dbName, "db-name", "geodb", "PostGIS database name")
	exportCmd.Flags().BoolVar(&skipInitSchema, "skip-init-schema", false, "Do not create the table and index")

	rootCmd.AddCommand(generateCmd, locateCmd, serveCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) {
	res, err := generator.Run(args[0], generator.Params{
		WidthKm:   widthKm,
		HeightKm:  heightKm,
		OutputDir: outputDir,
		Read: dataset.ReadOptions{
			HeaderOffset:        headerOffset,
			AllowDuplicateCodes: allowDupCodes,
		},
	})
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	log.Printf("Generated %d AOIs (%gx%g km)\n", len(res.AOIs), widthKm, heightKm)
	log.Printf("Overlay: %s\n", res.Overlay.KMZPath)
	log.Printf("Shapefile bundle: %s\n", res.Shapefile.ZipPath)

	if indexFile != "" {
		index := aoindex.New()
		if err := index.IndexAOIs(res.AOIs); err != nil {
			log.Fatalf("Failed to index AOIs: %v", err)
		}
		if err := index.SaveToFile(indexFile); err != nil {
			log.Fatalf("Failed to save index: %v", err)
		}
		log.Printf("Index snapshot: %s\n", indexFile)
	}
}

func runLocate(cmd *cobra.Command, args []string) {
	index := aoindex.New()
	if err := index.LoadFromFile(locateIndex); err != nil {
		log.Fatalf("Failed to load index: %v", err)
	}
	log.Printf("Loaded %d AOIs from %s\n", index.Count(), locateIndex)

	hits := index.Containing(locateLat, locateLon)
	if len(hits) == 0 {
		fmt.Printf("No AOI contains (%.6f, %.6f)\n", locateLat, locateLon)
		return
	}
	for i, aoi := range hits {
		fmt.Printf("%d. %s: center (%.6f, %.6f)\n", i+1, aoi.Code, aoi.Center.Lat, aoi.Center.Lon)
	}
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := server.ConfigFromEnv()
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if serveOut != "" {
		cfg.OutputDir = serveOut
	}

	srv := server.New(cfg, server.NewLogger())
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func runExport(cmd *cobra.Command, args []string) {
	_ = godotenv.Load()
	if dbPassword == "" {
		dbPassword = os.Getenv("AOI_DB_PASSWORD")
	}

	centers, err := dataset.ReadFile(args[0], dataset.ReadOptions{HeaderOffset: headerOffset})
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	res, err := generator.Generate(generator.BaseName(args[0]), centers, generator.Params{
		WidthKm:   widthKm,
		HeightKm:  heightKm,
		OutputDir: outputDir,
	})
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	store, err := postgis.NewStore(dbHost, dbUser, dbPassword, dbName, dbPort)
	if err != nil {
		log.Fatalf("Failed to connect to PostGIS: %v", err)
	}
	defer store.Close()

	if !skipInitSchema {
		if err := store.InitSchema(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	}

	if err := store.InsertAOIs(res.AOIs); err != nil {
		log.Fatalf("Failed to insert AOIs: %v", err)
	}

	count, err := store.Count()
	if err != nil {
		log.Fatalf("Failed to count AOIs: %v", err)
	}
	log.Printf("Exported %d AOIs, table now holds %d\n", len(res.AOIs), count)
}
