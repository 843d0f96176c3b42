package main

import (
	"fmt"
	"log"

	"github.com/shubham17122001/aoi-generator/pkg/aoindex"
	"github.com/shubham17122001/aoi-generator/pkg/geometry"
	"github.com/shubham17122001/aoi-generator/pkg/models"
	"github.com/shubham17122001/aoi-generator/pkg/overlay"
	"github.com/shubham17122001/aoi-generator/pkg/shapefile"
)

func main() {
	// Sample ground-station center points
	stations := []models.CenterPoint{
		{Code: "BLR", Lat: 13.0340, Lon: 77.5110},
		{Code: "DEL", Lat: 28.6139, Lon: 77.2090},
		{Code: "SHAR", Lat: 13.7199, Lon: 80.2304},
		{Code: "TVM", Lat: 8.5241, Lon: 76.9366},
		{Code: "AHM", Lat: 23.0225, Lon: 72.5714},
	}

	// Build 8x8 km AOIs around each station
	aois := geometry.Collection(stations, 8, 8)
	fmt.Printf("Built %d AOIs\n\n", len(aois))

	for _, aoi := range aois {
		b := aoi.Bounds()
		fmt.Printf("  - %s: lon [%.4f, %.4f], lat [%.4f, %.4f]\n",
			aoi.Code, b.BottomLeft.Lon, b.TopRight.Lon, b.BottomLeft.Lat, b.TopRight.Lat)
	}

	// Write the overlay document and its KMZ container
	fmt.Println("\n=== Writing Overlay ===")
	overlayArt, err := overlay.Write(aois, "AOI_Files/stations_AOIs_with_centers", overlay.DefaultStyle())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("KML: %s\nKMZ: %s\n", overlayArt.KMLPath, overlayArt.KMZPath)

	// Write the shapefile bundle
	fmt.Println("\n=== Writing Shapefile ===")
	shapeArt, err := shapefile.Write(aois, "AOI_Files/stations_AOIs")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Bundle: %s\n", shapeArt.ZipPath)

	// Index the AOIs and run a point query
	fmt.Println("\n=== Point Query ===")
	index := aoindex.New()
	if err := index.IndexAOIs(aois); err != nil {
		log.Fatal(err)
	}

	hits := index.Containing(13.0340, 77.5110)
	fmt.Printf("AOIs containing the BLR center: %d\n", len(hits))
	for _, hit := range hits {
		fmt.Printf("  - %s\n", hit.Code)
	}

	// Save and reload the index snapshot
	fmt.Println("\n=== Snapshot ===")
	if err := index.SaveToFile("AOI_Files/stations.gob"); err != nil {
		log.Fatal(err)
	}
	reloaded := aoindex.New()
	if err := reloaded.LoadFromFile("AOI_Files/stations.gob"); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Reloaded index with %d AOIs\n", reloaded.Count())
}
