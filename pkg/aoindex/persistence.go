package aoindex

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/shubham17122001/aoi-generator/pkg/models"
)

// IndexData represents the serializable form of the AOI index
type IndexData struct {
	AOIs  models.AOICollection `json:"aois"`
	Count int64                `json:"count"`
}

// SaveToFile saves the index to a binary snapshot so a generated run
// can be re-queried without re-reading the spreadsheet
func (x *Index) SaveToFile(filename string) error {
	x.mu.RLock()
	defer x.mu.RUnlock()

	data := IndexData{
		AOIs:  x.all(),
		Count: x.itemCount.Load(),
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}

	return nil
}

// LoadFromFile loads a snapshot and rebuilds the index
func (x *Index) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var data IndexData
	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}

	x.Clear()
	if err := x.IndexAOIs(data.AOIs); err != nil {
		return fmt.Errorf("failed to index AOIs: %w", err)
	}

	return nil
}
