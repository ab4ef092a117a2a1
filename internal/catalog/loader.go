package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Parse decodes a dataset document. Missing collections are treated as
// empty.
func Parse(r io.Reader) (*Catalog, error) {
	var data Dataset
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return New(data), nil
}

// Load reads the dataset at path.
func Load(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer file.Close()

	c, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
