package storage

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/blavejr/plantcareAI/models"
)

//go:embed data/plants.json
var embeddedDataset []byte

// ParseDataset decodes a content dataset. Two shapes are accepted: an array
// of records carrying their own "country" field, or an object keyed by
// country name. Object keys are sorted so the result is deterministic.
func ParseDataset(data []byte) ([]models.CountryRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}

	var records []models.CountryRecord
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("failed to parse dataset: %w", err)
		}
	case '{':
		var byCountry map[string]models.CountryRecord
		if err := json.Unmarshal(trimmed, &byCountry); err != nil {
			return nil, fmt.Errorf("failed to parse dataset: %w", err)
		}
		countries := make([]string, 0, len(byCountry))
		for country := range byCountry {
			countries = append(countries, country)
		}
		sort.Strings(countries)
		for _, country := range countries {
			record := byCountry[country]
			record.Country = country
			records = append(records, record)
		}
	default:
		return nil, fmt.Errorf("dataset must be a JSON array or object")
	}

	seen := make(map[string]bool, len(records))
	for i, record := range records {
		if record.Country == "" {
			return nil, fmt.Errorf("record %d has no country", i)
		}
		if seen[record.Country] {
			return nil, fmt.Errorf("duplicate country %q", record.Country)
		}
		seen[record.Country] = true
	}

	return records, nil
}

// EmbeddedSource serves the dataset compiled into the binary.
type EmbeddedSource struct{}

func NewEmbeddedSource() *EmbeddedSource {
	return &EmbeddedSource{}
}

func (EmbeddedSource) LoadCountries(ctx context.Context) ([]models.CountryRecord, error) {
	return ParseDataset(embeddedDataset)
}

// FileSource reads the dataset from a JSON file on every load.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) LoadCountries(ctx context.Context) ([]models.CountryRecord, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return ParseDataset(data)
}
