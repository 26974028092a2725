package services

import (
	"context"
	"sort"
	"strings"

	"github.com/blavejr/plantcareAI/models"
)

// DefaultCountry is served when a requested country is not in the dataset.
const DefaultCountry = "United States"

// Catalog answers direct lookups against the content dataset, including
// the plants that are cut from knowledge base documents.
type Catalog struct {
	source ContentSource
}

func NewCatalog(source ContentSource) *Catalog {
	return &Catalog{source: source}
}

// Countries returns all country names, sorted.
func (c *Catalog) Countries(ctx context.Context) ([]string, error) {
	records, err := c.source.LoadCountries(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(records))
	for i, record := range records {
		names[i] = record.Country
	}
	sort.Strings(names)
	return names, nil
}

// Country looks up name exactly. When it is missing the DefaultCountry
// record is returned with fallback set. ErrCountryNotFound means neither exists.
func (c *Catalog) Country(ctx context.Context, name string) (models.CountryRecord, bool, error) {
	records, err := c.source.LoadCountries(ctx)
	if err != nil {
		return models.CountryRecord{}, false, err
	}

	var def *models.CountryRecord
	for i := range records {
		if records[i].Country == name {
			return records[i], false, nil
		}
		if records[i].Country == DefaultCountry {
			def = &records[i]
		}
	}
	if def != nil {
		return *def, true, nil
	}
	return models.CountryRecord{}, false, ErrCountryNotFound
}

// SearchPlants matches term case-insensitively against plant names and types
// across every country.
func (c *Catalog) SearchPlants(ctx context.Context, term string) ([]models.PlantMatch, error) {
	records, err := c.source.LoadCountries(ctx)
	if err != nil {
		return nil, err
	}

	term = strings.ToLower(strings.TrimSpace(term))
	matches := []models.PlantMatch{}
	if term == "" {
		return matches, nil
	}

	for _, record := range records {
		for _, plant := range record.CommonPlants {
			if strings.Contains(strings.ToLower(plant.Name), term) || strings.Contains(strings.ToLower(plant.Type), term) {
				matches = append(matches, models.PlantMatch{Country: record.Country, Plant: plant})
			}
		}
	}
	return matches, nil
}
