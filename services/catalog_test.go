package services

import (
	"context"
	"errors"
	"testing"

	"github.com/blavejr/plantcareAI/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogSource() *fakeSource {
	return &fakeSource{records: []models.CountryRecord{
		{
			Country: "United States",
			CommonPlants: []models.Plant{
				{Name: "Snake Plant", Type: "Succulent"},
				{Name: "Pothos (Devil's Ivy)", Type: "Climbing vine"},
			},
		},
		{
			Country: "India",
			CommonPlants: []models.Plant{
				{Name: "Tulsi (Holy Basil)", Type: "Herb"},
				{Name: "Aloe Vera", Type: "Succulent"},
			},
		},
	}}
}

func TestCatalog_Countries(t *testing.T) {
	names, err := NewCatalog(catalogSource()).Countries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"India", "United States"}, names)
}

func TestCatalog_Country(t *testing.T) {
	catalog := NewCatalog(catalogSource())

	record, fallback, err := catalog.Country(context.Background(), "India")
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, "India", record.Country)

	record, fallback, err = catalog.Country(context.Background(), "Narnia")
	require.NoError(t, err)
	assert.True(t, fallback)
	assert.Equal(t, DefaultCountry, record.Country)

	_, _, err = NewCatalog(&fakeSource{records: countries("India")}).Country(context.Background(), "Narnia")
	assert.ErrorIs(t, err, ErrCountryNotFound)
}

func TestCatalog_SearchPlants(t *testing.T) {
	catalog := NewCatalog(catalogSource())

	matches, err := catalog.SearchPlants(context.Background(), "SUCCULENT")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "United States", matches[0].Country)
	assert.Equal(t, "Aloe Vera", matches[1].Plant.Name)

	matches, err = catalog.SearchPlants(context.Background(), "basil")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "India", matches[0].Country)

	matches, err = catalog.SearchPlants(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCatalog_SourceError(t *testing.T) {
	catalog := NewCatalog(&fakeSource{err: errors.New("down")})

	_, err := catalog.Countries(context.Background())
	assert.Error(t, err)
	_, _, err = catalog.Country(context.Background(), "India")
	assert.Error(t, err)
	_, err = catalog.SearchPlants(context.Background(), "fern")
	assert.Error(t, err)
}
