package services

import (
	"fmt"
	"strings"

	"github.com/blavejr/plantcareAI/models"
)

// Per-document caps keep the grounded prompt small. Plants, problems and
// guide lines past these limits are only reachable through the catalog.
const (
	MaxPlantsPerDocument   = 10
	MaxProblemsPerDocument = 6
	MaxGuideLines          = 10
)

const documentIDPrefix = "country-"

// BuildDocuments turns country records into one document per country,
// in input order. Embeddings are left empty.
func BuildDocuments(records []models.CountryRecord) []models.Document {
	docs := make([]models.Document, 0, len(records))
	for _, record := range records {
		docs = append(docs, models.Document{
			ID:   documentIDPrefix + record.Country,
			Text: DocumentText(record),
		})
	}
	return docs
}

// DocumentText renders the searchable text of a single record.
func DocumentText(record models.CountryRecord) string {
	climate := strings.TrimSpace(record.Climate)
	if climate == "" {
		climate = "N/A"
	}

	plants := make([]string, 0, MaxPlantsPerDocument)
	for _, p := range head(record.CommonPlants, MaxPlantsPerDocument) {
		plants = append(plants, fmt.Sprintf("%s (%s): %s Water: %s. Light: %s.", p.Name, p.Type, p.Care, p.WaterFreq, p.Light))
	}

	problems := make([]string, 0, MaxProblemsPerDocument)
	for _, p := range head(record.CommonProblems, MaxProblemsPerDocument) {
		problems = append(problems, fmt.Sprintf("%s - Causes: %s. Solution: %s.", p.Problem, p.Causes, p.Solution))
	}

	guide := head(record.CareGuide, MaxGuideLines)

	return fmt.Sprintf("Country: %s. Climate: %s. Plants: %s Problems: %s Care Guide: %s",
		record.Country,
		climate,
		strings.Join(plants, " "),
		strings.Join(problems, " "),
		strings.Join(guide, " "),
	)
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
