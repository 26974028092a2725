package models

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status             string `json:"status"`
	Service            string `json:"service"`
	KnowledgeBaseReady bool   `json:"knowledge_base_ready"`
	Documents          int    `json:"documents"`
}

type CountryResponse struct {
	Country  string        `json:"country"`
	Fallback bool          `json:"fallback"`
	Record   CountryRecord `json:"record"`
}

type PlantSearchResponse struct {
	Query   string       `json:"query"`
	Results []PlantMatch `json:"results"`
}
