package models

// CountryRecord is one entry of the plant-care content dataset.
// Every field except Country is optional.
type CountryRecord struct {
	Country        string    `bson:"country" json:"country"`
	Climate        string    `bson:"climate,omitempty" json:"climate,omitempty"`
	CommonPlants   []Plant   `bson:"commonPlants,omitempty" json:"commonPlants,omitempty"`
	CommonProblems []Problem `bson:"commonProblems,omitempty" json:"commonProblems,omitempty"`
	CareGuide      []string  `bson:"careGuide,omitempty" json:"careGuide,omitempty"`
}

type Plant struct {
	Name      string `bson:"name" json:"name"`
	Type      string `bson:"type" json:"type"`
	Care      string `bson:"care" json:"care"`
	WaterFreq string `bson:"waterFreq" json:"waterFreq"`
	Light     string `bson:"light" json:"light"`
}

type Problem struct {
	Problem  string `bson:"problem" json:"problem"`
	Causes   string `bson:"causes" json:"causes"`
	Solution string `bson:"solution" json:"solution"`
}

// PlantMatch is a search hit with the country it was found under.
type PlantMatch struct {
	Country string `json:"country"`
	Plant   Plant  `json:"plant"`
}
