package domain

// SearchResult is a single ranked retrieval hit. The JSON shape is part of
// the observation payload contract embedded in trajectory steps.
type SearchResult struct {
	ID      string  `json:"id"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

// Observation is the structured payload serialized into a step's
// observation field after a search call.
type Observation struct {
	Results []SearchResult `json:"results"`
}
