// Package corpus loads the processed article corpus from disk.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kalder-cloud/reagent/internal/domain"
)

// documentDTO is the on-disk shape of one processed article.
type documentDTO struct {
	ID     string   `json:"id"`
	URL    string   `json:"url"`
	Title  string   `json:"title"`
	Tokens []string `json:"tokens"`
}

// Load reads the most recent processed corpus file in dir. Filenames embed
// a sortable timestamp, so the lexicographically-latest *.json file is the
// newest. Returns the documents and the path that was loaded. An empty dir
// (or no *.json file) is fatal: domain.ErrNoCorpus.
func Load(dir string) ([]domain.Document, string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, "", fmt.Errorf("read corpus dir %s: %w", dir, err)
	}

	var latest string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if name > latest {
			latest = name
		}
	}
	if latest == "" {
		return nil, "", fmt.Errorf("%w in %s", domain.ErrNoCorpus, dir)
	}

	path := filepath.Join(dir, latest)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read corpus file %s: %w", path, err)
	}

	var dtos []documentDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, "", fmt.Errorf("parse corpus file %s: %w", path, err)
	}

	docs := make([]domain.Document, 0, len(dtos))
	for i, dto := range dtos {
		doc, err := domain.NewDocument(dto.ID, dto.URL, dto.Title, dto.Tokens)
		if err != nil {
			return nil, "", fmt.Errorf("corpus document %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return docs, path, nil
}
