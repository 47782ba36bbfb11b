package faq

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed seed.json
var seedData []byte

// SeedEntry is the on-disk shape of a bundled FAQ.
type SeedEntry struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// SeedEntries returns the FAQ corpus bundled with the binary. It is
// loaded into the store on first startup when the faqs collection is
// empty.
func SeedEntries() ([]SeedEntry, error) {
	var entries []SeedEntry
	if err := json.Unmarshal(seedData, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse bundled FAQ corpus: %w", err)
	}
	return entries, nil
}
