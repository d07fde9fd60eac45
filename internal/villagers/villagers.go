// Package villagers provides read-only access to the character
// metadata store used to build generation prompts.
package villagers

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Record holds the metadata of one villager.
type Record struct {
	Name        string            `json:"name"`
	Gender      string            `json:"gender"`
	Personality string            `json:"personality"`
	Species     string            `json:"species"`
	Birthday    string            `json:"birthday"`
	Catchphrase string            `json:"catchphrase"`
	Quote       string            `json:"quote"`
	Hobby       string            `json:"hobby"`
	Sections    map[string]string `json:"sections"`
	Trivia      []string          `json:"trivia"`
}

// Store is a name keyed collection of villager records.
type Store struct {
	records map[string]Record
}

// Load reads the villager store from a JSON file mapping names to
// records.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading villager store: %w", err)
	}

	var records map[string]Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing villager store %s: %w", path, err)
	}

	for name, record := range records {
		if record.Name == "" {
			record.Name = name
			records[name] = record
		}
	}
	return &Store{records: records}, nil
}

// Empty returns a store without any records.
func Empty() *Store {
	return &Store{records: map[string]Record{}}
}

// Get returns the record for the given villager name.
func (s *Store) Get(name string) (Record, bool) {
	record, ok := s.records[name]
	return record, ok
}

// Names returns all villager names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	return len(s.records)
}
