package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DeckSize  = 20
	MaxCopies = 2
)

// Deck is a validated deck: exactly DeckSize cards plus the energy types the
// energy zone draws from.
type Deck struct {
	Name        string
	Cards       []*Card
	EnergyTypes []ElementType
}

// NewDeck validates cards and energyTypes against the deck construction rules
// and returns a Deck owning copies of both slices. Every broken rule is
// reported in the returned *InvalidDeckError.
func NewDeck(name string, cards []*Card, energyTypes []ElementType) (*Deck, error) {
	var problems []string
	if len(cards) != DeckSize {
		problems = append(problems, fmt.Sprintf("Deck must contain exactly %d cards (has %d)", DeckSize, len(cards)))
	}

	counts := make(map[string]int)
	var order []string
	basics := 0
	for _, c := range cards {
		if c == nil {
			problems = append(problems, "Deck contains an undefined card")
			continue
		}
		key := foldName(c.Name)
		if counts[key] == 0 {
			order = append(order, c.Name)
		}
		counts[key]++
		if c.IsBasic() {
			basics++
		}
	}
	for _, n := range order {
		if counts[foldName(n)] > MaxCopies {
			problems = append(problems, fmt.Sprintf("Deck cannot contain more than %d copies of %s", MaxCopies, n))
		}
	}
	if basics == 0 {
		problems = append(problems, "Deck must contain at least 1 basic Pokemon")
	}
	if len(energyTypes) == 0 {
		problems = append(problems, "Deck must declare at least 1 energy type")
	}
	if len(problems) > 0 {
		return nil, &InvalidDeckError{Deck: name, Problems: problems}
	}

	// Energy is drawn uniformly over the declared set, so repeats collapse.
	var energy []ElementType
	seen := make(map[ElementType]bool)
	for _, e := range energyTypes {
		if !seen[e] {
			seen[e] = true
			energy = append(energy, e)
		}
	}

	return &Deck{
		Name:        name,
		Cards:       append([]*Card(nil), cards...),
		EnergyTypes: energy,
	}, nil
}

// DeckFile represents the top-level YAML structure.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry represents a single deck in the YAML file.
type DeckEntry struct {
	Name   string      `yaml:"name"`
	Energy []string    `yaml:"energy"`
	Cards  []CardEntry `yaml:"cards"`
}

// CardEntry represents a card and its count in a deck.
type CardEntry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// ParseDeckFile parses YAML deck list data.
func ParseDeckFile(data []byte) (*DeckFile, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}
	return &df, nil
}

// LoadDeckFile reads and parses a YAML deck list.
func LoadDeckFile(path string) (*DeckFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDeckFile(data)
}

// Build resolves the entry's card names against db and validates the result.
func (e DeckEntry) Build(db *CardDatabase) (*Deck, error) {
	var cards []*Card
	for _, entry := range e.Cards {
		card, err := db.Lookup(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("deck %q: %w", e.Name, err)
		}
		for i := 0; i < entry.Count; i++ {
			cards = append(cards, card)
		}
	}

	var energy []ElementType
	for _, name := range e.Energy {
		el, ok := LookupElement(name)
		if !ok {
			return nil, fmt.Errorf("deck %q: unknown energy type %q", e.Name, name)
		}
		energy = append(energy, el)
	}

	return NewDeck(e.Name, cards, energy)
}

// DeckByNumber returns the Nth deck (1-indexed) from the deck file.
func DeckByNumber(path string, n int, db *CardDatabase) (*Deck, error) {
	df, err := LoadDeckFile(path)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(df.Decks) {
		return nil, fmt.Errorf("deck %d not found (have %d decks)", n, len(df.Decks))
	}
	return df.Decks[n-1].Build(db)
}
