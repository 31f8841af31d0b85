package game

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// NoAbility is the ability name of cards without an ability.
const NoAbility = "No ability"

// CardDatabase is the immutable set of card definitions available to deck
// construction. It is built once and passed to whatever needs it.
type CardDatabase struct {
	cards  []*Card
	byID   map[string]*Card
	byName map[string][]*Card
}

// NewCardDatabase indexes cards by ID and folded name.
func NewCardDatabase(cards []*Card) *CardDatabase {
	db := &CardDatabase{
		cards:  cards,
		byID:   make(map[string]*Card, len(cards)),
		byName: make(map[string][]*Card, len(cards)),
	}
	for _, c := range cards {
		if c.ID != "" {
			if _, dup := db.byID[c.ID]; !dup {
				db.byID[c.ID] = c
			}
		}
		key := foldName(c.Name)
		db.byName[key] = append(db.byName[key], c)
	}
	return db
}

// LoadCardDatabase reads a JSON card database from path.
func LoadCardDatabase(path string) (*CardDatabase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open card database: %w", err)
	}
	defer f.Close()
	return ParseCardDatabase(f)
}

// ParseCardDatabase decodes a JSON array of card records.
func ParseCardDatabase(r io.Reader) (*CardDatabase, error) {
	var records []cardRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode card database: %w", err)
	}
	cards := make([]*Card, 0, len(records))
	for i, rec := range records {
		card, err := rec.toCard()
		if err != nil {
			return nil, fmt.Errorf("card record %d: %w", i, err)
		}
		cards = append(cards, card)
	}
	return NewCardDatabase(cards), nil
}

// Len returns the number of card records.
func (db *CardDatabase) Len() int {
	return len(db.cards)
}

// Cards returns every card in load order.
func (db *CardDatabase) Cards() []*Card {
	return append([]*Card(nil), db.cards...)
}

// ByID returns the card with the given database id.
func (db *CardDatabase) ByID(id string) (*Card, bool) {
	c, ok := db.byID[id]
	return c, ok
}

// Lookup returns the card named name, ignoring case and accents. When several
// records share a name, a Pokémon record wins over a trainer.
func (db *CardDatabase) Lookup(name string) (*Card, error) {
	matches := db.byName[foldName(name)]
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCard, name)
	}
	for _, c := range matches {
		if c.IsPokemon() {
			return c, nil
		}
	}
	return matches[0], nil
}

// Filter returns the cards for which keep returns true, in load order.
func (db *CardDatabase) Filter(keep func(*Card) bool) []*Card {
	var out []*Card
	for _, c := range db.cards {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// --- JSON records ---

// flexString accepts a JSON string, number or bool and keeps its text.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(strings.TrimSpace(string(b)))
	return nil
}

func (f flexString) int() int {
	n, err := strconv.Atoi(strings.TrimSpace(string(f)))
	if err != nil {
		return 0
	}
	return n
}

type cardRecord struct {
	ID            flexString      `json:"id"`
	Name          string          `json:"name"`
	CardType      string          `json:"card_type"`
	HP            flexString      `json:"hp"`
	EvolutionType string          `json:"evolution_type"`
	Type          string          `json:"type"`
	Weakness      string          `json:"weakness"`
	Retreat       flexString      `json:"retreat"`
	Ex            flexString      `json:"ex"`
	Ability       json.RawMessage `json:"ability"`
	Attacks       []attackRecord  `json:"attacks"`
	Rarity        string          `json:"rarity"`
	SetDetails    string          `json:"set_details"`
	Image         string          `json:"image"`
	FullArt       flexString      `json:"fullart"`
}

type attackRecord struct {
	Name   string     `json:"name"`
	Cost   []string   `json:"cost"`
	Damage flexString `json:"damage"`
	Effect string     `json:"effect"`
	Target string     `json:"target"`
}

type abilityRecord struct {
	Name   string `json:"name"`
	Effect string `json:"effect"`
}

func (rec cardRecord) toCard() (*Card, error) {
	if strings.TrimSpace(rec.Name) == "" {
		return nil, fmt.Errorf("missing name")
	}
	card := &Card{
		ID:       string(rec.ID),
		Name:     strings.TrimSpace(rec.Name),
		CardType: rec.CardType,
		Rarity:   rec.Rarity,
		Set:      rec.SetDetails,
		Image:    rec.Image,
		FullArt:  yesNo(string(rec.FullArt)),
		Ability:  parseAbility(rec.Ability),
	}
	card.Category = parseCategory(rec.CardType, len(rec.Attacks) > 0 || rec.HP != "")
	if !card.IsPokemon() {
		return card, nil
	}

	card.HP = rec.HP.int()
	card.EvolutionType = strings.TrimSpace(rec.EvolutionType)
	if card.EvolutionType == "" {
		card.EvolutionType = BasicStage
	}
	card.Stage = parseStage(rec.CardType, card.EvolutionType)
	card.Element = parseCardElement(rec.Type, rec.CardType)
	card.Weakness = strings.TrimSpace(rec.Weakness)
	card.RetreatCost = rec.Retreat.int()
	card.IsEx = yesNo(string(rec.Ex))
	for _, a := range rec.Attacks {
		card.Attacks = append(card.Attacks, a.toAttack())
	}
	return card, nil
}

func (a attackRecord) toAttack() Attack {
	atk := Attack{
		Name:       a.Name,
		DamageText: string(a.Damage),
		Damage:     parseDamage(string(a.Damage)),
		Effect:     a.Effect,
		Target:     ParseTargetRule(a.Target),
	}
	for _, c := range a.Cost {
		atk.Cost = append(atk.Cost, ParseElement(c))
	}
	return atk
}

// parseCategory reads the category from card_type. Trainers are
// "Trainer - Item/Supporter/Tool"; anything mentioning Pokémon is a Pokémon.
// Without either token, records that carry hp or attacks are Pokémon.
func parseCategory(cardType string, looksLikePokemon bool) Category {
	key := foldName(cardType)
	switch {
	case strings.Contains(key, "trainer"):
		switch {
		case strings.Contains(key, "supporter"):
			return CategorySupporter
		case strings.Contains(key, "tool"):
			return CategoryTool
		default:
			return CategoryItem
		}
	case strings.Contains(key, "pokemon"), looksLikePokemon:
		return CategoryPokemon
	default:
		return CategoryItem
	}
}

func parseStage(cardType, evolutionType string) string {
	key := foldName(cardType)
	switch {
	case strings.Contains(key, "stage 2"):
		return "Stage 2"
	case strings.Contains(key, "stage 1"):
		return "Stage 1"
	case sameName(evolutionType, BasicStage):
		return BasicStage
	default:
		return "Stage 1"
	}
}

// parseCardElement takes the last word of the type field, then any element
// word in card_type, and falls back to Colorless.
func parseCardElement(typeField, cardType string) ElementType {
	if fields := strings.Fields(typeField); len(fields) > 0 {
		return ParseElement(fields[len(fields)-1])
	}
	for _, word := range strings.Fields(cardType) {
		if e, ok := LookupElement(word); ok {
			return e
		}
	}
	return ElementColorless
}

// parseDamage keeps only the digits of a printed damage value: "50+" is 50,
// "" is 0.
func parseDamage(text string) int {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, text)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// parseAbility accepts an {name, effect} object or a bare string.
func parseAbility(raw json.RawMessage) Ability {
	none := Ability{Name: NoAbility}
	if len(raw) == 0 || string(raw) == "null" {
		return none
	}
	var rec abilityRecord
	if err := json.Unmarshal(raw, &rec); err == nil {
		if rec.Name == "" && rec.Effect == "" {
			return none
		}
		return Ability{Name: rec.Name, Effect: rec.Effect}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return Ability{Name: s}
	}
	return none
}

func yesNo(s string) bool {
	switch foldName(s) {
	case "yes", "true", "1":
		return true
	}
	return false
}
