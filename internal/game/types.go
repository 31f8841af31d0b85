package game

import (
	"fmt"
	"strings"
)

// --- Enums ---

// ElementType is the closed set of energy/element types.
type ElementType int

const (
	ElementColorless ElementType = iota
	ElementGrass
	ElementFire
	ElementWater
	ElementLightning
	ElementFighting
	ElementPsychic
	ElementDarkness
	ElementMetal
	ElementFairy
	ElementDragon

	ElementCount // number of element types; not a valid element
)

var elementNames = [ElementCount]string{
	"Colorless",
	"Grass",
	"Fire",
	"Water",
	"Lightning",
	"Fighting",
	"Psychic",
	"Darkness",
	"Metal",
	"Fairy",
	"Dragon",
}

func (e ElementType) String() string {
	if e < 0 || e >= ElementCount {
		return "Unknown"
	}
	return elementNames[e]
}

// Elements returns every element type in enum order.
func Elements() []ElementType {
	out := make([]ElementType, 0, ElementCount)
	for e := ElementColorless; e < ElementCount; e++ {
		out = append(out, e)
	}
	return out
}

// LookupElement resolves an element name, ignoring case and accents.
func LookupElement(name string) (ElementType, bool) {
	key := foldName(name)
	for e := ElementColorless; e < ElementCount; e++ {
		if foldName(elementNames[e]) == key {
			return e, true
		}
	}
	return ElementColorless, false
}

// ParseElement is LookupElement with the Colorless fallback for unknown names.
func ParseElement(name string) ElementType {
	e, _ := LookupElement(name)
	return e
}

// EnergyCounts holds one counter per element type. Every slot always exists.
type EnergyCounts [ElementCount]int

// Total returns the number of energies across all elements.
func (ec EnergyCounts) Total() int {
	total := 0
	for _, n := range ec {
		total += n
	}
	return total
}

func (ec EnergyCounts) String() string {
	var parts []string
	for e, n := range ec {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%s×%d", ElementType(e), n))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// Category is the closed set of card kinds. The engine switches on it when a
// card is played.
type Category int

const (
	CategoryPokemon Category = iota
	CategoryItem
	CategorySupporter
	CategoryTool
)

func (c Category) String() string {
	switch c {
	case CategoryPokemon:
		return "Pokémon"
	case CategoryItem:
		return "Item"
	case CategorySupporter:
		return "Supporter"
	case CategoryTool:
		return "Tool"
	default:
		return "Unknown"
	}
}

// IsTrainer reports whether the category is one of the trainer kinds.
func (c Category) IsTrainer() bool {
	return c == CategoryItem || c == CategorySupporter || c == CategoryTool
}

// StatusCondition is the single optional special condition a unit can carry.
type StatusCondition int

const (
	StatusNone StatusCondition = iota
	StatusPoison
	StatusBurn
	StatusSleep
	StatusParalysis
	StatusConfusion
)

func (s StatusCondition) String() string {
	switch s {
	case StatusPoison:
		return "Poisoned"
	case StatusBurn:
		return "Burned"
	case StatusSleep:
		return "Asleep"
	case StatusParalysis:
		return "Paralyzed"
	case StatusConfusion:
		return "Confused"
	default:
		return ""
	}
}

// TargetRule says which opponent units an attack hits.
type TargetRule int

const (
	TargetOpponentActive TargetRule = iota
	TargetOpponentBench
	TargetRandomOpponent
	TargetMultiRandom
)

func (t TargetRule) String() string {
	switch t {
	case TargetOpponentBench:
		return "opponent_bench"
	case TargetRandomOpponent:
		return "random_opponent"
	case TargetMultiRandom:
		return "multi_random"
	default:
		return "opponent_active"
	}
}

// ParseTargetRule maps a card database target token to a TargetRule.
// Unrecognized tokens target the opponent's active unit.
func ParseTargetRule(token string) TargetRule {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "opponent_bench":
		return TargetOpponentBench
	case "random_opponent":
		return TargetRandomOpponent
	case "multi_random":
		return TargetMultiRandom
	default:
		return TargetOpponentActive
	}
}

// Phase is the step of the game the engine is currently in.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseStart
	PhaseMain
	PhaseEnd
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseStart:
		return "Start Phase"
	case PhaseMain:
		return "Main Phase"
	case PhaseEnd:
		return "End Phase"
	case PhaseFinished:
		return "Finished"
	default:
		return "None"
	}
}

// GameStage is the coarse game state machine: Setup -> Playing -> Finished.
type GameStage int

const (
	StageSetup GameStage = iota
	StagePlaying
	StageFinished
)

func (s GameStage) String() string {
	switch s {
	case StagePlaying:
		return "Playing"
	case StageFinished:
		return "Finished"
	default:
		return "Setup"
	}
}

// --- Card definition (static, from the card database) ---

// Ability is a named effect printed on a card. Effects are data only.
type Ability struct {
	Name   string
	Effect string
}

// Attack is one entry of a Pokémon's ordered attack list.
type Attack struct {
	Name       string
	Cost       []ElementType
	Damage     int
	DamageText string // as printed, e.g. "50+"
	Effect     string
	Target     TargetRule
}

// Card is an immutable card definition shared by every copy in play.
type Card struct {
	ID       string
	Name     string
	Category Category
	CardType string // raw card_type field, e.g. "Pokémon - Stage 1 Fire"
	Rarity   string
	Set      string
	Image    string
	FullArt  bool

	// Pokémon fields
	HP            int
	EvolutionType string // "Basic" or the name of the pre-evolution
	Stage         string // "Basic", "Stage 1", "Stage 2"
	Element       ElementType
	Weakness      string
	RetreatCost   int
	IsEx          bool
	Attacks       []Attack

	// For trainers Ability carries the card's effect text.
	Ability Ability
}

func (c *Card) String() string {
	return c.Name
}

// IsPokemon reports whether the card is a Pokémon.
func (c *Card) IsPokemon() bool {
	return c.Category == CategoryPokemon
}

// IsBasic reports whether the card is a Basic-stage Pokémon.
func (c *Card) IsBasic() bool {
	return c.IsPokemon() && (c.EvolutionType == "" || sameName(c.EvolutionType, BasicStage))
}

// EvolvesFrom returns the pre-evolution name, or "" for Basic Pokémon and trainers.
func (c *Card) EvolvesFrom() string {
	if !c.IsPokemon() || c.IsBasic() {
		return ""
	}
	return c.EvolutionType
}

// Points returns the score awarded to the opponent when this Pokémon is knocked out.
func (c *Card) Points() int {
	if c.IsEx {
		return 2
	}
	return 1
}

// --- Action types ---

type ActionType int

const (
	ActionPlayBasic ActionType = iota
	ActionEvolve
	ActionPlayItem
	ActionPlaySupporter
	ActionAttachTool
	ActionAttachEnergy
	ActionRetreat
	ActionAttack
	ActionEndTurn
)

func (a ActionType) String() string {
	switch a {
	case ActionPlayBasic:
		return "Play Basic"
	case ActionEvolve:
		return "Evolve"
	case ActionPlayItem:
		return "Play Item"
	case ActionPlaySupporter:
		return "Play Supporter"
	case ActionAttachTool:
		return "Attach Tool"
	case ActionAttachEnergy:
		return "Attach Energy"
	case ActionRetreat:
		return "Retreat"
	case ActionAttack:
		return "Attack"
	case ActionEndTurn:
		return "End Turn"
	default:
		return "Unknown"
	}
}

// Action represents a hand/turn action offered to the turn player.
type Action struct {
	Type        ActionType
	Player      int
	Card        *Card // hand card being played, if any
	HandIndex   int   // index of Card in the player's hand
	AttackIndex int   // which attack of the active unit
	Desc        string
}

func (a Action) String() string {
	if a.Desc != "" {
		return a.Desc
	}
	return a.Type.String()
}

// --- Decisions ---

// DecisionKind identifies an index selection the engine asks a controller for.
type DecisionKind int

const (
	DecisionSelectActive DecisionKind = iota
	DecisionSelectBench
	DecisionPromote
	DecisionEnergyTarget
	DecisionRetreatTarget
	DecisionToolTarget
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionSelectActive:
		return "select_active"
	case DecisionSelectBench:
		return "select_bench"
	case DecisionPromote:
		return "promote"
	case DecisionEnergyTarget:
		return "energy_target"
	case DecisionRetreatTarget:
		return "retreat_target"
	case DecisionToolTarget:
		return "tool_target"
	default:
		return "unknown"
	}
}

// Decision is a request for one index out of Options. Optional decisions may
// be declined by answering -1.
type Decision struct {
	Kind     DecisionKind
	Player   int
	Prompt   string
	Options  []string
	Optional bool
}

// Valid reports whether idx is an acceptable answer to the decision.
func (d Decision) Valid(idx int) bool {
	if idx == -1 {
		return d.Optional
	}
	return idx >= 0 && idx < len(d.Options)
}
