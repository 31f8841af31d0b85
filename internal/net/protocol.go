package net

// Message types for the JSON protocol between the engine and a remote
// presentation (terminal client over a pipe, browser over a WebSocket).

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "choose_action" and "choose_index"
	State *StateView `json:"state,omitempty"`

	// For "choose_action"
	Actions []ActionView `json:"actions,omitempty"`

	// For "choose_index"
	Kind     string       `json:"kind,omitempty"`
	Prompt   string       `json:"prompt,omitempty"`
	Options  []OptionView `json:"options,omitempty"`
	Optional bool         `json:"optional,omitempty"`

	// For "game_over"
	Winner int    `json:"winner,omitempty"`
	Result string `json:"result,omitempty"`
}

// EventView is a simplified game event for the client.
type EventView struct {
	Turn    int    `json:"turn"`
	Phase   string `json:"phase"`
	Player  int    `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// ActionView is a numbered action choice.
type ActionView struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	Desc  string `json:"desc"`
}

// OptionView is a numbered option of an index decision.
type OptionView struct {
	Index int    `json:"index"`
	Desc  string `json:"desc"`
}

// StateView is the game state from one player's perspective.
type StateView struct {
	You        PlayerView `json:"you"`
	Opponent   PlayerView `json:"opponent"`
	Turn       int        `json:"turn"`
	Phase      string     `json:"phase"`
	IsYourTurn bool       `json:"is_your_turn"`
	Over       bool       `json:"over,omitempty"`
	Winner     int        `json:"winner"`
}

// Snapshot is the full, unredacted game state for spectators and logs.
type Snapshot struct {
	Players    [2]PlayerView `json:"players"`
	Turn       int           `json:"turn"`
	Phase      string        `json:"phase"`
	TurnPlayer int           `json:"turn_player"`
	Over       bool          `json:"over"`
	Winner     int           `json:"winner"`
	Result     string        `json:"result,omitempty"`
}

// PlayerView shows one side of the board.
type PlayerView struct {
	Name          string     `json:"name"`
	Score         int        `json:"score"`
	HandCount     int        `json:"hand_count"`
	Hand          []CardView `json:"hand,omitempty"` // only for "you" and snapshots
	Active        *UnitView  `json:"active,omitempty"`
	Bench         []UnitView `json:"bench"`
	DeckCount     int        `json:"deck_count"`
	Discard       []string   `json:"discard,omitempty"`
	EnergyDiscard int        `json:"energy_discard"`
	Energy        EnergyView `json:"energy"`
}

// CardView describes a card in hand.
type CardView struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Stage    string `json:"stage,omitempty"`
	HP       int    `json:"hp,omitempty"`
	Element  string `json:"element,omitempty"`
	Effect   string `json:"effect,omitempty"`
}

// UnitView describes a Pokémon in play.
type UnitView struct {
	Name        string         `json:"name"`
	HP          int            `json:"hp"`
	Damage      int            `json:"damage"`
	RemainingHP int            `json:"remaining_hp"`
	Element     string         `json:"element"`
	Weakness    string         `json:"weakness,omitempty"`
	RetreatCost int            `json:"retreat_cost"`
	IsEx        bool           `json:"ex,omitempty"`
	Energy      map[string]int `json:"energy,omitempty"`
	Tool        string         `json:"tool,omitempty"`
	Status      string         `json:"status,omitempty"`
	Attacks     []AttackView   `json:"attacks,omitempty"`
}

// AttackView describes one attack of a unit in play.
type AttackView struct {
	Name   string   `json:"name"`
	Cost   []string `json:"cost"`
	Damage string   `json:"damage"`
	Effect string   `json:"effect,omitempty"`
	Usable bool     `json:"usable"`
}

// EnergyView shows a player's energy zone.
type EnergyView struct {
	Current string `json:"current,omitempty"`
	Next    string `json:"next,omitempty"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "action" and "index"; -1 declines an optional decision
	Index int `json:"index,omitempty"`

	// For "join" (initial handshake)
	DeckNumber   int   `json:"deck_number,omitempty"`
	OpponentDeck int   `json:"opponent_deck,omitempty"`
	Seed         int64 `json:"seed,omitempty"`
}
