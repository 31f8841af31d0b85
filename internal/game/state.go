package game

import "fmt"

const (
	InitialHandSize = 5
	MaxBenchSize    = 3
	WinningScore    = 3
	DefaultMaxTurns = 200
)

// EnergyZone is a player's energy pipeline: the energy available to attach
// this turn and a preview of the one after it.
type EnergyZone struct {
	Current    ElementType
	Next       ElementType
	HasCurrent bool
	HasNext    bool
}

// Player represents one player's entire state.
type Player struct {
	Name          string
	Deck          []*Card // top of deck is last element (pop from end)
	EnergyTypes   []ElementType
	Hand          []*Card
	Discard       []*Card
	EnergyDiscard []ElementType
	Energy        EnergyZone
	Score         int

	Active *Unit
	Bench  []*Unit
}

// DeckCount returns the number of cards remaining in the deck.
func (p *Player) DeckCount() int {
	return len(p.Deck)
}

// HandCount returns the number of cards in hand.
func (p *Player) HandCount() int {
	return len(p.Hand)
}

// DrawCard removes the top card from the deck and adds it to the hand.
func (p *Player) DrawCard() (*Card, error) {
	if len(p.Deck) == 0 {
		return nil, ErrOutOfCards
	}
	card := p.Deck[len(p.Deck)-1]
	p.Deck = p.Deck[:len(p.Deck)-1]
	p.Hand = append(p.Hand, card)
	return card, nil
}

// RemoveFromHand removes and returns the hand card at idx. Copies of a card
// share one definition, so cards are addressed by position, not identity.
func (p *Player) RemoveFromHand(idx int) (*Card, bool) {
	if idx < 0 || idx >= len(p.Hand) {
		return nil, false
	}
	card := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	return card, true
}

// ReturnHandToDeck moves every hand card back on top of the deck.
func (p *Player) ReturnHandToDeck() {
	p.Deck = append(p.Deck, p.Hand...)
	p.Hand = nil
}

// ShuffleDeck randomizes the order of the deck.
func (p *Player) ShuffleDeck(rng Random) {
	rng.Shuffle(len(p.Deck), func(i, j int) {
		p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
	})
}

// HasBasicInHand reports whether the hand holds at least one Basic Pokémon.
func (p *Player) HasBasicInHand() bool {
	return len(p.BasicsInHand()) > 0
}

// BasicsInHand returns the hand indices of Basic Pokémon.
func (p *Player) BasicsInHand() []int {
	var out []int
	for i, c := range p.Hand {
		if c.IsBasic() {
			out = append(out, i)
		}
	}
	return out
}

// InPlay returns the active unit (if any) followed by the bench.
func (p *Player) InPlay() []*Unit {
	out := make([]*Unit, 0, len(p.Bench)+1)
	if p.Active != nil {
		out = append(out, p.Active)
	}
	return append(out, p.Bench...)
}

// IsInPlay reports whether u is this player's active or benched unit.
func (p *Player) IsInPlay(u *Unit) bool {
	if u == nil {
		return false
	}
	if p.Active == u {
		return true
	}
	return p.benchIndex(u) >= 0
}

// BenchFull reports whether the bench has no free slot.
func (p *Player) BenchFull() bool {
	return len(p.Bench) >= MaxBenchSize
}

func (p *Player) benchIndex(u *Unit) int {
	for i, b := range p.Bench {
		if b == u {
			return i
		}
	}
	return -1
}

// removeUnit takes u off the field. Reports whether u was the active unit.
func (p *Player) removeUnit(u *Unit) bool {
	if p.Active == u {
		p.Active = nil
		return true
	}
	if i := p.benchIndex(u); i >= 0 {
		p.Bench = append(p.Bench[:i], p.Bench[i+1:]...)
	}
	return false
}

// discardUnit sends a unit's cards to the discard pile and its energy to the
// energy discard.
func (p *Player) discardUnit(u *Unit) {
	p.Discard = append(p.Discard, u.Cards()...)
	for e, n := range u.Energy {
		for i := 0; i < n; i++ {
			p.EnergyDiscard = append(p.EnergyDiscard, ElementType(e))
		}
	}
	u.Energy = EnergyCounts{}
	u.Tool = nil
}

// promoteFromBench makes the bench unit at idx the active unit.
func (p *Player) promoteFromBench(idx int) *Unit {
	u := p.Bench[idx]
	p.Bench = append(p.Bench[:idx], p.Bench[idx+1:]...)
	p.Active = u
	return u
}

// GameState holds the complete state of a game.
type GameState struct {
	Players    [2]*Player
	TurnPlayer int
	Turn       int // 0 during setup
	Phase      Phase

	// Per-turn flags
	SupporterPlayed bool
	EnergyAttached  bool
	Retreated       [2]bool

	Winner int // -1 = no winner / draw
	Over   bool
	Result string

	rng    Random
	nextID int
}

// NewGameState creates an empty game state in setup.
func NewGameState(rng Random) *GameState {
	if rng == nil {
		rng = NewRandom(0)
	}
	return &GameState{
		Players: [2]*Player{{Name: "P1"}, {Name: "P2"}},
		Winner:  -1,
		rng:     rng,
	}
}

// NextID returns the next unique unit ID.
func (gs *GameState) NextID() int {
	gs.nextID++
	return gs.nextID
}

// Opponent returns the other player index.
func (gs *GameState) Opponent(player int) int {
	return 1 - player
}

// CurrentPlayer returns the player whose turn it is.
func (gs *GameState) CurrentPlayer() *Player {
	return gs.Players[gs.TurnPlayer]
}

// OpponentPlayer returns the player whose turn it is not.
func (gs *GameState) OpponentPlayer() *Player {
	return gs.Players[gs.Opponent(gs.TurnPlayer)]
}

// Stage returns where the game is in Setup -> Playing -> Finished.
func (gs *GameState) Stage() GameStage {
	switch {
	case gs.Over:
		return StageFinished
	case gs.Turn == 0:
		return StageSetup
	default:
		return StagePlaying
	}
}

// ResetTurnFlags clears per-turn state at the start of a new turn.
func (gs *GameState) ResetTurnFlags() {
	gs.SupporterPlayed = false
	gs.EnergyAttached = false
	gs.Retreated = [2]bool{}
}

// NewUnit puts a card into play as a fresh unit.
func (gs *GameState) NewUnit(card *Card, owner, turn int) *Unit {
	return &Unit{
		ID:          gs.NextID(),
		Card:        card,
		Owner:       owner,
		TurnEntered: turn,
	}
}

// PlaceBasic places a Basic Pokémon for the turn player: into the active
// slot when empty, else onto the bench when it has room.
func (gs *GameState) PlaceBasic(card *Card, turn int) bool {
	_, ok := gs.placeBasic(gs.TurnPlayer, card, turn)
	return ok
}

func (gs *GameState) placeBasic(player int, card *Card, turn int) (*Unit, bool) {
	if gs.Over || card == nil || !card.IsBasic() {
		return nil, false
	}
	p := gs.Players[player]
	switch {
	case p.Active == nil:
		p.Active = gs.NewUnit(card, player, turn)
		return p.Active, true
	case !p.BenchFull():
		u := gs.NewUnit(card, player, turn)
		p.Bench = append(p.Bench, u)
		return u, true
	default:
		return nil, false
	}
}

// EvolvePokemon evolves the first eligible unit of the turn player (active
// first, then bench) into card.
func (gs *GameState) EvolvePokemon(card *Card, turn int) bool {
	_, _, ok := gs.evolve(gs.TurnPlayer, card, turn)
	return ok
}

// EvolutionTargets returns the turn player's units card could evolve on this turn.
func (gs *GameState) EvolutionTargets(player int, card *Card, turn int) []*Unit {
	var out []*Unit
	for _, u := range gs.Players[player].InPlay() {
		if u.CanEvolveInto(card) && u.CanEvolve(turn) {
			out = append(out, u)
		}
	}
	return out
}

// evolve replaces the first eligible unit with a new unit for card. Energy
// and tool carry over; damage and status do not.
func (gs *GameState) evolve(player int, card *Card, turn int) (from, to *Unit, ok bool) {
	if gs.Over {
		return nil, nil, false
	}
	targets := gs.EvolutionTargets(player, card, turn)
	if len(targets) == 0 {
		return nil, nil, false
	}
	from = targets[0]
	to = gs.NewUnit(card, player, turn)
	to.Energy = from.Energy
	to.Tool = from.Tool
	to.Evolved = append(append([]*Card{}, from.Evolved...), from.Card)

	p := gs.Players[player]
	if p.Active == from {
		p.Active = to
	} else {
		p.Bench[p.benchIndex(from)] = to
	}
	return from, to, true
}

// InitEnergy seeds a player's energy zone with a "next" energy only.
func (gs *GameState) InitEnergy(player int) {
	p := gs.Players[player]
	p.Energy = EnergyZone{}
	if e, ok := gs.randomEnergy(player); ok {
		p.Energy.Next = e
		p.Energy.HasNext = true
	}
}

// DrawEnergy promotes next to current and generates a new next.
// Returns false if the zone already holds a current energy.
func (gs *GameState) DrawEnergy(player int) bool {
	p := gs.Players[player]
	if p.Energy.HasCurrent {
		return false
	}
	if !p.Energy.HasNext {
		e, ok := gs.randomEnergy(player)
		if !ok {
			return false
		}
		p.Energy.Next, p.Energy.HasNext = e, true
	}
	p.Energy.Current, p.Energy.HasCurrent = p.Energy.Next, true
	p.Energy.Next, p.Energy.HasNext = gs.randomEnergy(player)
	return true
}

func (gs *GameState) randomEnergy(player int) (ElementType, bool) {
	types := gs.Players[player].EnergyTypes
	if len(types) == 0 {
		return ElementColorless, false
	}
	return types[gs.rng.Intn(len(types))], true
}

// AttachEnergy moves the turn player's current energy onto target, promotes
// next to current and draws a new next. Once per turn.
func (gs *GameState) AttachEnergy(target *Unit) bool {
	if gs.Over || target == nil {
		return false
	}
	p := gs.CurrentPlayer()
	if !p.Energy.HasCurrent || gs.EnergyAttached || !p.IsInPlay(target) {
		return false
	}
	target.AttachEnergy(p.Energy.Current)
	p.Energy.HasCurrent = false
	gs.EnergyAttached = true
	gs.DrawEnergy(gs.TurnPlayer)
	return true
}

// AttachTool attaches tool to target. Fails if target already holds a tool.
func (gs *GameState) AttachTool(tool *Card, target *Unit) bool {
	if gs.Over || tool == nil || tool.Category != CategoryTool || target == nil {
		return false
	}
	if !target.CanAttachTool() {
		return false
	}
	target.Tool = tool
	return true
}

// CheckWinCondition returns the winner once a player has reached the winning
// score or the opponent has no unit in play. Only meaningful once Playing.
func (gs *GameState) CheckWinCondition() (int, bool) {
	winner, _, ok := gs.winCondition()
	return winner, ok
}

func (gs *GameState) winCondition() (int, string, bool) {
	if gs.Over {
		return gs.Winner, gs.Result, true
	}
	if gs.Turn == 0 {
		return -1, "", false
	}
	for p := 0; p < 2; p++ {
		if gs.Players[p].Score >= WinningScore {
			return p, fmt.Sprintf("%s scored %d points", gs.Players[p].Name, gs.Players[p].Score), true
		}
	}
	for p := 0; p < 2; p++ {
		pl := gs.Players[p]
		if pl.Active == nil && len(pl.Bench) == 0 {
			opp := gs.Opponent(p)
			return opp, fmt.Sprintf("%s has no Pokémon left in play", pl.Name), true
		}
	}
	return -1, "", false
}
