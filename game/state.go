// Package game implements the betting state machine for one table of
// repeated Texas Hold'em hands: blinds, streets, turn advancement, all-in
// handling and pot distribution.
//
// All chips committed during a hand go into a single pot split by final
// hand strength among the players still in at showdown. Separate side pots
// per all-in amount are intentionally not tracked, which can under-pay a
// short all-in against larger later contributions; see DESIGN.md.
package game

import (
	"errors"
	"math/rand"
	"time"

	"github.com/kurodenjiro/poker-x402-sub000/cards"
	"github.com/kurodenjiro/poker-x402-sub000/events"
)

// Phase represents the current phase of a hand.
type Phase string

const (
	PhasePreFlop  Phase = "pre-flop"
	PhaseFlop     Phase = "flop"
	PhaseTurn     Phase = "turn"
	PhaseRiver    Phase = "river"
	PhaseShowdown Phase = "showdown"
	PhaseFinished Phase = "finished"
)

// Action is a betting action a player can take.
type Action string

const (
	ActionFold  Action = "fold"
	ActionCheck Action = "check"
	ActionCall  Action = "call"
	ActionRaise Action = "raise"
	ActionAllIn Action = "all-in"
)

var (
	ErrNotEnoughPlayers = errors.New("need at least 2 players with chips to start a hand")
	ErrHandInProgress   = errors.New("a hand is already in progress")
	ErrNoActiveHand     = errors.New("no hand in progress")
	ErrNotPlayersTurn   = errors.New("not this player's turn to act")
	ErrPlayerCannotAct  = errors.New("player is folded, all-in or out of chips")
	ErrIllegalCheck     = errors.New("cannot check while facing a bet")
	ErrIllegalRaise     = errors.New("raise must exceed the current bet")
	ErrUnknownAction    = errors.New("unknown action")
	ErrUnknownPlayer    = errors.New("player not found")
)

// State is the single mutable aggregate for one game instance. It must be
// driven by exactly one writer; everything handed outside is a deep copy.
type State struct {
	GameID         string
	Phase          Phase
	Players        []*Player
	CommunityCards cards.Stack
	Pot            int
	CurrentBet     int
	DealerIdx      int
	CurrentIdx     int
	HandNumber     int
	SmallBlind     int
	BigBlind       int
	LastResult     *HandResult

	deck          *cards.Deck
	pendingDeck   *cards.Deck
	rng           *rand.Rand
	eventHandlers []events.EventHandler
}

// HandResult summarizes a completed hand for the outcome tracker.
type HandResult struct {
	HandNumber    int
	WinnerIDs     []string
	WinningRank   string
	WinningScore  int64
	Pot           int
	WentToEval    bool // false when everyone folded to one player
	EliminatedIDs []string
}

// NewState seats the given players with identical starting stacks.
func NewState(gameID string, seats []Seat, startingChips, smallBlind, bigBlind int, rng *rand.Rand) *State {
	players := make([]*Player, len(seats))
	for i, seat := range seats {
		players[i] = &Player{
			ID:    seat.ID,
			Name:  seat.Name,
			Chips: startingChips,
		}
	}

	return &State{
		GameID:     gameID,
		Phase:      PhaseFinished,
		Players:    players,
		Pot:        0,
		DealerIdx:  0,
		CurrentIdx: -1,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		rng:        rng,
	}
}

// StackDeck makes the next hand deal the given cards in order instead of a
// shuffled deck. Deterministic replays and tests rely on it.
func (s *State) StackDeck(stack cards.Stack) {
	s.pendingDeck = cards.NewStackedDeck(stack)
}

// RegisterEventHandler registers a callback invoked for every domain event.
func (s *State) RegisterEventHandler(handler events.EventHandler) {
	s.eventHandlers = append(s.eventHandlers, handler)
}

func (s *State) emit(event events.Event) {
	for _, handler := range s.eventHandlers {
		handler(event)
	}
}

func (s *State) now() time.Time {
	return time.Now()
}

// CurrentPlayer returns the player whose turn it is, or nil when no player
// can act (between hands, or everyone all-in).
func (s *State) CurrentPlayer() *Player {
	if s.CurrentIdx < 0 || s.CurrentIdx >= len(s.Players) {
		return nil
	}
	p := s.Players[s.CurrentIdx]
	if !p.CanAct() {
		return nil
	}
	return p
}

// PlayerByID looks a player up by their stable id.
func (s *State) PlayerByID(id string) (*Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// PlayersWithChips counts players still holding chips.
func (s *State) PlayersWithChips() int {
	count := 0
	for _, p := range s.Players {
		if p.Chips > 0 {
			count++
		}
	}
	return count
}

// ActivePlayers counts players still in the current hand.
func (s *State) ActivePlayers() int {
	count := 0
	for _, p := range s.Players {
		if p.IsActive {
			count++
		}
	}
	return count
}

// HandFinished reports whether the current hand has completed.
func (s *State) HandFinished() bool {
	return s.Phase == PhaseFinished
}

// FindEligibleIndex scans for any player who can act, starting after the
// dealer. Returns -1 when nobody can. Used by the orchestration loop for
// best-effort recovery when the turn pointer is lost.
func (s *State) FindEligibleIndex() int {
	return s.nextEligible(s.DealerIdx + 1)
}

// ForceTurnTo points the turn at the given player index.
func (s *State) ForceTurnTo(idx int) {
	if idx >= 0 && idx < len(s.Players) {
		s.CurrentIdx = idx
	}
}

// nextEligible returns the index of the first player at or after start
// (wrapping) that is active, not all-in and has chips, or -1.
func (s *State) nextEligible(start int) int {
	n := len(s.Players)
	if n == 0 {
		return -1
	}
	for i := 0; i < n; i++ {
		idx := ((start + i) % n + n) % n
		if s.Players[idx].CanAct() {
			return idx
		}
	}
	return -1
}

// Snapshot produces a deep copy of the state for decision providers and
// external sinks. Mutating a snapshot never affects the authoritative state.
func (s *State) Snapshot() Snapshot {
	players := make([]Player, len(s.Players))
	for i, p := range s.Players {
		players[i] = p.snapshot()
	}

	deckRemaining := 0
	if s.deck != nil {
		deckRemaining = s.deck.Remaining()
	}

	return Snapshot{
		GameID:         s.GameID,
		Phase:          s.Phase,
		Players:        players,
		CommunityCards: s.CommunityCards.Clone(),
		Pot:            s.Pot,
		CurrentBet:     s.CurrentBet,
		DealerIndex:    s.DealerIdx,
		CurrentIndex:   s.CurrentIdx,
		HandNumber:     s.HandNumber,
		SmallBlind:     s.SmallBlind,
		BigBlind:       s.BigBlind,
		DeckRemaining:  deckRemaining,
	}
}

// Snapshot is an immutable deep copy of the game state.
type Snapshot struct {
	GameID         string      `json:"gameId"`
	Phase          Phase       `json:"phase"`
	Players        []Player    `json:"players"`
	CommunityCards cards.Stack `json:"communityCards"`
	Pot            int         `json:"pot"`
	CurrentBet     int         `json:"currentBet"`
	DealerIndex    int         `json:"dealerIndex"`
	CurrentIndex   int         `json:"currentIndex"`
	HandNumber     int         `json:"handNumber"`
	SmallBlind     int         `json:"smallBlind"`
	BigBlind       int         `json:"bigBlind"`
	DeckRemaining  int         `json:"deckRemaining"`
}

// PlayerByID looks up a player copy inside the snapshot.
func (s Snapshot) PlayerByID(id string) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}
