package game

import "github.com/kurodenjiro/poker-x402-sub000/cards"

// Seat identifies a participant joining a game: a stable id plus a
// display name used only for presentation.
type Seat struct {
	ID   string
	Name string
}

// Player is a participant's per-game state, owned and mutated exclusively
// by the state machine.
type Player struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Chips      int         `json:"chips"`
	HoleCards  cards.Stack `json:"holeCards,omitempty"`
	IsActive   bool        `json:"isActive"`
	IsAllIn    bool        `json:"isAllIn"`
	Eliminated bool        `json:"eliminated"`
	RoundBet   int         `json:"roundBet"` // chips committed this betting round
	HandBet    int         `json:"handBet"`  // chips committed this hand
	HasActed   bool        `json:"hasActed"`
	LastAction Action      `json:"lastAction,omitempty"`
}

// CanAct reports whether the player is eligible to take a betting action:
// active in the hand, not all-in, and holding chips.
func (p *Player) CanAct() bool {
	return p.IsActive && !p.IsAllIn && p.Chips > 0
}

// commit moves up to amount chips from the player's stack into the current
// round, returning the chips actually moved. Never drives chips below zero.
func (p *Player) commit(amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.RoundBet += amount
	p.HandBet += amount
	if p.Chips == 0 {
		p.IsAllIn = true
	}
	return amount
}

// resetForRound clears the per-betting-round counters.
func (p *Player) resetForRound() {
	p.RoundBet = 0
	p.HasActed = false
	p.LastAction = ""
}

// resetForHand prepares the player for a fresh hand. Eliminated players
// stay out permanently.
func (p *Player) resetForHand() {
	p.HoleCards = nil
	p.IsAllIn = false
	p.HandBet = 0
	p.resetForRound()
	p.IsActive = !p.Eliminated && p.Chips > 0
}

// snapshot returns a deep copy safe to hand outside the state machine.
func (p *Player) snapshot() Player {
	copied := *p
	copied.HoleCards = p.HoleCards.Clone()
	return copied
}
