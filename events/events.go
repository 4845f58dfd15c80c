package events

import (
	"time"

	"github.com/kurodenjiro/poker-x402-sub000/cards"
)

// HandStarted signals that a new hand has been dealt.
type HandStarted struct {
	GameID     string    `json:"gameId"`
	HandNumber int       `json:"handNumber"`
	DealerID   string    `json:"dealerId"`
	PlayerIDs  []string  `json:"playerIds"`
	SmallBlind int       `json:"smallBlind"`
	BigBlind   int       `json:"bigBlind"`
	At         time.Time `json:"at"`
}

func (e HandStarted) Name() string { return "hand.started" }

// BlindPosted records a small or big blind being posted.
type BlindPosted struct {
	GameID   string    `json:"gameId"`
	PlayerID string    `json:"playerId"`
	Kind     string    `json:"kind"` // "small" or "big"
	Amount   int       `json:"amount"`
	At       time.Time `json:"at"`
}

func (e BlindPosted) Name() string { return "blind.posted" }

// HoleCardsDealt records a player's two hole cards.
type HoleCardsDealt struct {
	GameID   string      `json:"gameId"`
	PlayerID string      `json:"playerId"`
	Cards    cards.Stack `json:"cards"`
	At       time.Time   `json:"at"`
}

func (e HoleCardsDealt) Name() string { return "hole_cards.dealt" }

// PlayerActed records an accepted betting action.
type PlayerActed struct {
	GameID   string    `json:"gameId"`
	PlayerID string    `json:"playerId"`
	Action   string    `json:"action"`
	Amount   int       `json:"amount"`
	Pot      int       `json:"pot"`
	At       time.Time `json:"at"`
}

func (e PlayerActed) Name() string { return "player.acted" }

// PhaseChanged records a street transition.
type PhaseChanged struct {
	GameID   string    `json:"gameId"`
	Previous string    `json:"previous"`
	Current  string    `json:"current"`
	At       time.Time `json:"at"`
}

func (e PhaseChanged) Name() string { return "phase.changed" }

// CommunityCardsDealt records new community cards hitting the board.
type CommunityCardsDealt struct {
	GameID string      `json:"gameId"`
	Phase  string      `json:"phase"`
	Cards  cards.Stack `json:"cards"`
	Board  cards.Stack `json:"board"`
	At     time.Time   `json:"at"`
}

func (e CommunityCardsDealt) Name() string { return "community_cards.dealt" }

// PotAwarded records chips moving from the pot to a winner.
type PotAwarded struct {
	GameID   string    `json:"gameId"`
	PlayerID string    `json:"playerId"`
	Amount   int       `json:"amount"`
	HandRank string    `json:"handRank,omitempty"`
	At       time.Time `json:"at"`
}

func (e PotAwarded) Name() string { return "pot.awarded" }

// PlayerEliminated records a player busting out of the game.
type PlayerEliminated struct {
	GameID   string    `json:"gameId"`
	PlayerID string    `json:"playerId"`
	At       time.Time `json:"at"`
}

func (e PlayerEliminated) Name() string { return "player.eliminated" }

// HandEnded signals pot distribution is complete and the hand is finished.
type HandEnded struct {
	GameID     string    `json:"gameId"`
	HandNumber int       `json:"handNumber"`
	WinnerIDs  []string  `json:"winnerIds"`
	FinalPot   int       `json:"finalPot"`
	At         time.Time `json:"at"`
}

func (e HandEnded) Name() string { return "hand.ended" }

// GameEnded signals the overall contest is over.
type GameEnded struct {
	GameID      string    `json:"gameId"`
	WinnerID    string    `json:"winnerId"`
	HandsPlayed int       `json:"handsPlayed"`
	At          time.Time `json:"at"`
}

func (e GameEnded) Name() string { return "game.ended" }
