package bots

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurodenjiro/poker-x402-sub000/game"
)

func snapshotFacingBet() game.Snapshot {
	return game.Snapshot{
		Phase:      game.PhasePreFlop,
		CurrentBet: 20,
		BigBlind:   20,
		SmallBlind: 10,
		Pot:        30,
		Players: []game.Player{
			{ID: "hero", Name: "Hero", Chips: 990, RoundBet: 10, IsActive: true},
			{ID: "villain", Name: "Villain", Chips: 980, RoundBet: 20, IsActive: true},
		},
	}
}

func snapshotUnopened() game.Snapshot {
	s := snapshotFacingBet()
	s.CurrentBet = 20
	s.Players[0].RoundBet = 20
	return s
}

func TestCallerCallsWhenFacingBet(t *testing.T) {
	decision, err := NewCaller().Decide(context.Background(), snapshotFacingBet(), "hero")
	require.NoError(t, err)
	assert.Equal(t, game.ActionCall, decision.Action)
}

func TestCallerChecksWhenBetMatched(t *testing.T) {
	decision, err := NewCaller().Decide(context.Background(), snapshotUnopened(), "hero")
	require.NoError(t, err)
	assert.Equal(t, game.ActionCheck, decision.Action)
}

func TestCallerFoldsWhenUnknown(t *testing.T) {
	decision, err := NewCaller().Decide(context.Background(), snapshotFacingBet(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, game.ActionFold, decision.Action)
}

func TestRandomOnlyProducesLegalDecisions(t *testing.T) {
	bot := NewRandom(rand.New(rand.NewSource(7)))
	snapshot := snapshotFacingBet()

	for i := 0; i < 200; i++ {
		decision, err := bot.Decide(context.Background(), snapshot, "hero")
		require.NoError(t, err)

		switch decision.Action {
		case game.ActionFold, game.ActionCall, game.ActionAllIn:
		case game.ActionRaise:
			assert.Greater(t, decision.Amount, snapshot.CurrentBet)
		case game.ActionCheck:
			t.Fatalf("check is illegal while facing a bet")
		default:
			t.Fatalf("unexpected action %q", decision.Action)
		}
	}
}

func TestRandomChecksAreOnlyOfferedWhenMatched(t *testing.T) {
	bot := NewRandom(rand.New(rand.NewSource(11)))
	snapshot := snapshotUnopened()

	sawCheck := false
	for i := 0; i < 200; i++ {
		decision, err := bot.Decide(context.Background(), snapshot, "hero")
		require.NoError(t, err)
		if decision.Action == game.ActionCheck {
			sawCheck = true
		}
		assert.NotEqual(t, game.ActionCall, decision.Action)
	}
	assert.True(t, sawCheck, "a matched bet should allow checking")
}

func TestManiacShovesWhenShortStacked(t *testing.T) {
	bot := NewManiac(rand.New(rand.NewSource(3)))
	snapshot := snapshotFacingBet()
	snapshot.Players[0].Chips = 100 // five big blinds

	shoves := 0
	for i := 0; i < 200; i++ {
		decision, err := bot.Decide(context.Background(), snapshot, "hero")
		require.NoError(t, err)
		if decision.Action == game.ActionAllIn {
			shoves++
		}
	}
	assert.Greater(t, shoves, 100, "short stacks should mostly shove")
}

func TestManiacRaiseTargetsExceedCurrentBet(t *testing.T) {
	bot := NewManiac(rand.New(rand.NewSource(5)))
	snapshot := snapshotFacingBet()

	for i := 0; i < 200; i++ {
		decision, err := bot.Decide(context.Background(), snapshot, "hero")
		require.NoError(t, err)
		if decision.Action == game.ActionRaise {
			assert.Greater(t, decision.Amount, snapshot.CurrentBet)
		}
	}
}
