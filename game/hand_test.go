package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurodenjiro/poker-x402-sub000/cards"
)

func newTestState(t *testing.T, names []string, chips, sb, bb int) *State {
	t.Helper()
	seats := make([]Seat, len(names))
	for i, name := range names {
		seats[i] = Seat{ID: name, Name: name}
	}
	return NewState("game-1", seats, chips, sb, bb, rand.New(rand.NewSource(1)))
}

func stack(t *testing.T, shorthands ...string) cards.Stack {
	t.Helper()
	s, err := cards.StackFromStrings(shorthands...)
	require.NoError(t, err)
	return s
}

func totalChips(s *State) int {
	total := s.Pot
	for _, p := range s.Players {
		total += p.Chips
	}
	return total
}

func TestStartHandNeedsTwoPlayersWithChips(t *testing.T) {
	s := newTestState(t, []string{"a", "b"}, 1000, 10, 20)
	s.Players[1].Chips = 0

	err := s.StartHand()
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)
}

func TestStartHandRejectsOverlappingHands(t *testing.T) {
	s := newTestState(t, []string{"a", "b", "c"}, 1000, 10, 20)
	require.NoError(t, s.StartHand())

	err := s.StartHand()
	assert.ErrorIs(t, err, ErrHandInProgress)
}

func TestStartHandPostsBlindsAndSetsFirstActor(t *testing.T) {
	s := newTestState(t, []string{"a", "b", "c"}, 1000, 10, 20)
	require.NoError(t, s.StartHand())

	assert.Equal(t, PhasePreFlop, s.Phase)
	assert.Equal(t, 1, s.HandNumber)
	assert.Equal(t, 30, s.Pot)
	assert.Equal(t, 20, s.CurrentBet)

	// Dealer is seat 0, so seat 1 posts the small and seat 2 the big blind.
	assert.Equal(t, 990, s.Players[1].Chips)
	assert.Equal(t, 10, s.Players[1].RoundBet)
	assert.Equal(t, 980, s.Players[2].Chips)
	assert.Equal(t, 20, s.Players[2].RoundBet)

	// First to act is the player after the big blind.
	require.NotNil(t, s.CurrentPlayer())
	assert.Equal(t, "a", s.CurrentPlayer().ID)

	// Everyone active got exactly two hole cards.
	for _, p := range s.Players {
		assert.Len(t, p.HoleCards, 2)
	}
}

func TestShortStackPostsPartialBlindAndIsAllIn(t *testing.T) {
	s := newTestState(t, []string{"a", "b", "c"}, 1000, 10, 20)
	s.Players[2].Chips = 5
	require.NoError(t, s.StartHand())

	bb := s.Players[2]
	assert.Equal(t, 0, bb.Chips)
	assert.Equal(t, 5, bb.RoundBet)
	assert.True(t, bb.IsAllIn)
	assert.Equal(t, 15, s.Pot)
	// The table bet is still the full big blind.
	assert.Equal(t, 20, s.CurrentBet)
}

func TestActionsOutOfTurnAreRejected(t *testing.T) {
	s := newTestState(t, []string{"a", "b", "c"}, 1000, 10, 20)
	require.NoError(t, s.StartHand())

	err := s.HandleAction("b", ActionCall, 0)
	assert.ErrorIs(t, err, ErrNotPlayersTurn)

	err = s.HandleAction("ghost", ActionCall, 0)
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestCheckWhileFacingBetIsRejected(t *testing.T) {
	s := newTestState(t, []string{"a", "b", "c"}, 1000, 10, 20)
	require.NoError(t, s.StartHand())

	err := s.HandleAction("a", ActionCheck, 0)
	assert.ErrorIs(t, err, ErrIllegalCheck)
	// Rejection leaves the turn untouched.
	assert.Equal(t, "a", s.CurrentPlayer().ID)
}

func TestRaiseIsTargetTotalForTheRound(t *testing.T) {
	s := newTestState(t, []string{"a", "b", "c"}, 1000, 10, 20)
	require.NoError(t, s.StartHand())

	require.NoError(t, s.HandleAction("a", ActionRaise, 60))
	assert.Equal(t, 60, s.CurrentBet)
	assert.Equal(t, 940, mustPlayer(t, s, "a").Chips)
	assert.Equal(t, 90, s.Pot)

	// The small blind already has 10 in; the call tops up to 60.
	require.NoError(t, s.HandleAction("b", ActionCall, 0))
	assert.Equal(t, 940, mustPlayer(t, s, "b").Chips)
	assert.Equal(t, 140, s.Pot)
}

func TestRaiseBelowCurrentBetIsRejected(t *testing.T) {
	s := newTestState(t, []string{"a", "b", "c"}, 1000, 10, 20)
	require.NoError(t, s.StartHand())

	err := s.HandleAction("a", ActionRaise, 20)
	assert.ErrorIs(t, err, ErrIllegalRaise)
}

func TestBigBlindKeepsTheOptionWhenOnlyCalled(t *testing.T) {
	s := newTestState(t, []string{"a", "b", "c"}, 1000, 10, 20)
	require.NoError(t, s.StartHand())

	require.NoError(t, s.HandleAction("a", ActionCall, 0))
	require.NoError(t, s.HandleAction("b", ActionCall, 0))

	// Everyone matched 20 but the big blind has not acted yet.
	assert.Equal(t, PhasePreFlop, s.Phase)
	require.NotNil(t, s.CurrentPlayer())
	assert.Equal(t, "c", s.CurrentPlayer().ID)

	require.NoError(t, s.HandleAction("c", ActionCheck, 0))
	assert.Equal(t, PhaseFlop, s.Phase)
	assert.Len(t, s.CommunityCards, 3)
}

func TestFoldToLastPlayerSkipsEvaluation(t *testing.T) {
	s := newTestState(t, []string{"a", "b", "c", "d"}, 1000, 10, 20)
	require.NoError(t, s.StartHand())

	// c posts the big blind; d acts first and everyone folds to c.
	require.NoError(t, s.HandleAction("d", ActionFold, 0))
	require.NoError(t, s.HandleAction("a", ActionFold, 0))
	require.NoError(t, s.HandleAction("b", ActionFold, 0))

	assert.True(t, s.HandFinished())
	require.NotNil(t, s.LastResult)
	assert.Equal(t, []string{"c"}, s.LastResult.WinnerIDs)
	assert.False(t, s.LastResult.WentToEval)
	assert.Empty(t, s.LastResult.WinningRank)
	assert.Equal(t, 30, s.LastResult.Pot)
	assert.Equal(t, 1010, mustPlayer(t, s, "c").Chips)
	assert.Equal(t, 0, s.Pot)
}

func TestHeadsUpAllInRunsOutTheBoard(t *testing.T) {
	s := newTestState(t, []string{"a", "b"}, 1000, 10, 20)
	// a gets aces, b gets rags, the board bricks out.
	s.StackDeck(stack(t,
		"As", "Ah", // a
		"2c", "3d", // b
		"Ks", "Qd", "9c", // flop
		"4h", // turn
		"7d", // river
	))
	require.NoError(t, s.StartHand())

	// Dealer is a; b posts the small blind and acts first.
	require.NoError(t, s.HandleAction("b", ActionAllIn, 0))
	require.NoError(t, s.HandleAction("a", ActionCall, 0))

	assert.True(t, s.HandFinished())
	require.NotNil(t, s.LastResult)
	assert.Equal(t, []string{"a"}, s.LastResult.WinnerIDs)
	assert.True(t, s.LastResult.WentToEval)
	assert.Equal(t, "pair", s.LastResult.WinningRank)
	assert.Equal(t, []string{"b"}, s.LastResult.EliminatedIDs)

	assert.Equal(t, 2000, mustPlayer(t, s, "a").Chips)
	assert.Equal(t, 0, mustPlayer(t, s, "b").Chips)
	assert.True(t, mustPlayer(t, s, "b").Eliminated)
	assert.Equal(t, 0, s.Pot)
}

func TestSplitPotRemainderGoesToFirstWinner(t *testing.T) {
	s := newTestState(t, []string{"a", "b", "c"}, 1000, 10, 20)
	// b and c both play the broadway board; a folds on the flop.
	s.StackDeck(stack(t,
		"2c", "3c", // a
		"2d", "3d", // b
		"2h", "3h", // c
		"As", "Ks", "Qd", // flop
		"Jc",  // turn
		"10h", // river
	))
	require.NoError(t, s.StartHand())

	// Pre-flop: a makes it 21 total, blinds call. Pot 63.
	require.NoError(t, s.HandleAction("a", ActionRaise, 21))
	require.NoError(t, s.HandleAction("b", ActionCall, 0))
	require.NoError(t, s.HandleAction("c", ActionCall, 0))
	require.Equal(t, PhaseFlop, s.Phase)
	require.Equal(t, 63, s.Pot)

	// Flop: b bets 2, c calls, a folds. Pot 67.
	require.NoError(t, s.HandleAction("b", ActionRaise, 2))
	require.NoError(t, s.HandleAction("c", ActionCall, 0))
	require.NoError(t, s.HandleAction("a", ActionFold, 0))
	require.Equal(t, PhaseTurn, s.Phase)
	require.Equal(t, 67, s.Pot)

	// Turn and river check through to showdown.
	require.NoError(t, s.HandleAction("b", ActionCheck, 0))
	require.NoError(t, s.HandleAction("c", ActionCheck, 0))
	require.NoError(t, s.HandleAction("b", ActionCheck, 0))
	require.NoError(t, s.HandleAction("c", ActionCheck, 0))

	assert.True(t, s.HandFinished())
	require.NotNil(t, s.LastResult)
	assert.Equal(t, []string{"b", "c"}, s.LastResult.WinnerIDs)
	assert.Equal(t, "straight", s.LastResult.WinningRank)

	// 67 splits 34/33 with the odd chip to the first winner in seat order.
	assert.Equal(t, 1000-23+34, mustPlayer(t, s, "b").Chips)
	assert.Equal(t, 1000-23+33, mustPlayer(t, s, "c").Chips)
	assert.Equal(t, 979, mustPlayer(t, s, "a").Chips)
	assert.Equal(t, 0, s.Pot)
}

func TestChipsAreConservedAcrossHands(t *testing.T) {
	s := newTestState(t, []string{"a", "b", "c", "d"}, 500, 10, 20)
	initial := totalChips(s)

	for hand := 0; hand < 20 && s.PlayersWithChips() > 1; hand++ {
		require.NoError(t, s.StartHand())

		for turns := 0; !s.HandFinished(); turns++ {
			require.Less(t, turns, 200, "hand did not terminate")

			p := s.CurrentPlayer()
			require.NotNil(t, p)
			if p.RoundBet == s.CurrentBet {
				require.NoError(t, s.HandleAction(p.ID, ActionCheck, 0))
			} else {
				require.NoError(t, s.HandleAction(p.ID, ActionCall, 0))
			}
			assert.Equal(t, initial, totalChips(s))
		}

		assert.Equal(t, 0, s.Pot)
		assert.Equal(t, initial, totalChips(s))
	}
}

func TestBlindsAndButtonSkipBustedPlayers(t *testing.T) {
	s := newTestState(t, []string{"a", "b", "c"}, 1000, 10, 20)
	s.Players[1].Chips = 0
	s.Players[1].Eliminated = true
	require.NoError(t, s.StartHand())

	// Seat 1 is busted, so seat 2 posts the small blind and seat 0 the big.
	assert.Equal(t, 10, mustPlayer(t, s, "c").RoundBet)
	assert.Equal(t, 20, mustPlayer(t, s, "a").RoundBet)
	require.NotNil(t, s.CurrentPlayer())
	assert.Equal(t, "c", s.CurrentPlayer().ID)

	require.NoError(t, s.HandleAction("c", ActionFold, 0))
	require.True(t, s.HandFinished())

	// The button also skips the busted seat when it rotates.
	assert.Equal(t, 2, s.DealerIdx)
}

func TestAbortHandRefundsCommittedChips(t *testing.T) {
	s := newTestState(t, []string{"a", "b", "c"}, 1000, 10, 20)
	require.NoError(t, s.StartHand())
	require.NoError(t, s.HandleAction("a", ActionRaise, 60))
	require.NoError(t, s.HandleAction("b", ActionCall, 0))
	require.Equal(t, 140, s.Pot)

	s.AbortHand()

	assert.True(t, s.HandFinished())
	assert.Equal(t, 0, s.Pot)
	assert.Nil(t, s.LastResult)
	for _, p := range s.Players {
		assert.Equal(t, 1000, p.Chips)
	}

	// The next hand starts normally.
	require.NoError(t, s.StartHand())
	assert.Equal(t, 2, s.HandNumber)
}

func TestAbortHandBetweenHandsIsANoOp(t *testing.T) {
	s := newTestState(t, []string{"a", "b"}, 1000, 10, 20)
	require.NoError(t, s.StartHand())
	require.NoError(t, s.HandleAction("b", ActionFold, 0))
	require.True(t, s.HandFinished())

	winner := mustPlayer(t, s, "a").Chips
	s.AbortHand()
	assert.Equal(t, winner, mustPlayer(t, s, "a").Chips)
	require.NotNil(t, s.LastResult)
}

func TestAwardPotToSettlesInFlightPot(t *testing.T) {
	s := newTestState(t, []string{"a", "b", "c"}, 1000, 10, 20)
	require.NoError(t, s.StartHand())
	require.Equal(t, 30, s.Pot)

	s.AwardPotTo("c")
	assert.Equal(t, 0, s.Pot)
	assert.Equal(t, 1010, mustPlayer(t, s, "c").Chips)
}

func mustPlayer(t *testing.T, s *State, id string) *Player {
	t.Helper()
	p, ok := s.PlayerByID(id)
	require.True(t, ok)
	return p
}
