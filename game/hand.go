package game

import (
	"fmt"

	"github.com/kurodenjiro/poker-x402-sub000/cards"
	"github.com/kurodenjiro/poker-x402-sub000/events"
	"github.com/kurodenjiro/poker-x402-sub000/hands"
)

// StartHand begins a new hand: reshuffles the deck, clears the board,
// reactivates every player still holding chips, deals hole cards and posts
// the blinds. The first player after the big blind is first to act.
func (s *State) StartHand() error {
	if s.Phase != PhaseFinished {
		return ErrHandInProgress
	}

	for _, p := range s.Players {
		p.resetForHand()
	}
	if s.ActivePlayers() < 2 {
		return ErrNotEnoughPlayers
	}

	if s.pendingDeck != nil {
		s.deck, s.pendingDeck = s.pendingDeck, nil
	} else {
		s.deck = cards.NewDeck(s.rng)
	}
	s.CommunityCards = nil
	s.Pot = 0
	s.CurrentBet = 0
	s.LastResult = nil
	s.HandNumber++
	s.Phase = PhasePreFlop

	activeIDs := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		if p.IsActive {
			activeIDs = append(activeIDs, p.ID)
		}
	}

	s.emit(events.HandStarted{
		GameID:     s.GameID,
		HandNumber: s.HandNumber,
		DealerID:   s.Players[s.DealerIdx].ID,
		PlayerIDs:  activeIDs,
		SmallBlind: s.SmallBlind,
		BigBlind:   s.BigBlind,
		At:         s.now(),
	})

	for _, p := range s.Players {
		if !p.IsActive {
			continue
		}
		dealt, err := s.deck.DealN(2)
		if err != nil {
			return fmt.Errorf("dealing hole cards: %w", err)
		}
		p.HoleCards = dealt
		s.emit(events.HoleCardsDealt{
			GameID:   s.GameID,
			PlayerID: p.ID,
			Cards:    dealt.Clone(),
			At:       s.now(),
		})
	}

	sbIdx := s.nextActive(s.DealerIdx + 1)
	bbIdx := s.nextActive(sbIdx + 1)
	s.postBlind(sbIdx, "small", s.SmallBlind)
	s.postBlind(bbIdx, "big", s.BigBlind)
	s.CurrentBet = s.BigBlind

	s.CurrentIdx = s.nextEligible(bbIdx + 1)
	if s.CurrentIdx == -1 {
		// Blinds put everyone all-in; run the board out immediately.
		s.advancePhase()
	}

	return nil
}

// nextActive returns the index of the first active player at or after start,
// wrapping around the table.
func (s *State) nextActive(start int) int {
	n := len(s.Players)
	for i := 0; i < n; i++ {
		idx := ((start + i) % n + n) % n
		if s.Players[idx].IsActive {
			return idx
		}
	}
	return -1
}

// postBlind moves min(blind, chips) into the pot, supporting short stacks.
func (s *State) postBlind(idx int, kind string, blind int) {
	p := s.Players[idx]
	committed := p.commit(blind)
	s.Pot += committed

	s.emit(events.BlindPosted{
		GameID:   s.GameID,
		PlayerID: p.ID,
		Kind:     kind,
		Amount:   committed,
		At:       s.now(),
	})
}

// HandleAction applies a betting action from the player whose turn it is.
// Actions from any other player, or illegal actions, are rejected with an
// error and no state change.
func (s *State) HandleAction(playerID string, action Action, amount int) error {
	switch s.Phase {
	case PhasePreFlop, PhaseFlop, PhaseTurn, PhaseRiver:
	default:
		return ErrNoActiveHand
	}

	p, ok := s.PlayerByID(playerID)
	if !ok {
		return ErrUnknownPlayer
	}
	if !p.CanAct() {
		return ErrPlayerCannotAct
	}
	if s.CurrentIdx < 0 || s.Players[s.CurrentIdx] != p {
		return ErrNotPlayersTurn
	}

	committed := 0
	switch action {
	case ActionFold:
		p.IsActive = false

	case ActionCheck:
		if p.RoundBet != s.CurrentBet {
			return ErrIllegalCheck
		}

	case ActionCall:
		committed = p.commit(s.CurrentBet - p.RoundBet)

	case ActionRaise:
		// Amount is the player's target total for this round; it must
		// exceed the table's current bet.
		if amount <= s.CurrentBet || amount <= p.RoundBet {
			return ErrIllegalRaise
		}
		committed = p.commit(amount - p.RoundBet)
		if p.RoundBet > s.CurrentBet {
			s.CurrentBet = p.RoundBet
		}

	case ActionAllIn:
		committed = p.commit(p.Chips)
		if p.RoundBet > s.CurrentBet {
			s.CurrentBet = p.RoundBet
		}

	default:
		return ErrUnknownAction
	}

	s.Pot += committed
	p.HasActed = true
	p.LastAction = action

	s.emit(events.PlayerActed{
		GameID:   s.GameID,
		PlayerID: p.ID,
		Action:   string(action),
		Amount:   committed,
		Pot:      s.Pot,
		At:       s.now(),
	})

	if s.ActivePlayers() <= 1 {
		s.finishByFold()
		return nil
	}

	if s.bettingRoundComplete() {
		s.advancePhase()
		return nil
	}

	next := s.nextEligible(s.CurrentIdx + 1)
	if next == -1 {
		// Nobody left who can act; the round is forced complete.
		s.advancePhase()
		return nil
	}
	s.CurrentIdx = next

	return nil
}

// bettingRoundComplete reports whether every active, non-all-in player with
// chips has acted at least once this round and matched the current bet.
func (s *State) bettingRoundComplete() bool {
	for _, p := range s.Players {
		if !p.CanAct() {
			continue
		}
		if !p.HasActed || p.RoundBet != s.CurrentBet {
			return false
		}
	}
	return true
}

// advancePhase closes the current betting round and moves to the next
// street, dealing community cards. When no player can act (everyone all-in)
// the remaining streets are run out back to back.
func (s *State) advancePhase() {
	for _, p := range s.Players {
		p.resetForRound()
	}
	s.CurrentBet = 0

	prev := s.Phase
	var deal int
	switch s.Phase {
	case PhasePreFlop:
		s.Phase, deal = PhaseFlop, 3
	case PhaseFlop:
		s.Phase, deal = PhaseTurn, 1
	case PhaseTurn:
		s.Phase, deal = PhaseRiver, 1
	case PhaseRiver:
		s.showdown()
		return
	default:
		return
	}

	dealt, err := s.deck.DealN(deal)
	if err != nil {
		// The deck can only run dry if an upstream invariant broke;
		// abort the hand rather than corrupt state further.
		s.abortHand()
		return
	}
	s.CommunityCards = append(s.CommunityCards, dealt...)

	s.emit(events.PhaseChanged{
		GameID:   s.GameID,
		Previous: string(prev),
		Current:  string(s.Phase),
		At:       s.now(),
	})
	s.emit(events.CommunityCardsDealt{
		GameID: s.GameID,
		Phase:  string(s.Phase),
		Cards:  dealt.Clone(),
		Board:  s.CommunityCards.Clone(),
		At:     s.now(),
	})

	s.CurrentIdx = s.nextEligible(s.DealerIdx + 1)
	if s.CurrentIdx == -1 {
		s.advancePhase()
	}
}

// showdown evaluates the remaining players' best hands against the board
// and splits the pot among the strongest. An evaluation failure excludes
// that player rather than crashing the hand.
func (s *State) showdown() {
	prev := s.Phase
	s.Phase = PhaseShowdown
	s.emit(events.PhaseChanged{
		GameID:   s.GameID,
		Previous: string(prev),
		Current:  string(s.Phase),
		At:       s.now(),
	})

	type contender struct {
		player *Player
		eval   hands.Evaluation
	}

	var contenders []contender
	for _, p := range s.Players {
		if !p.IsActive {
			continue
		}
		combined := append(p.HoleCards.Clone(), s.CommunityCards...)
		eval, err := hands.Evaluate(combined)
		if err != nil {
			continue
		}
		contenders = append(contenders, contender{player: p, eval: eval})
	}

	if len(contenders) == 0 {
		s.finishByFold()
		return
	}

	best := contenders[0].eval
	for _, c := range contenders[1:] {
		if hands.Compare(c.eval, best) > 0 {
			best = c.eval
		}
	}

	var winners []*Player
	for _, c := range contenders {
		if hands.Compare(c.eval, best) == 0 {
			winners = append(winners, c.player)
		}
	}

	s.distributePot(winners, best.Rank.String(), best.Score, true)
}

// finishByFold ends the hand when at most one player remains active.
func (s *State) finishByFold() {
	var winner *Player
	for _, p := range s.Players {
		if p.IsActive {
			winner = p
			break
		}
	}
	if winner == nil {
		// Everyone folded out, which should be unreachable; return bets.
		s.abortHand()
		return
	}
	s.distributePot([]*Player{winner}, "", 0, false)
}

// distributePot splits the pot evenly among the winners, awarding any
// integer remainder to the first winner, then closes out the hand.
func (s *State) distributePot(winners []*Player, rank string, score int64, wentToEval bool) {
	pot := s.Pot
	share := pot / len(winners)
	remainder := pot % len(winners)

	winnerIDs := make([]string, len(winners))
	for i, w := range winners {
		amount := share
		if i == 0 {
			amount += remainder
		}
		w.Chips += amount
		winnerIDs[i] = w.ID

		s.emit(events.PotAwarded{
			GameID:   s.GameID,
			PlayerID: w.ID,
			Amount:   amount,
			HandRank: rank,
			At:       s.now(),
		})
	}
	s.Pot = 0

	var eliminated []string
	for _, p := range s.Players {
		if p.Chips == 0 && !p.Eliminated {
			p.Eliminated = true
			p.IsActive = false
			eliminated = append(eliminated, p.ID)
			s.emit(events.PlayerEliminated{
				GameID:   s.GameID,
				PlayerID: p.ID,
				At:       s.now(),
			})
		}
	}

	s.LastResult = &HandResult{
		HandNumber:    s.HandNumber,
		WinnerIDs:     winnerIDs,
		WinningRank:   rank,
		WinningScore:  score,
		Pot:           pot,
		WentToEval:    wentToEval,
		EliminatedIDs: eliminated,
	}

	s.closeHand(winnerIDs, pot)
}

// AbortHand discards the hand in progress: every player's committed chips
// are refunded and the hand closes without a winner. The orchestration
// loop uses it to throw away a hand that tripped the turn safety cap so
// play can continue with the next one.
func (s *State) AbortHand() {
	if s.Phase == PhaseFinished {
		return
	}
	s.abortHand()
}

// abortHand returns every player's committed chips and ends the hand
// without a winner. Used when a deck invariant breaks mid-hand.
func (s *State) abortHand() {
	for _, p := range s.Players {
		if p.HandBet > 0 {
			p.Chips += p.HandBet
			s.Pot -= p.HandBet
			p.HandBet = 0
		}
	}
	s.Pot = 0
	s.LastResult = nil
	s.closeHand(nil, 0)
}

// closeHand clears cards, advances the button and marks the hand finished.
func (s *State) closeHand(winnerIDs []string, pot int) {
	for _, p := range s.Players {
		p.HoleCards = nil
	}
	s.CommunityCards = nil
	s.DealerIdx = s.nextWithChips(s.DealerIdx + 1)
	s.CurrentIdx = -1
	s.Phase = PhaseFinished

	s.emit(events.HandEnded{
		GameID:     s.GameID,
		HandNumber: s.HandNumber,
		WinnerIDs:  winnerIDs,
		FinalPot:   pot,
		At:         s.now(),
	})
}

// nextWithChips returns the index of the first player at or after start
// still holding chips, or 0 when nobody does.
func (s *State) nextWithChips(start int) int {
	n := len(s.Players)
	for i := 0; i < n; i++ {
		idx := ((start + i) % n + n) % n
		if s.Players[idx].Chips > 0 {
			return idx
		}
	}
	return 0
}

// AwardPotTo hands any chips still in the pot to the given player. The
// orchestration loop uses it to settle a pot in flight when the game ends.
func (s *State) AwardPotTo(playerID string) {
	if s.Pot == 0 {
		return
	}
	p, ok := s.PlayerByID(playerID)
	if !ok {
		return
	}
	amount := s.Pot
	p.Chips += amount
	s.Pot = 0

	s.emit(events.PotAwarded{
		GameID:   s.GameID,
		PlayerID: p.ID,
		Amount:   amount,
		At:       s.now(),
	})
}
