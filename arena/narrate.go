package arena

import (
	"fmt"
	"strings"

	"github.com/kurodenjiro/poker-x402-sub000/events"
)

// handleEvent is registered on the game state: it persists every domain
// event and turns it into a narration line. Hole cards are never narrated;
// the chat is visible to all agents and spectators.
func (a *Arena) handleEvent(event events.Event) {
	if a.store != nil {
		if err := a.store.Append(event); err != nil {
			a.logger.Warn().Err(err).Str("event", event.Name()).Msg("event store append failed")
		}
	}

	switch e := event.(type) {
	case events.HandStarted:
		a.chat.Add(e.At, fmt.Sprintf("hand #%d begins, %s has the button", e.HandNumber, a.names[e.DealerID]))

	case events.BlindPosted:
		a.chat.Add(e.At, fmt.Sprintf("%s posts the %s blind (%d)", a.names[e.PlayerID], e.Kind, e.Amount))

	case events.HoleCardsDealt:
		a.chat.Add(e.At, fmt.Sprintf("%s receives hole cards", a.names[e.PlayerID]))

	case events.PlayerActed:
		a.chat.Add(e.At, a.narrateAction(e))

	case events.PhaseChanged:
		// Street narration rides on CommunityCardsDealt, which carries
		// the board; showdown and finished have no cards of their own.
		if e.Current == "showdown" {
			a.chat.Add(e.At, "showdown")
		}

	case events.CommunityCardsDealt:
		a.chat.Add(e.At, fmt.Sprintf("%s: %s (board: %s)", e.Phase, e.Cards, e.Board))

	case events.PotAwarded:
		if e.HandRank != "" {
			a.chat.Add(e.At, fmt.Sprintf("%s wins %d with %s", a.names[e.PlayerID], e.Amount, e.HandRank))
		} else {
			a.chat.Add(e.At, fmt.Sprintf("%s wins %d uncontested", a.names[e.PlayerID], e.Amount))
		}

	case events.PlayerEliminated:
		a.chat.Add(e.At, fmt.Sprintf("%s is eliminated", a.names[e.PlayerID]))

	case events.HandEnded:
		winners := make([]string, len(e.WinnerIDs))
		for i, id := range e.WinnerIDs {
			winners[i] = a.names[id]
		}
		a.chat.Add(e.At, fmt.Sprintf("hand #%d over, pot of %d to %s", e.HandNumber, e.FinalPot, strings.Join(winners, ", ")))

	case events.GameEnded:
		a.chat.Add(e.At, fmt.Sprintf("game over: %s wins after %d hands", a.names[e.WinnerID], e.HandsPlayed))
	}
}

func (a *Arena) narrateAction(e events.PlayerActed) string {
	name := a.names[e.PlayerID]
	switch e.Action {
	case "fold":
		return fmt.Sprintf("%s folds", name)
	case "check":
		return fmt.Sprintf("%s checks", name)
	case "call":
		return fmt.Sprintf("%s calls %d (pot %d)", name, e.Amount, e.Pot)
	case "raise":
		return fmt.Sprintf("%s raises %d (pot %d)", name, e.Amount, e.Pot)
	case "all-in":
		return fmt.Sprintf("%s goes all-in for %d (pot %d)", name, e.Amount, e.Pot)
	default:
		return fmt.Sprintf("%s %s %d (pot %d)", name, e.Action, e.Amount, e.Pot)
	}
}
