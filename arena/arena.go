// Package arena drives repeated Texas Hold'em hands between automated
// agents: it sequences turns, asks each agent's decision provider for its
// move, paces phase transitions and publishes state snapshots to external
// sinks until one agent holds all chips or the hand cap is reached.
package arena

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sanity-io/litter"

	"github.com/kurodenjiro/poker-x402-sub000/events"
	"github.com/kurodenjiro/poker-x402-sub000/game"
	"github.com/kurodenjiro/poker-x402-sub000/stats"
)

// ErrHandStuck is returned internally when a hand exceeds the turn cap;
// the hand is abandoned and the arena moves on if the game is still viable.
var ErrHandStuck = errors.New("hand exceeded the turn safety cap")

// Arena owns one game instance: its state machine, outcome tracker, chat
// log and loop lifecycle. It is the single writer of the game state.
type Arena struct {
	id        string
	cfg       Config
	logger    zerolog.Logger
	clock     quartz.Clock
	rng       *rand.Rand
	state     *game.State
	tracker   *stats.Tracker
	chat      *ChatLog
	sinks     []StateSink
	providers map[string]DecisionProvider // keyed by agent id
	names     map[string]string           // agent id -> display name
	store     events.EventStore
	running   atomic.Bool

	handPlayers []string // agent ids dealt into the current hand
}

// Option configures an Arena.
type Option func(*Arena)

// WithLogger sets the structured logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Arena) { a.logger = logger }
}

// WithClock injects the clock used for pacing delays. Tests pass a mock.
func WithClock(clock quartz.Clock) Option {
	return func(a *Arena) { a.clock = clock }
}

// WithSink registers an external sink receiving every published update.
func WithSink(sink StateSink) Option {
	return func(a *Arena) { a.sinks = append(a.sinks, sink) }
}

// WithEventStore persists every domain event for audit/replay.
func WithEventStore(store events.EventStore) Option {
	return func(a *Arena) { a.store = store }
}

// WithRNG fixes the random source, making deals deterministic.
func WithRNG(rng *rand.Rand) Option {
	return func(a *Arena) { a.rng = rng }
}

// New creates a game instance. Providers are keyed by agent display name,
// matching the configured name list; internally every agent is assigned a
// stable uuid and all routing uses ids.
func New(cfg Config, providers map[string]DecisionProvider, opts ...Option) (*Arena, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg = cfg.withDefaults()

	a := &Arena{
		id:        uuid.NewString(),
		cfg:       cfg,
		logger:    zerolog.Nop(),
		clock:     quartz.NewReal(),
		tracker:   stats.NewTracker(),
		chat:      NewChatLog(cfg.ChatLogSize),
		providers: make(map[string]DecisionProvider, len(cfg.AgentNames)),
		names:     make(map[string]string, len(cfg.AgentNames)),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	a.logger = a.logger.With().Str("component", "arena").Str("game_id", a.id).Logger()

	seats := make([]game.Seat, len(cfg.AgentNames))
	for i, name := range cfg.AgentNames {
		agentID := uuid.NewString()
		seats[i] = game.Seat{ID: agentID, Name: name}
		a.names[agentID] = name
		a.tracker.Initialize(agentID, name, cfg.StartingChips)
		if provider, ok := providers[name]; ok {
			a.providers[agentID] = provider
		}
	}

	a.state = game.NewState(a.id, seats, cfg.StartingChips, cfg.SmallBlind, cfg.BigBlind, a.rng)
	a.state.RegisterEventHandler(a.handleEvent)

	return a, nil
}

// ID returns the game instance id.
func (a *Arena) ID() string { return a.id }

// IsRunning reports whether the loop is still advancing hands.
func (a *Arena) IsRunning() bool { return a.running.Load() }

// Rankings returns the current outcome ranking.
func (a *Arena) Rankings() []stats.Record { return a.tracker.Ranking() }

// Snapshot returns a deep copy of the current game state.
func (a *Arena) Snapshot() game.Snapshot { return a.state.Snapshot() }

// Chat returns a copy of the narration log.
func (a *Arena) Chat() []ChatEntry { return a.chat.Entries() }

// Run drives hands to completion until a terminal condition: one agent
// holds all chips, the hand cap is reached, or ctx is cancelled. It blocks
// for the duration of the game and must only be called once.
func (a *Arena) Run(ctx context.Context) error {
	a.running.Store(true)
	defer a.running.Store(false)

	a.logger.Info().
		Int("agents", len(a.state.Players)).
		Int("starting_chips", a.cfg.StartingChips).
		Int("small_blind", a.cfg.SmallBlind).
		Int("big_blind", a.cfg.BigBlind).
		Int("max_hands", a.cfg.MaxHands).
		Msg("game starting")

	handsPlayed := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if a.state.PlayersWithChips() <= 1 {
			a.finishGame(handsPlayed, "last agent standing")
			return nil
		}
		if a.cfg.MaxHands > 0 && handsPlayed >= a.cfg.MaxHands {
			a.finishGame(handsPlayed, "hand cap reached")
			return nil
		}

		if err := a.state.StartHand(); err != nil {
			a.logger.Error().Err(err).Msg("could not start hand")
			a.finishGame(handsPlayed, "no viable hand")
			return nil
		}
		a.collectHandPlayers()
		a.publish()

		if err := a.sleep(ctx, a.cfg.DealDelay); err != nil {
			return err
		}

		err := a.runHand(ctx)
		handsPlayed++
		switch {
		case errors.Is(err, ErrHandStuck):
			// Refund the abandoned hand and continue to the next one
			// if the game is still viable.
			a.state.AbortHand()
			a.logger.Error().Int("hand", handsPlayed).Msg("hand abandoned after safety trip")
		case err != nil:
			return err
		default:
			a.recordHandOutcome()
		}

		a.publish()
		if err := a.sleep(ctx, a.cfg.DealDelay); err != nil {
			return err
		}
	}
}

// runHand advances one hand turn by turn until the state machine reports
// it finished, guarded by an iteration cap against undetected stuck states.
func (a *Arena) runHand(ctx context.Context) error {
	for turns := 0; !a.state.HandFinished(); turns++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if turns >= a.cfg.MaxTurnsPerHand {
			a.logger.Error().
				Int("hand", a.state.HandNumber).
				Int("turns", turns).
				Msg("turn cap exceeded, abandoning hand")
			return ErrHandStuck
		}

		current := a.state.CurrentPlayer()
		if current == nil {
			// Best-effort recovery: point the turn at any eligible
			// agent before giving up on the round.
			if idx := a.state.FindEligibleIndex(); idx >= 0 {
				a.state.ForceTurnTo(idx)
				current = a.state.CurrentPlayer()
			}
			if current == nil {
				a.logger.Warn().
					Int("hand", a.state.HandNumber).
					Str("phase", string(a.state.Phase)).
					Msg("no eligible player for an unfinished hand")
				return ErrHandStuck
			}
		}

		decision := a.decide(ctx, current)
		applied := decision.Action
		if err := a.state.HandleAction(current.ID, decision.Action, decision.Amount); err != nil {
			// A rejected action is a protocol violation; substitute
			// a forced fold rather than retrying.
			a.logger.Warn().
				Str("agent", a.names[current.ID]).
				Str("action", string(decision.Action)).
				Err(err).
				Msg("action rejected, folding agent")
			if ferr := a.state.HandleAction(current.ID, game.ActionFold, 0); ferr != nil {
				a.logger.Error().Err(ferr).Msg("forced fold rejected")
				return ErrHandStuck
			}
			applied = game.ActionFold
		}

		a.tracker.RecordAction(current.ID, string(applied))
		a.publish()

		if err := a.sleep(ctx, a.cfg.ActionDelay); err != nil {
			return err
		}
	}

	return nil
}

// decide asks the agent's provider for a decision. Missing providers,
// errors and timeouts all fold.
func (a *Arena) decide(ctx context.Context, p *game.Player) Decision {
	provider, ok := a.providers[p.ID]
	if !ok {
		return Decision{Action: game.ActionFold}
	}

	dctx, cancel := context.WithTimeout(ctx, a.cfg.DecisionTimeout)
	defer cancel()

	decision, err := provider.Decide(dctx, a.state.Snapshot(), p.ID)
	if err != nil {
		a.logger.Warn().
			Str("agent", a.names[p.ID]).
			Err(err).
			Msg("decision provider failed, folding agent")
		return Decision{Action: game.ActionFold}
	}
	return decision
}

// collectHandPlayers remembers which agents were dealt into the hand so
// their outcome records can be updated at completion.
func (a *Arena) collectHandPlayers() {
	a.handPlayers = a.handPlayers[:0]
	for _, p := range a.state.Players {
		if p.IsActive {
			a.handPlayers = append(a.handPlayers, p.ID)
		}
	}
}

// recordHandOutcome feeds the completed hand into the outcome tracker.
func (a *Arena) recordHandOutcome() {
	result := a.state.LastResult
	if result == nil {
		return
	}

	winners := make(map[string]bool, len(result.WinnerIDs))
	for _, id := range result.WinnerIDs {
		winners[id] = true
	}

	for _, id := range a.handPlayers {
		p, ok := a.state.PlayerByID(id)
		if !ok {
			continue
		}
		strength := 0.0
		if winners[id] && result.WentToEval {
			strength = float64(result.WinningScore)
		}
		a.tracker.RecordHandResult(id, winners[id], p.Chips, strength)
	}
}

// finishGame settles any pot still in flight, declares the game winner and
// publishes the final update.
func (a *Arena) finishGame(handsPlayed int, reason string) {
	var winnerID string
	leader := 0
	for _, p := range a.state.Players {
		if p.Chips > leader {
			leader = p.Chips
			winnerID = p.ID
		}
	}
	if winnerID != "" {
		a.state.AwardPotTo(winnerID)
	}

	a.handleEvent(events.GameEnded{
		GameID:      a.id,
		WinnerID:    winnerID,
		HandsPlayed: handsPlayed,
		At:          time.Now(),
	})

	a.logger.Info().
		Str("winner", a.names[winnerID]).
		Int("hands_played", handsPlayed).
		Str("reason", reason).
		Msg("game finished")
	a.logger.Debug().Msg(litter.Sdump(a.tracker.Ranking()))

	a.running.Store(false)
	a.publish()
}

// publish emits the current snapshot, rankings and chat to every sink.
func (a *Arena) publish() {
	update := Update{
		State:     a.state.Snapshot(),
		Rankings:  a.tracker.Ranking(),
		IsRunning: a.running.Load(),
		Chat:      a.chat.Entries(),
	}
	for _, sink := range a.sinks {
		sink.Publish(update)
	}
}

// sleep pauses for the presentational delay, waking early on cancellation.
func (a *Arena) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := a.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
