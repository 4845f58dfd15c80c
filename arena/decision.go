package arena

import (
	"context"

	"github.com/kurodenjiro/poker-x402-sub000/game"
	"github.com/kurodenjiro/poker-x402-sub000/stats"
)

// Decision is an agent's answer for its turn. Amount is only meaningful
// for raises, where it is the target total bet for the round.
type Decision struct {
	Action game.Action `json:"action"`
	Amount int         `json:"amount,omitempty"`
}

// DecisionProvider produces a betting decision for an agent given a
// read-only snapshot of the game. Implementations may be slow (for example
// network-bound); the arena awaits each call and treats errors, timeouts
// and illegal decisions as a fold.
type DecisionProvider interface {
	Decide(ctx context.Context, snapshot game.Snapshot, agentID string) (Decision, error)
}

// DecisionFunc adapts a function to the DecisionProvider interface.
type DecisionFunc func(ctx context.Context, snapshot game.Snapshot, agentID string) (Decision, error)

func (f DecisionFunc) Decide(ctx context.Context, snapshot game.Snapshot, agentID string) (Decision, error) {
	return f(ctx, snapshot, agentID)
}

// Update is what the arena publishes to external sinks after every applied
// action and at hand boundaries. All fields are copies; sinks may retain
// them freely.
type Update struct {
	State     game.Snapshot  `json:"state"`
	Rankings  []stats.Record `json:"rankings"`
	IsRunning bool           `json:"isRunning"`
	Chat      []ChatEntry    `json:"chat"`
}

// StateSink receives arena updates. Publish must not block: delivery is
// fire-and-forget from the arena's perspective.
type StateSink interface {
	Publish(Update)
}

// SinkFunc adapts a function to the StateSink interface.
type SinkFunc func(Update)

func (f SinkFunc) Publish(update Update) { f(update) }
