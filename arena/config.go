package arena

import (
	"errors"
	"fmt"
	"time"
)

// Defaults applied by Config.withDefaults.
const (
	defaultMaxTurnsPerHand = 500
	defaultChatLogSize     = 200
	defaultDecisionTimeout = 30 * time.Second
)

// Config describes one game-level contest.
type Config struct {
	AgentNames      []string      // display names, >=2, unique
	StartingChips   int           // per-agent starting stack
	SmallBlind      int
	BigBlind        int
	MaxHands        int           // 0 means no cap
	ActionDelay     time.Duration // presentational pause after each action
	DealDelay       time.Duration // presentational pause around dealing
	DecisionTimeout time.Duration // per-decision provider deadline
	MaxTurnsPerHand int           // stuck-loop safety cap
	ChatLogSize     int           // retained narration entries
}

// Validate checks the configuration against the game-start contract.
func (c Config) Validate() error {
	if len(c.AgentNames) < 2 {
		return errors.New("at least 2 agents are required")
	}

	seen := make(map[string]bool, len(c.AgentNames))
	for _, name := range c.AgentNames {
		if name == "" {
			return errors.New("agent names must not be empty")
		}
		if seen[name] {
			return fmt.Errorf("duplicate agent name: %s", name)
		}
		seen[name] = true
	}

	if c.StartingChips <= 0 {
		return errors.New("starting chips must be positive")
	}
	if c.SmallBlind <= 0 || c.BigBlind <= 0 {
		return errors.New("blinds must be positive")
	}
	if c.BigBlind < c.SmallBlind {
		return errors.New("big blind must be at least the small blind")
	}
	if c.MaxHands < 0 {
		return errors.New("max hands must not be negative")
	}

	return nil
}

func (c Config) withDefaults() Config {
	if c.MaxTurnsPerHand <= 0 {
		c.MaxTurnsPerHand = defaultMaxTurnsPerHand
	}
	if c.ChatLogSize <= 0 {
		c.ChatLogSize = defaultChatLogSize
	}
	if c.DecisionTimeout <= 0 {
		c.DecisionTimeout = defaultDecisionTimeout
	}
	return c
}
