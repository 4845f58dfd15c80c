package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kurodenjiro/poker-x402-sub000/arena"
	"github.com/kurodenjiro/poker-x402-sub000/bots"
	"github.com/kurodenjiro/poker-x402-sub000/events"
	"github.com/kurodenjiro/poker-x402-sub000/server"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`

	Agents      []string      `help:"Agents as name:strategy pairs (strategies: random, caller, maniac)." default:"alice:random,bob:caller,carol:maniac,dave:random"`
	Chips       int           `help:"Starting chips per agent." default:"1000"`
	SmallBlind  int           `help:"Small blind." default:"10"`
	BigBlind    int           `help:"Big blind." default:"20"`
	MaxHands    int           `help:"Stop after this many hands (0 = play to elimination)." default:"200"`
	ActionDelay time.Duration `help:"Pause after each action, for watchability." default:"0s"`
	DealDelay   time.Duration `help:"Pause around dealing." default:"0s"`
	Seed        int64         `help:"Deterministic RNG seed (0 = random)." default:"0"`
	Listen      string        `help:"Spectator server listen address." default:":8080"`
	Debug       bool          `help:"Enable debug logging."`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("pokerarena"),
		kong.Description("Runs automated agents against each other in a Texas Hold'em arena"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	kctx.FatalIfErrorf(run(cli))
}

func run(cli CLI) error {
	logger := setupLogger(cli.Debug)

	seed := cli.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	names, providers, err := buildAgents(cli.Agents, rng)
	if err != nil {
		return err
	}

	cfg := arena.Config{
		AgentNames:    names,
		StartingChips: cli.Chips,
		SmallBlind:    cli.SmallBlind,
		BigBlind:      cli.BigBlind,
		MaxHands:      cli.MaxHands,
		ActionDelay:   cli.ActionDelay,
		DealDelay:     cli.DealDelay,
	}

	srv := server.New(logger)

	a, err := arena.New(cfg, providers,
		arena.WithLogger(logger),
		arena.WithSink(srv),
		arena.WithEventStore(events.NewInMemoryEventStore()),
		arena.WithRNG(rng),
	)
	if err != nil {
		return err
	}

	logger.Info().Str("game_id", a.ID()).Int64("seed", seed).Strs("agents", names).Msg("arena ready")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx, cli.Listen)
	})
	g.Go(func() error {
		defer stop()
		return a.Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	for i, record := range a.Rankings() {
		logger.Info().
			Int("rank", i+1).
			Str("agent", record.Name).
			Int("chips", record.Chips).
			Int("net", record.NetProfit).
			Float64("win_rate", record.WinRate).
			Msg("final standing")
	}
	return nil
}

// buildAgents parses name:strategy pairs into decision providers. Each
// randomized bot gets its own rand.Rand so they never share state across
// goroutines.
func buildAgents(specs []string, rng *rand.Rand) ([]string, map[string]arena.DecisionProvider, error) {
	names := make([]string, 0, len(specs))
	providers := make(map[string]arena.DecisionProvider, len(specs))

	for _, spec := range specs {
		name, strategy, ok := strings.Cut(spec, ":")
		if !ok {
			return nil, nil, fmt.Errorf("invalid agent spec %q, want name:strategy", spec)
		}

		var provider arena.DecisionProvider
		switch strategy {
		case "random":
			provider = bots.NewRandom(rand.New(rand.NewSource(rng.Int63())))
		case "caller":
			provider = bots.NewCaller()
		case "maniac":
			provider = bots.NewManiac(rand.New(rand.NewSource(rng.Int63())))
		default:
			return nil, nil, fmt.Errorf("unknown strategy %q for agent %q", strategy, name)
		}

		names = append(names, name)
		providers[name] = provider
	}

	return names, providers, nil
}

func setupLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
