package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndLoadEvents(t *testing.T) {
	store := NewInMemoryEventStore()

	first := HandStarted{GameID: "g1", HandNumber: 1, At: time.Now()}
	second := PlayerActed{GameID: "g1", PlayerID: "p1", Action: "call", At: time.Now()}
	other := HandStarted{GameID: "g2", HandNumber: 1, At: time.Now()}

	require.NoError(t, store.Append(first))
	require.NoError(t, store.Append(second))
	require.NoError(t, store.Append(other))

	loaded, err := store.LoadEvents("g1")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "hand.started", loaded[0].Name())
	assert.Equal(t, "player.acted", loaded[1].Name())

	loaded, err = store.LoadEvents("g2")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestLoadEventsUnknownGame(t *testing.T) {
	store := NewInMemoryEventStore()
	loaded, err := store.LoadEvents("missing")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

type anonymousEvent struct{}

func (anonymousEvent) Name() string { return "anonymous" }

func TestAppendRejectsEventWithoutGameID(t *testing.T) {
	store := NewInMemoryEventStore()
	assert.Error(t, store.Append(anonymousEvent{}))
}

func TestExtractGameID(t *testing.T) {
	assert.Equal(t, "g1", ExtractGameID(HandEnded{GameID: "g1"}))
	assert.Equal(t, "g1", ExtractGameID(&HandEnded{GameID: "g1"}))
	assert.Equal(t, "", ExtractGameID(anonymousEvent{}))
}
