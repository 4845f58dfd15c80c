package connection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartReturnsOnContextCancel(t *testing.T) {
	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("manager did not stop after cancellation")
	}
}

func TestBroadcastReachesRegisteredClients(t *testing.T) {
	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Start(ctx)

	client := &Client{ID: "c1", Send: make(chan []byte, 1)}
	m.Register <- client
	require.Eventually(t, func() bool { return m.Count() == 1 }, time.Second, 10*time.Millisecond)

	m.Broadcast([]byte("hello"))
	select {
	case msg := <-client.Send:
		assert.Equal(t, "hello", string(msg))
	case <-time.After(time.Second):
		t.Fatal("broadcast never arrived")
	}
}

func TestBroadcastDropsWhenClientBufferIsFull(t *testing.T) {
	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Start(ctx)

	client := &Client{ID: "c1", Send: make(chan []byte, 1)}
	m.Register <- client
	require.Eventually(t, func() bool { return m.Count() == 1 }, time.Second, 10*time.Millisecond)

	// Second message must be dropped, not block the caller.
	m.Broadcast([]byte("one"))
	m.Broadcast([]byte("two"))

	assert.Equal(t, "one", string(<-client.Send))
	assert.Empty(t, client.Send)
}
