package server

import (
	"context"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordduel/internal/protocol"
)

func TestClientManagerLifecycle(t *testing.T) {
	m := NewClientManager()

	assert.EqualValues(t, 1, m.NextID())
	assert.EqualValues(t, 2, m.NextID())

	left, right := net.Pipe()
	defer left.Close()
	defer right.Close()

	c := NewClient(m.NextID(), left, 4, time.Second)
	m.Register(c)
	assert.True(t, m.IsLive(c.ID))
	assert.Equal(t, 1, m.Count())

	got, ok := m.Get(c.ID)
	require.True(t, ok)
	assert.Same(t, c, got)

	seen := 0
	m.ForEach(func(*Client) { seen++ })
	assert.Equal(t, 1, seen)

	m.Unregister(c.ID)
	assert.False(t, m.IsLive(c.ID))
	m.Unregister(c.ID)
	assert.Equal(t, 0, m.Count())
}

// recordingHandler captures handled frame types in arrival order.
type recordingHandler struct {
	mu    sync.Mutex
	types []uint16
	done  chan struct{}
	want  int
}

func (h *recordingHandler) Handle(_ context.Context, _ *Client, frame protocol.Frame) {
	h.mu.Lock()
	h.types = append(h.types, frame.Type)
	if len(h.types) == h.want {
		close(h.done)
	}
	h.mu.Unlock()
}

func TestDispatcherKeepsPerConnectionOrder(t *testing.T) {
	const frames = 32
	h := &recordingHandler{done: make(chan struct{}), want: frames}
	d := NewDispatcher(h, 4, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	left, right := net.Pipe()
	defer left.Close()
	defer right.Close()
	c := NewClient(1, left, 4, time.Second)

	// All from one connection: even with four workers the replies must
	// come back in submit order.
	for i := 0; i < frames; i++ {
		d.Submit(ctx, c, protocol.Frame{Type: uint16(i)})
	}

	select {
	case <-h.done:
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher never drained the backlog")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	require.Len(t, h.types, frames)
	for i, typ := range h.types {
		assert.EqualValues(t, i, typ)
	}
}

// gatedHandler blocks every Handle call until released.
type gatedHandler struct {
	entered chan struct{}
	gate    chan struct{}

	mu      sync.Mutex
	handled int
}

func (h *gatedHandler) Handle(context.Context, *Client, protocol.Frame) {
	h.entered <- struct{}{}
	<-h.gate
	h.mu.Lock()
	h.handled++
	h.mu.Unlock()
}

func TestDispatcherDropsBacklogOfClosedClient(t *testing.T) {
	h := &gatedHandler{entered: make(chan struct{}, 1), gate: make(chan struct{})}
	d := NewDispatcher(h, 1, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	left, right := net.Pipe()
	defer left.Close()
	defer right.Close()
	c := NewClient(1, left, 4, time.Second)

	d.Submit(ctx, c, protocol.Frame{Type: 1})
	<-h.entered

	// These queue behind the in-flight frame, then the client goes away.
	d.Submit(ctx, c, protocol.Frame{Type: 2})
	d.Submit(ctx, c, protocol.Frame{Type: 3})
	c.CloseAsync()
	close(h.gate)

	// Give the worker a moment to decide about the backlog.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.mu.Lock()
		n := h.handled
		h.mu.Unlock()
		if n >= 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Equal(t, 1, h.handled, "backlog of a closed client must be dropped")
}

func TestClientWritePumpDelivers(t *testing.T) {
	left, right := net.Pipe()
	defer right.Close()

	c := NewClient(1, left, 8, time.Second)
	go c.writePump()
	defer c.Close()

	frame := protocol.EncodeFrame(0x0201, []byte("pong"))
	require.NoError(t, c.Send(frame))

	got := make([]byte, len(frame))
	_, err := io.ReadFull(right, got)
	require.NoError(t, err)
	assert.Equal(t, frame, got)
}

func TestClientSendFullQueueDisconnects(t *testing.T) {
	left, right := net.Pipe()
	defer left.Close()
	defer right.Close()

	// No writePump draining, queue of one.
	c := NewClient(1, left, 1, time.Second)
	require.NoError(t, c.Send([]byte{1}))

	err := c.Send([]byte{2})
	require.Error(t, err)
	assert.True(t, c.Closed())

	// After the close every Send fails fast.
	assert.Error(t, c.Send([]byte{3}))
}

func TestClientReadFrameAcrossSplitWrites(t *testing.T) {
	left, right := net.Pipe()
	defer right.Close()

	c := NewClient(1, left, 4, time.Second)
	defer c.Close()

	frame := protocol.EncodeFrame(0x0101, []byte("hello"))
	go func() {
		// Header and payload arrive in separate TCP segments.
		right.Write(frame[:3])
		right.Write(frame[3:])
	}()

	got, err := c.readFrame()
	require.NoError(t, err)
	assert.EqualValues(t, 0x0101, got.Type)
	assert.Equal(t, []byte("hello"), got.Payload)
}

func TestClientReadFrameSkipsBadVersion(t *testing.T) {
	left, right := net.Pipe()
	defer right.Close()

	c := NewClient(1, left, 4, time.Second)
	defer c.Close()

	stale := protocol.EncodeFrame(0x0101, nil)
	stale[0] = 9
	good := protocol.EncodeFrame(0x0103, []byte("ok"))

	go func() {
		right.Write(stale)
		right.Write(good)
	}()

	got, err := c.readFrame()
	require.NoError(t, err)
	assert.EqualValues(t, 0x0103, got.Type)
}

func TestClientReadFrameEOF(t *testing.T) {
	left, right := net.Pipe()

	c := NewClient(1, left, 4, time.Second)
	defer c.Close()

	right.Close()
	_, err := c.readFrame()
	assert.ErrorIs(t, err, io.EOF)
}
