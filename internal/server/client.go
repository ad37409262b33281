package server

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"wordduel/internal/model"
	"wordduel/internal/protocol"
)

const (
	// recvSoftCap is the receive buffer size above which the consumed
	// prefix gets compacted away.
	recvSoftCap = 8 * 1024
	// recvCompactAt is the consumed-prefix size that triggers compaction.
	recvCompactAt = 4 * 1024
)

// Client is one connected player. A single reader goroutine owns the
// receive buffer; a single writePump goroutine owns conn writes. Every
// other goroutine talks to the socket through Send.
type Client struct {
	ID   model.ConnID
	conn net.Conn
	ip   string

	sendCh       chan []byte
	closeCh      chan struct{}
	closeOnce    sync.Once
	writeTimeout time.Duration

	recv     []byte
	consumed int

	closed atomic.Bool
}

// NewClient wraps an accepted connection. sendQueue bounds the async
// send channel; a full queue disconnects the client.
func NewClient(id model.ConnID, conn net.Conn, sendQueue int, writeTimeout time.Duration) *Client {
	return &Client{
		ID:           id,
		conn:         conn,
		ip:           conn.RemoteAddr().String(),
		sendCh:       make(chan []byte, sendQueue),
		closeCh:      make(chan struct{}),
		writeTimeout: writeTimeout,
		recv:         make([]byte, 0, 1024),
	}
}

// IP returns the remote address, for logging.
func (c *Client) IP() string { return c.ip }

// Send queues a complete frame for async delivery. Non-blocking: a full
// queue means the client cannot keep up, so it gets disconnected.
func (c *Client) Send(frame []byte) error {
	select {
	case c.sendCh <- frame:
		return nil
	case <-c.closeCh:
		return fmt.Errorf("client %d closed", c.ID)
	default:
		slog.Warn("send queue full, disconnecting slow client", "client", c.ip, "conn", c.ID)
		c.CloseAsync()
		return fmt.Errorf("send queue full")
	}
}

// writePump is the dedicated writer goroutine for this client. Drains
// sendCh and batches queued frames into a single writev when more than
// one is pending.
func (c *Client) writePump() {
	bufs := make(net.Buffers, 0, 64)

	for {
		select {
		case frame, ok := <-c.sendCh:
			if !ok {
				return
			}

			if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
				slog.Warn("set write deadline failed", "client", c.ip, "error", err)
				return
			}

			queued := len(c.sendCh)
			if queued == 0 {
				if _, err := c.conn.Write(frame); err != nil {
					slog.Warn("write failed", "client", c.ip, "error", err)
					c.CloseAsync()
					return
				}
				continue
			}

			bufs = bufs[:0]
			bufs = append(bufs, frame)
			for range queued {
				bufs = append(bufs, <-c.sendCh)
			}
			if _, err := bufs.WriteTo(c.conn); err != nil {
				slog.Warn("batch write failed", "client", c.ip, "error", err)
				c.CloseAsync()
				return
			}

		case <-c.closeCh:
			return
		}
	}
}

// readFrame reads from the socket until one complete frame is decoded,
// then returns it. Returns io.EOF (or the read error) when the peer is
// gone, and protocol errors when the stream is unrecoverable.
func (c *Client) readFrame() (protocol.Frame, error) {
	var chunk [4096]byte
	for {
		// Try what is already buffered first.
		for c.consumed < len(c.recv) {
			frame, n, status := protocol.TryDecodeOne(c.recv[c.consumed:])
			switch status {
			case protocol.DecodeOK:
				c.consumed += n
				// The payload aliases the receive buffer; detach it so
				// compaction and later reads cannot clobber it while the
				// frame waits in the dispatch queue.
				frame.Payload = append([]byte(nil), frame.Payload...)
				c.compact()
				return frame, nil
			case protocol.DecodeSkip:
				c.consumed += n
				continue
			case protocol.DecodeBad:
				return protocol.Frame{}, fmt.Errorf("unrecoverable frame from %s", c.ip)
			case protocol.DecodeNeedMore:
			}
			break
		}
		c.compact()

		n, err := c.conn.Read(chunk[:])
		if n > 0 {
			c.recv = append(c.recv, chunk[:n]...)
		}
		if err != nil {
			if err == io.EOF {
				return protocol.Frame{}, io.EOF
			}
			return protocol.Frame{}, fmt.Errorf("read from %s: %w", c.ip, err)
		}
	}
}

// compact drops the consumed prefix once it is worth the copy, keeping
// the buffer from growing without bound on chatty connections.
func (c *Client) compact() {
	if c.consumed == len(c.recv) {
		c.recv = c.recv[:0]
		c.consumed = 0
		return
	}
	if len(c.recv) > recvSoftCap && c.consumed > recvCompactAt {
		c.recv = append(c.recv[:0], c.recv[c.consumed:]...)
		c.consumed = 0
	}
}

// CloseAsync signals the writePump to stop without blocking. Safe to
// call multiple times.
func (c *Client) CloseAsync() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.closeCh)
	})
}

// Close stops the writePump and closes the socket.
func (c *Client) Close() error {
	c.CloseAsync()
	return c.conn.Close()
}

// Closed reports whether the client has been shut down.
func (c *Client) Closed() bool { return c.closed.Load() }
