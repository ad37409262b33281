// Package server owns the TCP surface: accepting connections, framing,
// dispatching decoded packets to the game services and pushing replies
// and notifications back out.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"wordduel/internal/config"
	"wordduel/internal/metrics"
)

// Server accepts player connections and runs them until shutdown.
type Server struct {
	cfg        config.Server
	clients    *ClientManager
	handler    *Handler
	dispatcher *Dispatcher

	limiter *rate.Limiter

	mu       sync.Mutex
	listener net.Listener
}

// New assembles the network front end around an already wired handler.
func New(cfg config.Server, clients *ClientManager, handler *Handler) *Server {
	s := &Server{
		cfg:        cfg,
		clients:    clients,
		handler:    handler,
		dispatcher: NewDispatcher(handler, cfg.Workers, cfg.WorkQueueSize),
	}
	if cfg.FloodProtection {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.AcceptRate), cfg.AcceptBurst)
	}
	return s
}

// Run begins listening on cfg.BindAddress:cfg.Port and serves until ctx
// is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.BindAddress, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	return s.Serve(ctx, ln)
}

// Serve accepts connections from the given listener. Split out from Run
// so tests can hand in their own listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.dispatcher.Start(ctx)

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	var wg sync.WaitGroup
	slog.Info("server started", "address", ln.Addr())
	s.acceptLoop(ctx, &wg, ln)

	wg.Wait()
	s.dispatcher.Wait()
	return nil
}

// Addr returns the bound listen address, once Run has opened it.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) acceptLoop(ctx context.Context, wg *sync.WaitGroup, ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("accept failed", "error", err)
			continue
		}

		if s.limiter != nil && !s.limiter.Allow() {
			slog.Warn("accept rate exceeded, dropping connection", "remote", conn.RemoteAddr())
			conn.Close()
			continue
		}

		if tcpConn, ok := conn.(*net.TCPConn); ok {
			if err := tcpConn.SetKeepAlive(true); err != nil {
				slog.Warn("set keepalive failed", "error", err)
			}
			if err := tcpConn.SetKeepAlivePeriod(s.cfg.KeepAliveDuration()); err != nil {
				slog.Warn("set keepalive period failed", "error", err)
			}
		}

		metrics.ConnectionsAccepted.Inc()
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConnection(ctx, conn)
		}()
	}
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	client := NewClient(s.clients.NextID(), conn, s.cfg.SendQueueSize, s.cfg.WriteTimeoutDuration())
	s.clients.Register(client)
	metrics.ConnectionsActive.Set(float64(s.clients.Count()))
	slog.Debug("client connected", "conn", client.ID, "remote", client.IP())

	defer func() {
		client.Close()
		s.clients.Unregister(client.ID)
		s.dispatcher.Forget(client.ID)
		metrics.ConnectionsActive.Set(float64(s.clients.Count()))
		s.handler.OnDisconnect(ctx, client)
	}()

	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-client.closeCh:
			conn.Close()
		}
	}()

	go client.writePump()

	for {
		frame, err := client.readFrame()
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil && !client.Closed() {
				slog.Warn("closing connection", "conn", client.ID, "error", err)
			}
			return
		}
		metrics.FramesReceived.Inc()
		s.dispatcher.Submit(ctx, client, frame)
	}
}

// RunHousekeeping periodically drops sessions whose connection died
// without a clean disconnect and garbage-collects ended matches. Blocks
// until ctx is done.
func (s *Server) RunHousekeeping(ctx context.Context) {
	sessionTick := time.NewTicker(time.Duration(s.cfg.SessionSweepInterval) * time.Second)
	defer sessionTick.Stop()
	matchTick := time.NewTicker(time.Duration(s.cfg.MatchSweepInterval) * time.Second)
	defer matchTick.Stop()
	retention := time.Duration(s.cfg.MatchRetention) * time.Second

	for {
		select {
		case <-ctx.Done():
			return
		case <-sessionTick.C:
			if n := s.handler.auth.CleanStale(s.clients.IsLive); n > 0 {
				slog.Info("swept stale sessions", "count", n)
				metrics.SessionsActive.Set(float64(s.handler.auth.SessionCount()))
			}
		case <-matchTick.C:
			if n := s.handler.matches.SweepEnded(retention); n > 0 {
				slog.Info("swept ended matches", "count", n)
			}
		}
	}
}

// ServeMetrics exposes the Prometheus endpoint when configured. Blocks
// until ctx is done.
func ServeMetrics(ctx context.Context, addr string) error {
	if addr == "" {
		<-ctx.Done()
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("metrics endpoint up", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
