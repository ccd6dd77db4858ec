// Package server is the hub shared by every session of one process: it tracks
// connected players, saves finished runs and publishes leaderboard snapshots.
package server

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/earthkeeper/internal/game"
	"github.com/tomz197/earthkeeper/internal/leaderboard"
	"github.com/tomz197/earthkeeper/internal/loop/config"
)

// GameServer is the interface clients use to communicate with the hub.
// Decouples the Client from the concrete Server implementation.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	SendStatus(clientID int, status Status)
	SubmitResult(clientID int, result game.Result)
	GetSnapshot() *Snapshot
}

// Server owns the leaderboard store and the list of connected clients.
type Server struct {
	store        leaderboard.Store
	logger       *log.Logger
	topSize      int
	snapshot     atomic.Pointer[Snapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	statusCh     chan ClientStatus
	resultCh     chan ClientResult
	registerCh   chan *ClientHandle
	unregisterCh chan int
	mu           sync.RWMutex

	topScores []leaderboard.Record
	dirty     bool
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the hub.
type ClientHandle struct {
	ID       int
	Username string           // Display name for this client
	Status   Status           // Last reported run status
	EventsCh chan ClientEvent // Events sent to client (saved score, shutdown)
}

// Status is what a client reports about its current run.
type Status struct {
	Playing bool
	Score   int
	Level   int
}

// ClientStatus is a status update from a specific client.
type ClientStatus struct {
	ClientID int
	Status   Status
}

// ClientResult is a finished run waiting to be saved.
type ClientResult struct {
	ClientID int
	Result   game.Result
}

// ClientEvent represents an event sent from the hub to a client.
type ClientEvent struct {
	Type ClientEventType
	Rank int // 1-based leaderboard position for EventScoreSaved, 0 if outside
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventScoreSaved ClientEventType = iota
	EventScoreFailed
	EventServerShutdown
)

// NewServer creates a hub backed by store. topSize is the number of records
// kept in snapshots.
func NewServer(store leaderboard.Store, logger *log.Logger, topSize int) *Server {
	if topSize <= 0 {
		topSize = config.LeaderboardSize
	}
	s := &Server{
		store:        store,
		logger:       logger,
		topSize:      topSize,
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		statusCh:     make(chan ClientStatus, 256),
		resultCh:     make(chan ClientResult, config.SubmitBuffer),
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
	}

	// Create initial empty snapshot
	s.snapshot.Store(&Snapshot{UpdatedAt: time.Now()})

	return s
}

// Run starts the hub loop. Blocks until the context is cancelled. Results
// still queued at that point are saved before returning.
func (s *Server) Run(ctx context.Context) error {
	s.refreshTop(ctx)
	s.createSnapshot()

	ticker := time.NewTicker(config.HubTickTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.drainResults(context.WithoutCancel(ctx))
			return nil
		case <-ticker.C:
		}

		s.processRegistrations()
		s.collectStatus()
		s.drainResults(ctx)
		s.createSnapshot()
	}
}

// Shutdown gracefully shuts down the hub by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the hub context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	// Notify all connected clients about the shutdown
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}

	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a client from the hub.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// SendStatus reports a client's live run status.
func (s *Server) SendStatus(clientID int, status Status) {
	select {
	case s.statusCh <- ClientStatus{ClientID: clientID, Status: status}:
	default:
		// Status channel full, drop update
	}
}

// SubmitResult queues a finished run for saving. It never blocks: when the
// queue is full the result is dropped with a warning.
func (s *Server) SubmitResult(clientID int, result game.Result) {
	select {
	case s.resultCh <- ClientResult{ClientID: clientID, Result: result}:
	default:
		s.logger.Warn("score queue full, dropping result", "client", clientID, "nickname", result.Nickname, "score", result.Score)
	}
}

// GetSnapshot returns the current snapshot.
func (s *Server) GetSnapshot() *Snapshot {
	return s.snapshot.Load()
}

// processRegistrations handles pending client registrations/unregistrations.
func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			s.mu.Unlock()
			s.logger.Debug("client registered", "client", handle.ID, "username", handle.Username)
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
			}
			s.mu.Unlock()
			s.logger.Debug("client unregistered", "client", clientID)
		default:
			return
		}
	}
}

// collectStatus gathers all pending status updates from clients.
func (s *Server) collectStatus() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		select {
		case cs := <-s.statusCh:
			if handle, ok := s.clients[cs.ClientID]; ok {
				handle.Status = cs.Status
			}
		default:
			return
		}
	}
}

// drainResults saves every queued result.
func (s *Server) drainResults(ctx context.Context) {
	for {
		select {
		case cr := <-s.resultCh:
			s.save(ctx, cr)
		default:
			return
		}
	}
}

// save stores one result and tells the owning client how it went. Failures
// are logged and never reach the game.
func (s *Server) save(ctx context.Context, cr ClientResult) {
	ctx, cancel := context.WithTimeout(ctx, config.SaveTimeout)
	defer cancel()

	record := leaderboard.NewRecord(cr.Result)
	if err := s.store.Save(ctx, record); err != nil {
		s.logger.Error("saving score failed", "client", cr.ClientID, "nickname", record.Nickname, "err", err)
		s.notify(cr.ClientID, ClientEvent{Type: EventScoreFailed})
		return
	}
	s.logger.Info("score saved", "nickname", record.Nickname, "score", record.Score, "level", record.Level, "difficulty", record.Difficulty)

	s.refreshTop(ctx)
	rank := 0
	for i, r := range s.topScores {
		if r.ID == record.ID {
			rank = i + 1
			break
		}
	}
	s.notify(cr.ClientID, ClientEvent{Type: EventScoreSaved, Rank: rank})
}

func (s *Server) refreshTop(ctx context.Context) {
	top, err := s.store.Top(ctx, s.topSize)
	if err != nil {
		s.logger.Error("loading leaderboard failed", "err", err)
		return
	}
	s.topScores = top
	s.dirty = true
}

func (s *Server) notify(clientID int, ev ClientEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if handle, ok := s.clients[clientID]; ok {
		select {
		case handle.EventsCh <- ev:
		default:
		}
	}
}

// createSnapshot publishes an immutable snapshot of the hub state.
func (s *Server) createSnapshot() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	live := make([]LiveEntry, 0, len(s.clients))
	for _, handle := range s.clients {
		live = append(live, LiveEntry{
			Username: handle.Username,
			Score:    handle.Status.Score,
			Level:    handle.Status.Level,
			Playing:  handle.Status.Playing,
			clientID: handle.ID,
		})
	}
	sortLive(live)

	prev := s.snapshot.Load()
	top := prev.TopScores
	if s.dirty {
		top = slices.Clone(s.topScores)
		s.dirty = false
	}

	s.snapshot.Store(&Snapshot{
		TopScores: top,
		Live:      live,
		Players:   len(s.clients),
		UpdatedAt: time.Now(),
	})
}
