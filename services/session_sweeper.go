package services

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/akinalp/gamevault/pkg/logger"
)

// SessionSweeper periodically removes expired sessions in the background.
// Expired sessions are already rejected on lookup; sweeping only reclaims storage.
type SessionSweeper interface {
	// Start launches the sweeper goroutine. Called once from main.
	Start()
	// Stop ends the goroutine and waits for it. Safe to call more than once.
	Stop()
}

type sessionSweeper struct {
	sessions SessionService
	interval time.Duration
	clock    clock.Clock

	mu       sync.Mutex
	started  bool
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

var sweeperLog = logger.For("session-sweeper")

// NewSessionSweeper, constructor. A nil clock uses the wall clock.
func NewSessionSweeper(sessions SessionService, interval time.Duration, clk clock.Clock) SessionSweeper {
	if clk == nil {
		clk = clock.New()
	}
	return &sessionSweeper{
		sessions: sessions,
		interval: interval,
		clock:    clk,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs a sweep immediately, then on every tick.
func (s *sessionSweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	sweeperLog.WithField("interval", s.interval).Info("starting")

	go func() {
		defer close(s.done)

		s.sweep()

		ticker := s.clock.Ticker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopCh:
				sweeperLog.Info("stopped")
				return
			}
		}
	}()
}

func (s *sessionSweeper) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()

		close(s.stopCh)
		if started {
			<-s.done
		}
	})
}

func (s *sessionSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purged, err := s.sessions.PurgeExpired(ctx)
	if err != nil {
		sweeperLog.WithError(err).Error("purge failed")
		return
	}
	if purged > 0 {
		sweeperLog.WithField("purged", purged).Info("expired sessions removed")
	}
}
